package cli

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/alexanderramin/jalon/internal/cli/formatter"
	"github.com/alexanderramin/jalon/internal/domain"
)

func newProfileCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Manage project profile lines",
	}

	cmd.AddCommand(
		newProfileAddCmd(app),
		newProfileListCmd(app),
		newProfileUpdateCmd(app),
		newProfileRemoveCmd(app),
	)

	return cmd
}

func newProfileAddCmd(app *App) *cobra.Command {
	var projectRef, role, involvement, rate string
	var workload float64

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Staff a role on a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID, err := resolveProjectID(ctx, app, projectRef)
			if err != nil {
				return err
			}
			dailyRate, err := decimal.NewFromString(rate)
			if err != nil {
				return fmt.Errorf("invalid daily rate %q", rate)
			}
			p := &domain.ProfileLine{
				ProjectID:    projectID,
				Role:         role,
				Involvement:  domain.Involvement(involvement),
				DailyRate:    dailyRate,
				WorkloadDays: workload,
			}
			if err := app.Profiles.Create(ctx, p); err != nil {
				return err
			}
			fmt.Printf("Added profile %s (%s)\n", p.Role, p.ID[:8])
			return nil
		},
	}

	cmd.Flags().StringVar(&projectRef, "project", "", "Project ID")
	cmd.Flags().StringVar(&role, "role", "", "Role name")
	cmd.Flags().StringVar(&involvement, "involvement", string(domain.InvolvementFull), "Involvement (full, three_quarter, half, quarter)")
	cmd.Flags().StringVar(&rate, "rate", "0", "Daily rate")
	cmd.Flags().Float64Var(&workload, "days", 0, "Assigned workload in days")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("role")

	return cmd
}

func newProfileListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list <project>",
		Short: "List the project's profile lines",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			profiles, err := app.Profiles.ListByProject(ctx, projectID)
			if err != nil {
				return err
			}
			if len(profiles) == 0 {
				fmt.Println("No profiles yet.")
				return nil
			}
			rows := make([][]string, 0, len(profiles))
			for _, p := range profiles {
				rows = append(rows, []string{
					p.ID[:8],
					p.Role,
					string(p.Involvement),
					p.DailyRate.StringFixed(2),
					formatter.FormatDays(p.WorkloadDays),
				})
			}
			fmt.Print(formatter.RenderTable([]string{"ID", "Rôle", "Implication", "TJM", "Charge"}, rows))
			return nil
		},
	}
}

func newProfileUpdateCmd(app *App) *cobra.Command {
	var projectRef, role, involvement, rate string
	var workload float64

	cmd := &cobra.Command{
		Use:   "update <profile-id>",
		Short: "Update a profile line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID, err := resolveProjectID(ctx, app, projectRef)
			if err != nil {
				return err
			}
			p, err := findProfile(ctx, app, projectID, args[0])
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("role") {
				p.Role = role
			}
			if cmd.Flags().Changed("involvement") {
				p.Involvement = domain.Involvement(involvement)
			}
			if cmd.Flags().Changed("rate") {
				dailyRate, err := decimal.NewFromString(rate)
				if err != nil {
					return fmt.Errorf("invalid daily rate %q", rate)
				}
				p.DailyRate = dailyRate
			}
			if cmd.Flags().Changed("days") {
				p.WorkloadDays = workload
			}
			if err := app.Profiles.Update(ctx, p); err != nil {
				return err
			}
			fmt.Println("Profile updated.")
			return nil
		},
	}

	cmd.Flags().StringVar(&projectRef, "project", "", "Project ID")
	cmd.Flags().StringVar(&role, "role", "", "Role name")
	cmd.Flags().StringVar(&involvement, "involvement", "", "Involvement (full, three_quarter, half, quarter)")
	cmd.Flags().StringVar(&rate, "rate", "", "Daily rate")
	cmd.Flags().Float64Var(&workload, "days", 0, "Assigned workload in days")
	_ = cmd.MarkFlagRequired("project")

	return cmd
}

func newProfileRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <profile-id>",
		Short: "Remove a profile line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Profiles.Delete(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Println("Profile removed.")
			return nil
		},
	}
}

func findProfile(ctx context.Context, app *App, projectID, id string) (*domain.ProfileLine, error) {
	profiles, err := app.Profiles.ListByProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	for _, p := range profiles {
		if p.ID == id || (len(id) >= 4 && len(p.ID) >= len(id) && p.ID[:len(id)] == id) {
			return p, nil
		}
	}
	return nil, fmt.Errorf("profile %q not found on this project", id)
}
