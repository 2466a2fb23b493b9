package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/jalon/internal/cli/formatter"
	"github.com/alexanderramin/jalon/internal/domain"
)

func newCatalogCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage the requirement catalog",
	}

	cmd.AddCommand(
		newCatalogAddCmd(app),
		newCatalogListCmd(app),
		newCatalogRemoveCmd(app),
		newCatalogSubCmd(app),
	)

	return cmd
}

func newCatalogAddCmd(app *App) *cobra.Command {
	var departmentCode, name, reqType, description string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a catalog requirement",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			dep, err := app.Departments.GetByCode(ctx, departmentCode)
			if err != nil {
				return fmt.Errorf("department %q: %w", departmentCode, err)
			}
			r := &domain.Requirement{
				Name:         name,
				Type:         domain.RequirementType(reqType),
				DepartmentID: dep.ID,
				Description:  description,
			}
			if err := app.Catalog.CreateRequirement(ctx, r); err != nil {
				return err
			}
			fmt.Printf("Added %s (%s)\n", r.Name, r.ID[:8])
			return nil
		},
	}

	cmd.Flags().StringVar(&departmentCode, "department", "", "Department code")
	cmd.Flags().StringVar(&name, "name", "", "Requirement name")
	cmd.Flags().StringVar(&reqType, "type", string(domain.RequirementInternal), "Requirement type (internal, external)")
	cmd.Flags().StringVar(&description, "description", "", "Description")
	_ = cmd.MarkFlagRequired("department")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newCatalogListCmd(app *App) *cobra.Command {
	var departmentCode string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog requirements",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			var reqs []*domain.Requirement
			var err error
			if departmentCode != "" {
				dep, derr := app.Departments.GetByCode(ctx, departmentCode)
				if derr != nil {
					return fmt.Errorf("department %q: %w", departmentCode, derr)
				}
				reqs, err = app.Catalog.ListRequirementsByDepartment(ctx, dep.ID)
			} else {
				reqs, err = app.Catalog.ListRequirements(ctx)
			}
			if err != nil {
				return err
			}
			if len(reqs) == 0 {
				fmt.Println("Catalog is empty.")
				return nil
			}
			rows := make([][]string, 0, len(reqs))
			for _, r := range reqs {
				rows = append(rows, []string{r.ID[:8], r.Name, string(r.Type), r.Description})
			}
			fmt.Print(formatter.RenderTable([]string{"ID", "Exigence", "Type", "Description"}, rows))
			return nil
		},
	}

	cmd.Flags().StringVar(&departmentCode, "department", "", "Restrict to one department code")

	return cmd
}

func newCatalogRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <requirement-id>",
		Short: "Remove a catalog requirement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Catalog.DeleteRequirement(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Println("Requirement removed.")
			return nil
		},
	}
}

func newCatalogSubCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sub",
		Short: "Manage catalog sub-requirements",
	}

	add := &cobra.Command{
		Use:   "add <requirement-id> <name> <days>",
		Short: "Add a sub-requirement with its default workload",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			days, err := strconv.ParseFloat(args[2], 64)
			if err != nil {
				return fmt.Errorf("invalid workload %q", args[2])
			}
			s := &domain.Subrequirement{
				RequirementID: args[0],
				Name:          args[1],
				WorkloadDays:  days,
			}
			if err := app.Catalog.CreateSubrequirement(context.Background(), s); err != nil {
				return err
			}
			fmt.Printf("Added %s (%s)\n", s.Name, s.ID[:8])
			return nil
		},
	}

	list := &cobra.Command{
		Use:   "list <requirement-id>",
		Short: "List a requirement's sub-requirements",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			subs, err := app.Catalog.ListSubrequirements(context.Background(), args[0])
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(subs))
			for _, s := range subs {
				rows = append(rows, []string{s.ID[:8], s.Name, formatter.FormatDays(s.WorkloadDays)})
			}
			fmt.Print(formatter.RenderTable([]string{"ID", "Nom", "Charge"}, rows))
			return nil
		},
	}

	remove := &cobra.Command{
		Use:   "remove <sub-id>",
		Short: "Remove a sub-requirement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Catalog.DeleteSubrequirement(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Println("Sub-requirement removed.")
			return nil
		},
	}

	cmd.AddCommand(add, list, remove)
	return cmd
}
