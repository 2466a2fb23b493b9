package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/jalon/internal/cli/formatter"
	"github.com/alexanderramin/jalon/internal/domain"
)

func newRequirementCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "requirement",
		Aliases: []string{"req"},
		Short:   "Manage requirement lines",
	}

	cmd.AddCommand(
		newRequirementAddCmd(app),
		newRequirementAddCustomCmd(app),
		newRequirementListCmd(app),
		newRequirementSetDaysCmd(app),
		newRequirementSubCmd(app),
		newRequirementMoveUpCmd(app),
		newRequirementMoveDownCmd(app),
		newRequirementMakeLastCmd(app),
		newRequirementSetOrderCmd(app),
		newRequirementRemoveCmd(app),
		newRequirementClearCmd(app),
		newRequirementInsertMissingCmd(app),
		newRequirementInsertAllCmd(app),
	)

	return cmd
}

func newRequirementAddCmd(app *App) *cobra.Command {
	var projectRef, requirementName, departmentCode string
	var order int

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a catalog requirement to a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID, err := resolveProjectID(ctx, app, projectRef)
			if err != nil {
				return err
			}
			dep, err := app.Departments.GetByCode(ctx, departmentCode)
			if err != nil {
				return fmt.Errorf("department %q: %w", departmentCode, err)
			}
			req, err := findRequirement(ctx, app, dep.ID, requirementName)
			if err != nil {
				return err
			}

			line := &domain.StandardLine{
				LineCore:      domain.LineCore{ProjectID: projectID, Order: order},
				RequirementID: req.ID,
				DepartmentID:  dep.ID,
			}
			if err := app.Lines.CreateStandard(ctx, line); err != nil {
				return err
			}
			fmt.Printf("Added %s at order %d (%s)\n", req.Name, line.Order, line.ID[:8])
			return nil
		},
	}

	cmd.Flags().StringVar(&projectRef, "project", "", "Project ID")
	cmd.Flags().StringVar(&requirementName, "requirement", "", "Catalog requirement name")
	cmd.Flags().StringVar(&departmentCode, "department", "", "Department code")
	cmd.Flags().IntVar(&order, "order", 0, "Scheduling order (0 appends at the end)")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("requirement")
	_ = cmd.MarkFlagRequired("department")

	return cmd
}

func newRequirementAddCustomCmd(app *App) *cobra.Command {
	var projectRef, name string
	var order int

	cmd := &cobra.Command{
		Use:   "add-custom",
		Short: "Add a free-form requirement line (evolution projects)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID, err := resolveProjectID(ctx, app, projectRef)
			if err != nil {
				return err
			}
			line := &domain.CustomLine{
				LineCore: domain.LineCore{ProjectID: projectID, Order: order},
				Name:     name,
			}
			if err := app.Lines.CreateCustom(ctx, line); err != nil {
				return err
			}
			fmt.Printf("Added %s at order %d (%s)\n", name, line.Order, line.ID[:8])
			return nil
		},
	}

	cmd.Flags().StringVar(&projectRef, "project", "", "Project ID")
	cmd.Flags().StringVar(&name, "name", "", "Requirement name")
	cmd.Flags().IntVar(&order, "order", 0, "Scheduling order (0 appends at the end)")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newRequirementListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list <project>",
		Short: "List the project's requirement lines",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			lines, err := app.Lines.ListByProject(ctx, projectID)
			if err != nil {
				return err
			}
			if len(lines) == 0 {
				fmt.Println("No requirement lines yet.")
				return nil
			}
			rows := make([][]string, 0, len(lines))
			for _, l := range lines {
				core := l.Core()
				rows = append(rows, []string{
					core.ID[:8],
					strconv.Itoa(core.Order),
					l.DisplayName(),
					formatter.FormatDays(core.EstimatedWorkDays),
					string(core.Complexity()),
					formatter.FormatDate(core.PlannedStartDate),
					formatter.FormatDate(core.PlannedEndDate),
				})
			}
			fmt.Print(formatter.RenderTable(
				[]string{"ID", "Ordre", "Exigence", "Charge", "Complexité", "Début", "Fin"}, rows))
			return nil
		},
	}
}

// newRequirementSetDaysCmd sets a line's workload when the line has at most
// one workload line; finer breakdowns go through "requirement sub".
func newRequirementSetDaysCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set-days <line-id> <days>",
		Short: "Set a line's estimated workload in days",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			days, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid workload %q", args[1])
			}
			line, err := app.Lines.GetByID(ctx, args[0])
			if err != nil {
				return err
			}
			subs, err := app.Sublines.ListByLine(ctx, line.Core().ID)
			if err != nil {
				return err
			}
			switch len(subs) {
			case 0:
				sub := &domain.SubrequirementLine{
					RequirementLineID: line.Core().ID,
					Name:              line.DisplayName(),
					WorkloadDays:      days,
				}
				return app.Sublines.Create(ctx, sub)
			case 1:
				return app.Sublines.SetWorkload(ctx, subs[0].ID, days)
			default:
				return fmt.Errorf("line has %d workload lines; edit them with \"requirement sub set\"", len(subs))
			}
		},
	}
}

func newRequirementSubCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sub",
		Short: "Manage subrequirement workload lines",
	}

	add := &cobra.Command{
		Use:   "add <line-id> <name> <days>",
		Short: "Add a workload line under a requirement line",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			days, err := strconv.ParseFloat(args[2], 64)
			if err != nil {
				return fmt.Errorf("invalid workload %q", args[2])
			}
			sub := &domain.SubrequirementLine{
				RequirementLineID: args[0],
				Name:              args[1],
				WorkloadDays:      days,
			}
			if err := app.Sublines.Create(context.Background(), sub); err != nil {
				return err
			}
			fmt.Printf("Added %s (%s)\n", sub.Name, sub.ID[:8])
			return nil
		},
	}

	list := &cobra.Command{
		Use:   "list <line-id>",
		Short: "List a line's workload lines",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			subs, err := app.Sublines.ListByLine(context.Background(), args[0])
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

	set := &cobra.Command{
		Use:   "set <sub-id> <days>",
		Short: "Set a workload line's estimate",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			days, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid workload %q", args[1])
			}
			if err := app.Sublines.SetWorkload(context.Background(), args[0], days); err != nil {
				return err
			}
			fmt.Println("Workload updated.")
			return nil
		},
	}

	remove := &cobra.Command{
		Use:   "remove <sub-id>",
		Short: "Remove a workload line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Sublines.Delete(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Println("Workload line removed.")
			return nil
		},
	}

	cmd.AddCommand(add, list, set, remove)
	return cmd
}

func newRequirementMoveUpCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "move-up <line-id>",
		Short: "Move a line one order slot earlier",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Lines.MoveUp(context.Background(), args[0])
		},
	}
}

func newRequirementMoveDownCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "move-down <line-id>",
		Short: "Move a line one order slot later",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Lines.MoveDown(context.Background(), args[0])
		},
	}
}

func newRequirementMakeLastCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "make-last <line-id>",
		Short: "Move a line to a fresh slot after every other line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Lines.MakeNextOrder(context.Background(), args[0])
		},
	}
}

func newRequirementSetOrderCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set-order <line-id> <order>",
		Short: "Assign an explicit order slot",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			order, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid order %q", args[1])
			}
			return app.Lines.SetOrder(context.Background(), args[0], order)
		},
	}
}

func newRequirementRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <line-id>",
		Short: "Remove a requirement line",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Lines.Delete(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Println("Requirement line removed.")
			return nil
		},
	}
}

func newRequirementClearCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "clear <project>",
		Short: "Remove every requirement line of a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Lines.Clear(ctx, projectID); err != nil {
				return err
			}
			fmt.Println("Requirement lines cleared.")
			return nil
		},
	}
}

func newRequirementInsertMissingCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "insert-missing <project>",
		Short: "Add catalog requirements the project does not carry yet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			added, err := app.Projects.InsertMissingRequirements(ctx, projectID)
			if err != nil {
				return err
			}
			fmt.Printf("Added %d requirement lines\n", added)
			return nil
		},
	}
}

func newRequirementInsertAllCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "insert-all <project>",
		Short: "Add every catalog requirement of the project's departments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			added, err := app.Projects.InsertAllRequirements(ctx, projectID)
			if err != nil {
				return err
			}
			fmt.Printf("Added %d requirement lines\n", added)
			return nil
		},
	}
}

func findRequirement(ctx context.Context, app *App, departmentID, name string) (*domain.Requirement, error) {
	reqs, err := app.Catalog.ListRequirementsByDepartment(ctx, departmentID)
	if err != nil {
		return nil, err
	}
	for _, r := range reqs {
		if r.Name == name {
			return r, nil
		}
	}
	return nil, fmt.Errorf("requirement %q not found in this department", name)
}
