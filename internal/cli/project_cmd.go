package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/jalon/internal/cli/formatter"
	"github.com/alexanderramin/jalon/internal/domain"
)

func newProjectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage projects",
	}

	cmd.AddCommand(
		newProjectAddCmd(app),
		newProjectListCmd(app),
		newProjectInspectCmd(app),
		newProjectStatusCmd(app),
		newProjectUpdateCmd(app),
		newProjectActivateCmd(app),
		newProjectCopyCmd(app),
		newProjectImportCmd(app),
		newProjectRemoveCmd(app),
	)

	return cmd
}

func newProjectAddCmd(app *App) *cobra.Command {
	var name, client, projectType, category, estimateCategory, start, end string
	var departments []string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a new project",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			p := &domain.Project{
				Name:                   name,
				Client:                 client,
				Type:                   domain.ProjectType(projectType),
				ImplementationCategory: domain.ImplementationCategory(category),
				EstimateCategory:       domain.EstimateCategory(estimateCategory),
			}
			if start != "" {
				d, err := parseDate(start)
				if err != nil {
					return err
				}
				p.StartDate = &d
			}
			if end != "" {
				d, err := parseDate(end)
				if err != nil {
					return err
				}
				p.EndDate = &d
			}
			for _, code := range departments {
				dep, err := app.Departments.GetByCode(ctx, code)
				if err != nil {
					return fmt.Errorf("department %q: %w", code, err)
				}
				p.DepartmentIDs = append(p.DepartmentIDs, dep.ID)
			}

			if err := app.Projects.Create(ctx, p); err != nil {
				return err
			}
			fmt.Printf("Created project %s (%s)\n", p.Name, p.ID[:8])
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Project name")
	cmd.Flags().StringVar(&client, "client", "", "Client name")
	cmd.Flags().StringVar(&projectType, "type", "implementation", "Project type (estimate|implementation)")
	cmd.Flags().StringVar(&category, "category", "", "Implementation category (integration|evolution)")
	cmd.Flags().StringVar(&estimateCategory, "estimate-category", "", "Estimate category (billable|non_billable)")
	cmd.Flags().StringVar(&start, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "End date (YYYY-MM-DD)")
	cmd.Flags().StringSliceVar(&departments, "departments", nil, "Department codes")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newProjectListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			projects, err := app.Projects.List(context.Background())
			if err != nil {
				return err
			}
			if len(projects) == 0 {
				fmt.Println("No projects yet.")
				return nil
			}
			fmt.Print(formatter.RenderProjectList(projects))
			return nil
		},
	}
}

func newProjectInspectCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <project>",
		Short: "Show project fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			p, err := app.Projects.GetByID(ctx, id)
			if err != nil {
				return err
			}
			fmt.Println(formatter.Bold(p.Name))
			fmt.Printf("ID        %s\n", p.ID)
			fmt.Printf("Client    %s\n", p.Client)
			fmt.Printf("Type      %s\n", formatter.ProjectLabel(p))
			fmt.Printf("Étape     %s\n", formatter.StageBadge(p.Stage))
			fmt.Printf("Période   %s → %s\n", formatter.FormatDate(p.StartDate), formatter.FormatDate(p.EndDate))
			if p.QuoteGeneratedBy != "" {
				fmt.Printf("Devis     généré par %s le %s\n", p.QuoteGeneratedBy, formatter.FormatDate(p.QuoteGeneratedAt))
			}
			if p.QuoteValidatedBy != "" {
				fmt.Printf("          validé par %s le %s\n", p.QuoteValidatedBy, formatter.FormatDate(p.QuoteValidatedAt))
			}
			if p.ActivatedBy != "" {
				fmt.Printf("Activé    par %s le %s\n", p.ActivatedBy, formatter.FormatDate(p.ActivatedAt))
			}
			return nil
		},
	}
}

func newProjectStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status <project>",
		Short: "Show stage gates, workload balance and the line schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			status, err := app.Projects.Status(ctx, id)
			if err != nil {
				return err
			}
			fmt.Print(formatter.RenderStatus(status))
			return nil
		},
	}
}

func newProjectUpdateCmd(app *App) *cobra.Command {
	var name, client, start, end string
	var departments []string

	cmd := &cobra.Command{
		Use:   "update <project>",
		Short: "Update project fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			p, err := app.Projects.GetByID(ctx, id)
			if err != nil {
				return err
			}
			if name != "" {
				p.Name = name
			}
			if client != "" {
				p.Client = client
			}
			if cmd.Flags().Changed("start") {
				if start == "" {
					p.StartDate = nil
				} else {
					d, err := parseDate(start)
					if err != nil {
						return err
					}
					p.StartDate = &d
				}
			}
			if cmd.Flags().Changed("end") {
				if end == "" {
					p.EndDate = nil
				} else {
					d, err := parseDate(end)
					if err != nil {
						return err
					}
					p.EndDate = &d
				}
			}
			if cmd.Flags().Changed("departments") {
				p.DepartmentIDs = nil
				for _, code := range departments {
					dep, err := app.Departments.GetByCode(ctx, code)
					if err != nil {
						return fmt.Errorf("department %q: %w", code, err)
					}
					p.DepartmentIDs = append(p.DepartmentIDs, dep.ID)
				}
			}
			if err := app.Projects.Update(ctx, p); err != nil {
				return err
			}
			fmt.Printf("Updated project %s\n", p.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Project name")
	cmd.Flags().StringVar(&client, "client", "", "Client name")
	cmd.Flags().StringVar(&start, "start", "", "Start date (YYYY-MM-DD, empty clears)")
	cmd.Flags().StringVar(&end, "end", "", "End date (YYYY-MM-DD, empty clears)")
	cmd.Flags().StringSliceVar(&departments, "departments", nil, "Department codes (replaces the current set)")

	return cmd
}

func newProjectActivateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "activate <project>",
		Short: "Generate tasks and move the project to active",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			tasks, err := app.Projects.GenerateTasks(ctx, id, app.User)
			if err != nil {
				return err
			}
			fmt.Printf("Generated %d tasks\n", len(tasks))
			fmt.Print(formatter.RenderTasks(tasks))
			return nil
		},
	}
}

func newProjectCopyCmd(app *App) *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "copy <estimate-project>",
		Short: "Create an implementation project from an estimate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			created, err := app.Projects.CreateImplementationProject(ctx, id, app.User, domain.ImplementationCategory(category))
			if err != nil {
				return err
			}
			fmt.Printf("Created implementation project %s (%s)\n", created.Name, created.ID[:8])
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "integration", "Implementation category (integration|evolution)")
	return cmd
}

func newProjectImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import a whole project from a JSON or YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := app.Import.ImportProject(context.Background(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Imported project %s (%s): %d lines, %d profiles, %d lots",
				result.Project.Name, result.Project.ID[:8],
				result.LineCount, result.ProfileCount, result.LotCount)
			var extras []string
			if result.DepartmentCount > 0 {
				extras = append(extras, fmt.Sprintf("%d departments created", result.DepartmentCount))
			}
			if result.CatalogCount > 0 {
				extras = append(extras, fmt.Sprintf("%d catalog entries created", result.CatalogCount))
			}
			if len(extras) > 0 {
				fmt.Printf(" (%s)", strings.Join(extras, ", "))
			}
			fmt.Println()
			return nil
		},
	}
}

func newProjectRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <project>",
		Short: "Delete a project and everything attached to it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			id, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Projects.Delete(ctx, id); err != nil {
				return err
			}
			fmt.Println("Project removed.")
			return nil
		},
	}
}

func parseDate(s string) (time.Time, error) {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", s)
	}
	return d, nil
}
