package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/jalon/internal/cli/formatter"
	"github.com/alexanderramin/jalon/internal/domain"
)

func newDepartmentCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "department",
		Aliases: []string{"dept"},
		Short:   "Manage departments",
	}

	add := &cobra.Command{
		Use:   "add <code> <name>",
		Short: "Register a department",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			d := &domain.Department{Code: args[0], Name: args[1]}
			if err := app.Departments.Create(context.Background(), d); err != nil {
				return err
			}
			fmt.Printf("Added department %s (%s)\n", d.Name, d.Code)
			return nil
		},
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List departments",
		RunE: func(cmd *cobra.Command, args []string) error {
			departments, err := app.Departments.List(context.Background())
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(departments))
			for _, d := range departments {
				rows = append(rows, []string{d.ID[:8], d.Code, d.Name})
			}
			fmt.Print(formatter.RenderTable([]string{"ID", "Code", "Nom"}, rows))
			return nil
		},
	}

	rename := &cobra.Command{
		Use:   "rename <code> <name>",
		Short: "Rename a department",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			d, err := app.Departments.GetByCode(ctx, args[0])
			if err != nil {
				return err
			}
			d.Name = args[1]
			if err := app.Departments.Update(ctx, d); err != nil {
				return err
			}
			fmt.Println("Department renamed.")
			return nil
		},
	}

	remove := &cobra.Command{
		Use:   "remove <code>",
		Short: "Remove a department",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			d, err := app.Departments.GetByCode(ctx, args[0])
			if err != nil {
				return err
			}
			if err := app.Departments.Delete(ctx, d.ID); err != nil {
				return err
			}
			fmt.Println("Department removed.")
			return nil
		},
	}

	cmd.AddCommand(add, list, rename, remove)
	return cmd
}
