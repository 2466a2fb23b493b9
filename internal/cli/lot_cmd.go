package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/jalon/internal/cli/formatter"
	"github.com/alexanderramin/jalon/internal/domain"
)

func newLotCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lot",
		Short: "Manage delivery lots",
	}

	cmd.AddCommand(
		newLotAddCmd(app),
		newLotListCmd(app),
		newLotAssignCmd(app),
		newLotSetDatesCmd(app),
		newLotRemoveCmd(app),
	)

	return cmd
}

func newLotAddCmd(app *App) *cobra.Command {
	var projectRef, departments, delivery, mep string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a delivery lot",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID, err := resolveProjectID(ctx, app, projectRef)
			if err != nil {
				return err
			}
			depIDs, err := resolveDepartmentCodes(ctx, app, departments)
			if err != nil {
				return err
			}
			lot := &domain.Lot{ProjectID: projectID, DepartmentIDs: depIDs}
			if delivery != "" {
				d, err := parseDate(delivery)
				if err != nil {
					return err
				}
				lot.DeliveryDate = &d
			}
			if mep != "" {
				d, err := parseDate(mep)
				if err != nil {
					return err
				}
				lot.MEPDate = &d
			}
			if err := app.Lots.Create(ctx, lot); err != nil {
				return err
			}
			fmt.Printf("Created %s (%s)\n", lot.Name(), lot.ID[:8])
			return nil
		},
	}

	cmd.Flags().StringVar(&projectRef, "project", "", "Project ID")
	cmd.Flags().StringVar(&departments, "departments", "", "Comma-separated department codes")
	cmd.Flags().StringVar(&delivery, "delivery", "", "Delivery date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&mep, "mep", "", "Go-live date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("project")

	return cmd
}

func newLotListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list <project>",
		Short: "List the project's lots",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			lots, err := app.Lots.ListByProject(ctx, projectID)
			if err != nil {
				return err
			}
			if len(lots) == 0 {
				fmt.Println("No lots yet.")
				return nil
			}
			rows := make([][]string, 0, len(lots))
			for _, l := range lots {
				rows = append(rows, []string{
					l.ID[:8],
					l.Name(),
					strconv.Itoa(len(l.DepartmentIDs)),
					formatter.FormatDate(l.DeliveryDate),
					formatter.FormatDate(l.MEPDate),
				})
			}
			fmt.Print(formatter.RenderTable([]string{"ID", "Lot", "Départements", "Livraison", "MEP"}, rows))
			return nil
		},
	}
}

func newLotAssignCmd(app *App) *cobra.Command {
	var departments string

	cmd := &cobra.Command{
		Use:   "assign <lot-id>",
		Short: "Replace the lot's department assignment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			lot, err := app.Lots.GetByID(ctx, args[0])
			if err != nil {
				return err
			}
			depIDs, err := resolveDepartmentCodes(ctx, app, departments)
			if err != nil {
				return err
			}
			lot.DepartmentIDs = depIDs
			if err := app.Lots.Update(ctx, lot); err != nil {
				return err
			}
			fmt.Printf("%s updated.\n", lot.Name())
			return nil
		},
	}

	cmd.Flags().StringVar(&departments, "departments", "", "Comma-separated department codes")
	_ = cmd.MarkFlagRequired("departments")

	return cmd
}

func newLotSetDatesCmd(app *App) *cobra.Command {
	var delivery, mep string

	cmd := &cobra.Command{
		Use:   "set-dates <lot-id>",
		Short: "Set the lot's delivery and go-live dates",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			lot, err := app.Lots.GetByID(ctx, args[0])
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("delivery") {
				if delivery == "" {
					lot.DeliveryDate = nil
				} else {
					d, err := parseDate(delivery)
					if err != nil {
						return err
					}
					lot.DeliveryDate = &d
				}
			}
			if cmd.Flags().Changed("mep") {
				if mep == "" {
					lot.MEPDate = nil
				} else {
					d, err := parseDate(mep)
					if err != nil {
						return err
					}
					lot.MEPDate = &d
				}
			}
			if err := app.Lots.Update(ctx, lot); err != nil {
				return err
			}
			fmt.Printf("%s updated.\n", lot.Name())
			return nil
		},
	}

	cmd.Flags().StringVar(&delivery, "delivery", "", "Delivery date (YYYY-MM-DD, empty clears)")
	cmd.Flags().StringVar(&mep, "mep", "", "Go-live date (YYYY-MM-DD, empty clears)")

	return cmd
}

func newLotRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <lot-id>",
		Short: "Remove a lot and resequence the remaining ones",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Lots.Delete(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Println("Lot removed.")
			return nil
		},
	}
}

// resolveDepartmentCodes looks each comma-separated code up and returns the
// matching department IDs.
func resolveDepartmentCodes(ctx context.Context, app *App, codes string) ([]string, error) {
	if strings.TrimSpace(codes) == "" {
		return nil, nil
	}
	var ids []string
	for _, code := range strings.Split(codes, ",") {
		code = strings.TrimSpace(code)
		if code == "" {
			continue
		}
		dep, err := app.Departments.GetByCode(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("department %q: %w", code, err)
		}
		ids = append(ids, dep.ID)
	}
	return ids, nil
}
