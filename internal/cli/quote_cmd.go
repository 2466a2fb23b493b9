package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/jalon/internal/cli/formatter"
)

func newQuoteCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Generate and track project quotations",
	}

	cmd.AddCommand(
		newQuoteGenerateCmd(app),
		newQuoteShowCmd(app),
		newQuoteValidateCmd(app),
		newQuoteCancelCmd(app),
		newQuoteSyncCmd(app),
		newQuoteReturnCmd(app),
	)

	return cmd
}

func newQuoteGenerateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "generate <project>",
		Short: "Generate a quote from the project's lines",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			quote, err := app.Projects.GenerateQuote(ctx, projectID, app.User)
			if err != nil {
				return err
			}
			fmt.Print(formatter.RenderQuote(quote))
			return nil
		},
	}
}

func newQuoteShowCmd(app *App) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "show <project>",
		Short: "Show the project's current quote",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			quotes, err := app.Projects.Quotes(ctx, projectID)
			if err != nil {
				return err
			}
			if len(quotes) == 0 {
				fmt.Println("No quotes yet.")
				return nil
			}
			if all {
				for _, q := range quotes {
					fmt.Print(formatter.RenderQuote(q))
					fmt.Println()
				}
				return nil
			}

			project, err := app.Projects.GetByID(ctx, projectID)
			if err != nil {
				return err
			}
			if project.CurrentQuoteID != nil {
				for _, q := range quotes {
					if q.ID == *project.CurrentQuoteID {
						fmt.Print(formatter.RenderQuote(q))
						return nil
					}
				}
			}
			// No current quote attached; fall back to the most recent one.
			fmt.Print(formatter.RenderQuote(quotes[len(quotes)-1]))
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Show the full quote history")

	return cmd
}

func newQuoteValidateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <project>",
		Short: "Confirm the current quote and advance the project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Projects.ValidateQuote(ctx, projectID, app.User); err != nil {
				return err
			}
			fmt.Println("Devis validé.")
			return nil
		},
	}
}

func newQuoteCancelCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <project>",
		Short: "Cancel the current quote and return to preparation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Projects.CancelQuote(ctx, projectID); err != nil {
				return err
			}
			fmt.Println("Devis annulé.")
			return nil
		},
	}
}

func newQuoteSyncCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "sync <project>",
		Short: "Align the project stage with the quote state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Projects.SyncQuoteState(ctx, projectID); err != nil {
				return err
			}
			fmt.Println("Project stage synchronized.")
			return nil
		},
	}
}

func newQuoteReturnCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "return <project>",
		Short: "Send the project back to preparation, keeping the quote history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			projectID, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Projects.ReturnToPreparation(ctx, projectID); err != nil {
				return err
			}
			fmt.Println("Projet renvoyé en préparation.")
			return nil
		},
	}
}
