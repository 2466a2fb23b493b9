// Package cli wires the cobra command tree for the jalon binary.
package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/jalon/internal/service"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Projects    service.ProjectService
	Lines       service.RequirementLineService
	Sublines    service.SubrequirementLineService
	Profiles    service.ProfileService
	Lots        service.LotService
	Departments service.DepartmentService
	Catalog     service.CatalogService
	Import      service.ImportService

	// User stamps stage actions; defaults to $USER.
	User string
}

// NewRootCmd creates the top-level "jalon" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "jalon",
		Short:         "Project lifecycle and quotation workflow",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&app.User, "user", defaultUser(), "User name stamped on stage actions")

	root.AddCommand(
		newProjectCmd(app),
		newRequirementCmd(app),
		newProfileCmd(app),
		newLotCmd(app),
		newQuoteCmd(app),
		newDepartmentCmd(app),
		newCatalogCmd(app),
	)

	return root
}

func defaultUser() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "jalon"
}

// resolveProjectID accepts a full UUID or an unambiguous UUID prefix.
func resolveProjectID(ctx context.Context, app *App, input string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("project ID is required")
	}

	projects, err := app.Projects.List(ctx)
	if err != nil {
		return "", err
	}
	for _, p := range projects {
		if p.ID == input {
			return p.ID, nil
		}
	}

	var matches []string
	for _, p := range projects {
		if strings.HasPrefix(p.ID, input) {
			matches = append(matches, p.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("project not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("project ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}
