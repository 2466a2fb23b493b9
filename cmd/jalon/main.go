package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"

	"github.com/alexanderramin/jalon/internal/cli"
	"github.com/alexanderramin/jalon/internal/cli/formatter"
	"github.com/alexanderramin/jalon/internal/db"
	"github.com/alexanderramin/jalon/internal/repository"
	"github.com/alexanderramin/jalon/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Determine DB path: env var or default ~/.jalon/jalon.db
	dbPath := os.Getenv("JALON_DB")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".jalon", "jalon.db")
	}

	// Open database (runs migrations and seeds the generic department)
	database, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	projectRepo := repository.NewSQLiteProjectRepo(database)
	lineRepo := repository.NewSQLiteRequirementLineRepo(database)
	sublineRepo := repository.NewSQLiteSubrequirementLineRepo(database)
	profileRepo := repository.NewSQLiteProfileLineRepo(database)
	lotRepo := repository.NewSQLiteLotRepo(database)
	departmentRepo := repository.NewSQLiteDepartmentRepo(database)
	requirementRepo := repository.NewSQLiteRequirementRepo(database)
	subrequirementRepo := repository.NewSQLiteSubrequirementRepo(database)

	// Wire unit of work for transactional operations
	uow := db.NewSQLiteUnitOfWork(database)

	app := &cli.App{
		Projects:    service.NewProjectService(projectRepo, uow),
		Lines:       service.NewRequirementLineService(lineRepo, uow),
		Sublines:    service.NewSubrequirementLineService(sublineRepo, uow),
		Profiles:    service.NewProfileService(profileRepo, uow),
		Lots:        service.NewLotService(lotRepo, uow),
		Departments: service.NewDepartmentService(departmentRepo),
		Catalog:     service.NewCatalogService(requirementRepo, subrequirementRepo, departmentRepo),
		Import:      service.NewImportService(uow),
	}

	// Plain output when piping.
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		formatter.DisableColors()
	}

	// Execute root command
	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
