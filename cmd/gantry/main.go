package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/alexanderramin/gantry/internal/cli"
	"github.com/alexanderramin/gantry/internal/config"
	"github.com/alexanderramin/gantry/internal/db"
	"github.com/alexanderramin/gantry/internal/geometry"
	"github.com/alexanderramin/gantry/internal/repository"
	"github.com/alexanderramin/gantry/internal/service"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var database *sql.DB
	defer func() {
		if database != nil {
			database.Close()
		}
	}()

	app := &cli.App{}

	// Detect interactive terminal for confirmation prompts and the tui.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	// Config comes from files, env and the parsed flags, so wiring waits
	// until cobra has parsed the command line.
	app.Bootstrap = func(cmd *cobra.Command, app *cli.App) error {
		cfg, err := config.Load(config.Options{Flags: cmd.Flags()})
		if err != nil {
			return err
		}
		app.Config = *cfg

		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
		app.Logger = logger
		geometry.SetLogger(logger)

		database, err = db.OpenDB(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}

		// Wire repositories
		projectRepo := repository.NewSQLiteProjectRepo(database)
		taskRepo := repository.NewSQLiteTaskRepo(database)

		// Wire unit of work for transactional operations
		uow := db.NewSQLiteUnitOfWork(database)

		var observers []service.UseCaseObserver
		if cfg.LogUseCases {
			observers = append(observers, service.NewLogUseCaseObserver(logger))
		}

		app.Timeline = service.NewTimelineService(projectRepo, taskRepo, uow, observers...)
		app.Seed = service.NewSeedService(uow, observers...)
		return nil
	}

	// Execute root command
	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
