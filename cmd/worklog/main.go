package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/alexanderramin/worklog/internal/cli"
	"github.com/alexanderramin/worklog/internal/config"
	"github.com/alexanderramin/worklog/internal/db"
	"github.com/alexanderramin/worklog/internal/repository"
	"github.com/alexanderramin/worklog/internal/service"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Config file (optional) plus WORKLOG_* overrides
	cfg, err := config.Load("")
	if err != nil {
		return err
	}
	level, err := cfg.SlogLevel()
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	// Open database
	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	store := repository.NewStateRepo(database, db.NewSQLiteUnitOfWork(database))

	var observer service.UseCaseObserver = service.NoopUseCaseObserver{}
	if cfg.LogCalls {
		observer = service.NewLogUseCaseObserver(os.Stderr, level)
	}

	tracker, report, err := service.NewTrackerService(context.Background(), store, service.Options{
		Layouts:       cfg.Layouts(),
		StrictCatalog: cfg.StrictCatalog,
		Logger:        logger,
	}, observer)
	if err != nil {
		return fmt.Errorf("loading state: %w", err)
	}
	if !report.OK() {
		logger.Warn("started with partially recovered state", "unreadable_keys", len(report.Errors))
	}

	logUnit, holdingUnit := cfg.Units()
	app := &cli.App{
		Tracker:     tracker,
		Catalog:     tracker,
		LogUnit:     logUnit,
		HoldingUnit: holdingUnit,
		SortHolding: cfg.SortHoldingByElapsed,
	}

	// Bare `worklog` opens the TUI only on a real terminal.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	return cli.NewRootCmd(app).Execute()
}
