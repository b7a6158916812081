package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/nhle/taskdash/internal/app"
	"github.com/nhle/taskdash/internal/board"
	"github.com/nhle/taskdash/internal/importer"
	"github.com/nhle/taskdash/internal/logging"
	"github.com/nhle/taskdash/internal/model"
	"github.com/nhle/taskdash/internal/notify"
	"github.com/nhle/taskdash/internal/store"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := pflag.NewFlagSet("taskdash", pflag.ContinueOnError)
	configPath := fs.String("config", model.DefaultConfigPath(), "path to the config file")
	fs.String("seed", "", "YAML file of sections and tasks to import on startup")
	fs.String("log-file", "", "log file path")
	fs.String("log-level", "", "log level (debug, info, warn, error)")
	fs.Bool("alerts", false, "ring the terminal bell when a task is about to be due")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := model.LoadConfig(*configPath, fs)
	if err != nil {
		return err
	}

	logger, closer, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	defer closer.Close()

	s, err := store.NewSQLiteStore(store.MemoryDSN, cfg.Sections.DefaultName)
	if err != nil {
		return fmt.Errorf("opening task store: %w", err)
	}
	defer s.Close()

	b := board.New(s, logger)

	if cfg.Seed.File != "" {
		res, err := importer.ImportFile(context.Background(), b, cfg.Seed.File)
		if err != nil {
			return fmt.Errorf("importing seed: %w", err)
		}
		logger.Info("seed imported", "file", cfg.Seed.File, "sections", res.Sections, "tasks", res.Tasks)
	}

	bell := notify.NewBellAlerter(os.Stderr, logger)
	var alerter notify.Alerter
	if cfg.Notifications.SystemAlerts {
		alerter = bell
	}
	center := notify.NewCenter(alerter, cfg.Notifications.AlertMinutes, logger)
	ticker := notify.NewTicker(time.Duration(cfg.Notifications.IntervalSec) * time.Second)
	defer ticker.Stop()

	root := app.New(app.Options{
		Board:  b,
		Center: center,
		Ticker: ticker,
		Logger: logger,

		Config:     cfg,
		ConfigPath: *configPath,
		Alerter:    bell,
	})

	logger.Info("starting", "config", *configPath, "interval", ticker.Interval())
	p := tea.NewProgram(root, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}
