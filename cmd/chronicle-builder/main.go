package main

import (
	"context"
	"fmt"
	"os"

	"fyne.io/fyne/v2/app"

	chronicle "chronicle-builder/internal/app"
	"chronicle-builder/internal/config"
	"chronicle-builder/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error while running %s: %v\n", chronicle.AppName, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.LogLevel, cfg.JSONLogs)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fyneApp := app.NewWithID(chronicle.AppID)

	application, err := chronicle.NewApplication(fyneApp, cfg, log)
	if err != nil {
		log.Error("Main", err, nil)
		return err
	}

	if err := application.Run(ctx); err != nil {
		log.Error("Main", err, nil)
		return err
	}

	log.Info("Main", "application terminated", nil)
	return nil
}
