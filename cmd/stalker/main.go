package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/mine-stalker/internal/app"
	"github.com/vancomm/mine-stalker/internal/config"
	"github.com/vancomm/mine-stalker/internal/mines"
	"github.com/vancomm/mine-stalker/migrations"
)

func main() {
	cfg, err := config.NewApp()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}

	logger, err := config.NewLogger(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("unable to set up logging")
	}
	mines.Log = logger

	logger.WithFields(cfg.Fields()).Debug("config")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a := app.New(logger, cfg, migrations.FS)

	if err := a.Start(ctx); err != nil {
		logger.WithError(err).Error("server stopped")
		os.Exit(1)
	}
}
