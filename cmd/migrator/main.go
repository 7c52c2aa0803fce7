package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/mine-stalker/internal/config"
	"github.com/vancomm/mine-stalker/internal/database"
	"github.com/vancomm/mine-stalker/migrations"
)

func main() {
	logger := logrus.New()
	if config.Development() {
		logger.SetFormatter(&logrus.TextFormatter{ForceColors: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	dbConfig, err := config.NewDatabase()
	if err != nil {
		logger.WithError(err).Fatal("invalid database config")
	}

	pool, migrator, err := database.ConnectAndMigrate(ctx, dbConfig, migrations.FS)
	if err != nil {
		logger.WithError(err).Fatal("failed to connect to db")
	}
	defer pool.Close()

	version, dirty, err := migrator.Version()
	if err != nil {
		logger.WithError(err).Error("failed to check migration version")
		return
	}
	logger.WithFields(logrus.Fields{
		"version": version,
		"dirty":   dirty,
	}).Info("migration successful")
}
