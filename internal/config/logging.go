package config

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/snowzach/rotatefilehook"
)

func NewLogger(app *App) (*logrus.Logger, error) {
	log := logrus.New()

	logLevel := logrus.InfoLevel
	if app.Development {
		logLevel = logrus.DebugLevel
	}
	log.SetLevel(logLevel)

	if app.Development {
		log.SetFormatter(&logrus.TextFormatter{ForceColors: true})
	} else {
		log.SetFormatter(&logrus.JSONFormatter{})
	}

	if app.LogFile != "" {
		hook, err := rotatefilehook.NewRotateFileHook(rotatefilehook.RotateFileConfig{
			Filename:   app.LogFile,
			MaxSize:    50, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
			Level:      logLevel,
			Formatter:  &logrus.JSONFormatter{},
		})
		if err != nil {
			return nil, fmt.Errorf("unable to set up log file: %w", err)
		}
		log.AddHook(hook)
	}

	return log, nil
}
