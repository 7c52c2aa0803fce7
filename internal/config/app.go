package config

import (
	"github.com/sirupsen/logrus"
)

type App struct {
	Port        string
	BasePath    string
	Development bool
	LogFile     string
	Search      *Search
	WebSocket   *WebSocket
}

func NewApp() (*App, error) {
	search, err := NewSearch()
	if err != nil {
		return nil, err
	}

	ws, err := NewWebSocket()
	if err != nil {
		return nil, err
	}

	app := &App{
		Port:        lookupDefault("APP_PORT", ":8080"),
		BasePath:    lookupDefault("APP_BASE_PATH", ""),
		Development: Development(),
		LogFile:     lookupDefault("LOG_FILE", ""),
		Search:      search,
		WebSocket:   ws,
	}

	return app, nil
}

func (a App) Fields() logrus.Fields {
	return logrus.Fields{
		"port":            a.Port,
		"base_path":       a.BasePath,
		"development":     a.Development,
		"log_file":        a.LogFile,
		"search_timeout":  a.Search.Timeout.String(),
		"stream_interval": a.WebSocket.StreamInterval.String(),
		"default_field":   a.Search.Field.String(),
	}
}
