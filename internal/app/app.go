package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/vancomm/mine-stalker/internal/config"
	"github.com/vancomm/mine-stalker/internal/database"
	"github.com/vancomm/mine-stalker/internal/middleware"
)

const shutdownTimeout = 30 * time.Second

type App struct {
	logger     *logrus.Logger
	config     *config.App
	router     *http.ServeMux
	db         *pgxpool.Pool
	jwt        *config.JWT
	migrations fs.FS
}

func New(logger *logrus.Logger, cfg *config.App, migrations fs.FS) *App {
	app := &App{
		logger:     logger,
		config:     cfg,
		router:     http.NewServeMux(),
		migrations: migrations,
	}

	return app
}

// middlewares are listed innermost first. Logging sits inside Auth so that it
// sees the caller's claims; Auth logs the requests it rejects.
func (a *App) middlewares() []middleware.Middleware {
	mws := []middleware.Middleware{middleware.Logging(a.logger)}
	if a.jwt != nil {
		mws = append(mws, middleware.Auth(a.logger, a.jwt))
	}
	return append(mws, middleware.Cors())
}

func (a *App) Start(ctx context.Context) error {
	dbConfig, err := config.NewDatabase()
	if err != nil {
		return err
	}

	db, migrator, err := database.ConnectAndMigrate(ctx, dbConfig, a.migrations)
	if err != nil {
		return fmt.Errorf("unable to connect to db: %w", err)
	}
	defer db.Close()
	defer migrator.Close()

	a.db = db

	if version, dirty, err := migrator.Version(); err == nil {
		a.logger.WithFields(logrus.Fields{
			"version": version,
			"dirty":   dirty,
		}).Info("database schema ready")
	}

	a.jwt, err = config.NewJWT()
	if errors.Is(err, config.ErrJWTNotConfigured) {
		a.logger.Warn("no jwt public key, serving anonymous requests only")
	} else if err != nil {
		return err
	}

	a.loadRoutes()

	server := &http.Server{
		Addr:    a.config.Port,
		Handler: middleware.Wrap(a.router, a.middlewares()...),
		BaseContext: func(l net.Listener) context.Context {
			return ctx
		},
	}

	a.logger.WithField("addr", a.config.Port).Info("server listening")

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		err := server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-gCtx.Done()
		a.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
