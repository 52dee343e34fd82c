// Package server initializes and runs the authentication server: it wires
// the database, token provider, and service layer, runs migrations, and
// starts the HTTP endpoint with graceful shutdown.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/authmobile/authserver/internal/logging"
	"github.com/authmobile/authserver/internal/server/auth"
	"github.com/authmobile/authserver/internal/server/config"
	"github.com/authmobile/authserver/internal/server/httpapi"
	"github.com/authmobile/authserver/internal/server/repositories/repomanager"
	"github.com/authmobile/authserver/internal/server/services"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	authService *services.AuthService
	tokens      *auth.TokenProvider
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	// A short signing secret is a fatal configuration error; refuse to
	// serve token operations at all.
	tokens, err := auth.NewTokenProvider(cfg.JWTSecret, cfg.TokenValidityDuration, logger)
	if err != nil {
		return nil, fmt.Errorf("token provider init error: %w", err)
	}

	db, err := repomanager.OpenDB(cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	authService := services.NewAuthService(db, rm, tokens, logger)

	return &App{config: cfg, logger: logger, authService: authService, tokens: tokens}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := httpapi.NewHTTPServer(app.config.EndpointAddrHTTP, app.logger, app.authService, app.tokens)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()
}
