// Package httpapi exposes the authentication service over HTTP.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/authmobile/authserver/internal/logging"
	"github.com/authmobile/authserver/internal/server/auth"
	"github.com/authmobile/authserver/internal/server/models"
	"github.com/authmobile/authserver/internal/server/services"
)

// AuthService is the slice of the service layer the HTTP handlers consume.
type AuthService interface {
	Register(ctx context.Context, req services.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, usernameOrEmail, password string) (string, *models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

const shutdownTimeout = 30 * time.Second

type HTTPServer struct {
	address string
	service AuthService
	tokens  *auth.TokenProvider
	logger  logging.Logger
}

func NewHTTPServer(address string, l logging.Logger, service AuthService, tokens *auth.TokenProvider) *HTTPServer {
	return &HTTPServer{
		address: address,
		logger:  l.With("module", "http_server"),
		service: service,
		tokens:  tokens,
	}
}

// Router wires the public endpoints. /user/me sits behind the bearer-token
// middleware; everything else is anonymous.
func (s *HTTPServer) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Post("/register", s.handleRegister)
	r.Post("/login", s.handleLogin)
	r.Get("/healthz", s.handleHealthz)

	r.Route("/user", func(r chi.Router) {
		r.Use(s.authenticate)
		r.Get("/me", s.handleMe)
	})

	return r
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	srv := &http.Server{Addr: s.address, Handler: s.Router()}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
