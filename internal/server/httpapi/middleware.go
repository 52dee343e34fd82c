package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

type ctxKey string

const usernameKey ctxKey = "username"

// UsernameFromContext returns the authenticated username placed into the
// request context by the authenticate middleware.
func UsernameFromContext(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(usernameKey).(string)
	return username, ok
}

// requestLogger logs one line per request with a generated request id.
func (s *HTTPServer) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log := s.logger.With("request_id", uuid.NewString())

		next.ServeHTTP(w, r)

		log.Info(r.Context(), "request handled",
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start).String(),
		)
	})
}

// authenticate requires a valid bearer token and stores its subject in the
// request context. Missing, malformed, or invalid tokens get 401; the token
// provider logs the specific cause.
func (s *HTTPServer) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			writeJSON(w, http.StatusUnauthorized, ApiResponse{Success: false, Message: "Unauthorized"})
			return
		}

		if !s.tokens.ValidateToken(r.Context(), token) {
			writeJSON(w, http.StatusUnauthorized, ApiResponse{Success: false, Message: "Unauthorized"})
			return
		}

		username, err := s.tokens.GetUsernameFromToken(r.Context(), token)
		if err != nil || username == "" {
			writeJSON(w, http.StatusUnauthorized, ApiResponse{Success: false, Message: "Unauthorized"})
			return
		}

		ctx := context.WithValue(r.Context(), usernameKey, username)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
