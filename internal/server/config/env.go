package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Environment variables recognized by parseEnv.
const (
	envAddr       = "ADDRESS"
	envDSN        = "DATABASE_DSN"
	envSecret     = "JWT_SECRET"
	envExpiration = "JWT_EXPIRATION_MS"
)

// parseEnv overlays Config fields from the environment. A .env file in the
// working directory is loaded first when present; a missing file is not an
// error. JWT_EXPIRATION_MS is integer milliseconds; a malformed value is
// ignored and the previous setting stands.
func parseEnv(config *Config) {
	_ = godotenv.Load()

	if v := os.Getenv(envAddr); v != "" {
		config.EndpointAddrHTTP = v
	}
	if v := os.Getenv(envDSN); v != "" {
		config.DatabaseDSN = v
	}
	if v := os.Getenv(envSecret); v != "" {
		config.JWTSecret = v
	}
	if v := os.Getenv(envExpiration); v != "" {
		if ms, err := strconv.ParseInt(v, 10, 64); err == nil {
			config.TokenValidityDuration = time.Duration(ms) * time.Millisecond
		}
	}
}
