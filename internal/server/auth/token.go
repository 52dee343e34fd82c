// Package auth implements issuing and validating HS256 bearer tokens.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/authmobile/authserver/internal/common"
	"github.com/authmobile/authserver/internal/logging"
)

// MinSecretLen is the minimum signing key size in bytes (256 bits).
const MinSecretLen = 32

// Claims carries the standard registered claims plus the userId claim.
// Subject holds the username.
type Claims struct {
	UserID int64 `json:"userId"`
	jwt.RegisteredClaims
}

// TokenProvider mints and verifies bearer tokens. The signing key is derived
// once at construction and immutable afterwards, so concurrent use needs no
// synchronization.
type TokenProvider struct {
	key      []byte
	validity time.Duration
	logger   logging.Logger
}

// NewTokenProvider derives the HMAC key from the configured secret.
// Returns an error when the UTF-8 encoded secret is shorter than 32 bytes;
// that is a fatal configuration problem and the caller must not serve token
// operations.
func NewTokenProvider(secret string, validity time.Duration, logger logging.Logger) (*TokenProvider, error) {
	key := []byte(secret)
	if len(key) < MinSecretLen {
		return nil, fmt.Errorf("jwt secret must be at least 256 bits (%d bytes), got %d", MinSecretLen, len(key))
	}
	return &TokenProvider{
		key:      key,
		validity: validity,
		logger:   logger.With("module", "token_provider"),
	}, nil
}

// GenerateToken builds a compact signed token for the authenticated user.
func (p *TokenProvider) GenerateToken(username string, userID int64) (string, error) {
	now := time.Now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(p.validity)),
		},
	})

	tokenString, err := token.SignedString(p.key)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ValidateToken reports whether the token is well-formed, correctly signed,
// and not expired. Every failure mode maps to false; the distinct cause is
// logged for diagnostics and never propagated to the caller.
func (p *TokenProvider) ValidateToken(ctx context.Context, tokenString string) bool {
	_, err := p.parse(tokenString)
	if err == nil {
		return true
	}

	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		p.logger.Warn(ctx, "malformed token", "error", err.Error())
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		p.logger.Warn(ctx, "invalid token signature", "error", err.Error())
	case errors.Is(err, jwt.ErrTokenExpired):
		p.logger.Warn(ctx, "expired token", "error", err.Error())
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		p.logger.Warn(ctx, "unverifiable token", "error", err.Error())
	default:
		p.logger.Warn(ctx, "invalid token", "error", err.Error())
	}

	return false
}

// GetUsernameFromToken parses and verifies the token and returns its subject.
func (p *TokenProvider) GetUsernameFromToken(ctx context.Context, tokenString string) (string, error) {
	claims, err := p.parse(tokenString)
	if err != nil {
		return "", err
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return "", err
	}

	return sub, nil
}

// GetUserIDFromToken parses and verifies the token and returns the userId
// claim. The claim is tolerated both as a native JSON number and as a numeric
// string; an absent or unparsable claim yields common.ErrorNoUserID.
func (p *TokenProvider) GetUserIDFromToken(ctx context.Context, tokenString string) (int64, error) {
	claims, err := p.parse(tokenString)
	if err != nil {
		return 0, err
	}

	v, ok := claims["userId"]
	if !ok || v == nil {
		return 0, common.ErrorNoUserID
	}

	switch id := v.(type) {
	case float64:
		return int64(id), nil
	case string:
		parsed, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			p.logger.Warn(ctx, "unable to parse userId claim", "value", id)
			return 0, common.ErrorNoUserID
		}
		return parsed, nil
	default:
		p.logger.Warn(ctx, "unexpected userId claim type", "value", fmt.Sprintf("%v", v))
		return 0, common.ErrorNoUserID
	}
}

// parse verifies signature and registered claims. MapClaims is used on the
// read side so the userId claim type can be inspected after decoding.
func (p *TokenProvider) parse(tokenString string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return p.key, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, common.ErrorInvalidToken
	}

	return claims, nil
}
