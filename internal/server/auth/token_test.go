package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/authmobile/authserver/internal/common"
	"github.com/authmobile/authserver/internal/logging"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestProvider(t *testing.T, validity time.Duration) *TokenProvider {
	t.Helper()
	p, err := NewTokenProvider(testSecret, validity, logging.NopLogger{})
	if err != nil {
		t.Fatalf("NewTokenProvider error: %v", err)
	}
	return p
}

func TestNewTokenProvider_ShortSecret(t *testing.T) {
	t.Parallel()

	_, err := NewTokenProvider("too-short", time.Hour, logging.NopLogger{})
	if err == nil {
		t.Fatalf("expected error for secret shorter than 32 bytes, got nil")
	}
}

func TestGenerateAndParse_Success(t *testing.T) {
	t.Parallel()

	p := newTestProvider(t, time.Hour)
	ctx := context.Background()

	tok, err := p.GenerateToken("alice", 123)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}
	if tok == "" {
		t.Fatalf("expected non-empty token")
	}

	if !p.ValidateToken(ctx, tok) {
		t.Fatalf("expected freshly issued token to validate")
	}

	username, err := p.GetUsernameFromToken(ctx, tok)
	if err != nil {
		t.Fatalf("GetUsernameFromToken error: %v", err)
	}
	if username != "alice" {
		t.Fatalf("username mismatch: got %q want %q", username, "alice")
	}

	userID, err := p.GetUserIDFromToken(ctx, tok)
	if err != nil {
		t.Fatalf("GetUserIDFromToken error: %v", err)
	}
	if userID != 123 {
		t.Fatalf("userID mismatch: got %d want %d", userID, 123)
	}
}

func TestValidateToken_Expired(t *testing.T) {
	t.Parallel()

	p := newTestProvider(t, -1*time.Second)
	ctx := context.Background()

	tok, err := p.GenerateToken("bob", 7)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	if p.ValidateToken(ctx, tok) {
		t.Fatalf("expected expired token to fail validation")
	}

	_, err = p.GetUserIDFromToken(ctx, tok)
	if !errors.Is(err, jwt.ErrTokenExpired) {
		t.Fatalf("expected jwt.ErrTokenExpired, got %v", err)
	}
}

func TestValidateToken_WrongKey(t *testing.T) {
	t.Parallel()

	other, err := NewTokenProvider("another-secret-key-that-is-32-bytes!", time.Hour, logging.NopLogger{})
	if err != nil {
		t.Fatalf("NewTokenProvider error: %v", err)
	}

	tok, err := other.GenerateToken("carol", 9)
	if err != nil {
		t.Fatalf("GenerateToken error: %v", err)
	}

	p := newTestProvider(t, time.Hour)
	if p.ValidateToken(context.Background(), tok) {
		t.Fatalf("expected token signed with a different key to fail validation")
	}
}

func TestValidateToken_MalformedAndEmpty(t *testing.T) {
	t.Parallel()

	p := newTestProvider(t, time.Hour)
	ctx := context.Background()

	for _, tok := range []string{"", "not.a.jwt", "a.b"} {
		if p.ValidateToken(ctx, tok) {
			t.Fatalf("expected %q to fail validation", tok)
		}
	}
}

func TestValidateToken_UnsignedAlgRejected(t *testing.T) {
	t.Parallel()

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub":    "mallory",
		"userId": 1,
		"exp":    time.Now().Add(time.Hour).Unix(),
	})
	tok, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("SignedString error: %v", err)
	}

	p := newTestProvider(t, time.Hour)
	if p.ValidateToken(context.Background(), tok) {
		t.Fatalf("expected token with alg=none to fail validation")
	}
}

// mintRaw signs arbitrary claims with the provider's key so tests can shape
// the userId claim freely.
func mintRaw(t *testing.T, p *TokenProvider, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.key)
	if err != nil {
		t.Fatalf("SignedString error: %v", err)
	}
	return tok
}

func TestGetUserIDFromToken_StringClaim(t *testing.T) {
	t.Parallel()

	p := newTestProvider(t, time.Hour)
	tok := mintRaw(t, p, jwt.MapClaims{
		"sub":    "dave",
		"userId": "42",
		"exp":    time.Now().Add(time.Hour).Unix(),
	})

	userID, err := p.GetUserIDFromToken(context.Background(), tok)
	if err != nil {
		t.Fatalf("GetUserIDFromToken error: %v", err)
	}
	if userID != 42 {
		t.Fatalf("userID mismatch: got %d want %d", userID, 42)
	}
}

func TestGetUserIDFromToken_AbsentClaim(t *testing.T) {
	t.Parallel()

	p := newTestProvider(t, time.Hour)
	tok := mintRaw(t, p, jwt.MapClaims{
		"sub": "erin",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	_, err := p.GetUserIDFromToken(context.Background(), tok)
	if !errors.Is(err, common.ErrorNoUserID) {
		t.Fatalf("expected common.ErrorNoUserID, got %v", err)
	}
}

func TestGetUserIDFromToken_UnparsableClaim(t *testing.T) {
	t.Parallel()

	p := newTestProvider(t, time.Hour)
	tok := mintRaw(t, p, jwt.MapClaims{
		"sub":    "frank",
		"userId": "not-a-number",
		"exp":    time.Now().Add(time.Hour).Unix(),
	})

	_, err := p.GetUserIDFromToken(context.Background(), tok)
	if !errors.Is(err, common.ErrorNoUserID) {
		t.Fatalf("expected common.ErrorNoUserID, got %v", err)
	}
}

func TestGetUsernameFromToken_InvalidToken(t *testing.T) {
	t.Parallel()

	p := newTestProvider(t, time.Hour)

	_, err := p.GetUsernameFromToken(context.Background(), "not.a.jwt")
	if err == nil {
		t.Fatalf("expected error for malformed token, got nil")
	}
}
