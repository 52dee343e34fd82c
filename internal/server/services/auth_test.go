package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/authmobile/authserver/internal/common"
	"github.com/authmobile/authserver/internal/logging"
	"github.com/authmobile/authserver/internal/server/auth"
	"github.com/authmobile/authserver/internal/server/repositories/repomanager"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func newAuthService(t *testing.T) (*AuthService, sqlmock.Sqlmock, *repomanager.InMemoryRepositoryManager) {
	t.Helper()

	db, mock := newSQLMockDB(t)
	rm := repomanager.NewInMemoryRepositoryManager()

	tokens, err := auth.NewTokenProvider("0123456789abcdef0123456789abcdef", time.Hour, logging.NopLogger{})
	if err != nil {
		t.Fatalf("NewTokenProvider error: %v", err)
	}

	return NewAuthService(db, rm, tokens, logging.NopLogger{}), mock, rm
}

func validRequest() RegisterRequest {
	return RegisterRequest{
		Username:        "alice",
		Email:           "a@x.com",
		Password:        "secret1",
		ConfirmPassword: "secret1",
	}
}

// register expects the insert transaction to commit.
func register(t *testing.T, s *AuthService, mock sqlmock.Sqlmock, req RegisterRequest) {
	t.Helper()
	mock.ExpectBegin()
	mock.ExpectCommit()
	if _, err := s.Register(context.Background(), req); err != nil {
		t.Fatalf("Register error: %v", err)
	}
}

// --- Register ---

func TestRegister_ValidationOrder(t *testing.T) {
	s, _, _ := newAuthService(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  RegisterRequest
		want error
	}{
		{
			name: "empty username wins over everything",
			req:  RegisterRequest{},
			want: common.ErrorUsernameRequired,
		},
		{
			name: "empty email",
			req:  RegisterRequest{Username: "alice"},
			want: common.ErrorEmailRequired,
		},
		{
			name: "empty password",
			req:  RegisterRequest{Username: "alice", Email: "a@x.com"},
			want: common.ErrorPasswordRequired,
		},
		{
			name: "mismatch checked before length",
			req:  RegisterRequest{Username: "alice", Email: "a@x.com", Password: "ab", ConfirmPassword: "cd"},
			want: common.ErrorPasswordMismatch,
		},
		{
			name: "short password",
			req:  RegisterRequest{Username: "alice", Email: "a@x.com", Password: "ab", ConfirmPassword: "ab"},
			want: common.ErrorPasswordTooShort,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Register(ctx, tt.req)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestRegister_Success(t *testing.T) {
	s, mock, _ := newAuthService(t)

	mock.ExpectBegin()
	mock.ExpectCommit()

	user, err := s.Register(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if user.ID == 0 {
		t.Fatalf("expected assigned id")
	}
	if user.Role != "USER" || !user.IsActive {
		t.Fatalf("expected USER/active defaults, got %q/%v", user.Role, user.IsActive)
	}
	if user.PasswordHash == "" || user.PasswordHash == "secret1" {
		t.Fatalf("password must be stored hashed, got %q", user.PasswordHash)
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	s, mock, _ := newAuthService(t)

	register(t, s, mock, validRequest())

	second := validRequest()
	second.Email = "other@x.com"

	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := s.Register(context.Background(), second)
	if !errors.Is(err, common.ErrorUsernameTaken) {
		t.Fatalf("expected ErrorUsernameTaken, got %v", err)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	s, mock, _ := newAuthService(t)

	register(t, s, mock, validRequest())

	second := validRequest()
	second.Username = "bob"

	mock.ExpectBegin()
	mock.ExpectRollback()

	_, err := s.Register(context.Background(), second)
	if !errors.Is(err, common.ErrorEmailTaken) {
		t.Fatalf("expected ErrorEmailTaken, got %v", err)
	}
}

// --- Login ---

func TestLogin_SuccessWithUsernameAndEmail(t *testing.T) {
	s, mock, _ := newAuthService(t)
	ctx := context.Background()

	register(t, s, mock, validRequest())

	for _, identifier := range []string{"alice", "a@x.com"} {
		token, user, err := s.Login(ctx, identifier, "secret1")
		if err != nil {
			t.Fatalf("Login(%q) error: %v", identifier, err)
		}
		if token == "" {
			t.Fatalf("expected non-empty token")
		}
		if user.Username != "alice" {
			t.Fatalf("unexpected user %q", user.Username)
		}
	}
}

func TestLogin_TokenCarriesIdentity(t *testing.T) {
	s, mock, _ := newAuthService(t)
	ctx := context.Background()

	register(t, s, mock, validRequest())

	token, user, err := s.Login(ctx, "alice", "secret1")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}

	if !s.tokens.ValidateToken(ctx, token) {
		t.Fatalf("expected issued token to validate")
	}
	username, err := s.tokens.GetUsernameFromToken(ctx, token)
	if err != nil || username != "alice" {
		t.Fatalf("subject mismatch: %q, %v", username, err)
	}
	userID, err := s.tokens.GetUserIDFromToken(ctx, token)
	if err != nil || userID != user.ID {
		t.Fatalf("userId mismatch: %d vs %d, %v", userID, user.ID, err)
	}
}

func TestLogin_GenericFailureIndistinguishable(t *testing.T) {
	s, mock, _ := newAuthService(t)
	ctx := context.Background()

	register(t, s, mock, validRequest())

	_, _, errWrongPassword := s.Login(ctx, "alice", "wrong-password")
	_, _, errUnknownUser := s.Login(ctx, "nobody", "secret1")

	if !errors.Is(errWrongPassword, common.ErrorInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrorInvalidCredentials, got %v", errWrongPassword)
	}
	if !errors.Is(errUnknownUser, common.ErrorInvalidCredentials) {
		t.Fatalf("unknown user: expected ErrorInvalidCredentials, got %v", errUnknownUser)
	}
	if errWrongPassword.Error() != errUnknownUser.Error() {
		t.Fatalf("failure messages must be identical: %q vs %q", errWrongPassword, errUnknownUser)
	}
}

func TestLogin_InactiveAccount(t *testing.T) {
	s, mock, rm := newAuthService(t)
	ctx := context.Background()

	register(t, s, mock, validRequest())

	user, err := rm.UserStore().FindByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("FindByUsername error: %v", err)
	}
	user.IsActive = false
	if err := rm.UserStore().Update(ctx, user); err != nil {
		t.Fatalf("Update error: %v", err)
	}

	// Correct password, but the account is disabled.
	_, _, err = s.Login(ctx, "alice", "secret1")
	if !errors.Is(err, common.ErrorAccountInactive) {
		t.Fatalf("expected ErrorAccountInactive, got %v", err)
	}
}

func TestLogin_MissingInput(t *testing.T) {
	s, _, _ := newAuthService(t)
	ctx := context.Background()

	if _, _, err := s.Login(ctx, "", "pw"); !errors.Is(err, common.ErrorIdentifierMissing) {
		t.Fatalf("expected ErrorIdentifierMissing, got %v", err)
	}
	if _, _, err := s.Login(ctx, "alice", ""); !errors.Is(err, common.ErrorPasswordRequired) {
		t.Fatalf("expected ErrorPasswordRequired, got %v", err)
	}
}

// --- lookups ---

func TestGetUserBy_PassThrough(t *testing.T) {
	s, mock, _ := newAuthService(t)
	ctx := context.Background()

	register(t, s, mock, validRequest())

	byName, err := s.GetUserByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("GetUserByUsername error: %v", err)
	}
	byMail, err := s.GetUserByEmail(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("GetUserByEmail error: %v", err)
	}
	byID, err := s.GetUserByID(ctx, byName.ID)
	if err != nil {
		t.Fatalf("GetUserByID error: %v", err)
	}
	if byName.ID != byMail.ID || byMail.ID != byID.ID {
		t.Fatalf("lookups disagree")
	}

	if _, err := s.GetUserByUsername(ctx, "ghost"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound for absent user, got %v", err)
	}
}
