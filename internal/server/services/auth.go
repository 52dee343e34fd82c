// Package services contains server-side business logic. This file implements
// AuthService, which handles registration, credential verification, and
// issuing bearer tokens.
package services

import (
	"context"
	"database/sql"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/authmobile/authserver/internal/common"
	"github.com/authmobile/authserver/internal/dbx"
	"github.com/authmobile/authserver/internal/logging"
	"github.com/authmobile/authserver/internal/server/auth"
	"github.com/authmobile/authserver/internal/server/models"
	"github.com/authmobile/authserver/internal/server/repositories/repomanager"
)

// MinPasswordLen is the minimum accepted password length at registration.
const MinPasswordLen = 6

// RegisterRequest carries the registration form fields. The plaintext
// password never leaves this struct unhashed.
type RegisterRequest struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
}

// AuthService provides authentication-related operations:
//   - Register: validate input and create users
//   - Login: verify credentials and mint a token
//   - GetUserBy*: pass-through lookups
type AuthService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	tokens      *auth.TokenProvider
	logger      logging.Logger
}

// NewAuthService constructs an AuthService using repositories and the token
// provider.
func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, tokens *auth.TokenProvider, logger logging.Logger) *AuthService {
	return &AuthService{
		db:          db,
		repomanager: m,
		tokens:      tokens,
		logger:      logger.With("module", "auth_service"),
	}
}

// Register validates the request, hashes the password, and creates the user
// with role USER and an active account. Validation short-circuits on the
// first failure; the returned sentinel's text is the client-facing message.
//
// The uniqueness pre-checks and the insert run in one transaction. A
// concurrent registration racing past the pre-checks still surfaces as the
// already-exists errors via the store's unique constraints.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*models.User, error) {
	if req.Username == "" {
		return nil, common.ErrorUsernameRequired
	}
	if req.Email == "" {
		return nil, common.ErrorEmailRequired
	}
	if req.Password == "" {
		return nil, common.ErrorPasswordRequired
	}
	if req.Password != req.ConfirmPassword {
		return nil, common.ErrorPasswordMismatch
	}
	if len(req.Password) < MinPasswordLen {
		return nil, common.ErrorPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error(ctx, "password hashing failed", "error", err.Error())
		return nil, common.ErrorInternal
	}

	var created *models.User
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)

		taken, err := repo.ExistsByUsername(ctx, req.Username)
		if err != nil {
			return common.ErrorInternal
		}
		if taken {
			return common.ErrorUsernameTaken
		}

		taken, err = repo.ExistsByEmail(ctx, req.Email)
		if err != nil {
			return common.ErrorInternal
		}
		if taken {
			return common.ErrorEmailTaken
		}

		created, err = repo.Create(ctx, &models.User{
			Username:     req.Username,
			Email:        req.Email,
			PasswordHash: string(hash),
			Role:         models.RoleUser,
			IsActive:     true,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "user registered", "username", created.Username, "user_id", created.ID)
	return created, nil
}

// Login resolves the identifier as a username first and falls back to email,
// then verifies the password against the stored bcrypt hash. Unknown
// identifiers and wrong passwords both return ErrorInvalidCredentials so the
// response does not reveal which identifiers exist. An inactive account is
// reported as such even before the password is checked; that asymmetry is
// intentional and matches the service's published behavior.
func (s *AuthService) Login(ctx context.Context, usernameOrEmail, password string) (string, *models.User, error) {
	if usernameOrEmail == "" {
		return "", nil, common.ErrorIdentifierMissing
	}
	if password == "" {
		return "", nil, common.ErrorPasswordRequired
	}

	repo := s.repomanager.Users(s.db)

	user, err := repo.FindByUsername(ctx, usernameOrEmail)
	if errors.Is(err, common.ErrorNotFound) {
		user, err = repo.FindByEmail(ctx, usernameOrEmail)
	}
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", nil, common.ErrorInvalidCredentials
		}
		return "", nil, common.ErrorInternal
	}

	if !user.IsActive {
		return "", nil, common.ErrorAccountInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, common.ErrorInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(user.Username, user.ID)
	if err != nil {
		s.logger.Error(ctx, "token generation failed", "error", err.Error())
		return "", nil, common.ErrorInternal
	}

	s.logger.Info(ctx, "user logged in", "username", user.Username, "user_id", user.ID)
	return token, user, nil
}

// GetUserByUsername returns the stored user or common.ErrorNotFound.
func (s *AuthService) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.repomanager.Users(s.db).FindByUsername(ctx, username)
}

// GetUserByEmail returns the stored user or common.ErrorNotFound.
func (s *AuthService) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.repomanager.Users(s.db).FindByEmail(ctx, email)
}

// GetUserByID returns the stored user or common.ErrorNotFound.
func (s *AuthService) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	return s.repomanager.Users(s.db).FindByID(ctx, id)
}
