// Package users implements the credential store gateway: lookup and
// persistence of user records by username, email, and id.
package users

import (
	"context"

	"github.com/authmobile/authserver/internal/server/models"
)

type Repository interface {
	// Create persists a new user and returns it with the assigned id.
	// A username/email collision yields common.ErrorUsernameTaken or
	// common.ErrorEmailTaken.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// Find* return common.ErrorNotFound when no record matches; absence
	// is a normal outcome, not a failure.
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id int64) (*models.User, error)

	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
