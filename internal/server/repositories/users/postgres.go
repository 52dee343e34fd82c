package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/authmobile/authserver/internal/common"
	"github.com/authmobile/authserver/internal/dbx"
	"github.com/authmobile/authserver/internal/server/models"
)

const uniqueViolation = "23505"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {

	query :=
		`INSERT INTO users (username, email, password_hash, role, is_active)
         VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		user.Username, user.Email, user.PasswordHash, user.Role, user.IsActive).
		Scan(&user.ID, &user.CreatedAt)

	if err != nil {
		if mapped := mapUniqueViolation(err); mapped != nil {
			return nil, mapped
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, "username = $1", username)
}

func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, "email = $1", email)
}

func (r *PostgresRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	return r.findOne(ctx, "id = $1", id)
}

func (r *PostgresRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, "username = $1", username)
}

func (r *PostgresRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "email = $1", email)
}

func (r *PostgresRepository) findOne(ctx context.Context, cond string, arg any) (*models.User, error) {
	query :=
		`SELECT id, username, email, password_hash, role, is_active, created_at FROM users
		 WHERE ` + cond

	user := &models.User{}
	err := r.db.QueryRowContext(ctx, query, arg).
		Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.Role, &user.IsActive, &user.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) exists(ctx context.Context, cond string, arg any) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE ` + cond + `)`

	var exists bool
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	return exists, nil
}

// mapUniqueViolation translates a Postgres unique-constraint violation into
// the matching already-exists sentinel, based on the constraint name. This
// covers registrations racing past the pre-insert existence checks: the
// store's atomic constraint is the final arbiter.
func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return nil
	}

	if strings.Contains(pgErr.ConstraintName, "email") {
		return common.ErrorEmailTaken
	}
	return common.ErrorUsernameTaken
}
