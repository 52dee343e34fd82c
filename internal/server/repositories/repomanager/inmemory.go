package repomanager

import (
	"context"
	"database/sql"

	"github.com/authmobile/authserver/internal/dbx"
	"github.com/authmobile/authserver/internal/server/repositories/users"
)

// InMemoryRepositoryManager returns the same map-backed users repository for
// every handle. There is no real transactionality; tests that need rollback
// behavior should use sqlmock instead.
type InMemoryRepositoryManager struct {
	users *users.InMemoryRepository
}

func NewInMemoryRepositoryManager() *InMemoryRepositoryManager {
	return &InMemoryRepositoryManager{users: users.NewInMemoryRepository()}
}

func (m *InMemoryRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return m.users
}

// UserStore exposes the underlying in-memory repository so tests can seed
// and inspect records directly.
func (m *InMemoryRepositoryManager) UserStore() *users.InMemoryRepository {
	return m.users
}

func (m *InMemoryRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	return nil
}
