package users

import (
	"context"
	"sync"

	"github.com/authmobile/authserver/internal/common"
	"github.com/authmobile/authserver/internal/server/models"
)

// InMemoryRepository is a map-backed Repository used in tests and local
// experiments. Uniqueness is enforced under a single mutex, mirroring the
// atomic constraint checks of the Postgres implementation.
type InMemoryRepository struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]models.User
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		nextID: 1,
		byID:   make(map[int64]models.User),
	}
}

func (r *InMemoryRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.byID {
		if u.Username == user.Username {
			return nil, common.ErrorUsernameTaken
		}
		if u.Email == user.Email {
			return nil, common.ErrorEmailTaken
		}
	}

	user.ID = r.nextID
	r.nextID++
	r.byID[user.ID] = *user

	return user, nil
}

func (r *InMemoryRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.Username == username })
}

func (r *InMemoryRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.Email == email })
}

func (r *InMemoryRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.ID == id })
}

func (r *InMemoryRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := r.FindByUsername(ctx, username)
	if err == common.ErrorNotFound {
		return false, nil
	}
	return err == nil, err
}

func (r *InMemoryRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.FindByEmail(ctx, email)
	if err == common.ErrorNotFound {
		return false, nil
	}
	return err == nil, err
}

// Update replaces a stored record in place. Used by tests to flip flags
// such as IsActive; the service itself never mutates users.
func (r *InMemoryRepository) Update(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[user.ID]; !ok {
		return common.ErrorNotFound
	}
	r.byID[user.ID] = *user
	return nil
}

func (r *InMemoryRepository) find(match func(models.User) bool) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.byID {
		if match(u) {
			found := u
			return &found, nil
		}
	}
	return nil, common.ErrorNotFound
}
