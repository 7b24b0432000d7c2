package auth

import (
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
)

var ErrUserNotFound = errors.New("user not found")

// InMemoryUserRepository holds the operator accounts seeded from configuration.
type InMemoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]*User
}

func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{
		users: make(map[string]*User),
	}
}

func (r *InMemoryUserRepository) Save(user *User) error {
	// Generate UUID if not already set
	if user.ID == "" {
		user.ID = uuid.New().String()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[normalizeEmail(user.Email)] = user
	return nil
}

func (r *InMemoryUserRepository) FindByEmail(email string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[normalizeEmail(email)]
	if !ok {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
