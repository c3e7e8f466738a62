package memory

import (
	"context"
	"strings"
	"sync"

	domain "github.com/ironfitwear/storefront/internal/domain/user"
)

type UserRepository struct {
	mu      sync.RWMutex
	users   map[string]*domain.User
	byEmail map[string]string
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		users:   make(map[string]*domain.User),
		byEmail: make(map[string]string),
	}
}

func (r *UserRepository) Insert(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	email := strings.ToLower(u.Email)
	if _, exists := r.byEmail[email]; exists {
		return domain.ErrConflict
	}
	r.users[u.ID] = cloneUser(u)
	r.byEmail[email] = u.ID
	return nil
}

func (r *UserRepository) Update(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.users[u.ID]
	if !ok {
		return domain.ErrNotFound
	}
	oldEmail := strings.ToLower(existing.Email)
	newEmail := strings.ToLower(u.Email)
	if oldEmail != newEmail {
		if otherID, taken := r.byEmail[newEmail]; taken && otherID != u.ID {
			return domain.ErrConflict
		}
		delete(r.byEmail, oldEmail)
		r.byEmail[newEmail] = u.ID
	}
	r.users[u.ID] = cloneUser(u)
	return nil
}

func (r *UserRepository) Get(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneUser(u), nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneUser(r.users[id]), nil
}

func (r *UserRepository) List(_ context.Context) ([]*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, cloneUser(u))
	}
	return out, nil
}

func (r *UserRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	delete(r.byEmail, strings.ToLower(u.Email))
	delete(r.users, id)
	return nil
}

func (r *UserRepository) CountAdmins(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, u := range r.users {
		if u.IsAdmin {
			count++
		}
	}
	return count, nil
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.PasswordHash = append([]byte(nil), u.PasswordHash...)
	clone.Wishlist = append([]string(nil), u.Wishlist...)
	return &clone
}
