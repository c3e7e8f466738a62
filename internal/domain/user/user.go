package user

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("user: not found")
	ErrConflict = errors.New("user: email already registered")
)

type User struct {
	ID           string
	Name         string
	Email        string // stored lowercase, unique
	PasswordHash []byte
	Phone        string
	IsAdmin      bool
	Wishlist     []string // product ids, order-irrelevant
	CreatedAt    time.Time
}

// InWishlist reports whether the product is on the user's wishlist.
func (u *User) InWishlist(productID string) bool {
	for _, id := range u.Wishlist {
		if id == productID {
			return true
		}
	}
	return false
}

// ToggleWishlist adds the product when absent and removes it when present,
// returning true when the product ended up on the list.
func (u *User) ToggleWishlist(productID string) bool {
	for i, id := range u.Wishlist {
		if id == productID {
			u.Wishlist = append(u.Wishlist[:i], u.Wishlist[i+1:]...)
			return false
		}
	}
	u.Wishlist = append(u.Wishlist, productID)
	return true
}

type Repository interface {
	// Insert persists a new user; a duplicate email yields ErrConflict.
	Insert(ctx context.Context, u *User) error
	Update(ctx context.Context, u *User) error
	Get(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context) ([]*User, error)
	Delete(ctx context.Context, id string) error
	// CountAdmins supports the last-admin-standing guard on deletion.
	CountAdmins(ctx context.Context) (int, error)
}
