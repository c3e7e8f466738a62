package user

import (
	"context"
	"errors"
	"strings"

	"github.com/ironfitwear/storefront/internal/domain/product"
	domain "github.com/ironfitwear/storefront/internal/domain/user"
	"github.com/ironfitwear/storefront/internal/pkg/apperr"
	"github.com/ironfitwear/storefront/internal/pkg/logging"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLen = 6

// IDGenerator produces identifiers for new users.
type IDGenerator interface {
	NewID() string
}

// TokenIssuer signs session tokens for authenticated users.
type TokenIssuer interface {
	Issue(userID string) (string, error)
}

// Service handles account lifecycle, authentication and wishlists.
type Service struct {
	users    domain.Repository
	products product.Repository
	tokens   TokenIssuer
	ids      IDGenerator
}

func NewService(users domain.Repository, products product.Repository, tokens TokenIssuer, ids IDGenerator) *Service {
	return &Service{users: users, products: products, tokens: tokens, ids: ids}
}

// AuthResult is what register and login hand back to the transport layer.
type AuthResult struct {
	User  *domain.User
	Token string
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
}

// Register creates an account and signs the caller in.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return nil, apperr.Validation("name, email and password are required")
	}
	if len(in.Password) < minPasswordLen {
		return nil, apperr.Validation("password must be at least 6 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUnknown, "hash password", err)
	}

	u := &domain.User{
		ID:           s.ids.NewID(),
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
		Phone:        strings.TrimSpace(in.Phone),
	}
	if err := s.users.Insert(ctx, u); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, apperr.Conflict("email already registered")
		}
		return nil, err
	}

	token, err := s.tokens.Issue(u.ID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUnknown, "issue token", err)
	}

	logging.FromContext(ctx).Info("user_registered",
		zap.String("user_id", u.ID),
		zap.String("email", u.Email),
	)
	return &AuthResult{User: u, Token: token}, nil
}

// Login verifies credentials and issues a fresh token. Unknown email and
// wrong password produce the same message so the endpoint does not leak
// which accounts exist.
func (s *Service) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperr.Authentication("invalid email or password")
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)) != nil {
		return nil, apperr.Authentication("invalid email or password")
	}

	token, err := s.tokens.Issue(u.ID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindUnknown, "issue token", err)
	}

	logging.FromContext(ctx).Info("user_logged_in", zap.String("user_id", u.ID))
	return &AuthResult{User: u, Token: token}, nil
}

// Get returns a single user by id.
func (s *Service) Get(ctx context.Context, id string) (*domain.User, error) {
	u, err := s.users.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, err
	}
	return u, nil
}

// List returns every account, for the admin console.
func (s *Service) List(ctx context.Context) ([]*domain.User, error) {
	return s.users.List(ctx)
}

// Delete removes an account. The last remaining admin can never be deleted,
// otherwise the console would lock itself out.
func (s *Service) Delete(ctx context.Context, id string) error {
	target, err := s.users.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return apperr.NotFound("user not found")
		}
		return err
	}
	if target.IsAdmin {
		admins, err := s.users.CountAdmins(ctx)
		if err != nil {
			return err
		}
		if admins <= 1 {
			return apperr.Conflict("cannot delete the last remaining admin")
		}
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	logging.FromContext(ctx).Info("user_deleted", zap.String("user_id", id))
	return nil
}

// ToggleWishlist flips a product in and out of the user's wishlist and
// returns the resulting list, resolved to products. Removed catalog entries
// are skipped rather than failing the whole list.
func (s *Service) ToggleWishlist(ctx context.Context, userID, productID string) ([]*product.Product, error) {
	if _, err := s.products.Get(ctx, productID); err != nil {
		if errors.Is(err, product.ErrNotFound) {
			return nil, apperr.NotFound("product not found")
		}
		return nil, err
	}
	u, err := s.users.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, err
	}

	added := u.ToggleWishlist(productID)
	if err := s.users.Update(ctx, u); err != nil {
		return nil, err
	}

	logging.FromContext(ctx).Info("wishlist_toggled",
		zap.String("user_id", userID),
		zap.String("product_id", productID),
		zap.Bool("added", added),
	)
	return s.resolveWishlist(ctx, u)
}

// GetWishlist resolves the user's wishlist to products.
func (s *Service) GetWishlist(ctx context.Context, userID string) ([]*product.Product, error) {
	u, err := s.users.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperr.NotFound("user not found")
		}
		return nil, err
	}
	return s.resolveWishlist(ctx, u)
}

func (s *Service) resolveWishlist(ctx context.Context, u *domain.User) ([]*product.Product, error) {
	items := make([]*product.Product, 0, len(u.Wishlist))
	for _, id := range u.Wishlist {
		p, err := s.products.Get(ctx, id)
		if err != nil {
			if errors.Is(err, product.ErrNotFound) {
				continue
			}
			return nil, err
		}
		items = append(items, p)
	}
	return items, nil
}
