package user

import (
	"context"
	"testing"

	domain "github.com/ironfitwear/storefront/internal/domain/user"

	"github.com/ironfitwear/storefront/internal/domain/product"
	"github.com/ironfitwear/storefront/internal/infrastructure/id"
	"github.com/ironfitwear/storefront/internal/infrastructure/memory"
	"github.com/ironfitwear/storefront/internal/infrastructure/token"
	"github.com/ironfitwear/storefront/internal/pkg/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newService(t *testing.T) (*Service, *memory.UserRepository, *memory.ProductRepository) {
	t.Helper()
	users := memory.NewUserRepository()
	products := memory.NewProductRepository()
	svc := NewService(users, products, token.NewManager("test-secret"), id.NewUUIDGenerator())
	return svc, users, products
}

func register(t *testing.T, svc *Service, name, email, password string) *AuthResult {
	t.Helper()
	res, err := svc.Register(context.Background(), RegisterInput{Name: name, Email: email, Password: password})
	require.NoError(t, err)
	return res
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	res := register(t, svc, "Asha", "Asha@Example.COM ", "hunter22")
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, "asha@example.com", res.User.Email)
	assert.False(t, res.User.IsAdmin)
	// never store the plaintext
	assert.NoError(t, bcrypt.CompareHashAndPassword(res.User.PasswordHash, []byte("hunter22")))

	// login is case-insensitive on email
	logged, err := svc.Login(ctx, "ASHA@example.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, logged.User.ID)
	assert.NotEmpty(t, logged.Token)
}

func TestRegisterValidations(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{Name: "", Email: "a@b.c", Password: "longenough"})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = svc.Register(ctx, RegisterInput{Name: "A", Email: "a@b.c", Password: "short"})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newService(t)
	register(t, svc, "Asha", "asha@example.com", "hunter22")

	_, err := svc.Register(context.Background(), RegisterInput{
		Name: "Imposter", Email: "ASHA@example.com", Password: "hunter22",
	})
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _, _ := newService(t)
	register(t, svc, "Asha", "asha@example.com", "hunter22")
	ctx := context.Background()

	_, err := svc.Login(ctx, "asha@example.com", "wrong-password")
	assert.Equal(t, apperr.KindAuthentication, apperr.KindOf(err))

	// unknown account yields the same kind and message shape
	_, err = svc.Login(ctx, "nobody@example.com", "hunter22")
	assert.Equal(t, apperr.KindAuthentication, apperr.KindOf(err))
}

func TestDeleteLastAdminGuard(t *testing.T) {
	svc, users, _ := newService(t)
	ctx := context.Background()

	admin := register(t, svc, "Root", "root@example.com", "hunter22").User
	admin.IsAdmin = true
	require.NoError(t, users.Update(ctx, admin))

	err := svc.Delete(ctx, admin.ID)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	// with a second admin on board the first becomes deletable
	other := register(t, svc, "Backup", "backup@example.com", "hunter22").User
	other.IsAdmin = true
	require.NoError(t, users.Update(ctx, other))

	require.NoError(t, svc.Delete(ctx, admin.ID))
	_, err = svc.Get(ctx, admin.ID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestDeleteRegularUser(t *testing.T) {
	svc, _, _ := newService(t)
	u := register(t, svc, "Asha", "asha@example.com", "hunter22").User
	require.NoError(t, svc.Delete(context.Background(), u.ID))
}

func TestWishlistToggleAndResolve(t *testing.T) {
	svc, _, products := newService(t)
	ctx := context.Background()

	p := product.New("p1", "Iron Tee")
	p.Price = 500
	require.NoError(t, products.Insert(ctx, p))

	u := register(t, svc, "Asha", "asha@example.com", "hunter22").User

	list, err := svc.ToggleWishlist(ctx, u.ID, "p1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Iron Tee", list[0].Name)

	// second toggle removes it
	list, err = svc.ToggleWishlist(ctx, u.ID, "p1")
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = svc.ToggleWishlist(ctx, u.ID, "ghost")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestWishlistSkipsDeletedProducts(t *testing.T) {
	svc, _, products := newService(t)
	ctx := context.Background()

	for _, pid := range []string{"p1", "p2"} {
		p := product.New(pid, "Item "+pid)
		p.Price = 100
		require.NoError(t, products.Insert(ctx, p))
	}

	u := register(t, svc, "Asha", "asha@example.com", "hunter22").User
	_, err := svc.ToggleWishlist(ctx, u.ID, "p1")
	require.NoError(t, err)
	_, err = svc.ToggleWishlist(ctx, u.ID, "p2")
	require.NoError(t, err)

	require.NoError(t, products.Delete(ctx, "p1"))

	list, err := svc.GetWishlist(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "p2", list[0].ID)
}

func TestListReturnsAllUsers(t *testing.T) {
	svc, _, _ := newService(t)
	register(t, svc, "A", "a@example.com", "hunter22")
	register(t, svc, "B", "b@example.com", "hunter22")

	all, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

var _ domain.Repository = (*memory.UserRepository)(nil)
