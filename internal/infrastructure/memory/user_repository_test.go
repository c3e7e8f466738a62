package memory

import (
	"context"
	"testing"

	domain "github.com/ironfitwear/storefront/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserUpdateReindexesEmail(t *testing.T) {
	repo := NewUserRepository()
	ctx := context.Background()

	require.NoError(t, repo.Insert(ctx, &domain.User{ID: "u1", Name: "Asha", Email: "asha@example.com"}))
	require.NoError(t, repo.Insert(ctx, &domain.User{ID: "u2", Name: "Bo", Email: "bo@example.com"}))

	u, err := repo.Get(ctx, "u1")
	require.NoError(t, err)
	u.Email = "asha@newmail.com"
	require.NoError(t, repo.Update(ctx, u))

	got, err := repo.GetByEmail(ctx, "asha@newmail.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.ID)

	_, err = repo.GetByEmail(ctx, "asha@example.com")
	assert.Equal(t, domain.ErrNotFound, err)

	// changing to an address another account holds is refused
	u.Email = "bo@example.com"
	assert.Equal(t, domain.ErrConflict, repo.Update(ctx, u))
}
