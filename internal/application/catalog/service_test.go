package catalog

import (
	"context"
	"testing"

	domain "github.com/ironfitwear/storefront/internal/domain/product"
	"github.com/ironfitwear/storefront/internal/infrastructure/id"
	"github.com/ironfitwear/storefront/internal/infrastructure/memory"
	"github.com/ironfitwear/storefront/internal/pkg/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) (*Service, *memory.ProductRepository) {
	t.Helper()
	repo := memory.NewProductRepository()
	return NewService(repo, id.NewUUIDGenerator()), repo
}

func TestSearchFilterComposition(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, ProductInput{Name: "Iron Tee", Category: "T-Shirts", Price: 499, Tags: []string{"bestseller"}})
	require.NoError(t, err)
	_, err = svc.Create(ctx, ProductInput{Name: "Iron Hoodie", Category: "Hoodies", Price: 999})
	require.NoError(t, err)

	byCategory, err := svc.Search(ctx, domain.Filter{Category: "T-Shirts"})
	require.NoError(t, err)
	require.Len(t, byCategory, 1)
	assert.Equal(t, "Iron Tee", byCategory[0].Name)

	byKeyword, err := svc.Search(ctx, domain.Filter{Keyword: "iron"})
	require.NoError(t, err)
	assert.Len(t, byKeyword, 2)

	byTag, err := svc.Search(ctx, domain.Filter{Tag: "bestseller"})
	require.NoError(t, err)
	require.Len(t, byTag, 1)
	assert.Equal(t, "Iron Tee", byTag[0].Name)

	all, err := svc.Search(ctx, domain.Filter{Category: "All"})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestCreateDerivesSlug(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, ProductInput{Name: "Beast Mode Tee!!", Price: 599})
	require.NoError(t, err)
	assert.Equal(t, "beast-mode-tee", p.Slug)

	got, err := svc.GetBySlug(ctx, "beast-mode-tee")
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)

	// originalPrice defaults to price for discount display
	assert.Equal(t, 599.0, got.OriginalPrice)
}

func TestCreateRejectsDuplicateSlug(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, ProductInput{Name: "Iron Tee", Price: 499})
	require.NoError(t, err)
	_, err = svc.Create(ctx, ProductInput{Name: "Iron Tee!", Price: 499})
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestUpdateRederivesSlugOnRename(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, ProductInput{Name: "Iron Tee", Price: 499})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, p.ID, ProductInput{Name: "Steel Tee"})
	require.NoError(t, err)
	assert.Equal(t, "steel-tee", updated.Slug)

	_, err = svc.GetBySlug(ctx, "iron-tee")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func intp(v int) *int { return &v }

func TestUpdateStockSemantics(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	p, err := svc.Create(ctx, ProductInput{Name: "Iron Tee", Price: 499, CountInStock: intp(10)})
	require.NoError(t, err)

	// an explicit stock edit lands in storage, not just in the response
	updated, err := svc.Update(ctx, p.ID, ProductInput{CountInStock: intp(50)})
	require.NoError(t, err)
	assert.Equal(t, 50, updated.CountInStock)

	stored, err := repo.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, stored.CountInStock)

	// a partial update without the field leaves stock alone
	_, err = svc.Update(ctx, p.ID, ProductInput{Price: 549})
	require.NoError(t, err)

	stored, err = repo.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, stored.CountInStock)
	assert.Equal(t, 549.0, stored.Price)

	_, err = svc.Update(ctx, p.ID, ProductInput{CountInStock: intp(-1)})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestTopReturnsHighestRated(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	for i, name := range []string{"A", "B", "C", "D", "E"} {
		p := domain.New(name+"-id", name)
		p.Rating = float64(i + 1)
		require.NoError(t, repo.Insert(ctx, p))
	}

	top, err := svc.Top(ctx)
	require.NoError(t, err)
	require.Len(t, top, 4)
	assert.Equal(t, "E", top[0].Name)
	assert.Equal(t, "B", top[3].Name)
}
