package coupon

import (
	"context"
	"sync"
	"testing"
	"time"

	domain "github.com/ironfitwear/storefront/internal/domain/coupon"
	"github.com/ironfitwear/storefront/internal/infrastructure/id"
	"github.com/ironfitwear/storefront/internal/infrastructure/memory"
	"github.com/ironfitwear/storefront/internal/pkg/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) (*Service, domain.Repository) {
	t.Helper()
	repo := memory.NewCouponRepository()
	return NewService(repo, id.NewUUIDGenerator()), repo
}

func seed(t *testing.T, svc *Service, input CreateInput) *domain.Coupon {
	t.Helper()
	c, err := svc.Create(context.Background(), input)
	require.NoError(t, err)
	return c
}

func TestValidateComputesBoundedDiscount(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	expires := time.Now().Add(24 * time.Hour)

	seed(t, svc, CreateInput{Code: "CAPPED", DiscountPercent: 20, MaxDiscount: 100, ExpiresAt: expires})
	seed(t, svc, CreateInput{Code: "OPEN", DiscountPercent: 20, ExpiresAt: expires})

	res, err := svc.Validate(ctx, "capped", 1000)
	require.NoError(t, err)
	assert.Equal(t, "CAPPED", res.Code)
	assert.Equal(t, 20, res.DiscountPercent)
	assert.Equal(t, 100.0, res.Discount)

	res, err = svc.Validate(ctx, "OPEN", 1000)
	require.NoError(t, err)
	assert.Equal(t, 200.0, res.Discount)
}

func TestValidateRejections(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	seed(t, svc, CreateInput{Code: "EXPIRED", DiscountPercent: 10, ExpiresAt: time.Now().Add(-time.Hour)})
	seed(t, svc, CreateInput{Code: "BIGCART", DiscountPercent: 10, MinOrderAmount: 500, ExpiresAt: time.Now().Add(time.Hour)})

	_, err := svc.Validate(ctx, "NOPE", 100)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	_, err = svc.Validate(ctx, "EXPIRED", 100)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = svc.Validate(ctx, "BIGCART", 499)
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.Contains(t, err.Error(), "500")
}

func TestValidateConsumesUsage(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	c := seed(t, svc, CreateInput{Code: "ONCE", DiscountPercent: 10, UsageLimit: 1, ExpiresAt: time.Now().Add(time.Hour)})

	_, err := svc.Validate(ctx, "ONCE", 100)
	require.NoError(t, err)

	_, err = svc.Validate(ctx, "ONCE", 100)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	stored, err := repo.GetByCode(ctx, "ONCE")
	require.NoError(t, err)
	assert.Equal(t, 1, stored.UsedCount)
	assert.Equal(t, c.ID, stored.ID)
}

// Two concurrent validations of a one-use coupon: exactly one wins and
// usedCount never overshoots the limit.
func TestValidateConcurrentExhaustion(t *testing.T) {
	svc, repo := newService(t)
	ctx := context.Background()

	seed(t, svc, CreateInput{Code: "RACE", DiscountPercent: 10, UsageLimit: 1, ExpiresAt: time.Now().Add(time.Hour)})

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Validate(ctx, "RACE", 100)
		}(i)
	}
	wg.Wait()

	successes, conflicts := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case apperr.IsKind(err, apperr.KindConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, conflicts)

	stored, err := repo.GetByCode(ctx, "RACE")
	require.NoError(t, err)
	assert.Equal(t, 1, stored.UsedCount)
}

func TestCreateValidation(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{Code: "", DiscountPercent: 10, ExpiresAt: time.Now()})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = svc.Create(ctx, CreateInput{Code: "X", DiscountPercent: 0, ExpiresAt: time.Now()})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	seed(t, svc, CreateInput{Code: "dup", DiscountPercent: 10, ExpiresAt: time.Now().Add(time.Hour)})
	_, err = svc.Create(ctx, CreateInput{Code: "DUP", DiscountPercent: 10, ExpiresAt: time.Now().Add(time.Hour)})
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}
