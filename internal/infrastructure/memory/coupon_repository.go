package memory

import (
	"context"
	"sort"
	"sync"

	domain "github.com/ironfitwear/storefront/internal/domain/coupon"
)

type CouponRepository struct {
	mu      sync.Mutex
	coupons map[string]*domain.Coupon // keyed by id
	byCode  map[string]string
}

func NewCouponRepository() *CouponRepository {
	return &CouponRepository{
		coupons: make(map[string]*domain.Coupon),
		byCode:  make(map[string]string),
	}
}

func (r *CouponRepository) Insert(_ context.Context, c *domain.Coupon) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byCode[c.Code]; exists {
		return domain.ErrConflict
	}
	r.coupons[c.ID] = cloneCoupon(c)
	r.byCode[c.Code] = c.ID
	return nil
}

func (r *CouponRepository) GetByCode(_ context.Context, code string) (*domain.Coupon, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.byCode[domain.NormalizeCode(code)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneCoupon(r.coupons[id]), nil
}

func (r *CouponRepository) List(_ context.Context) ([]*domain.Coupon, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*domain.Coupon, 0, len(r.coupons))
	for _, c := range r.coupons {
		out = append(out, cloneCoupon(c))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *CouponRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.coupons[id]
	if !ok {
		return domain.ErrNotFound
	}
	delete(r.byCode, c.Code)
	delete(r.coupons, id)
	return nil
}

// Consume check-and-increments under the repository mutex, matching the
// conditional UPDATE the Postgres repository issues.
func (r *CouponRepository) Consume(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.coupons[id]
	if !ok {
		return domain.ErrNotFound
	}
	if c.UsageLimit > 0 && c.UsedCount >= c.UsageLimit {
		return domain.ErrExhausted
	}
	c.UsedCount++
	return nil
}

func cloneCoupon(c *domain.Coupon) *domain.Coupon {
	if c == nil {
		return nil
	}
	clone := *c
	return &clone
}
