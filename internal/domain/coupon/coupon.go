package coupon

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"
)

var (
	ErrNotFound = errors.New("coupon: not found")
	ErrConflict = errors.New("coupon: already exists")
	// ErrExhausted is returned by Consume when the usage limit is already
	// reached; the check and the increment are one atomic operation.
	ErrExhausted = errors.New("coupon: usage limit reached")
)

type Coupon struct {
	ID              string
	Code            string // stored uppercase; lookups are case-insensitive
	DiscountPercent int    // 1..100
	MaxDiscount     float64
	MinOrderAmount  float64
	ExpiresAt       time.Time
	IsActive        bool
	UsageLimit      int // 0 = unlimited
	UsedCount       int
	CreatedAt       time.Time
}

// NormalizeCode canonicalises a coupon code for storage and lookup.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Discount computes the rounded percentage discount for orderAmount, capped
// at MaxDiscount when a cap is set (0 means uncapped).
func (c *Coupon) Discount(orderAmount float64) float64 {
	d := orderAmount * float64(c.DiscountPercent) / 100
	if c.MaxDiscount > 0 && d > c.MaxDiscount {
		d = c.MaxDiscount
	}
	return math.Round(d)
}

func (c *Coupon) Expired(now time.Time) bool {
	return c.ExpiresAt.Before(now)
}

type Repository interface {
	Insert(ctx context.Context, c *Coupon) error
	GetByCode(ctx context.Context, code string) (*Coupon, error)
	List(ctx context.Context) ([]*Coupon, error)
	Delete(ctx context.Context, id string) error

	// Consume increments used_count by one, but only while the usage limit
	// has headroom (usage_limit = 0 means unlimited). The conditional
	// increment must be a single storage-level operation so concurrent
	// validations can never overshoot the limit; ErrExhausted is returned
	// when the limit was already reached.
	Consume(ctx context.Context, id string) error
}
