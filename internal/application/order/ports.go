package order

import (
	"context"

	appcoupon "github.com/ironfitwear/storefront/internal/application/coupon"
)

type IDGenerator interface {
	NewID() string
}

// PaymentProvider creates provider orders and judges callback signatures.
// It performs no store mutations; this service owns all side effects.
type PaymentProvider interface {
	// CreateOrder registers a provider-side order for the amount (in the
	// currency's minor unit) and returns its id.
	CreateOrder(ctx context.Context, amount int64, currency, receipt string) (string, error)
	VerifySignature(orderID, paymentID, signature string) bool
	KeyID() string
}

// CouponValidator evaluates and consumes a coupon code for the given amount.
type CouponValidator interface {
	Validate(ctx context.Context, code string, orderAmount float64) (*appcoupon.Result, error)
}

// InventoryAdjuster applies an atomic stock delta for one product.
type InventoryAdjuster interface {
	Adjust(ctx context.Context, productID string, delta int) error
}
