// Package payment models the standing plan-purchase records, distinct from
// storefront orders but settled through the same provider contract.
package payment

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("payment: not found")
	// ErrConflict guards the provider order id uniqueness: two payment
	// attempts can never collide on the same provider order.
	ErrConflict = errors.New("payment: provider order already recorded")
)

type Status string

const (
	StatusPending Status = "pending"
	StatusPaid    Status = "paid"
	StatusFailed  Status = "failed"
)

type Plan string

const (
	PlanBasic Plan = "Basic"
	PlanPro   Plan = "Pro"
	PlanElite Plan = "Elite"
)

// PlanAmountPaise returns the fixed plan price in paise, the unit the
// provider charges in.
func PlanAmountPaise(p Plan) (int64, bool) {
	switch p {
	case PlanBasic:
		return 49900, true
	case PlanPro:
		return 99900, true
	case PlanElite:
		return 199900, true
	}
	return 0, false
}

type Payment struct {
	ID                string
	UserID            string
	Plan              Plan
	Amount            float64 // rupees
	Currency          string
	ProviderOrderID   string
	ProviderPaymentID string
	ProviderSignature string
	Status            Status
	CreatedAt         time.Time
}

type Repository interface {
	Insert(ctx context.Context, p *Payment) error
	GetByProviderOrderID(ctx context.Context, providerOrderID string) (*Payment, error)
	GetByProviderPaymentID(ctx context.Context, providerPaymentID string) (*Payment, error)
	ListByUser(ctx context.Context, userID string) ([]*Payment, error)

	// MarkPaid flips a pending payment to paid and records the provider
	// linkage, only when the record is not already paid. The bool reports
	// whether this call performed the flip.
	MarkPaid(ctx context.Context, providerOrderID, paymentID, signature string) (*Payment, bool, error)
	MarkFailed(ctx context.Context, providerOrderID string) error
}
