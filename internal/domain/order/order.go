package order

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("order: not found")
	ErrConflict = errors.New("order: conflict")
)

// LineItem captures the product at order time. Name, image and unit price are
// snapshots, deliberately frozen so historical orders are immune to later
// catalog edits.
type LineItem struct {
	ProductID string
	Name      string
	Image     string
	Qty       int
	UnitPrice float64
}

type ShippingAddress struct {
	Address    string
	City       string
	PostalCode string
	Country    string
}

type Order struct {
	ID     string
	UserID string
	Items  []LineItem

	ShippingAddress ShippingAddress

	ItemsPrice     float64
	TaxPrice       float64
	ShippingPrice  float64
	CouponCode     string
	DiscountAmount float64
	TotalPrice     float64

	ProviderOrderID   string
	ProviderPaymentID string
	ProviderSignature string
	IsPaid            bool
	PaidAt            *time.Time

	Status      Status
	IsDelivered bool
	DeliveredAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	clone := *o
	clone.Items = append([]LineItem(nil), o.Items...)
	if o.PaidAt != nil {
		t := *o.PaidAt
		clone.PaidAt = &t
	}
	if o.DeliveredAt != nil {
		t := *o.DeliveredAt
		clone.DeliveredAt = &t
	}
	return &clone
}

type Repository interface {
	Insert(ctx context.Context, o *Order) error
	Get(ctx context.Context, id string) (*Order, error)
	GetByProviderOrderID(ctx context.Context, providerOrderID string) (*Order, error)
	ListByUser(ctx context.Context, userID string) ([]*Order, error)
	ListAll(ctx context.Context) ([]*Order, error)

	// MarkPaid records the payment linkage and flips is_paid, but only when
	// the order is still unpaid: the compare-and-set is what makes payment
	// confirmation idempotent under duplicated callbacks. The returned bool
	// is true only for the invocation that performed the flip.
	MarkPaid(ctx context.Context, providerOrderID, paymentID, signature string, paidAt time.Time) (*Order, bool, error)

	// TransitionStatus moves the order from one status to another as a
	// single conditional update. It returns false without error when the
	// order is no longer in the expected source status.
	TransitionStatus(ctx context.Context, id string, from, to Status, at time.Time) (bool, error)
}
