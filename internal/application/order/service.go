// Package order owns the order lifecycle: placement, payment confirmation
// and fulfilment transitions, with inventory adjustment as a side effect.
package order

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	domain "github.com/ironfitwear/storefront/internal/domain/order"
	"github.com/ironfitwear/storefront/internal/domain/product"
	"github.com/ironfitwear/storefront/internal/pkg/apperr"
	"github.com/ironfitwear/storefront/internal/pkg/logging"
)

const (
	currency = "INR"

	// orders above this subtotal ship free
	freeShippingThreshold = 999
	flatShippingPrice     = 99
)

type Service struct {
	orders    domain.Repository
	products  product.Repository
	inventory InventoryAdjuster
	coupons   CouponValidator
	provider  PaymentProvider
	ids       IDGenerator
	now       func() time.Time
}

func NewService(
	orders domain.Repository,
	products product.Repository,
	inventory InventoryAdjuster,
	coupons CouponValidator,
	provider PaymentProvider,
	ids IDGenerator,
) *Service {
	return &Service{
		orders:    orders,
		products:  products,
		inventory: inventory,
		coupons:   coupons,
		provider:  provider,
		ids:       ids,
		now:       time.Now,
	}
}

type ItemInput struct {
	ProductID string
	Qty       int
}

type PlaceOrderInput struct {
	UserID          string
	Items           []ItemInput
	ShippingAddress domain.ShippingAddress
	CouponCode      string
}

// PlaceOrderResult carries what the client checkout widget needs alongside
// the persisted order.
type PlaceOrderResult struct {
	Order       *domain.Order
	KeyID       string
	AmountPaise int64
	Currency    string
}

// PlaceOrder snapshots current product data into line items, prices the
// order server-side, registers a provider order and persists the order
// unpaid. Stock is checked for availability but not reserved; the decrement
// happens at payment confirmation.
func (s *Service) PlaceOrder(ctx context.Context, input PlaceOrderInput) (*PlaceOrderResult, error) {
	if len(input.Items) == 0 {
		return nil, apperr.Validation("no order items")
	}

	now := s.now().UTC()
	items := make([]domain.LineItem, 0, len(input.Items))
	var itemsPrice float64
	for _, in := range input.Items {
		if in.Qty < 1 {
			return nil, apperr.Validation("item quantity must be at least 1")
		}
		p, err := s.products.Get(ctx, in.ProductID)
		if err != nil {
			if errors.Is(err, product.ErrNotFound) {
				return nil, apperr.NotFound("product not found")
			}
			return nil, fmt.Errorf("order: load product: %w", err)
		}
		if p.CountInStock < in.Qty {
			return nil, apperr.Newf(apperr.KindConflict, "insufficient stock for %s", p.Name)
		}
		items = append(items, domain.LineItem{
			ProductID: p.ID,
			Name:      p.Name,
			Image:     p.Image,
			Qty:       in.Qty,
			UnitPrice: p.Price,
		})
		itemsPrice += p.Price * float64(in.Qty)
	}

	var couponCode string
	var discount float64
	if input.CouponCode != "" {
		res, err := s.coupons.Validate(ctx, input.CouponCode, itemsPrice)
		if err != nil {
			return nil, err
		}
		couponCode = res.Code
		discount = res.Discount
	}

	shippingPrice := float64(flatShippingPrice)
	if itemsPrice > freeShippingThreshold {
		shippingPrice = 0
	}
	taxPrice := 0.0
	totalPrice := itemsPrice + taxPrice + shippingPrice - discount

	amountPaise := int64(math.Round(totalPrice * 100))
	receipt := fmt.Sprintf("receipt_%s_%d", input.UserID, now.UnixMilli())
	providerOrderID, err := s.provider.CreateOrder(ctx, amountPaise, currency, receipt)
	if err != nil {
		return nil, err
	}

	o := &domain.Order{
		ID:              s.ids.NewID(),
		UserID:          input.UserID,
		Items:           items,
		ShippingAddress: input.ShippingAddress,
		ItemsPrice:      itemsPrice,
		TaxPrice:        taxPrice,
		ShippingPrice:   shippingPrice,
		CouponCode:      couponCode,
		DiscountAmount:  discount,
		TotalPrice:      totalPrice,
		ProviderOrderID: providerOrderID,
		Status:          domain.StatusProcessing,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.orders.Insert(ctx, o); err != nil {
		return nil, fmt.Errorf("order: insert: %w", err)
	}

	logging.FromContext(ctx).Info("order_placed",
		zap.String("order_id", o.ID),
		zap.String("user_id", o.UserID),
		zap.Float64("total", o.TotalPrice),
		zap.String("provider_order_id", providerOrderID),
	)
	return &PlaceOrderResult{
		Order:       o,
		KeyID:       s.provider.KeyID(),
		AmountPaise: amountPaise,
		Currency:    currency,
	}, nil
}

// ConfirmPayment validates the provider callback and flips the order to
// paid. The flip is a compare-and-set on the unpaid flag, so a duplicated
// callback returns the already-paid order without touching stock again; the
// decrement runs exactly once, for the invocation that performed the flip.
func (s *Service) ConfirmPayment(ctx context.Context, providerOrderID, paymentID, signature string) (*domain.Order, error) {
	if providerOrderID == "" || paymentID == "" || signature == "" {
		return nil, apperr.Validation("missing payment verification fields")
	}
	if !s.provider.VerifySignature(providerOrderID, paymentID, signature) {
		logging.FromContext(ctx).Warn("payment_signature_rejected",
			zap.String("provider_order_id", providerOrderID),
			zap.String("provider_payment_id", paymentID),
		)
		return nil, apperr.Validation("payment verification failed: invalid signature")
	}

	o, flipped, err := s.orders.MarkPaid(ctx, providerOrderID, paymentID, signature, s.now().UTC())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperr.NotFound("order not found")
		}
		return nil, fmt.Errorf("order: mark paid: %w", err)
	}
	if !flipped {
		// duplicate webhook or doubled client handler; nothing more to do
		return o, nil
	}

	for _, item := range o.Items {
		if err := s.inventory.Adjust(ctx, item.ProductID, -item.Qty); err != nil {
			return nil, fmt.Errorf("order: decrement stock for %s: %w", item.ProductID, err)
		}
	}

	logging.FromContext(ctx).Info("order_paid",
		zap.String("order_id", o.ID),
		zap.String("provider_payment_id", paymentID),
	)
	return o, nil
}

// UpdateStatus advances the fulfilment state. Cancelling restores stock for
// paid orders exactly once; re-cancelling is a no-op.
func (s *Service) UpdateStatus(ctx context.Context, orderID string, newStatus domain.Status, actorIsAdmin bool) (*domain.Order, error) {
	if !actorIsAdmin {
		return nil, apperr.Authorization("admin access required")
	}

	o, err := s.orders.Get(ctx, orderID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperr.NotFound("order not found")
		}
		return nil, fmt.Errorf("order: get: %w", err)
	}
	if o.Status == newStatus {
		return o, nil
	}
	if !domain.CanTransition(o.Status, newStatus) {
		return nil, apperr.Newf(apperr.KindValidation, "cannot transition order from %s to %s", o.Status, newStatus)
	}

	changed, err := s.orders.TransitionStatus(ctx, orderID, o.Status, newStatus, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("order: transition status: %w", err)
	}
	if changed && newStatus == domain.StatusCancelled && o.IsPaid {
		// reverse the payment-time decrement, once
		for _, item := range o.Items {
			if err := s.inventory.Adjust(ctx, item.ProductID, item.Qty); err != nil {
				return nil, fmt.Errorf("order: restore stock for %s: %w", item.ProductID, err)
			}
		}
	}

	updated, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("order: reload: %w", err)
	}
	logging.FromContext(ctx).Info("order_status_updated",
		zap.String("order_id", orderID),
		zap.String("status", string(updated.Status)),
	)
	return updated, nil
}

func (s *Service) ListForUser(ctx context.Context, userID string) ([]*domain.Order, error) {
	return s.orders.ListByUser(ctx, userID)
}

func (s *Service) ListAll(ctx context.Context) ([]*domain.Order, error) {
	return s.orders.ListAll(ctx)
}

// GetByID returns the order when the requester owns it or is an admin.
func (s *Service) GetByID(ctx context.Context, orderID, requesterID string, requesterIsAdmin bool) (*domain.Order, error) {
	o, err := s.orders.Get(ctx, orderID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperr.NotFound("order not found")
		}
		return nil, fmt.Errorf("order: get: %w", err)
	}
	if o.UserID != requesterID && !requesterIsAdmin {
		return nil, apperr.Authorization("not your order")
	}
	return o, nil
}
