// Package payment implements plan purchases: fixed-price subscription-style
// charges that share the provider contract with order checkout but keep
// their own ledger.
package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	domain "github.com/ironfitwear/storefront/internal/domain/payment"
	"github.com/ironfitwear/storefront/internal/pkg/apperr"
	"github.com/ironfitwear/storefront/internal/pkg/logging"
	"go.uber.org/zap"
)

const currency = "INR"

// IDGenerator produces identifiers for new payment records.
type IDGenerator interface {
	NewID() string
}

// Provider is the slice of the payment gateway this service needs.
type Provider interface {
	CreateOrder(ctx context.Context, amount int64, currency, receipt string) (string, error)
	VerifySignature(orderID, paymentID, signature string) bool
	KeyID() string
}

type Service struct {
	payments domain.Repository
	provider Provider
	ids      IDGenerator
	now      func() time.Time
}

func NewService(payments domain.Repository, provider Provider, ids IDGenerator) *Service {
	return &Service{payments: payments, provider: provider, ids: ids, now: time.Now}
}

// PlanOrder is what the client needs to open the provider's checkout widget.
type PlanOrder struct {
	ProviderOrderID string
	AmountPaise     int64
	Currency        string
	KeyID           string
}

// CreatePlanOrder registers a pending payment for the named plan and opens a
// provider order for its fixed price.
func (s *Service) CreatePlanOrder(ctx context.Context, userID string, plan domain.Plan) (*PlanOrder, error) {
	amountPaise, ok := domain.PlanAmountPaise(plan)
	if !ok {
		return nil, apperr.Validation(fmt.Sprintf("unknown plan %q", plan))
	}

	receipt := fmt.Sprintf("plan_%s_%d", userID, s.now().UnixMilli())
	providerOrderID, err := s.provider.CreateOrder(ctx, amountPaise, currency, receipt)
	if err != nil {
		return nil, err
	}

	p := &domain.Payment{
		ID:              s.ids.NewID(),
		UserID:          userID,
		Plan:            plan,
		Amount:          float64(amountPaise) / 100,
		Currency:        currency,
		ProviderOrderID: providerOrderID,
		Status:          domain.StatusPending,
		CreatedAt:       s.now().UTC(),
	}
	if err := s.payments.Insert(ctx, p); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, apperr.Conflict("provider order already recorded")
		}
		return nil, err
	}

	logging.FromContext(ctx).Info("plan_order_created",
		zap.String("user_id", userID),
		zap.String("plan", string(plan)),
		zap.String("provider_order_id", providerOrderID),
	)
	return &PlanOrder{
		ProviderOrderID: providerOrderID,
		AmountPaise:     amountPaise,
		Currency:        currency,
		KeyID:           s.provider.KeyID(),
	}, nil
}

// VerifyPayment settles a pending plan payment from the provider callback.
// A payment id that was already settled is reported as a conflict, a bad
// signature marks the record failed, and a repeated callback for the same
// already-paid order is answered with the paid record unchanged.
func (s *Service) VerifyPayment(ctx context.Context, providerOrderID, paymentID, signature string) (*domain.Payment, error) {
	if providerOrderID == "" || paymentID == "" || signature == "" {
		return nil, apperr.Validation("order id, payment id and signature are required")
	}

	if prior, err := s.payments.GetByProviderPaymentID(ctx, paymentID); err == nil && prior.Status == domain.StatusPaid {
		return nil, apperr.Conflict("payment already verified")
	} else if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	p, err := s.payments.GetByProviderOrderID(ctx, providerOrderID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperr.NotFound("payment not found")
		}
		return nil, err
	}

	if !s.provider.VerifySignature(providerOrderID, paymentID, signature) {
		if err := s.payments.MarkFailed(ctx, providerOrderID); err != nil {
			return nil, err
		}
		logging.FromContext(ctx).Warn("plan_payment_rejected",
			zap.String("provider_order_id", providerOrderID),
			zap.String("provider_payment_id", paymentID),
		)
		return nil, apperr.Validation("payment verification failed: invalid signature")
	}

	p, flipped, err := s.payments.MarkPaid(ctx, providerOrderID, paymentID, signature)
	if err != nil {
		return nil, err
	}
	if flipped {
		logging.FromContext(ctx).Info("plan_payment_settled",
			zap.String("provider_order_id", providerOrderID),
			zap.String("plan", string(p.Plan)),
		)
	}
	return p, nil
}

// History lists the caller's payments, newest first per repository contract.
func (s *Service) History(ctx context.Context, userID string) ([]*domain.Payment, error) {
	return s.payments.ListByUser(ctx, userID)
}
