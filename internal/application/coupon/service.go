// Package coupon evaluates coupon codes and owns admin coupon management.
package coupon

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	domain "github.com/ironfitwear/storefront/internal/domain/coupon"
	"github.com/ironfitwear/storefront/internal/pkg/apperr"
	"github.com/ironfitwear/storefront/internal/pkg/logging"
)

type IDGenerator interface {
	NewID() string
}

type Service struct {
	repo domain.Repository
	ids  IDGenerator
	now  func() time.Time
}

func NewService(repo domain.Repository, ids IDGenerator) *Service {
	return &Service{repo: repo, ids: ids, now: time.Now}
}

// Result is the canonical validation contract: the server always returns the
// absolute discount amount and clients never recompute from the percentage.
type Result struct {
	Code            string
	DiscountPercent int
	Discount        float64
}

// Validate checks the code against amount/expiry/usage rules and, on
// success, consumes one usage. The usage-limit check and the increment are a
// single atomic repository operation, so two racing validations of a
// one-use-left code yield exactly one success.
func (s *Service) Validate(ctx context.Context, code string, orderAmount float64) (*Result, error) {
	c, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperr.NotFound("invalid coupon code")
		}
		return nil, fmt.Errorf("coupon: lookup: %w", err)
	}
	if !c.IsActive {
		return nil, apperr.NotFound("invalid coupon code")
	}
	if c.Expired(s.now()) {
		return nil, apperr.Validation("coupon has expired")
	}
	if c.UsageLimit > 0 && c.UsedCount >= c.UsageLimit {
		return nil, apperr.Conflict("coupon usage limit reached")
	}
	if orderAmount < c.MinOrderAmount {
		return nil, apperr.Newf(apperr.KindValidation, "minimum order amount is ₹%v", c.MinOrderAmount)
	}

	// the read above is advisory; this is the authoritative check
	if err := s.repo.Consume(ctx, c.ID); err != nil {
		if errors.Is(err, domain.ErrExhausted) {
			return nil, apperr.Conflict("coupon usage limit reached")
		}
		return nil, fmt.Errorf("coupon: consume: %w", err)
	}

	discount := c.Discount(orderAmount)
	logging.FromContext(ctx).Info("coupon_applied",
		zap.String("code", c.Code),
		zap.Float64("order_amount", orderAmount),
		zap.Float64("discount", discount),
	)
	return &Result{Code: c.Code, DiscountPercent: c.DiscountPercent, Discount: discount}, nil
}

type CreateInput struct {
	Code            string
	DiscountPercent int
	MaxDiscount     float64
	MinOrderAmount  float64
	ExpiresAt       time.Time
	UsageLimit      int
}

func (s *Service) Create(ctx context.Context, input CreateInput) (*domain.Coupon, error) {
	code := domain.NormalizeCode(input.Code)
	if code == "" {
		return nil, apperr.Validation("coupon code is required")
	}
	if input.DiscountPercent < 1 || input.DiscountPercent > 100 {
		return nil, apperr.Validation("discount percent must be between 1 and 100")
	}
	if input.ExpiresAt.IsZero() {
		return nil, apperr.Validation("expiry date is required")
	}

	c := &domain.Coupon{
		ID:              s.ids.NewID(),
		Code:            code,
		DiscountPercent: input.DiscountPercent,
		MaxDiscount:     input.MaxDiscount,
		MinOrderAmount:  input.MinOrderAmount,
		ExpiresAt:       input.ExpiresAt,
		IsActive:        true,
		UsageLimit:      input.UsageLimit,
		CreatedAt:       s.now().UTC(),
	}
	if err := s.repo.Insert(ctx, c); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, apperr.Conflict("coupon code already exists")
		}
		return nil, fmt.Errorf("coupon: insert: %w", err)
	}
	return c, nil
}

func (s *Service) List(ctx context.Context) ([]*domain.Coupon, error) {
	return s.repo.List(ctx)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return apperr.NotFound("coupon not found")
		}
		return fmt.Errorf("coupon: delete: %w", err)
	}
	return nil
}
