// Package inventory adjusts per-product stock as a side effect of order
// lifecycle transitions.
package inventory

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	domain "github.com/ironfitwear/storefront/internal/domain/product"
	"github.com/ironfitwear/storefront/internal/pkg/apperr"
	"github.com/ironfitwear/storefront/internal/pkg/logging"
)

type Service struct {
	products domain.Repository
}

func NewService(products domain.Repository) *Service {
	return &Service{products: products}
}

// Adjust applies count_in_stock += delta. The repository performs the
// increment atomically at the storage layer, so concurrent orders for the
// same product never lose updates. Stock is allowed to go negative; oversell
// is a reporting concern, not a synchronous block.
func (s *Service) Adjust(ctx context.Context, productID string, delta int) error {
	if productID == "" {
		return apperr.Validation("product id is required")
	}
	if err := s.products.AdjustStock(ctx, productID, delta); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return apperr.NotFound("product not found")
		}
		return fmt.Errorf("inventory: adjust stock: %w", err)
	}
	logging.FromContext(ctx).Info("stock_adjusted",
		zap.String("product_id", productID),
		zap.Int("delta", delta),
	)
	return nil
}
