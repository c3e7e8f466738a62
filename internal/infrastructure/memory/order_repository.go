package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	domain "github.com/ironfitwear/storefront/internal/domain/order"
)

type OrderRepository struct {
	mu              sync.RWMutex
	orders          map[string]*domain.Order
	byProviderOrder map[string]string
}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{
		orders:          make(map[string]*domain.Order),
		byProviderOrder: make(map[string]string),
	}
}

func (r *OrderRepository) Insert(_ context.Context, o *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.orders[o.ID]; exists {
		return domain.ErrConflict
	}
	if o.ProviderOrderID != "" {
		if _, exists := r.byProviderOrder[o.ProviderOrderID]; exists {
			return domain.ErrConflict
		}
		r.byProviderOrder[o.ProviderOrderID] = o.ID
	}
	r.orders[o.ID] = o.Clone()
	return nil
}

func (r *OrderRepository) Get(_ context.Context, id string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.orders[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return o.Clone(), nil
}

func (r *OrderRepository) GetByProviderOrderID(_ context.Context, providerOrderID string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byProviderOrder[providerOrderID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return r.orders[id].Clone(), nil
}

func (r *OrderRepository) ListByUser(_ context.Context, userID string) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*domain.Order
	for _, o := range r.orders {
		if o.UserID == userID {
			out = append(out, o.Clone())
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *OrderRepository) ListAll(_ context.Context) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Order, 0, len(r.orders))
	for _, o := range r.orders {
		out = append(out, o.Clone())
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *OrderRepository) MarkPaid(_ context.Context, providerOrderID, paymentID, signature string, paidAt time.Time) (*domain.Order, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.byProviderOrder[providerOrderID]
	if !ok {
		return nil, false, domain.ErrNotFound
	}
	o := r.orders[id]
	if o.IsPaid {
		return o.Clone(), false, nil
	}
	o.IsPaid = true
	o.PaidAt = &paidAt
	o.ProviderPaymentID = paymentID
	o.ProviderSignature = signature
	o.UpdatedAt = paidAt
	return o.Clone(), true, nil
}

func (r *OrderRepository) TransitionStatus(_ context.Context, id string, from, to domain.Status, at time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.orders[id]
	if !ok {
		return false, domain.ErrNotFound
	}
	if o.Status != from {
		return false, nil
	}
	o.Status = to
	o.UpdatedAt = at
	if to == domain.StatusDelivered {
		o.IsDelivered = true
		o.DeliveredAt = &at
	}
	return true, nil
}

func sortNewestFirst(orders []*domain.Order) {
	sort.Slice(orders, func(i, j int) bool { return orders[i].CreatedAt.After(orders[j].CreatedAt) })
}
