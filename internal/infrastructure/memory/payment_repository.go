package memory

import (
	"context"
	"sort"
	"sync"

	domain "github.com/ironfitwear/storefront/internal/domain/payment"
)

type PaymentRepository struct {
	mu              sync.Mutex
	payments        map[string]*domain.Payment
	byProviderOrder map[string]string
}

func NewPaymentRepository() *PaymentRepository {
	return &PaymentRepository{
		payments:        make(map[string]*domain.Payment),
		byProviderOrder: make(map[string]string),
	}
}

func (r *PaymentRepository) Insert(_ context.Context, p *domain.Payment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byProviderOrder[p.ProviderOrderID]; exists {
		return domain.ErrConflict
	}
	r.payments[p.ID] = clonePayment(p)
	r.byProviderOrder[p.ProviderOrderID] = p.ID
	return nil
}

func (r *PaymentRepository) GetByProviderOrderID(_ context.Context, providerOrderID string) (*domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.byProviderOrder[providerOrderID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return clonePayment(r.payments[id]), nil
}

func (r *PaymentRepository) GetByProviderPaymentID(_ context.Context, providerPaymentID string) (*domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.payments {
		if p.ProviderPaymentID == providerPaymentID && providerPaymentID != "" {
			return clonePayment(p), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *PaymentRepository) ListByUser(_ context.Context, userID string) ([]*domain.Payment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*domain.Payment
	for _, p := range r.payments {
		if p.UserID == userID {
			out = append(out, clonePayment(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *PaymentRepository) MarkPaid(_ context.Context, providerOrderID, paymentID, signature string) (*domain.Payment, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.byProviderOrder[providerOrderID]
	if !ok {
		return nil, false, domain.ErrNotFound
	}
	p := r.payments[id]
	if p.Status == domain.StatusPaid {
		return clonePayment(p), false, nil
	}
	p.Status = domain.StatusPaid
	p.ProviderPaymentID = paymentID
	p.ProviderSignature = signature
	return clonePayment(p), true, nil
}

func (r *PaymentRepository) MarkFailed(_ context.Context, providerOrderID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.byProviderOrder[providerOrderID]
	if !ok {
		return domain.ErrNotFound
	}
	if r.payments[id].Status != domain.StatusPaid {
		r.payments[id].Status = domain.StatusFailed
	}
	return nil
}

func clonePayment(p *domain.Payment) *domain.Payment {
	if p == nil {
		return nil
	}
	clone := *p
	return &clone
}
