// Package memory provides mutex-guarded in-process repositories. They back
// local development when no database is configured and act as fakes in
// service tests; the conditional-update semantics the Postgres repositories
// guarantee are reproduced here under the repository mutex.
package memory

import (
	"context"
	"sort"
	"sync"

	domain "github.com/ironfitwear/storefront/internal/domain/product"
)

type ProductRepository struct {
	mu       sync.RWMutex
	products map[string]*domain.Product
	bySlug   map[string]string
}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{
		products: make(map[string]*domain.Product),
		bySlug:   make(map[string]string),
	}
}

func (r *ProductRepository) Insert(_ context.Context, p *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.products[p.ID]; exists {
		return domain.ErrConflict
	}
	if _, exists := r.bySlug[p.Slug]; exists {
		return domain.ErrConflict
	}
	r.products[p.ID] = cloneProduct(p)
	r.bySlug[p.Slug] = p.ID
	return nil
}

func (r *ProductRepository) Update(_ context.Context, p *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.products[p.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if existing.Slug != p.Slug {
		if otherID, taken := r.bySlug[p.Slug]; taken && otherID != p.ID {
			return domain.ErrConflict
		}
		delete(r.bySlug, existing.Slug)
		r.bySlug[p.Slug] = p.ID
	}
	r.products[p.ID] = cloneProduct(p)
	return nil
}

func (r *ProductRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	delete(r.bySlug, p.Slug)
	delete(r.products, id)
	return nil
}

func (r *ProductRepository) Get(_ context.Context, id string) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneProduct(p), nil
}

func (r *ProductRepository) GetBySlug(_ context.Context, slug string) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.bySlug[slug]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneProduct(r.products[id]), nil
}

func (r *ProductRepository) Search(_ context.Context, f domain.Filter) ([]*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*domain.Product
	for _, p := range r.products {
		if f.Matches(p) {
			out = append(out, cloneProduct(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *ProductRepository) Top(_ context.Context, limit int) ([]*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Product, 0, len(r.products))
	for _, p := range r.products {
		out = append(out, cloneProduct(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Rating > out[j].Rating })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *ProductRepository) AdjustStock(_ context.Context, id string, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok {
		return domain.ErrNotFound
	}
	p.CountInStock += delta
	return nil
}

func cloneProduct(p *domain.Product) *domain.Product {
	if p == nil {
		return nil
	}
	clone := *p
	clone.Images = append([]string(nil), p.Images...)
	clone.Sizes = append([]string(nil), p.Sizes...)
	clone.Colors = append([]string(nil), p.Colors...)
	clone.Tags = append([]string(nil), p.Tags...)
	return &clone
}
