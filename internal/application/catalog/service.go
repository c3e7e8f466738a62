// Package catalog serves product queries and admin catalog management.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	domain "github.com/ironfitwear/storefront/internal/domain/product"
	"github.com/ironfitwear/storefront/internal/pkg/apperr"
)

const topProductLimit = 4

type IDGenerator interface {
	NewID() string
}

type Service struct {
	repo domain.Repository
	ids  IDGenerator
}

func NewService(repo domain.Repository, ids IDGenerator) *Service {
	return &Service{repo: repo, ids: ids}
}

func (s *Service) Search(ctx context.Context, f domain.Filter) ([]*domain.Product, error) {
	return s.repo.Search(ctx, f)
}

func (s *Service) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	p, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperr.NotFound("product not found")
		}
		return nil, fmt.Errorf("catalog: get by slug: %w", err)
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperr.NotFound("product not found")
		}
		return nil, fmt.Errorf("catalog: get: %w", err)
	}
	return p, nil
}

func (s *Service) Top(ctx context.Context) ([]*domain.Product, error) {
	return s.repo.Top(ctx, topProductLimit)
}

type ProductInput struct {
	Name          string
	Image         string
	Images        []string
	Brand         string
	Category      string
	Description   string
	Price         float64
	OriginalPrice float64
	// CountInStock is a pointer so an omitted field leaves the stored
	// stock untouched; nil and 0 mean different things for updates.
	CountInStock *int
	Sizes        []string
	Colors       []string
	Tags         []string
}

func (s *Service) Create(ctx context.Context, input ProductInput) (*domain.Product, error) {
	if input.Name == "" {
		return nil, apperr.Validation("product name is required")
	}
	if input.Price < 0 {
		return nil, apperr.Validation("price must not be negative")
	}
	if input.CountInStock != nil && *input.CountInStock < 0 {
		return nil, apperr.Validation("stock count must not be negative")
	}

	p := domain.New(s.ids.NewID(), input.Name)
	applyInput(p, input)
	if p.OriginalPrice == 0 {
		p.OriginalPrice = p.Price
	}

	if err := s.repo.Insert(ctx, p); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, apperr.Conflict("a product with this slug already exists")
		}
		return nil, fmt.Errorf("catalog: insert: %w", err)
	}
	return p, nil
}

func (s *Service) Update(ctx context.Context, productID string, input ProductInput) (*domain.Product, error) {
	if input.CountInStock != nil && *input.CountInStock < 0 {
		return nil, apperr.Validation("stock count must not be negative")
	}

	p, err := s.Get(ctx, productID)
	if err != nil {
		return nil, err
	}
	if input.Name != "" && input.Name != p.Name {
		p.Name = input.Name
		p.Slug = domain.Slugify(input.Name)
	}
	applyInput(p, input)
	p.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, p); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, apperr.Conflict("a product with this slug already exists")
		}
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperr.NotFound("product not found")
		}
		return nil, fmt.Errorf("catalog: update: %w", err)
	}
	return p, nil
}

func (s *Service) Delete(ctx context.Context, productID string) error {
	if err := s.repo.Delete(ctx, productID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return apperr.NotFound("product not found")
		}
		return fmt.Errorf("catalog: delete: %w", err)
	}
	return nil
}

func applyInput(p *domain.Product, input ProductInput) {
	if input.Image != "" {
		p.Image = input.Image
	}
	if input.Images != nil {
		p.Images = input.Images
	}
	if input.Brand != "" {
		p.Brand = input.Brand
	}
	if input.Category != "" {
		p.Category = input.Category
	}
	if input.Description != "" {
		p.Description = input.Description
	}
	if input.Price > 0 {
		p.Price = input.Price
	}
	if input.OriginalPrice > 0 {
		p.OriginalPrice = input.OriginalPrice
	}
	if input.CountInStock != nil {
		p.CountInStock = *input.CountInStock
	}
	if input.Sizes != nil {
		p.Sizes = input.Sizes
	}
	if input.Colors != nil {
		p.Colors = input.Colors
	}
	if input.Tags != nil {
		p.Tags = input.Tags
	}
}
