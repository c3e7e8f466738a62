package product

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"
)

var (
	ErrNotFound = errors.New("product: not found")
	ErrConflict = errors.New("product: already exists")
)

type Product struct {
	ID            string
	Name          string
	Slug          string
	Image         string
	Images        []string
	Brand         string
	Category      string
	Description   string
	Price         float64
	OriginalPrice float64
	CountInStock  int
	Sizes         []string
	Colors        []string
	Tags          []string
	Rating        float64
	NumReviews    int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func New(id, name string) *Product {
	now := time.Now().UTC()
	return &Product{
		ID:        id,
		Name:      name,
		Slug:      Slugify(name),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// HasTag reports whether the product carries the given catalog tag.
func (p *Product) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

var nonWord = regexp.MustCompile(`[^\w-]+`)

// Slugify derives the URL-safe identifier from a product name: lowercased,
// spaces to hyphens, anything outside [A-Za-z0-9_-] stripped. Deterministic,
// so re-deriving from the same name is idempotent.
func Slugify(name string) string {
	s := strings.ToLower(name)
	s = strings.ReplaceAll(s, " ", "-")
	return nonWord.ReplaceAllString(s, "")
}

// Filter controls catalog queries. Zero values mean "no constraint"; the
// category sentinel "All" is equivalent to no category filter.
type Filter struct {
	Keyword  string
	Category string
	Tag      string
}

// Matches applies the filter with logical AND semantics. Keyword is a
// case-insensitive substring match on the name; category is an exact match;
// tag is set membership.
func (f Filter) Matches(p *Product) bool {
	if f.Keyword != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(f.Keyword)) {
		return false
	}
	if f.Category != "" && f.Category != "All" && p.Category != f.Category {
		return false
	}
	if f.Tag != "" && !p.HasTag(f.Tag) {
		return false
	}
	return true
}

type Repository interface {
	Insert(ctx context.Context, p *Product) error
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*Product, error)
	GetBySlug(ctx context.Context, slug string) (*Product, error)
	Search(ctx context.Context, f Filter) ([]*Product, error)
	// Top returns the highest-rated products, at most limit of them.
	Top(ctx context.Context, limit int) ([]*Product, error)
	// AdjustStock applies count_in_stock += delta as a storage-level atomic
	// increment. It never clamps below zero; oversell is surfaced through
	// reporting, not blocked here.
	AdjustStock(ctx context.Context, id string, delta int) error
}
