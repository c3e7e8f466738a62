package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strconv"

	"github.com/lib/pq"

	domain "github.com/ironfitwear/storefront/internal/domain/product"
)

type ProductRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

const productColumns = `id, name, slug, image, images, brand, category, description,
	price, original_price, count_in_stock, sizes, colors, tags, rating, num_reviews,
	created_at, updated_at`

func (r *ProductRepository) Insert(ctx context.Context, p *domain.Product) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO products (`+productColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)`,
		p.ID, p.Name, p.Slug, p.Image, pq.Array(p.Images), p.Brand, p.Category, p.Description,
		p.Price, p.OriginalPrice, p.CountInStock, pq.Array(p.Sizes), pq.Array(p.Colors),
		pq.Array(p.Tags), p.Rating, p.NumReviews, p.CreatedAt, p.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return domain.ErrConflict
	}
	return err
}

func (r *ProductRepository) Update(ctx context.Context, p *domain.Product) error {
	// Update writes the whole row, count_in_stock included; callers that
	// did not intend a stock edit carry the freshly read value through.
	// Concurrent movement between that read and this write goes through
	// AdjustStock and stays atomic.
	res, err := r.db.ExecContext(ctx, `
		UPDATE products SET
			name=$2, slug=$3, image=$4, images=$5, brand=$6, category=$7,
			description=$8, price=$9, original_price=$10, count_in_stock=$11,
			sizes=$12, colors=$13, tags=$14, updated_at=$15
		WHERE id=$1`,
		p.ID, p.Name, p.Slug, p.Image, pq.Array(p.Images), p.Brand, p.Category,
		p.Description, p.Price, p.OriginalPrice, p.CountInStock,
		pq.Array(p.Sizes), pq.Array(p.Colors), pq.Array(p.Tags), p.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return domain.ErrConflict
	}
	if err != nil {
		return err
	}
	return errNotFoundOnZeroRows(res, domain.ErrNotFound)
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		return err
	}
	return errNotFoundOnZeroRows(res, domain.ErrNotFound)
}

func (r *ProductRepository) Get(ctx context.Context, id string) (*domain.Product, error) {
	return r.scanOne(r.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id=$1`, id))
}

func (r *ProductRepository) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	return r.scanOne(r.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE slug=$1`, slug))
}

func (r *ProductRepository) Search(ctx context.Context, f domain.Filter) ([]*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE 1=1`
	var args []any
	idx := 1
	if f.Keyword != "" {
		query += ` AND name ILIKE '%' || $` + itoa(idx) + ` || '%'`
		args = append(args, f.Keyword)
		idx++
	}
	if f.Category != "" && f.Category != "All" {
		query += ` AND category = $` + itoa(idx)
		args = append(args, f.Category)
		idx++
	}
	if f.Tag != "" {
		query += ` AND $` + itoa(idx) + ` = ANY(tags)`
		args = append(args, f.Tag)
		idx++
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanMany(rows)
}

func (r *ProductRepository) Top(ctx context.Context, limit int) ([]*domain.Product, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+productColumns+` FROM products ORDER BY rating DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return r.scanMany(rows)
}

// AdjustStock is the one true atomic increment: never read-modify-write.
func (r *ProductRepository) AdjustStock(ctx context.Context, id string, delta int) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE products SET count_in_stock = count_in_stock + $2, updated_at = NOW() WHERE id=$1`,
		id, delta)
	if err != nil {
		return err
	}
	return errNotFoundOnZeroRows(res, domain.ErrNotFound)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *ProductRepository) scanOne(row rowScanner) (*domain.Product, error) {
	var p domain.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Slug, &p.Image, pq.Array(&p.Images), &p.Brand, &p.Category,
		&p.Description, &p.Price, &p.OriginalPrice, &p.CountInStock,
		pq.Array(&p.Sizes), pq.Array(&p.Colors), pq.Array(&p.Tags),
		&p.Rating, &p.NumReviews, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepository) scanMany(rows *sql.Rows) ([]*domain.Product, error) {
	var out []*domain.Product
	for rows.Next() {
		p, err := r.scanOne(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}

func errNotFoundOnZeroRows(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}

func itoa(i int) string { return strconv.Itoa(i) }
