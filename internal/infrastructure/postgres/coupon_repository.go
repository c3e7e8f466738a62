package postgres

import (
	"context"
	"database/sql"
	"errors"

	domain "github.com/ironfitwear/storefront/internal/domain/coupon"
)

type CouponRepository struct {
	db *sql.DB
}

func NewCouponRepository(db *sql.DB) *CouponRepository {
	return &CouponRepository{db: db}
}

const couponColumns = `id, code, discount_percent, max_discount, min_order_amount,
	expires_at, is_active, usage_limit, used_count, created_at`

func (r *CouponRepository) Insert(ctx context.Context, c *domain.Coupon) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO coupons (`+couponColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		c.ID, c.Code, c.DiscountPercent, c.MaxDiscount, c.MinOrderAmount,
		c.ExpiresAt, c.IsActive, c.UsageLimit, c.UsedCount, c.CreatedAt,
	)
	if isUniqueViolation(err) {
		return domain.ErrConflict
	}
	return err
}

func (r *CouponRepository) GetByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	var c domain.Coupon
	err := r.db.QueryRowContext(ctx,
		`SELECT `+couponColumns+` FROM coupons WHERE code=$1`,
		domain.NormalizeCode(code),
	).Scan(
		&c.ID, &c.Code, &c.DiscountPercent, &c.MaxDiscount, &c.MinOrderAmount,
		&c.ExpiresAt, &c.IsActive, &c.UsageLimit, &c.UsedCount, &c.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CouponRepository) List(ctx context.Context) ([]*domain.Coupon, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+couponColumns+` FROM coupons ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Coupon
	for rows.Next() {
		var c domain.Coupon
		if err := rows.Scan(
			&c.ID, &c.Code, &c.DiscountPercent, &c.MaxDiscount, &c.MinOrderAmount,
			&c.ExpiresAt, &c.IsActive, &c.UsageLimit, &c.UsedCount, &c.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

func (r *CouponRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM coupons WHERE id=$1`, id)
	if err != nil {
		return err
	}
	return errNotFoundOnZeroRows(res, domain.ErrNotFound)
}

// Consume is the race fix for concurrent validations: the limit check and
// the increment are one conditional UPDATE, so used_count can never overshoot
// usage_limit no matter how many validations race.
func (r *CouponRepository) Consume(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE coupons
		SET used_count = used_count + 1
		WHERE id = $1 AND (usage_limit = 0 OR used_count < usage_limit)`,
		id,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 1 {
		return nil
	}

	var exists bool
	if err := r.db.QueryRowContext(ctx, `SELECT TRUE FROM coupons WHERE id=$1`, id).Scan(&exists); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}
	return domain.ErrExhausted
}
