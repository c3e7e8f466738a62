package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	domain "github.com/ironfitwear/storefront/internal/domain/order"
)

type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

const orderColumns = `id, user_id, ship_address, ship_city, ship_postal_code, ship_country,
	items_price, tax_price, shipping_price, coupon_code, discount_amount, total_price,
	provider_order_id, provider_payment_id, provider_signature, is_paid, paid_at,
	status, is_delivered, delivered_at, created_at, updated_at`

func (r *OrderRepository) Insert(ctx context.Context, o *domain.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("order insert: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO orders (`+orderColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22)`,
		o.ID, o.UserID,
		o.ShippingAddress.Address, o.ShippingAddress.City, o.ShippingAddress.PostalCode, o.ShippingAddress.Country,
		o.ItemsPrice, o.TaxPrice, o.ShippingPrice, o.CouponCode, o.DiscountAmount, o.TotalPrice,
		o.ProviderOrderID, o.ProviderPaymentID, o.ProviderSignature, o.IsPaid, o.PaidAt,
		o.Status, o.IsDelivered, o.DeliveredAt, o.CreatedAt, o.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return domain.ErrConflict
	}
	if err != nil {
		return err
	}

	for _, item := range o.Items {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO order_items (order_id, product_id, name, image, qty, unit_price)
			VALUES ($1,$2,$3,$4,$5,$6)`,
			o.ID, item.ProductID, item.Name, item.Image, item.Qty, item.UnitPrice,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *OrderRepository) Get(ctx context.Context, id string) (*domain.Order, error) {
	o, err := r.scanOne(ctx, r.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id=$1`, id))
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (r *OrderRepository) GetByProviderOrderID(ctx context.Context, providerOrderID string) (*domain.Order, error) {
	return r.scanOne(ctx, r.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE provider_order_id=$1`, providerOrderID))
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Order, error) {
	return r.list(ctx, `SELECT `+orderColumns+` FROM orders WHERE user_id=$1 ORDER BY created_at DESC`, userID)
}

func (r *OrderRepository) ListAll(ctx context.Context) ([]*domain.Order, error) {
	return r.list(ctx, `SELECT ` + orderColumns + ` FROM orders ORDER BY created_at DESC`)
}

// MarkPaid performs the false→true flip as a conditional UPDATE. Zero rows
// means the order is either gone or already paid; the follow-up read
// distinguishes the two so duplicated callbacks come back as no-ops instead
// of errors.
func (r *OrderRepository) MarkPaid(ctx context.Context, providerOrderID, paymentID, signature string, paidAt time.Time) (*domain.Order, bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET is_paid = TRUE, paid_at = $2, provider_payment_id = $3,
		    provider_signature = $4, updated_at = $2
		WHERE provider_order_id = $1 AND is_paid = FALSE`,
		providerOrderID, paidAt, paymentID, signature,
	)
	if err != nil {
		return nil, false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, false, err
	}

	o, err := r.GetByProviderOrderID(ctx, providerOrderID)
	if err != nil {
		return nil, false, err
	}
	return o, n == 1, nil
}

func (r *OrderRepository) TransitionStatus(ctx context.Context, id string, from, to domain.Status, at time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE orders
		SET status = $3, updated_at = $4,
		    is_delivered = CASE WHEN $3 = 'Delivered' THEN TRUE ELSE is_delivered END,
		    delivered_at = CASE WHEN $3 = 'Delivered' THEN $4 ELSE delivered_at END
		WHERE id = $1 AND status = $2`,
		id, from, to, at,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n == 0 {
		// distinguish missing order from a lost race on status
		var exists bool
		if err := r.db.QueryRowContext(ctx,
			`SELECT TRUE FROM orders WHERE id=$1`, id).Scan(&exists); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return false, domain.ErrNotFound
			}
			return false, err
		}
		return false, nil
	}
	return true, nil
}

func (r *OrderRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Order
	for rows.Next() {
		o, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, o := range out {
		if err := r.loadItems(ctx, o); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *OrderRepository) scanOne(ctx context.Context, row rowScanner) (*domain.Order, error) {
	o, err := r.scanRow(row)
	if err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *OrderRepository) scanRow(row rowScanner) (*domain.Order, error) {
	var o domain.Order
	var paidAt, deliveredAt sql.NullTime
	err := row.Scan(
		&o.ID, &o.UserID,
		&o.ShippingAddress.Address, &o.ShippingAddress.City,
		&o.ShippingAddress.PostalCode, &o.ShippingAddress.Country,
		&o.ItemsPrice, &o.TaxPrice, &o.ShippingPrice, &o.CouponCode, &o.DiscountAmount, &o.TotalPrice,
		&o.ProviderOrderID, &o.ProviderPaymentID, &o.ProviderSignature, &o.IsPaid, &paidAt,
		&o.Status, &o.IsDelivered, &deliveredAt, &o.CreatedAt, &o.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if paidAt.Valid {
		o.PaidAt = &paidAt.Time
	}
	if deliveredAt.Valid {
		o.DeliveredAt = &deliveredAt.Time
	}
	return &o, nil
}

func (r *OrderRepository) loadItems(ctx context.Context, o *domain.Order) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT product_id, name, image, qty, unit_price
		FROM order_items WHERE order_id=$1`, o.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.LineItem
		if err := rows.Scan(&item.ProductID, &item.Name, &item.Image, &item.Qty, &item.UnitPrice); err != nil {
			return err
		}
		o.Items = append(o.Items, item)
	}
	return rows.Err()
}
