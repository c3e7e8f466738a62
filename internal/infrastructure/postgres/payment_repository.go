package postgres

import (
	"context"
	"database/sql"
	"errors"

	domain "github.com/ironfitwear/storefront/internal/domain/payment"
)

type PaymentRepository struct {
	db *sql.DB
}

func NewPaymentRepository(db *sql.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

const paymentColumns = `id, user_id, plan, amount, currency, provider_order_id,
	provider_payment_id, provider_signature, status, created_at`

func (r *PaymentRepository) Insert(ctx context.Context, p *domain.Payment) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO payments (`+paymentColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		p.ID, p.UserID, p.Plan, p.Amount, p.Currency, p.ProviderOrderID,
		p.ProviderPaymentID, p.ProviderSignature, p.Status, p.CreatedAt,
	)
	if isUniqueViolation(err) {
		return domain.ErrConflict
	}
	return err
}

func (r *PaymentRepository) GetByProviderOrderID(ctx context.Context, providerOrderID string) (*domain.Payment, error) {
	return r.scanOne(r.db.QueryRowContext(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE provider_order_id=$1`, providerOrderID))
}

func (r *PaymentRepository) GetByProviderPaymentID(ctx context.Context, providerPaymentID string) (*domain.Payment, error) {
	if providerPaymentID == "" {
		return nil, domain.ErrNotFound
	}
	return r.scanOne(r.db.QueryRowContext(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE provider_payment_id=$1`, providerPaymentID))
}

func (r *PaymentRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Payment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+paymentColumns+` FROM payments WHERE user_id=$1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Payment
	for rows.Next() {
		p, err := r.scanOne(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PaymentRepository) MarkPaid(ctx context.Context, providerOrderID, paymentID, signature string) (*domain.Payment, bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE payments
		SET status = 'paid', provider_payment_id = $2, provider_signature = $3
		WHERE provider_order_id = $1 AND status <> 'paid'`,
		providerOrderID, paymentID, signature,
	)
	if err != nil {
		return nil, false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, false, err
	}
	p, err := r.GetByProviderOrderID(ctx, providerOrderID)
	if err != nil {
		return nil, false, err
	}
	return p, n == 1, nil
}

func (r *PaymentRepository) MarkFailed(ctx context.Context, providerOrderID string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE payments SET status = 'failed'
		WHERE provider_order_id = $1 AND status <> 'paid'`,
		providerOrderID,
	)
	return err
}

func (r *PaymentRepository) scanOne(row rowScanner) (*domain.Payment, error) {
	var p domain.Payment
	err := row.Scan(
		&p.ID, &p.UserID, &p.Plan, &p.Amount, &p.Currency, &p.ProviderOrderID,
		&p.ProviderPaymentID, &p.ProviderSignature, &p.Status, &p.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
