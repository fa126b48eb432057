package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/entrx/orderpay/internal/domain/payment"
	"github.com/entrx/orderpay/pkg/date"
)

const (
	createPaymentSQL = `INSERT INTO payments (id, sender, receiver, amount, currency, status, method, birth_date, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	getPaymentByIDSQL = `SELECT id, sender, receiver, amount, currency, status, method, birth_date, created_at, updated_at
	FROM payments WHERE id = $1`

	updatePaymentSQL = `UPDATE payments SET sender = $2, receiver = $3, amount = $4,
	currency = $5, status = $6, method = $7, birth_date = $8, updated_at = $9 WHERE id = $1`
)

var _ payment.Repository = (*PaymentRepository)(nil)

// PaymentRepository implements payment.Repository backed by PostgreSQL.
type PaymentRepository struct {
	pool *pgxpool.Pool
}

// NewPaymentRepository returns a PaymentRepository that uses the given pool.
func NewPaymentRepository(pool *pgxpool.Pool) *PaymentRepository {
	return &PaymentRepository{pool: pool}
}

// Create persists a new payment. The sender and receiver snapshots are
// serialized to JSON for storage in JSONB columns. Returns
// payment.ErrIdentityConflict when the generated identifier is already taken.
func (r *PaymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	senderJSON, receiverJSON, err := marshalParties(p)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx, createPaymentSQL,
		p.ID, senderJSON, receiverJSON, p.Amount, p.Currency, p.Status, p.Method,
		birthDateArg(p.BirthDate), p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return payment.ErrIdentityConflict
		}
		return fmt.Errorf("creating payment %q: %w", p.ID, err)
	}

	return nil
}

// Get returns a single payment by its identifier.
// Returns payment.ErrNotFound when no such payment exists.
func (r *PaymentRepository) Get(ctx context.Context, id uuid.UUID) (*payment.Payment, error) {
	rows, err := r.pool.Query(ctx, getPaymentByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting payment %q: %w", id, err)
	}

	p, err := pgx.CollectExactlyOneRow(rows, scanPayment)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, payment.ErrNotFound
		}
		return nil, fmt.Errorf("getting payment %q: %w", id, err)
	}
	return &p, nil
}

// Update replaces the mutable columns of an existing payment.
// Returns payment.ErrNotFound when no such payment exists.
func (r *PaymentRepository) Update(ctx context.Context, p *payment.Payment) error {
	senderJSON, receiverJSON, err := marshalParties(p)
	if err != nil {
		return err
	}

	tag, err := r.pool.Exec(ctx, updatePaymentSQL,
		p.ID, senderJSON, receiverJSON, p.Amount, p.Currency, p.Status, p.Method,
		birthDateArg(p.BirthDate), p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("updating payment %q: %w", p.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return payment.ErrNotFound
	}

	return nil
}

func marshalParties(p *payment.Payment) (sender, receiver []byte, err error) {
	sender, err = json.Marshal(p.Sender)
	if err != nil {
		return nil, nil, fmt.Errorf("marshaling payment sender: %w", err)
	}
	receiver, err = json.Marshal(p.Receiver)
	if err != nil {
		return nil, nil, fmt.Errorf("marshaling payment receiver: %w", err)
	}
	return sender, receiver, nil
}

func birthDateArg(d *date.Date) *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time()
	return &t
}

func scanPayment(row pgx.CollectableRow) (payment.Payment, error) {
	var (
		p            payment.Payment
		senderJSON   []byte
		receiverJSON []byte
		amount       decimal.Decimal
		birthDate    *time.Time
	)
	err := row.Scan(
		&p.ID, &senderJSON, &receiverJSON, &amount,
		&p.Currency, &p.Status, &p.Method, &birthDate,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return p, err
	}

	if err := json.Unmarshal(senderJSON, &p.Sender); err != nil {
		return p, fmt.Errorf("unmarshaling payment sender: %w", err)
	}
	if err := json.Unmarshal(receiverJSON, &p.Receiver); err != nil {
		return p, fmt.Errorf("unmarshaling payment receiver: %w", err)
	}
	p.Amount = amount
	if birthDate != nil {
		d := date.FromTime(*birthDate)
		p.BirthDate = &d
	}
	return p, nil
}
