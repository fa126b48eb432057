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

	"github.com/entrx/orderpay/internal/domain/order"
	"github.com/entrx/orderpay/internal/domain/person"
	"github.com/entrx/orderpay/pkg/date"
)

const (
	createOrderSQL = `INSERT INTO orders (id, customer, item, quantity, price_per_item, order_date, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	getOrderByIDSQL = `SELECT id, customer, item, quantity, price_per_item, order_date, created_at, updated_at
	FROM orders WHERE id = $1`

	updateOrderSQL = `UPDATE orders SET customer = $2, item = $3, quantity = $4,
	price_per_item = $5, order_date = $6, updated_at = $7 WHERE id = $1`
)

var _ order.Repository = (*OrderRepository)(nil)

// OrderRepository implements order.Repository backed by PostgreSQL.
type OrderRepository struct {
	pool *pgxpool.Pool
}

// NewOrderRepository returns an OrderRepository that uses the given pool.
func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// Create persists a new order. The customer snapshot is serialized to JSON
// for storage in the JSONB column. Returns order.ErrIdentityConflict when
// the generated identifier is already taken.
func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	customerJSON, err := json.Marshal(o.Customer)
	if err != nil {
		return fmt.Errorf("marshaling order customer: %w", err)
	}

	_, err = r.pool.Exec(ctx, createOrderSQL,
		o.ID, customerJSON, o.Item, int32(o.Quantity),
		o.PricePerItem, o.OrderDate.Time(), o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return order.ErrIdentityConflict
		}
		return fmt.Errorf("creating order %q: %w", o.ID, err)
	}

	return nil
}

// Get returns a single order by its identifier.
// Returns order.ErrNotFound when no such order exists.
func (r *OrderRepository) Get(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	rows, err := r.pool.Query(ctx, getOrderByIDSQL, id)
	if err != nil {
		return nil, fmt.Errorf("getting order %q: %w", id, err)
	}

	o, err := pgx.CollectExactlyOneRow(rows, scanOrder)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}
		return nil, fmt.Errorf("getting order %q: %w", id, err)
	}
	return &o, nil
}

// Update replaces the mutable columns of an existing order.
// Returns order.ErrNotFound when no such order exists.
func (r *OrderRepository) Update(ctx context.Context, o *order.Order) error {
	customerJSON, err := json.Marshal(o.Customer)
	if err != nil {
		return fmt.Errorf("marshaling order customer: %w", err)
	}

	tag, err := r.pool.Exec(ctx, updateOrderSQL,
		o.ID, customerJSON, o.Item, int32(o.Quantity),
		o.PricePerItem, o.OrderDate.Time(), o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("updating order %q: %w", o.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return order.ErrNotFound
	}

	return nil
}

func scanOrder(row pgx.CollectableRow) (order.Order, error) {
	var (
		o            order.Order
		customerJSON []byte
		quantity     int32
		pricePerItem decimal.Decimal
		orderDate    time.Time
	)
	err := row.Scan(
		&o.ID, &customerJSON, &o.Item, &quantity,
		&pricePerItem, &orderDate, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return o, err
	}

	var customer person.Person
	if err := json.Unmarshal(customerJSON, &customer); err != nil {
		return o, fmt.Errorf("unmarshaling order customer: %w", err)
	}
	o.Customer = customer
	o.Quantity = int(quantity)
	o.PricePerItem = pricePerItem
	o.OrderDate = date.FromTime(orderDate)
	return o, nil
}
