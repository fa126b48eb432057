// Package order implements the Order entity family: the canonical record,
// its create/update/read representation variants, and the service that
// coordinates validation with identity generation, the clock, and the
// persistence collaborator.
package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/entrx/orderpay/internal/domain/person"
	"github.com/entrx/orderpay/pkg/date"
)

// Sentinel errors surfaced by Repository implementations.
var (
	ErrNotFound         = errors.New("order not found")
	ErrIdentityConflict = errors.New("order identifier already exists")
)

// Order is the canonical stored record of an order. The customer is a
// snapshot of the person at order time. Identity and timestamps are
// server-sovereign: assigned on create, never accepted from a client.
type Order struct {
	ID           uuid.UUID
	Customer     person.Person
	Item         string
	Quantity     int
	PricePerItem decimal.Decimal
	OrderDate    date.Date
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Repository defines persistence operations for orders.
//
// Create reports ErrIdentityConflict when the identifier already exists.
// Get and Update report ErrNotFound when no record has the identifier.
// Implementations must make the read-merge-write sequence of an update
// atomic per identifier.
type Repository interface {
	Create(ctx context.Context, o *Order) error
	Get(ctx context.Context, id uuid.UUID) (*Order, error)
	Update(ctx context.Context, o *Order) error
}
