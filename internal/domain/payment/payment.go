// Package payment implements the Payment entity family: the canonical
// record, its create/update/read representation variants, and the service
// coordinating validation with identity, clock, and persistence.
package payment

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
	ErrNotFound         = errors.New("payment not found")
	ErrIdentityConflict = errors.New("payment identifier already exists")
)

// Payment is the canonical stored record of a payment between two person
// snapshots. Status, currency, and method are free text here; closed
// status sets and transition rules belong to a state-machine collaborator,
// not this layer. Whether sender may equal receiver is likewise a business
// rule outside this layer.
//
// BirthDate is retained from the upstream schema pending confirmation
// that it belongs on the payment rather than the person.
type Payment struct {
	ID        uuid.UUID
	Sender    person.Person
	Receiver  person.Person
	Amount    decimal.Decimal
	Currency  string
	Status    string
	Method    string
	BirthDate *date.Date
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Repository defines persistence operations for payments.
//
// Create reports ErrIdentityConflict when the identifier already exists.
// Get and Update report ErrNotFound when no record has the identifier.
// Implementations must make the read-merge-write sequence of an update
// atomic per identifier.
type Repository interface {
	Create(ctx context.Context, p *Payment) error
	Get(ctx context.Context, id uuid.UUID) (*Payment, error)
	Update(ctx context.Context, p *Payment) error
}
