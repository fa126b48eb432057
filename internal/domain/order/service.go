package order

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/entrx/orderpay/internal/domain/person"
)

// createAttempts bounds identifier regeneration after a reported
// collision. With v4 UUIDs a second collision is effectively impossible.
const createAttempts = 3

// Service coordinates the order schema with the identifier generator, the
// clock, and the persistence collaborator. It holds no mutable state of
// its own; concurrency control lives in the Repository.
type Service struct {
	schema *Schema
	orders Repository
	newID  func() uuid.UUID
	now    func() time.Time
}

// NewService creates an order Service using the given person validator
// and repository.
func NewService(persons person.Validator, orders Repository) *Service {
	return &Service{
		schema: NewSchema(persons),
		orders: orders,
		newID:  uuid.New,
		now:    time.Now,
	}
}

// Schema exposes the validation layer for callers that validate without
// persisting, such as bulk importers.
func (s *Service) Schema() *Schema {
	return s.schema
}

// Create validates a raw create payload, assigns a fresh identifier and
// commit-time timestamps, and persists the record. A reported identifier
// collision retries with a freshly generated identifier.
func (s *Service) Create(ctx context.Context, payload []byte) (*Order, error) {
	c, err := s.schema.ValidateCreate(payload)
	if err != nil {
		return nil, err
	}

	var lastErr error
	for range createAttempts {
		now := s.now().UTC()
		o := &Order{
			ID:           s.newID(),
			Customer:     c.Customer,
			Item:         c.Item,
			Quantity:     c.Quantity,
			PricePerItem: c.PricePerItem,
			OrderDate:    c.OrderDate,
			CreatedAt:    now,
			UpdatedAt:    now,
		}

		err := s.orders.Create(ctx, o)
		if err == nil {
			return o, nil
		}
		if !errors.Is(err, ErrIdentityConflict) {
			return nil, errors.Wrap(err, "create order")
		}
		lastErr = err
	}

	return nil, errors.Wrap(lastErr, "create order")
}

// Update validates a raw partial-update payload, merges the supplied
// fields onto the stored record, refreshes updated_at, and persists the
// result. Unsupplied fields are left untouched.
func (s *Service) Update(ctx context.Context, id uuid.UUID, payload []byte) (*Order, error) {
	patch, err := s.schema.ValidateUpdate(payload)
	if err != nil {
		return nil, err
	}

	o, err := s.orders.Get(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "get order")
	}

	patch.ApplyTo(o)
	o.UpdatedAt = s.now().UTC()

	if err := s.orders.Update(ctx, o); err != nil {
		return nil, errors.Wrap(err, "update order")
	}

	return o, nil
}

// Get returns the stored order with the given identifier.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Order, error) {
	o, err := s.orders.Get(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "get order")
	}
	return o, nil
}
