package payment

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/entrx/orderpay/internal/domain/person"
)

// createAttempts bounds identifier regeneration after a reported
// collision.
const createAttempts = 3

// Service coordinates the payment schema with the identifier generator,
// the clock, and the persistence collaborator.
type Service struct {
	schema   *Schema
	payments Repository
	newID    func() uuid.UUID
	now      func() time.Time
}

// NewService creates a payment Service using the given person validator
// and repository.
func NewService(persons person.Validator, payments Repository) *Service {
	return &Service{
		schema:   NewSchema(persons),
		payments: payments,
		newID:    uuid.New,
		now:      time.Now,
	}
}

// Schema exposes the validation layer for callers that validate without
// persisting.
func (s *Service) Schema() *Schema {
	return s.schema
}

// Create validates a raw create payload, assigns a fresh identifier and
// commit-time timestamps, and persists the record. A reported identifier
// collision retries with a freshly generated identifier.
func (s *Service) Create(ctx context.Context, payload []byte) (*Payment, error) {
	c, err := s.schema.ValidateCreate(payload)
	if err != nil {
		return nil, err
	}

	var lastErr error
	for range createAttempts {
		now := s.now().UTC()
		p := &Payment{
			ID:        s.newID(),
			Sender:    c.Sender,
			Receiver:  c.Receiver,
			Amount:    c.Amount,
			Currency:  c.Currency,
			Status:    c.Status,
			Method:    c.Method,
			BirthDate: c.BirthDate,
			CreatedAt: now,
			UpdatedAt: now,
		}

		err := s.payments.Create(ctx, p)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, ErrIdentityConflict) {
			return nil, errors.Wrap(err, "create payment")
		}
		lastErr = err
	}

	return nil, errors.Wrap(lastErr, "create payment")
}

// Update validates a raw partial-update payload, merges the supplied
// fields onto the stored record, refreshes updated_at, and persists the
// result.
func (s *Service) Update(ctx context.Context, id uuid.UUID, payload []byte) (*Payment, error) {
	patch, err := s.schema.ValidateUpdate(payload)
	if err != nil {
		return nil, err
	}

	p, err := s.payments.Get(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "get payment")
	}

	patch.ApplyTo(p)
	p.UpdatedAt = s.now().UTC()

	if err := s.payments.Update(ctx, p); err != nil {
		return nil, errors.Wrap(err, "update payment")
	}

	return p, nil
}

// Get returns the stored payment with the given identifier.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Payment, error) {
	p, err := s.payments.Get(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "get payment")
	}
	return p, nil
}
