package payment

import (
	"time"

	"github.com/go-faster/jx"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/entrx/orderpay/internal/domain/person"
	"github.com/entrx/orderpay/pkg/date"
)

// Read is the externally visible representation of a stored payment. It
// is the only representation that exposes the server-assigned timestamps.
type Read struct {
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

// ProjectRead projects a canonical stored payment into its Read
// representation. Pure and total.
func ProjectRead(p *Payment) *Read {
	return &Read{
		ID:        p.ID,
		Sender:    p.Sender,
		Receiver:  p.Receiver,
		Amount:    p.Amount,
		Currency:  p.Currency,
		Status:    p.Status,
		Method:    p.Method,
		BirthDate: p.BirthDate,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

// Encode writes the Read representation as a JSON object.
func (r *Read) Encode(e *jx.Encoder) {
	e.ObjStart()
	e.FieldStart("id")
	e.Str(r.ID.String())
	e.FieldStart("sender")
	r.Sender.Encode(e)
	e.FieldStart("receiver")
	r.Receiver.Encode(e)
	e.FieldStart("amount")
	e.Num(jx.Num(r.Amount.String()))
	e.FieldStart("currency")
	e.Str(r.Currency)
	e.FieldStart("status")
	e.Str(r.Status)
	e.FieldStart("method")
	e.Str(r.Method)
	if r.BirthDate != nil {
		e.FieldStart("birth_date")
		e.Str(r.BirthDate.String())
	}
	e.FieldStart("created_at")
	e.Str(r.CreatedAt.UTC().Format(time.RFC3339Nano))
	e.FieldStart("updated_at")
	e.Str(r.UpdatedAt.UTC().Format(time.RFC3339Nano))
	e.ObjEnd()
}
