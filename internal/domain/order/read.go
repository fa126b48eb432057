package order

import (
	"time"

	"github.com/go-faster/jx"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/entrx/orderpay/internal/domain/person"
	"github.com/entrx/orderpay/pkg/date"
)

// Read is the externally visible representation of a stored order. It is
// the only representation that exposes the server-assigned timestamps.
type Read struct {
	ID           uuid.UUID
	Customer     person.Person
	Item         string
	Quantity     int
	PricePerItem decimal.Decimal
	OrderDate    date.Date
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ProjectRead projects a canonical stored order into its Read
// representation. Pure and total: every stored order has exactly one
// Read form.
func ProjectRead(o *Order) *Read {
	return &Read{
		ID:           o.ID,
		Customer:     o.Customer,
		Item:         o.Item,
		Quantity:     o.Quantity,
		PricePerItem: o.PricePerItem,
		OrderDate:    o.OrderDate,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
}

// Encode writes the Read representation as a JSON object. Identifiers use
// canonical string form, dates YYYY-MM-DD, instants UTC RFC 3339.
func (r *Read) Encode(e *jx.Encoder) {
	e.ObjStart()
	e.FieldStart("id")
	e.Str(r.ID.String())
	e.FieldStart("customer")
	r.Customer.Encode(e)
	e.FieldStart("item")
	e.Str(r.Item)
	e.FieldStart("quantity")
	e.Int(r.Quantity)
	e.FieldStart("price_per_item")
	e.Num(jx.Num(r.PricePerItem.String()))
	e.FieldStart("order_date")
	e.Str(r.OrderDate.String())
	e.FieldStart("created_at")
	e.Str(r.CreatedAt.UTC().Format(time.RFC3339Nano))
	e.FieldStart("updated_at")
	e.Str(r.UpdatedAt.UTC().Format(time.RFC3339Nano))
	e.ObjEnd()
}
