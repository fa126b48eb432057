package order

import (
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/entrx/orderpay/internal/domain/person"
	"github.com/entrx/orderpay/internal/validate"
	"github.com/entrx/orderpay/pkg/date"
	"github.com/entrx/orderpay/pkg/opt"
)

// CreateOrder is a validated create payload, ready for identity and
// timestamp assignment. Client-supplied id/created_at/updated_at are
// ignored during validation; identity is always server-assigned.
type CreateOrder struct {
	Customer     person.Person
	Item         string
	Quantity     int
	PricePerItem decimal.Decimal
	OrderDate    date.Date
}

// Schema validates raw order payloads. Nested customer validation is
// delegated to the person validator; its failures are re-surfaced under
// the customer path prefix.
type Schema struct {
	persons person.Validator
}

// NewSchema returns a Schema delegating person validation to persons.
func NewSchema(persons person.Validator) *Schema {
	return &Schema{persons: persons}
}

const (
	fieldCustomer = 1 << iota
	fieldItem
	fieldQuantity
	fieldPricePerItem
	fieldOrderDate
)

var createFields = []struct {
	bit  int
	name string
}{
	{fieldCustomer, "customer"},
	{fieldItem, "item"},
	{fieldQuantity, "quantity"},
	{fieldPricePerItem, "price_per_item"},
	{fieldOrderDate, "order_date"},
}

// ValidateCreate validates a raw create payload. Every required field
// must be present and well-typed; missing or invalid fields fail with a
// *validate.Error naming the field path.
func (s *Schema) ValidateCreate(data []byte) (*CreateOrder, error) {
	d := jx.DecodeBytes(data)
	if d.Next() != jx.Object {
		return nil, validate.WrongType("", "expected an object")
	}

	var (
		c    CreateOrder
		seen int
	)
	if err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		var err error
		switch string(key) {
		case "customer":
			seen |= fieldCustomer
			var p *person.Person
			if p, err = s.validateCustomer(d); err == nil {
				c.Customer = *p
			}
		case "item":
			seen |= fieldItem
			c.Item, err = decodeItem(d)
		case "quantity":
			seen |= fieldQuantity
			c.Quantity, err = decodeQuantity(d)
		case "price_per_item":
			seen |= fieldPricePerItem
			c.PricePerItem, err = validate.DecodeDecimal(d, "price_per_item")
		case "id", "created_at", "updated_at":
			// Server-sovereign on create: silently ignored.
			return d.Skip()
		case "order_date":
			seen |= fieldOrderDate
			c.OrderDate, err = validate.DecodeDate(d, "order_date")
		default:
			return d.Skip()
		}
		return err
	}); err != nil {
		return nil, validate.AsError("", err)
	}

	for _, f := range createFields {
		if seen&f.bit == 0 {
			return nil, validate.Missing(f.name)
		}
	}

	return &c, nil
}

// Patch is a validated partial-update payload. Each field records whether
// it was supplied; absent fields leave the stored record untouched.
type Patch struct {
	Customer     opt.Opt[person.Person]
	Item         opt.Opt[string]
	Quantity     opt.Opt[int]
	PricePerItem opt.Opt[decimal.Decimal]
	OrderDate    opt.Opt[date.Date]
}

// ValidateUpdate validates a raw partial-update payload. Only supplied
// fields are validated. Supplying id, created_at, or updated_at fails
// with *validate.ImmutableFieldError regardless of other field validity.
// Explicit null is rejected for all order fields: none of them is
// optional in the canonical record.
func (s *Schema) ValidateUpdate(data []byte) (*Patch, error) {
	if err := rejectImmutable(data); err != nil {
		return nil, err
	}

	d := jx.DecodeBytes(data)
	if d.Next() != jx.Object {
		return nil, validate.WrongType("", "expected an object")
	}

	var p Patch
	if err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		name := string(key)
		switch name {
		case "customer", "item", "quantity", "price_per_item", "order_date":
		default:
			return d.Skip()
		}
		// No order field is optional in the canonical record, so an
		// explicit null is never a valid clear.
		if d.Next() == jx.Null {
			return validate.WrongType(name, "must not be null")
		}

		var err error
		switch name {
		case "customer":
			var c *person.Person
			if c, err = s.validateCustomer(d); err == nil {
				p.Customer.SetTo(*c)
			}
		case "item":
			var v string
			if v, err = decodeItem(d); err == nil {
				p.Item.SetTo(v)
			}
		case "quantity":
			var v int
			if v, err = decodeQuantity(d); err == nil {
				p.Quantity.SetTo(v)
			}
		case "price_per_item":
			var v decimal.Decimal
			if v, err = validate.DecodeDecimal(d, "price_per_item"); err == nil {
				p.PricePerItem.SetTo(v)
			}
		case "order_date":
			var v date.Date
			if v, err = validate.DecodeDate(d, "order_date"); err == nil {
				p.OrderDate.SetTo(v)
			}
		}
		return err
	}); err != nil {
		return nil, validate.AsError("", err)
	}

	return &p, nil
}

// ApplyTo merges the supplied fields onto o. Fields absent from the patch
// are left untouched.
func (p *Patch) ApplyTo(o *Order) {
	if v, ok := p.Customer.Get(); ok {
		o.Customer = v
	}
	if v, ok := p.Item.Get(); ok {
		o.Item = v
	}
	if v, ok := p.Quantity.Get(); ok {
		o.Quantity = v
	}
	if v, ok := p.PricePerItem.Get(); ok {
		o.PricePerItem = v
	}
	if v, ok := p.OrderDate.Get(); ok {
		o.OrderDate = v
	}
}

// rejectImmutable scans an update payload for server-sovereign fields
// before any per-field validation runs, so that supplying one fails with
// *validate.ImmutableFieldError regardless of payload order or the
// validity of other fields.
func rejectImmutable(data []byte) error {
	d := jx.DecodeBytes(data)
	if d.Next() != jx.Object {
		return validate.WrongType("", "expected an object")
	}
	if err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		switch string(key) {
		case "id", "created_at", "updated_at":
			return &validate.ImmutableFieldError{Field: string(key)}
		}
		return d.Skip()
	}); err != nil {
		return validate.AsError("", err)
	}
	return nil
}

func (s *Schema) validateCustomer(d *jx.Decoder) (*person.Person, error) {
	raw, err := d.Raw()
	if err != nil {
		return nil, validate.WrongType("customer", err.Error())
	}
	p, err := s.persons.Validate(raw)
	if err != nil {
		return nil, validate.Nested("customer", err)
	}
	return p, nil
}

func decodeItem(d *jx.Decoder) (string, error) {
	v, err := validate.DecodeString(d, "item")
	if err != nil {
		return "", err
	}
	if v == "" {
		return "", validate.Invalid("item", "must not be empty")
	}
	return v, nil
}

func decodeQuantity(d *jx.Decoder) (int, error) {
	v, err := validate.DecodeInt(d, "quantity")
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, validate.Invalid("quantity", "must not be negative")
	}
	return v, nil
}
