package payment

import (
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/entrx/orderpay/internal/domain/person"
	"github.com/entrx/orderpay/internal/validate"
	"github.com/entrx/orderpay/pkg/date"
	"github.com/entrx/orderpay/pkg/opt"
)

// CreatePayment is a validated create payload, ready for identity and
// timestamp assignment.
type CreatePayment struct {
	Sender    person.Person
	Receiver  person.Person
	Amount    decimal.Decimal
	Currency  string
	Status    string
	Method    string
	BirthDate *date.Date
}

// Schema validates raw payment payloads. Sender and receiver validation
// is delegated to the person validator; failures are re-surfaced under
// the corresponding path prefix.
type Schema struct {
	persons person.Validator
}

// NewSchema returns a Schema delegating person validation to persons.
func NewSchema(persons person.Validator) *Schema {
	return &Schema{persons: persons}
}

const (
	fieldSender = 1 << iota
	fieldReceiver
	fieldAmount
	fieldCurrency
	fieldStatus
	fieldMethod
)

var createFields = []struct {
	bit  int
	name string
}{
	{fieldSender, "sender"},
	{fieldReceiver, "receiver"},
	{fieldAmount, "amount"},
	{fieldCurrency, "currency"},
	{fieldStatus, "status"},
	{fieldMethod, "method"},
}

// ValidateCreate validates a raw create payload. Sender and receiver must
// each be structurally valid persons; birth_date is optional and may be
// null. Client-supplied id/created_at/updated_at are silently ignored.
func (s *Schema) ValidateCreate(data []byte) (*CreatePayment, error) {
	d := jx.DecodeBytes(data)
	if d.Next() != jx.Object {
		return nil, validate.WrongType("", "expected an object")
	}

	var (
		c    CreatePayment
		seen int
	)
	if err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		var err error
		switch string(key) {
		case "sender":
			seen |= fieldSender
			var p *person.Person
			if p, err = s.validatePerson(d, "sender"); err == nil {
				c.Sender = *p
			}
		case "receiver":
			seen |= fieldReceiver
			var p *person.Person
			if p, err = s.validatePerson(d, "receiver"); err == nil {
				c.Receiver = *p
			}
		case "amount":
			seen |= fieldAmount
			c.Amount, err = decodeAmount(d)
		case "currency":
			seen |= fieldCurrency
			c.Currency, err = decodeText(d, "currency")
		case "status":
			seen |= fieldStatus
			c.Status, err = decodeText(d, "status")
		case "method":
			seen |= fieldMethod
			c.Method, err = decodeText(d, "method")
		case "birth_date":
			if d.Next() == jx.Null {
				return d.Null()
			}
			var bd date.Date
			if bd, err = validate.DecodeDate(d, "birth_date"); err == nil {
				c.BirthDate = &bd
			}
		case "id", "created_at", "updated_at":
			// Server-sovereign on create: silently ignored.
			return d.Skip()
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
// it was supplied. BirthDate is three-state: absent leaves the stored
// value untouched, explicit null clears it, a date replaces it.
type Patch struct {
	Sender    opt.Opt[person.Person]
	Receiver  opt.Opt[person.Person]
	Amount    opt.Opt[decimal.Decimal]
	Currency  opt.Opt[string]
	Status    opt.Opt[string]
	Method    opt.Opt[string]
	BirthDate opt.OptNil[date.Date]
}

// ValidateUpdate validates a raw partial-update payload. Only supplied
// fields are validated. Supplying id, created_at, or updated_at fails
// with *validate.ImmutableFieldError regardless of other field validity.
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
		case "sender", "receiver", "amount", "currency", "status", "method", "birth_date":
		default:
			return d.Skip()
		}
		if d.Next() == jx.Null {
			// birth_date is the only optional field; null is a
			// deliberate clear, distinct from omission.
			if name == "birth_date" {
				p.BirthDate = opt.Null[date.Date]()
				return d.Null()
			}
			return validate.WrongType(name, "must not be null")
		}

		var err error
		switch name {
		case "sender":
			var v *person.Person
			if v, err = s.validatePerson(d, "sender"); err == nil {
				p.Sender.SetTo(*v)
			}
		case "receiver":
			var v *person.Person
			if v, err = s.validatePerson(d, "receiver"); err == nil {
				p.Receiver.SetTo(*v)
			}
		case "amount":
			var v decimal.Decimal
			if v, err = decodeAmount(d); err == nil {
				p.Amount.SetTo(v)
			}
		case "currency":
			var v string
			if v, err = decodeText(d, "currency"); err == nil {
				p.Currency.SetTo(v)
			}
		case "status":
			var v string
			if v, err = decodeText(d, "status"); err == nil {
				p.Status.SetTo(v)
			}
		case "method":
			var v string
			if v, err = decodeText(d, "method"); err == nil {
				p.Method.SetTo(v)
			}
		case "birth_date":
			var v date.Date
			if v, err = validate.DecodeDate(d, "birth_date"); err == nil {
				p.BirthDate.SetTo(v)
			}
		}
		return err
	}); err != nil {
		return nil, validate.AsError("", err)
	}

	return &p, nil
}

// ApplyTo merges the supplied fields onto pay. Fields absent from the
// patch are left untouched; an explicit null birth_date clears it.
func (p *Patch) ApplyTo(pay *Payment) {
	if v, ok := p.Sender.Get(); ok {
		pay.Sender = v
	}
	if v, ok := p.Receiver.Get(); ok {
		pay.Receiver = v
	}
	if v, ok := p.Amount.Get(); ok {
		pay.Amount = v
	}
	if v, ok := p.Currency.Get(); ok {
		pay.Currency = v
	}
	if v, ok := p.Status.Get(); ok {
		pay.Status = v
	}
	if v, ok := p.Method.Get(); ok {
		pay.Method = v
	}
	if p.BirthDate.IsNull() {
		pay.BirthDate = nil
	} else if v, ok := p.BirthDate.Get(); ok {
		pay.BirthDate = &v
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

func (s *Schema) validatePerson(d *jx.Decoder, field string) (*person.Person, error) {
	raw, err := d.Raw()
	if err != nil {
		return nil, validate.WrongType(field, err.Error())
	}
	p, err := s.persons.Validate(raw)
	if err != nil {
		return nil, validate.Nested(field, err)
	}
	return p, nil
}

func decodeAmount(d *jx.Decoder) (decimal.Decimal, error) {
	v, err := validate.DecodeDecimal(d, "amount")
	if err != nil {
		return decimal.Decimal{}, err
	}
	if v.IsNegative() {
		return decimal.Decimal{}, validate.Invalid("amount", "must not be negative")
	}
	return v, nil
}

func decodeText(d *jx.Decoder, path string) (string, error) {
	v, err := validate.DecodeString(d, path)
	if err != nil {
		return "", err
	}
	if v == "" {
		return "", validate.Invalid(path, "must not be empty")
	}
	return v, nil
}
