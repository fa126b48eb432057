// Package person defines the Person and Address entities embedded in
// orders and payments, and the Validator consumed by both schema layers.
//
// Orders and payments hold a snapshot of the person at record time, not a
// live link; the schema layers treat persons as externally owned and
// delegate all person validation to a Validator.
package person

import (
	"strings"

	"github.com/go-faster/jx"
	"github.com/google/uuid"

	"github.com/entrx/orderpay/internal/validate"
	"github.com/entrx/orderpay/pkg/date"
)

// Address is a physical location attached to a person.
type Address struct {
	ID         uuid.UUID `json:"id"`
	Street     string    `json:"street"`
	City       string    `json:"city"`
	State      *string   `json:"state"`
	PostalCode string    `json:"postal_code"`
	Country    string    `json:"country"`
}

// Person is a snapshot of a person with their addresses.
type Person struct {
	UNI       string     `json:"uni"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Email     string     `json:"email"`
	Phone     string     `json:"phone"`
	BirthDate *date.Date `json:"birth_date,omitempty"`
	Addresses []Address  `json:"addresses"`
}

// Validator validates a raw person payload into a Person. Failures are
// *validate.Error values whose paths are relative to the person object;
// callers wrap them with their own field prefix via validate.Nested.
type Validator interface {
	Validate(raw jx.Raw) (*Person, error)
}

// StructuralValidator is the default Validator. It checks field presence
// and JSON types only; it does not verify that the person exists in any
// external registry.
type StructuralValidator struct{}

// NewStructuralValidator returns the default structural Validator.
func NewStructuralValidator() *StructuralValidator {
	return &StructuralValidator{}
}

// Required person fields, tracked as a bitset during decode.
const (
	fieldUNI = 1 << iota
	fieldFirstName
	fieldLastName
	fieldEmail
	fieldPhone
	fieldAddresses
)

var fieldNames = []struct {
	bit  int
	name string
}{
	{fieldUNI, "uni"},
	{fieldFirstName, "first_name"},
	{fieldLastName, "last_name"},
	{fieldEmail, "email"},
	{fieldPhone, "phone"},
	{fieldAddresses, "addresses"},
}

// Validate implements Validator.
func (*StructuralValidator) Validate(raw jx.Raw) (*Person, error) {
	d := jx.DecodeBytes(raw)
	if d.Next() != jx.Object {
		return nil, validate.WrongType("", "expected an object")
	}

	var (
		p    Person
		seen int
	)
	if err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		var err error
		switch string(key) {
		case "uni":
			seen |= fieldUNI
			p.UNI, err = validate.DecodeString(d, "uni")
		case "first_name":
			seen |= fieldFirstName
			p.FirstName, err = validate.DecodeString(d, "first_name")
		case "last_name":
			seen |= fieldLastName
			p.LastName, err = validate.DecodeString(d, "last_name")
		case "email":
			seen |= fieldEmail
			p.Email, err = validate.DecodeString(d, "email")
		case "phone":
			seen |= fieldPhone
			p.Phone, err = validate.DecodeString(d, "phone")
		case "birth_date":
			if d.Next() == jx.Null {
				return d.Null()
			}
			var bd date.Date
			if bd, err = validate.DecodeDate(d, "birth_date"); err == nil {
				p.BirthDate = &bd
			}
		case "addresses":
			seen |= fieldAddresses
			p.Addresses, err = decodeAddresses(d)
		default:
			return d.Skip()
		}
		return err
	}); err != nil {
		return nil, validate.AsError("", err)
	}

	for _, f := range fieldNames {
		if seen&f.bit == 0 {
			return nil, validate.Missing(f.name)
		}
	}
	if !strings.Contains(p.Email, "@") {
		return nil, validate.Invalid("email", "must be an email address")
	}

	return &p, nil
}

func decodeAddresses(d *jx.Decoder) ([]Address, error) {
	if d.Next() != jx.Array {
		return nil, validate.WrongType("addresses", "expected an array")
	}

	addrs := []Address{}
	i := 0
	if err := d.Arr(func(d *jx.Decoder) error {
		path := validate.Index("addresses", i)
		i++

		a, err := decodeAddress(d, path)
		if err != nil {
			return err
		}
		addrs = append(addrs, a)
		return nil
	}); err != nil {
		return nil, validate.AsError("addresses", err)
	}

	return addrs, nil
}

// Required address fields.
const (
	addrID = 1 << iota
	addrStreet
	addrCity
	addrPostalCode
	addrCountry
)

var addrFieldNames = []struct {
	bit  int
	name string
}{
	{addrID, "id"},
	{addrStreet, "street"},
	{addrCity, "city"},
	{addrPostalCode, "postal_code"},
	{addrCountry, "country"},
}

func decodeAddress(d *jx.Decoder, path string) (Address, error) {
	if d.Next() != jx.Object {
		return Address{}, validate.WrongType(path, "expected an object")
	}

	var (
		a    Address
		seen int
	)
	if err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		var err error
		switch string(key) {
		case "id":
			seen |= addrID
			a.ID, err = validate.DecodeUUID(d, path+".id")
		case "street":
			seen |= addrStreet
			a.Street, err = validate.DecodeString(d, path+".street")
		case "city":
			seen |= addrCity
			a.City, err = validate.DecodeString(d, path+".city")
		case "state":
			if d.Next() == jx.Null {
				return d.Null()
			}
			var s string
			if s, err = validate.DecodeString(d, path+".state"); err == nil {
				a.State = &s
			}
		case "postal_code":
			seen |= addrPostalCode
			a.PostalCode, err = validate.DecodeString(d, path+".postal_code")
		case "country":
			seen |= addrCountry
			a.Country, err = validate.DecodeString(d, path+".country")
		default:
			return d.Skip()
		}
		return err
	}); err != nil {
		return Address{}, validate.AsError(path, err)
	}

	for _, f := range addrFieldNames {
		if seen&f.bit == 0 {
			return Address{}, validate.Missing(path + "." + f.name)
		}
	}

	return a, nil
}
