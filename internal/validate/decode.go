package validate

import (
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/entrx/orderpay/pkg/date"
)

// Typed field decoders over jx. Each reports failures as *Error values
// carrying the given field path, so schema layers can surface them
// directly or re-prefix them for nested entities.

// DecodeString decodes a JSON string.
func DecodeString(d *jx.Decoder, path string) (string, error) {
	if d.Next() != jx.String {
		return "", WrongType(path, "expected a string")
	}
	s, err := d.Str()
	if err != nil {
		return "", WrongType(path, err.Error())
	}
	return s, nil
}

// DecodeInt decodes a JSON integer.
func DecodeInt(d *jx.Decoder, path string) (int, error) {
	if d.Next() != jx.Number {
		return 0, WrongType(path, "expected an integer")
	}
	v, err := d.Int()
	if err != nil {
		return 0, WrongType(path, "expected an integer")
	}
	return v, nil
}

// DecodeDecimal decodes a JSON number into a decimal, preserving the
// textual representation exactly.
func DecodeDecimal(d *jx.Decoder, path string) (decimal.Decimal, error) {
	if d.Next() != jx.Number {
		return decimal.Decimal{}, WrongType(path, "expected a number")
	}
	n, err := d.Num()
	if err != nil {
		return decimal.Decimal{}, WrongType(path, "expected a number")
	}
	v, err := decimal.NewFromString(string(n))
	if err != nil {
		return decimal.Decimal{}, WrongType(path, "expected a number")
	}
	return v, nil
}

// DecodeDate decodes a YYYY-MM-DD JSON string.
func DecodeDate(d *jx.Decoder, path string) (date.Date, error) {
	s, err := DecodeString(d, path)
	if err != nil {
		return date.Date{}, err
	}
	v, err := date.Parse(s)
	if err != nil {
		return date.Date{}, Invalid(path, "must be a YYYY-MM-DD date")
	}
	return v, nil
}

// DecodeUUID decodes a canonical UUID JSON string.
func DecodeUUID(d *jx.Decoder, path string) (uuid.UUID, error) {
	s, err := DecodeString(d, path)
	if err != nil {
		return uuid.UUID{}, err
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.UUID{}, Invalid(path, "must be a UUID")
	}
	return id, nil
}

// AsError normalizes errors surfaced through jx object/array iteration:
// a wrapped *Error or *ImmutableFieldError is returned as-is, anything
// else (malformed JSON) becomes a wrong-type failure at the given path.
func AsError(path string, err error) error {
	var ve *Error
	if errors.As(err, &ve) {
		return ve
	}
	var ie *ImmutableFieldError
	if errors.As(err, &ie) {
		return ie
	}
	return WrongType(path, err.Error())
}
