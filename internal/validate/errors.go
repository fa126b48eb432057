// Package validate defines the error taxonomy shared by the Order and
// Payment schema layers. Every validation failure names the offending
// field by its full path, including nested entity paths such as
// customer.addresses[0].postal_code, so that a transport layer can
// translate it into a precise client-facing message.
package validate

import (
	"fmt"
	"strings"

	"github.com/go-faster/errors"
)

// Reason classifies a validation failure.
type Reason string

const (
	ReasonMissing         Reason = "missing_required_field"
	ReasonWrongType       Reason = "wrong_type"
	ReasonMalformedNested Reason = "malformed_nested_entity"
	ReasonInvalidValue    Reason = "invalid_value"
)

// Error is a structural validation failure for a single field.
type Error struct {
	Path   string
	Reason Reason
	Detail string
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("field %s: %s", e.Path, e.Reason)
	}
	return fmt.Sprintf("field %s: %s: %s", e.Path, e.Reason, e.Detail)
}

// Missing reports a required field absent from the payload.
func Missing(path string) *Error {
	return &Error{Path: path, Reason: ReasonMissing}
}

// WrongType reports a field whose value has the wrong JSON type.
func WrongType(path, detail string) *Error {
	return &Error{Path: path, Reason: ReasonWrongType, Detail: detail}
}

// Invalid reports a well-typed field whose value violates a constraint.
func Invalid(path, detail string) *Error {
	return &Error{Path: path, Reason: ReasonInvalidValue, Detail: detail}
}

// Nested re-surfaces a nested entity failure under the given path prefix.
// A *Error keeps its reason and has its path prefixed; any other error
// becomes a malformed-nested-entity failure at the prefix itself.
func Nested(prefix string, err error) error {
	var ve *Error
	if errors.As(err, &ve) {
		return &Error{
			Path:   joinPath(prefix, ve.Path),
			Reason: ve.Reason,
			Detail: ve.Detail,
		}
	}
	return &Error{Path: prefix, Reason: ReasonMalformedNested, Detail: err.Error()}
}

// Index returns the path of element i under a sequence field.
func Index(path string, i int) string {
	return fmt.Sprintf("%s[%d]", path, i)
}

func joinPath(prefix, path string) string {
	if path == "" {
		return prefix
	}
	if strings.HasPrefix(path, "[") {
		return prefix + path
	}
	return prefix + "." + path
}

// ImmutableFieldError reports a client attempt to modify a
// server-sovereign field through a partial update.
type ImmutableFieldError struct {
	Field string
}

func (e *ImmutableFieldError) Error() string {
	return fmt.Sprintf("field %s is immutable", e.Field)
}
