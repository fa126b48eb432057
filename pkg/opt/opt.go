// Package opt provides generic optional value wrappers that preserve the
// distinction between a field that was omitted from a payload and a field
// that was explicitly supplied. OptNil additionally distinguishes an
// explicit JSON null from a concrete value.
package opt

// Opt is a value that may be absent.
type Opt[T any] struct {
	Value T
	Set   bool
}

// New returns an Opt holding v.
func New[T any](v T) Opt[T] {
	return Opt[T]{Value: v, Set: true}
}

// Get returns the value and whether it was set.
func (o Opt[T]) Get() (T, bool) {
	return o.Value, o.Set
}

// Or returns the value if set, otherwise def.
func (o Opt[T]) Or(def T) T {
	if o.Set {
		return o.Value
	}
	return def
}

// SetTo sets the value and marks it as present.
func (o *Opt[T]) SetTo(v T) {
	o.Value = v
	o.Set = true
}

// OptNil is a value that may be absent, explicitly null, or present.
// Null implies Set: an explicit null was supplied by the caller.
type OptNil[T any] struct {
	Value T
	Set   bool
	Null  bool
}

// NewNil returns an OptNil holding v.
func NewNil[T any](v T) OptNil[T] {
	return OptNil[T]{Value: v, Set: true}
}

// Null returns an OptNil representing an explicit null.
func Null[T any]() OptNil[T] {
	return OptNil[T]{Set: true, Null: true}
}

// Get returns the value and true only when a concrete value was supplied.
func (o OptNil[T]) Get() (T, bool) {
	if !o.Set || o.Null {
		var zero T
		return zero, false
	}
	return o.Value, true
}

// IsNull reports whether an explicit null was supplied.
func (o OptNil[T]) IsNull() bool {
	return o.Set && o.Null
}

// SetTo sets a concrete value, clearing any null marker.
func (o *OptNil[T]) SetTo(v T) {
	o.Value = v
	o.Set = true
	o.Null = false
}
