package model

// Outcome holds either a value or the reason it was omitted.
// Sub-components hand these to the orchestrator instead of nil-or-error pairs.
type Outcome[T any] struct {
	value  T
	ok     bool
	reason string
}

// Present wraps a value that was produced.
func Present[T any](v T) Outcome[T] {
	return Outcome[T]{value: v, ok: true}
}

// Omitted records why no value exists.
func Omitted[T any](reason string) Outcome[T] {
	return Outcome[T]{reason: reason}
}

// Get returns the value and whether it is present.
func (o Outcome[T]) Get() (T, bool) { return o.value, o.ok }

// OK reports whether a value is present.
func (o Outcome[T]) OK() bool { return o.ok }

// Reason is empty for present outcomes.
func (o Outcome[T]) Reason() string { return o.reason }
