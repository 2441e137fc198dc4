package collector

import "fmt"

// Optional holds a value that may be absent, such as the minimum of an
// empty input.
type Optional[T any] struct {
	Value   T
	Present bool
}

// Some returns a present Optional.
func Some[T any](v T) Optional[T] { return Optional[T]{Value: v, Present: true} }

// None returns an absent Optional.
func None[T any]() Optional[T] { return Optional[T]{} }

// Get returns the value and whether it is present.
func (o Optional[T]) Get() (T, bool) { return o.Value, o.Present }

// OrElse returns the value if present, otherwise other.
func (o Optional[T]) OrElse(other T) T {
	if o.Present {
		return o.Value
	}
	return other
}

func (o Optional[T]) String() string {
	if !o.Present {
		return "Optional.empty"
	}
	return fmt.Sprintf("Optional[%v]", o.Value)
}

// box is the accumulator behind reducing collectors.
type box[T any] struct {
	value   T
	present bool
}

func (b *box[T]) optional() Optional[T] {
	return Optional[T]{Value: b.value, Present: b.present}
}
