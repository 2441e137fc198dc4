package stream

import (
	"strings"

	"github.com/kbukum/gostream/spliterator"
)

// Flags describe properties of the elements flowing out of a stage.
type Flags uint8

const (
	// FlagDistinct: no two elements are equal.
	FlagDistinct Flags = 1 << iota
	// FlagSorted: elements follow their natural order.
	FlagSorted
	// FlagOrdered: elements have a defined encounter order.
	FlagOrdered
	// FlagSized: the element count equals the source count.
	FlagSized
	// FlagShortCircuit: some stage may stop the traversal early.
	FlagShortCircuit
)

var flagNames = []struct {
	f    Flags
	name string
}{
	{FlagDistinct, "DISTINCT"},
	{FlagSorted, "SORTED"},
	{FlagOrdered, "ORDERED"},
	{FlagSized, "SIZED"},
	{FlagShortCircuit, "SHORT_CIRCUIT"},
}

// Has reports whether all bits of x are set.
func (f Flags) Has(x Flags) bool { return f&x == x }

func (f Flags) String() string {
	var parts []string
	for _, fn := range flagNames {
		if f.Has(fn.f) {
			parts = append(parts, fn.name)
		}
	}
	return strings.Join(parts, "|")
}

// opFlags is the contribution of one stage: bits it sets and bits it clears.
type opFlags struct {
	set   Flags
	clear Flags
}

func (o opFlags) apply(upstream Flags) Flags {
	return (upstream &^ o.clear) | o.set
}

// sourceFlags derives the head flags from spliterator characteristics.
func sourceFlags(c spliterator.Characteristics) Flags {
	var f Flags
	if c.Has(spliterator.Distinct) {
		f |= FlagDistinct
	}
	if c.Has(spliterator.Sorted) {
		f |= FlagSorted
	}
	if c.Has(spliterator.Ordered) {
		f |= FlagOrdered
	}
	if c.Has(spliterator.Sized) {
		f |= FlagSized
	}
	return f
}

// characteristicsOf maps stage flags back to characteristics for
// spliterators exposed by ToSpliterator.
func characteristicsOf(f Flags, subsized bool) spliterator.Characteristics {
	var c spliterator.Characteristics
	if f.Has(FlagDistinct) {
		c |= spliterator.Distinct
	}
	if f.Has(FlagSorted) {
		c |= spliterator.Sorted
	}
	if f.Has(FlagOrdered) {
		c |= spliterator.Ordered
	}
	if f.Has(FlagSized) {
		c |= spliterator.Sized
		if subsized {
			c |= spliterator.Subsized
		}
	}
	return c
}
