package collector

import (
	"fmt"
	"strings"

	"github.com/kbukum/gostream/errors"
)

// ToSlice collects elements into a slice in encounter order.
func ToSlice[T any]() Collector[T, *[]T, []T] {
	return OfFinished(
		func() *[]T { return new([]T) },
		func(s *[]T, t T) { *s = append(*s, t) },
		func(left, right *[]T) *[]T {
			*left = append(*left, *right...)
			return left
		},
		func(s *[]T) []T { return *s },
	)
}

// ToSet collects the distinct elements.
func ToSet[T comparable]() Collector[T, map[T]struct{}, map[T]struct{}] {
	return Of(
		func() map[T]struct{} { return make(map[T]struct{}) },
		func(m map[T]struct{}, t T) { m[t] = struct{}{} },
		func(left, right map[T]struct{}) map[T]struct{} {
			if len(left) < len(right) {
				left, right = right, left
			}
			for k := range right {
				left[k] = struct{}{}
			}
			return left
		},
		Unordered,
	)
}

// ToMap collects key/value pairs. A key seen twice aborts the evaluation
// with an ILLEGAL_STATE error.
func ToMap[T any, K comparable, V any](keyFn func(T) K, valueFn func(T) V) Collector[T, map[K]V, map[K]V] {
	return Of(
		func() map[K]V { return make(map[K]V) },
		func(m map[K]V, t T) {
			k := keyFn(t)
			if _, dup := m[k]; dup {
				errors.Throw(duplicateKey(k))
			}
			m[k] = valueFn(t)
		},
		func(left, right map[K]V) map[K]V {
			for k, v := range right {
				if _, dup := left[k]; dup {
					errors.Throw(duplicateKey(k))
				}
				left[k] = v
			}
			return left
		},
	)
}

func duplicateKey(k any) error {
	return errors.IllegalState(fmt.Sprintf("duplicate key %v", k))
}

// ToMapMerge collects key/value pairs, resolving duplicate keys with merge.
// merge receives the earlier value first.
func ToMapMerge[T any, K comparable, V any](keyFn func(T) K, valueFn func(T) V, merge func(V, V) V) Collector[T, map[K]V, map[K]V] {
	return Of(
		func() map[K]V { return make(map[K]V) },
		func(m map[K]V, t T) {
			k, v := keyFn(t), valueFn(t)
			if old, ok := m[k]; ok {
				v = merge(old, v)
			}
			m[k] = v
		},
		func(left, right map[K]V) map[K]V {
			for k, v := range right {
				if old, ok := left[k]; ok {
					v = merge(old, v)
				}
				left[k] = v
			}
			return left
		},
	)
}

// Joiner accumulates strings separated by a delimiter.
type Joiner struct {
	sep string
	b   strings.Builder
	n   int
}

func (j *Joiner) add(s string) {
	if j.n > 0 {
		j.b.WriteString(j.sep)
	}
	j.b.WriteString(s)
	j.n++
}

func (j *Joiner) merge(other *Joiner) *Joiner {
	if other.n == 0 {
		return j
	}
	if j.n > 0 {
		j.b.WriteString(j.sep)
	}
	j.b.WriteString(other.b.String())
	j.n += other.n
	return j
}

// Joining concatenates strings in encounter order, separated by sep.
func Joining(sep string) Collector[string, *Joiner, string] {
	return JoiningWith(sep, "", "")
}

// JoiningWith concatenates strings separated by sep, between prefix and
// suffix.
func JoiningWith(sep, prefix, suffix string) Collector[string, *Joiner, string] {
	return OfFinished(
		func() *Joiner { return &Joiner{sep: sep} },
		(*Joiner).add,
		(*Joiner).merge,
		func(j *Joiner) string { return prefix + j.b.String() + suffix },
	)
}

// Counting counts elements.
func Counting[T any]() Collector[T, *int64, int64] {
	return OfFinished(
		func() *int64 { return new(int64) },
		func(n *int64, _ T) { *n++ },
		func(left, right *int64) *int64 {
			*left += *right
			return left
		},
		func(n *int64) int64 { return *n },
	)
}

// MinBy finds the least element according to compare. Of equal elements
// the first encountered wins.
func MinBy[T any](compare func(a, b T) int) Collector[T, *box[T], Optional[T]] {
	return ReducingOptional(func(a, b T) T {
		if compare(a, b) <= 0 {
			return a
		}
		return b
	})
}

// MaxBy finds the greatest element according to compare. Of equal elements
// the first encountered wins.
func MaxBy[T any](compare func(a, b T) int) Collector[T, *box[T], Optional[T]] {
	return ReducingOptional(func(a, b T) T {
		if compare(a, b) >= 0 {
			return a
		}
		return b
	})
}

// Reducing folds elements with op starting from identity. identity must be
// an identity for op.
func Reducing[T any](identity T, op func(T, T) T) Collector[T, *T, T] {
	return ReducingMap(identity, func(t T) T { return t }, op)
}

// ReducingMap maps each element then folds with op starting from identity.
func ReducingMap[T, U any](identity U, mapper func(T) U, op func(U, U) U) Collector[T, *U, U] {
	return OfFinished(
		func() *U {
			u := identity
			return &u
		},
		func(u *U, t T) { *u = op(*u, mapper(t)) },
		func(left, right *U) *U {
			*left = op(*left, *right)
			return left
		},
		func(u *U) U { return *u },
	)
}

// ReducingOptional folds elements with op. The result is absent for empty
// input.
func ReducingOptional[T any](op func(T, T) T) Collector[T, *box[T], Optional[T]] {
	return OfFinished(
		func() *box[T] { return &box[T]{} },
		func(b *box[T], t T) {
			if b.present {
				b.value = op(b.value, t)
			} else {
				b.value, b.present = t, true
			}
		},
		func(left, right *box[T]) *box[T] {
			if right.present {
				if left.present {
					left.value = op(left.value, right.value)
				} else {
					*left = *right
				}
			}
			return left
		},
		(*box[T]).optional,
	)
}
