package collector

import (
	"cmp"

	"github.com/emirpasic/gods/maps/linkedhashmap"
	"github.com/emirpasic/gods/maps/treemap"
)

// Map is the result container of GroupingByTo. Iteration order depends on
// the MapKind it was created from.
type Map[K comparable, V any] interface {
	Get(key K) (V, bool)
	Put(key K, value V)
	Len() int
	Keys() []K
	Each(fn func(key K, value V))
}

type mapKind uint8

const (
	hashKind mapKind = iota
	treeKind
	linkedKind
)

// MapKind selects the container GroupingByTo builds.
type MapKind[K comparable] struct {
	kind    mapKind
	compare func(a, b K) int
}

// HashMap iterates in unspecified order.
func HashMap[K comparable]() MapKind[K] { return MapKind[K]{kind: hashKind} }

// TreeMap iterates in ascending key order.
func TreeMap[K cmp.Ordered]() MapKind[K] {
	return MapKind[K]{kind: treeKind, compare: cmp.Compare[K]}
}

// TreeMapFunc iterates in the order defined by compare.
func TreeMapFunc[K comparable](compare func(a, b K) int) MapKind[K] {
	return MapKind[K]{kind: treeKind, compare: compare}
}

// LinkedMap iterates in first-insertion order.
func LinkedMap[K comparable]() MapKind[K] { return MapKind[K]{kind: linkedKind} }

// NewMap creates an empty Map of the given kind.
func NewMap[K comparable, V any](kind MapKind[K]) Map[K, V] {
	switch kind.kind {
	case treeKind:
		compare := kind.compare
		return &godsMap[K, V]{m: treemap.NewWith(func(a, b interface{}) int {
			return compare(a.(K), b.(K))
		})}
	case linkedKind:
		return &godsMap[K, V]{m: linkedhashmap.New()}
	default:
		return hashMap[K, V]{}
	}
}

// ToGoMap copies m into a built-in map.
func ToGoMap[K comparable, V any](m Map[K, V]) map[K]V {
	out := make(map[K]V, m.Len())
	m.Each(func(k K, v V) { out[k] = v })
	return out
}

type hashMap[K comparable, V any] map[K]V

func (m hashMap[K, V]) Get(key K) (V, bool) {
	v, ok := m[key]
	return v, ok
}

func (m hashMap[K, V]) Put(key K, value V) { m[key] = value }
func (m hashMap[K, V]) Len() int           { return len(m) }

func (m hashMap[K, V]) Keys() []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

func (m hashMap[K, V]) Each(fn func(K, V)) {
	for k, v := range m {
		fn(k, v)
	}
}

// untypedMap is the part of the gods map API shared by treemap and
// linkedhashmap.
type untypedMap interface {
	Put(key, value interface{})
	Get(key interface{}) (interface{}, bool)
	Size() int
	Keys() []interface{}
	Each(fn func(key, value interface{}))
}

type godsMap[K comparable, V any] struct {
	m untypedMap
}

func (g *godsMap[K, V]) Get(key K) (V, bool) {
	v, ok := g.m.Get(key)
	if !ok {
		var zero V
		return zero, false
	}
	val, _ := v.(V)
	return val, true
}

func (g *godsMap[K, V]) Put(key K, value V) { g.m.Put(key, value) }
func (g *godsMap[K, V]) Len() int           { return g.m.Size() }

func (g *godsMap[K, V]) Keys() []K {
	raw := g.m.Keys()
	keys := make([]K, len(raw))
	for i, k := range raw {
		keys[i] = k.(K)
	}
	return keys
}

func (g *godsMap[K, V]) Each(fn func(K, V)) {
	g.m.Each(func(k, v interface{}) {
		val, _ := v.(V)
		fn(k.(K), val)
	})
}
