package container

import "github.com/lutze-go/lutze"

// Map is a managed key/value collection. Either, both, or neither of K and
// V may be managed references; MarkMembers forwards to whichever of the
// two (per entry) turn out to be.
type Map[K comparable, V any] struct {
	lutze.Base
	entries map[K]V
}

// NewMap allocates an empty Map on c.
func NewMap[K comparable, V any](c *lutze.Collector) lutze.Ptr[Map[K, V]] {
	warnNestedManagedReference[K]()
	warnNestedManagedReference[V]()
	return lutze.New(c, func() *Map[K, V] {
		return &Map[K, V]{entries: make(map[K]V)}
	})
}

// NewMapFrom allocates a Map on c, initialised with the given entries.
func NewMapFrom[K comparable, V any](c *lutze.Collector, entries map[K]V) lutze.Ptr[Map[K, V]] {
	warnNestedManagedReference[K]()
	warnNestedManagedReference[V]()
	return lutze.New(c, func() *Map[K, V] {
		m := &Map[K, V]{entries: make(map[K]V, len(entries))}
		for k, v := range entries {
			m.entries[k] = v
		}
		return m
	})
}

// MarkMembers forwards Mark to every key and value that is itself a
// managed reference.
func (m *Map[K, V]) MarkMembers(c *lutze.Collector) {
	for k, v := range m.entries {
		markElem(c, k)
		markElem(c, v)
	}
}

// Set stores v under key k, overwriting any existing value.
func (m *Map[K, V]) Set(k K, v V) {
	m.entries[k] = v
}

// Get returns the value stored under k, if any.
func (m *Map[K, V]) Get(k K) (V, bool) {
	v, ok := m.entries[k]
	return v, ok
}

// Delete removes the entry for k. It is a no-op if k is not present.
func (m *Map[K, V]) Delete(k K) {
	delete(m.entries, k)
}

// Len returns the number of entries currently in the map.
func (m *Map[K, V]) Len() int {
	return len(m.entries)
}

// Range calls fn once for every entry in the map, in no particular order,
// stopping early if fn returns false.
func (m *Map[K, V]) Range(fn func(K, V) bool) {
	for k, v := range m.entries {
		if !fn(k, v) {
			return
		}
	}
}
