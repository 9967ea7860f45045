package container

import "github.com/lutze-go/lutze"

// Vector is a managed, ordered, indexable collection of T values. T need
// not be comparable, unlike Set and Map's keys - a Vector of raw,
// non-managed element pointers (mirroring the teacher's non-gc vector
// construction from an iterator range) is a supported and untraced use,
// exactly like any other non-managed element type.
type Vector[T any] struct {
	lutze.Base
	items []T
}

// NewVector allocates an empty Vector on c.
func NewVector[T any](c *lutze.Collector) lutze.Ptr[Vector[T]] {
	warnNestedManagedReference[T]()
	return lutze.New(c, func() *Vector[T] {
		return &Vector[T]{}
	})
}

// NewVectorSize allocates a Vector on c with capacity pre-reserved for
// size elements.
func NewVectorSize[T any](c *lutze.Collector, size int) lutze.Ptr[Vector[T]] {
	warnNestedManagedReference[T]()
	return lutze.New(c, func() *Vector[T] {
		return &Vector[T]{items: make([]T, 0, size)}
	})
}

// NewVectorFrom allocates a Vector on c, initialised with a copy of items.
func NewVectorFrom[T any](c *lutze.Collector, items []T) lutze.Ptr[Vector[T]] {
	warnNestedManagedReference[T]()
	return lutze.New(c, func() *Vector[T] {
		v := &Vector[T]{items: make([]T, len(items))}
		copy(v.items, items)
		return v
	})
}

// MarkMembers forwards Mark to every element that is itself a managed
// reference.
func (v *Vector[T]) MarkMembers(c *lutze.Collector) {
	for _, item := range v.items {
		markElem(c, item)
	}
}

// Push appends item to the end of the vector.
func (v *Vector[T]) Push(item T) {
	v.items = append(v.items, item)
}

// Get returns the element at index i.
func (v *Vector[T]) Get(i int) T {
	return v.items[i]
}

// Set overwrites the element at index i.
func (v *Vector[T]) Set(i int, item T) {
	v.items[i] = item
}

// Len returns the number of elements currently in the vector.
func (v *Vector[T]) Len() int {
	return len(v.items)
}

// Range calls fn once for every element in the vector, in order, stopping
// early if fn returns false.
func (v *Vector[T]) Range(fn func(int, T) bool) {
	for i, item := range v.items {
		if !fn(i, item) {
			return
		}
	}
}
