// Package container builds managed set/map/vector facades on top of the
// root lutze package's capability mixin. Each facade is itself a managed
// object - it must be rooted and eventually unmarked just like any other -
// and forwards MarkMembers to whichever of its elements are themselves
// managed references. Elements that are not managed references (plain
// values, or raw, non-managed pointers) pass through untouched, exactly as
// the teacher's generic containers handle anything that isn't their
// specialised managed type.
package container

import "github.com/lutze-go/lutze"

// objectRef is satisfied by lutze.Ptr[T] for any T. It lets the facades
// detect, at runtime and without knowing T, whether a given element is a
// managed reference that needs forwarding during trace.
type objectRef interface {
	AsObject() (lutze.Object, bool)
}

func markElem[T any](c *lutze.Collector, v T) {
	if ref, ok := any(v).(objectRef); ok {
		if obj, ok2 := ref.AsObject(); ok2 {
			c.Mark(obj)
		}
	}
}

// Set is a managed, unordered collection of distinct T values. Equality of
// two Set facades compares the underlying container's identity (i.e. is
// it the same Set), not its contents - the same convention Ptr equality
// uses throughout this module.
type Set[T comparable] struct {
	lutze.Base
	elems map[T]struct{}
}

// NewSet allocates an empty Set on c.
func NewSet[T comparable](c *lutze.Collector) lutze.Ptr[Set[T]] {
	warnNestedManagedReference[T]()
	return lutze.New(c, func() *Set[T] {
		return &Set[T]{elems: make(map[T]struct{})}
	})
}

// NewSetFrom allocates a Set on c, initialised with the given items.
func NewSetFrom[T comparable](c *lutze.Collector, items []T) lutze.Ptr[Set[T]] {
	warnNestedManagedReference[T]()
	return lutze.New(c, func() *Set[T] {
		s := &Set[T]{elems: make(map[T]struct{}, len(items))}
		for _, v := range items {
			s.elems[v] = struct{}{}
		}
		return s
	})
}

// MarkMembers forwards Mark to every element that is itself a managed
// reference.
func (s *Set[T]) MarkMembers(c *lutze.Collector) {
	for v := range s.elems {
		markElem(c, v)
	}
}

// Insert adds v to the set. It is a no-op if v is already present.
func (s *Set[T]) Insert(v T) {
	s.elems[v] = struct{}{}
}

// Remove deletes v from the set. It is a no-op if v is not present.
func (s *Set[T]) Remove(v T) {
	delete(s.elems, v)
}

// Contains reports whether v is in the set.
func (s *Set[T]) Contains(v T) bool {
	_, ok := s.elems[v]
	return ok
}

// Len returns the number of elements currently in the set.
func (s *Set[T]) Len() int {
	return len(s.elems)
}

// Range calls fn once for every element in the set, in no particular
// order, stopping early if fn returns false.
func (s *Set[T]) Range(fn func(T) bool) {
	for v := range s.elems {
		if !fn(v) {
			return
		}
	}
}
