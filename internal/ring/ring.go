// Package ring implements an intrusive circular doubly-linked list.
//
// Unlike a conventional linked list package, ring does not allocate or own
// any nodes. The caller's element type already carries the next/prev links
// (typically embedded in a header struct), and supplies an Accessor exposing
// them. This lets the same list algorithm drive several independent rings
// threaded through the same element - for example a collector's heap-set
// ring and its root-stack ring both live inside one object header, and each
// is manipulated through its own Accessor.
//
// The empty list is represented by the caller's zero value for T (e.g. a nil
// pointer or nil interface), identified by Accessor.IsNil. This mirrors the
// "empty list is the nil reference" convention used elsewhere in this
// codebase for intrusive, allocation-free containers.
package ring

// Accessor lets the ring functions operate on any element type without
// depending on what that element actually is. Next/Prev read the link
// fields, SetNext/SetPrev write them, and IsNil reports the zero value.
type Accessor[T any] struct {
	Next    func(T) T
	Prev    func(T) T
	SetNext func(T, T)
	SetPrev func(T, T)
	IsNil   func(T) bool
}

// Insert adds elem to the ring, inserting it immediately before head (i.e.
// at the tail). head may be the zero value, denoting an empty ring. The new
// head of the ring is returned; for a non-empty ring this is unchanged.
func Insert[T any](acc Accessor[T], head, elem T) T {
	if acc.IsNil(head) {
		acc.SetNext(elem, elem)
		acc.SetPrev(elem, elem)
		return elem
	}

	last := acc.Prev(head)
	acc.SetNext(last, elem)
	acc.SetPrev(elem, last)
	acc.SetNext(elem, head)
	acc.SetPrev(head, elem)
	return head
}

// Remove unlinks elem from the ring. head is the current head of the ring
// containing elem. The returned head replaces the caller's stored head; ok
// is false if removing elem emptied the ring, in which case the returned
// value is the zero value of T.
func Remove[T any](acc Accessor[T], head, elem T) (newHead T, ok bool) {
	next := acc.Next(elem)
	prev := acc.Prev(elem)

	if sameElement(acc, next, elem) && sameElement(acc, prev, elem) {
		// elem was the only member of the ring.
		var zero T
		return zero, false
	}

	acc.SetNext(prev, next)
	acc.SetPrev(next, prev)

	if sameElement(acc, head, elem) {
		return next, true
	}
	return head, true
}

// sameElement compares two ring elements for identity. T is typically a
// pointer or interface value, so ordinary equality works; this helper exists
// so the comparison reads as an intentional identity check rather than an
// incidental one.
func sameElement[T any](acc Accessor[T], a, b T) bool {
	return any(a) == any(b)
}

// ForEach walks the ring starting at head, calling fn with each element in
// order. Iteration stops early if fn returns false. ForEach is safe to call
// on an empty ring (head is the zero value).
func ForEach[T any](acc Accessor[T], head T, fn func(T) bool) {
	if acc.IsNil(head) {
		return
	}

	origin := head
	current := origin
	for {
		if !fn(current) {
			return
		}
		current = acc.Next(current)
		if sameElement(acc, current, origin) {
			return
		}
	}
}

// Filter walks the ring starting at head, removing every element for which
// keep returns false. The (possibly new, possibly zero) head is returned.
// This mirrors the sweep phase of a tracing collector: keep reports whether
// an element survived a mark pass, and anything that didn't is unlinked.
func Filter[T any](acc Accessor[T], head T, keep func(T) bool) T {
	if acc.IsNil(head) {
		return head
	}

	origin := head
	current := origin
	for {
		next := acc.Next(current)
		prev := acc.Prev(current)

		if keep(current) {
			current = next
			if sameElement(acc, current, origin) {
				return origin
			}
			continue
		}

		if sameElement(acc, prev, current) && sameElement(acc, next, current) {
			// current was the last remaining element.
			var zero T
			return zero
		}

		acc.SetNext(prev, next)
		acc.SetPrev(next, prev)

		if sameElement(acc, current, origin) {
			origin = next
		}
		current = next
	}
}
