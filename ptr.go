package lutze

import "fmt"

// Ptr is a raw, non-owning reference to a managed object of type *T. It
// carries no ownership semantics of its own - the object's lifetime is
// governed entirely by whichever Collector owns it - and is safe to copy
// and compare freely. This plays the role gc_ptr<T> plays in the system
// this package is modelled on; the historical extra padding byte that
// implementation carried for a Windows-specific stack-scanning workaround
// has no equivalent here and is not reproduced.
type Ptr[T any] struct {
	p *T
}

// WrapPtr builds a Ptr around an already-allocated *T. It does not
// register p with any collector and does not push it onto any root stack;
// p keeps whatever registration (if any) its own call to New/NewGC gave it.
func WrapPtr[T any](p *T) Ptr[T] {
	return Ptr[T]{p: p}
}

// IsNil reports whether the pointer is nil.
func (p Ptr[T]) IsNil() bool {
	return p.p == nil
}

// Get returns the underlying pointer, which may be nil.
func (p Ptr[T]) Get() *T {
	return p.p
}

// MustGet returns the underlying pointer and panics with *ErrNilPtr if it
// is nil, mirroring the bounds-checked accessors the teacher's object
// store provides instead of a silent nil dereference.
func (p Ptr[T]) MustGet() *T {
	if p.p == nil {
		panic(&ErrNilPtr{Type: fmt.Sprintf("%T", p.p)})
	}
	return p.p
}

// AsObject returns the underlying pointer as an Object, for code (notably
// the container facades) that needs to forward a Mark call without
// knowing T. ok is false for a nil pointer or a T that does not implement
// Object.
func (p Ptr[T]) AsObject() (Object, bool) {
	if p.p == nil {
		return nil, false
	}
	obj, ok := any(p.p).(Object)
	return obj, ok
}

// Equal reports whether two pointers refer to the same object.
func (p Ptr[T]) Equal(other Ptr[T]) bool {
	return p.p == other.p
}

// NewGC allocates T on the calling goroutine's collector (see GetGC),
// registering it and pushing it onto that collector's root stack, then
// triggers a non-forced collection - exactly the "construct, then
// immediately collect" convenience the free-standing new_gc<T> function
// provides in the system this package is modelled on. Callers needing an
// explicit Collector (a specific goroutine's, or one managed outside the
// registry entirely) should use New instead.
func NewGC[T any](ctor func() *T) Ptr[T] {
	c := GetGC()
	p := New(c, ctor)
	c.Collect(false)
	return p
}

// NewStaticGC is NewGC against the process-wide static collector (see
// GetStaticGC) instead of the calling goroutine's own collector.
func NewStaticGC[T any](ctor func() *T) Ptr[T] {
	c := GetStaticGC()
	p := New(c, ctor)
	c.Collect(false)
	return p
}

// MarkPtr marks the object held by p, if any, against c. It is the usual
// way a MarkMembers implementation marks a Ptr[T]-typed field, since
// Collector.Mark itself takes an Object and p.AsObject() is easy to
// forget:
//
//	func (n *Node) MarkMembers(c *lutze.Collector) {
//	    lutze.MarkPtr(c, n.Child)
//	}
func MarkPtr[T any](c *Collector, p Ptr[T]) {
	if obj, ok := p.AsObject(); ok {
		c.Mark(obj)
	}
}
