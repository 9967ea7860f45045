package lutze

import "github.com/lutze-go/lutze/internal/ring"

// Object is the capability every managed type must provide, either by
// embedding Base or by implementing it directly. It plays the role the
// virtual mark_members hook and virtual destructor play in the system this
// package is modelled on: a vtable entry the collector calls back into
// during trace and sweep, without needing to know the concrete type.
type Object interface {
	// MarkMembers is invoked once per collection for every object found
	// reachable. Implementations should call Collector.Mark for each
	// managed reference they hold. The default, provided by Base, marks
	// nothing.
	MarkMembers(c *Collector)

	// Finalize runs when an object is swept because it was found
	// unreachable (or when its owning Collector is torn down via
	// FinalCollect). It is the place to release any non-managed
	// resource the object owns. The default, provided by Base, does
	// nothing.
	Finalize()

	gcHeader() *header
}

// header is the collector's private bookkeeping, embedded in every managed
// object through Base. It carries the object's links in its owning
// Collector's two intrusive rings (the heap set and the root stack) plus
// the mark-epoch stamp used to decide, at sweep time, whether the object
// was reached during the most recent trace.
//
// header fields are only ever touched while the owning Collector's mutex is
// held.
type header struct {
	owner *Collector

	heapNext, heapPrev Object
	rootNext, rootPrev Object

	onRoot bool

	markEpoch uint64
}

// Base gives a type the managed-object capability mixin. Embed it by value;
// its methods are promoted onto the embedding type's pointer method set.
// A type that needs to trace references should override MarkMembers (and,
// if it owns non-managed resources, Finalize) - Go's method resolution
// picks the embedding type's own definition over Base's promoted one
// automatically, the same way a derived class's override hides a base
// class's virtual method.
type Base struct {
	h header
}

func (b *Base) gcHeader() *header { return &b.h }

// MarkMembers is the default, no-op implementation. Types with no managed
// references never need to override it.
func (b *Base) MarkMembers(c *Collector) {}

// Finalize is the default, no-op implementation. Types with no non-managed
// resources never need to override it.
func (b *Base) Finalize() {}

// heapAccess and rootAccess let internal/ring drive the heap-set ring and
// the root-stack ring threaded through every object's header, without that
// package needing to know anything about Object or header.
var heapAccess = ring.Accessor[Object]{
	Next:    func(o Object) Object { return o.gcHeader().heapNext },
	Prev:    func(o Object) Object { return o.gcHeader().heapPrev },
	SetNext: func(o, n Object) { o.gcHeader().heapNext = n },
	SetPrev: func(o, p Object) { o.gcHeader().heapPrev = p },
	IsNil:   func(o Object) bool { return o == nil },
}

var rootAccess = ring.Accessor[Object]{
	Next:    func(o Object) Object { return o.gcHeader().rootNext },
	Prev:    func(o Object) Object { return o.gcHeader().rootPrev },
	SetNext: func(o, n Object) { o.gcHeader().rootNext = n },
	SetPrev: func(o, p Object) { o.gcHeader().rootPrev = p },
	IsNil:   func(o Object) bool { return o == nil },
}
