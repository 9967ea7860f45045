package lutze

import (
	"fmt"
	"sync"

	"github.com/lutze-go/lutze/internal/ring"
)

// defaultThreshold is the number of allocations a Collector tolerates
// between automatic collections before a non-forced Collect call actually
// does anything. Chosen in the same spirit as the teacher's slab size
// (objectSlabSize, 1024): a round power of two large enough that small
// object graphs never pay for a collection they don't need.
const defaultThreshold = 1024

// Stats is a point-in-time snapshot of a Collector's bookkeeping, named and
// shaped after the teacher's objectstore.Stats.
type Stats struct {
	Live      int
	Roots     int
	Allocs    uint64
	Collects  uint64
	Threshold uint64
}

// Collector is one mark-and-sweep garbage collector instance. A process
// typically has one Collector per goroutine (see GetGC) plus a single
// static Collector (see GetStaticGC); nothing prevents constructing
// further standalone instances directly for embedding in a larger
// collector topology.
type Collector struct {
	mu     sync.Mutex
	static bool

	heapHead Object
	heapLen  int

	rootHead Object

	epoch uint64

	allocsSinceCollect uint64
	threshold          uint64
	collects           uint64
}

// NewCollector constructs a standalone Collector. Most callers should use
// GetGC or GetStaticGC instead, which manage a process-wide topology of
// collectors keyed by goroutine identity; NewCollector is exposed for
// embedding lutze in a host that wants to manage its own collector
// instances directly (for example, one per connection or per shard).
func NewCollector() *Collector {
	return newCollector(false)
}

func newCollector(static bool) *Collector {
	return &Collector{
		static:    static,
		threshold: defaultThreshold,
	}
}

// Version identifies the collector implementation and is stable across
// processes running the same build; it exists for diagnostic logging, not
// for feature detection.
const Version = "lutze-go v1"

// GCVersion returns the collector implementation's version string.
func (c *Collector) GCVersion() string {
	return Version
}

// IsStatic reports whether this is the process-wide static collector.
func (c *Collector) IsStatic() bool {
	return c.static
}

// Stats returns a snapshot of this Collector's current bookkeeping.
func (c *Collector) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Live:      c.heapLen,
		Roots:     c.rootLen(),
		Allocs:    c.allocsSinceCollect,
		Collects:  c.collects,
		Threshold: c.threshold,
	}
}

// SetThreshold changes the allocation count that triggers an automatic,
// non-forced collection. It is most useful in tests that want to observe
// collection behavior deterministically without waiting for the default
// threshold.
func (c *Collector) SetThreshold(threshold uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.threshold = threshold
}

func (c *Collector) rootLen() int {
	n := 0
	ring.ForEach(rootAccess, c.rootHead, func(Object) bool {
		n++
		return true
	})
	return n
}

// register adds obj to this Collector's heap set and pushes it onto the
// root stack, exactly as if it had just been returned from an allocation.
// It is the implementation behind New/NewGC/NewStaticGC.
func (c *Collector) register(obj Object) {
	h := obj.gcHeader()

	c.mu.Lock()
	h.owner = c
	c.heapHead = ring.Insert(heapAccess, c.heapHead, obj)
	c.heapLen++
	c.rootHead = ring.Insert(rootAccess, c.rootHead, obj)
	h.onRoot = true
	c.allocsSinceCollect++
	c.mu.Unlock()
}

// Unmark removes obj from this Collector's root stack. It is the caller's
// responsibility to call Unmark once a root is no longer needed - the
// collector has no way to discover this on its own, since roots are never
// found by scanning, only by the explicit push every allocation performs.
//
// Unmarking an object that is not currently one of this Collector's roots
// (including one owned by a different Collector, or one already unmarked)
// is a no-op.
func (c *Collector) Unmark(obj Object) {
	if obj == nil {
		return
	}
	h := obj.gcHeader()

	c.mu.Lock()
	defer c.mu.Unlock()

	if h.owner != c || !h.onRoot {
		return
	}

	newHead, ok := ring.Remove(rootAccess, c.rootHead, obj)
	if ok {
		c.rootHead = newHead
	} else {
		c.rootHead = nil
	}
	h.onRoot = false
}

// Mark records obj as reachable during the current trace. It must only be
// called from within a MarkMembers implementation, passing along the
// Collector that MarkMembers itself was called with - exactly the pattern
// a mark_members override uses in the system this package is modelled on.
//
// The object being marked may belong to a different Collector than the one
// currently tracing: Mark looks up obj's owner and records the mark there,
// not against the tracing collector. This is what lets an object graph
// safely span collector and goroutine boundaries - an object is only ever
// at risk from the collector that actually owns it.
func (c *Collector) Mark(obj Object) {
	if obj == nil {
		return
	}
	h := obj.gcHeader()
	owner := h.owner
	if owner == nil {
		// Never registered with any collector; a stale or zero-value
		// reference. Per the failure-semantics contract this is
		// silently ignored rather than treated as an error.
		return
	}

	if owner == c {
		c.markLocked(obj)
		return
	}

	owner.mu.Lock()
	owner.markLocked(obj)
	owner.mu.Unlock()
}

// markLocked marks obj against c, which must either be the currently
// tracing collector (lock already held by the active Collect call on the
// same goroutine) or a different collector whose lock the
// caller just acquired fresh. It is not safe to call with c unlocked.
func (c *Collector) markLocked(obj Object) {
	h := obj.gcHeader()
	if h.markEpoch == c.epoch {
		return // already visited during this trace
	}
	h.markEpoch = c.epoch
	obj.MarkMembers(c)
}

// Collect runs one mark-and-sweep pass over this Collector's heap. If
// force is false, the pass is skipped unless the number of allocations
// since the last collection exceeds the configured threshold - this is
// the behavior the convenience allocation entry points (NewGC,
// NewStaticGC) trigger automatically after constructing an object. New
// itself never collects.
func (c *Collector) Collect(force bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.collectLocked(force)
}

func (c *Collector) collectLocked(force bool) {
	if !force && c.allocsSinceCollect <= c.threshold {
		return
	}

	c.epoch++
	ring.ForEach(rootAccess, c.rootHead, func(o Object) bool {
		c.markLocked(o)
		return true
	})
	c.sweepLocked()
	c.allocsSinceCollect = 0
	c.collects++
}

// FinalCollect empties this Collector's root stack entirely and then
// sweeps without tracing: every object in this Collector's heap is
// destroyed, including any still referenced from objects owned by other
// collectors. Call it when a
// Collector - a goroutine's or the process-wide static one - is being
// torn down for good.
func (c *Collector) FinalCollect() {
	c.mu.Lock()
	defer c.mu.Unlock()

	ring.ForEach(rootAccess, c.rootHead, func(o Object) bool {
		o.gcHeader().onRoot = false
		return true
	})
	c.rootHead = nil

	c.epoch++
	c.sweepLocked()
	c.allocsSinceCollect = 0
	c.collects++
}

// sweepLocked destroys every heap member not marked with the current
// epoch, finalizing each one. c.mu must already be held. By the time
// sweepLocked runs, both callers (collectLocked and FinalCollect) have
// already ensured no object still on the root ring can be swept -
// collectLocked by tracing the root ring first, so every root carries the
// current epoch, FinalCollect by emptying the root ring and clearing onRoot
// for everything before bumping the epoch at all - so an object destroyed
// here is never still linked into the root ring.
func (c *Collector) sweepLocked() {
	epoch := c.epoch
	c.heapHead = ring.Filter(heapAccess, c.heapHead, func(o Object) bool {
		h := o.gcHeader()
		if h.markEpoch == epoch {
			return true
		}

		h.owner = nil
		h.onRoot = false
		c.heapLen--
		o.Finalize()
		return false
	})
}

// New allocates a managed object on Collector c: it constructs one via
// ctor, registers it in c's heap set, and pushes it onto c's root stack.
// ctor's return value must implement Object, ordinarily by embedding Base;
// New panics with *ErrNotManaged otherwise, exactly as a forgotten
// interface implementation should fail loudly rather than silently skip
// collection.
func New[T any](c *Collector, ctor func() *T) Ptr[T] {
	p := ctor()
	obj, ok := any(p).(Object)
	if !ok {
		panic(&ErrNotManaged{Type: fmt.Sprintf("%T", p)})
	}
	c.register(obj)
	return Ptr[T]{p: p}
}
