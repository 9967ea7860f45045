// Package lutze implements a tracing, mark-and-sweep garbage collector
// embedded as a library inside a host process.
//
// Unlike the host Go runtime's own collector, lutze never scans the stack
// or registers. Roots are discovered implicitly: allocating a managed
// object pushes it onto its owning Collector's root stack, and the caller
// is responsible for calling Unmark once that root is no longer needed -
// the same discipline an RAII scope guard would give you automatically in
// a language that has one. A process may run many Collector instances at
// once: one per goroutine, created lazily by GetGC, plus a single
// distinguished static Collector shared by the whole process and obtained
// with GetStaticGC. During a trace, marking an object always marks it
// against its owning Collector, never the collector currently tracing, so
// object graphs may safely cross goroutine and collector boundaries.
//
// A type opts into collection by embedding Base and, where it holds
// references to other managed objects, overriding MarkMembers to forward
// Mark calls to them:
//
//	type Node struct {
//	    lutze.Base
//	    Child lutze.Ptr[Node]
//	}
//
//	func (n *Node) MarkMembers(c *lutze.Collector) {
//	    lutze.MarkPtr(c, n.Child)
//	}
//
//	root := lutze.NewGC(func() *Node { return &Node{} })
//
// The container package builds managed set/map/vector facades on top of
// this same mechanism.
package lutze
