package lutze_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lutze-go/lutze"
)

// counter is the simplest possible managed object: it just tracks how many
// instances are currently alive, the same role test_object plays in the
// reference test suite this package's behavior is checked against.
type counter struct {
	lutze.Base
	live *int
}

func newCounter(live *int) *counter {
	*live++
	return &counter{live: live}
}

func (c *counter) Finalize() {
	*c.live--
}

func TestVersionIsNonEmpty(t *testing.T) {
	c := lutze.NewCollector()
	assert.NotEmpty(t, c.GCVersion())
}

func TestCollectDestroysUnmarkedObject(t *testing.T) {
	c := lutze.NewCollector()
	var live int

	p := lutze.New(c, func() *counter { return newCounter(&live) })
	assert.Equal(t, 1, live)

	c.Unmark(p.Get())
	c.Collect(true)
	assert.Equal(t, 0, live)
}

func TestCollectKeepsRootedObject(t *testing.T) {
	c := lutze.NewCollector()
	var live int

	lutze.New(c, func() *counter { return newCounter(&live) })
	c.Collect(true)
	assert.Equal(t, 1, live)
}

// marker counts how many times MarkMembers is invoked on it, so tests can
// check it is visited exactly once per collection regardless of how many
// incoming references it has.
type marker struct {
	lutze.Base
	markCount *int
}

func (m *marker) MarkMembers(c *lutze.Collector) {
	*m.markCount++
}

func TestMarkMembersCalledOnceInCollect(t *testing.T) {
	c := lutze.NewCollector()
	var markCount int
	lutze.New(c, func() *marker { return &marker{markCount: &markCount} })

	c.Collect(true)
	assert.Equal(t, 1, markCount)
}

// parent holds two children by Ptr and forwards Mark to both; either may be
// nil, in which case marking it must be a safe no-op.
type parent struct {
	lutze.Base
	left, right lutze.Ptr[counter]
}

func (p *parent) MarkMembers(c *lutze.Collector) {
	lutze.MarkPtr(c, p.left)
	lutze.MarkPtr(c, p.right)
}

func TestMarkingNilMemberIsNoop(t *testing.T) {
	c := lutze.NewCollector()
	p := lutze.New(c, func() *parent { return &parent{} })

	assert.NotPanics(t, func() {
		c.Unmark(p.Get())
		c.Collect(true)
	})
}

func TestMemberCollectReturnsToZero(t *testing.T) {
	c := lutze.NewCollector()
	var live int

	left := lutze.New(c, func() *counter { return newCounter(&live) })
	right := lutze.New(c, func() *counter { return newCounter(&live) })
	p := lutze.New(c, func() *parent {
		return &parent{left: left, right: right}
	})
	assert.Equal(t, 2, live)

	c.Unmark(left.Get())
	c.Unmark(right.Get())
	c.Collect(true)
	assert.Equal(t, 2, live) // still reachable through p

	c.Unmark(p.Get())
	c.Collect(true)
	assert.Equal(t, 0, live)
}

// withResource owns a non-managed resource that must be released when the
// object is swept, demonstrating Finalize covers cleanup beyond just
// decrementing a counter.
type withResource struct {
	lutze.Base
	closed *bool
}

func (w *withResource) Finalize() {
	*w.closed = true
}

func TestFinalizeReleasesNonManagedResource(t *testing.T) {
	c := lutze.NewCollector()
	closed := false

	p := lutze.New(c, func() *withResource { return &withResource{closed: &closed} })
	c.Unmark(p.Get())
	c.Collect(true)

	assert.True(t, closed)
}

// cycleNode points to another cycleNode, allowing a two-node reference
// cycle with no external liveness tracking other than a counter -
// demonstrating the collector needs no reference counts to reclaim cycles.
type cycleNode struct {
	lutze.Base
	live  *int
	other lutze.Ptr[cycleNode]
}

func newCycleNode(live *int) *cycleNode {
	*live++
	return &cycleNode{live: live}
}

func (n *cycleNode) MarkMembers(c *lutze.Collector) {
	lutze.MarkPtr(c, n.other)
}

func (n *cycleNode) Finalize() {
	*n.live--
}

func TestCyclicReferenceIsCollected(t *testing.T) {
	c := lutze.NewCollector()
	var live int

	a := lutze.New(c, func() *cycleNode { return newCycleNode(&live) })
	b := lutze.New(c, func() *cycleNode { return newCycleNode(&live) })
	a.Get().other = b
	b.Get().other = a
	assert.Equal(t, 2, live)

	c.Unmark(a.Get())
	c.Unmark(b.Get())
	c.Collect(true)
	assert.Equal(t, 0, live)
}

// fibNode recursively allocates two children while computing a Fibonacci
// number, exercising root-stack correctness under deep, recursive
// allocation: every intermediate node is briefly a root and must be
// unmarked for the whole tree to be collectible.
type fibNode struct {
	lutze.Base
	live *int
}

func (n *fibNode) Finalize() {
	*n.live--
}

func fibonacci(c *lutze.Collector, live *int, n int) int {
	*live++
	p := lutze.New(c, func() *fibNode { return &fibNode{live: live} })
	defer c.Unmark(p.Get())

	if n < 2 {
		return n
	}
	return fibonacci(c, live, n-1) + fibonacci(c, live, n-2)
}

func TestRecursiveAllocationReturnsToZero(t *testing.T) {
	c := lutze.NewCollector()
	var live int

	result := fibonacci(c, &live, 12)
	assert.Equal(t, 144, result)

	c.Collect(true)
	assert.Equal(t, 0, live)
}

// deepNode builds a 3-ary tree, truncated by a shared depth counter,
// mirroring the deep-call-graph scenario: each level allocates 3 children
// and marks all of them, with the whole tree rooted only at its topmost
// node.
type deepNode struct {
	lutze.Base
	live                   *int
	child1, child2, child3 lutze.Ptr[deepNode]
}

func newDeepNode(c *lutze.Collector, live, level *int, maxLevel int) *deepNode {
	*live++
	n := &deepNode{live: live}
	if *level < maxLevel {
		*level++
		n.child1 = lutze.New(c, func() *deepNode { return newDeepNode(c, live, level, maxLevel) })
		n.child2 = lutze.New(c, func() *deepNode { return newDeepNode(c, live, level, maxLevel) })
		n.child3 = lutze.New(c, func() *deepNode { return newDeepNode(c, live, level, maxLevel) })
		c.Unmark(n.child1.Get())
		c.Unmark(n.child2.Get())
		c.Unmark(n.child3.Get())
	}
	return n
}

func (n *deepNode) MarkMembers(c *lutze.Collector) {
	lutze.MarkPtr(c, n.child1)
	lutze.MarkPtr(c, n.child2)
	lutze.MarkPtr(c, n.child3)
}

func (n *deepNode) Finalize() {
	*n.live--
}

func TestDeepCallGraphReturnsToZero(t *testing.T) {
	c := lutze.NewCollector()
	var live, level int

	root := lutze.New(c, func() *deepNode { return newDeepNode(c, &live, &level, 6) })
	assert.Greater(t, live, 1)

	c.Unmark(root.Get())
	c.Collect(true)
	assert.Equal(t, 0, live)
}

func TestSetThresholdTriggersAutomaticCollection(t *testing.T) {
	c := lutze.NewCollector()
	c.SetThreshold(4)
	var live int

	var last lutze.Ptr[counter]
	for i := 0; i < 10; i++ {
		last = lutze.New(c, func() *counter { return newCounter(&live) })
		c.Unmark(last.Get())
		c.Collect(false)
	}

	assert.Less(t, c.Stats().Live, 10)
}

func TestStatsReflectsLiveAndRootCounts(t *testing.T) {
	c := lutze.NewCollector()
	var live int

	lutze.New(c, func() *counter { return newCounter(&live) })
	lutze.New(c, func() *counter { return newCounter(&live) })

	stats := c.Stats()
	assert.Equal(t, 2, stats.Live)
	assert.Equal(t, 2, stats.Roots)
}
