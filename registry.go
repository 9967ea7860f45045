package lutze

import (
	"encoding/binary"
	"runtime"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/fmstephe/flib/fmath"

	"github.com/lutze-go/lutze/internal/goroutineid"
)

// registryShardCount is rounded up to a power of two from GOMAXPROCS, the
// same way the teacher's allocation_config sizing rounds slab geometry up
// to a power of two: each registry shard guards an independent map and
// mutex, so a shard count on the order of the number of live Ps keeps
// concurrent GetGC calls from different goroutines off each other's locks
// in the common case. A floor of 8 keeps small/single-core processes from
// running with a single, effectively unsharded, map.
var registryShardCount = shardCount()

func shardCount() int {
	n := int64(runtime.GOMAXPROCS(0))
	if n < 8 {
		n = 8
	}
	return int(fmath.NxtPowerOfTwo(n))
}

type registryShard struct {
	mu   sync.Mutex
	byID map[int64]*Collector
}

// registry is the process-wide map from goroutine identity to that
// goroutine's Collector, plus the single static Collector. It plays the
// role gc::gc_registry plays in the system this package is modelled on,
// adapted for a language with no thread-local storage and no hook to run
// when a goroutine exits: callers are responsible for calling ReleaseGC
// themselves before a goroutine that used GetGC ends, the same discipline
// Unmark asks of root scopes.
type registry struct {
	shards     []registryShard
	staticOnce sync.Once
	static     *Collector
}

func newRegistry() *registry {
	shards := make([]registryShard, registryShardCount)
	for i := range shards {
		shards[i].byID = make(map[int64]*Collector)
	}
	return &registry{shards: shards}
}

var globalRegistry = newRegistry()

func (r *registry) shardFor(id int64) *registryShard {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(id))
	h := xxhash.Sum64(buf[:])
	return &r.shards[h&uint64(len(r.shards)-1)]
}

// GetGC returns the calling goroutine's Collector, creating it on first
// use. Each goroutine gets its own, independent, lazily-created Collector;
// there is no way to obtain another goroutine's Collector through this
// function.
func GetGC() *Collector {
	id := goroutineid.Current()
	shard := globalRegistry.shardFor(id)

	shard.mu.Lock()
	defer shard.mu.Unlock()

	c, ok := shard.byID[id]
	if !ok {
		c = newCollector(false)
		shard.byID[id] = c
	}
	return c
}

// GetStaticGC returns the single process-wide static Collector, creating
// it on first use.
func GetStaticGC() *Collector {
	globalRegistry.staticOnce.Do(func() {
		globalRegistry.static = newCollector(true)
	})
	return globalRegistry.static
}

// ReleaseGC finalizes and forgets the calling goroutine's Collector, if one
// has been created. Call it just before a goroutine that used GetGC exits;
// Go has no goroutine-exit hook to run this automatically, so - unlike the
// thread-keyed registry this one is modelled on, which can tie this cleanup
// to actual thread termination - it is the caller's responsibility,
// analogous to a deferred scope guard.
func ReleaseGC() {
	id := goroutineid.Current()
	shard := globalRegistry.shardFor(id)

	shard.mu.Lock()
	c, ok := shard.byID[id]
	if ok {
		delete(shard.byID, id)
	}
	shard.mu.Unlock()

	if ok {
		c.FinalCollect()
	}
}

// Init resets the collector registry to a fresh, empty state, discarding
// any existing per-goroutine and static collectors without finalizing
// them. It is meant for test harnesses that want a clean slate between
// runs; ordinary programs do not need to call it.
func Init() {
	globalRegistry = newRegistry()
}

// Term finalizes every collector currently known to the registry - every
// goroutine's, plus the static collector if one was ever created - and
// then resets the registry, as if ReleaseGC had been called for every
// goroutine. It is meant to be called once, at process shutdown or at the
// end of a test run.
func Term() {
	for i := range globalRegistry.shards {
		shard := &globalRegistry.shards[i]

		shard.mu.Lock()
		collectors := make([]*Collector, 0, len(shard.byID))
		for _, c := range shard.byID {
			collectors = append(collectors, c)
		}
		shard.mu.Unlock()

		for _, c := range collectors {
			c.FinalCollect()
		}
	}

	if globalRegistry.static != nil {
		globalRegistry.static.FinalCollect()
	}

	Init()
}
