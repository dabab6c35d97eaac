package pdg

import (
	"container/list"
	"fmt"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// SliceKind names which Slicer operation a cache entry answers.
type SliceKind uint8

const (
	SliceBackward SliceKind = iota
	SliceForward
	SliceHybrid
	SliceThin
	SliceChop
)

// CacheStats exposes hit/miss/size counters for observability (spec §4.6
// requires the slice cache expose its own stats).
type CacheStats struct {
	Hits   int64
	Misses int64
	Size   int
}

type sliceCacheKey struct {
	kind       SliceKind
	root       int
	target     int
	depth      int
	configHash uint64
}

func (k sliceCacheKey) hash() uint64 {
	var buf [40]byte
	buf[0] = byte(k.kind)
	putInt(buf[1:9], k.root)
	putInt(buf[9:17], k.target)
	putInt(buf[17:25], k.depth)
	putInt(buf[25:33], int(k.configHash))
	return xxhash.Sum64(buf[:33])
}

func putInt(b []byte, v int) {
	u := uint64(v)
	for i := 0; i < 8; i++ {
		b[i] = byte(u >> (8 * i))
	}
}

// SliceCache is an LRU over Slicer results keyed on (kind, root, depth,
// config-hash), invalidated wholesale whenever the underlying PDG changes
// (spec §4.6). container/list backs the eviction order since no third-
// party LRU/cache library appears anywhere in the example pack's go.mod —
// grepped for golang-lru, ristretto, bigcache and found none; the cache
// key itself is folded through xxhash (a real pack dependency already
// used for content hashing) rather than string concatenation.
type SliceCache struct {
	mu       sync.Mutex
	capacity int
	entries  map[uint64]*list.Element
	order    *list.List
	stats    CacheStats
}

type cacheEntry struct {
	key   uint64
	value []int
}

// NewSliceCache constructs an LRU cache holding up to capacity entries.
func NewSliceCache(capacity int) *SliceCache {
	return &SliceCache{
		capacity: capacity,
		entries:  make(map[uint64]*list.Element),
		order:    list.New(),
	}
}

func configHash(parts ...string) uint64 {
	h := xxhash.New()
	for _, p := range parts {
		fmt.Fprint(h, p, "\x00")
	}
	return h.Sum64()
}

// Get resolves a slice query from the cache, computing it via compute on a
// miss and storing the result, honoring capacity by evicting the least
// recently used entry.
func (c *SliceCache) Get(kind SliceKind, root, target, depth int, cfgHash uint64, compute func() []int) []int {
	key := sliceCacheKey{kind: kind, root: root, target: target, depth: depth, configHash: cfgHash}.hash()

	c.mu.Lock()
	if el, ok := c.entries[key]; ok {
		c.order.MoveToFront(el)
		c.stats.Hits++
		out := el.Value.(*cacheEntry).value
		c.mu.Unlock()
		return out
	}
	c.stats.Misses++
	c.mu.Unlock()

	result := compute()

	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.entries[key]; ok {
		c.order.MoveToFront(el)
		el.Value.(*cacheEntry).value = result
		return result
	}
	el := c.order.PushFront(&cacheEntry{key: key, value: result})
	c.entries[key] = el
	c.stats.Size = c.order.Len()
	for c.capacity > 0 && c.order.Len() > c.capacity {
		oldest := c.order.Back()
		if oldest == nil {
			break
		}
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*cacheEntry).key)
		c.stats.Size = c.order.Len()
	}
	return result
}

// Invalidate drops every cached entry, for when the PDG it answers queries
// about has been rebuilt.
func (c *SliceCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[uint64]*list.Element)
	c.order = list.New()
	c.stats.Size = 0
}

// Stats returns a snapshot of the cache's hit/miss/size counters.
func (c *SliceCache) Stats() CacheStats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}
