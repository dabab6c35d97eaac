package concurrency

// VectorClock maps a thread/task id to its last known logical
// timestamp under that thread's own count (Lamport 1978). A missing
// entry reads as 0.
type VectorClock struct {
	clocks map[string]uint64
}

// NewVectorClock returns an empty clock.
func NewVectorClock() VectorClock {
	return VectorClock{clocks: make(map[string]uint64)}
}

// Get returns threadID's logical timestamp, 0 if never observed.
func (c VectorClock) Get(threadID string) uint64 {
	return c.clocks[threadID]
}

// Increment advances threadID's own component by one.
func (c VectorClock) Increment(threadID string) {
	c.clocks[threadID]++
}

// Join merges other into c by taking the component-wise maximum,
// the update applied on lock acquire/release and task join.
func (c VectorClock) Join(other VectorClock) {
	for threadID, t := range other.clocks {
		if t > c.clocks[threadID] {
			c.clocks[threadID] = t
		}
	}
}

// HappensBefore reports whether c → other: every component of c is
// ≤ the corresponding component of other.
func (c VectorClock) HappensBefore(other VectorClock) bool {
	for threadID, t := range c.clocks {
		if t > other.Get(threadID) {
			return false
		}
	}
	return true
}

// Concurrent reports whether neither clock happens-before the other.
func (c VectorClock) Concurrent(other VectorClock) bool {
	return !c.HappensBefore(other) && !other.HappensBefore(c)
}

// Copy returns an independent clone.
func (c VectorClock) Copy() VectorClock {
	cp := make(map[string]uint64, len(c.clocks))
	for k, v := range c.clocks {
		cp[k] = v
	}
	return VectorClock{clocks: cp}
}
