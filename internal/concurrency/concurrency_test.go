package concurrency

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVectorClockHappensBefore(t *testing.T) {
	a := NewVectorClock()
	a.Increment("T1") // a: {T1: 1}

	b := NewVectorClock()
	b.Increment("T1")
	b.Increment("T1") // b: {T1: 2}

	assert.True(t, a.HappensBefore(b))
	assert.False(t, b.HappensBefore(a))
}

func TestVectorClockConcurrent(t *testing.T) {
	a := NewVectorClock()
	a.Increment("T1") // a: {T1: 1}

	b := NewVectorClock()
	b.Increment("T2") // b: {T2: 1}

	assert.False(t, a.HappensBefore(b))
	assert.False(t, b.HappensBefore(a))
	assert.True(t, a.Concurrent(b))
}

func TestVectorClockJoin(t *testing.T) {
	a := NewVectorClock()
	a.Increment("T1")
	a.Increment("T1") // a: {T1: 2}

	b := NewVectorClock()
	b.Increment("T2")
	b.Increment("T2")
	b.Increment("T2") // b: {T2: 3}

	a.Join(b) // a: {T1: 2, T2: 3}
	assert.Equal(t, uint64(2), a.Get("T1"))
	assert.Equal(t, uint64(3), a.Get("T2"))
}

func TestHappensBeforeSimpleProgramOrder(t *testing.T) {
	an := NewAnalyzer()
	an.ProcessEvent(Event{ID: "e1", Kind: EventWrite, Variable: "x", ThreadID: "T1", Location: "test:1"})
	an.ProcessEvent(Event{ID: "e2", Kind: EventRead, Variable: "x", ThreadID: "T1", Location: "test:2"})

	assert.True(t, an.HappensBefore("e1", "e2"))
	assert.False(t, an.HappensBefore("e2", "e1"))
	assert.Empty(t, an.DetectRaces())
}

func TestHappensBeforeDetectsRace(t *testing.T) {
	an := NewAnalyzer()
	an.ProcessEvent(Event{ID: "e1", Kind: EventWrite, Variable: "x", ThreadID: "T1", Location: "test:1"})
	an.ProcessEvent(Event{ID: "e2", Kind: EventWrite, Variable: "x", ThreadID: "T2", Location: "test:2"})

	races := an.DetectRaces()
	assert.Len(t, races, 1)
	assert.Equal(t, "x", races[0].Variable)
}

func TestHappensBeforeLockSynchronization(t *testing.T) {
	an := NewAnalyzer()
	an.ProcessEvent(Event{ID: "e1", Kind: EventAcquire, Variable: "lock", ThreadID: "T1", Location: "test:1"})
	an.ProcessEvent(Event{ID: "e2", Kind: EventWrite, Variable: "x", ThreadID: "T1", Location: "test:2"})
	an.ProcessEvent(Event{ID: "e3", Kind: EventRelease, Variable: "lock", ThreadID: "T1", Location: "test:3"})

	an.ProcessEvent(Event{ID: "e4", Kind: EventAcquire, Variable: "lock", ThreadID: "T2", Location: "test:4"})
	an.ProcessEvent(Event{ID: "e5", Kind: EventRead, Variable: "x", ThreadID: "T2", Location: "test:5"})
	an.ProcessEvent(Event{ID: "e6", Kind: EventRelease, Variable: "lock", ThreadID: "T2", Location: "test:6"})

	assert.True(t, an.HappensBefore("e2", "e5"))
	assert.Empty(t, an.DetectRaces())
}

func TestHappensBeforeAwaitCreatesYield(t *testing.T) {
	an := NewAnalyzer()
	an.ProcessEvent(Event{ID: "e1", Kind: EventWrite, Variable: "x", ThreadID: "T1", Location: "test:1"})
	an.ProcessEvent(Event{ID: "e2", Kind: EventAwait, ThreadID: "T1", Location: "test:2"})
	an.ProcessEvent(Event{ID: "e3", Kind: EventWrite, Variable: "y", ThreadID: "T1", Location: "test:3"})

	assert.True(t, an.HappensBefore("e1", "e3"))
}

func TestSingleThreadEveryPairOrdered(t *testing.T) {
	an := NewAnalyzer()
	ids := []string{"e1", "e2", "e3", "e4"}
	for i, id := range ids {
		kind := EventRead
		if i%2 == 0 {
			kind = EventWrite
		}
		an.ProcessEvent(Event{ID: id, Kind: kind, Variable: "x", ThreadID: "T1", Location: "test:" + id})
	}

	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			assert.True(t, an.HappensBefore(ids[i], ids[j]))
		}
	}
	assert.Empty(t, an.DetectRaces())
}
