package concurrency

// Race is a pair of conflicting, concurrent memory events observed on
// distinct threads.
type Race struct {
	EventA    string
	EventB    string
	Variable  string
	LocationA string
	LocationB string
}

// Analyzer consumes a per-thread event trace in program order and
// computes happens-before ordering via vector clocks (spec §4.11).
// It is not safe for concurrent use: events must be fed to
// ProcessEvent from a single goroutine, in the order they were
// observed.
type Analyzer struct {
	threadClocks map[string]VectorClock
	lockClocks   map[string]VectorClock
	eventClocks  map[string]VectorClock
	threadEvents map[string][]string
	events       []Event
	eventByID    map[string]Event
}

// NewAnalyzer returns an analyzer with no events processed yet.
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		threadClocks: make(map[string]VectorClock),
		lockClocks:   make(map[string]VectorClock),
		eventClocks:  make(map[string]VectorClock),
		threadEvents: make(map[string][]string),
		eventByID:    make(map[string]Event),
	}
}

// ProcessEvent folds one event into the analyzer's state: the
// synchronization edge implied by its kind is applied first, then
// the owning thread's clock is incremented for program order.
func (a *Analyzer) ProcessEvent(e Event) {
	clock, ok := a.threadClocks[e.ThreadID]
	if !ok {
		clock = NewVectorClock()
	}

	switch e.Kind {
	case EventAcquire:
		if lockClock, ok := a.lockClocks[e.Variable]; ok {
			clock.Join(lockClock)
		}
	case EventRelease:
		lockClock, ok := a.lockClocks[e.Variable]
		if !ok {
			lockClock = NewVectorClock()
		}
		lockClock.Join(clock)
		a.lockClocks[e.Variable] = lockClock
	case EventJoin:
		if taskClock, ok := a.threadClocks[e.Variable]; ok {
			clock.Join(taskClock)
		}
	case EventAwait:
		// Conservative treatment of a yield point: the thread may be
		// descheduled and another task interleaved, so its own clock
		// advances as if released and immediately reacquired.
		clock.Increment(e.ThreadID)
	case EventFork:
		// The spawned task's own first event establishes its clock;
		// nothing to join here until that task is observed.
	}

	clock.Increment(e.ThreadID)
	a.threadClocks[e.ThreadID] = clock
	a.eventClocks[e.ID] = clock.Copy()
	a.threadEvents[e.ThreadID] = append(a.threadEvents[e.ThreadID], e.ID)
	a.events = append(a.events, e)
	a.eventByID[e.ID] = e
}

// HappensBefore reports whether event a happens-before event b.
// Unknown event ids report false.
func (a *Analyzer) HappensBefore(aID, bID string) bool {
	ca, ok := a.eventClocks[aID]
	if !ok {
		return false
	}
	cb, ok := a.eventClocks[bID]
	if !ok {
		return false
	}
	return ca.HappensBefore(cb)
}

// AreConcurrent reports whether neither event happens-before the other.
func (a *Analyzer) AreConcurrent(aID, bID string) bool {
	ca, ok := a.eventClocks[aID]
	if !ok {
		return false
	}
	cb, ok := a.eventClocks[bID]
	if !ok {
		return false
	}
	return ca.Concurrent(cb)
}

// Conflict reports whether a and b touch the same variable and at
// least one of them is a write.
func (a *Analyzer) Conflict(aID, bID string) bool {
	ea, ok := a.eventByID[aID]
	if !ok {
		return false
	}
	eb, ok := a.eventByID[bID]
	if !ok {
		return false
	}
	if ea.Variable == "" || ea.Variable != eb.Variable {
		return false
	}
	return ea.Kind == EventWrite || eb.Kind == EventWrite
}

// DetectRaces reports every pair of conflicting, concurrent
// read/write events observed on distinct threads. Same-thread pairs
// are skipped: program order already orders them.
func (a *Analyzer) DetectRaces() []Race {
	var memory []Event
	for _, e := range a.events {
		if e.Kind == EventRead || e.Kind == EventWrite {
			memory = append(memory, e)
		}
	}

	var races []Race
	for i, ea := range memory {
		for _, eb := range memory[i+1:] {
			if ea.ThreadID == eb.ThreadID {
				continue
			}
			if a.Conflict(ea.ID, eb.ID) && a.AreConcurrent(ea.ID, eb.ID) {
				races = append(races, Race{
					EventA:    ea.ID,
					EventB:    eb.ID,
					Variable:  ea.Variable,
					LocationA: ea.Location,
					LocationB: eb.Location,
				})
			}
		}
	}
	return races
}

// ThreadEvents returns threadID's events in program order.
func (a *Analyzer) ThreadEvents(threadID string) []Event {
	ids := a.threadEvents[threadID]
	events := make([]Event, 0, len(ids))
	for _, id := range ids {
		events = append(events, a.eventByID[id])
	}
	return events
}
