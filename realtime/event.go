package realtime

import (
	"sort"
)

// EventID identifies an event kind.
type EventID int

// Event is a unit of input delivered to the handler on a fixed step.
type Event struct {
	ID      EventID
	Payload any
}

// EventWithMeta adds sequencing metadata for deterministic ordering
type EventWithMeta struct {
	Event       Event
	SequenceNum uint64
	Priority    int
}

// sortEvents orders events deterministically
// Stable sort preserves insertion order for equal priorities
func (rt *RealtimeRuntime) sortEvents(events []EventWithMeta) {
	sort.SliceStable(events, func(i, j int) bool {
		// Primary: Higher priority first
		if events[i].Priority != events[j].Priority {
			return events[i].Priority > events[j].Priority
		}

		// Secondary: Earlier sequence number first (FIFO)
		return events[i].SequenceNum < events[j].SequenceNum
	})
}

// Event ordering guarantees:
// 1. Events from same source processed in submission order (sequence number)
// 2. Higher priority events processed first
// 3. Deterministic tie-breaking via sequence number
// 4. Events queued between fixed steps wait for the next fixed step
