package cec

import (
	"fmt"
	"time"
)

// EventType is the discriminant of an adapter event.
type EventType uint32

const (
	// EventStateChange signals a physical or logical address transition.
	EventStateChange EventType = 1
	// EventLostMsgs signals that the receive queue overflowed and
	// messages were dropped.
	EventLostMsgs EventType = 2
)

func (t EventType) String() string {
	switch t {
	case EventStateChange:
		return "state-change"
	case EventLostMsgs:
		return "lost-msgs"
	default:
		return fmt.Sprintf("event(%d)", uint32(t))
	}
}

// EventFlags qualify a dequeued event.
type EventFlags uint32

const (
	// EventFlagInitialState marks the synthetic state-change event
	// delivered right after open, describing the adapter's current state
	// rather than a transition.
	EventFlagInitialState EventFlags = 1 << 0
	// EventFlagDroppedEvents means at least one earlier event of the
	// same kind was overwritten before this one was read. Each event
	// kind is a single-slot latest-wins queue, so only the most recent
	// value survives a slow consumer.
	EventFlagDroppedEvents EventFlags = 1 << 1
)

// Has reports whether all bits of flag are set.
func (f EventFlags) Has(flag EventFlags) bool { return f&flag == flag }

// StateChange is the payload of an EventStateChange event.
type StateChange struct {
	PhysAddr    PhysicalAddress
	LogAddrMask LogAddrMask
}

// LostMsgs is the payload of an EventLostMsgs event.
type LostMsgs struct {
	Count uint32
}

// Event is a tagged union: Type selects which payload field is valid.
type Event struct {
	Timestamp time.Duration // monotonic clock reading at queue time
	Type      EventType
	Flags     EventFlags

	StateChange StateChange // valid when Type == EventStateChange
	LostMsgs    LostMsgs    // valid when Type == EventLostMsgs
}

func (e Event) String() string {
	switch e.Type {
	case EventStateChange:
		return fmt.Sprintf("state-change phys=%s mask=%s", e.StateChange.PhysAddr, e.StateChange.LogAddrMask)
	case EventLostMsgs:
		return fmt.Sprintf("lost-msgs count=%d", e.LostMsgs.Count)
	default:
		return e.Type.String()
	}
}
