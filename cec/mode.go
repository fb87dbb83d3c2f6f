package cec

import (
	"errors"
	"fmt"
)

// ErrInvalidMode indicates a follower mode that is not allowed for the
// requested initiator mode or the adapter's capability set.
var ErrInvalidMode = errors.New("cec: invalid mode combination")

// InitiatorMode governs whether a handle may transmit.
type InitiatorMode uint32

const (
	// InitiatorNone disallows transmitting on this handle.
	InitiatorNone InitiatorMode = 0
	// InitiatorSend allows transmitting. This is the default for a
	// freshly opened handle.
	InitiatorSend InitiatorMode = 1
	// InitiatorExclusive allows transmitting and locks out every other
	// handle on the adapter from doing so.
	InitiatorExclusive InitiatorMode = 2
)

func (m InitiatorMode) String() string {
	switch m {
	case InitiatorNone:
		return "none"
	case InitiatorSend:
		return "send"
	case InitiatorExclusive:
		return "exclusive"
	default:
		return fmt.Sprintf("initiator(%d)", uint32(m))
	}
}

// FollowerMode governs what a handle observes on the bus.
type FollowerMode uint32

const (
	// FollowerRepliesOnly delivers only replies to this handle's own
	// transmits. This is the default for a freshly opened handle.
	FollowerRepliesOnly FollowerMode = 0x0 << 4
	// FollowerAll additionally delivers every directed message the
	// adapter receives.
	FollowerAll FollowerMode = 0x1 << 4
	// FollowerExclusive is FollowerAll with adapter-level exclusivity.
	FollowerExclusive FollowerMode = 0x2 << 4
	// FollowerExclusivePassthru is FollowerExclusive with core message
	// handling passed through to this handle.
	FollowerExclusivePassthru FollowerMode = 0x3 << 4
	// FollowerMonitorPin observes raw pin transitions. Requires the
	// MONITOR_PIN capability and elevated privilege.
	FollowerMonitorPin FollowerMode = 0xd << 4
	// FollowerMonitor observes all messages to and from this adapter.
	// Requires elevated privilege.
	FollowerMonitor FollowerMode = 0xe << 4
	// FollowerMonitorAll observes all bus traffic, including messages
	// between other devices. Requires the MONITOR_ALL capability and
	// elevated privilege.
	FollowerMonitorAll FollowerMode = 0xf << 4
)

func (m FollowerMode) String() string {
	switch m {
	case FollowerRepliesOnly:
		return "replies-only"
	case FollowerAll:
		return "all"
	case FollowerExclusive:
		return "exclusive"
	case FollowerExclusivePassthru:
		return "exclusive-passthru"
	case FollowerMonitorPin:
		return "monitor-pin"
	case FollowerMonitor:
		return "monitor"
	case FollowerMonitorAll:
		return "monitor-all"
	default:
		return fmt.Sprintf("follower(0x%02x)", uint32(m))
	}
}

// Mode is the pair of roles a handle negotiates with the adapter. The
// wire form packs the follower mode into bits 4..7 and the initiator
// mode into bits 0..3.
type Mode struct {
	Initiator InitiatorMode
	Follower  FollowerMode
}

// ModeFromRaw splits a packed mode word into its two roles.
func ModeFromRaw(raw uint32) Mode {
	return Mode{
		Initiator: InitiatorMode(raw & 0x0f),
		Follower:  FollowerMode(raw & 0xf0),
	}
}

// Raw returns the packed mode word.
func (m Mode) Raw() uint32 { return uint32(m.Initiator) | uint32(m.Follower) }

func (m Mode) String() string {
	return fmt.Sprintf("%s/%s", m.Initiator, m.Follower)
}

// Validate checks the mode pair against the adapter's capabilities.
// Follower modes that receive directed traffic (All, Exclusive,
// ExclusivePassthru) need a transmitting handle to acknowledge and
// reply, so they require an initiator role and the TRANSMIT capability.
// MonitorAll and MonitorPin require their matching capability bits. The
// privilege check for monitor modes is left to the adapter.
func (m Mode) Validate(caps Capabilities) error {
	switch m.Initiator {
	case InitiatorNone, InitiatorSend, InitiatorExclusive:
	default:
		return fmt.Errorf("%w: unknown initiator mode %d", ErrInvalidMode, uint32(m.Initiator))
	}

	switch m.Follower {
	case FollowerRepliesOnly:
	case FollowerAll, FollowerExclusive, FollowerExclusivePassthru:
		if m.Initiator == InitiatorNone {
			return fmt.Errorf("%w: follower mode %s requires an initiator role", ErrInvalidMode, m.Follower)
		}
		if !caps.Has(CapTransmit) {
			return fmt.Errorf("%w: follower mode %s requires the TRANSMIT capability", ErrInvalidMode, m.Follower)
		}
	case FollowerMonitor:
	case FollowerMonitorAll:
		if !caps.Has(CapMonitorAll) {
			return fmt.Errorf("%w: monitor-all requires the MONITOR_ALL capability", ErrInvalidMode)
		}
	case FollowerMonitorPin:
		if !caps.Has(CapMonitorPin) {
			return fmt.Errorf("%w: monitor-pin requires the MONITOR_PIN capability", ErrInvalidMode)
		}
	default:
		return fmt.Errorf("%w: unknown follower mode 0x%02x", ErrInvalidMode, uint32(m.Follower))
	}

	return nil
}
