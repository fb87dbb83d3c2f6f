package device

import (
	"time"

	"github.com/opencec/go-cec/cec"
)

// Transport is the adapter-facing collaborator of a Session. Every
// method is an atomic request/response operation against the adapter;
// the transport is the serialization point and must be safe for
// concurrent use, giving transmit, receive, and event dequeue
// independent queuing.
//
// Failures use the package error vocabulary: ErrUnsupported for
// operations outside the capability set, ErrBusy for role conflicts,
// ErrWouldBlock when a non-blocking handle has no data ready, and
// ErrTimeout for exceeded deadlines.
type Transport interface {
	// Caps queries the adapter's identity and capability bits.
	Caps() (cec.Caps, error)

	// Mode returns this handle's current initiator/follower pair.
	Mode() (cec.Mode, error)

	// SetMode reassigns this handle's negotiation role.
	SetMode(mode cec.Mode) error

	// PhysAddr returns the adapter's physical address, which is
	// PhysAddrInvalid when unconfigured.
	PhysAddr() (cec.PhysicalAddress, error)

	// SetPhysAddr configures the physical address. PhysAddrInvalid
	// clears it. On a blocking handle the call waits until any
	// already-requested logical addresses are reclaimed against the new
	// address.
	SetPhysAddr(addr cec.PhysicalAddress) error

	// LogAddrs returns the currently claimed logical addresses.
	LogAddrs() (cec.LogAddrs, error)

	// SetLogAddrs submits a logical address request and returns the
	// driver-confirmed result, which may claim fewer addresses than
	// requested. A request with zero claims clears all claims.
	SetLogAddrs(req *cec.LogAddrsRequest) (cec.LogAddrs, error)

	// Transmit submits the message and fills its result fields in
	// place: sequence, status bits, and counters. If the message awaits
	// a reply and the handle is blocking, the message content is
	// overwritten with the reply payload on success.
	Transmit(msg *cec.Message) error

	// Receive dequeues the next inbound message, waiting up to timeout.
	// A zero timeout waits forever on a blocking handle.
	Receive(timeout time.Duration) (*cec.Message, error)

	// DequeueEvent dequeues the next pending adapter event.
	DequeueEvent() (cec.Event, error)

	// Close releases the adapter handle.
	Close() error
}
