package device

import "errors"

var (
	// ErrUnsupported indicates an operation the adapter's capability set
	// does not allow.
	ErrUnsupported = errors.New("operation not supported by adapter capabilities")

	// ErrBusy indicates a role conflict: another handle holds an
	// exclusive mode, or logical address types are already defined.
	ErrBusy = errors.New("adapter busy")

	// ErrWouldBlock indicates no data is ready on a non-blocking handle.
	// The caller must retry, typically after a readiness notification.
	ErrWouldBlock = errors.New("no data ready")

	// ErrTimeout indicates a reply or receive deadline was exceeded.
	ErrTimeout = errors.New("timed out")

	// ErrNotClaimed indicates a transmit from a logical address outside
	// the adapter's claimed-address mask.
	ErrNotClaimed = errors.New("initiator address not claimed by adapter")

	// ErrClosed indicates the session or transport is already closed.
	ErrClosed = errors.New("session closed")

	// ErrTransmitFailed indicates the bus rejected a transmit: lost
	// arbitration, not acknowledged, low drive, or retries exhausted.
	// The wrapping error carries the transmit status bits.
	ErrTransmitFailed = errors.New("transmit failed")

	// ErrInvalidTransition indicates a disallowed adapter state change,
	// such as claiming logical addresses with no physical address set.
	ErrInvalidTransition = errors.New("invalid adapter state transition")

	// ErrConfigNil indicates a configuration option was applied to a nil
	// configuration.
	ErrConfigNil = errors.New("session config is nil")
)
