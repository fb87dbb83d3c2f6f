package cec

import (
	"errors"
	"fmt"
)

var (
	// ErrParametersTooLong indicates that a message payload exceeds the
	// 14 parameter bytes a single CEC frame can carry. Encoding never
	// truncates silently.
	ErrParametersTooLong = errors.New("cec: parameters exceed 14 bytes")

	// ErrOSDNameInvalid indicates that an OSD name is empty, longer than
	// 15 bytes, or contains non-ASCII characters.
	ErrOSDNameInvalid = errors.New("cec: OSD name must be 1-15 ASCII bytes")

	// ErrTooManyClaims indicates that a logical address request asks for
	// more than the 4 claims one adapter can hold.
	ErrTooManyClaims = errors.New("cec: at most 4 logical address claims per adapter")
)

// FeatureAbortError is returned when a peer explicitly declined a request
// with a feature abort reply. It carries the opcode that was aborted and
// the peer's reason operand.
type FeatureAbortError struct {
	Opcode Opcode
	Reason AbortReason
}

func (e *FeatureAbortError) Error() string {
	return fmt.Sprintf("cec: %s aborted by peer: %s", e.Opcode, e.Reason)
}
