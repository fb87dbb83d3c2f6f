package cec

import (
	"fmt"
	"time"
)

const (
	// MaxMessageSize is the size of the wire payload buffer: one address
	// byte, one optional opcode byte, and up to MaxParameters bytes.
	MaxMessageSize = 16

	// MaxParameters is the maximum number of parameter bytes one CEC
	// frame can carry.
	MaxParameters = MaxMessageSize - 2
)

// Message is the unit of communication on the CEC bus.
//
// A Message is a value object: it holds the addressed payload the caller
// builds, plus the result fields (sequence number, status bits, retry
// counters) the transport fills in once the message has been on the bus.
// Messages carry no reference back to the session that sent them.
type Message struct {
	initiator   LogicalAddress
	destination LogicalAddress
	opcode      Opcode
	hasOpcode   bool
	params      []byte

	// reply/timeout are consumed by the transport on transmit: if
	// hasReply is set the transport waits up to timeout for a reply with
	// the given opcode.
	reply    Opcode
	hasReply bool
	timeout  time.Duration

	// Result fields, set by the transport.
	sequence uint32
	txStatus TxStatus
	rxStatus RxStatus
	counters TxCounters
}

// TxCounters are the per-transmit error event counts the driver reports.
type TxCounters struct {
	ArbLost  uint8
	Nack     uint8
	LowDrive uint8
	Error    uint8
}

// NewPoll creates a zero-payload poll message, used to probe whether a
// logical address is in use.
func NewPoll(initiator, destination LogicalAddress) *Message {
	return &Message{initiator: initiator & 0x0f, destination: destination & 0x0f}
}

// NewMessage creates a message with an opcode and no parameters.
func NewMessage(initiator, destination LogicalAddress, opcode Opcode) *Message {
	m := NewPoll(initiator, destination)
	m.opcode = opcode
	m.hasOpcode = true
	return m
}

// NewMessageData creates a message with an opcode and parameter bytes.
// The parameter format depends on the opcode.
//
// It returns ErrParametersTooLong if params exceeds MaxParameters bytes;
// it never truncates.
func NewMessageData(initiator, destination LogicalAddress, opcode Opcode, params []byte) (*Message, error) {
	if len(params) > MaxParameters {
		return nil, ErrParametersTooLong
	}

	m := NewMessage(initiator, destination, opcode)
	m.params = append([]byte(nil), params...)
	return m, nil
}

// DecodeMessage decodes a wire payload into a Message. Decoding is total:
// both address nibbles are exhaustive and an opcode byte outside the
// registry still decodes, so any payload of 1 to 16 bytes yields a valid
// Message. Longer payloads are clamped to 16 bytes; an empty payload
// decodes as a poll between unregistered addresses.
func DecodeMessage(payload []byte) *Message {
	if len(payload) > MaxMessageSize {
		payload = payload[:MaxMessageSize]
	}

	m := &Message{}
	if len(payload) == 0 {
		m.initiator = UnregisteredBroadcast
		m.destination = UnregisteredBroadcast
		return m
	}

	m.initiator = LogicalAddressFromNibble(payload[0] >> 4)
	m.destination = LogicalAddressFromNibble(payload[0])
	if len(payload) > 1 {
		m.opcode = Opcode(payload[1])
		m.hasOpcode = true
	}
	if len(payload) > 2 {
		m.params = append([]byte(nil), payload[2:]...)
	}

	return m
}

// Encode serializes the message into its wire payload: the packed
// initiator/destination byte, the opcode byte if present, then the
// parameter bytes. It returns ErrParametersTooLong if the parameters do
// not fit a single frame.
func (m *Message) Encode() ([]byte, error) {
	if len(m.params) > MaxParameters {
		return nil, ErrParametersTooLong
	}

	buf := make([]byte, 0, MaxMessageSize)
	buf = append(buf, byte(m.initiator)<<4|byte(m.destination))
	if m.hasOpcode {
		buf = append(buf, byte(m.opcode))
	}
	buf = append(buf, m.params...)

	return buf, nil
}

// Length returns the encoded length in bytes.
func (m *Message) Length() int {
	n := 1 + len(m.params)
	if m.hasOpcode {
		n++
	}
	return n
}

// Initiator returns the sender's logical address.
func (m *Message) Initiator() LogicalAddress { return m.initiator }

// Destination returns the destination logical address.
func (m *Message) Destination() LogicalAddress { return m.destination }

// Opcode returns the message opcode. The second return value is false
// for a poll message, which carries no opcode at all.
func (m *Message) Opcode() (Opcode, bool) { return m.opcode, m.hasOpcode }

// Parameters returns the parameter bytes following the opcode. It is
// empty for messages of 2 bytes or less. The returned slice is the
// message's own backing store; callers must not modify it.
func (m *Message) Parameters() []byte { return m.params }

// IsPoll reports whether this is a zero-payload poll message.
func (m *Message) IsPoll() bool { return !m.hasOpcode }

// IsBroadcast reports whether the message is addressed to every device
// on the bus.
func (m *Message) IsBroadcast() bool { return m.destination == UnregisteredBroadcast }

// WaitForReply marks the message to await a reply with the given opcode
// when transmitted. Pass OpFeatureAbort to wait for a possible abort
// reply. The transport enforces a 1 second ceiling on timeout whenever a
// reply is requested.
func (m *Message) WaitForReply(opcode Opcode, timeout time.Duration) {
	m.reply = opcode
	m.hasReply = true
	m.timeout = timeout
}

// Reply returns the reply opcode, if any. Before transmission it is the
// opcode set by WaitForReply; once the transport resolves the transmit
// it is the driver's written-back value, see SetReply.
func (m *Message) Reply() (Opcode, bool) { return m.reply, m.hasReply }

// SetReply records the reply opcode the driver writes back when a
// reply-awaiting transmit resolves. The driver zeroes the field when the
// transmit failed, drew a feature abort, or saw no reply at all; only a
// non-zero value means the payload now holds the awaited reply. Since
// OpFeatureAbort is 0x00, a zeroed field reads back as OpFeatureAbort.
func (m *Message) SetReply(opcode Opcode) {
	m.reply = opcode
	m.hasReply = true
}

// Timeout returns the receive/reply timeout attached to the message.
// Zero means wait forever on receive, or the protocol default on a
// reply-awaiting transmit.
func (m *Message) Timeout() time.Duration { return m.timeout }

// SetTimeout sets the receive timeout attached to the message.
func (m *Message) SetTimeout(d time.Duration) { m.timeout = d }

// Sequence returns the transport-assigned sequence number. It is zero
// for messages received from other devices and non-zero for the result
// of an earlier transmit, which is how non-blocking transmit completions
// are correlated.
func (m *Message) Sequence() uint32 { return m.sequence }

// SetSequence records the transport-assigned sequence number.
func (m *Message) SetSequence(seq uint32) { m.sequence = seq }

// TxStatus returns the transmit status bits.
func (m *Message) TxStatus() TxStatus { return m.txStatus }

// SetTxStatus records the transmit status bits.
func (m *Message) SetTxStatus(s TxStatus) { m.txStatus = s }

// RxStatus returns the receive status bits.
func (m *Message) RxStatus() RxStatus { return m.rxStatus }

// SetRxStatus records the receive status bits.
func (m *Message) SetRxStatus(s RxStatus) { m.rxStatus = s }

// Counters returns the per-transmit error event counters.
func (m *Message) Counters() TxCounters { return m.counters }

// SetCounters records the per-transmit error event counters.
func (m *Message) SetCounters(c TxCounters) { m.counters = c }

// IsSuccessful reports whether the message resolved successfully on the
// bus. The rules apply in order:
//
//  1. a non-empty transmit status without TxOK is a failure;
//  2. a non-empty receive status without RxOK is a failure;
//  3. both statuses empty means the message never resolved — failure;
//  4. RxFeatureAbort is a failure even though the abort reply itself
//     arrives with RxOK set: the peer explicitly declined.
func (m *Message) IsSuccessful() bool {
	if !m.txStatus.IsEmpty() && !m.txStatus.Has(TxOK) {
		return false
	}
	if !m.rxStatus.IsEmpty() && !m.rxStatus.Has(RxOK) {
		return false
	}
	if m.txStatus.IsEmpty() && m.rxStatus.IsEmpty() {
		return false
	}
	return !m.rxStatus.Has(RxFeatureAbort)
}

// Clone creates a deep copy of the message.
func (m *Message) Clone() *Message {
	clone := *m
	if m.params != nil {
		clone.params = append([]byte(nil), m.params...)
	}
	return &clone
}

// String renders the message for logging, e.g.
// "Playback2->Audiosystem Standby" or
// "TV->Playback1 SetStreamPath [31 00]".
func (m *Message) String() string {
	if m.IsPoll() {
		return fmt.Sprintf("%s->%s poll", m.initiator, m.destination)
	}
	if len(m.params) == 0 {
		return fmt.Sprintf("%s->%s %s", m.initiator, m.destination, m.opcode)
	}
	return fmt.Sprintf("%s->%s %s [% 02x]", m.initiator, m.destination, m.opcode, m.params)
}
