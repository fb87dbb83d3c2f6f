package cec

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMessage_EncodeDecodeRoundTrip(t *testing.T) {
	require := require.New(t)

	tests := []struct {
		name        string
		initiator   LogicalAddress
		destination LogicalAddress
		opcode      Opcode
		hasOpcode   bool
		params      []byte
	}{
		{name: "poll", initiator: Playback1, destination: TV},
		{name: "no params", initiator: TV, destination: Playback1, opcode: OpImageViewOn, hasOpcode: true},
		{name: "broadcast with params", initiator: Playback1, destination: UnregisteredBroadcast, opcode: OpActiveSource, hasOpcode: true, params: []byte{0x10, 0x00}},
		{name: "max params", initiator: TV, destination: UnregisteredBroadcast, opcode: OpVendorCommand, hasOpcode: true, params: make([]byte, MaxParameters)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m *Message
			var err error
			switch {
			case !tt.hasOpcode:
				m = NewPoll(tt.initiator, tt.destination)
			case len(tt.params) == 0:
				m = NewMessage(tt.initiator, tt.destination, tt.opcode)
			default:
				m, err = NewMessageData(tt.initiator, tt.destination, tt.opcode, tt.params)
				require.NoError(err)
			}

			payload, err := m.Encode()
			require.NoError(err)
			require.Equal(m.Length(), len(payload))
			require.LessOrEqual(len(payload), MaxMessageSize)

			decoded := DecodeMessage(payload)
			require.Equal(tt.initiator, decoded.Initiator())
			require.Equal(tt.destination, decoded.Destination())

			op, ok := decoded.Opcode()
			require.Equal(tt.hasOpcode, ok)
			if tt.hasOpcode {
				require.Equal(tt.opcode, op)
			}
			require.Equal(tt.params, append([]byte(nil), decoded.Parameters()...))
		})
	}
}

func TestMessage_StandbyEncoding(t *testing.T) {
	require := require.New(t)

	// Playback2 telling the Audiosystem to go to standby packs the
	// address nibbles into 0x85 with opcode byte 0x36.
	m := NewMessage(Playback2, Audiosystem, OpStandby)
	payload, err := m.Encode()
	require.NoError(err)
	require.Equal([]byte{0x85, 0x36}, payload)
	require.Equal(2, m.Length())
}

func TestMessage_ParametersTooLong(t *testing.T) {
	require := require.New(t)

	_, err := NewMessageData(TV, Playback1, OpVendorCommand, make([]byte, MaxParameters+1))
	require.ErrorIs(err, ErrParametersTooLong)
}

func TestMessage_Broadcast(t *testing.T) {
	require := require.New(t)

	for dst := LogicalAddress(0); dst <= UnregisteredBroadcast; dst++ {
		m := NewMessage(Playback1, dst, OpStandby)
		require.Equal(dst == UnregisteredBroadcast, m.IsBroadcast(), "destination %s", dst)
	}
}

func TestMessage_DecodeUnrecognizedOpcode(t *testing.T) {
	require := require.New(t)

	// 0x5C is not in the registry; decoding must still succeed and keep
	// the parameters intact.
	m := DecodeMessage([]byte{0x04, 0x5c, 0xaa, 0xbb})

	op, ok := m.Opcode()
	require.True(ok)
	require.False(op.Known())
	require.Equal(Opcode(0x5c), op)
	require.Equal("unrecognized(0x5c)", op.String())
	require.Equal([]byte{0xaa, 0xbb}, m.Parameters())
}

func TestMessage_DecodeEdgeCases(t *testing.T) {
	require := require.New(t)

	// Empty payload decodes as an unregistered poll.
	m := DecodeMessage(nil)
	require.True(m.IsPoll())
	require.Equal(UnregisteredBroadcast, m.Initiator())

	// Oversized payloads are clamped to one frame.
	long := make([]byte, 32)
	long[0] = 0x40
	long[1] = byte(OpVendorCommand)
	m = DecodeMessage(long)
	require.Equal(MaxMessageSize, m.Length())
	require.Len(m.Parameters(), MaxParameters)
}

func TestMessage_IsSuccessful(t *testing.T) {
	require := require.New(t)

	// Exhaust every combination of the six transmit bits and three
	// receive bits and check the four-rule precedence.
	for tx := TxStatus(0); tx < 1<<6; tx++ {
		for rx := RxStatus(0); rx < 1<<3; rx++ {
			m := NewMessage(Playback1, TV, OpStandby)
			m.SetTxStatus(tx)
			m.SetRxStatus(rx)

			want := true
			switch {
			case !tx.IsEmpty() && !tx.Has(TxOK):
				want = false
			case !rx.IsEmpty() && !rx.Has(RxOK):
				want = false
			case tx.IsEmpty() && rx.IsEmpty():
				want = false
			case rx.Has(RxFeatureAbort):
				want = false
			}

			require.Equal(want, m.IsSuccessful(), "tx=%s rx=%s", tx, rx)
		}
	}
}

func TestMessage_WaitForReply(t *testing.T) {
	require := require.New(t)

	m := NewMessage(Playback1, TV, OpGiveDevicePowerStatus)
	_, ok := m.Reply()
	require.False(ok)

	m.WaitForReply(OpReportPowerStatus, 500*time.Millisecond)
	reply, ok := m.Reply()
	require.True(ok)
	require.Equal(OpReportPowerStatus, reply)
	require.Equal(500*time.Millisecond, m.Timeout())

	// The transport's write-back overwrites the awaited opcode; a zeroed
	// field reads back as FeatureAbort, meaning no reply arrived.
	m.SetReply(OpFeatureAbort)
	reply, ok = m.Reply()
	require.True(ok)
	require.Equal(OpFeatureAbort, reply)
}

func TestMessage_Clone(t *testing.T) {
	require := require.New(t)

	m, err := NewMessageData(TV, Playback1, OpSetOsdString, []byte{byte(DisplayDefault), 'h', 'i'})
	require.NoError(err)
	m.SetSequence(42)
	m.SetTxStatus(TxOK)

	clone := m.Clone()
	require.Equal(m.String(), clone.String())
	require.Equal(uint32(42), clone.Sequence())

	// Mutating the clone's parameters must not touch the original.
	clone.Parameters()[1] = 'X'
	require.Equal(byte('h'), m.Parameters()[1])
}

func TestMessage_String(t *testing.T) {
	require := require.New(t)

	require.Equal("Playback2->Audiosystem Standby", NewMessage(Playback2, Audiosystem, OpStandby).String())
	require.Equal("Playback1->TV poll", NewPoll(Playback1, TV).String())

	m, err := NewMessageData(TV, Playback1, OpSetStreamPath, []byte{0x31, 0x00})
	require.NoError(err)
	require.Equal("TV->Playback1 SetStreamPath [31 00]", m.String())
}
