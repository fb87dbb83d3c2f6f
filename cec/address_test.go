package cec

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLogicalAddress_FromNibble(t *testing.T) {
	require := require.New(t)

	// Every 4-bit value is a valid address; high bits are ignored.
	for b := 0; b < 256; b++ {
		a := LogicalAddressFromNibble(byte(b))
		require.Equal(LogicalAddress(b&0x0f), a)
		require.NotEmpty(a.String())
	}

	require.Equal("TV", TV.String())
	require.Equal("Playback2", Playback2.String())
	require.Equal("Unregistered/Broadcast", UnregisteredBroadcast.String())
}

func TestLogAddrMask(t *testing.T) {
	require := require.New(t)

	mask := Playback1.Mask() | Audiosystem.Mask()
	require.True(mask.Has(Playback1))
	require.True(mask.Has(Audiosystem))
	require.False(mask.Has(TV))
	require.False(mask.IsEmpty())
	require.True(mask.HasPlayback())
	require.False(mask.HasRecord())
	require.Equal([]LogicalAddress{Playback1, Audiosystem}, mask.Addresses())
	require.Equal("Playback1|Audiosystem", mask.String())

	require.True(LogAddrMask(0).IsEmpty())
	require.Equal("none", LogAddrMask(0).String())
	require.True(mask.Intersects(Playback1.Mask()))
	require.False(mask.Intersects(TV.Mask()))
}

func TestPhysicalAddress_Parse(t *testing.T) {
	require := require.New(t)

	tests := []struct {
		in      string
		want    PhysicalAddress
		wantErr bool
	}{
		{in: "0.0.0.0", want: PhysAddrRoot},
		{in: "3.3.0.0", want: 0x3300},
		{in: "1.0.0.0", want: 0x1000},
		{in: "f.f.f.f", want: PhysAddrInvalid},
		{in: "1.0.0", wantErr: true},
		{in: "1.0.0.0.0", wantErr: true},
		{in: "1.g.0.0", wantErr: true},
		{in: "10.0.0.0", wantErr: true},
	}

	for _, tt := range tests {
		addr, err := ParsePhysicalAddress(tt.in)
		if tt.wantErr {
			require.Error(err, "input %q", tt.in)
			continue
		}
		require.NoError(err, "input %q", tt.in)
		require.Equal(tt.want, addr)
		require.Equal(tt.in, addr.String())
	}
}

func TestPhysicalAddress_String(t *testing.T) {
	require := require.New(t)

	tests := []struct {
		in   PhysicalAddress
		want string
	}{
		{in: PhysAddrRoot, want: "0.0.0.0"},
		{in: 0x3300, want: "3.3.0.0"},
		{in: 0x12ab, want: "1.2.a.b"},
		{in: PhysAddrInvalid, want: "f.f.f.f"},
	}

	for _, tt := range tests {
		require.Equal(tt.want, tt.in.String())
		// Rendering through fmt verbs must not re-enter the Stringer.
		require.Equal(tt.want, fmt.Sprintf("%s", tt.in))
		require.Equal(tt.want, fmt.Sprintf("%v", tt.in))
	}
}

func TestPhysicalAddress_Bytes(t *testing.T) {
	require := require.New(t)

	addr := PhysicalAddress(0x3300)
	require.Equal([2]byte{0x33, 0x00}, addr.Bytes())
	require.Equal(addr, PhysicalAddressFromBytes(0x33, 0x00))
	require.False(addr.IsInvalid())
	require.True(PhysAddrInvalid.IsInvalid())
}
