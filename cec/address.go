package cec

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// LogicalAddress is the 4-bit role identifier of a device on the CEC bus.
//
// The address space is exhaustive: every value in [0, 15] is a valid
// address, so decoding a raw nibble can never fail. Address 15 doubles as
// the unregistered initiator address and the broadcast destination.
type LogicalAddress uint8

// The logical addresses defined by CEC 2.0.
//
// Switches should claim Unregistered, processors should claim Specific.
const (
	TV          LogicalAddress = 0
	Record1     LogicalAddress = 1
	Record2     LogicalAddress = 2
	Tuner1      LogicalAddress = 3
	Playback1   LogicalAddress = 4
	Audiosystem LogicalAddress = 5
	Tuner2      LogicalAddress = 6
	Tuner3      LogicalAddress = 7
	Playback2   LogicalAddress = 8
	Record3     LogicalAddress = 9
	Tuner4      LogicalAddress = 10
	Playback3   LogicalAddress = 11
	Backup1     LogicalAddress = 12
	Backup2     LogicalAddress = 13
	Specific    LogicalAddress = 14

	// UnregisteredBroadcast is the unregistered initiator address and,
	// as a destination, the broadcast address.
	UnregisteredBroadcast LogicalAddress = 15
)

var logicalAddressNames = [16]string{
	"TV", "Record1", "Record2", "Tuner1", "Playback1", "Audiosystem",
	"Tuner2", "Tuner3", "Playback2", "Record3", "Tuner4", "Playback3",
	"Backup1", "Backup2", "Specific", "Unregistered/Broadcast",
}

// LogicalAddressFromNibble decodes the low 4 bits of b into a
// LogicalAddress. It is total; the high bits are ignored.
func LogicalAddressFromNibble(b byte) LogicalAddress {
	return LogicalAddress(b & 0x0f)
}

// String returns the role name of the logical address.
func (a LogicalAddress) String() string {
	return logicalAddressNames[a&0x0f]
}

// Mask returns the claimed-address bitmask bit for this address.
func (a LogicalAddress) Mask() LogAddrMask {
	return 1 << (a & 0x0f)
}

// LogAddrMask is the bitmask of logical addresses an adapter has claimed.
// Bit n corresponds to LogicalAddress n. A mask of zero means the adapter
// is not configured.
type LogAddrMask uint16

// Has reports whether the mask contains the given logical address.
func (m LogAddrMask) Has(a LogicalAddress) bool {
	return m&a.Mask() != 0
}

// IsEmpty reports whether no logical address is claimed.
func (m LogAddrMask) IsEmpty() bool { return m == 0 }

// Intersects reports whether the two masks share at least one address.
func (m LogAddrMask) Intersects(other LogAddrMask) bool {
	return m&other != 0
}

// HasPlayback reports whether any playback address is claimed.
func (m LogAddrMask) HasPlayback() bool {
	return m.Intersects(Playback1.Mask() | Playback2.Mask() | Playback3.Mask())
}

// HasRecord reports whether any recording device address is claimed.
func (m LogAddrMask) HasRecord() bool {
	return m.Intersects(Record1.Mask() | Record2.Mask() | Record3.Mask())
}

// HasTuner reports whether any tuner address is claimed.
func (m LogAddrMask) HasTuner() bool {
	return m.Intersects(Tuner1.Mask() | Tuner2.Mask() | Tuner3.Mask() | Tuner4.Mask())
}

// HasBackup reports whether any backup address is claimed.
func (m LogAddrMask) HasBackup() bool {
	return m.Intersects(Backup1.Mask() | Backup2.Mask())
}

// Addresses expands the mask into the list of claimed logical addresses,
// in ascending address order.
func (m LogAddrMask) Addresses() []LogicalAddress {
	addrs := make([]LogicalAddress, 0, 4)
	for a := LogicalAddress(0); a <= UnregisteredBroadcast; a++ {
		if m.Has(a) {
			addrs = append(addrs, a)
		}
	}
	return addrs
}

// String returns the claimed role names joined by "|", or "none".
func (m LogAddrMask) String() string {
	if m == 0 {
		return "none"
	}
	names := make([]string, 0, 4)
	for _, a := range m.Addresses() {
		names = append(names, a.String())
	}
	return strings.Join(names, "|")
}

// PhysicalAddress is the 16-bit HDMI topology position of a device, four
// 4-bit digits a.b.c.d with 'a' in the most significant nibble. The CEC
// root device (usually the TV) sits at 0.0.0.0; a device plugged into TV
// input 'a' sits at a.0.0.0, and so on, up to five levels deep. The
// address a source shall use is read from the sink's EDID.
type PhysicalAddress uint16

const (
	// PhysAddrRoot is the address of the CEC root device (the TV).
	PhysAddrRoot PhysicalAddress = 0x0000

	// PhysAddrInvalid means no sink is connected. Setting it clears the
	// adapter's physical address and returns it to the unconfigured
	// state.
	PhysAddrInvalid PhysicalAddress = 0xffff
)

// PhysicalAddressFromBytes decodes a big-endian 2-byte operand, as carried
// by routing and address-report messages.
func PhysicalAddressFromBytes(hi, lo byte) PhysicalAddress {
	return PhysicalAddress(uint16(hi)<<8 | uint16(lo))
}

// ParsePhysicalAddress parses the dotted "a.b.c.d" notation. Each digit
// must be a hex nibble.
func ParsePhysicalAddress(s string) (PhysicalAddress, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 4 {
		return PhysAddrInvalid, errors.New("physical address must have four dot-separated digits")
	}

	var addr PhysicalAddress
	for _, part := range parts {
		digit, err := strconv.ParseUint(part, 16, 8)
		if err != nil || digit > 0xf {
			return PhysAddrInvalid, fmt.Errorf("invalid physical address digit %q", part)
		}
		addr = addr<<4 | PhysicalAddress(digit)
	}

	return addr, nil
}

// IsInvalid reports whether the address is the unassigned marker.
func (p PhysicalAddress) IsInvalid() bool { return p == PhysAddrInvalid }

// Bytes returns the big-endian 2-byte operand form of the address.
func (p PhysicalAddress) Bytes() [2]byte {
	return [2]byte{byte(p >> 8), byte(p)}
}

// String returns the dotted "a.b.c.d" notation, e.g. 0x3300 -> "3.3.0.0".
func (p PhysicalAddress) String() string {
	// Format the raw word, not p itself, which would re-enter String.
	v := uint16(p)
	return fmt.Sprintf("%x.%x.%x.%x", v>>12&0xf, v>>8&0xf, v>>4&0xf, v&0xf)
}
