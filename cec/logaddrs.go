package cec

import "fmt"

// MaxLogAddrs is the number of logical addresses one adapter can claim.
const MaxLogAddrs = 4

// LogAddrsFlags tune how the adapter claims logical addresses.
type LogAddrsFlags uint32

const (
	// LogAddrsAllowUnregFallback falls back to the unregistered address
	// when all requested addresses are taken.
	LogAddrsAllowUnregFallback LogAddrsFlags = 1 << 0
	// LogAddrsAllowRCPassthru passes remote control messages to the
	// input subsystem.
	LogAddrsAllowRCPassthru LogAddrsFlags = 1 << 1
	// LogAddrsCDCOnly marks the device as CDC-only, a CDC endpoint that
	// never claims a regular logical address.
	LogAddrsCDCOnly LogAddrsFlags = 1 << 2
)

// AddressClaim is one requested (primary device type, logical address
// type) pair.
type AddressClaim struct {
	PrimaryType PrimDevType
	Type        LogAddrType
}

// LogAddrsRequest is the caller's desired logical identity: protocol
// version, vendor id, OSD name, and up to MaxLogAddrs claims. An empty
// Claims slice clears all claims on submission and returns the adapter
// to the unconfigured state.
type LogAddrsRequest struct {
	Version  Version
	VendorID uint32
	OSDName  string
	Flags    LogAddrsFlags
	Claims   []AddressClaim
}

// Validate checks the request before submission. A clearing request
// (zero claims) is always valid and skips the OSD name check.
func (r *LogAddrsRequest) Validate() error {
	if len(r.Claims) == 0 {
		return nil
	}
	if len(r.Claims) > MaxLogAddrs {
		return fmt.Errorf("%w: got %d", ErrTooManyClaims, len(r.Claims))
	}
	if len(r.OSDName) == 0 || len(r.OSDName) > 15 {
		return ErrOSDNameInvalid
	}
	for i := 0; i < len(r.OSDName); i++ {
		if r.OSDName[i] < 0x20 || r.OSDName[i] > 0x7e {
			return ErrOSDNameInvalid
		}
	}
	return nil
}

// LogAddrs is the driver-confirmed result of a logical address request:
// the claimed addresses in request order and the claimed-address
// bitmask. The driver may claim fewer addresses than requested; an
// unclaimed slot holds UnregisteredBroadcast.
type LogAddrs struct {
	Version   Version
	VendorID  uint32
	OSDName   string
	Flags     LogAddrsFlags
	Addresses []LogicalAddress
	Mask      LogAddrMask
}

// IsConfigured reports whether any logical address is claimed.
func (l *LogAddrs) IsConfigured() bool { return !l.Mask.IsEmpty() }

func (l *LogAddrs) String() string {
	if !l.IsConfigured() {
		return "unconfigured"
	}
	return fmt.Sprintf("%q %s mask=%s", l.OSDName, l.Addresses, l.Mask)
}
