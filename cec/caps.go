package cec

import "strings"

// Capabilities is the bitset of features an adapter exposes. It tells a
// session which configuration calls it must make (physical and logical
// addressing) and which modes the handle may enter.
type Capabilities uint32

const (
	// CapPhysAddr means userspace has to configure the physical address.
	CapPhysAddr Capabilities = 1 << 0
	// CapLogAddrs means userspace has to configure the logical addresses.
	CapLogAddrs Capabilities = 1 << 1
	// CapTransmit means this handle can transmit messages.
	CapTransmit Capabilities = 1 << 2
	// CapPassthrough means passthrough follower mode is supported, where
	// core message handling is deferred to the follower.
	CapPassthrough Capabilities = 1 << 3
	// CapRC means remote control keypresses are forwarded to the input
	// subsystem.
	CapRC Capabilities = 1 << 4
	// CapMonitorAll means monitor-all mode is supported, observing
	// traffic between other devices as well.
	CapMonitorAll Capabilities = 1 << 5
	// CapNeedsHPD means the adapter requires a hotplug detect signal
	// before it can operate.
	CapNeedsHPD Capabilities = 1 << 6
	// CapMonitorPin means low-level pin monitoring is supported.
	CapMonitorPin Capabilities = 1 << 7
	// CapConnectorInfo means connector info is reported with state
	// change events.
	CapConnectorInfo Capabilities = 1 << 8
)

// Has reports whether all bits of flag are set.
func (c Capabilities) Has(flag Capabilities) bool { return c&flag == flag }

// String returns the set bits joined by "|", or "none".
func (c Capabilities) String() string {
	if c == 0 {
		return "none"
	}
	names := make([]string, 0, 9)
	for _, f := range [...]struct {
		bit  Capabilities
		name string
	}{
		{CapPhysAddr, "PHYS_ADDR"},
		{CapLogAddrs, "LOG_ADDRS"},
		{CapTransmit, "TRANSMIT"},
		{CapPassthrough, "PASSTHROUGH"},
		{CapRC, "RC"},
		{CapMonitorAll, "MONITOR_ALL"},
		{CapNeedsHPD, "NEEDS_HPD"},
		{CapMonitorPin, "MONITOR_PIN"},
		{CapConnectorInfo, "CONNECTOR_INFO"},
	} {
		if c.Has(f.bit) {
			names = append(names, f.name)
		}
	}
	return strings.Join(names, "|")
}

// Caps identifies an adapter: the driver and device names, how many
// logical addresses it can hold, its capability bits, and the driver
// version.
type Caps struct {
	Driver            string
	Name              string
	AvailableLogAddrs uint32
	Capabilities      Capabilities
	Version           uint32
}
