// Package device drives a CEC adapter through a Transport: it claims
// addresses, negotiates handle modes, transmits and receives messages,
// and surfaces adapter events.
//
// The entry point is Session, which composes the transport with a
// background dispatcher and an adapter state tracker. On Linux the
// transport is usually an ioctl handle on /dev/cecN obtained with
// OpenDevice; tests substitute a MockTransport.
package device
