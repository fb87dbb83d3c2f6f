// Package cec implements the message layer of the HDMI-CEC protocol as
// exposed by the Linux kernel CEC framework.
//
// It provides the typed vocabulary of the bus: logical and physical
// addresses, the opcode and operand tables, transmit/receive status bit
// sets, adapter capabilities, handle modes, logical address claims and
// adapter events, together with the bit-exact codec between typed
// messages and the fixed 16-byte wire payload.
//
// The package contains no I/O. Talking to an adapter is the job of the
// device package, which moves Message values over a Transport.
//
// Decoding is total by design: every 4-bit value is a valid logical
// address, and an opcode byte outside the registry decodes to an
// unrecognized-but-usable Opcode instead of failing the message. This
// keeps monitoring and passthrough logic working across protocol
// revisions and vendor extensions.
package cec
