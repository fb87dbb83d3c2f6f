package cec

import "strings"

// TxStatus is the set of transmit status bits the driver fills in after a
// transmit attempt. The bits are informative, not exclusive: a transmit
// may report Nack and MaxRetries together.
type TxStatus uint8

const (
	// TxOK means the message was transmitted successfully.
	TxOK TxStatus = 1 << 0
	// TxArbLost means CEC line arbitration was lost.
	TxArbLost TxStatus = 1 << 1
	// TxNack means the message was not acknowledged.
	TxNack TxStatus = 1 << 2
	// TxLowDrive means low drive was detected on the CEC line, typically
	// indicating that some other device saw a transmission error.
	TxLowDrive TxStatus = 1 << 3
	// TxError means some error occurred not covered by the other bits.
	TxError TxStatus = 1 << 4
	// TxMaxRetries means the transmit failed after its maximum number of
	// retries.
	TxMaxRetries TxStatus = 1 << 5
)

// Has reports whether all bits of flag are set.
func (s TxStatus) Has(flag TxStatus) bool { return s&flag == flag }

// IsEmpty reports whether no status bit is set, i.e. the driver has not
// resolved the transmit yet.
func (s TxStatus) IsEmpty() bool { return s == 0 }

// String returns the set bits joined by "|", or "none".
func (s TxStatus) String() string {
	if s == 0 {
		return "none"
	}
	names := make([]string, 0, 6)
	for _, f := range [...]struct {
		bit  TxStatus
		name string
	}{
		{TxOK, "OK"},
		{TxArbLost, "ARB_LOST"},
		{TxNack, "NACK"},
		{TxLowDrive, "LOW_DRIVE"},
		{TxError, "ERROR"},
		{TxMaxRetries, "MAX_RETRIES"},
	} {
		if s.Has(f.bit) {
			names = append(names, f.name)
		}
	}
	return strings.Join(names, "|")
}

// RxStatus is the set of receive status bits the driver fills in for a
// received message or an awaited reply.
type RxStatus uint8

const (
	// RxOK means the message was received successfully.
	RxOK RxStatus = 1 << 0
	// RxTimeout means the reply to an earlier transmit timed out.
	RxTimeout RxStatus = 1 << 1
	// RxFeatureAbort means the reply to an earlier transmit was a
	// feature abort. The abort is delivered with RxOK also set; it is
	// still a semantic failure at the application layer.
	RxFeatureAbort RxStatus = 1 << 2
)

// Has reports whether all bits of flag are set.
func (s RxStatus) Has(flag RxStatus) bool { return s&flag == flag }

// IsEmpty reports whether no status bit is set.
func (s RxStatus) IsEmpty() bool { return s == 0 }

// String returns the set bits joined by "|", or "none".
func (s RxStatus) String() string {
	if s == 0 {
		return "none"
	}
	names := make([]string, 0, 3)
	if s.Has(RxOK) {
		names = append(names, "OK")
	}
	if s.Has(RxTimeout) {
		names = append(names, "TIMEOUT")
	}
	if s.Has(RxFeatureAbort) {
		names = append(names, "FEATURE_ABORT")
	}
	return strings.Join(names, "|")
}
