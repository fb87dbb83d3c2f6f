package device

import (
	"fmt"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/opencec/go-cec/cec"
	"github.com/opencec/go-cec/logger"
)

// Kernel struct mirrors. Field order and widths must match the uAPI
// exactly; the ioctl request numbers encode their sizes.
type rawCaps struct {
	Driver            [32]byte
	Name              [32]byte
	AvailableLogAddrs uint32
	Capabilities      uint32
	Version           uint32
}

type rawLogAddrs struct {
	LogAddr        [4]uint8
	LogAddrMask    uint16
	CecVersion     uint8
	NumLogAddrs    uint8
	VendorID       uint32
	Flags          uint32
	OsdName        [15]byte
	PrimaryDevType [4]uint8
	LogAddrType    [4]uint8
	AllDevTypes    [4]uint8
	Features       [4][12]uint8
	_              uint8
}

type rawMsg struct {
	TxTs          uint64
	RxTs          uint64
	Len           uint32
	Timeout       uint32
	Sequence      uint32
	Flags         uint32
	Msg           [cec.MaxMessageSize]byte
	Reply         uint8
	RxStatus      uint8
	TxStatus      uint8
	TxArbLostCnt  uint8
	TxNackCnt     uint8
	TxLowDriveCnt uint8
	TxErrorCnt    uint8
	_             uint8
}

type rawEvent struct {
	Ts    uint64
	Event uint32
	Flags uint32
	Raw   [16]uint32
}

const iocCecType = 'a'

func ioc(dir, nr, size uintptr) uintptr {
	return dir<<30 | size<<16 | iocCecType<<8 | nr
}

const (
	iocWrite uintptr = 1
	iocRead  uintptr = 2
)

var (
	reqAdapGCaps     = ioc(iocRead|iocWrite, 0, unsafe.Sizeof(rawCaps{}))
	reqAdapGPhysAddr = ioc(iocRead, 1, unsafe.Sizeof(uint16(0)))
	reqAdapSPhysAddr = ioc(iocWrite, 2, unsafe.Sizeof(uint16(0)))
	reqAdapGLogAddrs = ioc(iocRead, 3, unsafe.Sizeof(rawLogAddrs{}))
	reqAdapSLogAddrs = ioc(iocRead|iocWrite, 4, unsafe.Sizeof(rawLogAddrs{}))
	reqTransmit      = ioc(iocRead|iocWrite, 5, unsafe.Sizeof(rawMsg{}))
	reqReceive       = ioc(iocRead|iocWrite, 6, unsafe.Sizeof(rawMsg{}))
	reqDqEvent       = ioc(iocRead|iocWrite, 7, unsafe.Sizeof(rawEvent{}))
	reqGMode         = ioc(iocRead, 8, unsafe.Sizeof(uint32(0)))
	reqSMode         = ioc(iocWrite, 9, unsafe.Sizeof(uint32(0)))
)

// Device is the ioctl-backed Transport for a /dev/cecN adapter handle.
// The kernel serializes each ioctl, so one Device may be shared by
// concurrent callers.
type Device struct {
	fd          int
	path        string
	nonBlocking bool
	logger      logger.Logger
}

var _ Transport = (*Device)(nil)

// OpenDevice opens a CEC adapter node, conventionally /dev/cecN, for
// read and write. With nonBlocking set, receive, event dequeue, and
// address claim calls return ErrWouldBlock instead of waiting.
func OpenDevice(path string, nonBlocking bool) (*Device, error) {
	flags := unix.O_RDWR | unix.O_CLOEXEC
	if nonBlocking {
		flags |= unix.O_NONBLOCK
	}

	fd, err := unix.Open(path, flags, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	return &Device{
		fd:          fd,
		path:        path,
		nonBlocking: nonBlocking,
		logger:      logger.GetLogger().With("device", path),
	}, nil
}

// Path returns the device node path this handle was opened from.
func (d *Device) Path() string { return d.path }

// NonBlocking reports whether the handle was opened non-blocking.
func (d *Device) NonBlocking() bool { return d.nonBlocking }

func (d *Device) ioctl(req uintptr, arg unsafe.Pointer, op string) error {
	for {
		_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(d.fd), req, uintptr(arg))
		if errno == 0 {
			return nil
		}
		if errno == unix.EINTR {
			continue
		}
		return fmt.Errorf("%s: %w", op, mapErrno(errno))
	}
}

// mapErrno translates the driver's errno vocabulary into the package
// sentinels the session layer interprets.
func mapErrno(errno unix.Errno) error {
	switch errno {
	case unix.ENOTTY:
		return ErrUnsupported
	case unix.EBUSY:
		return ErrBusy
	case unix.EAGAIN:
		return ErrWouldBlock
	case unix.ETIMEDOUT:
		return ErrTimeout
	default:
		return errno
	}
}

func (d *Device) Caps() (cec.Caps, error) {
	var raw rawCaps
	if err := d.ioctl(reqAdapGCaps, unsafe.Pointer(&raw), "query caps"); err != nil {
		return cec.Caps{}, err
	}

	return cec.Caps{
		Driver:            cString(raw.Driver[:]),
		Name:              cString(raw.Name[:]),
		AvailableLogAddrs: raw.AvailableLogAddrs,
		Capabilities:      cec.Capabilities(raw.Capabilities),
		Version:           raw.Version,
	}, nil
}

func (d *Device) Mode() (cec.Mode, error) {
	var raw uint32
	if err := d.ioctl(reqGMode, unsafe.Pointer(&raw), "get mode"); err != nil {
		return cec.Mode{}, err
	}
	return cec.ModeFromRaw(raw), nil
}

func (d *Device) SetMode(mode cec.Mode) error {
	raw := mode.Raw()
	return d.ioctl(reqSMode, unsafe.Pointer(&raw), "set mode")
}

func (d *Device) PhysAddr() (cec.PhysicalAddress, error) {
	var raw uint16
	if err := d.ioctl(reqAdapGPhysAddr, unsafe.Pointer(&raw), "get phys addr"); err != nil {
		return cec.PhysAddrInvalid, err
	}
	return cec.PhysicalAddress(raw), nil
}

func (d *Device) SetPhysAddr(addr cec.PhysicalAddress) error {
	raw := uint16(addr)
	return d.ioctl(reqAdapSPhysAddr, unsafe.Pointer(&raw), "set phys addr")
}

func (d *Device) LogAddrs() (cec.LogAddrs, error) {
	var raw rawLogAddrs
	if err := d.ioctl(reqAdapGLogAddrs, unsafe.Pointer(&raw), "get log addrs"); err != nil {
		return cec.LogAddrs{}, err
	}
	return logAddrsFromRaw(&raw), nil
}

func (d *Device) SetLogAddrs(req *cec.LogAddrsRequest) (cec.LogAddrs, error) {
	if err := req.Validate(); err != nil {
		return cec.LogAddrs{}, err
	}

	var raw rawLogAddrs
	raw.CecVersion = uint8(req.Version)
	raw.VendorID = req.VendorID
	raw.Flags = uint32(req.Flags)
	copy(raw.OsdName[:], req.OSDName)
	raw.NumLogAddrs = uint8(len(req.Claims))
	for i, claim := range req.Claims {
		raw.PrimaryDevType[i] = uint8(claim.PrimaryType)
		raw.LogAddrType[i] = uint8(claim.Type)
	}

	if err := d.ioctl(reqAdapSLogAddrs, unsafe.Pointer(&raw), "set log addrs"); err != nil {
		return cec.LogAddrs{}, err
	}

	return logAddrsFromRaw(&raw), nil
}

func (d *Device) Transmit(msg *cec.Message) error {
	payload, err := msg.Encode()
	if err != nil {
		return err
	}

	var raw rawMsg
	raw.Len = uint32(len(payload))
	copy(raw.Msg[:], payload)
	wantsReply := false
	if reply, ok := msg.Reply(); ok {
		raw.Reply = uint8(reply)
		raw.Timeout = uint32(msg.Timeout() / time.Millisecond)
		wantsReply = true
	}

	if err := d.ioctl(reqTransmit, unsafe.Pointer(&raw), "transmit"); err != nil {
		return err
	}

	// The driver rewrites the struct in place: on a blocking handle the
	// payload now holds the reply, on a non-blocking one just the
	// assigned sequence number. The reply field is written back too; the
	// driver zeroes it unless the awaited reply arrived, in which case
	// the payload is that reply.
	resolved := cec.DecodeMessage(raw.Msg[:clampLen(raw.Len)])
	*msg = *resolved
	if wantsReply {
		msg.SetReply(cec.Opcode(raw.Reply))
	}
	msg.SetSequence(raw.Sequence)
	msg.SetTxStatus(cec.TxStatus(raw.TxStatus))
	msg.SetRxStatus(cec.RxStatus(raw.RxStatus))
	msg.SetCounters(cec.TxCounters{
		ArbLost:  raw.TxArbLostCnt,
		Nack:     raw.TxNackCnt,
		LowDrive: raw.TxLowDriveCnt,
		Error:    raw.TxErrorCnt,
	})

	return nil
}

func (d *Device) Receive(timeout time.Duration) (*cec.Message, error) {
	var raw rawMsg
	raw.Timeout = uint32(timeout / time.Millisecond)

	if err := d.ioctl(reqReceive, unsafe.Pointer(&raw), "receive"); err != nil {
		return nil, err
	}

	msg := cec.DecodeMessage(raw.Msg[:clampLen(raw.Len)])
	msg.SetSequence(raw.Sequence)
	// A non-zero sequence marks the queued result of an earlier
	// non-blocking transmit; it carries the written-back reply field the
	// same way a blocking transmit does.
	if raw.Sequence != 0 {
		msg.SetReply(cec.Opcode(raw.Reply))
	}
	msg.SetTxStatus(cec.TxStatus(raw.TxStatus))
	msg.SetRxStatus(cec.RxStatus(raw.RxStatus))
	msg.SetCounters(cec.TxCounters{
		ArbLost:  raw.TxArbLostCnt,
		Nack:     raw.TxNackCnt,
		LowDrive: raw.TxLowDriveCnt,
		Error:    raw.TxErrorCnt,
	})

	return msg, nil
}

func (d *Device) DequeueEvent() (cec.Event, error) {
	var raw rawEvent
	if err := d.ioctl(reqDqEvent, unsafe.Pointer(&raw), "dequeue event"); err != nil {
		return cec.Event{}, err
	}

	ev := cec.Event{
		Timestamp: time.Duration(raw.Ts),
		Type:      cec.EventType(raw.Event),
		Flags:     cec.EventFlags(raw.Flags),
	}
	switch ev.Type {
	case cec.EventStateChange:
		ev.StateChange = cec.StateChange{
			PhysAddr:    cec.PhysicalAddress(raw.Raw[0] & 0xffff),
			LogAddrMask: cec.LogAddrMask(raw.Raw[0] >> 16),
		}
	case cec.EventLostMsgs:
		ev.LostMsgs = cec.LostMsgs{Count: raw.Raw[0]}
	}

	return ev, nil
}

func (d *Device) Close() error {
	if d.fd < 0 {
		return ErrClosed
	}
	err := unix.Close(d.fd)
	d.fd = -1
	if err != nil {
		return fmt.Errorf("close %s: %w", d.path, err)
	}
	return nil
}

func logAddrsFromRaw(raw *rawLogAddrs) cec.LogAddrs {
	result := cec.LogAddrs{
		Version:  cec.Version(raw.CecVersion),
		VendorID: raw.VendorID,
		OSDName:  cString(raw.OsdName[:]),
		Flags:    cec.LogAddrsFlags(raw.Flags),
		Mask:     cec.LogAddrMask(raw.LogAddrMask),
	}
	n := int(raw.NumLogAddrs)
	if n > cec.MaxLogAddrs {
		n = cec.MaxLogAddrs
	}
	for i := 0; i < n; i++ {
		result.Addresses = append(result.Addresses, cec.LogicalAddressFromNibble(raw.LogAddr[i]))
	}
	return result
}

func clampLen(n uint32) uint32 {
	if n > cec.MaxMessageSize {
		return cec.MaxMessageSize
	}
	return n
}

func cString(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}
