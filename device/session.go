package device

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/opencec/go-cec/cec"
	"github.com/opencec/go-cec/logger"
)

// Session composes a Transport with a background dispatcher and an
// adapter state tracker behind one handle. It validates operations
// against the adapter's capability set and claimed addresses before
// handing them to the transport.
//
// A Session may be used by multiple concurrent callers; the transport is
// the serialization point.
type Session struct {
	cfg       *SessionConfig
	transport Transport
	logger    logger.Logger
	states    *StateTracker
	disp      *dispatcher

	capsMu    sync.Mutex
	caps      cec.Caps
	capsValid bool

	closed atomic.Bool
}

// NewSession wraps the transport in a session. The adapter's current
// physical address and claimed logical addresses are read once to seed
// the state tracker; afterwards the tracker follows the transport's
// state change events.
func NewSession(transport Transport, opts ...SessionOption) (*Session, error) {
	cfg, err := NewSessionConfig(opts...)
	if err != nil {
		return nil, err
	}

	s := &Session{
		cfg:       cfg,
		transport: transport,
		logger:    cfg.logger,
		states:    NewStateTracker(cfg.logger, cfg.stateHandlers...),
	}

	if err := s.seedState(); err != nil {
		return nil, err
	}

	if cfg.dispatch {
		s.disp = newDispatcher(transport, cfg, s.states)
		s.disp.start()
	}

	return s, nil
}

func (s *Session) seedState() error {
	phys, err := s.transport.PhysAddr()
	if err != nil {
		return fmt.Errorf("seed adapter state: %w", err)
	}

	change := cec.StateChange{PhysAddr: phys}
	if addrs, err := s.transport.LogAddrs(); err == nil {
		change.LogAddrMask = addrs.Mask
	}
	s.states.Observe(change)

	return nil
}

// State returns the adapter's current configuration state.
func (s *Session) State() AdapterState { return s.states.State() }

// WaitState blocks until the adapter reaches the given state or ctx is
// done.
func (s *Session) WaitState(ctx context.Context, state AdapterState) error {
	return s.states.WaitState(ctx, state)
}

// AddMessageHandler registers handlers invoked for every inbound message
// that is not a transmit result. It returns ErrUnsupported when the
// session runs without a dispatcher.
func (s *Session) AddMessageHandler(handlers ...MessageHandler) error {
	if s.disp == nil {
		return fmt.Errorf("message handlers need the dispatcher: %w", ErrUnsupported)
	}
	s.disp.addHandler(handlers...)
	return nil
}

// AddStateHandler registers handlers invoked on adapter state
// transitions.
func (s *Session) AddStateHandler(handlers ...StateChangeHandler) {
	s.states.AddHandler(handlers...)
}

// Caps returns the adapter's capabilities, querying the transport on
// first use and serving a cached snapshot afterwards.
func (s *Session) Caps() (cec.Caps, error) {
	s.capsMu.Lock()
	defer s.capsMu.Unlock()

	if s.capsValid {
		return s.caps, nil
	}

	caps, err := s.transport.Caps()
	if err != nil {
		return cec.Caps{}, err
	}
	s.caps = caps
	s.capsValid = true

	return caps, nil
}

// Mode returns the handle's current initiator/follower pair.
func (s *Session) Mode() (cec.Mode, error) {
	if s.closed.Load() {
		return cec.Mode{}, ErrClosed
	}
	return s.transport.Mode()
}

// SetMode reassigns the handle's negotiation role after validating the
// pair against the adapter's capabilities.
func (s *Session) SetMode(initiator cec.InitiatorMode, follower cec.FollowerMode) error {
	if s.closed.Load() {
		return ErrClosed
	}

	mode := cec.Mode{Initiator: initiator, Follower: follower}
	caps, err := s.Caps()
	if err != nil {
		return err
	}
	if err := mode.Validate(caps.Capabilities); err != nil {
		return err
	}

	if err := s.transport.SetMode(mode); err != nil {
		return fmt.Errorf("set mode %s: %w", mode, err)
	}

	s.logger.Debug("mode changed", "mode", mode)

	return nil
}

// PhysAddr returns the adapter's physical address.
func (s *Session) PhysAddr() (cec.PhysicalAddress, error) {
	if s.closed.Load() {
		return cec.PhysAddrInvalid, ErrClosed
	}
	return s.transport.PhysAddr()
}

// SetPhysAddr configures the adapter's physical address, normally the
// value read from the sink's EDID. PhysAddrInvalid clears the address
// and returns the adapter to the unconfigured state.
//
// On a blocking handle the call waits until any already-requested
// logical addresses are reclaimed against the new address; on a
// non-blocking handle it returns immediately and completion is
// observable via the event stream.
func (s *Session) SetPhysAddr(addr cec.PhysicalAddress) error {
	if s.closed.Load() {
		return ErrClosed
	}

	if err := s.requireCap(cec.CapPhysAddr); err != nil {
		return err
	}
	if err := s.requireInitiator(); err != nil {
		return err
	}

	if err := s.transport.SetPhysAddr(addr); err != nil {
		return fmt.Errorf("set phys addr %s: %w", addr, err)
	}

	// Without a dispatcher no event feed updates the tracker, so fold
	// the transition in directly.
	if s.disp == nil {
		s.observeCurrent()
	}

	return nil
}

// LogAddrs returns the adapter's currently claimed logical addresses.
func (s *Session) LogAddrs() (cec.LogAddrs, error) {
	if s.closed.Load() {
		return cec.LogAddrs{}, ErrClosed
	}
	return s.transport.LogAddrs()
}

// SetLogAddrs submits a logical address request. A request with zero
// claims clears all claims; otherwise the physical address must already
// be set, and the call fails with ErrBusy if address types are already
// defined on the adapter. The returned result holds the actually claimed
// subset, which may be smaller than requested.
func (s *Session) SetLogAddrs(req *cec.LogAddrsRequest) (cec.LogAddrs, error) {
	if s.closed.Load() {
		return cec.LogAddrs{}, ErrClosed
	}

	if err := s.requireCap(cec.CapLogAddrs); err != nil {
		return cec.LogAddrs{}, err
	}
	if err := s.requireInitiator(); err != nil {
		return cec.LogAddrs{}, err
	}
	if err := req.Validate(); err != nil {
		return cec.LogAddrs{}, err
	}

	clearing := len(req.Claims) == 0
	if !clearing && s.states.State().IsUnconfigured() {
		return cec.LogAddrs{}, fmt.Errorf("claim without physical address: %w", ErrInvalidTransition)
	}

	result, err := s.transport.SetLogAddrs(req)
	if err != nil {
		return cec.LogAddrs{}, fmt.Errorf("set log addrs: %w", err)
	}

	if s.disp == nil {
		s.observeCurrent()
	}

	s.logger.Info("logical addresses updated", "result", result.String())

	return result, nil
}

// ClaimedMask returns the last observed claimed-address bitmask.
func (s *Session) ClaimedMask() cec.LogAddrMask { return s.states.Mask() }

// Transmit sends a message with no parameters.
func (s *Session) Transmit(from, to cec.LogicalAddress, opcode cec.Opcode) error {
	return s.TransmitMessage(cec.NewMessage(from, to, opcode))
}

// TransmitData sends a message with parameter bytes. The format of data
// depends on the opcode.
func (s *Session) TransmitData(from, to cec.LogicalAddress, opcode cec.Opcode, data []byte) error {
	msg, err := cec.NewMessageData(from, to, opcode, data)
	if err != nil {
		return err
	}
	return s.TransmitMessage(msg)
}

// TransmitMessage submits the message and resolves its outcome from the
// status bits the transport fills in. Transmitting from an address
// outside the adapter's claimed mask fails with ErrNotClaimed before the
// message reaches the bus; the unregistered address is always allowed.
func (s *Session) TransmitMessage(msg *cec.Message) error {
	if s.closed.Load() {
		return ErrClosed
	}

	if err := s.validateInitiator(msg.Initiator()); err != nil {
		return err
	}

	if err := s.transport.Transmit(msg); err != nil {
		return err
	}

	// A queued non-blocking transmit has no status yet; its result
	// arrives later with the assigned sequence number.
	if msg.TxStatus().IsEmpty() && msg.RxStatus().IsEmpty() && msg.Sequence() != 0 {
		return nil
	}

	if !msg.IsSuccessful() {
		return fmt.Errorf("%w: tx=%s rx=%s", ErrTransmitFailed, msg.TxStatus(), msg.RxStatus())
	}

	return nil
}

// Request sends a message and waits for a reply with the given opcode,
// returning the reply's parameter bytes. Pass cec.OpFeatureAbort as
// waitFor to wait for a possible abort reply.
//
// The reply window is capped at 1 second regardless of the configured
// timeout. A peer that declines the request surfaces as a
// *cec.FeatureAbortError; an unanswered request surfaces as ErrTimeout.
func (s *Session) Request(from, to cec.LogicalAddress, opcode cec.Opcode, data []byte, waitFor cec.Opcode) ([]byte, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}

	msg, err := cec.NewMessageData(from, to, opcode, data)
	if err != nil {
		return nil, err
	}
	if err := s.validateInitiator(from); err != nil {
		return nil, err
	}

	timeout := s.cfg.replyTimeout
	if timeout > maxReplyTimeout {
		timeout = maxReplyTimeout
	}
	msg.WaitForReply(waitFor, timeout)

	if err := s.transport.Transmit(msg); err != nil {
		return nil, err
	}

	// On a non-blocking handle the transmit only queued; correlate the
	// result by sequence number through the dispatcher.
	if msg.TxStatus().IsEmpty() && msg.RxStatus().IsEmpty() && msg.Sequence() != 0 {
		if s.disp == nil {
			return nil, fmt.Errorf("non-blocking request needs the dispatcher: %w", ErrUnsupported)
		}
		ch := s.disp.registerReply(msg.Sequence())
		resolved, err := s.disp.awaitReply(msg.Sequence(), ch, timeout+100*time.Millisecond)
		if err != nil {
			return nil, err
		}
		msg = resolved
	}

	return resolveReply(msg)
}

// resolveReply turns a resolved request message into the caller-facing
// outcome. The driver writes the reply opcode back into the message:
// non-zero means the awaited reply arrived and the payload holds it,
// zero means the transmit failed, drew a feature abort, or saw no reply
// at all, with the payload left as the transmitted message (or the abort
// message when RxFeatureAbort is set). OpFeatureAbort is itself 0x00, so
// a zeroed field reads back as FeatureAbort and the rules key on that.
// The precedence distinguishes "nobody replied" from "somebody replied
// with a decline".
func resolveReply(msg *cec.Message) ([]byte, error) {
	reply, _ := msg.Reply()

	switch {
	case reply == cec.OpFeatureAbort && !msg.TxStatus().Has(cec.TxOK):
		// The request itself never made it onto the bus.
		return nil, fmt.Errorf("request not acknowledged: %w", ErrTimeout)

	case reply == cec.OpFeatureAbort && msg.RxStatus().Has(cec.RxFeatureAbort):
		// The payload holds the feature abort message.
		abortErr := &cec.FeatureAbortError{}
		params := msg.Parameters()
		if len(params) >= 1 {
			abortErr.Opcode = cec.Opcode(params[0])
		}
		if len(params) >= 2 {
			abortErr.Reason = cec.AbortReason(params[1])
		}
		return nil, abortErr

	case reply != cec.OpFeatureAbort:
		return msg.Parameters(), nil

	default:
		return nil, fmt.Errorf("no reply: %w", ErrTimeout)
	}
}

// Receive dequeues the next inbound message directly from the transport,
// waiting up to timeout. It is the poll-style counterpart to message
// handlers and is only available without the dispatcher, which otherwise
// owns the receive queue.
func (s *Session) Receive(timeout time.Duration) (*cec.Message, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}
	if s.disp != nil {
		return nil, fmt.Errorf("dispatcher owns the receive queue: %w", ErrUnsupported)
	}
	return s.transport.Receive(timeout)
}

// NextEvent returns the next pending adapter event, blocking until one
// arrives or ctx is done. StateChange and LostMsgs events queue
// independently; callers drain both by calling repeatedly.
func (s *Session) NextEvent(ctx context.Context) (cec.Event, error) {
	if s.closed.Load() {
		return cec.Event{}, ErrClosed
	}
	if s.disp != nil {
		return s.disp.nextEvent(ctx)
	}
	return s.transport.DequeueEvent()
}

// PollEvent is the non-blocking shape of NextEvent; it returns
// ErrWouldBlock when no event is pending.
func (s *Session) PollEvent() (cec.Event, error) {
	if s.closed.Load() {
		return cec.Event{}, ErrClosed
	}
	if s.disp != nil {
		return s.disp.pollEvent()
	}
	return s.transport.DequeueEvent()
}

// GetPowerStatus asks the target for its power status.
func (s *Session) GetPowerStatus(from, to cec.LogicalAddress) (cec.PowerStatus, error) {
	params, err := s.Request(from, to, cec.OpGiveDevicePowerStatus, nil, cec.OpReportPowerStatus)
	if err != nil {
		return cec.PowerOn, err
	}
	if len(params) < 1 {
		return cec.PowerOn, fmt.Errorf("empty power status reply: %w", ErrTimeout)
	}
	return cec.PowerStatus(params[0]), nil
}

// TurnOn wakes the target device. The root/TV role is woken with an
// image view on command; any other target gets a power keypress. The
// keypress mapping is a convention most devices honor, not a protocol
// guarantee.
func (s *Session) TurnOn(from, to cec.LogicalAddress) error {
	if to == cec.TV {
		return s.Transmit(from, to, cec.OpImageViewOn)
	}
	return s.Keypress(from, to, cec.KeyPower)
}

// Standby puts the target device, or with the broadcast destination the
// whole bus, into standby.
func (s *Session) Standby(from, to cec.LogicalAddress) error {
	return s.Transmit(from, to, cec.OpStandby)
}

// Keypress sends a button press to a remote device as a press-then-
// release pair.
func (s *Session) Keypress(from, to cec.LogicalAddress, key cec.UserControlCode) error {
	if err := s.TransmitData(from, to, cec.OpUserControlPressed, []byte{byte(key)}); err != nil {
		return err
	}
	return s.Transmit(from, to, cec.OpUserControlReleased)
}

// Close stops the dispatcher and releases the transport handle. Further
// calls on the session fail with ErrClosed.
func (s *Session) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}

	// Close the transport first so dispatcher goroutines blocked in
	// receive or event dequeue get released before the join.
	err := s.transport.Close()
	if s.disp != nil {
		s.disp.stop()
	}

	return err
}

func (s *Session) requireCap(c cec.Capabilities) error {
	caps, err := s.Caps()
	if err != nil {
		return err
	}
	if !caps.Capabilities.Has(c) {
		return fmt.Errorf("adapter lacks %s: %w", c, ErrUnsupported)
	}
	return nil
}

func (s *Session) requireInitiator() error {
	mode, err := s.transport.Mode()
	if err != nil {
		return err
	}
	if mode.Initiator == cec.InitiatorNone {
		return fmt.Errorf("handle has no initiator role: %w", ErrUnsupported)
	}
	return nil
}

// validateInitiator rejects transmits from addresses the adapter has not
// claimed. This is an input validation failure, not a bus failure.
func (s *Session) validateInitiator(from cec.LogicalAddress) error {
	if from == cec.UnregisteredBroadcast {
		return nil
	}
	if !s.states.Mask().Has(from) {
		return fmt.Errorf("%w: %s not in claimed mask %s", ErrNotClaimed, from, s.states.Mask())
	}
	return nil
}

// observeCurrent refreshes the state tracker from the transport, used
// when no dispatcher feeds it events.
func (s *Session) observeCurrent() {
	change := cec.StateChange{PhysAddr: cec.PhysAddrInvalid}
	if phys, err := s.transport.PhysAddr(); err == nil {
		change.PhysAddr = phys
	}
	if addrs, err := s.transport.LogAddrs(); err == nil {
		change.LogAddrMask = addrs.Mask
	}
	s.states.Observe(change)
}
