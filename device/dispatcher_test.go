package device

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/opencec/go-cec/cec"
	"github.com/opencec/go-cec/internal/pool"
)

// fakeTransport is a channel-backed in-memory adapter used to exercise
// the dispatcher: transmits queue like a non-blocking driver, and the
// test feeds inbound messages and events directly.
type fakeTransport struct {
	mu   sync.Mutex
	seq  uint32
	phys cec.PhysicalAddress
	mask cec.LogAddrMask

	msgs   chan *cec.Message
	events chan cec.Event

	done      chan struct{}
	closeOnce sync.Once
}

var _ Transport = (*fakeTransport)(nil)

func newFakeTransport(phys cec.PhysicalAddress, mask cec.LogAddrMask) *fakeTransport {
	return &fakeTransport{
		phys:   phys,
		mask:   mask,
		msgs:   make(chan *cec.Message, 16),
		events: make(chan cec.Event, 16),
		done:   make(chan struct{}),
	}
}

func (f *fakeTransport) Caps() (cec.Caps, error) {
	return fullCaps(), nil
}

func (f *fakeTransport) Mode() (cec.Mode, error) {
	return cec.Mode{Initiator: cec.InitiatorSend, Follower: cec.FollowerRepliesOnly}, nil
}

func (f *fakeTransport) SetMode(cec.Mode) error { return nil }

func (f *fakeTransport) PhysAddr() (cec.PhysicalAddress, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.phys, nil
}

func (f *fakeTransport) SetPhysAddr(addr cec.PhysicalAddress) error {
	f.mu.Lock()
	f.phys = addr
	f.mu.Unlock()
	return nil
}

func (f *fakeTransport) LogAddrs() (cec.LogAddrs, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return cec.LogAddrs{Mask: f.mask, Addresses: f.mask.Addresses()}, nil
}

func (f *fakeTransport) SetLogAddrs(req *cec.LogAddrsRequest) (cec.LogAddrs, error) {
	return cec.LogAddrs{}, ErrUnsupported
}

// Transmit queues like a non-blocking driver: the message gets a
// sequence number and no status bits; the result arrives through the
// receive queue.
func (f *fakeTransport) Transmit(msg *cec.Message) error {
	f.mu.Lock()
	f.seq++
	msg.SetSequence(f.seq)
	f.mu.Unlock()
	return nil
}

func (f *fakeTransport) Receive(timeout time.Duration) (*cec.Message, error) {
	timer := pool.GetTimer(timeout)
	defer pool.PutTimer(timer)

	select {
	case msg := <-f.msgs:
		return msg, nil
	case <-timer.C:
		return nil, ErrTimeout
	case <-f.done:
		return nil, ErrClosed
	}
}

func (f *fakeTransport) DequeueEvent() (cec.Event, error) {
	select {
	case ev := <-f.events:
		return ev, nil
	case <-f.done:
		return cec.Event{}, ErrClosed
	}
}

func (f *fakeTransport) Close() error {
	f.closeOnce.Do(func() { close(f.done) })
	return nil
}

func (f *fakeTransport) pushMessage(msg *cec.Message) { f.msgs <- msg }
func (f *fakeTransport) pushEvent(ev cec.Event)       { f.events <- ev }

func TestDispatcher_ReplyCorrelation(t *testing.T) {
	require := require.New(t)

	ft := newFakeTransport(0x1000, cec.Playback1.Mask())
	s, err := NewSession(ft, WithReplyTimeout(500*time.Millisecond))
	require.NoError(err)
	defer s.Close()

	type result struct {
		params []byte
		err    error
	}
	done := make(chan result, 1)
	go func() {
		params, err := s.GetPowerStatus(cec.Playback1, cec.TV)
		done <- result{[]byte{byte(params)}, err}
	}()

	// Let the request queue, then feed the resolved transmit back with
	// its sequence number, the way the driver reports completions. The
	// written-back reply field carries the awaited opcode.
	time.Sleep(20 * time.Millisecond)
	reply := cec.DecodeMessage([]byte{0x04, byte(cec.OpReportPowerStatus), byte(cec.PowerOn)})
	reply.SetSequence(1)
	reply.SetReply(cec.OpReportPowerStatus)
	reply.SetTxStatus(cec.TxOK)
	reply.SetRxStatus(cec.RxOK)
	ft.pushMessage(reply)

	select {
	case res := <-done:
		require.NoError(res.err)
		require.Equal([]byte{byte(cec.PowerOn)}, res.params)
	case <-time.After(2 * time.Second):
		t.Fatal("request did not resolve")
	}
}

func TestDispatcher_ReplyNeverArrived(t *testing.T) {
	require := require.New(t)

	ft := newFakeTransport(0x1000, cec.Playback1.Mask())
	s, err := NewSession(ft, WithReplyTimeout(500*time.Millisecond))
	require.NoError(err)
	defer s.Close()

	type result struct {
		params []byte
		err    error
	}
	done := make(chan result, 1)
	go func() {
		params, err := s.Request(cec.Playback1, cec.TV, cec.OpGiveDevicePowerStatus, nil, cec.OpReportPowerStatus)
		done <- result{params, err}
	}()

	// The completion reports the reply wait timing out: the reply field
	// comes back zeroed and the payload still holds the transmitted
	// message, which must not be mistaken for an answer.
	time.Sleep(20 * time.Millisecond)
	echo := cec.DecodeMessage([]byte{0x14, byte(cec.OpGiveDevicePowerStatus)})
	echo.SetSequence(1)
	echo.SetReply(cec.OpFeatureAbort)
	echo.SetTxStatus(cec.TxOK)
	echo.SetRxStatus(cec.RxTimeout)
	ft.pushMessage(echo)

	select {
	case res := <-done:
		require.ErrorIs(res.err, ErrTimeout)
		require.Empty(res.params)
	case <-time.After(2 * time.Second):
		t.Fatal("request did not resolve")
	}
}

func TestDispatcher_ReplyTimeout(t *testing.T) {
	require := require.New(t)

	ft := newFakeTransport(0x1000, cec.Playback1.Mask())
	s, err := NewSession(ft, WithReplyTimeout(50*time.Millisecond))
	require.NoError(err)
	defer s.Close()

	_, err = s.Request(cec.Playback1, cec.TV, cec.OpGiveDevicePowerStatus, nil, cec.OpReportPowerStatus)
	require.ErrorIs(err, ErrTimeout)
}

func TestDispatcher_MessageHandlers(t *testing.T) {
	require := require.New(t)

	ft := newFakeTransport(0x1000, cec.Playback1.Mask())
	s, err := NewSession(ft)
	require.NoError(err)
	defer s.Close()

	received := make(chan *cec.Message, 1)
	require.NoError(s.AddMessageHandler(func(msg *cec.Message) {
		received <- msg
	}))

	// Inbound traffic from another device carries sequence zero.
	ft.pushMessage(cec.DecodeMessage([]byte{0x04, byte(cec.OpGiveOsdName)}))

	select {
	case msg := <-received:
		op, _ := msg.Opcode()
		require.Equal(cec.OpGiveOsdName, op)
		require.Equal(cec.TV, msg.Initiator())
	case <-time.After(2 * time.Second):
		t.Fatal("handler not invoked")
	}
}

func TestDispatcher_EventCoalescing(t *testing.T) {
	require := require.New(t)

	ft := newFakeTransport(cec.PhysAddrInvalid, 0)
	s, err := NewSession(ft)
	require.NoError(err)
	defer s.Close()

	// Three rapid state changes; only the most recent survives in the
	// slot, and the tracker still follows every transition.
	ft.pushEvent(cec.Event{Type: cec.EventStateChange, StateChange: cec.StateChange{PhysAddr: 0x1000}})
	ft.pushEvent(cec.Event{Type: cec.EventStateChange, StateChange: cec.StateChange{PhysAddr: 0x2000}})
	ft.pushEvent(cec.Event{Type: cec.EventStateChange, StateChange: cec.StateChange{
		PhysAddr: 0x2000, LogAddrMask: cec.Playback1.Mask(),
	}})

	require.NoError(s.WaitState(waitCtx(t), ClaimedState))

	ev, err := s.NextEvent(waitCtx(t))
	require.NoError(err)
	require.Equal(cec.EventStateChange, ev.Type)
	require.True(ev.Flags.Has(cec.EventFlagDroppedEvents))
	require.Equal(cec.Playback1.Mask(), ev.StateChange.LogAddrMask)

	_, err = s.PollEvent()
	require.ErrorIs(err, ErrWouldBlock)
}

func TestDispatcher_EventKindsQueueIndependently(t *testing.T) {
	require := require.New(t)

	ft := newFakeTransport(cec.PhysAddrInvalid, 0)
	s, err := NewSession(ft)
	require.NoError(err)
	defer s.Close()

	ft.pushEvent(cec.Event{Type: cec.EventStateChange, StateChange: cec.StateChange{PhysAddr: 0x1000}})
	ft.pushEvent(cec.Event{Type: cec.EventLostMsgs, LostMsgs: cec.LostMsgs{Count: 7}})

	seen := map[cec.EventType]cec.Event{}
	for i := 0; i < 2; i++ {
		ev, err := s.NextEvent(waitCtx(t))
		require.NoError(err)
		seen[ev.Type] = ev
	}

	require.Len(seen, 2)
	require.Equal(uint32(7), seen[cec.EventLostMsgs].LostMsgs.Count)
	require.Equal(cec.PhysicalAddress(0x1000), seen[cec.EventStateChange].StateChange.PhysAddr)
}

func waitCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)
	return ctx
}
