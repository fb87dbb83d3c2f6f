package device

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/opencec/go-cec/cec"
	"github.com/opencec/go-cec/internal/pool"
	"github.com/opencec/go-cec/internal/queue"
	"github.com/opencec/go-cec/logger"
)

// MessageHandler is invoked by the dispatcher for every inbound message
// that is not the correlated result of an earlier transmit.
//
// Note: handlers run on the dispatcher's receive goroutine. Take care
// with long-running implementations.
type MessageHandler func(msg *cec.Message)

// dispatcher owns the session's background goroutines: one draining
// inbound messages and correlating non-blocking transmit results by
// sequence number, one draining adapter events into the per-kind
// latest-wins slots.
type dispatcher struct {
	transport Transport
	cfg       *SessionConfig
	logger    logger.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	pendingReplies *xsync.MapOf[uint32, chan *cec.Message]

	handlerMu sync.RWMutex
	handlers  []MessageHandler

	stateSlot *queue.Slot[cec.Event]
	lostSlot  *queue.Slot[cec.Event]

	states *StateTracker
}

func newDispatcher(transport Transport, cfg *SessionConfig, states *StateTracker) *dispatcher {
	ctx, cancel := context.WithCancel(context.Background())
	return &dispatcher{
		transport:      transport,
		cfg:            cfg,
		logger:         cfg.logger,
		ctx:            ctx,
		cancel:         cancel,
		pendingReplies: xsync.NewMapOf[uint32, chan *cec.Message](),
		stateSlot:      queue.NewSlot[cec.Event](),
		lostSlot:       queue.NewSlot[cec.Event](),
		states:         states,
	}
}

func (d *dispatcher) start() {
	d.wg.Add(2)
	go d.receiveTask()
	go d.eventTask()
}

func (d *dispatcher) stop() {
	d.cancel()
	d.wg.Wait()

	// Fail any waiter still parked on a reply channel.
	d.pendingReplies.Range(func(seq uint32, ch chan *cec.Message) bool {
		d.pendingReplies.Delete(seq)
		close(ch)
		return true
	})
}

func (d *dispatcher) addHandler(handlers ...MessageHandler) {
	d.handlerMu.Lock()
	defer d.handlerMu.Unlock()
	d.handlers = append(d.handlers, handlers...)
}

// registerReply creates the correlation channel for a transmit that was
// queued with the given sequence number. The dispatcher delivers the
// resolved message to it when the transport reports completion.
func (d *dispatcher) registerReply(seq uint32) chan *cec.Message {
	ch := make(chan *cec.Message, 1)
	d.pendingReplies.Store(seq, ch)
	return ch
}

// awaitReply waits for the correlated result of the given sequence
// number, up to timeout.
func (d *dispatcher) awaitReply(seq uint32, ch chan *cec.Message, timeout time.Duration) (*cec.Message, error) {
	timer := pool.GetTimer(timeout)
	defer pool.PutTimer(timer)

	select {
	case msg, ok := <-ch:
		if !ok {
			return nil, ErrClosed
		}
		return msg, nil
	case <-timer.C:
		d.pendingReplies.Delete(seq)
		return nil, ErrTimeout
	case <-d.ctx.Done():
		d.pendingReplies.Delete(seq)
		return nil, ErrClosed
	}
}

// receiveTask drains inbound messages in the background.
func (d *dispatcher) receiveTask() {
	defer d.wg.Done()
	defer d.logger.Debug("receiveTask terminated")

	for {
		if d.ctx.Err() != nil {
			return
		}

		msg, err := d.transport.Receive(d.cfg.receivePoll)
		if err != nil {
			switch {
			case errors.Is(err, ErrTimeout):
				continue
			case errors.Is(err, ErrWouldBlock):
				if !d.sleep(10 * time.Millisecond) {
					return
				}
				continue
			case errors.Is(err, ErrClosed):
				return
			default:
				if d.ctx.Err() != nil {
					return
				}
				d.logger.Error("receive failed", "error", err)
				if !d.sleep(100 * time.Millisecond) {
					return
				}
				continue
			}
		}

		d.routeMessage(msg)
	}
}

// routeMessage delivers the correlated result of an earlier non-blocking
// transmit to its waiter, and fans every other message out to the
// registered handlers. A non-zero sequence number marks a transmit
// result; messages from other devices carry sequence zero.
func (d *dispatcher) routeMessage(msg *cec.Message) {
	if seq := msg.Sequence(); seq != 0 {
		if ch, ok := d.pendingReplies.LoadAndDelete(seq); ok {
			ch <- msg
			return
		}
		// The waiter gave up already; nothing to do.
		d.logger.Debug("dropping unclaimed transmit result", "sequence", seq, "msg", msg)
		return
	}

	d.handlerMu.RLock()
	handlers := d.handlers
	d.handlerMu.RUnlock()

	for _, handler := range handlers {
		handler(msg)
	}
}

// eventTask drains adapter events into the per-kind slots.
func (d *dispatcher) eventTask() {
	defer d.wg.Done()
	defer d.logger.Debug("eventTask terminated")

	for {
		if d.ctx.Err() != nil {
			return
		}

		ev, err := d.transport.DequeueEvent()
		if err != nil {
			switch {
			case errors.Is(err, ErrWouldBlock):
				if !d.sleep(10 * time.Millisecond) {
					return
				}
				continue
			case errors.Is(err, ErrClosed):
				return
			default:
				if d.ctx.Err() != nil {
					return
				}
				d.logger.Error("dequeue event failed", "error", err)
				if !d.sleep(100 * time.Millisecond) {
					return
				}
				continue
			}
		}

		d.routeEvent(ev)
	}
}

func (d *dispatcher) routeEvent(ev cec.Event) {
	switch ev.Type {
	case cec.EventStateChange:
		// Publish before folding into the tracker, so a caller released
		// by WaitState finds the causing event already queued.
		d.stateSlot.Put(ev)
		d.states.Observe(ev.StateChange)
	case cec.EventLostMsgs:
		d.lostSlot.Put(ev)
	default:
		d.logger.Warn("unknown adapter event", "event", ev.Type)
	}
}

// nextEvent returns whichever event kind has a pending value, waiting
// until one arrives or ctx is done. Both kinds can be pending at once;
// callers drain by calling repeatedly.
func (d *dispatcher) nextEvent(ctx context.Context) (cec.Event, error) {
	for {
		if ev, dropped, ok := d.stateSlot.Take(); ok {
			return markDropped(ev, dropped), nil
		}
		if ev, dropped, ok := d.lostSlot.Take(); ok {
			return markDropped(ev, dropped), nil
		}

		select {
		case <-d.stateSlot.Ready():
		case <-d.lostSlot.Ready():
		case <-ctx.Done():
			return cec.Event{}, ctx.Err()
		case <-d.ctx.Done():
			return cec.Event{}, ErrClosed
		}
	}
}

// pollEvent is the non-blocking shape of nextEvent; it returns
// ErrWouldBlock when neither slot has a pending value.
func (d *dispatcher) pollEvent() (cec.Event, error) {
	if ev, dropped, ok := d.stateSlot.Take(); ok {
		return markDropped(ev, dropped), nil
	}
	if ev, dropped, ok := d.lostSlot.Take(); ok {
		return markDropped(ev, dropped), nil
	}
	return cec.Event{}, ErrWouldBlock
}

func markDropped(ev cec.Event, dropped bool) cec.Event {
	if dropped {
		ev.Flags |= cec.EventFlagDroppedEvents
	}
	return ev
}

// sleep pauses the calling task, returning false if the dispatcher shut
// down while sleeping.
func (d *dispatcher) sleep(dur time.Duration) bool {
	timer := pool.GetTimer(dur)
	defer pool.PutTimer(timer)

	select {
	case <-timer.C:
		return true
	case <-d.ctx.Done():
		return false
	}
}
