package device

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/opencec/go-cec/cec"
	"github.com/opencec/go-cec/logger"
)

// AdapterState represents the configuration stages of a CEC adapter.
type AdapterState uint32

const (
	// UnconfiguredState indicates that no physical address is set.
	UnconfiguredState AdapterState = iota
	// PhysAddrSetState indicates that the physical address is set but no
	// logical addresses are claimed yet.
	PhysAddrSetState
	// ClaimedState indicates that logical addresses are claimed and the
	// adapter is ready to initiate traffic.
	ClaimedState
)

// IsUnconfigured returns if the current state is unconfigured.
func (s AdapterState) IsUnconfigured() bool { return s == UnconfiguredState }

// IsPhysAddrSet returns if the current state has a physical address set.
func (s AdapterState) IsPhysAddrSet() bool { return s == PhysAddrSetState }

// IsClaimed returns if the current state has logical addresses claimed.
func (s AdapterState) IsClaimed() bool { return s == ClaimedState }

// String returns string representation of the current state.
func (s AdapterState) String() string {
	switch s {
	case UnconfiguredState:
		return "unconfigured"
	case PhysAddrSetState:
		return "phys-addr-set"
	case ClaimedState:
		return "claimed"
	default:
		return "unknown"
	}
}

// StateChangeHandler is invoked when the adapter configuration state
// changes. It receives the previous and new states plus the adapter
// snapshot that caused the transition.
//
// Note: the handler is invoked in a blocking mode. Take care with
// long-running implementations.
type StateChangeHandler func(prevState, newState AdapterState, change cec.StateChange)

// StateTracker derives the adapter configuration state from the state
// change events the transport emits, and lets callers wait for a
// desired state.
//
// State transitions are thread safe in concurrent environments.
type StateTracker struct {
	mu       sync.Mutex
	cond     *sync.Cond
	state    atomic.Uint32
	logger   logger.Logger
	handlers []StateChangeHandler

	physAddr cec.PhysicalAddress
	mask     cec.LogAddrMask
}

// NewStateTracker creates a StateTracker in the unconfigured state.
//
// It accepts optional StateChangeHandler functions that will be invoked
// when the adapter state changes.
func NewStateTracker(log logger.Logger, handlers ...StateChangeHandler) *StateTracker {
	if log == nil {
		log = logger.GetLogger()
	}

	st := &StateTracker{
		logger:   log,
		physAddr: cec.PhysAddrInvalid,
		handlers: append([]StateChangeHandler(nil), handlers...),
	}
	st.state.Store(uint32(UnconfiguredState))
	st.cond = sync.NewCond(&st.mu)

	return st
}

// State returns the current adapter state.
func (st *StateTracker) State() AdapterState {
	return AdapterState(st.state.Load())
}

// PhysAddr returns the last observed physical address.
func (st *StateTracker) PhysAddr() cec.PhysicalAddress {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.physAddr
}

// Mask returns the last observed claimed-address bitmask.
func (st *StateTracker) Mask() cec.LogAddrMask {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.mask
}

// AddHandler adds one or more StateChangeHandler functions to be invoked
// on state changes.
func (st *StateTracker) AddHandler(handlers ...StateChangeHandler) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.handlers = append(st.handlers, handlers...)
}

// Observe folds a state change event into the tracker, deriving the new
// adapter state from the event's physical address and claimed mask.
// Handlers run only on an actual state transition.
func (st *StateTracker) Observe(change cec.StateChange) {
	st.mu.Lock()
	defer st.mu.Unlock()

	st.physAddr = change.PhysAddr
	st.mask = change.LogAddrMask

	newState := UnconfiguredState
	switch {
	case !change.LogAddrMask.IsEmpty():
		newState = ClaimedState
	case !change.PhysAddr.IsInvalid():
		newState = PhysAddrSetState
	}

	prevState := st.State()
	if prevState == newState {
		st.cond.Broadcast()
		return
	}

	st.logger.Debug("adapter state transition",
		"prev_state", prevState, "new_state", newState,
		"phys_addr", change.PhysAddr, "mask", change.LogAddrMask,
	)

	st.state.Store(uint32(newState))
	st.cond.Broadcast()
	st.invokeHandlers(prevState, newState, change)
}

// WaitState waits for the adapter state to reach the specified state or
// until the context is done. It returns nil if the desired state is
// reached, or an error if the context is canceled or times out.
func (st *StateTracker) WaitState(ctx context.Context, state AdapterState) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.State() == state {
		return nil
	}

	stopFunc := context.AfterFunc(ctx, func() {
		st.cond.Broadcast()
	})
	defer stopFunc()

	for st.State() != state {
		select {
		case <-ctx.Done():
			st.logger.Debug("wait adapter state canceled",
				"cur_state", st.State(), "desired_state", state)
			return ctx.Err()
		default:
			st.cond.Wait()
		}
	}

	return nil
}

// invokeHandlers invokes all registered StateChangeHandler functions
// with the previous and new states. Called with st.mu held.
func (st *StateTracker) invokeHandlers(prevState, newState AdapterState, change cec.StateChange) {
	for _, handler := range st.handlers {
		if handler != nil {
			handler(prevState, newState, change)
		}
	}
}
