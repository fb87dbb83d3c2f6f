package device

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/opencec/go-cec/cec"
)

func TestStateTracker_Transitions(t *testing.T) {
	require := require.New(t)

	st := NewStateTracker(nil)
	require.Equal(UnconfiguredState, st.State())
	require.True(st.PhysAddr().IsInvalid())

	st.Observe(cec.StateChange{PhysAddr: 0x1000})
	require.Equal(PhysAddrSetState, st.State())
	require.Equal(cec.PhysicalAddress(0x1000), st.PhysAddr())

	st.Observe(cec.StateChange{PhysAddr: 0x1000, LogAddrMask: cec.Playback1.Mask()})
	require.Equal(ClaimedState, st.State())
	require.Equal(cec.Playback1.Mask(), st.Mask())

	// Clearing the claims falls back to the physical address state.
	st.Observe(cec.StateChange{PhysAddr: 0x1000})
	require.Equal(PhysAddrSetState, st.State())

	// Unplugging clears everything.
	st.Observe(cec.StateChange{PhysAddr: cec.PhysAddrInvalid})
	require.Equal(UnconfiguredState, st.State())
}

func TestStateTracker_Handlers(t *testing.T) {
	require := require.New(t)

	type transition struct {
		prev, next AdapterState
	}
	var seen []transition

	st := NewStateTracker(nil, func(prev, next AdapterState, change cec.StateChange) {
		seen = append(seen, transition{prev, next})
	})

	st.Observe(cec.StateChange{PhysAddr: 0x1000})
	// Same derived state again: no handler invocation.
	st.Observe(cec.StateChange{PhysAddr: 0x2000})
	st.Observe(cec.StateChange{PhysAddr: 0x2000, LogAddrMask: cec.Audiosystem.Mask()})

	require.Equal([]transition{
		{UnconfiguredState, PhysAddrSetState},
		{PhysAddrSetState, ClaimedState},
	}, seen)
	require.Equal(cec.PhysicalAddress(0x2000), st.PhysAddr())
}

func TestStateTracker_WaitState(t *testing.T) {
	require := require.New(t)

	st := NewStateTracker(nil)

	// Already in the desired state.
	require.NoError(st.WaitState(context.Background(), UnconfiguredState))

	done := make(chan error, 1)
	go func() {
		done <- st.WaitState(context.Background(), ClaimedState)
	}()

	time.Sleep(10 * time.Millisecond)
	st.Observe(cec.StateChange{PhysAddr: 0x1000, LogAddrMask: cec.Playback1.Mask()})

	select {
	case err := <-done:
		require.NoError(err)
	case <-time.After(time.Second):
		t.Fatal("WaitState did not observe the transition")
	}
}

func TestStateTracker_WaitState_ContextCanceled(t *testing.T) {
	require := require.New(t)

	st := NewStateTracker(nil)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := st.WaitState(ctx, ClaimedState)
	require.ErrorIs(err, context.DeadlineExceeded)
}
