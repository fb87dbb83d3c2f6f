package queue

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSlot_PutTake(t *testing.T) {
	require := require.New(t)

	s := NewSlot[int]()
	require.True(s.IsEmpty())

	_, _, ok := s.Take()
	require.False(ok)

	require.False(s.Put(1))
	require.False(s.IsEmpty())

	v, dropped, ok := s.Take()
	require.True(ok)
	require.False(dropped)
	require.Equal(1, v)
	require.True(s.IsEmpty())
}

func TestSlot_LatestWins(t *testing.T) {
	require := require.New(t)

	s := NewSlot[int]()
	require.False(s.Put(1))
	require.True(s.Put(2))
	require.True(s.Put(3))

	// Only the most recent value survives, with the drop recorded.
	v, dropped, ok := s.Take()
	require.True(ok)
	require.True(dropped)
	require.Equal(3, v)

	// The drop record does not leak into the next cycle.
	s.Put(4)
	v, dropped, ok = s.Take()
	require.True(ok)
	require.False(dropped)
	require.Equal(4, v)
}

func TestSlot_Ready(t *testing.T) {
	require := require.New(t)

	s := NewSlot[string]()
	select {
	case <-s.Ready():
		t.Fatal("empty slot must not signal")
	default:
	}

	s.Put("a")
	s.Put("b")

	// Signals coalesce with the values.
	<-s.Ready()
	select {
	case <-s.Ready():
		t.Fatal("coalesced puts must signal once")
	default:
	}

	v, dropped, ok := s.Take()
	require.True(ok)
	require.True(dropped)
	require.Equal("b", v)
}

func TestSlot_Reset(t *testing.T) {
	require := require.New(t)

	s := NewSlot[int]()
	s.Put(1)
	s.Put(2)
	s.Reset()

	require.True(s.IsEmpty())
	select {
	case <-s.Ready():
		t.Fatal("reset must drain the ready signal")
	default:
	}
}
