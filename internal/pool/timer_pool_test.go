package pool

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTimerPool_GetPut(t *testing.T) {
	require := require.New(t)

	timer1 := GetTimer(time.Second)
	require.NotNil(timer1)
	PutTimer(timer1)

	timer2 := GetTimer(20 * time.Millisecond)
	require.NotNil(timer2)
	<-timer2.C
	PutTimer(timer2)
}

func TestTimerPool_ReusedTimerFiresAtNewDeadline(t *testing.T) {
	require := require.New(t)

	// Return a still-armed timer, then make sure the next user only sees
	// its own deadline.
	timer1 := GetTimer(100 * time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	PutTimer(timer1)

	begin := time.Now()
	timer2 := GetTimer(300 * time.Millisecond)
	require.NotNil(timer2)

	select {
	case fired := <-timer2.C:
		require.GreaterOrEqual(fired.Sub(begin), 270*time.Millisecond)
	case <-time.After(500 * time.Millisecond):
		t.Fatal("timer did not fire")
	}
	PutTimer(timer2)
}

func TestTimerPool_Concurrency(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			timer := GetTimer(10 * time.Millisecond)
			defer PutTimer(timer)
			<-timer.C
		}()
	}
	wg.Wait()
}
