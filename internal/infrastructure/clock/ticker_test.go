package clock

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRealTicker_TicksUntilStopped(t *testing.T) {
	var ticks atomic.Int32
	stop := RealTicker{}.Start(5*time.Millisecond, func() { ticks.Add(1) })

	require.Eventually(t, func() bool { return ticks.Load() >= 2 }, time.Second, time.Millisecond)

	stop()
	stop()
	after := ticks.Load()
	time.Sleep(30 * time.Millisecond)
	require.LessOrEqual(t, ticks.Load(), after+1)
}

func TestRealTicker_StopDoesNotWaitForCallback(t *testing.T) {
	var mu sync.Mutex
	entered := make(chan struct{}, 1)
	stop := RealTicker{}.Start(time.Millisecond, func() {
		select {
		case entered <- struct{}{}:
		default:
		}
		mu.Lock()
		mu.Unlock()
	})

	mu.Lock()
	<-entered
	stop()
	mu.Unlock()
}
