package clock

import (
	"sync"
	"time"

	"face-capture/internal/domain/port"
)

// RealTicker тикает по time.Ticker в отдельной горутине
type RealTicker struct{}

// Start запускает тики. stop не ждёт завершения горутины, поэтому её можно
// вызывать под блокировкой, которую берёт fn.
func (RealTicker) Start(interval time.Duration, fn func()) func() {
	done := make(chan struct{})
	ticker := time.NewTicker(interval)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				select {
				case <-done:
					return
				default:
				}
				fn()
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() { close(done) })
	}
}

var _ port.Ticker = RealTicker{}
