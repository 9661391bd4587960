package camera

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"face-capture/internal/domain/entity"
)

// ErrNoFrame камера не отдала кадр
var ErrNoFrame = errors.New("camera returned no frame")

// FrameSource источник кадров видеопотока
type FrameSource interface {
	// Next возвращает кадр; ok=false без ошибки означает паузу потока
	Next() (frame entity.Frame, ok bool, err error)
}

// FrameSink получатель кадров. false означает, что кадр отброшен.
type FrameSink func(ctx context.Context, frame entity.Frame) bool

// Pump читает кадры из source и отдаёт их sink, пока не отменён ctx.
// После maxErrors ошибок подряд возвращает последнюю ошибку.
type Pump struct {
	Source    FrameSource
	Sink      FrameSink
	Log       logrus.FieldLogger
	Idle      time.Duration // пауза, если поток приостановлен
	MaxErrors int
}

// Run запускает цикл чтения кадров. Кадры отдаются sink асинхронно, как
// колбэк камеры: пока sink занят, новые кадры он отбрасывает сам.
func (p *Pump) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	defer wg.Wait()

	idle := p.Idle
	if idle <= 0 {
		idle = 50 * time.Millisecond
	}

	failures := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		frame, ok, err := p.Source.Next()
		if err != nil {
			failures++
			if p.Log != nil {
				p.Log.WithError(err).WithField("failures", failures).Warn("failed to read frame")
			}
			if p.MaxErrors > 0 && failures >= p.MaxErrors {
				return fmt.Errorf("read frames: %w", err)
			}
			if !sleep(ctx, idle) {
				return nil
			}
			continue
		}
		failures = 0

		if !ok {
			if !sleep(ctx, idle) {
				return nil
			}
			continue
		}

		wg.Add(1)
		go func(frame entity.Frame) {
			defer wg.Done()
			p.Sink(ctx, frame)
		}(frame)
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func snapshotName(t time.Time) string {
	return fmt.Sprintf("capture-%s.jpg", t.Format("20060102-150405.000"))
}
