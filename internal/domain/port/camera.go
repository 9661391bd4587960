package port

import (
	"context"
	"time"

	"face-capture/internal/domain/entity"
)

// Camera интерфейс камеры, от которой приходят кадры
type Camera interface {
	// PreviewSize размеры кадра превью для нормализации координат
	PreviewSize() entity.FrameDimensions

	// Capture делает снимок
	Capture(ctx context.Context) (*entity.ImageHandle, error)

	// StopStream приостанавливает поток кадров на время съёмки
	StopStream(ctx context.Context) error

	// StartStream возобновляет поток кадров
	StartStream(ctx context.Context) error
}

// Ticker запускает периодический вызов fn. Возвращённая stop идемпотентна.
type Ticker interface {
	Start(interval time.Duration, fn func()) (stop func())
}
