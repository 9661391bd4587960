//go:build !gocv
// +build !gocv

package camera

import (
	"context"

	"face-capture/internal/domain/entity"
	"face-capture/internal/infrastructure/vision"
)

// Webcam камера-заглушка (без OpenCV).
type Webcam struct{}

// OpenWebcam возвращает ошибку, если сборка без тега gocv.
func OpenWebcam(device string, outputDir string) (*Webcam, error) {
	_ = device
	_ = outputDir
	return nil, vision.ErrGoCVDisabled
}

// PreviewSize возвращает пустые размеры.
func (w *Webcam) PreviewSize() entity.FrameDimensions {
	return entity.FrameDimensions{}
}

// StopStream ничего не делает.
func (w *Webcam) StopStream(ctx context.Context) error {
	return nil
}

// StartStream ничего не делает.
func (w *Webcam) StartStream(ctx context.Context) error {
	return nil
}

// Capture возвращает ошибку, если сборка без тега gocv.
func (w *Webcam) Capture(ctx context.Context) (*entity.ImageHandle, error) {
	_ = ctx
	return nil, vision.ErrGoCVDisabled
}

// Next возвращает ошибку, если сборка без тега gocv.
func (w *Webcam) Next() (entity.Frame, bool, error) {
	return entity.Frame{}, false, vision.ErrGoCVDisabled
}

// Close ничего не делает.
func (w *Webcam) Close() error {
	return nil
}
