//go:build gocv
// +build gocv

package camera

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gocv.io/x/gocv"

	"face-capture/internal/domain/entity"
	"face-capture/internal/domain/port"
)

// Webcam камера на gocv.VideoCapture
type Webcam struct {
	outputDir string

	mu      sync.Mutex
	capture *gocv.VideoCapture
	frame   gocv.Mat
	dims    entity.FrameDimensions
	paused  bool
}

// OpenWebcam открывает устройство (номер или путь) и каталог для снимков
func OpenWebcam(device string, outputDir string) (*Webcam, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create capture dir: %w", err)
	}

	vc, err := gocv.OpenVideoCapture(device)
	if err != nil {
		return nil, fmt.Errorf("open video capture %s: %w", device, err)
	}

	return &Webcam{
		outputDir: outputDir,
		capture:   vc,
		frame:     gocv.NewMat(),
		dims: entity.FrameDimensions{
			Width:  int(vc.Get(gocv.VideoCaptureFrameWidth)),
			Height: int(vc.Get(gocv.VideoCaptureFrameHeight)),
		},
	}, nil
}

// PreviewSize размеры кадра устройства
func (w *Webcam) PreviewSize() entity.FrameDimensions {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.dims
}

// StopStream приостанавливает выдачу кадров
func (w *Webcam) StopStream(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.paused = true
	return nil
}

// StartStream возобновляет выдачу кадров
func (w *Webcam) StartStream(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.paused = false
	return nil
}

// Capture читает свежий кадр и сохраняет его в JPEG
func (w *Webcam) Capture(ctx context.Context) (*entity.ImageHandle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if ok := w.capture.Read(&w.frame); !ok || w.frame.Empty() {
		return nil, ErrNoFrame
	}

	now := time.Now()
	path := filepath.Join(w.outputDir, snapshotName(now))
	if ok := gocv.IMWrite(path, w.frame); !ok {
		return nil, fmt.Errorf("write snapshot %s", path)
	}

	return &entity.ImageHandle{Path: path, CapturedAt: now}, nil
}

// Next читает очередной кадр потока. Во время паузы возвращает ok=false.
func (w *Webcam) Next() (entity.Frame, bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.paused {
		return entity.Frame{}, false, nil
	}
	if ok := w.capture.Read(&w.frame); !ok || w.frame.Empty() {
		return entity.Frame{}, false, ErrNoFrame
	}

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, w.frame)
	if err != nil {
		return entity.Frame{}, false, fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	data := append([]byte(nil), buf.GetBytes()...)
	w.dims = entity.FrameDimensions{Width: w.frame.Cols(), Height: w.frame.Rows()}
	return entity.Frame{Data: data, Width: w.dims.Width, Height: w.dims.Height}, true, nil
}

// Close освобождает устройство
func (w *Webcam) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.frame.Close()
	return w.capture.Close()
}

var _ port.Camera = (*Webcam)(nil)
