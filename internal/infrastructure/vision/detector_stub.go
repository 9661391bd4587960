//go:build !gocv
// +build !gocv

package vision

import (
	"context"

	"face-capture/internal/domain/entity"
)

// CascadeDetector детектор-заглушка (без OpenCV).
type CascadeDetector struct{}

// NewCascadeDetector возвращает ошибку, если сборка без тега gocv.
func NewCascadeDetector(cascadeDir string) (*CascadeDetector, error) {
	_ = cascadeDir
	return nil, ErrGoCVDisabled
}

// Close ничего не делает.
func (d *CascadeDetector) Close() error {
	return nil
}

// Detect возвращает ошибку, если сборка без тега gocv.
func (d *CascadeDetector) Detect(ctx context.Context, frame entity.Frame, mode entity.PerformanceMode) (*entity.FacePose, error) {
	_ = ctx
	_ = frame
	_ = mode
	return nil, ErrGoCVDisabled
}

// Annotate возвращает ошибку, если сборка без тега gocv.
func (d *CascadeDetector) Annotate(imageData []byte, face *entity.FacePose) ([]byte, error) {
	_ = imageData
	_ = face
	return nil, ErrGoCVDisabled
}
