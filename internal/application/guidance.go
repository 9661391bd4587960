package app

import (
	"math"

	"face-capture/internal/domain/entity"
)

const (
	minFaceWidthRatio = 0.7 * 0.5
	maxFaceWidthRatio = 0.7 * 0.95

	centerTolerance = 0.15
)

// Guidance выбирает одну подсказку по строгому приоритету: сначала расстояние
// до камеры, потом центрирование. false означает, что подсказка не нужна.
// Направления по горизонтали даны для зеркального превью фронтальной камеры.
func Guidance(face *entity.FacePose, dims entity.FrameDimensions, wellPositioned bool) (entity.GuidanceReason, bool) {
	if face == nil {
		return entity.GuidancePlaceFaceInFrame, true
	}
	if wellPositioned {
		return "", false
	}
	if !dims.Valid() {
		return entity.GuidanceCenterFace, true
	}

	if distance, ok := EyeDistance(face, dims); ok {
		if distance < MinEyeDistance {
			return entity.GuidanceMoveCloser, true
		}
		if distance > MaxEyeDistance {
			return entity.GuidanceMoveBack, true
		}
	}

	widthRatio := math.Min(face.BoundingBox.Width/float64(dims.Width), 1)
	if widthRatio < minFaceWidthRatio {
		return entity.GuidanceMoveCloser, true
	}
	if widthRatio > maxFaceWidthRatio {
		return entity.GuidanceMoveBack, true
	}

	center := dims.Normalize(face.BoundingBox.Center())
	if math.Abs(center.X-0.5) > centerTolerance {
		if center.X < 0.5 {
			return entity.GuidanceMoveRight, true
		}
		return entity.GuidanceMoveLeft, true
	}
	if math.Abs(center.Y-0.5) > centerTolerance {
		if center.Y < 0.5 {
			return entity.GuidanceMoveDown, true
		}
		return entity.GuidanceMoveUp, true
	}

	return entity.GuidanceCenterFace, true
}
