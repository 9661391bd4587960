package app

import (
	"math"

	"face-capture/internal/domain/entity"
)

// Пороговые значения оценки положения лица (нормализованные координаты)
const (
	MinEyeDistance = 0.14
	MaxEyeDistance = 0.28

	// Квадрат в центре кадра, покрывающий 70% его стороны
	FrameBoxHalfSize = 0.35

	NoseCenterTolerance = 0.20

	MaxHeadYaw  = 12.0 // градусы
	MaxHeadRoll = 12.0 // градусы
)

// EyeDistance возвращает расстояние между глазами в нормализованных координатах.
// false, если детектор не нашёл хотя бы один глаз.
func EyeDistance(face *entity.FacePose, dims entity.FrameDimensions) (float64, bool) {
	if !dims.Valid() {
		return 0, false
	}
	left, ok := face.Landmark(entity.LandmarkLeftEye)
	if !ok {
		return 0, false
	}
	right, ok := face.Landmark(entity.LandmarkRightEye)
	if !ok {
		return 0, false
	}
	return dims.Normalize(left).Distance(dims.Normalize(right)), true
}

// LandmarksContained проверяет, что все обязательные точки лежат в центральном квадрате
func LandmarksContained(face *entity.FacePose, dims entity.FrameDimensions) bool {
	if face == nil || !dims.Valid() {
		return false
	}
	lo, hi := 0.5-FrameBoxHalfSize, 0.5+FrameBoxHalfSize
	for _, t := range entity.RequiredLandmarks {
		p, ok := face.Landmark(t)
		if !ok {
			return false
		}
		n := dims.Normalize(p)
		if n.X < lo || n.X > hi || n.Y < lo || n.Y > hi {
			return false
		}
	}
	return true
}

// NoseCentered проверяет, что основание носа близко к центру кадра
func NoseCentered(face *entity.FacePose, dims entity.FrameDimensions) bool {
	if !dims.Valid() {
		return false
	}
	nose, ok := face.Landmark(entity.LandmarkNoseBase)
	if !ok {
		return false
	}
	n := dims.Normalize(nose)
	return math.Abs(n.X-0.5) <= NoseCenterTolerance && math.Abs(n.Y-0.5) <= NoseCenterTolerance
}

// HeadPoseAligned проверяет, что голова смотрит в камеру
func HeadPoseAligned(face *entity.FacePose) bool {
	if face == nil {
		return false
	}
	return math.Abs(face.Yaw) <= MaxHeadYaw && math.Abs(face.Roll) <= MaxHeadRoll
}

// IsWellPositioned объединяет все проверки. Порядок проверок на результат не влияет.
func IsWellPositioned(face *entity.FacePose, dims entity.FrameDimensions) bool {
	if face == nil || !dims.Valid() {
		return false
	}
	distance, ok := EyeDistance(face, dims)
	if !ok || distance < MinEyeDistance || distance > MaxEyeDistance {
		return false
	}
	return LandmarksContained(face, dims) &&
		NoseCentered(face, dims) &&
		HeadPoseAligned(face)
}

// Evaluate возвращает вердикт для кадра
func Evaluate(face *entity.FacePose, dims entity.FrameDimensions) entity.Verdict {
	return entity.Verdict{
		FaceDetected:   face != nil,
		WellPositioned: IsWellPositioned(face, dims),
	}
}
