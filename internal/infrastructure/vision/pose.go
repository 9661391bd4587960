package vision

import (
	"image"
	"math"

	"face-capture/internal/domain/entity"
)

type detectParams struct {
	scale     float64
	neighbors int
}

func paramsFor(mode entity.PerformanceMode) detectParams {
	if mode == entity.PerformanceAccurate {
		return detectParams{scale: 1.05, neighbors: 6}
	}
	return detectParams{scale: 1.2, neighbors: 4}
}

func largest(rects []image.Rectangle) image.Rectangle {
	best := rects[0]
	for _, r := range rects[1:] {
		if r.Dx()*r.Dy() > best.Dx()*best.Dy() {
			best = r
		}
	}
	return best
}

// estimatePose строит FacePose по рамке лица и найденным глазам (координаты глаз
// относительно верхней части рамки).
func estimatePose(box image.Rectangle, eyeRects []image.Rectangle, maxYaw float64) *entity.FacePose {
	x, y := float64(box.Min.X), float64(box.Min.Y)
	w, h := float64(box.Dx()), float64(box.Dy())

	pose := &entity.FacePose{
		BoundingBox: entity.Rect{X: x, Y: y, Width: w, Height: h},
		Landmarks: map[entity.LandmarkType]entity.Point{
			entity.LandmarkNoseBase:    {X: x + w*0.5, Y: y + h*0.62},
			entity.LandmarkMouthLeft:   {X: x + w*0.32, Y: y + h*0.78},
			entity.LandmarkMouthRight:  {X: x + w*0.68, Y: y + h*0.78},
			entity.LandmarkMouthBottom: {X: x + w*0.5, Y: y + h*0.86},
			entity.LandmarkLeftCheek:   {X: x + w*0.25, Y: y + h*0.6},
			entity.LandmarkRightCheek:  {X: x + w*0.75, Y: y + h*0.6},
		},
	}

	if len(eyeRects) < 2 {
		return pose
	}
	a, b := centerOf(eyeRects[0]), centerOf(eyeRects[1])
	if a.X > b.X {
		a, b = b, a
	}
	// Левый глаз человека на кадре справа
	right := entity.Point{X: x + a.X, Y: y + a.Y}
	left := entity.Point{X: x + b.X, Y: y + b.Y}
	pose.Landmarks[entity.LandmarkRightEye] = right
	pose.Landmarks[entity.LandmarkLeftEye] = left

	pose.Roll = math.Atan2(left.Y-right.Y, left.X-right.X) * 180 / math.Pi
	mid := (left.X + right.X) / 2
	pose.Yaw = (mid - (x + w/2)) / (w / 2) * maxYaw
	return pose
}

func centerOf(r image.Rectangle) entity.Point {
	return entity.Point{X: float64(r.Min.X+r.Max.X) / 2, Y: float64(r.Min.Y+r.Max.Y) / 2}
}

func rescale(pose *entity.FacePose, k float64) *entity.FacePose {
	if k == 1 {
		return pose
	}
	for t, p := range pose.Landmarks {
		pose.Landmarks[t] = entity.Point{X: p.X * k, Y: p.Y * k}
	}
	b := pose.BoundingBox
	pose.BoundingBox = entity.Rect{X: b.X * k, Y: b.Y * k, Width: b.Width * k, Height: b.Height * k}
	return pose
}
