package entity

import "math"

// LandmarkType название анатомической точки лица
type LandmarkType string

const (
	LandmarkLeftEye     LandmarkType = "left_eye"
	LandmarkRightEye    LandmarkType = "right_eye"
	LandmarkNoseBase    LandmarkType = "nose_base"
	LandmarkMouthLeft   LandmarkType = "mouth_left"
	LandmarkMouthRight  LandmarkType = "mouth_right"
	LandmarkMouthBottom LandmarkType = "mouth_bottom"
	LandmarkLeftEar     LandmarkType = "left_ear"
	LandmarkRightEar    LandmarkType = "right_ear"
	LandmarkLeftCheek   LandmarkType = "left_cheek"
	LandmarkRightCheek  LandmarkType = "right_cheek"
)

// RequiredLandmarks точки, которые обязаны попасть в кадр
var RequiredLandmarks = []LandmarkType{
	LandmarkLeftEye,
	LandmarkRightEye,
	LandmarkNoseBase,
	LandmarkMouthLeft,
	LandmarkMouthRight,
	LandmarkMouthBottom,
}

// Point точка в пиксельных координатах исходного кадра
type Point struct {
	X float64
	Y float64
}

// Distance возвращает евклидово расстояние между точками
func (p Point) Distance(o Point) float64 {
	return math.Hypot(p.X-o.X, p.Y-o.Y)
}

// Rect ограничивающий прямоугольник лица в пикселях
type Rect struct {
	X      float64 // координата X левого верхнего угла
	Y      float64 // координата Y левого верхнего угла
	Width  float64
	Height float64
}

// Center возвращает координаты центра прямоугольника
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// FrameDimensions размеры координатного пространства, в котором заданы точки
type FrameDimensions struct {
	Width  int
	Height int
}

// Valid сообщает, можно ли нормализовать координаты по этим размерам
func (d FrameDimensions) Valid() bool {
	return d.Width > 0 && d.Height > 0
}

// Normalize переводит точку в [0,1]×[0,1]. Детектор может выдать точку за
// границами кадра, такие координаты прижимаются к краю.
// TODO: решить, не считать ли выход за кадр шумом детектора и не отбрасывать ли такой кадр.
func (d FrameDimensions) Normalize(p Point) Point {
	return Point{
		X: clamp01(p.X / float64(d.Width)),
		Y: clamp01(p.Y / float64(d.Height)),
	}
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}

// FacePose результат детектора для одного кадра. После создания не меняется.
type FacePose struct {
	Landmarks   map[LandmarkType]Point
	Yaw         float64 // поворот головы влево-вправо, градусы
	Roll        float64 // наклон головы к плечу, градусы
	BoundingBox Rect
	TrackingID  int
}

// Landmark возвращает точку по типу, если детектор её нашёл
func (f *FacePose) Landmark(t LandmarkType) (Point, bool) {
	if f == nil || f.Landmarks == nil {
		return Point{}, false
	}
	p, ok := f.Landmarks[t]
	return p, ok
}

// PerformanceMode компромисс между скоростью и точностью детектора
type PerformanceMode string

const (
	PerformanceFast     PerformanceMode = "fast"
	PerformanceAccurate PerformanceMode = "accurate"
)

// Frame кадр видеопотока в закодированном виде (JPEG)
type Frame struct {
	Data   []byte
	Width  int
	Height int
}

// Dimensions возвращает размеры кадра
func (f Frame) Dimensions() FrameDimensions {
	return FrameDimensions{Width: f.Width, Height: f.Height}
}
