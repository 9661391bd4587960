package entity

import "time"

// CapturePhase фаза автосъёмки
type CapturePhase string

const (
	PhaseIdle         CapturePhase = "idle"          // Ждём хорошее положение лица
	PhaseCountingDown CapturePhase = "counting_down" // Идёт обратный отсчёт
	PhaseCapturing    CapturePhase = "capturing"     // Идёт съёмка
)

// CaptureSession состояние одной попытки съёмки.
// Remaining задан только в фазе PhaseCountingDown.
type CaptureSession struct {
	ID        string
	Phase     CapturePhase
	Remaining *int
	StartedAt time.Time
}

// IdleSession возвращает пустую сессию в фазе ожидания
func IdleSession() CaptureSession {
	return CaptureSession{Phase: PhaseIdle}
}

// ImageHandle снимок, полученный от камеры
type ImageHandle struct {
	Path       string
	Data       []byte
	CapturedAt time.Time
}

// Update инструкция для одного поля: оставить как есть или записать значение.
// Нулевое значение означает «оставить».
type Update[T any] struct {
	set   bool
	value T
}

// Keep возвращает инструкцию «не менять»
func Keep[T any]() Update[T] {
	return Update[T]{}
}

// Set возвращает инструкцию «записать v» (в том числе nil)
func Set[T any](v T) Update[T] {
	return Update[T]{set: true, value: v}
}

// Apply применяет инструкцию к текущему значению
func (u Update[T]) Apply(current T) T {
	if u.set {
		return u.value
	}
	return current
}

// IsSet сообщает, требует ли инструкция записи
func (u Update[T]) IsSet() bool {
	return u.set
}

// CameraState снимок состояния, который видит слой отображения
type CameraState struct {
	Face           *FacePose
	Dimensions     FrameDimensions
	WellPositioned bool
	Countdown      *int
	Capturing      bool
}

// StateChange набор изменений для CameraState
type StateChange struct {
	Face           Update[*FacePose]
	Dimensions     Update[FrameDimensions]
	WellPositioned Update[bool]
	Countdown      Update[*int]
	Capturing      Update[bool]
}

// With возвращает новое состояние с применёнными изменениями. Исходное не меняется.
func (s CameraState) With(c StateChange) CameraState {
	return CameraState{
		Face:           c.Face.Apply(s.Face),
		Dimensions:     c.Dimensions.Apply(s.Dimensions),
		WellPositioned: c.WellPositioned.Apply(s.WellPositioned),
		Countdown:      copyInt(c.Countdown.Apply(s.Countdown)),
		Capturing:      c.Capturing.Apply(s.Capturing),
	}
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	n := *v
	return &n
}
