package app

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"face-capture/internal/domain/entity"
)

var (
	positioned = entity.Verdict{FaceDetected: true, WellPositioned: true}
	misplaced  = entity.Verdict{FaceDetected: true}
	noFace     = entity.Verdict{}
)

func newTestMachine(delay int) *CaptureMachine {
	cfg := DefaultCaptureConfig()
	cfg.CaptureDelaySeconds = delay
	m := NewCaptureMachine(cfg)
	n := 0
	m.newID = func() string {
		n++
		return fmt.Sprintf("session-%d", n)
	}
	m.now = func() time.Time { return time.Unix(1700000000, 0) }
	return m
}

func remaining(t *testing.T, m *CaptureMachine) int {
	t.Helper()
	s := m.Session()
	require.Equal(t, entity.PhaseCountingDown, s.Phase)
	require.NotNil(t, s.Remaining)
	return *s.Remaining
}

func TestCaptureMachine_CountdownToCapture(t *testing.T) {
	m := newTestMachine(3)

	e := m.Observe(positioned)
	require.True(t, e.StartTimer)
	require.Equal(t, m.Generation(), e.Generation)

	values := []int{remaining(t, m)}
	for i := 0; i < 2; i++ {
		require.Equal(t, Effects{}, m.Tick(e.Generation))
		values = append(values, remaining(t, m))
	}
	require.Equal(t, []int{3, 2, 1}, values)

	last := m.Tick(e.Generation)
	require.True(t, last.Capture)
	require.True(t, last.StopTimer)

	s := m.Session()
	require.Equal(t, entity.PhaseCapturing, s.Phase)
	require.Nil(t, s.Remaining)
	require.Equal(t, "session-1", s.ID)

	m.CaptureFinished()
	require.Equal(t, entity.PhaseIdle, m.Session().Phase)
}

func TestCaptureMachine_LossResetsCountdown(t *testing.T) {
	m := newTestMachine(3)
	e := m.Observe(positioned)
	m.Tick(e.Generation)
	require.Equal(t, 2, remaining(t, m))

	cancel := m.Observe(misplaced)
	require.True(t, cancel.StopTimer)
	s := m.Session()
	require.Equal(t, entity.PhaseIdle, s.Phase)
	require.Nil(t, s.Remaining)

	// тик отменённого отсчёта ничего не меняет
	require.Equal(t, Effects{}, m.Tick(e.Generation))
	require.Equal(t, entity.PhaseIdle, m.Session().Phase)

	// новый отсчёт начинается с полного значения
	restart := m.Observe(positioned)
	require.True(t, restart.StartTimer)
	require.NotEqual(t, e.Generation, restart.Generation)
	require.Equal(t, 3, remaining(t, m))
}

func TestCaptureMachine_NoFaceCancels(t *testing.T) {
	m := newTestMachine(2)
	m.Observe(positioned)
	require.True(t, m.Observe(noFace).StopTimer)
	require.Equal(t, entity.PhaseIdle, m.Session().Phase)
}

func TestCaptureMachine_CancelIdempotent(t *testing.T) {
	m := newTestMachine(3)
	m.Observe(positioned)

	first := m.Cancel()
	require.True(t, first.StopTimer)
	once := m.Session()

	require.Equal(t, Effects{}, m.Cancel())
	require.Equal(t, once, m.Session())
	require.Equal(t, entity.PhaseIdle, once.Phase)
	require.Nil(t, once.Remaining)
}

func TestCaptureMachine_ZeroDelayCapturesImmediately(t *testing.T) {
	m := newTestMachine(0)
	e := m.Observe(positioned)
	require.True(t, e.Capture)
	require.False(t, e.StartTimer)
	require.Equal(t, entity.PhaseCapturing, m.Session().Phase)
	require.Nil(t, m.Session().Remaining)
}

func TestCaptureMachine_RepeatedObserveKeepsSingleTimer(t *testing.T) {
	m := newTestMachine(3)
	first := m.Observe(positioned)
	require.True(t, first.StartTimer)

	require.Equal(t, Effects{}, m.Observe(positioned))
	require.Equal(t, first.Generation, m.Generation())
	require.Equal(t, 3, remaining(t, m))
}

func TestCaptureMachine_CapturingIgnoresFrames(t *testing.T) {
	m := newTestMachine(0)
	m.Observe(positioned)

	require.Equal(t, Effects{}, m.Observe(positioned))
	require.Equal(t, Effects{}, m.Observe(noFace))
	require.Equal(t, Effects{}, m.Cancel())
	require.Equal(t, entity.PhaseCapturing, m.Session().Phase)

	_, ok := m.Trigger()
	require.False(t, ok)
}

func TestCaptureMachine_AutoCaptureDisabled(t *testing.T) {
	m := newTestMachine(3)
	m.cfg.AutoCapture = false
	require.Equal(t, Effects{}, m.Observe(positioned))
	require.Equal(t, entity.PhaseIdle, m.Session().Phase)
}

func TestCaptureMachine_IgnoreFacePositioning(t *testing.T) {
	m := newTestMachine(1)
	m.cfg.IgnoreFacePositioning = true

	e := m.Observe(misplaced)
	require.True(t, e.StartTimer)

	require.True(t, m.Tick(e.Generation).Capture)

	m.CaptureFinished()
	require.Equal(t, Effects{}, m.Observe(noFace))
}

func TestCaptureMachine_TriggerDuringCountdown(t *testing.T) {
	m := newTestMachine(3)
	started := m.Observe(positioned)

	e, ok := m.Trigger()
	require.True(t, ok)
	require.True(t, e.Capture)
	require.True(t, e.StopTimer)
	require.Equal(t, entity.PhaseCapturing, m.Session().Phase)
	require.Equal(t, "session-1", m.Session().ID)

	require.Equal(t, Effects{}, m.Tick(started.Generation))
}
