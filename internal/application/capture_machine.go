package app

import (
	"time"

	"github.com/google/uuid"

	"face-capture/internal/domain/entity"
)

// Effects действия, которые владелец автомата должен выполнить после перехода
type Effects struct {
	StopTimer  bool   // остановить таймер отсчёта
	StartTimer bool   // запустить таймер отсчёта с поколением Generation
	Generation uint64 // поколение отсчёта, которому принадлежат тики
	Capture    bool   // запустить съёмку (ровно один раз)
}

// CaptureMachine автомат Idle → CountingDown → Capturing → Idle.
// Не потокобезопасен: все вызовы сериализует владелец.
type CaptureMachine struct {
	cfg      CaptureConfig
	session  entity.CaptureSession
	gen      uint64
	eligible bool

	now   func() time.Time
	newID func() string
}

// NewCaptureMachine создаёт автомат в фазе Idle
func NewCaptureMachine(cfg CaptureConfig) *CaptureMachine {
	return &CaptureMachine{
		cfg:     cfg,
		session: entity.IdleSession(),
		now:     time.Now,
		newID:   func() string { return uuid.New().String() },
	}
}

// Session возвращает копию текущей сессии
func (m *CaptureMachine) Session() entity.CaptureSession {
	s := m.session
	if s.Remaining != nil {
		n := *s.Remaining
		s.Remaining = &n
	}
	return s
}

// Generation текущее поколение отсчёта
func (m *CaptureMachine) Generation() uint64 {
	return m.gen
}

// Observe применяет вердикт очередного кадра
func (m *CaptureMachine) Observe(v entity.Verdict) Effects {
	m.eligible = v.Eligible(m.cfg.IgnoreFacePositioning)

	switch m.session.Phase {
	case entity.PhaseCapturing:
		return Effects{}
	case entity.PhaseCountingDown:
		if !m.eligible {
			return m.Cancel()
		}
		return Effects{}
	}

	if !m.eligible || !m.cfg.AutoCapture {
		return Effects{}
	}
	if m.cfg.CaptureDelaySeconds == 0 {
		m.enterCapturing()
		return Effects{Capture: true}
	}

	remaining := m.cfg.CaptureDelaySeconds
	m.gen++
	m.session = entity.CaptureSession{
		ID:        m.newID(),
		Phase:     entity.PhaseCountingDown,
		Remaining: &remaining,
		StartedAt: m.now(),
	}
	return Effects{StartTimer: true, Generation: m.gen}
}

// Tick обрабатывает секундный тик. Тик чужого поколения игнорируется.
// Потеря положения проверяется до уменьшения счётчика.
func (m *CaptureMachine) Tick(generation uint64) Effects {
	if generation != m.gen || m.session.Phase != entity.PhaseCountingDown {
		return Effects{}
	}
	if !m.eligible {
		return m.Cancel()
	}

	remaining := *m.session.Remaining - 1
	if remaining > 0 {
		m.session.Remaining = &remaining
		return Effects{}
	}

	m.enterCapturing()
	return Effects{StopTimer: true, Capture: true}
}

// Cancel прерывает отсчёт. Повторный вызов ничего не меняет.
func (m *CaptureMachine) Cancel() Effects {
	if m.session.Phase != entity.PhaseCountingDown {
		return Effects{}
	}
	m.gen++
	m.session = entity.IdleSession()
	return Effects{StopTimer: true}
}

// Trigger запускает съёмку вручную. false, если съёмка уже идёт.
func (m *CaptureMachine) Trigger() (Effects, bool) {
	if m.session.Phase == entity.PhaseCapturing {
		return Effects{}, false
	}
	e := Effects{Capture: true}
	if m.session.Phase == entity.PhaseCountingDown {
		m.gen++
		e.StopTimer = true
	}
	m.enterCapturing()
	return e, true
}

// CaptureFinished возвращает автомат в Idle после съёмки (успешной или нет)
func (m *CaptureMachine) CaptureFinished() {
	if m.session.Phase == entity.PhaseCapturing {
		m.session = entity.IdleSession()
	}
}

func (m *CaptureMachine) enterCapturing() {
	id := m.session.ID
	startedAt := m.session.StartedAt
	if id == "" {
		id = m.newID()
		startedAt = m.now()
	}
	m.session = entity.CaptureSession{
		ID:        id,
		Phase:     entity.PhaseCapturing,
		StartedAt: startedAt,
	}
}
