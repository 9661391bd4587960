package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"face-capture/internal/domain/entity"
	"face-capture/internal/domain/port"
)

var (
	// ErrCaptureInProgress съёмка уже идёт
	ErrCaptureInProgress = errors.New("capture already in progress")
	// ErrControllerClosed контроллер остановлен
	ErrControllerClosed = errors.New("capture controller closed")
)

const countdownInterval = time.Second

// CaptureController принимает кадры, оценивает положение лица и управляет автосъёмкой.
// Состояние меняется только через его методы и публикуется подписчикам.
type CaptureController struct {
	cfg       CaptureConfig
	detector  port.FaceDetector
	camera    port.Camera
	ticker    port.Ticker
	log       logrus.FieldLogger
	onCapture func(*entity.ImageHandle)

	gate FrameGate

	mu           sync.Mutex
	machine      *CaptureMachine
	state        entity.CameraState
	stopTimer    func()
	observers    map[int]chan entity.CameraState
	nextObserver int
	closed       bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewCaptureController создаёт контроллер. onCapture вызывается после каждой
// съёмки, при ошибке съёмки с nil.
func NewCaptureController(
	cfg CaptureConfig,
	detector port.FaceDetector,
	camera port.Camera,
	ticker port.Ticker,
	log logrus.FieldLogger,
	onCapture func(*entity.ImageHandle),
) (*CaptureController, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if detector == nil || camera == nil || ticker == nil {
		return nil, fmt.Errorf("%w: detector, camera and ticker are required", ErrInvalidConfig)
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &CaptureController{
		cfg:       cfg,
		detector:  detector,
		camera:    camera,
		ticker:    ticker,
		log:       log,
		onCapture: onCapture,
		machine:   NewCaptureMachine(cfg),
		observers: make(map[int]chan entity.CameraState),
		ctx:       ctx,
		cancel:    cancel,
	}, nil
}

// ProcessFrame прогоняет кадр через детектор и автомат съёмки.
// false, если кадр отброшен, потому что предыдущий ещё обрабатывается.
func (c *CaptureController) ProcessFrame(ctx context.Context, frame entity.Frame) bool {
	return c.gate.Run(func() {
		c.processFrame(ctx, frame)
	})
}

func (c *CaptureController) processFrame(ctx context.Context, frame entity.Frame) {
	dims := c.camera.PreviewSize()
	if !dims.Valid() {
		dims = frame.Dimensions()
	}

	defer func() {
		if r := recover(); r != nil {
			c.log.WithField("panic", r).Error("face detection panicked")
			c.applyDetection(nil, dims)
		}
	}()

	face, err := c.detector.Detect(ctx, frame, c.cfg.PerformanceMode)
	if err != nil {
		c.log.WithError(err).Warn("face detection failed")
		face = nil
	}

	c.applyDetection(face, dims)
}

func (c *CaptureController) applyDetection(face *entity.FacePose, dims entity.FrameDimensions) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	// Вердикт записывается в состояние до решения о съёмке
	verdict := Evaluate(face, dims)
	c.state = c.state.With(entity.StateChange{
		Face:           entity.Set(face),
		Dimensions:     entity.Set(dims),
		WellPositioned: entity.Set(verdict.WellPositioned),
	})

	c.apply(c.machine.Observe(verdict))
	c.publish()
}

func (c *CaptureController) onTick(generation uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}

	before := c.machine.Session()
	c.apply(c.machine.Tick(generation))
	if after := c.machine.Session(); after.Phase != before.Phase || !sameCount(after.Remaining, before.Remaining) {
		c.log.WithFields(logrus.Fields{
			"session_id": after.ID,
			"phase":      after.Phase,
		}).Debug("countdown tick")
		c.publish()
	}
}

// apply выполняет эффекты перехода. Вызывается под c.mu.
func (c *CaptureController) apply(e Effects) {
	if e.StopTimer {
		c.stopCountdownTimer()
	}
	if e.StartTimer {
		c.stopCountdownTimer()
		generation := e.Generation
		c.stopTimer = c.ticker.Start(countdownInterval, func() {
			c.onTick(generation)
		})
		c.log.WithField("session_id", c.machine.Session().ID).Info("countdown started")
	}
	if e.Capture {
		c.wg.Add(1)
		go c.runCapture(c.machine.Session().ID)
	}

	session := c.machine.Session()
	c.state = c.state.With(entity.StateChange{
		Countdown: entity.Set(session.Remaining),
		Capturing: entity.Set(session.Phase == entity.PhaseCapturing),
	})
}

func (c *CaptureController) stopCountdownTimer() {
	if c.stopTimer != nil {
		c.stopTimer()
		c.stopTimer = nil
	}
}

func (c *CaptureController) runCapture(sessionID string) {
	defer c.wg.Done()

	log := c.log.WithField("session_id", sessionID)
	log.Info("capture started")

	if err := c.camera.StopStream(c.ctx); err != nil {
		log.WithError(err).Warn("failed to stop stream before capture")
	}

	image, err := c.camera.Capture(c.ctx)
	if err != nil {
		log.WithError(err).Error("capture failed")
		image = nil
	} else {
		log.WithField("path", image.Path).Info("capture finished")
	}

	if err := c.camera.StartStream(c.ctx); err != nil {
		log.WithError(err).Warn("failed to resume stream after capture")
	}

	c.mu.Lock()
	c.machine.CaptureFinished()
	c.apply(Effects{})
	c.publish()
	c.mu.Unlock()

	if c.onCapture != nil {
		c.onCapture(image)
	}
}

// TakePicture запускает съёмку вручную, прерывая отсчёт
func (c *CaptureController) TakePicture() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrControllerClosed
	}
	e, ok := c.machine.Trigger()
	if !ok {
		return ErrCaptureInProgress
	}
	c.apply(e)
	c.publish()
	return nil
}

// CancelCountdown прерывает отсчёт. Без активного отсчёта ничего не делает.
func (c *CaptureController) CancelCountdown() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.apply(c.machine.Cancel())
	c.publish()
}

// State возвращает текущий снимок состояния
func (c *CaptureController) State() entity.CameraState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.With(entity.StateChange{})
}

// Session возвращает текущую сессию съёмки
func (c *CaptureController) Session() entity.CaptureSession {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.machine.Session()
}

// Guidance возвращает подсказку для последнего обработанного кадра
func (c *CaptureController) Guidance() (entity.GuidanceReason, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Guidance(c.state.Face, c.state.Dimensions, c.state.WellPositioned)
}

// Stats счётчики обработанных и отброшенных кадров
func (c *CaptureController) Stats() GateStats {
	return c.gate.Stats()
}

// Subscribe возвращает канал со снимками состояния. Медленный подписчик
// получает только последний снимок.
func (c *CaptureController) Subscribe() (<-chan entity.CameraState, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch := make(chan entity.CameraState, 1)
	if c.closed {
		close(ch)
		return ch, func() {}
	}

	id := c.nextObserver
	c.nextObserver++
	c.observers[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			if existing, ok := c.observers[id]; ok {
				delete(c.observers, id)
				close(existing)
			}
		})
	}
}

// publish рассылает снимок подписчикам. Вызывается под c.mu.
func (c *CaptureController) publish() {
	snapshot := c.state
	for _, ch := range c.observers {
		select {
		case ch <- snapshot:
		default:
			// вытесняем устаревший снимок
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snapshot:
			default:
			}
		}
	}
}

// Close останавливает таймер, закрывает подписки и дожидается идущей съёмки
func (c *CaptureController) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.stopCountdownTimer()
	for id, ch := range c.observers {
		delete(c.observers, id)
		close(ch)
	}
	c.mu.Unlock()

	c.cancel()
	c.wg.Wait()
}

func sameCount(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
