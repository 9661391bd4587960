package app

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"

	"face-capture/internal/domain/entity"
)

var testDims = entity.FrameDimensions{Width: 1000, Height: 1000}

// goodFace лицо по центру кадра 1000x1000 с расстоянием между глазами 0.2
func goodFace() *entity.FacePose {
	return &entity.FacePose{
		Landmarks: map[entity.LandmarkType]entity.Point{
			entity.LandmarkLeftEye:     {X: 400, Y: 450},
			entity.LandmarkRightEye:    {X: 600, Y: 450},
			entity.LandmarkNoseBase:    {X: 500, Y: 520},
			entity.LandmarkMouthLeft:   {X: 430, Y: 620},
			entity.LandmarkMouthRight:  {X: 570, Y: 620},
			entity.LandmarkMouthBottom: {X: 500, Y: 660},
		},
		BoundingBox: entity.Rect{X: 300, Y: 300, Width: 400, Height: 450},
	}
}

func withLandmark(f *entity.FacePose, t entity.LandmarkType, p entity.Point) *entity.FacePose {
	landmarks := make(map[entity.LandmarkType]entity.Point, len(f.Landmarks))
	for k, v := range f.Landmarks {
		landmarks[k] = v
	}
	landmarks[t] = p
	out := *f
	out.Landmarks = landmarks
	return &out
}

func withoutLandmark(f *entity.FacePose, t entity.LandmarkType) *entity.FacePose {
	out := withLandmark(f, t, entity.Point{})
	delete(out.Landmarks, t)
	return out
}

func testFrame() entity.Frame {
	return entity.Frame{Data: []byte("frame"), Width: testDims.Width, Height: testDims.Height}
}

type fakeDetector struct {
	mu      sync.Mutex
	face    *entity.FacePose
	err     error
	crash   bool
	block   chan struct{}
	started chan struct{}
	calls   int
	modes   []entity.PerformanceMode
}

func (d *fakeDetector) set(face *entity.FacePose, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.face, d.err = face, err
}

func (d *fakeDetector) Detect(ctx context.Context, frame entity.Frame, mode entity.PerformanceMode) (*entity.FacePose, error) {
	d.mu.Lock()
	d.calls++
	d.modes = append(d.modes, mode)
	face, err, crash, block, started := d.face, d.err, d.crash, d.block, d.started
	d.mu.Unlock()

	if started != nil {
		started <- struct{}{}
	}
	if block != nil {
		<-block
	}
	if crash {
		panic("detector crashed")
	}
	return face, err
}

func (d *fakeDetector) callCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls
}

type fakeCamera struct {
	dims entity.FrameDimensions

	mu       sync.Mutex
	err      error
	release  chan struct{}
	captures int
	stops    int
	starts   int
}

func (c *fakeCamera) PreviewSize() entity.FrameDimensions {
	return c.dims
}

func (c *fakeCamera) Capture(ctx context.Context) (*entity.ImageHandle, error) {
	c.mu.Lock()
	c.captures++
	err, release := c.err, c.release
	c.mu.Unlock()

	if release != nil {
		<-release
	}
	if err != nil {
		return nil, err
	}
	return &entity.ImageHandle{Path: "/tmp/capture.jpg", CapturedAt: time.Now()}, nil
}

func (c *fakeCamera) StopStream(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stops++
	return nil
}

func (c *fakeCamera) StartStream(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.starts++
	return nil
}

func (c *fakeCamera) counts() (captures, stops, starts int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.captures, c.stops, c.starts
}

var errCameraNotReady = errors.New("camera not ready")

// manualTicker тикает только по вызову tick()
type manualTicker struct {
	mu     sync.Mutex
	timers []*manualTimer
}

type manualTimer struct {
	interval time.Duration
	fn       func()
	stopped  atomic.Bool
}

func (m *manualTicker) Start(interval time.Duration, fn func()) func() {
	t := &manualTimer{interval: interval, fn: fn}
	m.mu.Lock()
	m.timers = append(m.timers, t)
	m.mu.Unlock()
	return func() { t.stopped.Store(true) }
}

func (m *manualTicker) tick() {
	m.mu.Lock()
	timers := append([]*manualTimer(nil), m.timers...)
	m.mu.Unlock()

	for _, t := range timers {
		if !t.stopped.Load() {
			t.fn()
		}
	}
}

func (m *manualTicker) active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.timers {
		if !t.stopped.Load() {
			n++
		}
	}
	return n
}

func (m *manualTicker) last() *manualTimer {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.timers) == 0 {
		return nil
	}
	return m.timers[len(m.timers)-1]
}

type testRig struct {
	ctrl     *CaptureController
	detector *fakeDetector
	camera   *fakeCamera
	ticker   *manualTicker
	captured chan *entity.ImageHandle
	logs     *logtest.Hook
}

func newTestRig(t *testing.T, cfg CaptureConfig) *testRig {
	t.Helper()

	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	rig := &testRig{
		detector: &fakeDetector{face: goodFace()},
		camera:   &fakeCamera{dims: testDims},
		ticker:   &manualTicker{},
		captured: make(chan *entity.ImageHandle, 4),
		logs:     hook,
	}
	ctrl, err := NewCaptureController(cfg, rig.detector, rig.camera, rig.ticker, logger, func(img *entity.ImageHandle) {
		rig.captured <- img
	})
	if err != nil {
		t.Fatalf("new controller: %v", err)
	}
	rig.ctrl = ctrl
	t.Cleanup(ctrl.Close)
	return rig
}

func (r *testRig) waitCapture(t *testing.T) *entity.ImageHandle {
	t.Helper()
	select {
	case img := <-r.captured:
		return img
	case <-time.After(2 * time.Second):
		t.Fatal("capture callback was not called")
		return nil
	}
}

func (r *testRig) hasLog(level logrus.Level, msg string) bool {
	for _, e := range r.logs.AllEntries() {
		if e.Level == level && e.Message == msg {
			return true
		}
	}
	return false
}
