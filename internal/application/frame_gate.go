package app

import "sync/atomic"

// GateStats счётчики входящих кадров
type GateStats struct {
	Processed uint64
	Dropped   uint64
}

// FrameGate пропускает не больше одного цикла обработки кадра за раз.
// Кадр, пришедший во время цикла, отбрасывается без очереди.
type FrameGate struct {
	busy      atomic.Bool
	processed atomic.Uint64
	dropped   atomic.Uint64
}

// Run выполняет fn, если шлюз свободен. Флаг снимается и при панике в fn.
func (g *FrameGate) Run(fn func()) bool {
	if !g.busy.CompareAndSwap(false, true) {
		g.dropped.Add(1)
		return false
	}
	defer g.busy.Store(false)

	g.processed.Add(1)
	fn()
	return true
}

// Busy сообщает, идёт ли сейчас обработка
func (g *FrameGate) Busy() bool {
	return g.busy.Load()
}

// Stats возвращает счётчики
func (g *FrameGate) Stats() GateStats {
	return GateStats{
		Processed: g.processed.Load(),
		Dropped:   g.dropped.Load(),
	}
}
