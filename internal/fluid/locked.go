package fluid

import "sync"

// Locked serializes injection, stepping and reads of a Solver for
// front-ends that deliver input on a different goroutine than the
// frame loop.
type Locked struct {
	mu sync.Mutex
	s  *Solver
}

func NewLocked(s *Solver) *Locked {
	return &Locked{s: s}
}

func (l *Locked) AddDensity(x, y int, amount float64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.s.AddDensity(x, y, amount)
}

func (l *Locked) AddVelocity(x, y int, dx, dy float64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.s.AddVelocity(x, y, dx, dy)
}

func (l *Locked) Tick() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.s.Tick()
}

// Snapshot copies the density field into dst, growing it if needed.
func (l *Locked) Snapshot(dst []float64) []float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	if cap(dst) < len(l.s.density) {
		dst = make([]float64, len(l.s.density))
	}
	dst = dst[:len(l.s.density)]
	copy(dst, l.s.density)
	return dst
}

// With runs fn while holding the lock.
func (l *Locked) With(fn func(s *Solver)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fn(l.s)
}
