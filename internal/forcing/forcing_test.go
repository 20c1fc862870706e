package forcing

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/fluidsim/internal/fluid"
)

type impulse struct {
	x, y          int
	d, vx, vy     float64
	density, flow bool
}

type recorder struct {
	got []impulse
}

func (r *recorder) AddDensity(x, y int, amount float64) error {
	r.got = append(r.got, impulse{x: x, y: y, d: amount, density: true})
	return nil
}

func (r *recorder) AddVelocity(x, y int, dx, dy float64) error {
	r.got = append(r.got, impulse{x: x, y: y, vx: dx, vy: dy, flow: true})
	return nil
}

func TestWindow(t *testing.T) {
	tests := []struct {
		w    Window
		tick int
		want bool
	}{
		{Window{}, 0, true},
		{Window{}, 1000, true},
		{Window{Start: 5}, 4, false},
		{Window{Start: 5}, 5, true},
		{Window{Stop: 3}, 2, true},
		{Window{Stop: 3}, 3, false},
	}
	for _, tt := range tests {
		if got := tt.w.Active(tt.tick); got != tt.want {
			t.Errorf("%+v.Active(%d) = %v, want %v", tt.w, tt.tick, got, tt.want)
		}
	}
}

func TestPoint(t *testing.T) {
	r := &recorder{}
	p := &Point{X: 3, Y: 4, Density: 2, VX: 1, Window: Window{Stop: 1}}

	if err := p.Apply(r, 0); err != nil {
		t.Fatal(err)
	}
	if err := p.Apply(r, 1); err != nil {
		t.Fatal(err)
	}
	if len(r.got) != 2 {
		t.Fatalf("expected 2 impulses, got %d", len(r.got))
	}
	if !r.got[0].density || r.got[0].d != 2 || !r.got[1].flow || r.got[1].vx != 1 {
		t.Errorf("unexpected impulses: %+v", r.got)
	}
}

func TestSwirlRotates(t *testing.T) {
	r := &recorder{}
	s := &Swirl{X: 1, Y: 1, Speed: 2, Rate: math.Pi / 2}
	_ = s.Apply(r, 0)
	_ = s.Apply(r, 1)

	if math.Abs(r.got[0].vx-2) > 1e-12 || math.Abs(r.got[0].vy) > 1e-12 {
		t.Errorf("tick 0: expected (2,0), got (%v,%v)", r.got[0].vx, r.got[0].vy)
	}
	if math.Abs(r.got[1].vx) > 1e-12 || math.Abs(r.got[1].vy-2) > 1e-12 {
		t.Errorf("tick 1: expected (0,2), got (%v,%v)", r.got[1].vx, r.got[1].vy)
	}
}

func TestJet(t *testing.T) {
	r := &recorder{}
	j := &Jet{X: 10, Y: 2, Length: 4, Horizontal: true, VY: 3}
	if err := j.Apply(r, 0); err != nil {
		t.Fatal(err)
	}
	if len(r.got) != 4 {
		t.Fatalf("expected 4 impulses, got %d", len(r.got))
	}
	for k, imp := range r.got {
		if imp.x != 10+k || imp.y != 2 {
			t.Errorf("impulse %d at (%d,%d)", k, imp.x, imp.y)
		}
	}
}

func TestRandomDeterministic(t *testing.T) {
	run := func() []impulse {
		r := &recorder{}
		src := NewRandom(32, 1, 1, 2, 99)
		for tick := 0; tick < 10; tick++ {
			_ = src.Apply(r, tick)
		}
		return r.got
	}
	a, b := run(), run()
	if len(a) != 10 {
		t.Fatalf("expected 5 puffs of 2 impulses, got %d", len(a))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("impulse %d differs: %+v vs %+v", i, a[i], b[i])
		}
		if a[i].x < 1 || a[i].x > 30 || a[i].y < 1 || a[i].y > 30 {
			t.Errorf("puff outside interior: %+v", a[i])
		}
	}
}

func TestEmitPropagatesBoundsError(t *testing.T) {
	s, err := fluid.New(fluid.Grid{N: 8, Dt: 0.1, Iterations: 1, FadeRate: 1})
	if err != nil {
		t.Fatal(err)
	}
	p := &Point{X: 20, Y: 0, Density: 1}
	if err := p.Apply(s, 0); !errors.Is(err, fluid.ErrOutOfBounds) {
		t.Errorf("expected ErrOutOfBounds, got %v", err)
	}
}
