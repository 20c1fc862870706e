package fluid

import (
	"errors"
	"math"
	"testing"
)

func TestGridValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Grid)
		param  string
	}{
		{"too small", func(g *Grid) { g.N = 2 }, "size"},
		{"zero dt", func(g *Grid) { g.Dt = 0 }, "dt"},
		{"nan dt", func(g *Grid) { g.Dt = math.NaN() }, "dt"},
		{"negative diffusion", func(g *Grid) { g.Diffusion = -1 }, "diffusion"},
		{"negative viscosity", func(g *Grid) { g.Viscosity = -1 }, "viscosity"},
		{"no iterations", func(g *Grid) { g.Iterations = 0 }, "iterations"},
		{"fade above one", func(g *Grid) { g.FadeRate = 1.5 }, "fade"},
		{"negative workers", func(g *Grid) { g.Workers = -2 }, "workers"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := DefaultGrid()
			tt.mutate(&g)
			err := g.Validate()
			if !errors.Is(err, ErrInvalidGrid) {
				t.Fatalf("expected ErrInvalidGrid, got %v", err)
			}
			var pe *ParamError
			if !errors.As(err, &pe) || pe.Param != tt.param {
				t.Errorf("expected param %q, got %v", tt.param, err)
			}
		})
	}

	if err := DefaultGrid().Validate(); err != nil {
		t.Errorf("default grid should be valid: %v", err)
	}
}

func TestGridIdx(t *testing.T) {
	g := Grid{N: 5}
	if got := g.Idx(3, 2); got != 13 {
		t.Errorf("expected 13, got %d", got)
	}
	if g.InBounds(5, 0) || g.InBounds(0, -1) {
		t.Error("expected out of bounds")
	}
	if !g.InBounds(4, 4) {
		t.Error("expected (4,4) in bounds")
	}
}

func TestParseOrdering(t *testing.T) {
	for in, want := range map[string]Ordering{
		"":              Lexicographic,
		"lexicographic": Lexicographic,
		"red-black":     RedBlack,
		"rb":            RedBlack,
	} {
		got, err := ParseOrdering(in)
		if err != nil || got != want {
			t.Errorf("ParseOrdering(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseOrdering("jacobi"); !errors.Is(err, ErrInvalidGrid) {
		t.Errorf("expected ErrInvalidGrid, got %v", err)
	}
}

func TestParseInjection(t *testing.T) {
	if m, err := ParseInjection("direct"); err != nil || m != Direct {
		t.Errorf("expected direct, got %v, %v", m, err)
	}
	if m, err := ParseInjection(""); err != nil || m != Staged {
		t.Errorf("expected staged default, got %v, %v", m, err)
	}
	if _, err := ParseInjection("sideways"); err == nil {
		t.Error("expected error for unknown mode")
	}
}
