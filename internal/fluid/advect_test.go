package fluid

import (
	"math"
	"testing"
)

func uniform(g Grid, val float64) []float64 {
	x := g.NewField()
	for i := range x {
		x[i] = val
	}
	return x
}

func TestAdvectZeroVelocityCopiesInterior(t *testing.T) {
	g := Grid{N: 16, Dt: 0.1}
	n := g.N
	d0 := randomField(g, 11)
	d := g.NewField()

	Advect(g, Scalar, d, d0, g.NewField(), g.NewField())

	for j := 1; j < n-1; j++ {
		for i := 1; i < n-1; i++ {
			if q := g.Idx(i, j); d[q] != d0[q] {
				t.Fatalf("cell (%d,%d): expected %v, got %v", i, j, d0[q], d[q])
			}
		}
	}
}

func TestAdvectUniformVelocityShifts(t *testing.T) {
	// dt*(N-2) = 4, so unit velocity moves the blob four cells.
	g := Grid{N: 34, Dt: 0.125}
	const bx, by = 10, 12

	tests := []struct {
		name         string
		u, v         float64
		wantX, wantY int
	}{
		{"right", 1, 0, bx + 4, by},
		{"left", -1, 0, bx - 4, by},
		{"up", 0, 1, bx, by + 4},
		{"down", 0, -1, bx, by - 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d0 := g.NewField()
			d0[g.Idx(bx, by)] = 1
			d := g.NewField()

			Advect(g, Scalar, d, d0, uniform(g, tt.u), uniform(g, tt.v))

			if got := d[g.Idx(tt.wantX, tt.wantY)]; got != 1 {
				t.Errorf("expected blob at (%d,%d), got %v", tt.wantX, tt.wantY, got)
			}
			if got := d[g.Idx(bx, by)]; got != 0 {
				t.Errorf("expected origin emptied, got %v", got)
			}
			sum := 0.0
			for j := 1; j < g.N-1; j++ {
				for i := 1; i < g.N-1; i++ {
					sum += d[g.Idx(i, j)]
				}
			}
			if sum != 1 {
				t.Errorf("expected interior sum 1, got %v", sum)
			}
		})
	}
}

func TestAdvectClampsBackTrace(t *testing.T) {
	g := Grid{N: 12, Dt: 0.1}
	n := g.N
	d0 := randomField(g, 5)
	at := func(i, j int) float64 { return d0[g.Idx(i, j)] }

	// Departure points far outside the grid land on the half-cell inside
	// the nearest wall, so each sample averages two adjacent rows or
	// columns.
	tests := []struct {
		name string
		u, v float64
		want func(i, j int) float64
	}{
		{"left wall", 1e6, 0, func(i, j int) float64 { return 0.5 * (at(0, j) + at(1, j)) }},
		{"right wall", -1e6, 0, func(i, j int) float64 { return 0.5 * (at(n-2, j) + at(n-1, j)) }},
		{"bottom wall", 0, 1e6, func(i, j int) float64 { return 0.5 * (at(i, 0) + at(i, 1)) }},
		{"top wall", 0, -1e6, func(i, j int) float64 { return 0.5 * (at(i, n-2) + at(i, n-1)) }},
		{"infinite", math.Inf(1), 0, func(i, j int) float64 { return 0.5 * (at(0, j) + at(1, j)) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := g.NewField()
			Advect(g, Scalar, d, d0, uniform(g, tt.u), uniform(g, tt.v))

			if !IsFinite(d) {
				t.Fatal("expected finite output")
			}
			for j := 1; j < n-1; j++ {
				for i := 1; i < n-1; i++ {
					want := tt.want(i, j)
					if got := d[g.Idx(i, j)]; math.Abs(got-want) > 1e-12 {
						t.Fatalf("cell (%d,%d): expected %v, got %v", i, j, want, got)
					}
				}
			}
		})
	}
}
