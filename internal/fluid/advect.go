package fluid

import "math"

// Advect moves d0 along (u, v) for one time step and writes the result to
// d. Each interior cell is traced backwards and sampled bilinearly. The
// departure point is clamped to [0.5, N-1.5] so all four samples stay on
// the grid.
func Advect(g Grid, k Kind, d, d0, u, v []float64) {
	n := g.N
	dt0 := g.Dt * float64(n-2)
	lo, hi := 0.5, float64(n)-1.5

	g.rows(func(r0, r1 int) {
		for j := r0; j < r1; j++ {
			row := n * j
			for i := 1; i < n-1; i++ {
				q := row + i
				x := clamp(float64(i)-dt0*u[q], lo, hi)
				y := clamp(float64(j)-dt0*v[q], lo, hi)

				i0 := int(math.Floor(x))
				j0 := int(math.Floor(y))
				s1 := x - float64(i0)
				s0 := 1 - s1
				t1 := y - float64(j0)
				t0 := 1 - t1

				p := i0 + n*j0
				d[q] = s0*(t0*d0[p]+t1*d0[p+n]) + s1*(t0*d0[p+1]+t1*d0[p+n+1])
			}
		}
	})
	SetBoundary(g, k, d)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo || v != v {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
