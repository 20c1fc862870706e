package fluid

// Divergence writes -0.5*(du/dx + dv/dy)/N for every interior cell of
// (u, v) into div. The boundary ring of div is left untouched.
func Divergence(g Grid, u, v, div []float64) {
	n := g.N
	h := 1.0 / float64(n)
	g.rows(func(j0, j1 int) {
		for j := j0; j < j1; j++ {
			row := n * j
			for i := 1; i < n-1; i++ {
				p := row + i
				div[p] = -0.5 * (u[p+1] - u[p-1] + v[p+n] - v[p-n]) * h
			}
		}
	})
}

// Project removes the gradient of a pressure estimate from (u, v) so the
// field is approximately divergence-free. p and div are scratch buffers;
// their previous contents are discarded.
func Project(g Grid, u, v, p, div []float64) {
	n := g.N

	Divergence(g, u, v, div)
	g.rows(func(j0, j1 int) {
		clear(p[n*j0 : n*j1])
	})
	SetBoundary(g, Scalar, div)
	SetBoundary(g, Scalar, p)

	LinearSolve(g, Scalar, p, div, 1, 4)

	scale := 0.5 * float64(n)
	g.rows(func(j0, j1 int) {
		for j := j0; j < j1; j++ {
			row := n * j
			for i := 1; i < n-1; i++ {
				q := row + i
				u[q] -= scale * (p[q+1] - p[q-1])
				v[q] -= scale * (p[q+n] - p[q-n])
			}
		}
	})
	SetBoundary(g, VelocityX, u)
	SetBoundary(g, VelocityY, v)
}
