package fluid

// LinearSolve relaxes x toward the solution of
//
//	c*x[i,j] - a*(x[i-1,j] + x[i+1,j] + x[i,j-1] + x[i,j+1]) = x0[i,j]
//
// with a fixed number of sweeps (g.Iterations) and no convergence test.
// The boundary of x is resealed with kind k after every sweep.
func LinearSolve(g Grid, k Kind, x, x0 []float64, a, c float64) {
	inv := 1.0 / c
	for iter := 0; iter < g.Iterations; iter++ {
		switch g.Sweep {
		case RedBlack:
			sweepColor(g, x, x0, a, inv, 0)
			sweepColor(g, x, x0, a, inv, 1)
		default:
			sweepLex(g, x, x0, a, inv)
		}
		SetBoundary(g, k, x)
	}
}

func sweepLex(g Grid, x, x0 []float64, a, inv float64) {
	n := g.N
	for j := 1; j < n-1; j++ {
		row := n * j
		for i := 1; i < n-1; i++ {
			p := row + i
			x[p] = (x0[p] + a*(x[p-1]+x[p+1]+x[p-n]+x[p+n])) * inv
		}
	}
}

// sweepColor updates the cells where (i+j)%2 == color.
func sweepColor(g Grid, x, x0 []float64, a, inv float64, color int) {
	n := g.N
	g.rows(func(j0, j1 int) {
		for j := j0; j < j1; j++ {
			row := n * j
			start := 1 + (1+j+color)&1
			for i := start; i < n-1; i += 2 {
				p := row + i
				x[p] = (x0[p] + a*(x[p-1]+x[p+1]+x[p-n]+x[p+n])) * inv
			}
		}
	})
}

// Diffuse spreads x0 into x with coefficient coeff over one time step.
func Diffuse(g Grid, k Kind, x, x0 []float64, coeff float64) {
	inner := float64(g.N - 2)
	a := g.Dt * coeff * inner * inner
	LinearSolve(g, k, x, x0, a, 1+4*a)
}
