package fluid

// Kind selects the reflection rule applied to a field at the walls.
type Kind int

const (
	// Scalar copies the adjacent interior value on every edge.
	Scalar Kind = iota
	// VelocityX negates at the left and right walls.
	VelocityX
	// VelocityY negates at the top and bottom walls.
	VelocityY
)

func (k Kind) String() string {
	switch k {
	case Scalar:
		return "scalar"
	case VelocityX:
		return "velocity-x"
	case VelocityY:
		return "velocity-y"
	default:
		return "unknown"
	}
}

// SetBoundary overwrites the boundary ring of x from its interior
// neighbours. Corners are written last as the mean of their two edge
// neighbours.
func SetBoundary(g Grid, k Kind, x []float64) {
	n := g.N
	sx, sy := 1.0, 1.0
	switch k {
	case VelocityX:
		sx = -1
	case VelocityY:
		sy = -1
	}

	for i := 1; i < n-1; i++ {
		x[g.Idx(0, i)] = sx * x[g.Idx(1, i)]
		x[g.Idx(n-1, i)] = sx * x[g.Idx(n-2, i)]
		x[g.Idx(i, 0)] = sy * x[g.Idx(i, 1)]
		x[g.Idx(i, n-1)] = sy * x[g.Idx(i, n-2)]
	}

	x[g.Idx(0, 0)] = 0.5 * (x[g.Idx(1, 0)] + x[g.Idx(0, 1)])
	x[g.Idx(0, n-1)] = 0.5 * (x[g.Idx(1, n-1)] + x[g.Idx(0, n-2)])
	x[g.Idx(n-1, 0)] = 0.5 * (x[g.Idx(n-2, 0)] + x[g.Idx(n-1, 1)])
	x[g.Idx(n-1, n-1)] = 0.5 * (x[g.Idx(n-2, n-1)] + x[g.Idx(n-1, n-2)])
}
