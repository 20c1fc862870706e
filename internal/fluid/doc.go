// Package fluid implements a 2D incompressible fluid solver using the
// semi-Lagrangian "stable fluids" scheme.
//
// The solver owns three working fields (density, horizontal velocity,
// vertical velocity) and three staging buffers on a fixed N×N grid whose
// outermost ring of cells is the boundary. Each call to [Solver.Step]
// runs the same eight stages in order:
//
//  1. inject staged sources (scaled by dt)
//  2. diffuse velocity
//  3. project velocity onto its divergence-free part
//  4. advect velocity along itself
//  5. project again
//  6. diffuse density
//  7. advect density along the velocity
//  8. clear the staging buffers
//
// The building blocks ([SetBoundary], [LinearSolve], [Diffuse], [Project],
// [Advect]) are exported so they can be exercised and benchmarked alone.
//
// # Example
//
//	s, err := fluid.New(fluid.DefaultGrid())
//	if err != nil {
//		return err
//	}
//	_ = s.AddDensity(64, 64, 4)
//	_ = s.AddVelocity(64, 64, 5, 0)
//	s.Step()
//	s.Fade()
//	d := s.Density()
//
// # Thread Safety
//
// A [Solver] is NOT safe for concurrent use. Injection must not overlap a
// step. Front-ends that receive input on another goroutine should wrap the
// solver with [NewLocked]. Internally a step fans work out across rows and
// joins before the next stage begins.
package fluid
