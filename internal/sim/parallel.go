package sim

import (
	"context"
	"sync"
)

// Factory builds the simulator for run idx of an ensemble.
type Factory func(idx int) (*Simulator, error)

// Ensemble runs independent simulations concurrently. Every run gets a
// fresh simulator from the factory; scratch fields are pooled across runs
// of the same grid size.
type Ensemble struct {
	factory Factory
	numRuns int
}

func NewEnsemble(factory Factory, numRuns int) *Ensemble {
	return &Ensemble{factory: factory, numRuns: numRuns}
}

func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)
	pools := make(map[int]*FieldPool)
	var poolMu sync.Mutex

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			sim, err := e.factory(idx)
			if err != nil {
				errs[idx] = err
				return
			}
			if sim == nil {
				errs[idx] = ErrNoSolver
				return
			}
			if sim.solver != nil {
				cells := sim.solver.Grid().Cells()
				poolMu.Lock()
				p, ok := pools[cells]
				if !ok {
					p = NewFieldPool(cells)
					pools[cells] = p
				}
				poolMu.Unlock()
				sim.SetPool(p)
			}

			results[idx], errs[idx] = sim.Run(ctx, cfg)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
