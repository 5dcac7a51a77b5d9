package sensitivity

import (
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/conediff/conediff/internal/conic"
)

// Sweep evaluates Forward for every perturbation against one shared
// factorization, using up to workers goroutines (0 means GOMAXPROCS).
// Results are returned in input order. All shapes are validated before
// any solve starts; the first solve error aborts the sweep.
func (s *Session) Sweep(perts []conic.Perturbation, workers int) ([]Result, error) {
	s.mu.RLock()
	data := s.data
	s.mu.RUnlock()
	for _, p := range perts {
		if err := p.Validate(data); err != nil {
			return nil, err
		}
	}

	// Factorize up front so the workers only ever read.
	if err := s.build(); err != nil {
		return nil, err
	}

	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	s.log.Debug("starting sensitivity sweep",
		zap.Int("perturbations", len(perts)),
		zap.Int("workers", workers),
	)

	results := make([]Result, len(perts))
	var g errgroup.Group
	g.SetLimit(workers)
	for i, pert := range perts {
		i, pert := i, pert
		g.Go(func() error {
			res, err := s.Forward(pert)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
