package hedging

import (
	"fmt"
	"math"
	"runtime"
	"sync"

	"github.com/bcdannyboy/dhedge/models"
	"github.com/bcdannyboy/dhedge/pricing"
	"golang.org/x/exp/rand"
)

// forEachPath runs fn over path indices [0, n) on GOMAXPROCS workers, each
// owning a contiguous block of rows. fn must only touch state keyed by its
// index, so results never depend on worker count or scheduling.
func forEachPath(n int, fn func(i int) error) error {
	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers > n {
		numWorkers = n
	}
	perWorker := (n + numWorkers - 1) / numWorkers

	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func(start int) {
			defer wg.Done()
			end := start + perWorker
			if end > n {
				end = n
			}
			for i := start; i < end; i++ {
				if err := fn(i); err != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = err
					}
					mu.Unlock()
					return
				}
			}
		}(w * perWorker)
	}
	wg.Wait()

	return firstErr
}

// MonteCarloEuropean estimates the value of a European option from nSims
// simulated paths, delta-hedged nHedges times at equal intervals. Each entry
// of the returned distribution is one path's discounted payoff minus the
// discounted profit of the hedge trades along that path; the mean estimates
// the option value, and hedging tightens the spread around it. nHedges == 0
// prices without hedging from single-step paths.
func MonteCarloEuropean(g *models.GBM, opt models.Option, t float64, nSims, nHedges int, rng *rand.Rand) ([]float64, error) {
	if err := opt.Validate(); err != nil {
		return nil, err
	}
	if nHedges < 0 {
		return nil, fmt.Errorf("%w: number of hedges must be non-negative, got %d", models.ErrInvalidParameter, nHedges)
	}

	steps := nHedges
	if steps == 0 {
		steps = 1
	}
	paths, err := g.SimulatePaths(t, nSims, steps, rng)
	if err != nil {
		return nil, err
	}

	discount := math.Exp(-g.R * t)
	results := make([]float64, nSims)

	if nHedges == 0 {
		for i := 0; i < nSims; i++ {
			results[i] = discount * opt.Payoff(paths.At(i, 1))
		}
		return results, nil
	}

	dt := t / float64(nHedges)
	growth := math.Exp(g.R * dt)

	err = forEachPath(nSims, func(i int) error {
		row := paths.RawRowView(i)
		pnl := discount * opt.Payoff(row[nHedges])
		for j := 0; j < nHedges; j++ {
			delta, derr := pricing.Delta(row[j], opt.Strike, g.Sigma, t-float64(j)*dt, g.R, opt.Type)
			if derr != nil {
				return derr
			}
			pnl -= delta * (row[j+1] - row[j]*growth) * math.Exp(-g.R*float64(j+1)*dt)
		}
		results[i] = pnl
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// EuropeanSelfFinancingPnL simulates a seller who receives premium, runs a
// self-financing delta hedge rebalanced nSteps times, and returns the
// discounted terminal hedging error per path. With premium set to the
// Black-Scholes price the distribution is centered near zero.
func EuropeanSelfFinancingPnL(g *models.GBM, opt models.Option, t, premium float64, nSims, nSteps int, rng *rand.Rand) ([]float64, error) {
	if err := opt.Validate(); err != nil {
		return nil, err
	}
	paths, err := g.SimulatePaths(t, nSims, nSteps, rng)
	if err != nil {
		return nil, err
	}

	dt := t / float64(nSteps)
	growth := math.Exp(g.R * dt)
	discount := math.Exp(-g.R * t)

	delta0, err := pricing.Delta(g.S0, opt.Strike, g.Sigma, t, g.R, opt.Type)
	if err != nil {
		return nil, err
	}

	results := make([]float64, nSims)
	err = forEachPath(nSims, func(i int) error {
		row := paths.RawRowView(i)
		delta := delta0
		bond := premium - delta*g.S0
		for j := 0; j < nSteps; j++ {
			bond *= growth
			next, derr := pricing.Delta(row[j+1], opt.Strike, g.Sigma, t-float64(j+1)*dt, g.R, opt.Type)
			if derr != nil {
				return derr
			}
			bond -= (next - delta) * row[j+1]
			delta = next
		}
		value := delta*row[nSteps] + bond
		results[i] = (value - opt.Payoff(row[nSteps])) * discount
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}
