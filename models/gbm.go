package models

import (
	"fmt"
	"math"
	"runtime"
	"sync"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

type GBM struct {
	S0    float64 // Initial price
	Sigma float64 // Annualized volatility of log-returns
	R     float64 // Risk-free rate
	Mu    float64 // Drift of log-returns in excess of the risk-free rate
}

func NewGBM(s0, sigma, r, mu float64) *GBM {
	return &GBM{
		S0:    s0,
		Sigma: sigma,
		R:     r,
		Mu:    mu,
	}
}

func newRand() *rand.Rand {
	return rand.New(rand.NewSource(uint64(rand.Int63())))
}

func (g *GBM) checkPathParams(t float64, nSims, nSteps int) error {
	if nSims < 1 {
		return fmt.Errorf("%w: number of simulations must be at least 1, got %d", ErrInvalidParameter, nSims)
	}
	if nSteps < 1 {
		return fmt.Errorf("%w: number of steps must be at least 1, got %d", ErrInvalidParameter, nSteps)
	}
	if t <= 0 {
		return fmt.Errorf("%w: time horizon must be positive, got %g", ErrInvalidParameter, t)
	}
	if g.Sigma < 0 {
		return fmt.Errorf("%w: volatility must be non-negative, got %g", ErrInvalidParameter, g.Sigma)
	}
	if g.S0 <= 0 {
		return fmt.Errorf("%w: initial price must be positive, got %g", ErrInvalidParameter, g.S0)
	}
	return nil
}

// SimulatePaths simulates nSims price paths over nSteps equal time steps and
// returns them as an nSims x (nSteps+1) matrix. Column 0 holds the initial
// price exactly; column j holds the prices after j steps.
//
// Noise is drawn from rng serially in row-major order (path by path, step by
// step), so two calls with identically seeded generators produce identical
// grids no matter how the deterministic transform below is scheduled. A nil
// rng gets a generator seeded from the global source.
func (g *GBM) SimulatePaths(t float64, nSims, nSteps int, rng *rand.Rand) (*mat.Dense, error) {
	if err := g.checkPathParams(t, nSims, nSteps); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = newRand()
	}

	dt := t / float64(nSteps)
	drift := (g.Mu + g.R - 0.5*g.Sigma*g.Sigma) * dt
	vol := g.Sigma * math.Sqrt(dt)

	paths := mat.NewDense(nSims, nSteps+1, nil)
	for i := 0; i < nSims; i++ {
		row := paths.RawRowView(i)
		for j := 1; j <= nSteps; j++ {
			row[j] = drift + vol*rng.NormFloat64()
		}
	}

	// Each row currently holds per-step log-returns; accumulate and
	// exponentiate them into prices.
	var wg sync.WaitGroup
	numWorkers := runtime.GOMAXPROCS(0)
	rowsPerWorker := (nSims + numWorkers - 1) / numWorkers
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func(start int) {
			defer wg.Done()
			end := start + rowsPerWorker
			if end > nSims {
				end = nSims
			}
			for i := start; i < end; i++ {
				row := paths.RawRowView(i)
				floats.CumSum(row[1:], row[1:])
				row[0] = g.S0
				for j := 1; j <= nSteps; j++ {
					row[j] = g.S0 * math.Exp(row[j])
				}
			}
		}(w * rowsPerWorker)
	}
	wg.Wait()

	return paths, nil
}

// SimulatePath simulates a single path and returns its nSteps+1 prices.
func (g *GBM) SimulatePath(t float64, nSteps int, rng *rand.Rand) ([]float64, error) {
	if err := g.checkPathParams(t, 1, nSteps); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = newRand()
	}

	dt := t / float64(nSteps)
	sqrtDt := math.Sqrt(dt)

	s := make([]float64, nSteps+1)
	s[0] = g.S0
	for i := 0; i < nSteps; i++ {
		z := rng.NormFloat64()
		s[i+1] = s[i] * math.Exp((g.Mu+g.R-0.5*g.Sigma*g.Sigma)*dt+g.Sigma*sqrtDt*z)
	}

	return s, nil
}
