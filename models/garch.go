package models

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat/distuv"
)

// GARCH11 holds the parameters of a GARCH(1,1) variance process for
// per-period log returns.
type GARCH11 struct {
	Omega float64 // Baseline variance weight
	Alpha float64 // Reaction to the last squared return
	Beta  float64 // Persistence of the last variance
}

func (g GARCH11) valid() bool {
	return g.Omega > 0 && g.Alpha >= 0 && g.Beta >= 0 && g.Alpha+g.Beta < 1
}

// LogLikelihood scores the parameters against a return series, filtering the
// variance forward from its stationary level.
func (g GARCH11) LogLikelihood(returns []float64) float64 {
	variance := g.Omega / (1 - g.Alpha - g.Beta)
	logLik := 0.0
	for i := 1; i < len(returns); i++ {
		variance = g.Omega + g.Alpha*returns[i-1]*returns[i-1] + g.Beta*variance
		logLik += -0.5*math.Log(2*math.Pi) - 0.5*math.Log(variance) - 0.5*returns[i]*returns[i]/variance
	}
	return logLik
}

// ConditionalVolatility filters the variance through the full return series
// and annualizes the final value, giving the current volatility estimate.
func (g GARCH11) ConditionalVolatility(returns []float64, periodsPerYear float64) float64 {
	variance := g.Omega / (1 - g.Alpha - g.Beta)
	for i := 1; i < len(returns); i++ {
		variance = g.Omega + g.Alpha*returns[i-1]*returns[i-1] + g.Beta*variance
	}
	return math.Sqrt(variance * periodsPerYear)
}

// EstimateGARCH11 fits GARCH(1,1) parameters to per-period log returns by
// maximum likelihood: a short Metropolis chain explores the stationary
// region, and its post burn-in average seeds a Nelder-Mead polish. A nil rng
// draws a fresh seed.
func EstimateGARCH11(returns []float64, rng *rand.Rand) (GARCH11, error) {
	if len(returns) < 10 {
		return GARCH11{}, fmt.Errorf("%w: need at least 10 returns, got %d", ErrInvalidParameter, len(returns))
	}
	if rng == nil {
		rng = newRand()
	}

	const (
		numIterations = 2000
		burnIn        = 200
		stepSize      = 0.01
	)

	step := distuv.Normal{Mu: 0, Sigma: stepSize, Src: rng}
	uniform := distuv.Uniform{Min: 0, Max: 1, Src: rng}

	current := GARCH11{Omega: 1e-6, Alpha: 0.1, Beta: 0.8}
	currentLik := current.LogLikelihood(returns)
	var sum GARCH11
	for i := 1; i < numIterations; i++ {
		proposal := GARCH11{
			Omega: current.Omega + step.Rand(),
			Alpha: current.Alpha + step.Rand(),
			Beta:  current.Beta + step.Rand(),
		}
		if proposal.valid() {
			lik := proposal.LogLikelihood(returns)
			if math.Log(uniform.Rand()) < lik-currentLik {
				current, currentLik = proposal, lik
			}
		}
		if i >= burnIn {
			sum.Omega += current.Omega
			sum.Alpha += current.Alpha
			sum.Beta += current.Beta
		}
	}
	span := float64(numIterations - burnIn)
	seed := GARCH11{Omega: sum.Omega / span, Alpha: sum.Alpha / span, Beta: sum.Beta / span}

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			g := GARCH11{Omega: x[0], Alpha: x[1], Beta: x[2]}
			if !g.valid() {
				return math.Inf(1)
			}
			return -g.LogLikelihood(returns)
		},
	}
	result, err := optimize.Minimize(problem, []float64{seed.Omega, seed.Alpha, seed.Beta}, nil, &optimize.NelderMead{})
	if err != nil {
		// Fall back to the chain average when the polish fails.
		return seed, nil
	}
	return GARCH11{Omega: result.X[0], Alpha: result.X[1], Beta: result.X[2]}, nil
}
