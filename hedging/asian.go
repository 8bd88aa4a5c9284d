package hedging

import (
	"math"

	"github.com/bcdannyboy/dhedge/models"
	"github.com/bcdannyboy/dhedge/pricing"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat"
)

// pathAverage reduces a full path, initial price included, to the average
// the option is written on.
func pathAverage(path []float64, geometric bool) float64 {
	if geometric {
		return stat.GeometricMean(path, nil)
	}
	return stat.Mean(path, nil)
}

// updateGeoMean folds the next path point into a running geometric mean that
// so far covers i+1 points.
func updateGeoMean(gMean, next float64, i int) float64 {
	return math.Exp((float64(i+1)*math.Log(gMean) + math.Log(next)) / float64(i+2))
}

// MonteCarloAsian estimates the value of an average-price option from nSims
// paths of nSteps steps without hedging. The average runs over all nSteps+1
// path points including the initial price, arithmetic or geometric per the
// flag; each distribution entry is one path's discounted payoff.
func MonteCarloAsian(g *models.GBM, opt models.Option, t float64, nSims, nSteps int, geometric bool, rng *rand.Rand) ([]float64, error) {
	if err := opt.Validate(); err != nil {
		return nil, err
	}
	paths, err := g.SimulatePaths(t, nSims, nSteps, rng)
	if err != nil {
		return nil, err
	}

	discount := math.Exp(-g.R * t)
	results := make([]float64, nSims)
	err = forEachPath(nSims, func(i int) error {
		results[i] = discount * opt.Payoff(pathAverage(paths.RawRowView(i), geometric))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// AsianSelfFinancingPnL simulates a seller of an average-price option who
// receives premium and re-hedges nSteps times using the geometric-average
// delta conditioned on the running mean: at each step the remaining-time
// weight w scales an effective spot and volatility, and the position is
// fully unwound by expiry (w reaches 0). The terminal payoff uses the
// arithmetic or geometric mean of the full realized path; entries are the
// discounted hedging error per path.
func AsianSelfFinancingPnL(g *models.GBM, opt models.Option, t, premium float64, nSims, nSteps int, geometric bool, rng *rand.Rand) ([]float64, error) {
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

	delta0, err := pricing.GeoAsianDelta(g.S0, opt.Strike, g.Sigma, t, g.R, opt.Type)
	if err != nil {
		return nil, err
	}

	results := make([]float64, nSims)
	err = forEachPath(nSims, func(i int) error {
		row := paths.RawRowView(i)
		delta := delta0
		bond := premium - delta*g.S0
		gMean := g.S0
		for j := 0; j < nSteps; j++ {
			bond *= growth
			next := row[j+1]
			gMean = updateGeoMean(gMean, next, j)

			w := 1 - float64(j+1)/float64(nSteps)
			sEff := gMean * math.Pow(next/gMean, w)
			sigmaEff := g.Sigma * math.Sqrt(w/3)
			gd, derr := pricing.GeoAsianDelta(sEff, opt.Strike, sigmaEff, t-float64(j+1)*dt, g.R, opt.Type)
			if derr != nil {
				return derr
			}
			newDelta := w * (sEff / next) * gd

			bond -= (newDelta - delta) * next
			delta = newDelta
		}
		value := delta*row[nSteps] + bond
		results[i] = (value - opt.Payoff(pathAverage(row, geometric))) * discount
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}
