package hedging

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Summary reduces a profit distribution to its mean and the standard error
// of that mean.
func Summary(dist []float64) (mean, stderr float64) {
	if len(dist) == 0 {
		return math.NaN(), math.NaN()
	}
	if len(dist) == 1 {
		return dist[0], 0
	}
	mean, std := stat.MeanStdDev(dist, nil)
	return mean, stat.StdErr(std, float64(len(dist)))
}

func sortedLosses(dist []float64) []float64 {
	losses := make([]float64, len(dist))
	for i, pnl := range dist {
		losses[i] = -pnl
	}
	sort.Float64s(losses)
	return losses
}

// ValueAtRisk returns the loss not exceeded with the given confidence,
// estimated from the empirical P&L distribution. Losses are positive.
func ValueAtRisk(dist []float64, confidence float64) float64 {
	if len(dist) == 0 || confidence <= 0 || confidence >= 1 {
		return math.NaN()
	}
	losses := sortedLosses(dist)
	index := int(float64(len(losses)) * confidence)
	if index >= len(losses) {
		index = len(losses) - 1
	}
	return losses[index]
}

// ExpectedShortfall returns the mean loss in the tail at and beyond the
// ValueAtRisk quantile.
func ExpectedShortfall(dist []float64, confidence float64) float64 {
	if len(dist) == 0 || confidence <= 0 || confidence >= 1 {
		return math.NaN()
	}
	losses := sortedLosses(dist)
	index := int(float64(len(losses)) * confidence)
	if index >= len(losses) {
		index = len(losses) - 1
	}
	return stat.Mean(losses[index:], nil)
}
