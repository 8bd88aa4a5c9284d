package models

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// HistoricalVolatility estimates annualized volatility from a series of
// observed prices using close-to-close log returns. periodsPerYear scales
// the per-period deviation to a yearly figure (252 for daily closes).
func HistoricalVolatility(prices []float64, periodsPerYear float64) (float64, error) {
	if len(prices) < 3 {
		return 0, fmt.Errorf("%w: need at least 3 prices, got %d", ErrInvalidParameter, len(prices))
	}
	if periodsPerYear <= 0 {
		return 0, fmt.Errorf("%w: periods per year must be positive, got %g", ErrInvalidParameter, periodsPerYear)
	}

	returns := make([]float64, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		if prices[i-1] <= 0 || prices[i] <= 0 {
			return 0, fmt.Errorf("%w: prices must be positive, got %g", ErrInvalidParameter, math.Min(prices[i-1], prices[i]))
		}
		returns[i-1] = math.Log(prices[i] / prices[i-1])
	}

	return stat.StdDev(returns, nil) * math.Sqrt(periodsPerYear), nil
}
