package models

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// Bar is one period of open, high, low and close prices.
type Bar struct {
	Open  float64
	High  float64
	Low   float64
	Close float64
}

func checkBars(bars []Bar, minBars int, periodsPerYear float64) error {
	if len(bars) < minBars {
		return fmt.Errorf("%w: need at least %d bars, got %d", ErrInvalidParameter, minBars, len(bars))
	}
	if periodsPerYear <= 0 {
		return fmt.Errorf("%w: periods per year must be positive, got %g", ErrInvalidParameter, periodsPerYear)
	}
	for _, b := range bars {
		if b.Open <= 0 || b.High <= 0 || b.Low <= 0 || b.Close <= 0 {
			return fmt.Errorf("%w: bar prices must be positive, got %+v", ErrInvalidParameter, b)
		}
		if b.High < b.Low {
			return fmt.Errorf("%w: bar high %g below low %g", ErrInvalidParameter, b.High, b.Low)
		}
	}
	return nil
}

// ParkinsonVolatility estimates annualized volatility from high-low ranges.
// It assumes zero drift and no opening gaps.
func ParkinsonVolatility(bars []Bar, periodsPerYear float64) (float64, error) {
	if err := checkBars(bars, 1, periodsPerYear); err != nil {
		return 0, err
	}

	sum := 0.0
	for _, b := range bars {
		hl := math.Log(b.High / b.Low)
		sum += hl * hl
	}

	return math.Sqrt(sum / (4 * float64(len(bars)) * math.Ln2) * periodsPerYear), nil
}

// GarmanKlassVolatility estimates annualized volatility from the full bar,
// weighting the high-low range against the open-close move.
func GarmanKlassVolatility(bars []Bar, periodsPerYear float64) (float64, error) {
	if err := checkBars(bars, 1, periodsPerYear); err != nil {
		return 0, err
	}

	sum := 0.0
	for _, b := range bars {
		hl := math.Log(b.High / b.Low)
		co := math.Log(b.Close / b.Open)
		sum += 0.5*hl*hl - (2*math.Ln2-1)*co*co
	}

	return math.Sqrt(sum / float64(len(bars)) * periodsPerYear), nil
}

func rogersSatchellVariance(bars []Bar) float64 {
	sum := 0.0
	for _, b := range bars {
		sum += math.Log(b.High/b.Close)*math.Log(b.High/b.Open) +
			math.Log(b.Low/b.Close)*math.Log(b.Low/b.Open)
	}
	return sum / float64(len(bars))
}

// RogersSatchellVolatility estimates annualized volatility from the full bar
// and stays unbiased under a nonzero drift.
func RogersSatchellVolatility(bars []Bar, periodsPerYear float64) (float64, error) {
	if err := checkBars(bars, 1, periodsPerYear); err != nil {
		return 0, err
	}
	return math.Sqrt(rogersSatchellVariance(bars) * periodsPerYear), nil
}

// YangZhangVolatility estimates annualized volatility by combining overnight
// gaps, open-to-close moves and the Rogers-Satchell range term.
func YangZhangVolatility(bars []Bar, periodsPerYear float64) (float64, error) {
	if err := checkBars(bars, 3, periodsPerYear); err != nil {
		return 0, err
	}

	n := len(bars)
	overnight := make([]float64, n-1)
	openClose := make([]float64, n)
	openClose[0] = math.Log(bars[0].Close / bars[0].Open)
	for i := 1; i < n; i++ {
		overnight[i-1] = math.Log(bars[i].Open / bars[i-1].Close)
		openClose[i] = math.Log(bars[i].Close / bars[i].Open)
	}

	k := 0.34 / (1.34 + float64(n+1)/float64(n-1))
	variance := stat.Variance(overnight, nil) +
		k*stat.Variance(openClose, nil) +
		(1-k)*rogersSatchellVariance(bars)

	return math.Sqrt(variance * periodsPerYear), nil
}
