package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

// simulateBars samples one intraday path and folds it into daily bars, so
// every estimator sees data whose true volatility is known.
func simulateBars(t *testing.T, sigma float64, days, stepsPerDay int) []Bar {
	t.Helper()

	g := NewGBM(100, sigma, 0.05, 0)
	path, err := g.SimulatePath(float64(days)/252, days*stepsPerDay, rand.New(rand.NewSource(101)))
	require.NoError(t, err)

	bars := make([]Bar, days)
	for d := 0; d < days; d++ {
		slice := path[d*stepsPerDay : (d+1)*stepsPerDay+1]
		bar := Bar{Open: slice[0], High: slice[0], Low: slice[0], Close: slice[len(slice)-1]}
		for _, p := range slice {
			if p > bar.High {
				bar.High = p
			}
			if p < bar.Low {
				bar.Low = p
			}
		}
		bars[d] = bar
	}
	return bars
}

func TestRangeEstimatorsRecoverSigma(t *testing.T) {
	const sigma = 0.3
	bars := simulateBars(t, sigma, 252, 256)

	parkinson, err := ParkinsonVolatility(bars, 252)
	require.NoError(t, err)
	assert.InDelta(t, sigma, parkinson, 0.05)

	gk, err := GarmanKlassVolatility(bars, 252)
	require.NoError(t, err)
	assert.InDelta(t, sigma, gk, 0.05)

	rs, err := RogersSatchellVolatility(bars, 252)
	require.NoError(t, err)
	assert.InDelta(t, sigma, rs, 0.05)

	yz, err := YangZhangVolatility(bars, 252)
	require.NoError(t, err)
	assert.InDelta(t, sigma, yz, 0.05)
}

func TestRangeEstimatorsAgree(t *testing.T) {
	bars := simulateBars(t, 0.2, 126, 128)

	parkinson, err := ParkinsonVolatility(bars, 252)
	require.NoError(t, err)
	gk, err := GarmanKlassVolatility(bars, 252)
	require.NoError(t, err)

	assert.InDelta(t, parkinson, gk, 0.03)
}

func TestEstimatorsRejectBadInput(t *testing.T) {
	_, err := ParkinsonVolatility(nil, 252)
	assert.ErrorIs(t, err, ErrInvalidParameter)

	bad := []Bar{{Open: 100, High: 101, Low: -1, Close: 100}}
	_, err = GarmanKlassVolatility(bad, 252)
	assert.ErrorIs(t, err, ErrInvalidParameter)

	inverted := []Bar{{Open: 100, High: 99, Low: 101, Close: 100}}
	_, err = RogersSatchellVolatility(inverted, 252)
	assert.ErrorIs(t, err, ErrInvalidParameter)

	ok := []Bar{{Open: 100, High: 101, Low: 99, Close: 100}}
	_, err = ParkinsonVolatility(ok, 0)
	assert.ErrorIs(t, err, ErrInvalidParameter)

	_, err = YangZhangVolatility([]Bar{{Open: 100, High: 101, Low: 99, Close: 100}, {Open: 100, High: 102, Low: 99, Close: 101}}, 252)
	assert.ErrorIs(t, err, ErrInvalidParameter)
}
