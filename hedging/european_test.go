package hedging

import (
	"testing"

	"github.com/bcdannyboy/dhedge/models"
	"github.com/bcdannyboy/dhedge/pricing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func TestSelfFinancingHedgeUnbiased(t *testing.T) {
	g := models.NewGBM(100, 0.2, 0.05, 0)
	opt := models.Option{Strike: 100, Type: models.Call}

	premium, err := pricing.Price(g.S0, opt.Strike, g.Sigma, 1, g.R, opt.Type)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(3))
	dist, err := EuropeanSelfFinancingPnL(g, opt, 1, premium, 100000, 50, rng)
	require.NoError(t, err)
	require.Len(t, dist, 100000)

	mean, stderr := Summary(dist)
	assert.InDelta(t, 0, mean, 0.05)
	assert.Less(t, stderr, 0.01)
}

func TestUnhedgedMonteCarloMatchesBlackScholes(t *testing.T) {
	g := models.NewGBM(100, 0.2, 0.05, 0)
	opt := models.Option{Strike: 100, Type: models.Call}

	bs, err := pricing.Price(g.S0, opt.Strike, g.Sigma, 1, g.R, opt.Type)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(11))
	dist, err := MonteCarloEuropean(g, opt, 1, 200000, 0, rng)
	require.NoError(t, err)

	mean, _ := Summary(dist)
	assert.InDelta(t, bs, mean, 0.2)
}

func TestHedgingReducesSpread(t *testing.T) {
	g := models.NewGBM(100, 0.2, 0.05, 0)
	opt := models.Option{Strike: 100, Type: models.Call}

	unhedged, err := MonteCarloEuropean(g, opt, 1, 50000, 0, rand.New(rand.NewSource(5)))
	require.NoError(t, err)
	hedged, err := MonteCarloEuropean(g, opt, 1, 50000, 50, rand.New(rand.NewSource(5)))
	require.NoError(t, err)

	_, unhedgedErr := Summary(unhedged)
	hedgedMean, hedgedErr := Summary(hedged)

	assert.Less(t, hedgedErr, unhedgedErr/5)
	assert.InDelta(t, 10.450583572185565, hedgedMean, 0.1)
}

func TestSelfFinancingPremiumShiftsMean(t *testing.T) {
	g := models.NewGBM(100, 0.2, 0.05, 0)
	opt := models.Option{Strike: 100, Type: models.Call}

	premium, err := pricing.Price(g.S0, opt.Strike, g.Sigma, 1, g.R, opt.Type)
	require.NoError(t, err)

	base, err := EuropeanSelfFinancingPnL(g, opt, 1, premium, 2000, 50, rand.New(rand.NewSource(7)))
	require.NoError(t, err)
	marked, err := EuropeanSelfFinancingPnL(g, opt, 1, premium+1, 2000, 50, rand.New(rand.NewSource(7)))
	require.NoError(t, err)

	// Charging one unit over fair value is worth exactly one unit today,
	// path by path.
	for i := range base {
		assert.InDelta(t, base[i]+1, marked[i], 1e-9)
	}
}

func TestMonteCarloEuropeanSeededDeterminism(t *testing.T) {
	g := models.NewGBM(100, 0.25, 0.03, 0.01)
	opt := models.Option{Strike: 95, Type: models.Put}

	first, err := MonteCarloEuropean(g, opt, 0.5, 4000, 12, rand.New(rand.NewSource(42)))
	require.NoError(t, err)
	second, err := MonteCarloEuropean(g, opt, 0.5, 4000, 12, rand.New(rand.NewSource(42)))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestEuropeanEnginesRejectBadInput(t *testing.T) {
	g := models.NewGBM(100, 0.2, 0.05, 0)
	rng := rand.New(rand.NewSource(1))

	_, err := MonteCarloEuropean(g, models.Option{Strike: 100, Type: "straddle"}, 1, 100, 10, rng)
	assert.ErrorIs(t, err, models.ErrInvalidOptionType)

	opt := models.Option{Strike: 100, Type: models.Call}

	_, err = MonteCarloEuropean(g, opt, 1, 100, -1, rng)
	assert.ErrorIs(t, err, models.ErrInvalidParameter)

	_, err = MonteCarloEuropean(g, opt, 1, 0, 10, rng)
	assert.ErrorIs(t, err, models.ErrInvalidParameter)

	_, err = EuropeanSelfFinancingPnL(g, opt, 1, 10, 100, 0, rng)
	assert.ErrorIs(t, err, models.ErrInvalidParameter)

	_, err = EuropeanSelfFinancingPnL(g, models.Option{Strike: -5, Type: models.Call}, 1, 10, 100, 10, rng)
	assert.ErrorIs(t, err, models.ErrInvalidParameter)
}
