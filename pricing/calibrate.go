package pricing

import (
	"fmt"
	"math"

	"github.com/bcdannyboy/dhedge/models"
	"gonum.org/v1/gonum/optimize"
)

const (
	maxIterations = 100
	epsilon       = 1e-8
)

// ImpliedVolatility inverts the Black-Scholes formula for the volatility
// that reproduces target, using Newton-Raphson on vega from a 50% start.
func ImpliedVolatility(target, s, k, t, r float64, typ models.OptionType) (float64, error) {
	if err := check(s, k, 0, typ); err != nil {
		return 0, err
	}
	if target <= 0 {
		return 0, fmt.Errorf("%w: target price must be positive, got %g", models.ErrInvalidParameter, target)
	}
	if t <= 0 {
		return 0, fmt.Errorf("%w: time to expiry must be positive, got %g", models.ErrInvalidParameter, t)
	}

	sigma := 0.5
	for i := 0; i < maxIterations; i++ {
		price, err := Price(s, k, sigma, t, r, typ)
		if err != nil {
			return 0, err
		}
		diff := price - target
		if math.Abs(diff) < epsilon {
			return sigma, nil
		}
		sigma -= diff / vega(s, k, sigma, t, r)
		if sigma <= 0 || math.IsNaN(sigma) {
			sigma = 0.0001 // Avoid negative volatility
		}
	}
	return 0, fmt.Errorf("%w: implied volatility did not converge for target price %g", models.ErrInvalidParameter, target)
}

// Quote pairs an observed option price with its contract terms.
type Quote struct {
	Strike float64
	Price  float64
	Type   models.OptionType
}

// CalibrateVolatility fits a single flat volatility to a set of observed
// quotes at spot s by minimizing the mean squared pricing error with
// Nelder-Mead.
func CalibrateVolatility(quotes []Quote, s, t, r float64) (float64, error) {
	if len(quotes) == 0 {
		return 0, fmt.Errorf("%w: no quotes to calibrate against", models.ErrInvalidParameter)
	}
	if t <= 0 {
		return 0, fmt.Errorf("%w: time to expiry must be positive, got %g", models.ErrInvalidParameter, t)
	}
	for _, q := range quotes {
		if err := check(s, q.Strike, 0, q.Type); err != nil {
			return 0, err
		}
	}

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			sigma := x[0]
			if sigma <= 0 {
				return math.Inf(1)
			}
			mse := 0.0
			for _, q := range quotes {
				price, err := Price(s, q.Strike, sigma, t, r, q.Type)
				if err != nil {
					return math.Inf(1)
				}
				mse += math.Pow(price-q.Price, 2)
			}
			return mse / float64(len(quotes))
		},
	}

	result, err := optimize.Minimize(problem, []float64{0.5}, nil, &optimize.NelderMead{})
	if err != nil {
		return 0, err
	}
	return result.X[0], nil
}
