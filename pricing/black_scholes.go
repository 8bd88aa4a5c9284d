package pricing

import (
	"fmt"
	"math"

	"github.com/bcdannyboy/dhedge/models"
	"gonum.org/v1/gonum/stat/distuv"
)

func normCDF(x float64) float64 {
	return distuv.UnitNormal.CDF(x)
}

func normPDF(x float64) float64 {
	return distuv.UnitNormal.Prob(x)
}

func check(s, k, sigma float64, typ models.OptionType) error {
	if err := models.CheckOptionType(typ); err != nil {
		return err
	}
	if s <= 0 {
		return fmt.Errorf("%w: spot must be positive, got %g", models.ErrInvalidParameter, s)
	}
	if k <= 0 {
		return fmt.Errorf("%w: strike must be positive, got %g", models.ErrInvalidParameter, k)
	}
	if sigma < 0 {
		return fmt.Errorf("%w: volatility must be non-negative, got %g", models.ErrInvalidParameter, sigma)
	}
	return nil
}

func d12(s, k, sigma, t, r float64) (float64, float64) {
	d1 := (math.Log(s/k) + (r+0.5*sigma*sigma)*t) / (sigma * math.Sqrt(t))
	return d1, d1 - sigma*math.Sqrt(t)
}

// expiryDelta is the degenerate hedge ratio once the diffusion is gone:
// an indicator on the deterministic forward, signed for puts.
func expiryDelta(s, k, t, r float64, typ models.OptionType) float64 {
	fwd := s
	if t > 0 {
		fwd = s * math.Exp(r*t)
	}
	delta := 0.0
	if fwd > k {
		delta = 1
	} else if fwd == k {
		delta = 0.5
	}
	if typ == models.Put {
		delta -= 1
	}
	return delta
}

// Price returns the Black-Scholes value of a European option. t <= 0 falls
// back to intrinsic value and sigma == 0 to the discounted deterministic
// payoff, so hedge loops may evaluate at or beyond expiry.
func Price(s, k, sigma, t, r float64, typ models.OptionType) (float64, error) {
	if err := check(s, k, sigma, typ); err != nil {
		return 0, err
	}
	if t <= 0 {
		return models.Option{Strike: k, Type: typ}.Payoff(s), nil
	}
	if sigma == 0 {
		if typ == models.Call {
			return math.Max(s-k*math.Exp(-r*t), 0), nil
		}
		return math.Max(k*math.Exp(-r*t)-s, 0), nil
	}

	d1, d2 := d12(s, k, sigma, t, r)
	if typ == models.Call {
		return s*normCDF(d1) - k*math.Exp(-r*t)*normCDF(d2), nil
	}
	return k*math.Exp(-r*t)*normCDF(-d2) - s*normCDF(-d1), nil
}

// Delta returns the Black-Scholes hedge ratio, with the same degenerate
// limits as Price.
func Delta(s, k, sigma, t, r float64, typ models.OptionType) (float64, error) {
	if err := check(s, k, sigma, typ); err != nil {
		return 0, err
	}
	if t <= 0 || sigma == 0 {
		return expiryDelta(s, k, t, r, typ), nil
	}

	d1, _ := d12(s, k, sigma, t, r)
	if typ == models.Call {
		return normCDF(d1), nil
	}
	return normCDF(d1) - 1, nil
}

func vega(s, k, sigma, t, r float64) float64 {
	d1, _ := d12(s, k, sigma, t, r)
	return s * normPDF(d1) * math.Sqrt(t)
}

type BSMResult struct {
	Price float64
	Delta float64
	Gamma float64
	Theta float64
	Vega  float64
	Rho   float64
}

// Greeks computes the Black-Scholes price and first-order sensitivities in
// one pass. In the degenerate limits only Price and Delta survive.
func Greeks(s, k, sigma, t, r float64, typ models.OptionType) (BSMResult, error) {
	if err := check(s, k, sigma, typ); err != nil {
		return BSMResult{}, err
	}
	if t <= 0 || sigma == 0 {
		price, _ := Price(s, k, sigma, t, r, typ)
		return BSMResult{
			Price: price,
			Delta: expiryDelta(s, k, t, r, typ),
		}, nil
	}

	d1, d2 := d12(s, k, sigma, t, r)
	isCall := typ == models.Call

	var delta, price float64
	if isCall {
		delta = normCDF(d1)
		price = s*normCDF(d1) - k*math.Exp(-r*t)*normCDF(d2)
	} else {
		delta = normCDF(d1) - 1
		price = k*math.Exp(-r*t)*normCDF(-d2) - s*normCDF(-d1)
	}

	gamma := normPDF(d1) / (s * sigma * math.Sqrt(t))
	theta := -(s*normPDF(d1)*sigma)/(2*math.Sqrt(t)) - r*k*math.Exp(-r*t)*normCDF(d2)
	rho := k * t * math.Exp(-r*t) * normCDF(d2)
	if !isCall {
		theta += r * k * math.Exp(-r*t)
		rho = -k * t * math.Exp(-r*t) * normCDF(-d2)
	}

	return BSMResult{
		Price: price,
		Delta: delta,
		Gamma: gamma,
		Theta: theta,
		Vega:  vega(s, k, sigma, t, r),
		Rho:   rho,
	}, nil
}
