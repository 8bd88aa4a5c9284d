package pricing

import (
	"math"

	"github.com/bcdannyboy/dhedge/models"
)

// bGeo is the adjusted drift of the continuous geometric average of a GBM
// price with rate r and volatility sigma.
func bGeo(sigma, r float64) float64 {
	return 0.5 * (r - sigma*sigma/6)
}

// GeoAsianPrice values a European option on the continuous geometric average
// of the price over [0, t], which stays lognormal with drift bGeo and
// volatility sigma/sqrt(3). Degenerate limits mirror Price.
func GeoAsianPrice(s, k, sigma, t, r float64, typ models.OptionType) (float64, error) {
	if err := check(s, k, sigma, typ); err != nil {
		return 0, err
	}
	if t <= 0 {
		return models.Option{Strike: k, Type: typ}.Payoff(s), nil
	}
	if sigma == 0 {
		b := bGeo(0, r)
		if typ == models.Call {
			return math.Max(s*math.Exp((b-r)*t)-k*math.Exp(-r*t), 0), nil
		}
		return math.Max(k*math.Exp(-r*t)-s*math.Exp((b-r)*t), 0), nil
	}

	b := bGeo(sigma, r)
	d1 := math.Sqrt(3) * (math.Log(s/k) + (b+sigma*sigma/6)*t) / (sigma * math.Sqrt(t))
	d2 := d1 - sigma*math.Sqrt(t/3)
	if typ == models.Call {
		return s*math.Exp((b-r)*t)*normCDF(d1) - k*math.Exp(-r*t)*normCDF(d2), nil
	}
	return k*math.Exp(-r*t)*normCDF(-d2) - s*math.Exp((b-r)*t)*normCDF(-d1), nil
}

// GeoAsianDelta returns the hedge ratio of the geometric-average option with
// respect to the current price.
func GeoAsianDelta(s, k, sigma, t, r float64, typ models.OptionType) (float64, error) {
	if err := check(s, k, sigma, typ); err != nil {
		return 0, err
	}
	if t <= 0 || sigma == 0 {
		b := bGeo(sigma, r)
		tt := math.Max(t, 0)
		fwd := s * math.Exp(b*tt)
		delta := 0.0
		if fwd > k {
			delta = 1
		} else if fwd == k {
			delta = 0.5
		}
		if typ == models.Put {
			delta -= 1
		}
		return math.Exp((b-r)*tt) * delta, nil
	}

	b := bGeo(sigma, r)
	d1 := math.Sqrt(3) * (math.Log(s/k) + (b+sigma*sigma/6)*t) / (sigma * math.Sqrt(t))
	if typ == models.Call {
		return math.Exp((b-r)*t) * normCDF(d1), nil
	}
	return math.Exp((b-r)*t) * (normCDF(d1) - 1), nil
}

// ConditionalGeoAsianDelta is the hedge delta of a geometric-average call
// partway through its life: st is the current price, gt the geometric mean
// of the observations so far, tau the remaining time and horizon the full
// averaging window. Once tau runs out the average is fixed and the delta
// collapses to an indicator of finishing in the money.
func ConditionalGeoAsianDelta(st, gt, k, sigma, tau, r, horizon float64) float64 {
	if tau <= 0 {
		if gt > k {
			return 1
		}
		return 0
	}

	sigmaEff := sigma * math.Sqrt(tau/(3*horizon))
	rEff := tau/(2*horizon)*(r-0.5*sigma*sigma) + sigma*sigma*tau/(6*horizon)
	sEff := gt * math.Pow(st/gt, tau/horizon)
	d1 := (math.Log(sEff/k) + rEff + 0.5*sigmaEff*sigmaEff) / sigmaEff
	dSeff := tau / horizon * sEff / st

	return math.Exp(-r*tau) * math.Exp(rEff+0.5*sigmaEff*sigmaEff) * normCDF(d1) * dSeff
}
