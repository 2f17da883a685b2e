package analysis

import (
	"math"

	"github.com/scrylabs/scry/internal/core"
)

// Targets holds the price objectives for a position: where to take
// profit and where to cut losses, with both expressed as percents of
// the entry price.
type Targets struct {
	TargetPrice     float64
	TargetReturn    float64
	StopLoss        float64
	StopLossPercent float64
}

// computeTargets derives target and stop levels from the trend
// direction and the support/resistance bands, holding a reward at least
// twice the risk on the long side.
func computeTargets(price float64, direction core.TrendDirection, support, resistance float64) Targets {
	if math.IsNaN(price) || math.IsInf(price, 0) || price <= 0 {
		return Targets{}
	}

	var target, stop float64
	switch direction {
	case core.TrendDown:
		target = price * 1.05
		stop = price * 0.975
		// A support level just under the price makes a tighter stop;
		// the target stretches to keep reward at twice the risk.
		if support > price*0.95 && support < price {
			stop = support
			target = price + 2*(price-stop)
		}
	case core.TrendSideways:
		target, stop = longTargets(price, support, resistance, 1.10)
	default:
		target, stop = longTargets(price, support, resistance, 1.15)
	}

	return sanitizeTargets(price, target, stop)
}

// longTargets implements the uptrend algorithm, shared by the sideways
// branch with a tighter cap.
func longTargets(price, support, resistance, capRatio float64) (target, stop float64) {
	switch {
	case support > price*0.85 && support < price:
		stop = support
	case support > 0 && support <= price*0.85:
		stop = price * 0.92
	default:
		stop = price * 0.95
	}
	minReward := 2 * (price - stop)

	maxTarget := price * capRatio
	if resistance > price && resistance-price >= minReward {
		target = math.Min(resistance, maxTarget)
	} else {
		ceiling := maxTarget
		if resistance > price && resistance < ceiling {
			ceiling = resistance
		}
		target = math.Min(price+minReward, ceiling)
	}

	// A capped target cannot honor the 2:1 floor with the chosen stop;
	// tighten the stop instead of giving up the ratio.
	if reward := target - price; reward < minReward {
		stop = price - reward/2
	}
	return target, stop
}

// sanitizeTargets enforces the output guarantees regardless of how the
// levels were derived: target strictly above price, stop strictly below
// and no deeper than 10%, nothing non-finite, prices in cents and
// percents to one decimal.
func sanitizeTargets(price, target, stop float64) Targets {
	if !(target > price) {
		target = price * 1.05
	}
	if !(stop < price) {
		stop = price * 0.95
	}
	if stop < price*0.90 {
		stop = price * 0.90
		target = price + 2.5*(price-stop)
	}

	targetReturn := (target - price) / price * 100
	stopPercent := (stop - price) / price * 100

	if !isFinite(target) || !isFinite(stop) || !isFinite(targetReturn) || !isFinite(stopPercent) {
		target = price * 1.05
		targetReturn = 5.0
		stop = price * 0.95
		stopPercent = -5.0
	}

	return Targets{
		TargetPrice:     roundCents(target),
		TargetReturn:    roundTenth(targetReturn),
		StopLoss:        roundCents(stop),
		StopLossPercent: roundTenth(stopPercent),
	}
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
