// Package analysis implements the deterministic technical scoring
// engine: a pure transform from a live price, a daily candle series and
// optional externally-supplied indicator values into a scored, graded
// AnalysisResult with support/resistance and target/stop levels.
//
// Nothing here performs I/O or touches shared state; Compute is safe to
// call concurrently and is idempotent for identical inputs.
package analysis

import (
	"math"

	"github.com/scrylabs/scry/internal/core"
)

// patchEpsilon is the float-equality guard between the last close and
// the live quote.
const patchEpsilon = 0.001

// Compute runs the full scoring pipeline. currentPrice must be a finite
// positive number; candles may be empty (degraded analysis) and must be
// ordered oldest-first. indicators may be nil.
func Compute(currentPrice float64, candles []core.Candle, indicators *core.TechnicalIndicators) (*core.AnalysisResult, error) {
	if math.IsNaN(currentPrice) || math.IsInf(currentPrice, 0) || currentPrice <= 0 {
		return nil, core.ErrInvalidPrice
	}

	patched := patchLastCandle(currentPrice, candles)
	closes := extractCloses(patched)

	blended := blendedChange(closes)
	trend := classifyTrend(currentPrice, closes)
	energy := classifyEnergy(closes, blended)
	pattern := similarity(closes)
	obvRate, obvStrength := obvResidual(patched)
	candle := classifyCandle(patched)
	signal := momentumSignal(blended)
	support, resistance := supportResistance(currentPrice, patched)

	score := compositeScore(trend, energy, pattern, obvRate, candle, signal, indicators)
	targets := computeTargets(currentPrice, trend.Direction, support, resistance)

	return &core.AnalysisResult{
		Score:           score,
		Grade:           GradeFor(score),
		Trend:           trend,
		Energy:          energy,
		Pattern:         pattern,
		OBVResidualRate: obvRate,
		OBVStrength:     obvStrength,
		Candle:          candle,
		Signal:          signal,
		Indicators:      indicators,
		Support:         support,
		Resistance:      resistance,
		TargetPrice:     targets.TargetPrice,
		TargetReturn:    targets.TargetReturn,
		StopLoss:        targets.StopLoss,
		StopLossPercent: targets.StopLossPercent,
		CurrentPrice:    currentPrice,
	}, nil
}

// patchLastCandle returns a copy of the series with the final close
// pulled to the live price when the two disagree, widening high/low to
// include it. End-of-day history and a live quote routinely differ; the
// caller's series stays untouched for display use.
func patchLastCandle(currentPrice float64, candles []core.Candle) []core.Candle {
	if len(candles) == 0 {
		return nil
	}
	out := make([]core.Candle, len(candles))
	copy(out, candles)

	last := &out[len(out)-1]
	if math.Abs(last.Close-currentPrice) > patchEpsilon {
		last.Close = currentPrice
		if currentPrice > last.High {
			last.High = currentPrice
		}
		if currentPrice < last.Low {
			last.Low = currentPrice
		}
	}
	return out
}

// blendedChange weights the recent five-candle move over the
// whole-series move, in absolute price units.
func blendedChange(closes []float64) float64 {
	if len(closes) < 2 {
		return 0
	}
	last := closes[len(closes)-1]
	total := last - closes[0]

	recentStart := len(closes) - 5
	if recentStart < 0 {
		recentStart = 0
	}
	recent := last - closes[recentStart]

	return 0.7*recent + 0.3*total
}

func classifyTrend(currentPrice float64, closes []float64) core.TrendInfo {
	if len(closes) <= 1 {
		return core.TrendInfo{Direction: core.TrendSideways, Strength: core.StrengthWeak}
	}

	pct := blendedChange(closes) / currentPrice * 100

	var direction core.TrendDirection
	switch {
	case pct > 2:
		direction = core.TrendUp
	case pct < -2:
		direction = core.TrendDown
	default:
		direction = core.TrendSideways
	}

	abs := math.Abs(pct)
	var strength core.TrendStrength
	switch {
	case abs > 10:
		strength = core.StrengthStrong
	case abs > 5:
		strength = core.StrengthModerate
	default:
		strength = core.StrengthWeak
	}

	return core.TrendInfo{Direction: direction, Strength: strength}
}

// classifyEnergy compares the recent five-close mean against the
// preceding five (or the first half of a short series). A higher recent
// mean reads as selling pressure easing off.
func classifyEnergy(closes []float64, blended float64) core.EnergyInfo {
	if len(closes) < 2 {
		switch {
		case blended > 0:
			return core.EnergyInfo{SellingPressure: core.PressureDecreased, Pattern: core.CrossNone}
		case blended < 0:
			return core.EnergyInfo{SellingPressure: core.PressureIncreased, Pattern: core.CrossNone}
		default:
			return core.EnergyInfo{SellingPressure: core.PressureStable, Pattern: core.CrossNone}
		}
	}

	recent := mean(tail(closes, 5))
	var older float64
	if len(closes) >= 10 {
		older = mean(closes[len(closes)-10 : len(closes)-5])
	} else {
		older = mean(closes[:len(closes)/2])
	}

	switch {
	case recent > older*1.02:
		return core.EnergyInfo{SellingPressure: core.PressureDecreased, Pattern: core.CrossGolden}
	case recent < older*0.98:
		return core.EnergyInfo{SellingPressure: core.PressureIncreased, Pattern: core.CrossDead}
	default:
		return core.EnergyInfo{SellingPressure: core.PressureStable, Pattern: core.CrossNone}
	}
}

// similarity compares the last five closes against the five before them
// on volatility (population stddev) and direction of the net move.
func similarity(closes []float64) core.PatternSimilarity {
	n := len(closes)
	if n <= 1 {
		return core.PatternSimilarity{}
	}
	if n < 10 {
		// Short-series fallback: fixed similarity, yield of the last
		// close against the whole-series mean.
		m := mean(closes)
		var yield float64
		if m != 0 {
			yield = (closes[n-1] - m) / m * 100
		}
		return core.PatternSimilarity{Similarity: 60, ReferenceYield: yield}
	}

	recent := closes[n-5:]
	prior := closes[n-10 : n-5]

	volRecent := popStdDev(recent)
	volPrior := popStdDev(prior)
	avgVol := (volRecent + volPrior) / 2

	volSim := 80.0
	if avgVol != 0 {
		volSim = 100 - math.Abs(volRecent-volPrior)/avgVol*100
		if volSim < 0 {
			volSim = 0
		}
	}

	deltaRecent := recent[len(recent)-1] - recent[0]
	deltaPrior := prior[len(prior)-1] - prior[0]
	dirSim := directionSimilarity(deltaRecent, deltaPrior)

	sim := clamp(0.6*volSim+0.4*dirSim, 0, 100)

	meanRecent := mean(recent)
	meanPrior := mean(prior)
	var yield float64
	if meanPrior != 0 {
		yield = (meanRecent - meanPrior) / meanPrior * 100
	}

	return core.PatternSimilarity{Similarity: sim, ReferenceYield: yield}
}

// directionSimilarity is 100 when both windows move the same way
// (flat counts as non-negative) and otherwise decays linearly with the
// relative gap between the two moves, floored at 0.
func directionSimilarity(recent, prior float64) float64 {
	if (recent >= 0) == (prior >= 0) {
		return 100
	}
	larger := math.Max(math.Abs(recent), math.Abs(prior))
	v := 100 - math.Abs(recent-prior)/larger*50
	if v < 0 {
		v = 0
	}
	return v
}

// obvResidual splits volume into up-day and down-day sums (no-change
// days ignored) and remaps the up share from [0,1] into [0.8,1.2].
func obvResidual(candles []core.Candle) (float64, core.OBVStrength) {
	rate := 1.0
	if len(candles) > 1 {
		var pos, neg float64
		for i := 1; i < len(candles); i++ {
			switch {
			case candles[i].Close > candles[i-1].Close:
				pos += candles[i].Volume
			case candles[i].Close < candles[i-1].Close:
				neg += candles[i].Volume
			}
		}
		raw := 0.5
		if total := pos + neg; total > 0 {
			raw = pos / total
		}
		rate = 0.8 + raw*0.4
	}

	switch {
	case rate >= 1.05:
		return rate, core.OBVStrong
	case rate >= 0.95:
		return rate, core.OBVModerate
	default:
		return rate, core.OBVWeak
	}
}

// classifyCandle inspects only the final (live-patched) candle. Rule
// order matters: a long-tailed up candle is a Hammer even when its body
// would also qualify as a Doji.
func classifyCandle(candles []core.Candle) core.CandlePattern {
	if len(candles) == 0 {
		return core.CandlePattern{Direction: core.CandleNeutral, Pattern: core.PatternNone}
	}

	last := candles[len(candles)-1]
	body := math.Abs(last.Close - last.Open)
	upper := last.High - math.Max(last.Open, last.Close)
	lower := math.Min(last.Open, last.Close) - last.Low
	rng := last.High - last.Low

	var direction core.CandleDirection
	switch {
	case last.Close > last.Open:
		direction = core.CandleUp
	case last.Close < last.Open:
		direction = core.CandleDown
	default:
		direction = core.CandleNeutral
	}

	var pattern string
	switch {
	case direction == core.CandleUp && lower > 2*body && upper < 0.5*body:
		pattern = core.PatternHammer
	case body < 0.1*rng:
		pattern = core.PatternDoji
	case direction == core.CandleDown && upper > 2*body && lower < 0.5*body:
		pattern = core.PatternShootingStar
	case last.Open == last.Close:
		pattern = core.PatternDoji
	default:
		pattern = core.PatternNormal
	}

	return core.CandlePattern{Direction: direction, Pattern: pattern}
}

// momentumSignal labels the sign of the blended move. The divergence
// wording is carried over for API compatibility: no oscillator
// divergence is detected here, only the momentum sign.
func momentumSignal(blended float64) core.Signal {
	if blended > 0 {
		return core.Signal{
			Type:        core.SignalBullishDivergence,
			Action:      core.ActionBuy,
			Description: "blended momentum positive across recent and full windows",
		}
	}
	return core.Signal{
		Type:        core.SignalBearishDivergence,
		Action:      core.ActionSell,
		Description: "blended momentum flat or negative across recent and full windows",
	}
}

func extractCloses(candles []core.Candle) []float64 {
	closes := make([]float64, len(candles))
	for i, c := range candles {
		closes[i] = c.Close
	}
	return closes
}

func tail(values []float64, n int) []float64 {
	if len(values) <= n {
		return values
	}
	return values[len(values)-n:]
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func popStdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := mean(values)
	var sum float64
	for _, v := range values {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
