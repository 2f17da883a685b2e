package analysis

import (
	"math"

	"github.com/scrylabs/scry/internal/core"
)

// compositeScore folds every classified dimension into a single 0-100
// score starting from a neutral 50. Indicator terms are skipped, not
// penalized, when a value is missing.
func compositeScore(trend core.TrendInfo, energy core.EnergyInfo, pattern core.PatternSimilarity, obvRate float64, candle core.CandlePattern, signal core.Signal, indicators *core.TechnicalIndicators) int {
	score := 50.0

	switch trend.Direction {
	case core.TrendUp:
		score += trendPoints(trend.Strength)
	case core.TrendDown:
		score -= trendPoints(trend.Strength)
	}

	switch energy.SellingPressure {
	case core.PressureDecreased:
		if energy.Pattern == core.CrossGolden {
			score += 15
		} else {
			score += 10
		}
	case core.PressureIncreased:
		if energy.Pattern == core.CrossDead {
			score -= 15
		} else {
			score -= 10
		}
	}

	score += pattern.Similarity / 100 * 15
	if pattern.ReferenceYield > 0 {
		score += 5
	}

	switch {
	case obvRate > 1.0:
		score += 10
	case obvRate > 0.95:
		score += 5
	default:
		score -= 5
	}

	switch candle.Direction {
	case core.CandleUp:
		score += 10
	case core.CandleDown:
		score -= 10
	}

	if signal.Type == core.SignalBullishDivergence && signal.Action == core.ActionBuy {
		score += 15
	} else if signal.Type == core.SignalBearishDivergence && signal.Action == core.ActionSell {
		score -= 15
	}

	if indicators != nil {
		if indicators.RSI != nil {
			switch rsi := *indicators.RSI; {
			case rsi < 30:
				score += 8
			case rsi > 70:
				score -= 8
			case rsi > 50:
				score += 3
			default:
				score -= 3
			}
		}
		if macd := indicators.MACD; macd != nil {
			if macd.Histogram > 0 && macd.MACD > macd.Signal {
				score += 7
			} else if macd.Histogram < 0 && macd.MACD < macd.Signal {
				score -= 7
			}
		}
		if sma := indicators.SMA; sma != nil {
			if sma.SMA20 > sma.SMA50 {
				score += 5
			} else {
				score -= 5
			}
		}
	}

	return int(math.Round(clamp(score, 0, 100)))
}

func trendPoints(strength core.TrendStrength) float64 {
	switch strength {
	case core.StrengthStrong:
		return 20
	case core.StrengthModerate:
		return 15
	default:
		return 10
	}
}
