package analysis

import "github.com/scrylabs/scry/internal/core"

// supportResistance derives trading levels from the last ten candles
// and clamps them into bands around the live price so that stale or
// gappy history cannot place them absurdly far from where the symbol
// actually trades.
func supportResistance(currentPrice float64, candles []core.Candle) (support, resistance float64) {
	if len(candles) <= 1 {
		return currentPrice * 0.95, currentPrice * 1.10
	}

	window := candles
	if len(window) > 10 {
		window = window[len(window)-10:]
	}

	low := window[0].Low
	high := window[0].High
	for _, c := range window[1:] {
		if c.Low < low {
			low = c.Low
		}
		if c.High > high {
			high = c.High
		}
	}

	support = low * 1.01
	resistance = high * 0.99

	if support > currentPrice*0.98 {
		support = currentPrice * 0.95
	} else if support < currentPrice*0.85 {
		support = currentPrice * 0.85
	}

	if resistance < currentPrice*1.02 {
		resistance = currentPrice * 1.05
	} else if resistance > currentPrice*1.15 {
		resistance = currentPrice * 1.15
	}

	// Inverted levels mean the window was useless; fall back to the
	// price-relative defaults.
	if support >= resistance {
		support = currentPrice * 0.95
		resistance = currentPrice * 1.10
	}

	return support, resistance
}
