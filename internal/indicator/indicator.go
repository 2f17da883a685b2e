// Package indicator computes technical indicator values from a candle
// series. It serves as the local fallback source when the vendor
// indicator endpoints are unavailable.
package indicator

import (
	"github.com/cinar/indicator/v2/helper"
	"github.com/cinar/indicator/v2/momentum"
	"github.com/cinar/indicator/v2/trend"

	"github.com/scrylabs/scry/internal/core"
)

const (
	rsiPeriod  = 14
	macdFast   = 12
	macdSlow   = 26
	macdSignal = 9
	smaShort   = 20
	smaLong    = 50
)

// Compute derives RSI(14), MACD(12/26/9) and SMA(20/50) from candle
// closes. Indicators whose minimum series length is not met stay nil;
// the result is nil when nothing is computable.
func Compute(candles []core.Candle) *core.TechnicalIndicators {
	closes := make([]float64, len(candles))
	for i, c := range candles {
		closes[i] = c.Close
	}

	ind := &core.TechnicalIndicators{}

	if rsi, ok := latestRSI(closes); ok {
		ind.RSI = &rsi
	}
	if macd, ok := latestMACD(closes); ok {
		ind.MACD = macd
	}
	if sma, ok := latestSMA(closes); ok {
		ind.SMA = sma
	}

	if ind.RSI == nil && ind.MACD == nil && ind.SMA == nil {
		return nil
	}
	return ind
}

func latestRSI(closes []float64) (float64, bool) {
	if len(closes) < rsiPeriod+1 {
		return 0, false
	}
	rsi := momentum.NewRsiWithPeriod[float64](rsiPeriod)
	values := helper.ChanToSlice(rsi.Compute(helper.SliceToChan(closes)))
	if len(values) == 0 {
		return 0, false
	}
	return values[len(values)-1], true
}

func latestMACD(closes []float64) (*core.MACDValue, bool) {
	if len(closes) < macdSlow+macdSignal {
		return nil, false
	}
	macd := trend.NewMacdWithPeriod[float64](macdFast, macdSlow, macdSignal)
	lineCh, signalCh := macd.Compute(helper.SliceToChan(closes))
	// Both outputs share one unbuffered pipeline inside the library;
	// they must be drained concurrently or the fan-out blocks forever.
	signalDone := make(chan []float64, 1)
	go func() { signalDone <- helper.ChanToSlice(signalCh) }()
	line := helper.ChanToSlice(lineCh)
	signal := <-signalDone
	if len(line) == 0 || len(line) != len(signal) {
		return nil, false
	}
	last := len(line) - 1
	return &core.MACDValue{
		MACD:      line[last],
		Signal:    signal[last],
		Histogram: line[last] - signal[last],
	}, true
}

func latestSMA(closes []float64) (*core.SMAValue, bool) {
	if len(closes) < smaLong {
		return nil, false
	}
	short := trend.NewSmaWithPeriod[float64](smaShort)
	long := trend.NewSmaWithPeriod[float64](smaLong)
	shortValues := helper.ChanToSlice(short.Compute(helper.SliceToChan(closes)))
	longValues := helper.ChanToSlice(long.Compute(helper.SliceToChan(closes)))
	if len(shortValues) == 0 || len(longValues) == 0 {
		return nil, false
	}
	return &core.SMAValue{
		SMA20: shortValues[len(shortValues)-1],
		SMA50: longValues[len(longValues)-1],
	}, true
}
