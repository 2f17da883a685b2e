package analysis

import (
	"math"
	"testing"

	"github.com/scrylabs/scry/internal/core"
)

// assertResultSane checks the guarantees every analysis must hold, no
// matter how degraded the input was.
func assertResultSane(t *testing.T, price float64, res *core.AnalysisResult) {
	t.Helper()

	numeric := map[string]float64{
		"support":         res.Support,
		"resistance":      res.Resistance,
		"target":          res.TargetPrice,
		"targetReturn":    res.TargetReturn,
		"stopLoss":        res.StopLoss,
		"stopLossPercent": res.StopLossPercent,
		"obv":             res.OBVResidualRate,
		"similarity":      res.Pattern.Similarity,
		"referenceYield":  res.Pattern.ReferenceYield,
	}
	for name, v := range numeric {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Errorf("%s is not finite: %v", name, v)
		}
	}

	if res.Score < 0 || res.Score > 100 {
		t.Errorf("score %d out of range", res.Score)
	}
	if res.OBVResidualRate < 0.8 || res.OBVResidualRate > 1.2 {
		t.Errorf("obv rate %v outside [0.8, 1.2]", res.OBVResidualRate)
	}
	if res.Pattern.Similarity < 0 || res.Pattern.Similarity > 100 {
		t.Errorf("similarity %v outside [0, 100]", res.Pattern.Similarity)
	}
	if res.TargetPrice <= price {
		t.Errorf("target %v not above price %v", res.TargetPrice, price)
	}
	if res.StopLoss >= price {
		t.Errorf("stop %v not below price %v", res.StopLoss, price)
	}
	if res.Support >= res.Resistance {
		t.Errorf("support %v not below resistance %v", res.Support, res.Resistance)
	}
}

func TestCompute_FlatSeries(t *testing.T) {
	// Fifteen identical candles at 100 with volume 1000 and a live
	// price of exactly 100.
	candles := candlesFromCloses(
		100, 100, 100, 100, 100, 100, 100, 100,
		100, 100, 100, 100, 100, 100, 100,
	)
	res, err := Compute(100, candles, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Trend.Direction != core.TrendSideways || res.Trend.Strength != core.StrengthWeak {
		t.Errorf("expected sideways/weak, got %s/%s", res.Trend.Direction, res.Trend.Strength)
	}
	if res.Energy.SellingPressure != core.PressureStable {
		t.Errorf("expected stable pressure, got %s", res.Energy.SellingPressure)
	}
	if res.OBVResidualRate != 1.0 || res.OBVStrength != core.OBVModerate {
		t.Errorf("expected neutral OBV, got %v/%s", res.OBVResidualRate, res.OBVStrength)
	}
	if res.Candle.Direction != core.CandleNeutral || res.Candle.Pattern != core.PatternDoji {
		t.Errorf("expected neutral doji, got %s/%s", res.Candle.Direction, res.Candle.Pattern)
	}
	if res.Signal.Type != core.SignalBearishDivergence || res.Signal.Action != core.ActionSell {
		t.Errorf("expected bearish/sell on flat momentum, got %s/%s", res.Signal.Type, res.Signal.Action)
	}

	// score: 50 base
	//   + 13.2 similarity (0.6*80 + 0.4*100 = 88 -> 88/100*15)
	//   +  5   neutral OBV
	//   - 15   flat momentum reads bearish
	// = 53.2 -> 53, grade B
	if res.Score != 53 {
		t.Errorf("expected score 53, got %d", res.Score)
	}
	if res.Grade != core.GradeB {
		t.Errorf("expected grade B, got %s", res.Grade)
	}

	// Levels off a flat window: 101 support pulls to 95, 99 resistance
	// pushes to 105. Sideways targets then tighten the stop to hold
	// reward at twice the risk against the capped 105 target.
	if res.Support != 95 || res.Resistance != 105 {
		t.Errorf("expected levels 95/105, got %v/%v", res.Support, res.Resistance)
	}
	if res.TargetPrice != 105 || res.StopLoss != 97.5 {
		t.Errorf("expected targets 105/97.5, got %v/%v", res.TargetPrice, res.StopLoss)
	}

	assertResultSane(t, 100, res)
}

func TestCompute_RisingSeries(t *testing.T) {
	// Fifteen candles climbing evenly from 90 to 110 on rising volume,
	// live price equal to the final close.
	candles := make([]core.Candle, 15)
	step := 20.0 / 14.0
	for i := range candles {
		c := 90 + float64(i)*step
		o := c
		if i > 0 {
			o = 90 + float64(i-1)*step
		}
		candles[i] = core.Candle{
			Open:      o,
			High:      c,
			Low:       o,
			Close:     c,
			Volume:    1000 + float64(i)*100,
			Timestamp: int64(1700000000 + i*86400),
		}
	}

	res, err := Compute(110, candles, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// blended = 0.7*(110-closes[10]) + 0.3*(110-90) = 4 + 6 = 10
	// 10/110*100 = 9.09%: uptrend, moderate
	if res.Trend.Direction != core.TrendUp {
		t.Errorf("expected uptrend, got %s", res.Trend.Direction)
	}
	if res.Trend.Strength != core.StrengthModerate {
		t.Errorf("expected moderate strength, got %s", res.Trend.Strength)
	}
	if res.Energy.SellingPressure != core.PressureDecreased || res.Energy.Pattern != core.CrossGolden {
		t.Errorf("expected decreased/golden-cross, got %s/%s", res.Energy.SellingPressure, res.Energy.Pattern)
	}
	// Identical step and spread in both comparison windows.
	if math.Abs(res.Pattern.Similarity-100) > 1e-6 {
		t.Errorf("expected similarity 100, got %v", res.Pattern.Similarity)
	}
	if res.OBVStrength != core.OBVStrong {
		t.Errorf("expected strong OBV on an all-up series, got %s", res.OBVStrength)
	}
	if res.Signal.Type != core.SignalBullishDivergence || res.Signal.Action != core.ActionBuy {
		t.Errorf("expected bullish/buy, got %s/%s", res.Signal.Type, res.Signal.Action)
	}

	// Every term lands bullish: 50+15+15+15+5+10+10+15 = 135, clamped.
	if res.Score != 100 {
		t.Errorf("expected score 100, got %d", res.Score)
	}
	if res.Score <= 70 {
		t.Errorf("rising series must score above 70, got %d", res.Score)
	}

	assertResultSane(t, 110, res)
}

func TestCompute_EmptySeries(t *testing.T) {
	res, err := Compute(50, nil, nil)
	if err != nil {
		t.Fatalf("expected degraded analysis, got error: %v", err)
	}

	if res.Trend.Direction != core.TrendSideways || res.Trend.Strength != core.StrengthWeak {
		t.Errorf("expected sideways/weak, got %s/%s", res.Trend.Direction, res.Trend.Strength)
	}
	if res.Candle.Direction != core.CandleNeutral || res.Candle.Pattern != core.PatternNone {
		t.Errorf("expected neutral/None, got %s/%s", res.Candle.Direction, res.Candle.Pattern)
	}
	if math.Abs(res.Support-47.5) > 1e-9 {
		t.Errorf("expected support 47.5, got %v", res.Support)
	}
	if math.Abs(res.Resistance-55) > 1e-9 {
		t.Errorf("expected resistance 55, got %v", res.Resistance)
	}

	// 50 + 5 (neutral OBV) - 15 (flat momentum reads bearish) = 40
	if res.Score != 40 {
		t.Errorf("expected score 40, got %d", res.Score)
	}
	if res.Grade != core.GradeC {
		t.Errorf("expected grade C, got %s", res.Grade)
	}

	assertResultSane(t, 50, res)
}

func TestCompute_SingleCandle(t *testing.T) {
	candles := candlesFromCloses(98)
	res, err := Compute(100, candles, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.Trend.Direction != core.TrendSideways {
		t.Errorf("expected sideways on one candle, got %s", res.Trend.Direction)
	}
	if math.Abs(res.Support-95) > 1e-9 || math.Abs(res.Resistance-110) > 1e-9 {
		t.Errorf("expected degraded levels 95/110, got %v/%v", res.Support, res.Resistance)
	}
	assertResultSane(t, 100, res)
}

func TestCompute_SaneAcrossShapes(t *testing.T) {
	shapes := map[string][]core.Candle{
		"empty":   nil,
		"single":  candlesFromCloses(42),
		"flat":    candlesFromCloses(10, 10, 10, 10, 10, 10),
		"rising":  candlesFromCloses(10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20, 21),
		"falling": candlesFromCloses(21, 20, 19, 18, 17, 16, 15, 14, 13, 12, 11, 10),
		"zigzag":  candlesFromCloses(10, 14, 9, 15, 8, 16, 7, 17, 6, 18, 5, 19),
	}
	prices := []float64{0.37, 12.5, 480}

	for name, candles := range shapes {
		for _, price := range prices {
			res, err := Compute(price, candles, nil)
			if err != nil {
				t.Fatalf("%s at %v: unexpected error: %v", name, price, err)
			}
			assertResultSane(t, price, res)
		}
	}
}

func TestCompute_PassesIndicatorsThrough(t *testing.T) {
	rsi := 55.0
	ind := &core.TechnicalIndicators{RSI: &rsi}
	res, err := Compute(100, candlesFromCloses(100, 101, 102), ind)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Indicators != ind {
		t.Errorf("expected indicators carried on the result")
	}
}
