package core

import "time"

// Candle represents a single daily OHLCV bar. Series are ordered
// oldest-first; Timestamp is unix seconds, 0 when the vendor omits it.
type Candle struct {
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
	Volume    float64 `json:"volume"`
	Timestamp int64   `json:"timestamp"`
}

// Quote represents a reconciled or vendor-sourced price snapshot.
// Quotes are ephemeral: consumed within a single analysis request,
// never persisted.
type Quote struct {
	Symbol        string  `json:"symbol"`
	Price         float64 `json:"price"`
	PrevClose     float64 `json:"prev_close"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"change_percent"`
	Timestamp     int64   `json:"timestamp"`
	Source        string  `json:"source"`
}

// IsValid checks if the quote has required fields.
func (q Quote) IsValid() bool {
	return q.Symbol != "" && q.Price > 0
}

// CompanyProfile holds basic descriptive data about a listed company.
type CompanyProfile struct {
	Symbol    string  `json:"symbol"`
	Name      string  `json:"name"`
	Exchange  string  `json:"exchange"`
	Industry  string  `json:"industry"`
	Currency  string  `json:"currency"`
	MarketCap float64 `json:"market_cap"`
	WebURL    string  `json:"web_url,omitempty"`
}

// TrendDirection classifies the blended price movement.
type TrendDirection string

const (
	TrendUp       TrendDirection = "uptrend"
	TrendDown     TrendDirection = "downtrend"
	TrendSideways TrendDirection = "sideways"
)

// TrendStrength classifies the magnitude of the blended movement.
type TrendStrength string

const (
	StrengthWeak     TrendStrength = "weak"
	StrengthModerate TrendStrength = "moderate"
	StrengthStrong   TrendStrength = "strong"
)

// TrendInfo is the trend classification produced by the scoring engine.
type TrendInfo struct {
	Direction TrendDirection `json:"direction"`
	Strength  TrendStrength  `json:"strength"`
}

// PressureState describes how selling pressure moved between the
// older and recent volume windows.
type PressureState string

const (
	PressureIncreased PressureState = "increased"
	PressureDecreased PressureState = "decreased"
	PressureStable    PressureState = "stable"
)

// CrossPattern labels the volume-energy crossover.
type CrossPattern string

const (
	CrossGolden CrossPattern = "golden-cross"
	CrossDead   CrossPattern = "dead-cross"
	CrossNone   CrossPattern = "none"
)

// EnergyInfo is the volume-energy assessment.
type EnergyInfo struct {
	SellingPressure PressureState `json:"selling_pressure"`
	Pattern         CrossPattern  `json:"pattern"`
}

// PatternSimilarity compares the recent window against the prior window.
// Similarity is 0..100; ReferenceYield is a signed percentage.
type PatternSimilarity struct {
	Similarity     float64 `json:"similarity"`
	ReferenceYield float64 `json:"reference_yield"`
}

// CandleDirection is the direction of the final (live-patched) candle.
type CandleDirection string

const (
	CandleUp      CandleDirection = "up"
	CandleDown    CandleDirection = "down"
	CandleNeutral CandleDirection = "neutral"
)

// Candle pattern labels.
const (
	PatternHammer       = "Hammer"
	PatternDoji         = "Doji"
	PatternShootingStar = "Shooting Star"
	PatternNormal       = "Normal"
	PatternNone         = "None"
)

// CandlePattern is the single-candle shape classification.
type CandlePattern struct {
	Direction CandleDirection `json:"direction"`
	Pattern   string          `json:"pattern"`
}

// SignalType labels the momentum signal. The divergence names are kept
// for API compatibility even though the underlying check is a blended
// momentum sign, not a price/volume divergence.
type SignalType string

const (
	SignalBullishDivergence SignalType = "bullish-divergence"
	SignalBearishDivergence SignalType = "bearish-divergence"
	SignalNone              SignalType = "none"
)

// Action represents the suggested trading action.
type Action string

const (
	ActionBuy  Action = "buy"
	ActionSell Action = "sell"
	ActionHold Action = "hold"
)

// Signal pairs the momentum signal with the suggested action.
type Signal struct {
	Type        SignalType `json:"type"`
	Action      Action     `json:"action"`
	Description string     `json:"description"`
}

// OBVStrength buckets the OBV residual rate.
type OBVStrength string

const (
	OBVStrong   OBVStrength = "strong"
	OBVModerate OBVStrength = "moderate"
	OBVWeak     OBVStrength = "weak"
)

// MACDValue holds MACD line, signal line and histogram.
type MACDValue struct {
	MACD      float64 `json:"macd"`
	Signal    float64 `json:"signal"`
	Histogram float64 `json:"histogram"`
}

// SMAValue holds the 20 and 50 period simple moving averages.
type SMAValue struct {
	SMA20 float64 `json:"sma20"`
	SMA50 float64 `json:"sma50"`
}

// TechnicalIndicators carries externally supplied indicator values.
// Any field may be nil; the scoring engine treats missing indicators
// as zero-contribution, never as an error.
type TechnicalIndicators struct {
	RSI  *float64   `json:"rsi,omitempty"`
	MACD *MACDValue `json:"macd,omitempty"`
	SMA  *SMAValue  `json:"sma,omitempty"`
}

// Grade is the letter grade derived from the composite score.
type Grade string

const (
	GradeSSS Grade = "SSS"
	GradeSS  Grade = "SS"
	GradeS   Grade = "S"
	GradeA   Grade = "A"
	GradeB   Grade = "B"
	GradeC   Grade = "C"
	GradeD   Grade = "D"
	GradeF   Grade = "F"
)

// Narrative is the LLM-generated qualitative assessment.
type Narrative struct {
	Score       int      `json:"score"`
	Summary     string   `json:"summary"`
	RiskFactors []string `json:"risk_factors,omitempty"`
	Strategy    string   `json:"strategy,omitempty"`
	Sentiment   string   `json:"sentiment,omitempty"`
	Confidence  float64  `json:"confidence"`
	Provider    string   `json:"provider,omitempty"`
}

// AnalysisResult is the full output of one scoring run. Results are
// computed fresh per request and immutable once built.
type AnalysisResult struct {
	Symbol          string               `json:"symbol"`
	Score           int                  `json:"score"`
	Grade           Grade                `json:"grade"`
	Trend           TrendInfo            `json:"trend"`
	Energy          EnergyInfo           `json:"energy"`
	Pattern         PatternSimilarity    `json:"pattern"`
	OBVResidualRate float64              `json:"obv_residual_rate"`
	OBVStrength     OBVStrength          `json:"obv_strength"`
	Candle          CandlePattern        `json:"candle"`
	Signal          Signal               `json:"signal"`
	Indicators      *TechnicalIndicators `json:"indicators,omitempty"`
	Support         float64              `json:"support"`
	Resistance      float64              `json:"resistance"`
	TargetPrice     float64              `json:"target_price"`
	TargetReturn    float64              `json:"target_return"`
	StopLoss        float64              `json:"stop_loss"`
	StopLossPercent float64              `json:"stop_loss_percent"`
	CurrentPrice    float64              `json:"current_price"`
	PriceSource     string               `json:"price_source,omitempty"`
	HistorySource   string               `json:"history_source,omitempty"`
	Narrative       *Narrative           `json:"narrative,omitempty"`
	AnalyzedAt      time.Time            `json:"analyzed_at"`
}
