package twelvedata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/scrylabs/scry/internal/collector"
	"github.com/scrylabs/scry/internal/core"
)

const (
	baseURL = "https://api.twelvedata.com"
)

// TwelveData implements quote, daily history and indicator fetching
// against the Twelve Data REST API. The vendor encodes numbers as
// strings and returns series newest-first; this adapter normalizes
// both.
type TwelveData struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

// New creates a new Twelve Data provider
func New(apiKey string) *TwelveData {
	return &TwelveData{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

// NewWithBaseURL creates a Twelve Data provider with custom base URL (for testing)
func NewWithBaseURL(apiKey, url string) *TwelveData {
	td := New(apiKey)
	td.baseURL = url
	return td
}

func (td *TwelveData) Name() string {
	return "twelvedata"
}

// FetchQuote fetches the latest quote.
func (td *TwelveData) FetchQuote(ctx context.Context, symbol string) (*core.Quote, error) {
	if err := collector.ValidateSymbol(symbol); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("symbol", symbol)

	var result quoteResponse
	if err := td.get(ctx, "/quote", params, &result); err != nil {
		return nil, fmt.Errorf("fetching quote: %w", err)
	}
	if err := result.apiStatus.check(); err != nil {
		return nil, err
	}

	price := parseFloat(result.Close)
	if price <= 0 {
		return nil, fmt.Errorf("no quote data for symbol: %s", symbol)
	}

	return &core.Quote{
		Symbol:        symbol,
		Price:         price,
		PrevClose:     parseFloat(result.PreviousClose),
		Change:        parseFloat(result.Change),
		ChangePercent: parseFloat(result.PercentChange),
		Timestamp:     result.Timestamp,
		Source:        "twelvedata",
	}, nil
}

// FetchHistory fetches up to days daily candles, returned oldest-first.
func (td *TwelveData) FetchHistory(ctx context.Context, symbol string, days int) ([]core.Candle, error) {
	if err := collector.ValidateSymbol(symbol); err != nil {
		return nil, err
	}
	if days <= 0 {
		days = 90
	}

	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("interval", "1day")
	params.Set("outputsize", strconv.Itoa(days))

	var result timeSeriesResponse
	if err := td.get(ctx, "/time_series", params, &result); err != nil {
		return nil, fmt.Errorf("fetching history: %w", err)
	}
	if err := result.apiStatus.check(); err != nil {
		return nil, err
	}

	// Vendor order is newest-first; walk backwards to emit oldest-first.
	candles := make([]core.Candle, 0, len(result.Values))
	for i := len(result.Values) - 1; i >= 0; i-- {
		v := result.Values[i]
		candles = append(candles, core.Candle{
			Open:      parseFloat(v.Open),
			High:      parseFloat(v.High),
			Low:       parseFloat(v.Low),
			Close:     parseFloat(v.Close),
			Volume:    parseFloat(v.Volume),
			Timestamp: parseTimestamp(v.Datetime),
		})
	}

	return candles, nil
}

// FetchIndicators fetches RSI(14), MACD(12/26/9) and SMA(20/50) from the
// vendor's indicator endpoints. Individual endpoint failures leave that
// field nil; the call errors only when every endpoint failed.
func (td *TwelveData) FetchIndicators(ctx context.Context, symbol string) (*core.TechnicalIndicators, error) {
	if err := collector.ValidateSymbol(symbol); err != nil {
		return nil, err
	}

	ind := &core.TechnicalIndicators{}

	if rsi, err := td.fetchRSI(ctx, symbol); err == nil {
		ind.RSI = &rsi
	}
	if macd, err := td.fetchMACD(ctx, symbol); err == nil {
		ind.MACD = macd
	}
	sma20, err20 := td.fetchSMA(ctx, symbol, 20)
	sma50, err50 := td.fetchSMA(ctx, symbol, 50)
	if err20 == nil && err50 == nil {
		ind.SMA = &core.SMAValue{SMA20: sma20, SMA50: sma50}
	}

	if ind.RSI == nil && ind.MACD == nil && ind.SMA == nil {
		return nil, fmt.Errorf("no indicator values for symbol: %s", symbol)
	}

	return ind, nil
}

func (td *TwelveData) fetchRSI(ctx context.Context, symbol string) (float64, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("interval", "1day")
	params.Set("time_period", "14")

	var result rsiResponse
	if err := td.get(ctx, "/rsi", params, &result); err != nil {
		return 0, err
	}
	if err := result.apiStatus.check(); err != nil {
		return 0, err
	}
	if len(result.Values) == 0 {
		return 0, fmt.Errorf("empty rsi series")
	}
	return parseFloat(result.Values[0].RSI), nil
}

func (td *TwelveData) fetchMACD(ctx context.Context, symbol string) (*core.MACDValue, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("interval", "1day")

	var result macdResponse
	if err := td.get(ctx, "/macd", params, &result); err != nil {
		return nil, err
	}
	if err := result.apiStatus.check(); err != nil {
		return nil, err
	}
	if len(result.Values) == 0 {
		return nil, fmt.Errorf("empty macd series")
	}
	v := result.Values[0]
	return &core.MACDValue{
		MACD:      parseFloat(v.MACD),
		Signal:    parseFloat(v.MACDSignal),
		Histogram: parseFloat(v.MACDHist),
	}, nil
}

func (td *TwelveData) fetchSMA(ctx context.Context, symbol string, period int) (float64, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("interval", "1day")
	params.Set("time_period", strconv.Itoa(period))

	var result smaResponse
	if err := td.get(ctx, "/sma", params, &result); err != nil {
		return 0, err
	}
	if err := result.apiStatus.check(); err != nil {
		return 0, err
	}
	if len(result.Values) == 0 {
		return 0, fmt.Errorf("empty sma series")
	}
	return parseFloat(result.Values[0].SMA), nil
}

// get performs an authenticated GET and decodes the JSON body into out.
func (td *TwelveData) get(ctx context.Context, path string, params url.Values, out any) error {
	params.Set("apikey", td.apiKey)
	endpoint := td.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := td.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(s, 64)
	return f
}

// parseTimestamp handles the vendor's daily and intraday datetime layouts.
func parseTimestamp(s string) int64 {
	for _, layout := range []string{"2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Unix()
		}
	}
	return 0
}

// Twelve Data API response types. Errors arrive as HTTP 200 with
// status "error" and a vendor code.
type apiStatus struct {
	Status  string `json:"status"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (s apiStatus) check() error {
	if s.Status == "error" {
		return fmt.Errorf("twelvedata error %d: %s", s.Code, s.Message)
	}
	return nil
}

type quoteResponse struct {
	apiStatus
	Symbol        string `json:"symbol"`
	Name          string `json:"name"`
	Exchange      string `json:"exchange"`
	Currency      string `json:"currency"`
	Timestamp     int64  `json:"timestamp"`
	Open          string `json:"open"`
	High          string `json:"high"`
	Low           string `json:"low"`
	Close         string `json:"close"`
	Volume        string `json:"volume"`
	PreviousClose string `json:"previous_close"`
	Change        string `json:"change"`
	PercentChange string `json:"percent_change"`
}

type timeSeriesResponse struct {
	apiStatus
	Values []timeSeriesValue `json:"values"`
}

type timeSeriesValue struct {
	Datetime string `json:"datetime"`
	Open     string `json:"open"`
	High     string `json:"high"`
	Low      string `json:"low"`
	Close    string `json:"close"`
	Volume   string `json:"volume"`
}

type rsiResponse struct {
	apiStatus
	Values []struct {
		Datetime string `json:"datetime"`
		RSI      string `json:"rsi"`
	} `json:"values"`
}

type macdResponse struct {
	apiStatus
	Values []struct {
		Datetime   string `json:"datetime"`
		MACD       string `json:"macd"`
		MACDSignal string `json:"macd_signal"`
		MACDHist   string `json:"macd_hist"`
	} `json:"values"`
}

type smaResponse struct {
	apiStatus
	Values []struct {
		Datetime string `json:"datetime"`
		SMA      string `json:"sma"`
	} `json:"values"`
}
