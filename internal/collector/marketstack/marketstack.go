package marketstack

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
	baseURL = "https://api.marketstack.com/v1"
)

// Marketstack implements end-of-day history and latest-EOD quote
// fetching. Series come back newest-first straight from the vendor;
// ordering is left to the caller. Adjusted OHLCV fields are preferred
// over raw ones when positive.
type Marketstack struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

// New creates a new Marketstack provider
func New(apiKey string) *Marketstack {
	return &Marketstack{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

// NewWithBaseURL creates a Marketstack provider with custom base URL (for testing)
func NewWithBaseURL(apiKey, url string) *Marketstack {
	m := New(apiKey)
	m.baseURL = url
	return m
}

func (m *Marketstack) Name() string {
	return "marketstack"
}

// FetchHistory fetches up to days end-of-day candles in vendor order
// (newest-first).
func (m *Marketstack) FetchHistory(ctx context.Context, symbol string, days int) ([]core.Candle, error) {
	if err := collector.ValidateSymbol(symbol); err != nil {
		return nil, err
	}
	if days <= 0 {
		days = 90
	}

	endpoint := fmt.Sprintf("%s/eod?access_key=%s&symbols=%s&limit=%s",
		m.baseURL, m.apiKey, url.QueryEscape(symbol), strconv.Itoa(days))

	var result eodResponse
	if err := m.get(ctx, endpoint, &result); err != nil {
		return nil, fmt.Errorf("fetching history: %w", err)
	}

	candles := make([]core.Candle, 0, len(result.Data))
	for _, rec := range result.Data {
		candles = append(candles, core.Candle{
			Open:      pick(rec.AdjOpen, rec.Open),
			High:      pick(rec.AdjHigh, rec.High),
			Low:       pick(rec.AdjLow, rec.Low),
			Close:     pick(rec.AdjClose, rec.Close),
			Volume:    pick(rec.AdjVolume, rec.Volume),
			Timestamp: parseDate(rec.Date),
		})
	}

	return candles, nil
}

// FetchQuote derives a quote candidate from the latest EOD record. The
// vendor does not supply a previous close here, so PrevClose stays 0
// and the reconciler reports a 0 change percent if this candidate wins.
func (m *Marketstack) FetchQuote(ctx context.Context, symbol string) (*core.Quote, error) {
	if err := collector.ValidateSymbol(symbol); err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/eod/latest?access_key=%s&symbols=%s",
		m.baseURL, m.apiKey, url.QueryEscape(symbol))

	var result eodResponse
	if err := m.get(ctx, endpoint, &result); err != nil {
		return nil, fmt.Errorf("fetching latest eod: %w", err)
	}

	if len(result.Data) == 0 {
		return nil, fmt.Errorf("no eod data for symbol: %s", symbol)
	}

	rec := result.Data[0]
	price := pick(rec.AdjClose, rec.Close)
	if price <= 0 {
		return nil, fmt.Errorf("no eod close for symbol: %s", symbol)
	}

	return &core.Quote{
		Symbol:    symbol,
		Price:     price,
		Timestamp: parseDate(rec.Date),
		Source:    "marketstack",
	}, nil
}

func (m *Marketstack) get(ctx context.Context, endpoint string, out *eodResponse) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Error details ride in the body; best effort decode.
		var failure eodResponse
		if json.NewDecoder(resp.Body).Decode(&failure) == nil && failure.Error != nil {
			return fmt.Errorf("marketstack error %s: %s", failure.Error.Code, failure.Error.Message)
		}
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	if out.Error != nil {
		return fmt.Errorf("marketstack error %s: %s", out.Error.Code, out.Error.Message)
	}
	return nil
}

// pick prefers the adjusted value when the vendor filled it.
func pick(adjusted, raw float64) float64 {
	if adjusted > 0 {
		return adjusted
	}
	return raw
}

// parseDate handles the vendor's ISO-8601 date with numeric zone.
func parseDate(s string) int64 {
	t, err := time.Parse("2006-01-02T15:04:05-0700", s)
	if err != nil {
		return 0
	}
	return t.Unix()
}

// Marketstack API response types
type eodResponse struct {
	Pagination struct {
		Limit  int `json:"limit"`
		Offset int `json:"offset"`
		Count  int `json:"count"`
		Total  int `json:"total"`
	} `json:"pagination"`
	Data  []eodRecord `json:"data"`
	Error *apiError   `json:"error"`
}

type eodRecord struct {
	Open        float64 `json:"open"`
	High        float64 `json:"high"`
	Low         float64 `json:"low"`
	Close       float64 `json:"close"`
	Volume      float64 `json:"volume"`
	AdjOpen     float64 `json:"adj_open"`
	AdjHigh     float64 `json:"adj_high"`
	AdjLow      float64 `json:"adj_low"`
	AdjClose    float64 `json:"adj_close"`
	AdjVolume   float64 `json:"adj_volume"`
	SplitFactor float64 `json:"split_factor"`
	Dividend    float64 `json:"dividend"`
	Symbol      string  `json:"symbol"`
	Exchange    string  `json:"exchange"`
	Date        string  `json:"date"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
