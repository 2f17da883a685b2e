package finnhub

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/scrylabs/scry/internal/collector"
	"github.com/scrylabs/scry/internal/core"
)

const (
	baseURL = "https://finnhub.io/api/v1"
)

// Finnhub implements quote and company profile fetching against the
// Finnhub REST API.
type Finnhub struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

// New creates a new Finnhub provider
func New(apiKey string) *Finnhub {
	return &Finnhub{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

// NewWithBaseURL creates a Finnhub provider with custom base URL (for testing)
func NewWithBaseURL(apiKey, url string) *Finnhub {
	f := New(apiKey)
	f.baseURL = url
	return f
}

func (f *Finnhub) Name() string {
	return "finnhub"
}

// FetchQuote fetches the latest quote. Finnhub answers unknown symbols
// with an all-zero payload rather than an error status, so a zero price
// is treated as no data.
func (f *Finnhub) FetchQuote(ctx context.Context, symbol string) (*core.Quote, error) {
	if err := collector.ValidateSymbol(symbol); err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/quote?symbol=%s&token=%s", f.baseURL, url.QueryEscape(symbol), f.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching quote: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var result quoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	if result.Current <= 0 {
		return nil, fmt.Errorf("no quote data for symbol: %s", symbol)
	}

	quote := &core.Quote{
		Symbol:    symbol,
		Price:     result.Current,
		PrevClose: result.PrevClose,
		Timestamp: result.Timestamp,
		Source:    "finnhub",
	}
	if result.Change != nil {
		quote.Change = *result.Change
	}
	if result.ChangePercent != nil {
		quote.ChangePercent = *result.ChangePercent
	}

	return quote, nil
}

// FetchProfile fetches basic company data for a symbol.
func (f *Finnhub) FetchProfile(ctx context.Context, symbol string) (*core.CompanyProfile, error) {
	if err := collector.ValidateSymbol(symbol); err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/stock/profile2?symbol=%s&token=%s", f.baseURL, url.QueryEscape(symbol), f.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching profile: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	var result profileResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	if result.Name == "" {
		return nil, fmt.Errorf("no profile data for symbol: %s", symbol)
	}

	return &core.CompanyProfile{
		Symbol:    symbol,
		Name:      result.Name,
		Exchange:  result.Exchange,
		Industry:  result.Industry,
		Currency:  result.Currency,
		MarketCap: result.MarketCapitalization,
		WebURL:    result.WebURL,
	}, nil
}

// Finnhub API response types
type quoteResponse struct {
	Current       float64  `json:"c"`
	Change        *float64 `json:"d"`
	ChangePercent *float64 `json:"dp"`
	High          float64  `json:"h"`
	Low           float64  `json:"l"`
	Open          float64  `json:"o"`
	PrevClose     float64  `json:"pc"`
	Timestamp     int64    `json:"t"`
}

type profileResponse struct {
	Country              string  `json:"country"`
	Currency             string  `json:"currency"`
	Exchange             string  `json:"exchange"`
	Industry             string  `json:"finnhubIndustry"`
	MarketCapitalization float64 `json:"marketCapitalization"`
	Name                 string  `json:"name"`
	Ticker               string  `json:"ticker"`
	WebURL               string  `json:"weburl"`
}
