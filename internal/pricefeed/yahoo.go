package pricefeed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
)

const (
	yahooChartPath = "/v8/finance/chart/"
	// Path of the spot price inside the chart payload.
	spotPricePath = "chart.result.0.meta.regularMarketPrice"
)

// YahooOptions parameterise the Yahoo Finance fetcher.
type YahooOptions struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
}

// Yahoo fetches spot prices from the Yahoo Finance chart API. No API
// key is required; the endpoint is rate-limited.
type Yahoo struct {
	opts    YahooOptions
	logger  zerolog.Logger
	client  *http.Client
	baseURL string
}

// NewYahoo constructs a Yahoo Finance fetcher.
func NewYahoo(opts YahooOptions, logger zerolog.Logger) *Yahoo {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://query1.finance.yahoo.com"
	}

	return &Yahoo{
		opts:    opts,
		logger:  logger.With().Str("component", "yahoo_fetcher").Logger(),
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// Spot retrieves the regular market price for a ticker in USD.
func (y *Yahoo) Spot(ctx context.Context, symbol string) (decimal.Decimal, error) {
	if symbol == "" {
		return decimal.Decimal{}, fmt.Errorf("symbol required")
	}

	endpoint := y.baseURL + yahooChartPath + symbol
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return decimal.Decimal{}, err
	}
	req.Header.Set("Accept", "application/json")
	if ua := strings.TrimSpace(y.opts.UserAgent); ua != "" {
		req.Header.Set("User-Agent", ua)
	} else {
		req.Header.Set("User-Agent", "HavonaOracle/1.0")
	}

	resp, err := y.client.Do(req)
	if err != nil {
		return decimal.Decimal{}, err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return decimal.Decimal{}, err
	}

	if resp.StatusCode != http.StatusOK {
		return decimal.Decimal{}, chartHTTPError(symbol, resp.StatusCode, payload)
	}

	spot := gjson.GetBytes(payload, spotPricePath)
	if !spot.Exists() || spot.Type != gjson.Number {
		return decimal.Decimal{}, fmt.Errorf("chart payload for %s missing spot price", symbol)
	}

	// Parse the raw JSON literal so the decimal value is exact; the
	// fixed-point scaling downstream is bit-for-bit sensitive.
	price, err := decimal.NewFromString(spot.Raw)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parse spot price for %s: %w", symbol, err)
	}

	return price, nil
}

func chartHTTPError(symbol string, status int, payload []byte) error {
	desc := gjson.GetBytes(payload, "chart.error.description")
	if desc.Exists() && desc.String() != "" {
		return fmt.Errorf("yahoo chart error for %s (%d): %s", symbol, status, desc.String())
	}
	if len(payload) > 0 {
		return fmt.Errorf("yahoo chart error for %s (%d): %s", symbol, status, strings.TrimSpace(string(payload)))
	}
	return fmt.Errorf("yahoo chart error for %s (%d)", symbol, status)
}

var _ Source = (*Yahoo)(nil)
