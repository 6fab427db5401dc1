package binance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Alias1177/WyckoffTape/internal/model"
	httpClient "github.com/Alias1177/WyckoffTape/internal/platform/http"
)

const (
	DefaultBaseURL = "https://api.binance.com"
	// MaxLimit is the largest page the klines endpoint serves.
	MaxLimit = 1000
)

// Intervals lists the kline intervals accepted by Binance.
var Intervals = []string{
	"1m", "3m", "5m", "15m", "30m",
	"1h", "2h", "4h", "6h", "8h", "12h",
	"1d", "3d", "1w", "1M",
}

// ErrEmptyResponse is returned when Binance answers with no klines.
var ErrEmptyResponse = errors.New("empty kline data returned")

// APIError is the error body Binance returns with a non-200 status.
type APIError struct {
	Status  int    `json:"-"`
	Code    int    `json:"code"`
	Message string `json:"msg"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("binance API error %d (status %d): %s", e.Code, e.Status, e.Message)
}

// Client is the Binance public market data client
type Client struct {
	baseURL    string
	httpClient *httpClient.Client
	logger     zerolog.Logger
}

// ClientOptions holds options for creating a new Binance client
type ClientOptions struct {
	BaseURL         string
	RequestTimeout  time.Duration
	RequestsPerSec  int
	MaxRetries      int
	MaxRetryTimeout time.Duration
}

// NewClient creates a new Binance API client
func NewClient(options ClientOptions) *Client {
	httpOpts := httpClient.ClientOptions{
		Timeout:         options.RequestTimeout,
		RequestsPerSec:  options.RequestsPerSec,
		MaxRetries:      options.MaxRetries,
		MaxRetryTimeout: options.MaxRetryTimeout,
	}

	baseURL := options.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient.NewClient(httpOpts),
		logger:     log.With().Str("component", "binance_client").Logger(),
	}
}

// GetCandles fetches the most recent `limit` klines, oldest first.
func (c *Client) GetCandles(ctx context.Context, symbol, interval string, limit int) ([]model.Candle, error) {
	if limit <= 0 || limit > MaxLimit {
		return nil, fmt.Errorf("limit must be in 1..%d, got %d", MaxLimit, limit)
	}

	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("interval", interval)
	q.Set("limit", strconv.Itoa(limit))
	endpoint := c.baseURL + "/api/v3/klines?" + q.Encode()

	c.logger.Debug().Str("url", endpoint).Msg("Fetching klines")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.DoRequest(ctx, req)
	if err != nil {
		var statusErr *httpClient.HTTPStatusError
		if errors.As(err, &statusErr) {
			apiErr := &APIError{Status: statusErr.StatusCode}
			if json.Unmarshal(statusErr.Body, apiErr) == nil && apiErr.Message != "" {
				c.logger.Error().Int("code", apiErr.Code).Str("msg", apiErr.Message).Msg("Binance API error")
				return nil, apiErr
			}
		}
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	candles, err := parseKlines(body)
	if err != nil {
		c.logger.Error().Err(err).Int("bytes", len(body)).Msg("Error parsing klines")
		return nil, err
	}

	c.logger.Debug().Int("count", len(candles)).Str("symbol", symbol).Msg("Fetched candles")
	return candles, nil
}

// parseKlines decodes the array-of-arrays kline payload:
// [openTime, open, high, low, close, volume, closeTime, ...] with prices as strings.
func parseKlines(body []byte) ([]model.Candle, error) {
	var raw [][]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}
	if len(raw) == 0 {
		return nil, ErrEmptyResponse
	}

	candles := make([]model.Candle, 0, len(raw))
	for i, k := range raw {
		if len(k) < 6 {
			return nil, fmt.Errorf("kline %d: expected at least 6 fields, got %d", i, len(k))
		}

		var openTime int64
		if err := json.Unmarshal(k[0], &openTime); err != nil {
			return nil, fmt.Errorf("kline %d: open time: %w", i, err)
		}

		var prices [5]float64
		for j := range prices {
			v, err := parseDecimal(k[j+1])
			if err != nil {
				return nil, fmt.Errorf("kline %d field %d: %w", i, j+1, err)
			}
			prices[j] = v
		}

		candles = append(candles, model.Candle{
			Time:   time.UnixMilli(openTime).UTC(),
			Open:   prices[0],
			High:   prices[1],
			Low:    prices[2],
			Close:  prices[3],
			Volume: prices[4],
		})
	}

	// Sort candles by time (oldest first for proper calculations)
	sort.Slice(candles, func(i, j int) bool {
		return candles[i].Time.Before(candles[j].Time)
	})

	return candles, nil
}

func parseDecimal(raw json.RawMessage) (float64, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, fmt.Errorf("expected string decimal: %w", err)
	}
	return strconv.ParseFloat(s, 64)
}
