package binance

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const klinesFixture = `[
  [1735776000000, "94591.78", "97839.50", "94392.00", "96984.79", "21970.48", 1735862399999, "0", 1, "0", "0", "0"],
  [1735689600000, "93576.00", "95151.15", "92888.00", "94591.79", "10373.32", 1735775999999, "0", 1, "0", "0", "0"]
]`

func newTestClient(url string) *Client {
	return NewClient(ClientOptions{
		BaseURL:         url,
		RequestTimeout:  2 * time.Second,
		RequestsPerSec:  100,
		MaxRetries:      1,
		MaxRetryTimeout: time.Second,
	})
}

func TestGetCandles(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v3/klines" {
			t.Errorf("path = %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("symbol") != "BTCUSDT" || q.Get("interval") != "1d" || q.Get("limit") != "2" {
			t.Errorf("query = %s", r.URL.RawQuery)
		}
		w.Write([]byte(klinesFixture))
	}))
	defer srv.Close()

	candles, err := newTestClient(srv.URL).GetCandles(context.Background(), "BTCUSDT", "1d", 2)
	if err != nil {
		t.Fatalf("GetCandles() error = %v", err)
	}
	if len(candles) != 2 {
		t.Fatalf("len = %d, want 2", len(candles))
	}

	first := candles[0]
	if !first.Time.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("candles not sorted oldest first: %v", first.Time)
	}
	if first.Open != 93576 || first.High != 95151.15 || first.Low != 92888 || first.Close != 94591.79 || first.Volume != 10373.32 {
		t.Errorf("first candle = %+v", first)
	}
}

func TestGetCandlesAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"code":-1121,"msg":"Invalid symbol."}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).GetCandles(context.Background(), "NOPE", "1d", 10)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if apiErr.Code != -1121 || apiErr.Status != http.StatusBadRequest {
		t.Errorf("apiErr = %+v", apiErr)
	}
}

func TestGetCandlesEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).GetCandles(context.Background(), "BTCUSDT", "1d", 10)
	if !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("err = %v, want ErrEmptyResponse", err)
	}
}

func TestGetCandlesRejectsLimit(t *testing.T) {
	c := newTestClient("http://127.0.0.1:0")
	for _, limit := range []int{0, -5, MaxLimit + 1} {
		if _, err := c.GetCandles(context.Background(), "BTCUSDT", "1d", limit); err == nil {
			t.Errorf("limit %d: expected error", limit)
		}
	}
}

func TestParseKlinesMalformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `<html>`},
		{"short row", `[[1735689600000, "1", "2"]]`},
		{"numeric price", `[[1735689600000, 1.5, "2", "1", "1.5", "10"]]`},
		{"bad decimal", `[[1735689600000, "x", "2", "1", "1.5", "10"]]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseKlines([]byte(tt.body)); err == nil {
				t.Errorf("parseKlines(%s) = nil error", tt.body)
			}
		})
	}
}
