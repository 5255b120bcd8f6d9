package market

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"crypto-signal-bot/internal/models"
	"crypto-signal-bot/pkg/utils"
)

// binanceEndpoints are tried in order until one responds.
var binanceEndpoints = []string{
	"https://api.binance.com/api/v3",
	"https://data-api.binance.vision/api/v3",
	"https://api1.binance.com/api/v3",
	"https://api2.binance.com/api/v3",
	"https://api3.binance.com/api/v3",
	"https://api4.binance.com/api/v3",
}

// BinanceClient fetches market data from the Binance public REST API,
// rotating across mirror endpoints when one is unreachable.
type BinanceClient struct {
	endpoints   []string
	breakers    []*circuitBreaker
	httpClient  *http.Client
	limiter     *utils.RateLimiter
	logger      zerolog.Logger
	lastHealthy int
}

// NewBinanceClient creates a new Binance market data client.
func NewBinanceClient(logger zerolog.Logger) *BinanceClient {
	breakers := make([]*circuitBreaker, len(binanceEndpoints))
	for i, endpoint := range binanceEndpoints {
		breakers[i] = newCircuitBreaker(endpoint, defaultBreakerConfig())
	}
	return &BinanceClient{
		endpoints:  binanceEndpoints,
		breakers:   breakers,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		limiter:    utils.NewRateLimiter(20, time.Minute),
		logger:     logger.With().Str("component", "binance").Logger(),
	}
}

// GetCandles fetches up to limit klines for the symbol and timeframe.
func (b *BinanceClient) GetCandles(ctx context.Context, symbol, timeframe string, limit int) ([]models.Candle, error) {
	interval, err := binanceInterval(timeframe)
	if err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("symbol", strings.ToUpper(symbol))
	params.Set("interval", interval)
	params.Set("limit", strconv.Itoa(limit))

	body, err := b.getWithFallback(ctx, "/klines", params)
	if err != nil {
		return nil, err
	}

	candles, err := parseKlines(body)
	if err != nil {
		return nil, fmt.Errorf("parsing klines: %w", err)
	}

	b.logger.Info().
		Str("symbol", symbol).
		Str("timeframe", timeframe).
		Int("candles", len(candles)).
		Msg("Retrieved candles from Binance")

	return candles, nil
}

// GetPrice fetches the current price for a symbol.
func (b *BinanceClient) GetPrice(ctx context.Context, symbol string) (float64, error) {
	params := url.Values{}
	params.Set("symbol", strings.ToUpper(symbol))

	body, err := b.getWithFallback(ctx, "/ticker/price", params)
	if err != nil {
		return 0, err
	}

	var payload struct {
		Price string `json:"price"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return 0, fmt.Errorf("parsing price response: %w", err)
	}

	price, err := strconv.ParseFloat(payload.Price, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing price %q: %w", payload.Price, err)
	}
	return price, nil
}

// GetTicker24h fetches 24 hour rolling statistics for a symbol.
func (b *BinanceClient) GetTicker24h(ctx context.Context, symbol string) (*models.Ticker, error) {
	params := url.Values{}
	params.Set("symbol", strings.ToUpper(symbol))

	body, err := b.getWithFallback(ctx, "/ticker/24hr", params)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Symbol             string `json:"symbol"`
		PriceChange        string `json:"priceChange"`
		PriceChangePercent string `json:"priceChangePercent"`
		LastPrice          string `json:"lastPrice"`
		HighPrice          string `json:"highPrice"`
		LowPrice           string `json:"lowPrice"`
		Volume             string `json:"volume"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("parsing ticker response: %w", err)
	}

	ticker := &models.Ticker{Symbol: payload.Symbol}
	fields := []struct {
		raw string
		dst *float64
	}{
		{payload.PriceChange, &ticker.PriceChange},
		{payload.PriceChangePercent, &ticker.ChangePercent},
		{payload.LastPrice, &ticker.LastPrice},
		{payload.HighPrice, &ticker.High24h},
		{payload.LowPrice, &ticker.Low24h},
		{payload.Volume, &ticker.Volume24h},
	}
	for _, f := range fields {
		v, err := strconv.ParseFloat(f.raw, 64)
		if err != nil {
			return nil, fmt.Errorf("parsing ticker field %q: %w", f.raw, err)
		}
		*f.dst = v
	}

	return ticker, nil
}

// getWithFallback tries each endpoint in order, remembering the last one
// that answered so healthy mirrors are logged only on change. Endpoints
// whose circuit breaker is open are skipped until their probe window.
func (b *BinanceClient) getWithFallback(ctx context.Context, path string, params url.Values) ([]byte, error) {
	b.limiter.Wait()

	var lastErr error
	for i, base := range b.endpoints {
		if !b.breakers[i].Allow() {
			b.logger.Debug().Str("endpoint", base).Msg("Skipping endpoint with open breaker")
			continue
		}

		body, err := b.get(ctx, base+path+"?"+params.Encode())
		if err != nil {
			b.breakers[i].RecordFailure()
			b.logger.Warn().Err(err).Str("endpoint", base).Msg("Binance endpoint failed")
			lastErr = err
			continue
		}

		b.breakers[i].RecordSuccess()
		if i != b.lastHealthy {
			b.logger.Info().Str("endpoint", base).Msg("Switched Binance endpoint")
			b.lastHealthy = i
		}
		return body, nil
	}
	if lastErr == nil {
		return nil, fmt.Errorf("all Binance endpoints unavailable")
	}
	return nil, fmt.Errorf("all Binance endpoints failed: %w", lastErr)
}

func (b *BinanceClient) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// parseKlines decodes the Binance kline array-of-arrays format. Each entry
// is [openTime, open, high, low, close, volume, ...] with prices as strings.
func parseKlines(body []byte) ([]models.Candle, error) {
	var raw [][]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, err
	}

	candles := make([]models.Candle, 0, len(raw))
	for _, entry := range raw {
		if len(entry) < 6 {
			return nil, fmt.Errorf("kline entry has %d fields", len(entry))
		}

		var openTime int64
		if err := json.Unmarshal(entry[0], &openTime); err != nil {
			return nil, fmt.Errorf("parsing kline open time: %w", err)
		}

		var c models.Candle
		c.Timestamp = time.UnixMilli(openTime).UTC()

		for i, dst := range []*float64{&c.Open, &c.High, &c.Low, &c.Close, &c.Volume} {
			var s string
			if err := json.Unmarshal(entry[i+1], &s); err != nil {
				return nil, fmt.Errorf("parsing kline field %d: %w", i+1, err)
			}
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("parsing kline value %q: %w", s, err)
			}
			*dst = v
		}

		candles = append(candles, c)
	}

	return candles, nil
}

// binanceInterval maps a timeframe to the Binance interval string.
func binanceInterval(timeframe string) (string, error) {
	switch timeframe {
	case "1m", "5m", "15m", "30m", "1h", "4h", "1d":
		return timeframe, nil
	}
	return "", fmt.Errorf("unsupported timeframe %q", timeframe)
}
