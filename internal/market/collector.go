// Package market collects OHLCV data from exchange REST APIs with
// fallback between sources, plus CSV datasets for offline runs.
package market

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"crypto-signal-bot/internal/models"
)

// Source provides historical candles for a symbol and timeframe.
type Source interface {
	GetCandles(ctx context.Context, symbol, timeframe string, limit int) ([]models.Candle, error)
}

// Collector queries sources in priority order and validates what it gets
// back before handing candles to analysis.
type Collector struct {
	binance *BinanceClient
	sources []Source
	logger  zerolog.Logger
}

// NewCollector creates a collector with Binance as the primary source and
// CoinGecko as the fallback.
func NewCollector(logger zerolog.Logger) *Collector {
	binance := NewBinanceClient(logger)
	return &Collector{
		binance: binance,
		sources: []Source{binance, NewCoinGeckoClient(logger)},
		logger:  logger.With().Str("component", "collector").Logger(),
	}
}

// GetCandles returns validated candles from the first source that delivers.
func (c *Collector) GetCandles(ctx context.Context, symbol, timeframe string, limit int) ([]models.Candle, error) {
	var lastErr error
	for _, source := range c.sources {
		candles, err := source.GetCandles(ctx, symbol, timeframe, limit)
		if err != nil {
			c.logger.Warn().Err(err).Str("symbol", symbol).Msg("Candle source failed")
			lastErr = err
			continue
		}
		if err := models.ValidateCandles(candles); err != nil {
			c.logger.Warn().Err(err).Str("symbol", symbol).Msg("Candle source returned invalid data")
			lastErr = err
			continue
		}
		return candles, nil
	}
	return nil, fmt.Errorf("all candle sources failed for %s %s: %w", symbol, timeframe, lastErr)
}

// GetPrice returns the current price for a symbol.
func (c *Collector) GetPrice(ctx context.Context, symbol string) (float64, error) {
	return c.binance.GetPrice(ctx, symbol)
}

// GetTicker24h returns 24 hour statistics for a symbol.
func (c *Collector) GetTicker24h(ctx context.Context, symbol string) (*models.Ticker, error) {
	return c.binance.GetTicker24h(ctx, symbol)
}
