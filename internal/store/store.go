// Package store provides data persistence implementations.
package store

import (
	"context"
	"time"

	"crypto-signal-bot/internal/backtest"
	"crypto-signal-bot/internal/models"
)

// DataStore persists candles, generated signals and backtest results.
type DataStore interface {
	SaveCandles(ctx context.Context, symbol, timeframe string, candles []models.Candle) error
	GetCandles(ctx context.Context, symbol, timeframe string, from, to time.Time) ([]models.Candle, error)
	GetCandlesFreshness(ctx context.Context, symbol, timeframe string) (time.Time, error)

	SaveSignal(ctx context.Context, sig *models.Signal) error
	GetSignals(ctx context.Context, filter SignalFilter) ([]models.Signal, error)
	CountSignalsSince(ctx context.Context, since time.Time) (int, error)
	LastSignalTime(ctx context.Context) (*time.Time, error)

	SaveBacktest(ctx context.Context, result *backtest.Result) error
	GetBacktests(ctx context.Context, symbol string, limit int) ([]backtest.Result, error)

	Close() error
}

// SignalFilter narrows signal queries.
type SignalFilter struct {
	Symbol    string
	Timeframe string
	Direction models.Direction
	StartDate time.Time
	EndDate   time.Time
	Limit     int
}
