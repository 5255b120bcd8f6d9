// Package backtest replays a candle series bar by bar through the signal
// generator and simulates entries, exits and equity.
package backtest

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"crypto-signal-bot/internal/analysis/indicators"
	"crypto-signal-bot/internal/models"
	"crypto-signal-bot/internal/signal"
)

// maxBalanceFraction caps how much of the balance a single entry may
// commit by notional value.
const maxBalanceFraction = 0.95

// Config holds backtest parameters.
type Config struct {
	InitialBalance float64
	CommissionRate float64
}

// DefaultConfig returns the standard backtest parameters.
func DefaultConfig() Config {
	return Config{
		InitialBalance: 10000,
		CommissionRate: 0.001,
	}
}

// EquityPoint is one sample of the equity curve.
type EquityPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Equity    float64   `json:"equity"`
}

// Result holds the outcome of a backtest run.
type Result struct {
	Symbol                string         `json:"symbol"`
	Timeframe             string         `json:"timeframe"`
	InitialBalance        float64        `json:"initial_balance"`
	FinalBalance          float64        `json:"final_balance"`
	TotalReturnPct        float64        `json:"total_return_pct"`
	TotalTrades           int            `json:"total_trades"`
	WinningTrades         int            `json:"winning_trades"`
	LosingTrades          int            `json:"losing_trades"`
	WinRatePct            float64        `json:"win_rate_pct"`
	ProfitFactor          float64        `json:"profit_factor"`
	AvgWin                float64        `json:"avg_win"`
	AvgLoss               float64        `json:"avg_loss"`
	MaxDrawdownPct        float64        `json:"max_drawdown_pct"`
	SharpeRatio           float64        `json:"sharpe_ratio"`
	AvgTradeDurationHours float64        `json:"avg_trade_duration_hours"`
	Trades                []models.Trade `json:"trades"`
	EquityCurve           []EquityPoint  `json:"equity_curve"`
}

// exit describes a triggered exit for the open position.
type exit struct {
	price  float64
	reason string
	date   time.Time
}

// Engine simulates the strategy over historical candles.
type Engine struct {
	cfg       Config
	params    indicators.Params
	generator *signal.Generator
	logger    zerolog.Logger
}

// NewEngine creates a new backtest engine.
func NewEngine(cfg Config, params indicators.Params, generator *signal.Generator, logger zerolog.Logger) *Engine {
	return &Engine{
		cfg:       cfg,
		params:    params,
		generator: generator,
		logger:    logger.With().Str("component", "backtest").Logger(),
	}
}

// Run replays candles one bar at a time. Each bar sees only the history up
// to and including itself: exits are checked before new entries, entries
// fill at the bar close, and sentiment is held neutral.
func (e *Engine) Run(ctx context.Context, candles []models.Candle, symbol, timeframe string) (*Result, error) {
	if err := models.ValidateCandles(candles); err != nil {
		return nil, fmt.Errorf("validating candles: %w", err)
	}

	lookback := e.params.EMASlow
	if lookback < 50 {
		lookback = 50
	}

	e.logger.Info().
		Str("symbol", symbol).
		Str("timeframe", timeframe).
		Int("candles", len(candles)).
		Int("lookback", lookback).
		Msg("Starting backtest")

	balance := e.cfg.InitialBalance
	var position *models.Position
	var trades []models.Trade

	equity := []EquityPoint{{Timestamp: candles[0].Timestamp, Equity: balance}}

	for i := lookback; i < len(candles); i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		bar := candles[i]
		history := candles[:i+1]

		if position != nil {
			if ex := checkExit(position, bar); ex != nil {
				var trade models.Trade
				balance, trade = e.closePosition(position, *ex, balance)
				trades = append(trades, trade)
				position = nil
			}
		}

		if position == nil {
			frame, err := indicators.Compute(history, e.params)
			if err != nil {
				return nil, fmt.Errorf("computing indicators at bar %d: %w", i, err)
			}

			// Neutral sentiment during replay; historical sentiment is
			// not reconstructable.
			if sig := e.generator.Generate(frame, 0.0, symbol, timeframe); sig != nil {
				position = e.openPosition(sig, balance, bar.Timestamp)
			}
		}

		point := EquityPoint{Timestamp: bar.Timestamp, Equity: balance}
		if position != nil {
			point.Equity = balance + position.UnrealizedPnL(bar.Close)
		}
		equity = append(equity, point)
	}

	if position != nil {
		final := candles[len(candles)-1]
		ex := exit{price: final.Close, reason: "End of backtest", date: final.Timestamp}
		var trade models.Trade
		balance, trade = e.closePosition(position, ex, balance)
		trades = append(trades, trade)
	}

	result := e.buildResult(balance, trades, equity)
	result.Symbol = symbol
	result.Timeframe = timeframe

	e.logger.Info().
		Float64("final_balance", balance).
		Int("trades", len(trades)).
		Float64("return_pct", result.TotalReturnPct).
		Msg("Backtest complete")

	return result, nil
}

// openPosition enters at the signal price, capping size so the notional
// stays within the available balance, and charges entry commission.
func (e *Engine) openPosition(sig *models.Signal, balance float64, date time.Time) *models.Position {
	entryPrice := sig.EntryPrice
	size := sig.PositionSize
	if maxSize := balance * maxBalanceFraction / entryPrice; size > maxSize {
		size = maxSize
	}

	commission := size * entryPrice * e.cfg.CommissionRate

	e.logger.Debug().
		Str("direction", string(sig.Direction)).
		Float64("entry", entryPrice).
		Float64("size", size).
		Msg("Entered position")

	return &models.Position{
		Symbol:          sig.Symbol,
		Direction:       sig.Direction,
		EntryPrice:      entryPrice,
		EntryTime:       date,
		Size:            size,
		StopLoss:        sig.StopLoss,
		TakeProfits:     sig.TakeProfits,
		TrailingStop:    sig.TrailingStop,
		EntryCommission: commission,
		Signal:          sig,
	}
}

// checkExit scans the bar for a stop hit first, then the take profit
// ladder. Fills assume the trigger price.
func checkExit(position *models.Position, bar models.Candle) *exit {
	if position.Direction == models.DirectionLong {
		if bar.Low <= position.StopLoss {
			return &exit{price: position.StopLoss, reason: "Stop Loss Hit", date: bar.Timestamp}
		}
	} else {
		if bar.High >= position.StopLoss {
			return &exit{price: position.StopLoss, reason: "Stop Loss Hit", date: bar.Timestamp}
		}
	}

	for i, tp := range position.TakeProfits {
		if position.TPLevelsHit > i {
			continue
		}
		if position.Direction == models.DirectionLong {
			if bar.High >= tp {
				return &exit{price: tp, reason: fmt.Sprintf("Take Profit %d Hit", i+1), date: bar.Timestamp}
			}
		} else {
			if bar.Low <= tp {
				return &exit{price: tp, reason: fmt.Sprintf("Take Profit %d Hit", i+1), date: bar.Timestamp}
			}
		}
	}

	return nil
}

// closePosition realizes the position at the exit price, charging exit
// commission, and returns the new balance plus the trade record.
func (e *Engine) closePosition(position *models.Position, ex exit, balance float64) (float64, models.Trade) {
	var grossPnL float64
	if position.Direction == models.DirectionLong {
		grossPnL = (ex.price - position.EntryPrice) * position.Size
	} else {
		grossPnL = (position.EntryPrice - ex.price) * position.Size
	}

	exitCommission := position.Size * ex.price * e.cfg.CommissionRate
	totalCommission := position.EntryCommission + exitCommission
	netPnL := grossPnL - totalCommission

	duration := ex.date.Sub(position.EntryTime)

	trade := models.Trade{
		Symbol:     position.Symbol,
		Direction:  position.Direction,
		EntryPrice: position.EntryPrice,
		ExitPrice:  ex.price,
		EntryTime:  position.EntryTime,
		ExitTime:   ex.date,
		Size:       position.Size,
		GrossPnL:   grossPnL,
		PnL:        netPnL,
		ReturnPct:  netPnL / (position.EntryPrice * position.Size) * 100,
		Commission: totalCommission,
		ExitReason: ex.reason,
		Duration:   duration,
	}

	e.logger.Debug().
		Str("reason", ex.reason).
		Float64("net_pnl", netPnL).
		Msg("Exited position")

	return balance + netPnL, trade
}
