// Package risk derives stops, targets, position size and composite
// confidence for a detected setup.
package risk

import (
	"crypto-signal-bot/internal/analysis/indicators"
	"crypto-signal-bot/internal/models"
)

// Config holds risk management parameters.
type Config struct {
	AccountBalance    float64
	RiskPercent       float64
	ATRMultiplierSL   float64
	TakeProfitRatios  []float64
	BreakevenAfterTP  int
	TrailingATRMult   float64
	MaxPositionFactor float64
}

// DefaultConfig returns the standard risk parameters.
func DefaultConfig() Config {
	return Config{
		AccountBalance:    10000,
		RiskPercent:       2.0,
		ATRMultiplierSL:   2.0,
		TakeProfitRatios:  []float64{1.0, 1.5, 2.5},
		BreakevenAfterTP:  1,
		TrailingATRMult:   2.5,
		MaxPositionFactor: 0.1,
	}
}

// Engine computes risk management values for setups.
type Engine struct {
	cfg Config
}

// NewEngine creates a new risk engine.
func NewEngine(cfg Config) *Engine {
	return &Engine{cfg: cfg}
}

// Config returns the engine parameters.
func (e *Engine) Config() Config {
	return e.cfg
}

const (
	swingStopCount  = 5
	swingLowBuffer  = 0.998
	swingHighBuffer = 1.002
)

// StopLoss places the stop using ATR distance, widened to the most extreme
// of the recent swing points with a 0.2% buffer when those reach further.
func (e *Engine) StopLoss(f *indicators.Frame, direction models.Direction, entryPrice, atr float64) float64 {
	atrStop := atr * e.cfg.ATRMultiplierSL

	if direction == models.DirectionLong {
		atrSL := entryPrice - atrStop
		lows := indicators.RecentSwingLows(f.SwingLow, swingStopCount)
		if len(lows) == 0 {
			return atrSL
		}
		swingSL := lows[0]
		for _, l := range lows[1:] {
			if l < swingSL {
				swingSL = l
			}
		}
		swingSL *= swingLowBuffer
		if swingSL < atrSL {
			return swingSL
		}
		return atrSL
	}

	atrSL := entryPrice + atrStop
	highs := indicators.RecentSwingHighs(f.SwingHigh, swingStopCount)
	if len(highs) == 0 {
		return atrSL
	}
	swingSL := highs[0]
	for _, h := range highs[1:] {
		if h > swingSL {
			swingSL = h
		}
	}
	swingSL *= swingHighBuffer
	if swingSL > atrSL {
		return swingSL
	}
	return atrSL
}

// TakeProfits builds the R-multiple target ladder from the entry/stop distance.
func (e *Engine) TakeProfits(entryPrice, stopLoss float64, direction models.Direction) []float64 {
	riskAmount := entryPrice - stopLoss
	if riskAmount < 0 {
		riskAmount = -riskAmount
	}

	takeProfits := make([]float64, 0, len(e.cfg.TakeProfitRatios))
	for _, ratio := range e.cfg.TakeProfitRatios {
		if direction == models.DirectionLong {
			takeProfits = append(takeProfits, entryPrice+riskAmount*ratio)
		} else {
			takeProfits = append(takeProfits, entryPrice-riskAmount*ratio)
		}
	}
	return takeProfits
}

// PositionSize sizes the trade so the entry-to-stop distance risks
// RiskPercent of the account, capped at MaxPositionFactor of the account
// by notional value. Returns 0 when entry equals stop.
func (e *Engine) PositionSize(entryPrice, stopLoss float64) float64 {
	riskAmount := e.cfg.AccountBalance * (e.cfg.RiskPercent / 100)
	priceDiff := entryPrice - stopLoss
	if priceDiff < 0 {
		priceDiff = -priceDiff
	}
	if priceDiff == 0 {
		return 0
	}

	positionSize := riskAmount / priceDiff

	maxPositionValue := e.cfg.AccountBalance * e.cfg.MaxPositionFactor
	maxPositionSize := maxPositionValue / entryPrice
	if positionSize > maxPositionSize {
		return maxPositionSize
	}
	return positionSize
}

// Confidence composes the final confidence from the setup base plus
// sentiment, volume, trend strength and RSI positioning boosts, capped at 1.
func (e *Engine) Confidence(setup models.Setup, sentimentScore float64, f *indicators.Frame) float64 {
	confidence := setup.Confidence

	absSentiment := sentimentScore
	if absSentiment < 0 {
		absSentiment = -absSentiment
	}
	if absSentiment > 0.5 {
		confidence += 0.2
	} else if absSentiment > 0.3 {
		confidence += 0.1
	}

	last := f.Len() - 1
	volSMA := f.VolumeSMA[last]
	if indicators.Defined(volSMA) && f.Candles[last].Volume > volSMA*1.5 {
		confidence += 0.1
	}

	emaFast := f.EMAFast[last]
	emaSlow := f.EMASlow[last]
	emaDiff := (emaFast - emaSlow) / emaSlow
	if emaDiff < 0 {
		emaDiff = -emaDiff
	}
	if emaDiff > 0.02 {
		confidence += 0.1
	}

	rsi := f.RSI[last]
	if setup.Direction == models.DirectionLong && rsi > 50 && rsi < 70 {
		confidence += 0.05
	} else if setup.Direction == models.DirectionShort && rsi > 30 && rsi < 50 {
		confidence += 0.05
	}

	if confidence > 1.0 {
		return 1.0
	}
	return confidence
}
