// Package signal combines technical setups, sentiment and risk management
// into complete trade signals.
package signal

import (
	"time"

	"github.com/rs/zerolog"

	"crypto-signal-bot/internal/analysis/indicators"
	"crypto-signal-bot/internal/analysis/risk"
	"crypto-signal-bot/internal/analysis/strategy"
	"crypto-signal-bot/internal/models"
)

// minHistory is the minimum number of bars required before a signal can
// be generated.
const minHistory = 200

// neutralSentimentBand treats scores this close to zero as "no sentiment
// data" and lets signals through without the alignment gate.
const neutralSentimentBand = 0.01

// Config holds signal validation parameters.
type Config struct {
	MinConfidence      float64
	SentimentThreshold float64
}

// DefaultConfig returns the standard validation parameters.
func DefaultConfig() Config {
	return Config{
		MinConfidence:      0.6,
		SentimentThreshold: 0.2,
	}
}

// Generator produces trade signals from indicator frames.
type Generator struct {
	cfg      Config
	detector *strategy.Detector
	risk     *risk.Engine
	logger   zerolog.Logger
}

// NewGenerator creates a new signal generator.
func NewGenerator(cfg Config, detector *strategy.Detector, riskEngine *risk.Engine, logger zerolog.Logger) *Generator {
	return &Generator{
		cfg:      cfg,
		detector: detector,
		risk:     riskEngine,
		logger:   logger.With().Str("component", "signal").Logger(),
	}
}

// Generate evaluates the frame's most recent bar against the detected
// setup, the sentiment gate and the confidence floor. A nil signal is a
// normal outcome meaning no trade is recommended.
func (g *Generator) Generate(f *indicators.Frame, sentimentScore float64, symbol, timeframe string) *models.Signal {
	if f.Len() < minHistory {
		g.logger.Warn().Int("bars", f.Len()).Msg("Insufficient data for signal generation")
		return nil
	}

	setup := g.detector.Detect(f)
	if !setup.Valid {
		g.logger.Debug().Str("reason", setup.Reason).Msg("No valid setup detected")
		return nil
	}

	if !g.sentimentAligned(sentimentScore, setup.Direction) {
		g.logger.Info().
			Float64("sentiment", sentimentScore).
			Str("direction", string(setup.Direction)).
			Msg("Sentiment does not align with signal direction")
		return nil
	}

	sig := g.compose(f, setup, sentimentScore, symbol, timeframe)

	if sig.Confidence < g.cfg.MinConfidence {
		g.logger.Debug().
			Float64("confidence", sig.Confidence).
			Float64("min_confidence", g.cfg.MinConfidence).
			Msg("Signal confidence too low")
		return nil
	}

	g.logger.Info().
		Str("symbol", symbol).
		Str("direction", string(sig.Direction)).
		Float64("confidence", sig.Confidence).
		Msg("Generated signal")

	return sig
}

// sentimentAligned gates a direction on the sentiment score. Scores inside
// the neutral band pass through, covering the case where sentiment data is
// unavailable.
func (g *Generator) sentimentAligned(score float64, direction models.Direction) bool {
	abs := score
	if abs < 0 {
		abs = -abs
	}
	if abs < neutralSentimentBand {
		return true
	}

	switch direction {
	case models.DirectionLong:
		return score >= g.cfg.SentimentThreshold
	case models.DirectionShort:
		return score <= -g.cfg.SentimentThreshold
	}
	return false
}

func (g *Generator) compose(f *indicators.Frame, setup models.Setup, sentimentScore float64, symbol, timeframe string) *models.Signal {
	last := f.Len() - 1
	entryPrice := f.LastClose()
	atr := f.ATR[last]

	stopLoss := g.risk.StopLoss(f, setup.Direction, entryPrice, atr)
	positionSize := g.risk.PositionSize(entryPrice, stopLoss)
	takeProfits := g.risk.TakeProfits(entryPrice, stopLoss, setup.Direction)
	confidence := g.risk.Confidence(setup, sentimentScore, f)

	reasons := append([]string{}, setup.Conditions...)
	reasons = append(reasons, SentimentDescription(sentimentScore))

	riskPerUnit := entryPrice - stopLoss
	if riskPerUnit < 0 {
		riskPerUnit = -riskPerUnit
	}

	bbWidth := f.BBWidth[last]
	if !indicators.Defined(bbWidth) {
		bbWidth = 0
	}

	volumeRatio := 1.0
	if volSMA := f.VolumeSMA[last]; indicators.Defined(volSMA) && volSMA != 0 {
		volumeRatio = f.Candles[last].Volume / volSMA
	}

	return &models.Signal{
		Symbol:           symbol,
		Timeframe:        timeframe,
		Direction:        setup.Direction,
		EntryPrice:       entryPrice,
		StopLoss:         stopLoss,
		TakeProfits:      takeProfits,
		PositionSize:     positionSize,
		RiskAmount:       riskPerUnit * positionSize,
		RiskPercent:      g.risk.Config().RiskPercent,
		Confidence:       confidence,
		SentimentScore:   sentimentScore,
		ATR:              atr,
		Reasons:          reasons,
		Timestamp:        time.Now().UTC(),
		BreakevenAfterTP: g.risk.Config().BreakevenAfterTP,
		TrailingStop: models.TrailingStop{
			Enabled:       true,
			ATRMultiplier: g.risk.Config().TrailingATRMult,
			InitialStop:   stopLoss,
		},
		Metadata: models.SignalMetadata{
			EMAFast:     f.EMAFast[last],
			EMASlow:     f.EMASlow[last],
			RSI:         f.RSI[last],
			BBWidth:     bbWidth,
			VolumeRatio: volumeRatio,
		},
	}
}

// SentimentDescription maps a score to a human-readable label.
func SentimentDescription(score float64) string {
	switch {
	case score >= 0.5:
		return "Very Positive Sentiment"
	case score >= 0.2:
		return "Positive Sentiment"
	case score > -0.2:
		return "Neutral Sentiment"
	case score > -0.5:
		return "Negative Sentiment"
	default:
		return "Very Negative Sentiment"
	}
}
