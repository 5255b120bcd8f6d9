// Package bot runs the signal generation loop over configured symbols
// and timeframes.
package bot

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"crypto-signal-bot/internal/analysis/indicators"
	"crypto-signal-bot/internal/config"
	"crypto-signal-bot/internal/logging"
	"crypto-signal-bot/internal/models"
	"crypto-signal-bot/internal/notify"
	"crypto-signal-bot/internal/sentiment"
	"crypto-signal-bot/internal/signal"
	"crypto-signal-bot/internal/store"
)

// statusInterval is how often a status update is sent while running.
const statusInterval = 6 * time.Hour

// MarketData is the slice of the market collector the session depends on.
type MarketData interface {
	GetCandles(ctx context.Context, symbol, timeframe string, limit int) ([]models.Candle, error)
	GetTicker24h(ctx context.Context, symbol string) (*models.Ticker, error)
}

// Session wires the market data, analysis, sentiment and notification
// components together and owns the run loop. All state lives here; a new
// session starts clean.
type Session struct {
	cfg       *config.Config
	collector MarketData
	analyzer  *sentiment.Analyzer
	generator *signal.Generator
	notifier  notify.Notifier
	journal   store.DataStore
	logger    zerolog.Logger

	params indicators.Params

	mu          sync.Mutex
	startedAt   time.Time
	signalCount int
	lastSignal  *time.Time
}

// Options holds the dependencies for a session. Nil Notifier and Journal
// fields degrade to no-ops.
type Options struct {
	Config    *config.Config
	Collector MarketData
	Analyzer  *sentiment.Analyzer
	Generator *signal.Generator
	Notifier  notify.Notifier
	Journal   store.DataStore
	Logger    zerolog.Logger
}

// NewSession creates a session from its dependencies.
func NewSession(opts Options) (*Session, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("config is required")
	}
	if opts.Collector == nil {
		return nil, fmt.Errorf("market collector is required")
	}
	if opts.Generator == nil {
		return nil, fmt.Errorf("signal generator is required")
	}

	notifier := opts.Notifier
	if notifier == nil {
		notifier = notify.NewNoOpNotifier()
	}

	return &Session{
		cfg:       opts.Config,
		collector: opts.Collector,
		analyzer:  opts.Analyzer,
		generator: opts.Generator,
		notifier:  notifier,
		journal:   opts.Journal,
		logger:    opts.Logger.With().Str("component", "bot").Logger(),
		params:    opts.Config.IndicatorParams(),
	}, nil
}

// Run executes analysis cycles on the configured interval until the
// context is cancelled.
func (s *Session) Run(ctx context.Context) error {
	s.mu.Lock()
	s.startedAt = time.Now()
	s.mu.Unlock()

	s.logger.Info().
		Strs("symbols", s.cfg.Trading.Symbols).
		Strs("timeframes", s.cfg.Trading.Timeframes).
		Dur("interval", s.cfg.Trading.CheckInterval).
		Msg("Starting signal bot")

	if err := s.notifier.SendStartup(ctx, s.cfg.Trading.Symbols, s.cfg.Trading.Timeframes, s.cfg.Risk.RiskPerTrade); err != nil {
		s.logger.Warn().Err(err).Msg("Startup notification failed")
	}

	ticker := time.NewTicker(s.cfg.Trading.CheckInterval)
	defer ticker.Stop()

	statusTicker := time.NewTicker(statusInterval)
	defer statusTicker.Stop()

	s.runAllCycles(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("Signal bot stopped")
			return ctx.Err()
		case <-ticker.C:
			s.runAllCycles(ctx)
		case <-statusTicker.C:
			s.sendStatus(ctx)
		}
	}
}

func (s *Session) runAllCycles(ctx context.Context) {
	for _, symbol := range s.cfg.Trading.Symbols {
		for _, timeframe := range s.cfg.Trading.Timeframes {
			if ctx.Err() != nil {
				return
			}
			if err := s.RunCycle(ctx, symbol, timeframe); err != nil {
				s.logger.Error().Err(err).Str("symbol", symbol).Str("timeframe", timeframe).Msg("Analysis cycle failed")
				if nerr := s.notifier.SendError(ctx, fmt.Sprintf("%s %s: %v", symbol, timeframe, err)); nerr != nil {
					s.logger.Warn().Err(nerr).Msg("Error notification failed")
				}
			}
		}
	}
}

// RunCycle fetches candles, computes indicators and sentiment, and
// delivers any generated signal.
func (s *Session) RunCycle(ctx context.Context, symbol, timeframe string) error {
	logger := logging.WithTimeframe(logging.WithSymbol(s.logger, symbol), timeframe)

	candles, err := s.collector.GetCandles(ctx, symbol, timeframe, s.cfg.Trading.CandleLimit)
	if err != nil {
		return fmt.Errorf("fetching candles: %w", err)
	}

	if s.journal != nil {
		if err := s.journal.SaveCandles(ctx, symbol, timeframe, candles); err != nil {
			logger.Warn().Err(err).Msg("Caching candles failed")
		}
	}

	frame, err := indicators.Compute(candles, s.params)
	if err != nil {
		return fmt.Errorf("computing indicators: %w", err)
	}

	sentimentScore := 0.0
	if s.analyzer != nil {
		sentimentScore = s.analyzer.GetSentiment(ctx, symbol)
	}

	sig := s.generator.Generate(frame, sentimentScore, symbol, timeframe)
	if sig == nil {
		logger.Debug().Msg("No signal this cycle")
		return nil
	}

	logging.LogSignal(logger, symbol, string(sig.Direction), sig.Confidence, sig.EntryPrice)
	s.recordSignal(sig)

	if s.journal != nil {
		if err := s.journal.SaveSignal(ctx, sig); err != nil {
			logger.Warn().Err(err).Msg("Journaling signal failed")
		}
	}

	// The signal is already recorded and journaled at this point, so a
	// delivery failure does not fail the cycle.
	if err := s.notifier.SendSignal(ctx, sig); err != nil {
		logger.Warn().Err(err).Msg("Delivering signal failed")
	}

	return nil
}

func (s *Session) recordSignal(sig *models.Signal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.signalCount++
	t := sig.Timestamp
	s.lastSignal = &t
}

// Status reports a snapshot of the running session.
func (s *Session) Status(ctx context.Context) notify.StatusUpdate {
	s.mu.Lock()
	status := notify.StatusUpdate{
		Uptime:         time.Since(s.startedAt),
		SignalsToday:   s.signalCount,
		LastSignalTime: s.lastSignal,
	}
	s.mu.Unlock()

	symbol := s.cfg.Trading.Symbols[0]
	if ticker, err := s.collector.GetTicker24h(ctx, symbol); err == nil {
		status.CurrentPrice = ticker.LastPrice
		status.Change24hPct = ticker.ChangePercent
	} else {
		s.logger.Warn().Err(err).Str("symbol", symbol).Msg("Ticker fetch for status failed")
	}

	return status
}

func (s *Session) sendStatus(ctx context.Context) {
	if err := s.notifier.SendStatus(ctx, s.Status(ctx)); err != nil {
		s.logger.Warn().Err(err).Msg("Status notification failed")
	}
}
