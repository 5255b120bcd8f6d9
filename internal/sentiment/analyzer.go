// Package sentiment approximates market sentiment from news keywords,
// combined across sources with fixed weights and cached per symbol.
package sentiment

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// cacheTTL is how long a combined score is reused before refetching.
const cacheTTL = 5 * time.Minute

// Source weights for the combined score.
const (
	newsWeight   = 0.6
	socialWeight = 0.3
	marketWeight = 0.1
)

type cacheEntry struct {
	score     float64
	timestamp time.Time
}

// Analyzer combines sentiment sources into one score per symbol.
// Failures always degrade to a neutral 0.0 so analysis never stalls on
// sentiment availability.
type Analyzer struct {
	news   *FinnhubClient
	logger zerolog.Logger

	mu    sync.Mutex
	cache map[string]cacheEntry
	now   func() time.Time
}

// NewAnalyzer creates a sentiment analyzer backed by Finnhub news.
func NewAnalyzer(news *FinnhubClient, logger zerolog.Logger) *Analyzer {
	return &Analyzer{
		news:   news,
		logger: logger.With().Str("component", "sentiment").Logger(),
		cache:  make(map[string]cacheEntry),
		now:    time.Now,
	}
}

// GetSentiment returns the combined sentiment score for a symbol in
// [-1, 1]. It never fails; sources that error are simply left out, and no
// sources at all means neutral.
func (a *Analyzer) GetSentiment(ctx context.Context, symbol string) float64 {
	if score, ok := a.cached(symbol); ok {
		a.logger.Debug().Str("symbol", symbol).Float64("score", score).Msg("Using cached sentiment")
		return score
	}

	var scores []float64
	var weights []float64

	if a.news != nil {
		newsScore, err := a.news.NewsSentiment(ctx, symbol)
		if err != nil {
			a.logger.Warn().Err(err).Str("symbol", symbol).Msg("News sentiment unavailable")
		} else {
			scores = append(scores, newsScore)
			weights = append(weights, newsWeight)
		}
	}

	// Social and market feeds are not wired to a provider yet and
	// contribute neutral scores at their configured weights.
	scores = append(scores, a.socialSentiment(symbol), a.marketSentiment(symbol))
	weights = append(weights, socialWeight, marketWeight)

	combined := weightedAverage(scores, weights)

	a.mu.Lock()
	a.cache[symbol] = cacheEntry{score: combined, timestamp: a.now()}
	a.mu.Unlock()

	a.logger.Info().Str("symbol", symbol).Float64("score", combined).Msg("Combined sentiment")
	return combined
}

func (a *Analyzer) cached(symbol string) (float64, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	entry, ok := a.cache[symbol]
	if !ok {
		return 0, false
	}
	if a.now().Sub(entry.timestamp) >= cacheTTL {
		return 0, false
	}
	return entry.score, true
}

// socialSentiment is a neutral placeholder until a social feed is wired in.
func (a *Analyzer) socialSentiment(symbol string) float64 {
	a.logger.Debug().Str("symbol", symbol).Msg("Social sentiment placeholder")
	return 0.0
}

// marketSentiment is a neutral placeholder until a fear/greed feed is wired in.
func (a *Analyzer) marketSentiment(symbol string) float64 {
	a.logger.Debug().Str("symbol", symbol).Msg("Market sentiment placeholder")
	return 0.0
}

func weightedAverage(scores, weights []float64) float64 {
	if len(scores) == 0 {
		return 0.0
	}

	var totalWeight float64
	for _, w := range weights {
		totalWeight += w
	}
	if totalWeight == 0 {
		var sum float64
		for _, s := range scores {
			sum += s
		}
		return sum / float64(len(scores))
	}

	var combined float64
	for i, s := range scores {
		combined += s * (weights[i] / totalWeight)
	}
	return combined
}
