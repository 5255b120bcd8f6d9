package indicators

import (
	"fmt"

	"crypto-signal-bot/internal/models"
)

// SwingPoints marks local highs and lows over a symmetric window.
// A bar is a swing high when its high is the maximum of the window
// extending `window` bars to each side. Non-swing positions are Undefined,
// so both series are sparse.
type SwingPoints struct {
	window int
}

// NewSwingPoints creates a new swing point detector.
func NewSwingPoints(window int) *SwingPoints {
	return &SwingPoints{window: window}
}

func (s *SwingPoints) Name() string {
	return fmt.Sprintf("SwingPoints_%d", s.window)
}

func (s *SwingPoints) Period() int {
	return 2*s.window + 1
}

// Calculate returns "high" and "low" sparse swing series.
func (s *SwingPoints) Calculate(candles []models.Candle) (map[string][]float64, error) {
	if s.window <= 0 {
		return nil, ErrInvalidPeriod
	}
	if len(candles) < s.Period() {
		return nil, ErrInsufficientData
	}

	n := len(candles)
	highs := highPrices(candles)
	lows := lowPrices(candles)

	swingHighs := undefinedSeries(n)
	swingLows := undefinedSeries(n)

	for i := s.window; i < n-s.window; i++ {
		windowHighs := highs[i-s.window : i+s.window+1]
		windowLows := lows[i-s.window : i+s.window+1]

		if highs[i] == highest(windowHighs) {
			swingHighs[i] = highs[i]
		}
		if lows[i] == lowest(windowLows) {
			swingLows[i] = lows[i]
		}
	}

	return map[string][]float64{
		"high": swingHighs,
		"low":  swingLows,
	}, nil
}

// RecentSwingLows returns up to count most recent swing low values, oldest first.
func RecentSwingLows(swingLows []float64, count int) []float64 {
	return recentDefined(swingLows, count)
}

// RecentSwingHighs returns up to count most recent swing high values, oldest first.
func RecentSwingHighs(swingHighs []float64, count int) []float64 {
	return recentDefined(swingHighs, count)
}

func recentDefined(series []float64, count int) []float64 {
	var values []float64
	for i := len(series) - 1; i >= 0 && len(values) < count; i-- {
		if Defined(series[i]) {
			values = append(values, series[i])
		}
	}
	// reverse into chronological order
	for i, j := 0, len(values)-1; i < j; i, j = i+1, j-1 {
		values[i], values[j] = values[j], values[i]
	}
	return values
}
