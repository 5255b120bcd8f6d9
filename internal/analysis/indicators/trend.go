package indicators

import (
	"fmt"

	"crypto-signal-bot/internal/models"
)

// SMA calculates Simple Moving Average.
type SMA struct {
	period int
}

// NewSMA creates a new SMA indicator.
func NewSMA(period int) *SMA {
	return &SMA{period: period}
}

func (s *SMA) Name() string {
	return fmt.Sprintf("SMA_%d", s.period)
}

func (s *SMA) Period() int {
	return s.period
}

func (s *SMA) Calculate(candles []models.Candle) ([]float64, error) {
	if s.period <= 0 {
		return nil, ErrInvalidPeriod
	}
	if len(candles) < s.period {
		return nil, ErrInsufficientData
	}
	return RollingMean(closePrices(candles), s.period), nil
}

// RollingMean computes a rolling mean over values. Positions before the
// window is full are Undefined.
func RollingMean(values []float64, period int) []float64 {
	result := undefinedSeries(len(values))
	if period <= 0 || len(values) < period {
		return result
	}

	windowSum := sum(values[:period])
	result[period-1] = windowSum / float64(period)
	for i := period; i < len(values); i++ {
		windowSum += values[i] - values[i-period]
		result[i] = windowSum / float64(period)
	}
	return result
}

// EMA calculates Exponential Moving Average.
type EMA struct {
	period int
}

// NewEMA creates a new EMA indicator.
func NewEMA(period int) *EMA {
	return &EMA{period: period}
}

func (e *EMA) Name() string {
	return fmt.Sprintf("EMA_%d", e.period)
}

func (e *EMA) Period() int {
	return e.period
}

func (e *EMA) Calculate(candles []models.Candle) ([]float64, error) {
	if e.period <= 0 {
		return nil, ErrInvalidPeriod
	}
	if len(candles) == 0 {
		return nil, ErrInsufficientData
	}
	return CalculateEMA(closePrices(candles), e.period), nil
}

// CalculateEMA computes an EMA seeded at the first value, so every position
// is defined. Smoothing factor is 2/(period+1).
func CalculateEMA(values []float64, period int) []float64 {
	if len(values) == 0 {
		return nil
	}

	result := make([]float64, len(values))
	multiplier := 2.0 / (float64(period) + 1.0)

	result[0] = values[0]
	for i := 1; i < len(values); i++ {
		result[i] = (values[i]-result[i-1])*multiplier + result[i-1]
	}
	return result
}
