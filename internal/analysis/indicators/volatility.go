package indicators

import (
	"fmt"

	"crypto-signal-bot/internal/models"
)

// ATR calculates the Average True Range with Wilder smoothing.
type ATR struct {
	period int
}

// NewATR creates a new ATR indicator.
func NewATR(period int) *ATR {
	return &ATR{period: period}
}

func (a *ATR) Name() string {
	return fmt.Sprintf("ATR_%d", a.period)
}

func (a *ATR) Period() int {
	return a.period
}

func (a *ATR) Calculate(candles []models.Candle) ([]float64, error) {
	if a.period <= 0 {
		return nil, ErrInvalidPeriod
	}
	if len(candles) < a.period+1 {
		return nil, ErrInsufficientData
	}

	n := len(candles)
	result := undefinedSeries(n)

	trs := make([]float64, n)
	trs[0] = candles[0].High - candles[0].Low
	for i := 1; i < n; i++ {
		trs[i] = trueRange(candles[i], candles[i-1])
	}

	// First ATR is the SMA of true ranges, then Wilder smoothing
	atr := mean(trs[1 : a.period+1])
	result[a.period] = atr
	for i := a.period + 1; i < n; i++ {
		atr = (atr*float64(a.period-1) + trs[i]) / float64(a.period)
		result[i] = atr
	}

	return result, nil
}

// BollingerBands calculates Bollinger Bands and band width.
type BollingerBands struct {
	period int
	stdDev float64
}

// NewBollingerBands creates a new Bollinger Bands indicator.
func NewBollingerBands(period int, stdDev float64) *BollingerBands {
	return &BollingerBands{period: period, stdDev: stdDev}
}

func (b *BollingerBands) Name() string {
	return fmt.Sprintf("BB_%d_%.1f", b.period, b.stdDev)
}

func (b *BollingerBands) Period() int {
	return b.period
}

// Calculate returns "middle", "upper", "lower" and "width" series.
// Width is (upper-lower)/middle expressed as a percentage.
func (b *BollingerBands) Calculate(candles []models.Candle) (map[string][]float64, error) {
	if b.period <= 0 {
		return nil, ErrInvalidPeriod
	}
	if len(candles) < b.period {
		return nil, ErrInsufficientData
	}

	n := len(candles)
	closes := closePrices(candles)

	middle := RollingMean(closes, b.period)
	upper := undefinedSeries(n)
	lower := undefinedSeries(n)
	width := undefinedSeries(n)

	for i := b.period - 1; i < n; i++ {
		sd := stdDev(closes[i-b.period+1 : i+1])
		upper[i] = middle[i] + b.stdDev*sd
		lower[i] = middle[i] - b.stdDev*sd
		if middle[i] != 0 {
			width[i] = (upper[i] - lower[i]) / middle[i] * 100
		}
	}

	return map[string][]float64{
		"middle": middle,
		"upper":  upper,
		"lower":  lower,
		"width":  width,
	}, nil
}
