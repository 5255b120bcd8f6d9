// Package strategy evaluates trend/momentum/volatility rules on a
// computed indicator frame and scores trade setups.
package strategy

import (
	"github.com/rs/zerolog"

	"crypto-signal-bot/internal/analysis/indicators"
	"crypto-signal-bot/internal/models"
)

const (
	// squeezeLookback is the number of band widths averaged for squeeze detection.
	squeezeLookback = 20
	// squeezeRatio marks a squeeze when current width drops below this
	// fraction of the recent average width.
	squeezeRatio = 0.8
	// pullbackLookback is the number of bars scanned for the recent extreme.
	pullbackLookback = 10
	// pullbackBuffer is the distance from the recent extreme that confirms
	// price has pulled away from it (2%).
	pullbackBuffer = 0.02
)

// Config holds detector thresholds.
type Config struct {
	RSILongThreshold  float64
	RSIShortThreshold float64
	MinStrength       int
}

// DefaultConfig returns the standard detector thresholds.
func DefaultConfig() Config {
	return Config{
		RSILongThreshold:  50,
		RSIShortThreshold: 50,
		MinStrength:       3,
	}
}

// Detector scores pullback/breakout setups on an indicator frame.
type Detector struct {
	cfg    Config
	logger zerolog.Logger
}

// NewDetector creates a new setup detector.
func NewDetector(cfg Config, logger zerolog.Logger) *Detector {
	return &Detector{cfg: cfg, logger: logger.With().Str("component", "detector").Logger()}
}

// Detect evaluates the most recent bar of the frame. An invalid setup is a
// normal outcome; Reason explains why no setup was found.
func (d *Detector) Detect(f *indicators.Frame) models.Setup {
	minBars := f.Params.EMASlow
	if minBars < 50 {
		minBars = 50
	}
	if f.Len() < minBars {
		return models.Setup{Reason: "Insufficient data"}
	}

	last := f.Len() - 1
	emaFast := f.EMAFast[last]
	emaSlow := f.EMASlow[last]
	rsi := f.RSI[last]
	atr := f.ATR[last]

	if !indicators.Defined(emaFast) || !indicators.Defined(emaSlow) ||
		!indicators.Defined(rsi) || !indicators.Defined(atr) {
		return models.Setup{Reason: "Invalid indicator values"}
	}

	setup := models.Setup{}

	trendUp := emaFast > emaSlow
	trendDown := emaFast < emaSlow

	rsiBullish := rsi > d.cfg.RSILongThreshold
	rsiBearish := rsi < d.cfg.RSIShortThreshold

	squeezed, breakout := d.detectSqueeze(f)
	volumeConfirmed := volumeAboveAverage(f)

	closePrice := f.LastClose()

	switch {
	case trendUp && rsiBullish:
		setup.Direction = models.DirectionLong
		setup.Conditions = append(setup.Conditions, "EMA50 > EMA200", "RSI > 50")
		setup.Strength += 2

		if breakout == "up" {
			setup.Conditions = append(setup.Conditions, "BB Breakout Up")
			setup.Strength += 2
		} else if squeezed {
			setup.Conditions = append(setup.Conditions, "BB Squeeze")
			setup.Strength++
		}

		if volumeConfirmed {
			setup.Conditions = append(setup.Conditions, "Volume Above Average")
			setup.Strength++
		}

		if closePrice > recentLow(f)*(1+pullbackBuffer) {
			setup.Conditions = append(setup.Conditions, "Above Recent Low")
			setup.Strength++
		}

	case trendDown && rsiBearish:
		setup.Direction = models.DirectionShort
		setup.Conditions = append(setup.Conditions, "EMA50 < EMA200", "RSI < 50")
		setup.Strength += 2

		if breakout == "down" {
			setup.Conditions = append(setup.Conditions, "BB Breakout Down")
			setup.Strength += 2
		} else if squeezed {
			setup.Conditions = append(setup.Conditions, "BB Squeeze")
			setup.Strength++
		}

		if volumeConfirmed {
			setup.Conditions = append(setup.Conditions, "Volume Above Average")
			setup.Strength++
		}

		if closePrice < recentHigh(f)*(1-pullbackBuffer) {
			setup.Conditions = append(setup.Conditions, "Below Recent High")
			setup.Strength++
		}
	}

	if setup.Direction != "" && setup.Strength >= d.cfg.MinStrength {
		setup.Valid = true
		setup.Confidence = float64(setup.Strength) / 6.0
		if setup.Confidence > 1.0 {
			setup.Confidence = 1.0
		}
	}

	d.logger.Debug().
		Bool("valid", setup.Valid).
		Str("direction", string(setup.Direction)).
		Int("strength", setup.Strength).
		Strs("conditions", setup.Conditions).
		Msg("Setup evaluated")

	return setup
}

// detectSqueeze reports whether the bands are squeezed relative to their
// recent average width, and the breakout direction if price has closed
// outside a band while squeezed ("up", "down" or "").
func (d *Detector) detectSqueeze(f *indicators.Frame) (bool, string) {
	if f.Len() < squeezeLookback {
		return false, ""
	}

	last := f.Len() - 1
	width := f.BBWidth[last]
	if !indicators.Defined(width) {
		return false, ""
	}

	var widthSum float64
	var widthCount int
	for _, w := range f.BBWidth[f.Len()-squeezeLookback:] {
		if indicators.Defined(w) {
			widthSum += w
			widthCount++
		}
	}
	if widthCount == 0 {
		return false, ""
	}
	avgWidth := widthSum / float64(widthCount)

	if width >= avgWidth*squeezeRatio {
		return false, ""
	}

	closePrice := f.LastClose()
	if closePrice > f.BBUpper[last] {
		return true, "up"
	}
	if closePrice < f.BBLower[last] {
		return true, "down"
	}
	return true, ""
}

// volumeAboveAverage confirms volume against its moving average. It passes
// when the average is still undefined.
func volumeAboveAverage(f *indicators.Frame) bool {
	last := f.Len() - 1
	volSMA := f.VolumeSMA[last]
	if !indicators.Defined(volSMA) {
		return true
	}
	return f.Candles[last].Volume > volSMA
}

func recentLow(f *indicators.Frame) float64 {
	start := f.Len() - pullbackLookback
	if start < 0 {
		start = 0
	}
	low := f.Candles[start].Low
	for _, c := range f.Candles[start:] {
		if c.Low < low {
			low = c.Low
		}
	}
	return low
}

func recentHigh(f *indicators.Frame) float64 {
	start := f.Len() - pullbackLookback
	if start < 0 {
		start = 0
	}
	high := f.Candles[start].High
	for _, c := range f.Candles[start:] {
		if c.High > high {
			high = c.High
		}
	}
	return high
}
