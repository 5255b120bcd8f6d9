package strategy

import (
	"crypto-signal-bot/internal/analysis/indicators"
)

// Levels holds key support and resistance prices derived from a frame.
// Fields are Undefined when the underlying series has no usable values.
type Levels struct {
	Support      float64
	Resistance   float64
	BBSupport    float64
	BBResistance float64
	EMAFast      float64
	EMASlow      float64
}

// SupportResistance derives static levels from the last five swing points
// plus the bands and EMAs as dynamic levels.
func SupportResistance(f *indicators.Frame) Levels {
	levels := Levels{
		Support:      indicators.Undefined,
		Resistance:   indicators.Undefined,
		BBSupport:    f.BBLower[f.Len()-1],
		BBResistance: f.BBUpper[f.Len()-1],
		EMAFast:      f.EMAFast[f.Len()-1],
		EMASlow:      f.EMASlow[f.Len()-1],
	}

	if highs := indicators.RecentSwingHighs(f.SwingHigh, 5); len(highs) > 0 {
		levels.Resistance = highs[0]
		for _, h := range highs[1:] {
			if h > levels.Resistance {
				levels.Resistance = h
			}
		}
	}

	if lows := indicators.RecentSwingLows(f.SwingLow, 5); len(lows) > 0 {
		levels.Support = lows[0]
		for _, l := range lows[1:] {
			if l < levels.Support {
				levels.Support = l
			}
		}
	}

	return levels
}
