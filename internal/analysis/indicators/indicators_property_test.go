package indicators

import (
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"crypto-signal-bot/internal/models"
)

// candleGen generates valid candle data with realistic OHLCV values.
func candleGen() gopter.Gen {
	return gen.Struct(reflect.TypeOf(models.Candle{}), map[string]gopter.Gen{
		"Timestamp": gen.TimeRange(time.Now().Add(-365*24*time.Hour), time.Hour),
		"Open":      gen.Float64Range(100.0, 1000.0),
		"High":      gen.Float64Range(100.0, 1000.0),
		"Low":       gen.Float64Range(100.0, 1000.0),
		"Close":     gen.Float64Range(100.0, 1000.0),
		"Volume":    gen.Float64Range(1000, 10000000),
	}).Map(func(c models.Candle) models.Candle {
		// Enforce OHLC constraints so every generated candle is valid.
		c.High = math.Max(c.High, math.Max(c.Open, c.Close))
		c.Low = math.Min(c.Low, math.Min(c.Open, c.Close))
		if c.Low > c.High {
			c.Low, c.High = c.High, c.Low
		}
		return c
	})
}

// candleSliceGen generates a slice of valid candles with ordered timestamps.
func candleSliceGen(minLen, maxLen int) gopter.Gen {
	return gen.SliceOfN(maxLen, candleGen()).Map(func(candles []models.Candle) []models.Candle {
		for len(candles) < minLen {
			candles = append(candles, candles[len(candles)-1])
		}
		for i := range candles {
			candles[i].Timestamp = time.Now().Add(time.Duration(i) * time.Hour)
			candles[i].High = math.Max(candles[i].High, math.Max(candles[i].Open, candles[i].Close))
			candles[i].Low = math.Min(candles[i].Low, math.Min(candles[i].Open, candles[i].Close))
			if candles[i].Low > candles[i].High {
				candles[i].Low, candles[i].High = candles[i].High, candles[i].Low
			}
		}
		return candles
	})
}

func TestProperty_RSIWithinBounds(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("RSI values are within [0, 100]", prop.ForAll(
		func(candles []models.Candle) bool {
			values, err := NewRSI(14).Calculate(candles)
			if err != nil {
				return true
			}
			for _, v := range values {
				if !Defined(v) {
					continue
				}
				if v < 0 || v > 100 {
					return false
				}
			}
			return true
		},
		candleSliceGen(20, 100),
	))

	properties.TestingRun(t)
}

func TestProperty_ATRNonNegative(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("ATR values are non-negative", prop.ForAll(
		func(candles []models.Candle) bool {
			values, err := NewATR(14).Calculate(candles)
			if err != nil {
				return true
			}
			for _, v := range values {
				if Defined(v) && v < 0 {
					return false
				}
			}
			return true
		},
		candleSliceGen(20, 100),
	))

	properties.TestingRun(t)
}

func TestProperty_BollingerBandOrdering(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("upper >= middle >= lower wherever defined", prop.ForAll(
		func(candles []models.Candle) bool {
			bands, err := NewBollingerBands(20, 2.0).Calculate(candles)
			if err != nil {
				return true
			}
			for i := range candles {
				if !Defined(bands["middle"][i]) {
					continue
				}
				if bands["upper"][i] < bands["middle"][i] || bands["middle"][i] < bands["lower"][i] {
					return false
				}
			}
			return true
		},
		candleSliceGen(25, 100),
	))

	properties.TestingRun(t)
}

func TestProperty_FrameSeriesLengthsMatch(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("every frame series has one value per candle", prop.ForAll(
		func(candles []models.Candle) bool {
			frame, err := Compute(candles, DefaultParams())
			if err != nil {
				return len(candles) == 0
			}
			n := frame.Len()
			series := [][]float64{
				frame.EMAFast, frame.EMASlow, frame.RSI, frame.ATR,
				frame.BBUpper, frame.BBMiddle, frame.BBLower, frame.BBWidth,
				frame.VolumeSMA, frame.Trend, frame.SwingHigh, frame.SwingLow,
			}
			for _, s := range series {
				if len(s) != n {
					return false
				}
			}
			return true
		},
		candleSliceGen(1, 250),
	))

	properties.TestingRun(t)
}
