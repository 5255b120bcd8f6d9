package indicators

import (
	"errors"

	"crypto-signal-bot/internal/models"
)

// Params holds the lookback configuration for a Frame.
type Params struct {
	EMAFast      int
	EMASlow      int
	RSIPeriod    int
	ATRPeriod    int
	BBPeriod     int
	BBStdDev     float64
	VolumePeriod int
	SwingWindow  int
}

// DefaultParams returns the standard parameter set.
func DefaultParams() Params {
	return Params{
		EMAFast:      50,
		EMASlow:      200,
		RSIPeriod:    14,
		ATRPeriod:    14,
		BBPeriod:     20,
		BBStdDev:     2.0,
		VolumePeriod: 20,
		SwingWindow:  5,
	}
}

// Frame holds a candle series together with every derived series the
// strategy consumes. Derived values are Undefined until their lookback
// is satisfied; callers must check Defined before using a value.
type Frame struct {
	Candles   []models.Candle
	Params    Params
	EMAFast   []float64
	EMASlow   []float64
	RSI       []float64
	ATR       []float64
	BBUpper   []float64
	BBMiddle  []float64
	BBLower   []float64
	BBWidth   []float64
	VolumeSMA []float64
	Trend     []float64 // +1 uptrend, -1 downtrend
	SwingHigh []float64 // sparse
	SwingLow  []float64 // sparse
}

// Len returns the number of bars in the frame.
func (f *Frame) Len() int {
	return len(f.Candles)
}

// LastClose returns the close of the most recent bar.
func (f *Frame) LastClose() float64 {
	return f.Candles[len(f.Candles)-1].Close
}

// Compute builds a Frame from candles. Series whose lookback exceeds the
// available history come back fully Undefined rather than failing, so a
// short series still produces a usable frame.
func Compute(candles []models.Candle, params Params) (*Frame, error) {
	if len(candles) == 0 {
		return nil, ErrInsufficientData
	}

	n := len(candles)
	f := &Frame{Candles: candles, Params: params}

	// Series whose lookback is not met degrade to all-Undefined.
	relax := func(series []float64, err error) ([]float64, error) {
		if errors.Is(err, ErrInsufficientData) {
			return undefinedSeries(n), nil
		}
		return series, err
	}

	var err error
	if f.EMAFast, err = relax(NewEMA(params.EMAFast).Calculate(candles)); err != nil {
		return nil, err
	}
	if f.EMASlow, err = relax(NewEMA(params.EMASlow).Calculate(candles)); err != nil {
		return nil, err
	}
	if f.RSI, err = relax(NewRSI(params.RSIPeriod).Calculate(candles)); err != nil {
		return nil, err
	}
	if f.ATR, err = relax(NewATR(params.ATRPeriod).Calculate(candles)); err != nil {
		return nil, err
	}

	bb, err := NewBollingerBands(params.BBPeriod, params.BBStdDev).Calculate(candles)
	if err != nil {
		if !errors.Is(err, ErrInsufficientData) {
			return nil, err
		}
		f.BBMiddle = undefinedSeries(n)
		f.BBUpper = undefinedSeries(n)
		f.BBLower = undefinedSeries(n)
		f.BBWidth = undefinedSeries(n)
	} else {
		f.BBMiddle = bb["middle"]
		f.BBUpper = bb["upper"]
		f.BBLower = bb["lower"]
		f.BBWidth = bb["width"]
	}

	if f.VolumeSMA, err = relax(NewVolumeSMA(params.VolumePeriod).Calculate(candles)); err != nil {
		return nil, err
	}

	f.Trend = make([]float64, n)
	for i := 0; i < n; i++ {
		if f.EMAFast[i] > f.EMASlow[i] {
			f.Trend[i] = 1
		} else {
			f.Trend[i] = -1
		}
	}

	swings, err := NewSwingPoints(params.SwingWindow).Calculate(candles)
	if err != nil {
		if !errors.Is(err, ErrInsufficientData) {
			return nil, err
		}
		f.SwingHigh = undefinedSeries(n)
		f.SwingLow = undefinedSeries(n)
	} else {
		f.SwingHigh = swings["high"]
		f.SwingLow = swings["low"]
	}

	return f, nil
}
