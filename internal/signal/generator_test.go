package signal

import (
	"encoding/json"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"crypto-signal-bot/internal/analysis/indicators"
	"crypto-signal-bot/internal/analysis/risk"
	"crypto-signal-bot/internal/analysis/strategy"
	"crypto-signal-bot/internal/models"
)

// trendingCandles builds a steady uptrend with rising volume: enough
// history for every indicator and a frame the detector scores as a long.
func trendingCandles(n int) []models.Candle {
	candles := make([]models.Candle, n)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	price := 100.0
	for i := 0; i < n; i++ {
		open := price
		price *= 1.01
		candles[i] = models.Candle{
			Timestamp: start.Add(time.Duration(i) * time.Hour),
			Open:      open,
			High:      price * 1.002,
			Low:       open * 0.998,
			Close:     price,
			Volume:    1000 + float64(i)*10,
		}
	}
	return candles
}

func newTestGenerator() *Generator {
	detector := strategy.NewDetector(strategy.DefaultConfig(), zerolog.Nop())
	engine := risk.NewEngine(risk.DefaultConfig())
	return NewGenerator(DefaultConfig(), detector, engine, zerolog.Nop())
}

func computeFrame(t *testing.T, candles []models.Candle) *indicators.Frame {
	t.Helper()
	frame, err := indicators.Compute(candles, indicators.DefaultParams())
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	return frame
}

func TestGenerateRequiresHistory(t *testing.T) {
	gen := newTestGenerator()
	frame := computeFrame(t, trendingCandles(150))

	if sig := gen.Generate(frame, 0.0, "BTCUSDT", "1h"); sig != nil {
		t.Errorf("expected no signal with 150 bars, got %+v", sig)
	}
}

func TestGenerateLongSignal(t *testing.T) {
	gen := newTestGenerator()
	frame := computeFrame(t, trendingCandles(250))

	sig := gen.Generate(frame, 0.4, "BTCUSDT", "1h")
	if sig == nil {
		t.Fatal("expected a signal on a strong uptrend with positive sentiment")
	}

	if sig.Direction != models.DirectionLong {
		t.Errorf("Direction = %q, want LONG", sig.Direction)
	}
	if sig.Symbol != "BTCUSDT" || sig.Timeframe != "1h" {
		t.Errorf("symbol/timeframe = %q/%q", sig.Symbol, sig.Timeframe)
	}
	if sig.EntryPrice != frame.LastClose() {
		t.Errorf("EntryPrice = %v, want last close %v", sig.EntryPrice, frame.LastClose())
	}
	if sig.StopLoss >= sig.EntryPrice {
		t.Errorf("long stop %v must be below entry %v", sig.StopLoss, sig.EntryPrice)
	}
	if len(sig.TakeProfits) != 3 {
		t.Fatalf("len(TakeProfits) = %d, want 3", len(sig.TakeProfits))
	}
	for i := 1; i < len(sig.TakeProfits); i++ {
		if sig.TakeProfits[i] <= sig.TakeProfits[i-1] {
			t.Errorf("long take profits must increase, got %v", sig.TakeProfits)
		}
	}
	if sig.TakeProfits[0] <= sig.EntryPrice {
		t.Errorf("TP1 %v must be above entry %v", sig.TakeProfits[0], sig.EntryPrice)
	}
	if sig.Confidence < 0.6 || sig.Confidence > 1.0 {
		t.Errorf("Confidence = %v, want within [0.6, 1.0]", sig.Confidence)
	}
	if sig.RiskPercent != 2.0 {
		t.Errorf("RiskPercent = %v, want 2.0", sig.RiskPercent)
	}
	if !sig.TrailingStop.Enabled || sig.TrailingStop.ATRMultiplier != 2.5 {
		t.Errorf("trailing stop = %+v", sig.TrailingStop)
	}
	if sig.TrailingStop.InitialStop != sig.StopLoss {
		t.Errorf("initial trailing stop %v should match stop loss %v", sig.TrailingStop.InitialStop, sig.StopLoss)
	}
	if sig.PositionSize <= 0 {
		t.Errorf("PositionSize = %v, want > 0", sig.PositionSize)
	}
	wantRisk := math.Abs(sig.EntryPrice-sig.StopLoss) * sig.PositionSize
	if math.Abs(sig.RiskAmount-wantRisk) > 1e-9 {
		t.Errorf("RiskAmount = %v, want %v", sig.RiskAmount, wantRisk)
	}
	if len(sig.Reasons) == 0 {
		t.Errorf("signal should carry its reasons")
	}
	if math.IsNaN(sig.Metadata.BBWidth) || math.IsNaN(sig.Metadata.VolumeRatio) {
		t.Errorf("metadata must not carry NaN values: %+v", sig.Metadata)
	}
}

func TestGenerateSentimentGate(t *testing.T) {
	gen := newTestGenerator()
	frame := computeFrame(t, trendingCandles(250))

	// Strong negative sentiment blocks a long setup.
	if sig := gen.Generate(frame, -0.6, "BTCUSDT", "1h"); sig != nil {
		t.Errorf("conflicting sentiment should block the signal")
	}

	// Weak positive sentiment below the threshold also blocks it.
	if sig := gen.Generate(frame, 0.1, "BTCUSDT", "1h"); sig != nil {
		t.Errorf("sentiment below the alignment threshold should block the signal")
	}

	// A neutral score means no sentiment data and passes through.
	if sig := gen.Generate(frame, 0.0, "BTCUSDT", "1h"); sig == nil {
		t.Errorf("neutral sentiment should not block the signal")
	}
}

func TestGenerateSignalSerializes(t *testing.T) {
	gen := newTestGenerator()
	frame := computeFrame(t, trendingCandles(250))

	sig := gen.Generate(frame, 0.4, "BTCUSDT", "1h")
	if sig == nil {
		t.Fatal("expected a signal")
	}

	out, err := FormatJSON(sig)
	if err != nil {
		t.Fatalf("FormatJSON: %v", err)
	}
	var decoded models.Signal
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded.Symbol != sig.Symbol || decoded.Direction != sig.Direction {
		t.Errorf("round trip lost fields: %+v", decoded)
	}
}

func TestFormatTelegram(t *testing.T) {
	gen := newTestGenerator()
	frame := computeFrame(t, trendingCandles(250))

	sig := gen.Generate(frame, 0.4, "BTCUSDT", "1h")
	if sig == nil {
		t.Fatal("expected a signal")
	}

	msg := FormatTelegram(sig)
	for _, want := range []string{"🟢", "BTCUSDT", "Entry:", "Stop Loss:", "TP1:", "TP3:", "Confidence:"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q:\n%s", want, msg)
		}
	}
}

func TestSentimentDescription(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{0.8, "Very Positive Sentiment"},
		{0.5, "Very Positive Sentiment"},
		{0.3, "Positive Sentiment"},
		{0.2, "Positive Sentiment"},
		{0.0, "Neutral Sentiment"},
		{-0.19, "Neutral Sentiment"},
		{-0.2, "Negative Sentiment"},
		{-0.49, "Negative Sentiment"},
		{-0.5, "Very Negative Sentiment"},
		{-0.9, "Very Negative Sentiment"},
	}
	for _, tt := range tests {
		if got := SentimentDescription(tt.score); got != tt.want {
			t.Errorf("SentimentDescription(%v) = %q, want %q", tt.score, got, tt.want)
		}
	}
}
