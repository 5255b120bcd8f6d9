package models

import (
	"testing"
	"time"
)

func validCandle() Candle {
	return Candle{
		Timestamp: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Open:      100,
		High:      102,
		Low:       99,
		Close:     101,
		Volume:    1000,
	}
}

func TestCandleValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Candle)
		wantErr bool
	}{
		{"valid", func(c *Candle) {}, false},
		{"negative price", func(c *Candle) { c.Open = -1 }, true},
		{"negative volume", func(c *Candle) { c.Volume = -1 }, true},
		{"high below low", func(c *Candle) { c.High = 98 }, true},
		{"high below close", func(c *Candle) { c.Close = 103 }, true},
		{"low above open", func(c *Candle) { c.Low = 100.5 }, true},
		{"zero volume", func(c *Candle) { c.Volume = 0 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validCandle()
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr && err == nil {
				t.Error("expected an error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidateCandles(t *testing.T) {
	if err := ValidateCandles(nil); err == nil {
		t.Error("empty series should be invalid")
	}

	candles := []Candle{validCandle(), validCandle()}
	if err := ValidateCandles(candles); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	candles[1].High = 10
	if err := ValidateCandles(candles); err == nil {
		t.Error("series with a broken candle should be invalid")
	}
}

func TestDirectionOpposite(t *testing.T) {
	if DirectionLong.Opposite() != DirectionShort {
		t.Error("LONG opposite should be SHORT")
	}
	if DirectionShort.Opposite() != DirectionLong {
		t.Error("SHORT opposite should be LONG")
	}
}

func TestSignalRiskPerUnit(t *testing.T) {
	long := &Signal{EntryPrice: 100, StopLoss: 96}
	if got := long.RiskPerUnit(); got != 4 {
		t.Errorf("RiskPerUnit = %v, want 4", got)
	}

	short := &Signal{EntryPrice: 100, StopLoss: 104}
	if got := short.RiskPerUnit(); got != 4 {
		t.Errorf("RiskPerUnit = %v, want 4", got)
	}
}

func TestPositionUnrealizedPnL(t *testing.T) {
	long := &Position{Direction: DirectionLong, EntryPrice: 100, Size: 10}
	if got := long.UnrealizedPnL(105); got != 50 {
		t.Errorf("long PnL = %v, want 50", got)
	}

	short := &Position{Direction: DirectionShort, EntryPrice: 100, Size: 10}
	if got := short.UnrealizedPnL(105); got != -50 {
		t.Errorf("short PnL = %v, want -50", got)
	}
}
