// Package models provides domain models for the signal bot.
package models

import (
	"fmt"
	"time"
)

// Direction represents the direction of a trade setup or signal.
type Direction string

const (
	DirectionLong  Direction = "LONG"
	DirectionShort Direction = "SHORT"
)

// Opposite returns the opposite direction.
func (d Direction) Opposite() Direction {
	if d == DirectionLong {
		return DirectionShort
	}
	return DirectionLong
}

// Candle represents OHLCV data for a time period.
type Candle struct {
	Timestamp time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
}

// Validate checks the internal consistency of a candle.
func (c Candle) Validate() error {
	if c.Open < 0 || c.High < 0 || c.Low < 0 || c.Close < 0 || c.Volume < 0 {
		return fmt.Errorf("candle at %s has negative values", c.Timestamp.Format(time.RFC3339))
	}
	if c.High < c.Low {
		return fmt.Errorf("candle at %s has high %.8f below low %.8f", c.Timestamp.Format(time.RFC3339), c.High, c.Low)
	}
	if c.High < c.Open || c.High < c.Close {
		return fmt.Errorf("candle at %s has high below open/close", c.Timestamp.Format(time.RFC3339))
	}
	if c.Low > c.Open || c.Low > c.Close {
		return fmt.Errorf("candle at %s has low above open/close", c.Timestamp.Format(time.RFC3339))
	}
	return nil
}

// ValidateCandles checks a candle series for consistency.
func ValidateCandles(candles []Candle) error {
	if len(candles) == 0 {
		return fmt.Errorf("empty candle series")
	}
	for i, c := range candles {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("candle %d: %w", i, err)
		}
	}
	return nil
}

// Ticker represents a 24h market summary for a symbol.
type Ticker struct {
	Symbol        string
	LastPrice     float64
	PriceChange   float64
	ChangePercent float64
	High24h       float64
	Low24h        float64
	Volume24h     float64
}
