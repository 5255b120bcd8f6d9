package models

import "time"

// Position represents an open position during a backtest run. TrailingStop
// and BreakevenTriggered carry the signal's risk state; the single-shot
// exit model records them but never moves the stop.
type Position struct {
	Symbol             string
	Direction          Direction
	EntryPrice         float64
	EntryTime          time.Time
	Size               float64
	StopLoss           float64
	TakeProfits        []float64
	TPLevelsHit        int
	TrailingStop       TrailingStop
	BreakevenTriggered bool
	EntryCommission    float64
	Signal             *Signal
}

// UnrealizedPnL returns the open profit at the given price, before commissions.
func (p *Position) UnrealizedPnL(price float64) float64 {
	if p.Direction == DirectionLong {
		return (price - p.EntryPrice) * p.Size
	}
	return (p.EntryPrice - price) * p.Size
}

// Trade represents a completed round trip.
type Trade struct {
	Symbol     string        `json:"symbol"`
	Direction  Direction     `json:"direction"`
	EntryPrice float64       `json:"entry_price"`
	ExitPrice  float64       `json:"exit_price"`
	EntryTime  time.Time     `json:"entry_time"`
	ExitTime   time.Time     `json:"exit_time"`
	Size       float64       `json:"size"`
	GrossPnL   float64       `json:"gross_pnl"`
	PnL        float64       `json:"net_pnl"`
	ReturnPct  float64       `json:"return_pct"`
	Commission float64       `json:"commission"`
	ExitReason string        `json:"exit_reason"`
	Duration   time.Duration `json:"duration"`
}
