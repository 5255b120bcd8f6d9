package models

import "time"

// Setup represents the outcome of rule evaluation on a candle series.
// An invalid setup is a normal outcome, not an error; Reason explains it.
type Setup struct {
	Valid      bool
	Direction  Direction
	Strength   int
	Confidence float64
	Conditions []string
	Reason     string
}

// TrailingStop describes ATR-based stop trailing attached to a signal.
type TrailingStop struct {
	Enabled       bool    `json:"enabled"`
	ATRMultiplier float64 `json:"atr_multiplier"`
	InitialStop   float64 `json:"initial_stop"`
}

// SignalMetadata carries the indicator snapshot the signal was built from.
type SignalMetadata struct {
	EMAFast     float64 `json:"ema_fast"`
	EMASlow     float64 `json:"ema_slow"`
	RSI         float64 `json:"rsi"`
	BBWidth     float64 `json:"bb_width"`
	VolumeRatio float64 `json:"volume_ratio"`
}

// Signal represents a complete trade recommendation.
type Signal struct {
	Symbol           string         `json:"symbol"`
	Timeframe        string         `json:"timeframe"`
	Direction        Direction      `json:"direction"`
	EntryPrice       float64        `json:"entry_price"`
	StopLoss         float64        `json:"stop_loss"`
	TakeProfits      []float64      `json:"take_profits"`
	PositionSize     float64        `json:"position_size"`
	RiskAmount       float64        `json:"risk_amount"`
	RiskPercent      float64        `json:"risk_percent"`
	Confidence       float64        `json:"confidence"`
	SentimentScore   float64        `json:"sentiment_score"`
	ATR              float64        `json:"atr"`
	Reasons          []string       `json:"reasons"`
	Timestamp        time.Time      `json:"timestamp"`
	BreakevenAfterTP int            `json:"breakeven_after_tp"`
	TrailingStop     TrailingStop   `json:"trailing_stop"`
	Metadata         SignalMetadata `json:"metadata"`
}

// RiskPerUnit returns the per-unit distance between entry and stop.
func (s *Signal) RiskPerUnit() float64 {
	d := s.EntryPrice - s.StopLoss
	if d < 0 {
		return -d
	}
	return d
}
