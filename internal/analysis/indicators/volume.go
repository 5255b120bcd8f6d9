package indicators

import (
	"fmt"

	"crypto-signal-bot/internal/models"
)

// VolumeSMA calculates a simple moving average of volume.
type VolumeSMA struct {
	period int
}

// NewVolumeSMA creates a new volume SMA indicator.
func NewVolumeSMA(period int) *VolumeSMA {
	return &VolumeSMA{period: period}
}

func (v *VolumeSMA) Name() string {
	return fmt.Sprintf("VolumeSMA_%d", v.period)
}

func (v *VolumeSMA) Period() int {
	return v.period
}

func (v *VolumeSMA) Calculate(candles []models.Candle) ([]float64, error) {
	if v.period <= 0 {
		return nil, ErrInvalidPeriod
	}
	if len(candles) < v.period {
		return nil, ErrInsufficientData
	}
	return RollingMean(volumes(candles), v.period), nil
}
