package market

import (
	"fmt"
	"sort"
	"time"

	"crypto-signal-bot/internal/models"
)

// timeframeMinutes converts a timeframe to its length in minutes.
func timeframeMinutes(timeframe string) (int, error) {
	switch timeframe {
	case "1m":
		return 1, nil
	case "5m":
		return 5, nil
	case "15m":
		return 15, nil
	case "30m":
		return 30, nil
	case "1h":
		return 60, nil
	case "4h":
		return 240, nil
	case "1d":
		return 1440, nil
	}
	return 0, fmt.Errorf("unsupported timeframe %q", timeframe)
}

// TimeframeDuration converts a timeframe to a time.Duration.
func TimeframeDuration(timeframe string) (time.Duration, error) {
	minutes, err := timeframeMinutes(timeframe)
	if err != nil {
		return 0, err
	}
	return time.Duration(minutes) * time.Minute, nil
}

// Resample aggregates candles into buckets of the target timeframe:
// first open, max high, min low, last close, summed volume. Input order
// does not matter; output is chronological.
func Resample(candles []models.Candle, timeframe string) ([]models.Candle, error) {
	duration, err := TimeframeDuration(timeframe)
	if err != nil {
		return nil, err
	}
	if len(candles) == 0 {
		return nil, nil
	}

	sorted := make([]models.Candle, len(candles))
	copy(sorted, candles)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})

	var out []models.Candle
	var bucket models.Candle
	var bucketStart time.Time
	open := false

	for _, c := range sorted {
		start := c.Timestamp.Truncate(duration)
		if !open || !start.Equal(bucketStart) {
			if open {
				out = append(out, bucket)
			}
			bucketStart = start
			bucket = models.Candle{
				Timestamp: start,
				Open:      c.Open,
				High:      c.High,
				Low:       c.Low,
				Close:     c.Close,
				Volume:    c.Volume,
			}
			open = true
			continue
		}

		if c.High > bucket.High {
			bucket.High = c.High
		}
		if c.Low < bucket.Low {
			bucket.Low = c.Low
		}
		bucket.Close = c.Close
		bucket.Volume += c.Volume
	}
	if open {
		out = append(out, bucket)
	}

	return out, nil
}
