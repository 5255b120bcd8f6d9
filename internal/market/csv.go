package market

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/gocarina/gocsv"

	"crypto-signal-bot/internal/models"
)

// candleRow is the CSV layout for candle datasets: a timestamp column
// (RFC 3339 or unix seconds) followed by OHLCV columns.
type candleRow struct {
	Timestamp string  `csv:"timestamp"`
	Open      float64 `csv:"open"`
	High      float64 `csv:"high"`
	Low       float64 `csv:"low"`
	Close     float64 `csv:"close"`
	Volume    float64 `csv:"volume"`
}

// LoadCandlesCSV reads a candle dataset from disk and validates it.
func LoadCandlesCSV(path string) ([]models.Candle, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening candle file: %w", err)
	}
	defer file.Close()

	var rows []*candleRow
	if err := gocsv.UnmarshalFile(file, &rows); err != nil {
		return nil, fmt.Errorf("parsing candle file %s: %w", path, err)
	}

	candles := make([]models.Candle, 0, len(rows))
	for i, row := range rows {
		ts, err := parseTimestamp(row.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		candles = append(candles, models.Candle{
			Timestamp: ts,
			Open:      row.Open,
			High:      row.High,
			Low:       row.Low,
			Close:     row.Close,
			Volume:    row.Volume,
		})
	}

	if err := models.ValidateCandles(candles); err != nil {
		return nil, fmt.Errorf("validating %s: %w", path, err)
	}
	return candles, nil
}

// SaveCandlesCSV writes candles to disk in the same layout LoadCandlesCSV reads.
func SaveCandlesCSV(path string, candles []models.Candle) error {
	rows := make([]*candleRow, 0, len(candles))
	for _, c := range candles {
		rows = append(rows, &candleRow{
			Timestamp: c.Timestamp.UTC().Format(time.RFC3339),
			Open:      c.Open,
			High:      c.High,
			Low:       c.Low,
			Close:     c.Close,
			Volume:    c.Volume,
		})
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating candle file: %w", err)
	}
	defer file.Close()

	if err := gocsv.MarshalFile(&rows, file); err != nil {
		return fmt.Errorf("writing candle file %s: %w", path, err)
	}
	return nil
}

func parseTimestamp(raw string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return ts.UTC(), nil
	}
	if unix, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", raw)
}
