package market

import (
	"testing"
	"time"
)

func TestParseKlines(t *testing.T) {
	body := []byte(`[
		[1700000000000, "100.5", "101.2", "99.8", "100.9", "1234.5", 1700000059999, "0", 0, "0", "0", "0"],
		[1700000060000, "100.9", "102.0", "100.5", "101.8", "2345.6", 1700000119999, "0", 0, "0", "0", "0"]
	]`)

	candles, err := parseKlines(body)
	if err != nil {
		t.Fatalf("parseKlines: %v", err)
	}
	if len(candles) != 2 {
		t.Fatalf("len = %d, want 2", len(candles))
	}

	first := candles[0]
	if !first.Timestamp.Equal(time.UnixMilli(1700000000000).UTC()) {
		t.Errorf("Timestamp = %v", first.Timestamp)
	}
	if first.Open != 100.5 || first.High != 101.2 || first.Low != 99.8 || first.Close != 100.9 {
		t.Errorf("OHLC = %v %v %v %v", first.Open, first.High, first.Low, first.Close)
	}
	if first.Volume != 1234.5 {
		t.Errorf("Volume = %v, want 1234.5", first.Volume)
	}
}

func TestParseKlinesShortEntry(t *testing.T) {
	body := []byte(`[[1700000000000, "100.5", "101.2"]]`)
	if _, err := parseKlines(body); err == nil {
		t.Error("expected an error on a truncated kline entry")
	}
}

func TestParseKlinesBadNumber(t *testing.T) {
	body := []byte(`[[1700000000000, "not-a-price", "101.2", "99.8", "100.9", "1234.5"]]`)
	if _, err := parseKlines(body); err == nil {
		t.Error("expected an error on an unparseable price")
	}
}

func TestBinanceInterval(t *testing.T) {
	for _, tf := range []string{"1m", "5m", "15m", "30m", "1h", "4h", "1d"} {
		got, err := binanceInterval(tf)
		if err != nil {
			t.Errorf("binanceInterval(%q): %v", tf, err)
		}
		if got != tf {
			t.Errorf("binanceInterval(%q) = %q", tf, got)
		}
	}

	if _, err := binanceInterval("2h"); err == nil {
		t.Error("expected an error for an unsupported timeframe")
	}
}
