package backtest

import (
	"context"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"crypto-signal-bot/internal/analysis/indicators"
	"crypto-signal-bot/internal/analysis/risk"
	"crypto-signal-bot/internal/analysis/strategy"
	"crypto-signal-bot/internal/models"
	"crypto-signal-bot/internal/signal"
)

func newTestEngine() *Engine {
	detector := strategy.NewDetector(strategy.DefaultConfig(), zerolog.Nop())
	engine := risk.NewEngine(risk.DefaultConfig())
	gen := signal.NewGenerator(signal.DefaultConfig(), detector, engine, zerolog.Nop())
	return NewEngine(DefaultConfig(), indicators.DefaultParams(), gen, zerolog.Nop())
}

// uptrendCandles builds a steady 1% per bar uptrend with rising volume.
func uptrendCandles(n int) []models.Candle {
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

func longPosition(stop float64, tps []float64) *models.Position {
	return &models.Position{
		Symbol:      "BTCUSDT",
		Direction:   models.DirectionLong,
		EntryPrice:  100,
		EntryTime:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Size:        10,
		StopLoss:    stop,
		TakeProfits: tps,
	}
}

func bar(high, low float64) models.Candle {
	return models.Candle{
		Timestamp: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		Open:      (high + low) / 2,
		High:      high,
		Low:       low,
		Close:     (high + low) / 2,
		Volume:    1000,
	}
}

func TestOpenPositionCarriesRiskState(t *testing.T) {
	engine := newTestEngine()

	sig := &models.Signal{
		Symbol:       "BTCUSDT",
		Direction:    models.DirectionLong,
		EntryPrice:   100,
		StopLoss:     96,
		TakeProfits:  []float64{104, 106, 110},
		PositionSize: 10,
		TrailingStop: models.TrailingStop{Enabled: true, ATRMultiplier: 2.5, InitialStop: 96},
	}

	position := engine.openPosition(sig, 10000, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

	if position.TrailingStop != sig.TrailingStop {
		t.Errorf("TrailingStop = %+v, want %+v", position.TrailingStop, sig.TrailingStop)
	}
	if position.BreakevenTriggered {
		t.Error("BreakevenTriggered should start false")
	}
	if position.TPLevelsHit != 0 {
		t.Errorf("TPLevelsHit = %d, want 0", position.TPLevelsHit)
	}

	// The notional cap shrinks oversized entries to 95% of the balance.
	sig.PositionSize = 200
	position = engine.openPosition(sig, 10000, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	if math.Abs(position.Size-95) > 1e-9 {
		t.Errorf("Size = %v, want 95 after the notional cap", position.Size)
	}
}

func TestCheckExitStopBeforeTakeProfit(t *testing.T) {
	position := longPosition(95, []float64{105})

	// The bar sweeps both levels; the stop wins.
	ex := checkExit(position, bar(106, 94))
	if ex == nil {
		t.Fatal("expected an exit")
	}
	if ex.reason != "Stop Loss Hit" || ex.price != 95 {
		t.Errorf("exit = %+v, want stop at 95", ex)
	}
}

func TestCheckExitTakeProfitLadder(t *testing.T) {
	position := longPosition(90, []float64{105, 110, 115})

	ex := checkExit(position, bar(106, 99))
	if ex == nil || ex.reason != "Take Profit 1 Hit" || ex.price != 105 {
		t.Fatalf("exit = %+v, want TP1 at 105", ex)
	}

	// With TP1 already taken, the same bar no longer triggers it.
	position.TPLevelsHit = 1
	if ex := checkExit(position, bar(106, 99)); ex != nil {
		t.Errorf("exit = %+v, want none below TP2", ex)
	}

	ex = checkExit(position, bar(111, 99))
	if ex == nil || ex.reason != "Take Profit 2 Hit" || ex.price != 110 {
		t.Errorf("exit = %+v, want TP2 at 110", ex)
	}
}

func TestCheckExitShort(t *testing.T) {
	position := longPosition(105, []float64{95})
	position.Direction = models.DirectionShort

	ex := checkExit(position, bar(106, 100))
	if ex == nil || ex.reason != "Stop Loss Hit" || ex.price != 105 {
		t.Errorf("exit = %+v, want short stop at 105", ex)
	}

	ex = checkExit(position, bar(101, 94))
	if ex == nil || ex.reason != "Take Profit 1 Hit" || ex.price != 95 {
		t.Errorf("exit = %+v, want short TP1 at 95", ex)
	}

	if ex := checkExit(position, bar(104, 96)); ex != nil {
		t.Errorf("exit = %+v, want none inside the range", ex)
	}
}

func TestClosePositionCommission(t *testing.T) {
	engine := newTestEngine()

	position := longPosition(95, []float64{110})
	position.EntryCommission = position.Size * position.EntryPrice * engine.cfg.CommissionRate

	ex := exit{price: 110, reason: "Take Profit 1 Hit", date: position.EntryTime.Add(5 * time.Hour)}
	balance, trade := engine.closePosition(position, ex, 10000)

	// Gross 100, commission 1 on entry and 1.10 on exit.
	if math.Abs(trade.GrossPnL-100) > 1e-9 {
		t.Errorf("GrossPnL = %v, want 100", trade.GrossPnL)
	}
	if math.Abs(trade.Commission-2.1) > 1e-9 {
		t.Errorf("Commission = %v, want 2.1", trade.Commission)
	}
	if math.Abs(trade.PnL-97.9) > 1e-9 {
		t.Errorf("PnL = %v, want 97.9", trade.PnL)
	}
	if math.Abs(balance-10097.9) > 1e-9 {
		t.Errorf("balance = %v, want 10097.9", balance)
	}
	if trade.ExitReason != "Take Profit 1 Hit" {
		t.Errorf("ExitReason = %q", trade.ExitReason)
	}
	if trade.Duration != 5*time.Hour {
		t.Errorf("Duration = %v, want 5h", trade.Duration)
	}
}

func TestBuildResultStats(t *testing.T) {
	engine := newTestEngine()

	trades := []models.Trade{
		{PnL: 100, Duration: 2 * time.Hour},
		{PnL: 50, Duration: 4 * time.Hour},
		{PnL: -50, Duration: 6 * time.Hour},
	}
	equity := []EquityPoint{{Equity: 10000}, {Equity: 10100}}

	result := engine.buildResult(10100, trades, equity)

	if result.TotalTrades != 3 || result.WinningTrades != 2 || result.LosingTrades != 1 {
		t.Errorf("trade counts = %d/%d/%d", result.TotalTrades, result.WinningTrades, result.LosingTrades)
	}
	if math.Abs(result.WinRatePct-200.0/3.0) > 1e-9 {
		t.Errorf("WinRatePct = %v", result.WinRatePct)
	}
	if math.Abs(result.AvgWin-75) > 1e-9 {
		t.Errorf("AvgWin = %v, want 75", result.AvgWin)
	}
	if math.Abs(result.AvgLoss+50) > 1e-9 {
		t.Errorf("AvgLoss = %v, want -50", result.AvgLoss)
	}
	if math.Abs(result.ProfitFactor-3) > 1e-9 {
		t.Errorf("ProfitFactor = %v, want 3", result.ProfitFactor)
	}
	if math.Abs(result.AvgTradeDurationHours-4) > 1e-9 {
		t.Errorf("AvgTradeDurationHours = %v, want 4", result.AvgTradeDurationHours)
	}
	if math.Abs(result.TotalReturnPct-1) > 1e-9 {
		t.Errorf("TotalReturnPct = %v, want 1", result.TotalReturnPct)
	}
}

func TestBuildResultNoLosses(t *testing.T) {
	engine := newTestEngine()
	trades := []models.Trade{{PnL: 100}}
	result := engine.buildResult(10100, trades, nil)

	if !math.IsInf(result.ProfitFactor, 1) {
		t.Errorf("ProfitFactor = %v, want +Inf without losses", result.ProfitFactor)
	}
}

func TestMaxDrawdown(t *testing.T) {
	equity := []EquityPoint{
		{Equity: 100}, {Equity: 120}, {Equity: 90}, {Equity: 130},
	}
	if got := maxDrawdown(equity); math.Abs(got-25) > 1e-9 {
		t.Errorf("maxDrawdown = %v, want 25", got)
	}

	if got := maxDrawdown(nil); got != 0 {
		t.Errorf("maxDrawdown(nil) = %v, want 0", got)
	}

	rising := []EquityPoint{{Equity: 100}, {Equity: 110}, {Equity: 120}}
	if got := maxDrawdown(rising); got != 0 {
		t.Errorf("maxDrawdown of rising curve = %v, want 0", got)
	}
}

func TestPeriodReturns(t *testing.T) {
	equity := []EquityPoint{{Equity: 100}, {Equity: 110}, {Equity: 99}}
	returns := periodReturns(equity)

	if len(returns) != 2 {
		t.Fatalf("len = %d, want 2", len(returns))
	}
	if math.Abs(returns[0]-0.1) > 1e-9 || math.Abs(returns[1]+0.1) > 1e-9 {
		t.Errorf("returns = %v, want [0.1 -0.1]", returns)
	}

	if got := periodReturns([]EquityPoint{{Equity: 100}}); got != nil {
		t.Errorf("single point should yield no returns, got %v", got)
	}
}

func TestSharpeRatio(t *testing.T) {
	if got := sharpeRatio([]float64{0.01, 0.01, 0.01}); got != 0 {
		t.Errorf("zero volatility Sharpe = %v, want 0", got)
	}
	if got := sharpeRatio([]float64{0.01}); got != 0 {
		t.Errorf("single return Sharpe = %v, want 0", got)
	}
	if got := sharpeRatio([]float64{0.02, 0.01, 0.03, 0.02}); got <= 0 {
		t.Errorf("Sharpe of consistently positive returns = %v, want > 0", got)
	}
	if got := sharpeRatio([]float64{-0.02, -0.01, -0.03, -0.02}); got >= 0 {
		t.Errorf("Sharpe of consistently negative returns = %v, want < 0", got)
	}
}

func TestRunTrendingSeries(t *testing.T) {
	engine := newTestEngine()
	candles := uptrendCandles(300)

	result, err := engine.Run(context.Background(), candles, "BTCUSDT", "1h")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if result.Symbol != "BTCUSDT" || result.Timeframe != "1h" {
		t.Errorf("symbol/timeframe = %q/%q", result.Symbol, result.Timeframe)
	}
	// One point per replayed bar plus the seed point.
	if want := 300 - 200 + 1; len(result.EquityCurve) != want {
		t.Errorf("len(EquityCurve) = %d, want %d", len(result.EquityCurve), want)
	}
	if result.TotalTrades < 1 {
		t.Fatalf("expected at least one trade on a strong uptrend")
	}
	if len(result.Trades) != result.TotalTrades {
		t.Errorf("Trades length %d does not match TotalTrades %d", len(result.Trades), result.TotalTrades)
	}
	for _, trade := range result.Trades {
		if trade.ExitReason == "" {
			t.Errorf("trade missing exit reason: %+v", trade)
		}
	}
	if result.FinalBalance <= 0 {
		t.Errorf("FinalBalance = %v", result.FinalBalance)
	}

	// The balance only ever moves by realized net P&L, so the final
	// balance reconciles exactly against the trade log.
	var netPnL float64
	for _, trade := range result.Trades {
		netPnL += trade.PnL
	}
	if math.Abs(result.FinalBalance-(result.InitialBalance+netPnL)) > 1e-6 {
		t.Errorf("FinalBalance = %v, want %v from the trade log", result.FinalBalance, result.InitialBalance+netPnL)
	}
}

func TestRunZeroCommissionReconciles(t *testing.T) {
	detector := strategy.NewDetector(strategy.DefaultConfig(), zerolog.Nop())
	riskEngine := risk.NewEngine(risk.DefaultConfig())
	gen := signal.NewGenerator(signal.DefaultConfig(), detector, riskEngine, zerolog.Nop())
	engine := NewEngine(Config{InitialBalance: 10000, CommissionRate: 0}, indicators.DefaultParams(), gen, zerolog.Nop())

	result, err := engine.Run(context.Background(), uptrendCandles(300), "BTCUSDT", "1h")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	var netPnL float64
	for _, trade := range result.Trades {
		if trade.Commission != 0 {
			t.Errorf("trade charged commission %v at zero rate", trade.Commission)
		}
		if math.Abs(trade.PnL-trade.GrossPnL) > 1e-9 {
			t.Errorf("net %v != gross %v without commission", trade.PnL, trade.GrossPnL)
		}
		netPnL += trade.PnL
	}
	if math.Abs(result.FinalBalance-(result.InitialBalance+netPnL)) > 1e-6 {
		t.Errorf("FinalBalance = %v, want %v from the trade log", result.FinalBalance, result.InitialBalance+netPnL)
	}

	// Each take profit close frees the single position slot and the next
	// bar re-enters, so the steady uptrend produces a run of TP exits
	// capped by the forced close on the final bar.
	if result.TotalTrades != 34 {
		t.Errorf("TotalTrades = %d, want 34", result.TotalTrades)
	}
	for _, trade := range result.Trades[:len(result.Trades)-1] {
		if !strings.HasPrefix(trade.ExitReason, "Take Profit") {
			t.Errorf("ExitReason = %q, want a take profit exit", trade.ExitReason)
		}
	}
	if last := result.Trades[len(result.Trades)-1]; last.ExitReason != "End of backtest" {
		t.Errorf("last ExitReason = %q, want End of backtest", last.ExitReason)
	}
	if result.FinalBalance <= result.InitialBalance {
		t.Errorf("FinalBalance = %v, expected a profit on the uptrend", result.FinalBalance)
	}
}

func TestRunCancelledContext(t *testing.T) {
	engine := newTestEngine()
	candles := uptrendCandles(300)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := engine.Run(ctx, candles, "BTCUSDT", "1h"); err == nil {
		t.Error("expected an error from a cancelled context")
	}
}
