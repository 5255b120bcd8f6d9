package backtest

import (
	"math"

	"crypto-signal-bot/internal/models"
)

// annualization constants for the Sharpe ratio (daily bars assumed).
const (
	riskFreeRate   = 0.02
	periodsPerYear = 252
)

// buildResult computes the summary statistics for a completed run.
func (e *Engine) buildResult(finalBalance float64, trades []models.Trade, equity []EquityPoint) *Result {
	result := &Result{
		InitialBalance: e.cfg.InitialBalance,
		FinalBalance:   finalBalance,
		TotalReturnPct: (finalBalance - e.cfg.InitialBalance) / e.cfg.InitialBalance * 100,
		TotalTrades:    len(trades),
		Trades:         trades,
		EquityCurve:    equity,
	}

	if len(trades) == 0 {
		return result
	}

	var winSum, lossSum float64
	var totalDuration float64
	for _, t := range trades {
		totalDuration += t.Duration.Hours()
		if t.PnL > 0 {
			result.WinningTrades++
			winSum += t.PnL
		} else if t.PnL < 0 {
			result.LosingTrades++
			lossSum += t.PnL
		}
	}

	result.WinRatePct = float64(result.WinningTrades) / float64(result.TotalTrades) * 100
	if result.WinningTrades > 0 {
		result.AvgWin = winSum / float64(result.WinningTrades)
	}
	if result.LosingTrades > 0 {
		result.AvgLoss = lossSum / float64(result.LosingTrades)
	}

	if result.LosingTrades > 0 {
		result.ProfitFactor = math.Abs(result.AvgWin * float64(result.WinningTrades) / (result.AvgLoss * float64(result.LosingTrades)))
	} else {
		result.ProfitFactor = math.Inf(1)
	}

	result.MaxDrawdownPct = maxDrawdown(equity)
	result.SharpeRatio = sharpeRatio(periodReturns(equity))
	result.AvgTradeDurationHours = totalDuration / float64(result.TotalTrades)

	return result
}

// periodReturns converts the equity curve into per-bar fractional returns.
func periodReturns(equity []EquityPoint) []float64 {
	if len(equity) < 2 {
		return nil
	}
	returns := make([]float64, 0, len(equity)-1)
	for i := 1; i < len(equity); i++ {
		prev := equity[i-1].Equity
		if prev == 0 {
			continue
		}
		returns = append(returns, (equity[i].Equity-prev)/prev)
	}
	return returns
}

// maxDrawdown returns the largest peak-to-trough equity decline as a
// positive percentage.
func maxDrawdown(equity []EquityPoint) float64 {
	if len(equity) == 0 {
		return 0
	}

	runningMax := equity[0].Equity
	worst := 0.0
	for _, p := range equity {
		if p.Equity > runningMax {
			runningMax = p.Equity
		}
		if runningMax == 0 {
			continue
		}
		dd := (p.Equity - runningMax) / runningMax * 100
		if dd < worst {
			worst = dd
		}
	}
	return math.Abs(worst)
}

// sharpeRatio annualizes the mean excess return over its sample standard
// deviation. Returns 0 when volatility is zero.
func sharpeRatio(returns []float64) float64 {
	if len(returns) < 2 {
		return 0
	}

	var sum float64
	for _, r := range returns {
		sum += r
	}
	mean := sum / float64(len(returns))

	var variance float64
	for _, r := range returns {
		diff := r - mean
		variance += diff * diff
	}
	variance /= float64(len(returns) - 1)
	std := math.Sqrt(variance)

	if std == 0 {
		return 0
	}

	excess := mean - riskFreeRate/periodsPerYear
	return excess / std * math.Sqrt(periodsPerYear)
}
