package backtest

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"crypto-signal-bot/pkg/utils"
)

// Report renders a plain-text summary of a backtest result.
func Report(r *Result) string {
	var b strings.Builder

	b.WriteString("BACKTEST RESULTS REPORT\n")
	b.WriteString("======================\n\n")

	b.WriteString("PERFORMANCE SUMMARY:\n")
	fmt.Fprintf(&b, "Initial Balance: %s\n", utils.FormatUSD(r.InitialBalance))
	fmt.Fprintf(&b, "Final Balance: %s\n", utils.FormatUSD(r.FinalBalance))
	fmt.Fprintf(&b, "Total Return: %s\n", utils.FormatPercent(r.TotalReturnPct))
	fmt.Fprintf(&b, "Max Drawdown: %.2f%%\n\n", r.MaxDrawdownPct)

	b.WriteString("TRADE STATISTICS:\n")
	fmt.Fprintf(&b, "Total Trades: %d\n", r.TotalTrades)
	fmt.Fprintf(&b, "Winning Trades: %d\n", r.WinningTrades)
	fmt.Fprintf(&b, "Losing Trades: %d\n", r.LosingTrades)
	fmt.Fprintf(&b, "Win Rate: %.1f%%\n", r.WinRatePct)
	fmt.Fprintf(&b, "Profit Factor: %.2f\n\n", r.ProfitFactor)

	b.WriteString("AVERAGE PERFORMANCE:\n")
	fmt.Fprintf(&b, "Average Win: %s\n", utils.FormatUSD(r.AvgWin))
	fmt.Fprintf(&b, "Average Loss: %s\n", utils.FormatUSD(r.AvgLoss))
	fmt.Fprintf(&b, "Average Trade Duration: %.1f hours\n\n", r.AvgTradeDurationHours)

	b.WriteString("RISK METRICS:\n")
	fmt.Fprintf(&b, "Sharpe Ratio: %.2f", r.SharpeRatio)

	return b.String()
}

// WriteJSON writes the full result, including trades and the equity
// curve, as indented JSON.
func WriteJSON(w io.Writer, r *Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
