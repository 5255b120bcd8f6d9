package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"crypto-signal-bot/internal/store"
)

func newSignalsCmd(app *App) *cobra.Command {
	var (
		symbol string
		limit  int
		days   int
	)

	cmd := &cobra.Command{
		Use:   "signals",
		Short: "List recent signals from the journal",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			if app.Store == nil {
				return fmt.Errorf("signal journal is not available")
			}

			filter := store.SignalFilter{
				Symbol: symbol,
				Limit:  limit,
			}
			if days > 0 {
				filter.StartDate = time.Now().AddDate(0, 0, -days)
			}

			signals, err := app.Store.GetSignals(cmd.Context(), filter)
			if err != nil {
				return fmt.Errorf("querying signals: %w", err)
			}

			if output.IsJSON() {
				return output.JSON(signals)
			}

			if len(signals) == 0 {
				output.Dim("No signals recorded")
				return nil
			}

			table := NewTable(output, "Time", "Symbol", "TF", "Direction", "Entry", "Stop", "Confidence")
			for _, sig := range signals {
				direction := output.Green(string(sig.Direction))
				if sig.Direction == "SHORT" {
					direction = output.Red(string(sig.Direction))
				}
				table.AddRow(
					sig.Timestamp.UTC().Format("2006-01-02 15:04"),
					sig.Symbol,
					sig.Timeframe,
					direction,
					fmt.Sprintf("%.4f", sig.EntryPrice),
					fmt.Sprintf("%.4f", sig.StopLoss),
					fmt.Sprintf("%.0f%%", sig.Confidence*100),
				)
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().StringVarP(&symbol, "symbol", "s", "", "filter by symbol")
	cmd.Flags().IntVarP(&limit, "limit", "l", 20, "maximum number of signals")
	cmd.Flags().IntVar(&days, "days", 0, "only signals from the last N days")

	return cmd
}
