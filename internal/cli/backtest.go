package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"crypto-signal-bot/internal/backtest"
)

func newBacktestCmd(app *App) *cobra.Command {
	var (
		timeframe string
		limit     int
		csvPath   string
		outPath   string
		save      bool
	)

	cmd := &cobra.Command{
		Use:   "backtest [symbol]",
		Short: "Backtest the strategy on historical data",
		Long: `Backtest simulates the signal strategy over historical candles, applying
the configured risk management and commission model, and reports trade
statistics, drawdown and risk-adjusted performance.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			symbol := app.Config.Trading.Symbols[0]
			if len(args) > 0 {
				symbol = args[0]
			}

			candles, err := loadCandles(cmd, app, symbol, timeframe, limit, csvPath)
			if err != nil {
				return err
			}

			engine := backtest.NewEngine(
				app.Config.BacktestEngineConfig(),
				app.Config.IndicatorParams(),
				app.newGenerator(),
				app.Logger,
			)

			result, err := engine.Run(cmd.Context(), candles, symbol, timeframe)
			if err != nil {
				return fmt.Errorf("running backtest: %w", err)
			}

			if app.Store != nil && save {
				if err := app.Store.SaveBacktest(cmd.Context(), result); err != nil {
					output.Warning("Saving backtest failed: %v", err)
				}
			}

			if outPath != "" {
				if err := writeResultJSON(outPath, result); err != nil {
					return err
				}
				output.Info("Result written to %s", outPath)
			}

			if output.IsJSON() {
				return output.JSON(result)
			}

			output.Println(backtest.Report(result))
			return nil
		},
	}

	cmd.Flags().StringVarP(&timeframe, "timeframe", "t", "1h", "candle timeframe")
	cmd.Flags().IntVarP(&limit, "limit", "l", 1000, "number of candles to fetch")
	cmd.Flags().StringVar(&csvPath, "csv", "", "load candles from a CSV file instead of the exchange")
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "write the full result as JSON to a file")
	cmd.Flags().BoolVar(&save, "save", false, "save the result to the local store")

	return cmd
}

func writeResultJSON(path string, result *backtest.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer f.Close()

	if err := backtest.WriteJSON(f, result); err != nil {
		return fmt.Errorf("writing result: %w", err)
	}
	return nil
}
