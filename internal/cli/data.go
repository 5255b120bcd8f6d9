package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"crypto-signal-bot/internal/market"
	"crypto-signal-bot/pkg/utils"
)

func newDataCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "data",
		Short: "Market data utilities",
		Long:  "Fetch and export historical market data.",
	}

	cmd.AddCommand(newDataFetchCmd(app))
	cmd.AddCommand(newDataPriceCmd(app))

	return cmd
}

func newDataFetchCmd(app *App) *cobra.Command {
	var (
		timeframe string
		limit     int
		outPath   string
	)

	cmd := &cobra.Command{
		Use:   "fetch [symbol]",
		Short: "Download candles to a CSV file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			symbol := app.Config.Trading.Symbols[0]
			if len(args) > 0 {
				symbol = args[0]
			}
			if outPath == "" {
				outPath = fmt.Sprintf("%s_%s.csv", symbol, timeframe)
			}

			candles, err := app.Collector.GetCandles(cmd.Context(), symbol, timeframe, limit)
			if err != nil {
				return fmt.Errorf("fetching candles: %w", err)
			}

			if app.Store != nil {
				if err := app.Store.SaveCandles(cmd.Context(), symbol, timeframe, candles); err != nil {
					output.Warning("Caching candles failed: %v", err)
				}
			}

			if err := market.SaveCandlesCSV(outPath, candles); err != nil {
				return fmt.Errorf("writing CSV: %w", err)
			}

			output.Success("Wrote %d candles to %s", len(candles), outPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&timeframe, "timeframe", "t", "1h", "candle timeframe")
	cmd.Flags().IntVarP(&limit, "limit", "l", 1000, "number of candles to fetch")
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "output CSV path (default <symbol>_<timeframe>.csv)")

	return cmd
}

func newDataPriceCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "price [symbol]",
		Short: "Show the current price and 24h statistics",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			symbol := app.Config.Trading.Symbols[0]
			if len(args) > 0 {
				symbol = args[0]
			}

			ticker, err := app.Collector.GetTicker24h(cmd.Context(), symbol)
			if err != nil {
				return fmt.Errorf("fetching ticker: %w", err)
			}

			if output.IsJSON() {
				return output.JSON(ticker)
			}

			output.Bold("%s", ticker.Symbol)
			output.Printf("  Price:      %s\n", utils.FormatUSD(ticker.LastPrice))
			output.Printf("  24h Change: %s\n", output.FormatPercent(ticker.ChangePercent))
			output.Printf("  24h High:   %s\n", utils.FormatUSD(ticker.High24h))
			output.Printf("  24h Low:    %s\n", utils.FormatUSD(ticker.Low24h))
			output.Printf("  24h Volume: %.2f\n", ticker.Volume24h)
			return nil
		},
	}

	return cmd
}
