package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"crypto-signal-bot/internal/analysis/indicators"
	"crypto-signal-bot/internal/analysis/strategy"
	"crypto-signal-bot/internal/market"
	"crypto-signal-bot/internal/models"
	"crypto-signal-bot/internal/signal"
)

func newAnalyzeCmd(app *App) *cobra.Command {
	var (
		timeframe string
		limit     int
		csvPath   string
	)

	cmd := &cobra.Command{
		Use:   "analyze [symbol]",
		Short: "Run a one-shot analysis for a symbol",
		Long: `Analyze fetches candles for a symbol, computes the indicator set and
prints the current market state together with any signal the strategy
would generate right now.`,
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

			frame, err := indicators.Compute(candles, app.Config.IndicatorParams())
			if err != nil {
				return fmt.Errorf("computing indicators: %w", err)
			}

			sentimentScore := app.newAnalyzer().GetSentiment(cmd.Context(), symbol)

			generator := app.newGenerator()
			sig := generator.Generate(frame, sentimentScore, symbol, timeframe)

			if output.IsJSON() {
				if sig == nil {
					return output.JSON(map[string]interface{}{
						"symbol":    symbol,
						"timeframe": timeframe,
						"signal":    nil,
					})
				}
				formatted, err := signal.FormatJSON(sig)
				if err != nil {
					return err
				}
				output.Println(formatted)
				return nil
			}

			printAnalysis(output, symbol, timeframe, frame, sentimentScore)

			if sig == nil {
				output.Println()
				output.Warning("No valid signal at current conditions")
				return nil
			}

			output.Println()
			output.Success("Signal: %s %s @ %.4f (confidence %.0f%%)", sig.Direction, sig.Symbol, sig.EntryPrice, sig.Confidence*100)
			output.Printf("  Stop Loss:    %.4f\n", sig.StopLoss)
			for i, tp := range sig.TakeProfits {
				output.Printf("  Take Profit %d: %.4f\n", i+1, tp)
			}
			output.Printf("  Position Size: %.6f\n", sig.PositionSize)
			output.Printf("  Risk Amount:   %.2f\n", sig.RiskAmount)
			return nil
		},
	}

	cmd.Flags().StringVarP(&timeframe, "timeframe", "t", "1h", "candle timeframe")
	cmd.Flags().IntVarP(&limit, "limit", "l", 500, "number of candles to fetch")
	cmd.Flags().StringVar(&csvPath, "csv", "", "load candles from a CSV file instead of the exchange")

	return cmd
}

// loadCandles reads history from a CSV file when given, otherwise from the
// market data sources.
func loadCandles(cmd *cobra.Command, app *App, symbol, timeframe string, limit int, csvPath string) ([]models.Candle, error) {
	if csvPath != "" {
		return market.LoadCandlesCSV(csvPath)
	}
	return app.Collector.GetCandles(cmd.Context(), symbol, timeframe, limit)
}

func printAnalysis(output *Output, symbol, timeframe string, frame *indicators.Frame, sentimentScore float64) {
	last := frame.Len() - 1

	output.Bold("%s %s Analysis", symbol, timeframe)
	output.Printf("  Close:       %.4f\n", frame.LastClose())
	output.Println()

	table := NewTable(output, "Indicator", "Value")
	table.AddRow("EMA Fast", formatIndicator(frame.EMAFast[last]))
	table.AddRow("EMA Slow", formatIndicator(frame.EMASlow[last]))
	table.AddRow("RSI", formatIndicator(frame.RSI[last]))
	table.AddRow("ATR", formatIndicator(frame.ATR[last]))
	table.AddRow("BB Upper", formatIndicator(frame.BBUpper[last]))
	table.AddRow("BB Lower", formatIndicator(frame.BBLower[last]))
	table.AddRow("BB Width", formatIndicator(frame.BBWidth[last]))
	table.Render()

	levels := strategy.SupportResistance(frame)
	output.Println()
	output.Bold("Levels")
	output.Printf("  Support:     %s\n", formatIndicator(levels.Support))
	output.Printf("  Resistance:  %s\n", formatIndicator(levels.Resistance))
	output.Println()
	output.Printf("  Sentiment:   %.2f (%s)\n", sentimentScore, signal.SentimentDescription(sentimentScore))
}

func formatIndicator(v float64) string {
	if !indicators.Defined(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.4f", v)
}
