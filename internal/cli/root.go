package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"crypto-signal-bot/internal/analysis/risk"
	"crypto-signal-bot/internal/analysis/strategy"
	"crypto-signal-bot/internal/config"
	"crypto-signal-bot/internal/logging"
	"crypto-signal-bot/internal/market"
	"crypto-signal-bot/internal/sentiment"
	"crypto-signal-bot/internal/signal"
	"crypto-signal-bot/internal/store"
)

// Version information
const (
	Version   = "0.1.0"
	BuildDate = "2024-01-01"
)

// App holds the application dependencies.
type App struct {
	Config    *config.Config
	Logger    zerolog.Logger
	Collector *market.Collector
	Store     store.DataStore
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config:    cfg,
		Logger:    logger,
		Collector: market.NewCollector(logger),
	}

	if dataStore, err := store.NewSQLiteStore(cfg.Store.Path); err != nil {
		logger.Warn().Err(err).Msg("Failed to initialize store, journaling disabled")
	} else {
		app.Store = dataStore
		logger.Debug().Msg("SQLite store initialized")
	}

	rootCmd := &cobra.Command{
		Use:   "signalbot",
		Short: "Crypto Signal Bot - trading signal generation CLI",
		Long: `Crypto Signal Bot analyzes cryptocurrency market data and generates
trading signals from trend, momentum and volatility indicators combined
with news sentiment.

Signals include entry, stop loss, take profit levels and position sizing.
Use 'signalbot run' to start the monitoring loop, 'signalbot analyze' for
a one-shot analysis, or 'signalbot backtest' to evaluate the strategy on
historical data.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/crypto-signal-bot)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
	rootCmd.AddCommand(newRunCmd(app))
	rootCmd.AddCommand(newAnalyzeCmd(app))
	rootCmd.AddCommand(newBacktestCmd(app))
	rootCmd.AddCommand(newDataCmd(app))
	rootCmd.AddCommand(newSignalsCmd(app))

	return rootCmd
}

// newGenerator builds the signal pipeline from configuration.
func (app *App) newGenerator() *signal.Generator {
	detector := strategy.NewDetector(app.Config.StrategyConfig(), app.Logger)
	riskEngine := risk.NewEngine(app.Config.RiskEngineConfig())
	return signal.NewGenerator(app.Config.SignalConfig(), detector, riskEngine, app.Logger)
}

// newAnalyzer builds the sentiment analyzer, without a news source when no
// API key is configured.
func (app *App) newAnalyzer() *sentiment.Analyzer {
	var news *sentiment.FinnhubClient
	if app.Config.APIKeys.FinnhubKey != "" {
		news = sentiment.NewFinnhubClient(app.Config.APIKeys.FinnhubKey, app.Logger)
	}
	return sentiment.NewAnalyzer(news, app.Logger)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{
					"version":    Version,
					"build_date": BuildDate,
				})
			} else {
				output.Printf("Crypto Signal Bot v%s\n", Version)
				output.Dim("Build date: %s", BuildDate)
			}
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and manage application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			return showConfig(output, app.Config)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"path": config.DefaultConfigDir()})
			} else {
				output.Println(config.DefaultConfigDir())
			}
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Config.Validate(); err != nil {
				output.Error("Configuration validation failed: %v", err)
				return err
			}
			if output.IsJSON() {
				output.JSON(map[string]bool{"valid": true})
			} else {
				output.Success("✓ Configuration is valid")
			}
			return nil
		},
	})

	return cmd
}

func showConfig(output *Output, cfg *config.Config) error {
	output.Bold("Trading Configuration")
	output.Printf("  Symbols:         %v\n", cfg.Trading.Symbols)
	output.Printf("  Timeframes:      %v\n", cfg.Trading.Timeframes)
	output.Printf("  Check Interval:  %s\n", cfg.Trading.CheckInterval)
	output.Printf("  Candle Limit:    %d\n", cfg.Trading.CandleLimit)
	output.Println()

	output.Bold("Indicators")
	output.Printf("  EMA:             %d / %d\n", cfg.Indicators.EMAFast, cfg.Indicators.EMASlow)
	output.Printf("  RSI Period:      %d\n", cfg.Indicators.RSIPeriod)
	output.Printf("  ATR Period:      %d\n", cfg.Indicators.ATRPeriod)
	output.Printf("  Bollinger:       %d, %.1f std\n", cfg.Indicators.BBPeriod, cfg.Indicators.BBStdDev)
	output.Println()

	output.Bold("Signals")
	output.Printf("  Min Confidence:  %.2f\n", cfg.Signals.MinConfidence)
	output.Printf("  Sentiment Gate:  %.2f\n", cfg.Sentiment.Threshold)
	output.Println()

	output.Bold("Risk Management")
	output.Printf("  Balance:         %.2f\n", cfg.Risk.AccountBalance)
	output.Printf("  Risk per Trade:  %.1f%%\n", cfg.Risk.RiskPerTrade)
	output.Printf("  ATR Stop Mult:   %.1f\n", cfg.Risk.ATRMultiplierSL)
	output.Printf("  TP Ratios:       %v\n", cfg.Risk.TakeProfitRatios)
	output.Println()

	output.Bold("Notifications")
	output.Printf("  Telegram:        %v\n", cfg.Notifications.Telegram.Enabled)
	output.Printf("  Webhook:         %v\n", cfg.Notifications.Webhook.Enabled)

	return nil
}
