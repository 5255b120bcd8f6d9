// Package config provides configuration management for the signal bot.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Trading       TradingConfig       `mapstructure:"trading"`
	Indicators    IndicatorsConfig    `mapstructure:"indicators"`
	Signals       SignalsConfig       `mapstructure:"signals"`
	Sentiment     SentimentConfig     `mapstructure:"sentiment"`
	Risk          RiskConfig          `mapstructure:"risk_management"`
	Backtest      BacktestConfig      `mapstructure:"backtesting"`
	APIKeys       APIKeysConfig       `mapstructure:"api_keys"`
	Notifications NotificationsConfig `mapstructure:"notifications"`
	Logging       LoggingConfig       `mapstructure:"logging"`
	Store         StoreConfig         `mapstructure:"store"`
}

// TradingConfig holds the symbols and cadence of the analysis loop.
type TradingConfig struct {
	Symbols       []string      `mapstructure:"symbols"`
	Timeframes    []string      `mapstructure:"timeframes"`
	CheckInterval time.Duration `mapstructure:"check_interval"`
	CandleLimit   int           `mapstructure:"candle_limit"`
}

// IndicatorsConfig holds indicator lookbacks.
type IndicatorsConfig struct {
	EMAFast     int     `mapstructure:"ema_fast"`
	EMASlow     int     `mapstructure:"ema_slow"`
	RSIPeriod   int     `mapstructure:"rsi_period"`
	ATRPeriod   int     `mapstructure:"atr_period"`
	BBPeriod    int     `mapstructure:"bb_period"`
	BBStdDev    float64 `mapstructure:"bb_std"`
	SwingWindow int     `mapstructure:"swing_window"`
}

// SignalsConfig holds signal validation thresholds.
type SignalsConfig struct {
	RSILongThreshold  float64 `mapstructure:"rsi_long_threshold"`
	RSIShortThreshold float64 `mapstructure:"rsi_short_threshold"`
	MinConfidence     float64 `mapstructure:"min_confidence"`
}

// SentimentConfig holds the sentiment alignment gate.
type SentimentConfig struct {
	Threshold float64 `mapstructure:"threshold"`
}

// RiskConfig holds risk management parameters.
type RiskConfig struct {
	AccountBalance   float64   `mapstructure:"account_balance"`
	RiskPerTrade     float64   `mapstructure:"risk_per_trade"`
	ATRMultiplierSL  float64   `mapstructure:"atr_multiplier_sl"`
	TakeProfitRatios []float64 `mapstructure:"take_profit_ratios"`
	BreakevenAfterTP int       `mapstructure:"breakeven_after_tp"`
	TrailingATRMult  float64   `mapstructure:"trailing_atr_multiplier"`
}

// BacktestConfig holds backtest parameters.
type BacktestConfig struct {
	InitialBalance float64 `mapstructure:"initial_balance"`
	CommissionRate float64 `mapstructure:"commission_rate"`
}

// APIKeysConfig holds external API credentials.
type APIKeysConfig struct {
	BinanceKey    string `mapstructure:"binance_key"`
	BinanceSecret string `mapstructure:"binance_secret"`
	FinnhubKey    string `mapstructure:"finnhub_key"`
}

// NotificationsConfig holds notification channel configuration.
type NotificationsConfig struct {
	Telegram TelegramConfig `mapstructure:"telegram"`
	Webhook  WebhookConfig  `mapstructure:"webhook"`
}

// TelegramConfig holds Telegram bot configuration.
type TelegramConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	BotToken string `mapstructure:"bot_token"`
	ChatID   string `mapstructure:"chat_id"`
}

// WebhookConfig holds webhook configuration.
type WebhookConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	URL     string `mapstructure:"url"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Console    bool   `mapstructure:"console"`
}

// StoreConfig holds the signal journal configuration.
type StoreConfig struct {
	Path string `mapstructure:"path"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/crypto-signal-bot"
	}
	return filepath.Join(home, ".config", "crypto-signal-bot")
}

// Load reads config.yaml from the given directory (or the default config
// directory, then the working directory), applies environment overrides
// and validates the result. A missing file gets a template written and
// defaults applied.
func Load(configDir string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if configDir != "" {
		v.AddConfigPath(configDir)
	} else {
		v.AddConfigPath(DefaultConfigDir())
		v.AddConfigPath(".")
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			dir := configDir
			if dir == "" {
				dir = DefaultConfigDir()
			}
			if err := writeTemplateConfig(dir); err != nil {
				return nil, fmt.Errorf("writing template config: %w", err)
			}
		} else {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("trading.symbols", []string{"BTCUSDT"})
	v.SetDefault("trading.timeframes", []string{"15m"})
	v.SetDefault("trading.check_interval", "5m")
	v.SetDefault("trading.candle_limit", 500)

	v.SetDefault("indicators.ema_fast", 50)
	v.SetDefault("indicators.ema_slow", 200)
	v.SetDefault("indicators.rsi_period", 14)
	v.SetDefault("indicators.atr_period", 14)
	v.SetDefault("indicators.bb_period", 20)
	v.SetDefault("indicators.bb_std", 2.0)
	v.SetDefault("indicators.swing_window", 5)

	v.SetDefault("signals.rsi_long_threshold", 50.0)
	v.SetDefault("signals.rsi_short_threshold", 50.0)
	v.SetDefault("signals.min_confidence", 0.6)

	v.SetDefault("sentiment.threshold", 0.2)

	v.SetDefault("risk_management.account_balance", 10000.0)
	v.SetDefault("risk_management.risk_per_trade", 2.0)
	v.SetDefault("risk_management.atr_multiplier_sl", 2.0)
	v.SetDefault("risk_management.take_profit_ratios", []float64{1.0, 1.5, 2.5})
	v.SetDefault("risk_management.breakeven_after_tp", 1)
	v.SetDefault("risk_management.trailing_atr_multiplier", 2.5)

	v.SetDefault("backtesting.initial_balance", 10000.0)
	v.SetDefault("backtesting.commission_rate", 0.001)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.file", "logs/signalbot.log")
	v.SetDefault("logging.max_size_mb", 10)
	v.SetDefault("logging.max_backups", 5)
	v.SetDefault("logging.max_age_days", 30)
	v.SetDefault("logging.console", true)

	v.SetDefault("store.path", filepath.Join(DefaultConfigDir(), "signalbot.db"))
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("BINANCE_API_KEY"); v != "" {
		cfg.APIKeys.BinanceKey = v
	}
	if v := os.Getenv("BINANCE_API_SECRET"); v != "" {
		cfg.APIKeys.BinanceSecret = v
	}
	if v := os.Getenv("FINNHUB_API_KEY"); v != "" {
		cfg.APIKeys.FinnhubKey = v
	}
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Notifications.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Notifications.Telegram.ChatID = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}

// Validate checks the configuration and fails fast on the first problem.
func (c *Config) Validate() error {
	if len(c.Trading.Symbols) == 0 {
		return fmt.Errorf("trading.symbols must not be empty")
	}
	if len(c.Trading.Timeframes) == 0 {
		return fmt.Errorf("trading.timeframes must not be empty")
	}
	for _, tf := range c.Trading.Timeframes {
		switch tf {
		case "1m", "5m", "15m", "30m", "1h", "4h", "1d":
		default:
			return fmt.Errorf("unsupported timeframe: %s", tf)
		}
	}
	if c.Trading.CheckInterval <= 0 {
		return fmt.Errorf("trading.check_interval must be positive")
	}
	if c.Trading.CandleLimit < 200 {
		return fmt.Errorf("trading.candle_limit must be at least 200")
	}

	if c.Indicators.EMAFast <= 0 || c.Indicators.EMASlow <= 0 {
		return fmt.Errorf("indicator EMA periods must be positive")
	}
	if c.Indicators.EMAFast >= c.Indicators.EMASlow {
		return fmt.Errorf("indicators.ema_fast must be shorter than ema_slow")
	}
	if c.Indicators.RSIPeriod <= 0 || c.Indicators.ATRPeriod <= 0 || c.Indicators.BBPeriod <= 0 {
		return fmt.Errorf("indicator periods must be positive")
	}
	if c.Indicators.BBStdDev <= 0 {
		return fmt.Errorf("indicators.bb_std must be positive")
	}
	if c.Indicators.SwingWindow <= 0 {
		return fmt.Errorf("indicators.swing_window must be positive")
	}

	if c.Signals.MinConfidence < 0 || c.Signals.MinConfidence > 1 {
		return fmt.Errorf("signals.min_confidence must be between 0 and 1")
	}
	if c.Sentiment.Threshold < 0 || c.Sentiment.Threshold > 1 {
		return fmt.Errorf("sentiment.threshold must be between 0 and 1")
	}

	if c.Risk.AccountBalance <= 0 {
		return fmt.Errorf("risk_management.account_balance must be positive")
	}
	if c.Risk.RiskPerTrade <= 0 || c.Risk.RiskPerTrade > 100 {
		return fmt.Errorf("risk_management.risk_per_trade must be between 0 and 100")
	}
	if c.Risk.ATRMultiplierSL <= 0 {
		return fmt.Errorf("risk_management.atr_multiplier_sl must be positive")
	}
	if len(c.Risk.TakeProfitRatios) == 0 {
		return fmt.Errorf("risk_management.take_profit_ratios must not be empty")
	}
	prev := 0.0
	for _, r := range c.Risk.TakeProfitRatios {
		if r <= prev {
			return fmt.Errorf("risk_management.take_profit_ratios must be positive and increasing")
		}
		prev = r
	}

	if c.Backtest.InitialBalance <= 0 {
		return fmt.Errorf("backtesting.initial_balance must be positive")
	}
	if c.Backtest.CommissionRate < 0 || c.Backtest.CommissionRate >= 1 {
		return fmt.Errorf("backtesting.commission_rate must be in [0, 1)")
	}

	if c.Notifications.Telegram.Enabled {
		if c.Notifications.Telegram.BotToken == "" || c.Notifications.Telegram.ChatID == "" {
			return fmt.Errorf("telegram notifications enabled but bot_token or chat_id missing")
		}
	}
	if c.Notifications.Webhook.Enabled && c.Notifications.Webhook.URL == "" {
		return fmt.Errorf("webhook notifications enabled but url missing")
	}

	return nil
}
