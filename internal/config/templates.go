package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# Crypto Signal Bot Configuration

trading:
  # Symbols to monitor (Binance spot pairs)
  symbols:
    - BTCUSDT
  # Candle timeframes: 1m, 5m, 15m, 30m, 1h, 4h, 1d
  timeframes:
    - 15m
  # How often to run an analysis cycle
  check_interval: 5m
  # Candles fetched per analysis (minimum 200 for the slow EMA)
  candle_limit: 500

indicators:
  ema_fast: 50
  ema_slow: 200
  rsi_period: 14
  atr_period: 14
  bb_period: 20
  bb_std: 2.0
  swing_window: 5

signals:
  rsi_long_threshold: 50.0
  rsi_short_threshold: 50.0
  # Signals below this confidence are discarded
  min_confidence: 0.6

sentiment:
  # Minimum sentiment magnitude required to confirm a direction
  threshold: 0.2

risk_management:
  account_balance: 10000.0
  # Percentage of balance risked per trade
  risk_per_trade: 2.0
  atr_multiplier_sl: 2.0
  take_profit_ratios: [1.0, 1.5, 2.5]
  # Move stop to breakeven after this TP level fills
  breakeven_after_tp: 1
  trailing_atr_multiplier: 2.5

backtesting:
  initial_balance: 10000.0
  # Commission charged on each side of a trade
  commission_rate: 0.001

api_keys:
  # Prefer environment variables: BINANCE_API_KEY, FINNHUB_API_KEY
  binance_key: ""
  binance_secret: ""
  finnhub_key: ""

notifications:
  telegram:
    enabled: false
    # Prefer environment variables: TELEGRAM_BOT_TOKEN, TELEGRAM_CHAT_ID
    bot_token: ""
    chat_id: ""
  webhook:
    enabled: false
    url: ""

logging:
  level: info
  file: logs/signalbot.log
  max_size_mb: 10
  max_backups: 5
  max_age_days: 30
  console: true
`

func writeTemplateConfig(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, "config.yaml")
	if err := os.WriteFile(path, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config template: %w", err)
	}

	return nil
}
