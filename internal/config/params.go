package config

import (
	"crypto-signal-bot/internal/analysis/indicators"
	"crypto-signal-bot/internal/analysis/risk"
	"crypto-signal-bot/internal/analysis/strategy"
	"crypto-signal-bot/internal/backtest"
	"crypto-signal-bot/internal/signal"
)

// IndicatorParams maps the indicator section to computation parameters.
// The volume SMA window is fixed; everything else is configurable.
func (c *Config) IndicatorParams() indicators.Params {
	params := indicators.DefaultParams()
	params.EMAFast = c.Indicators.EMAFast
	params.EMASlow = c.Indicators.EMASlow
	params.RSIPeriod = c.Indicators.RSIPeriod
	params.ATRPeriod = c.Indicators.ATRPeriod
	params.BBPeriod = c.Indicators.BBPeriod
	params.BBStdDev = c.Indicators.BBStdDev
	params.SwingWindow = c.Indicators.SwingWindow
	return params
}

// StrategyConfig maps the signals section to detector settings.
func (c *Config) StrategyConfig() strategy.Config {
	cfg := strategy.DefaultConfig()
	cfg.RSILongThreshold = c.Signals.RSILongThreshold
	cfg.RSIShortThreshold = c.Signals.RSIShortThreshold
	return cfg
}

// RiskEngineConfig maps the risk management section to risk engine settings.
func (c *Config) RiskEngineConfig() risk.Config {
	cfg := risk.DefaultConfig()
	cfg.AccountBalance = c.Risk.AccountBalance
	cfg.RiskPercent = c.Risk.RiskPerTrade
	cfg.ATRMultiplierSL = c.Risk.ATRMultiplierSL
	cfg.TakeProfitRatios = c.Risk.TakeProfitRatios
	cfg.BreakevenAfterTP = c.Risk.BreakevenAfterTP
	cfg.TrailingATRMult = c.Risk.TrailingATRMult
	return cfg
}

// SignalConfig maps the signals and sentiment sections to generator settings.
func (c *Config) SignalConfig() signal.Config {
	return signal.Config{
		MinConfidence:      c.Signals.MinConfidence,
		SentimentThreshold: c.Sentiment.Threshold,
	}
}

// BacktestEngineConfig maps the backtesting section to engine settings.
func (c *Config) BacktestEngineConfig() backtest.Config {
	return backtest.Config{
		InitialBalance: c.Backtest.InitialBalance,
		CommissionRate: c.Backtest.CommissionRate,
	}
}
