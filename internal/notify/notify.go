// Package notify delivers bot notifications through Telegram and webhook
// channels.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"crypto-signal-bot/internal/config"
	"crypto-signal-bot/internal/models"
	"crypto-signal-bot/internal/signal"
	"crypto-signal-bot/pkg/utils"
)

// Notifier defines the outbound notification surface of the bot.
type Notifier interface {
	SendSignal(ctx context.Context, sig *models.Signal) error
	SendStartup(ctx context.Context, symbols []string, timeframes []string, riskPercent float64) error
	SendError(ctx context.Context, errMsg string) error
	SendStatus(ctx context.Context, status StatusUpdate) error
}

// Channel is a single delivery mechanism.
type Channel interface {
	Name() string
	Send(ctx context.Context, text string) error
	IsEnabled() bool
}

// StatusUpdate carries the fields of a periodic status message.
type StatusUpdate struct {
	Uptime         time.Duration
	SignalsToday   int
	LastSignalTime *time.Time
	CurrentPrice   float64
	Change24hPct   float64
}

// MultiNotifier fans messages out to every enabled channel.
type MultiNotifier struct {
	channels []Channel
}

// NewMultiNotifier builds a notifier from the notification config.
func NewMultiNotifier(cfg config.NotificationsConfig) *MultiNotifier {
	mn := &MultiNotifier{}
	if cfg.Telegram.Enabled {
		mn.channels = append(mn.channels, NewTelegramChannel(cfg.Telegram))
	}
	if cfg.Webhook.Enabled {
		mn.channels = append(mn.channels, NewWebhookChannel(cfg.Webhook))
	}
	return mn
}

// AddChannel adds a delivery channel.
func (mn *MultiNotifier) AddChannel(ch Channel) {
	mn.channels = append(mn.channels, ch)
}

func (mn *MultiNotifier) send(ctx context.Context, text string) error {
	var errs []string
	for _, ch := range mn.channels {
		if !ch.IsEnabled() {
			continue
		}
		if err := ch.Send(ctx, text); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", ch.Name(), err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("notification errors: %s", strings.Join(errs, "; "))
	}
	return nil
}

// SendSignal delivers a formatted trade signal.
func (mn *MultiNotifier) SendSignal(ctx context.Context, sig *models.Signal) error {
	return mn.send(ctx, signal.FormatTelegram(sig))
}

// SendStartup announces the bot configuration at startup.
func (mn *MultiNotifier) SendStartup(ctx context.Context, symbols []string, timeframes []string, riskPercent float64) error {
	var b strings.Builder
	b.WriteString("🤖 <b>Crypto Signal Bot Started</b>\n\n")
	b.WriteString("📊 <b>Configuration:</b>\n")
	fmt.Fprintf(&b, "• Symbols: %s\n", strings.Join(symbols, ", "))
	fmt.Fprintf(&b, "• Timeframes: %s\n", strings.Join(timeframes, ", "))
	fmt.Fprintf(&b, "• Risk per trade: %g%%\n\n", riskPercent)
	fmt.Fprintf(&b, "⏰ Started at: %s\n\n", time.Now().UTC().Format("2006-01-02 15:04:05 UTC"))
	b.WriteString("<i>Bot is now monitoring the markets for signals...</i>")

	return mn.send(ctx, b.String())
}

// SendError delivers an error alert.
func (mn *MultiNotifier) SendError(ctx context.Context, errMsg string) error {
	var b strings.Builder
	b.WriteString("⚠️ <b>Bot Error Alert</b>\n\n")
	fmt.Fprintf(&b, "<b>Error:</b> %s\n", escapeHTML(errMsg))
	fmt.Fprintf(&b, "<b>Time:</b> %s\n\n", time.Now().UTC().Format("2006-01-02 15:04:05 UTC"))
	b.WriteString("<i>Please check the bot logs for more details.</i>")

	return mn.send(ctx, b.String())
}

// SendStatus delivers a periodic status update.
func (mn *MultiNotifier) SendStatus(ctx context.Context, status StatusUpdate) error {
	lastSignal := "None"
	if status.LastSignalTime != nil {
		lastSignal = status.LastSignalTime.UTC().Format("2006-01-02 15:04:05 UTC")
	}

	var b strings.Builder
	b.WriteString("📊 <b>Bot Status Update</b>\n\n")
	fmt.Fprintf(&b, "<b>Uptime:</b> %s\n", status.Uptime.Round(time.Second))
	fmt.Fprintf(&b, "<b>Signals Today:</b> %d\n", status.SignalsToday)
	fmt.Fprintf(&b, "<b>Last Signal:</b> %s\n\n", lastSignal)
	b.WriteString("<b>Current Market:</b>\n")
	fmt.Fprintf(&b, "• Price: %s\n", utils.FormatUSD(status.CurrentPrice))
	fmt.Fprintf(&b, "• 24h Change: %s\n\n", utils.FormatPercent(status.Change24hPct))
	b.WriteString("<i>Bot is running normally</i>")

	return mn.send(ctx, b.String())
}

// TelegramChannel sends messages through the Telegram bot API.
type TelegramChannel struct {
	botToken string
	chatID   string
	enabled  bool
	client   *http.Client
	retry    utils.RetryConfig
}

// NewTelegramChannel creates a new Telegram channel.
func NewTelegramChannel(cfg config.TelegramConfig) *TelegramChannel {
	return &TelegramChannel{
		botToken: cfg.BotToken,
		chatID:   cfg.ChatID,
		enabled:  cfg.Enabled && cfg.BotToken != "" && cfg.ChatID != "",
		client:   &http.Client{Timeout: 10 * time.Second},
		retry:    utils.DefaultRetryConfig(),
	}
}

// Name returns the channel name.
func (t *TelegramChannel) Name() string {
	return "telegram"
}

// IsEnabled reports whether the channel is configured.
func (t *TelegramChannel) IsEnabled() bool {
	return t.enabled
}

// Send posts an HTML message to the configured chat, retrying transient
// failures with backoff.
func (t *TelegramChannel) Send(ctx context.Context, text string) error {
	if !t.enabled {
		return nil
	}

	url := fmt.Sprintf("https://api.telegram.org/bot%s/sendMessage", t.botToken)

	payload := map[string]interface{}{
		"chat_id":    t.chatID,
		"text":       text,
		"parse_mode": "HTML",
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling telegram payload: %w", err)
	}

	return utils.Retry(ctx, t.retry, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("creating telegram request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := t.client.Do(req)
		if err != nil {
			return fmt.Errorf("sending telegram message: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("telegram API returned status %d", resp.StatusCode)
		}
		return nil
	})
}

// WebhookChannel posts messages as JSON to a configured URL.
type WebhookChannel struct {
	url     string
	enabled bool
	client  *http.Client
}

// NewWebhookChannel creates a new webhook channel.
func NewWebhookChannel(cfg config.WebhookConfig) *WebhookChannel {
	return &WebhookChannel{
		url:     cfg.URL,
		enabled: cfg.Enabled && cfg.URL != "",
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Name returns the channel name.
func (w *WebhookChannel) Name() string {
	return "webhook"
}

// IsEnabled reports whether the channel is configured.
func (w *WebhookChannel) IsEnabled() bool {
	return w.enabled
}

// Send posts the message to the webhook URL.
func (w *WebhookChannel) Send(ctx context.Context, text string) error {
	if !w.enabled {
		return nil
	}

	payload := map[string]interface{}{
		"message":   text,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}

// NoOpNotifier discards all notifications.
type NoOpNotifier struct{}

// NewNoOpNotifier creates a notifier that does nothing.
func NewNoOpNotifier() *NoOpNotifier {
	return &NoOpNotifier{}
}

func (n *NoOpNotifier) SendSignal(ctx context.Context, sig *models.Signal) error {
	return nil
}

func (n *NoOpNotifier) SendStartup(ctx context.Context, symbols []string, timeframes []string, riskPercent float64) error {
	return nil
}

func (n *NoOpNotifier) SendError(ctx context.Context, errMsg string) error {
	return nil
}

func (n *NoOpNotifier) SendStatus(ctx context.Context, status StatusUpdate) error {
	return nil
}

// escapeHTML escapes HTML special characters for Telegram.
func escapeHTML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}
