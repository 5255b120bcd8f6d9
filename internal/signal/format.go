package signal

import (
	"encoding/json"
	"fmt"
	"strings"

	"crypto-signal-bot/internal/models"
	"crypto-signal-bot/pkg/utils"
)

// FormatJSON renders a signal as indented JSON.
func FormatJSON(sig *models.Signal) (string, error) {
	data, err := json.MarshalIndent(sig, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling signal: %w", err)
	}
	return string(data), nil
}

// FormatTelegram renders a signal as a Telegram HTML message.
func FormatTelegram(sig *models.Signal) string {
	directionEmoji := "🟢"
	if sig.Direction == models.DirectionShort {
		directionEmoji = "🔴"
	}

	var b strings.Builder

	fmt.Fprintf(&b, "%s <b>%s · %s · %s</b>\n\n", directionEmoji, sig.Symbol, sig.Direction, sig.Timeframe)
	fmt.Fprintf(&b, "📊 <b>Entry:</b> <code>%s</code>\n", utils.FormatPrice(sig.EntryPrice, 4))
	fmt.Fprintf(&b, "🛑 <b>Stop Loss:</b> <code>%s</code>\n", utils.FormatPrice(sig.StopLoss, 4))
	b.WriteString("🎯 <b>Take Profits:</b>\n")
	for i, tp := range sig.TakeProfits {
		fmt.Fprintf(&b, "   TP%d: <code>%s</code>\n", i+1, utils.FormatPrice(tp, 4))
	}
	b.WriteString("\n")

	b.WriteString("⚙️ <b>Risk Management:</b>\n")
	fmt.Fprintf(&b, "• Position Size: <code>%s</code>\n", utils.FormatPrice(sig.PositionSize, 2))
	fmt.Fprintf(&b, "• Risk Amount: <code>%s</code> (%g%%)\n", utils.FormatUSD(sig.RiskAmount), sig.RiskPercent)
	fmt.Fprintf(&b, "• BE after: TP%d\n", sig.BreakevenAfterTP)
	fmt.Fprintf(&b, "• Trail: ATR × %g\n\n", sig.TrailingStop.ATRMultiplier)

	fmt.Fprintf(&b, "📈 <b>Confidence:</b> %.0f%% %s\n", sig.Confidence*100, utils.ConfidenceBar(sig.Confidence))
	fmt.Fprintf(&b, "💭 <b>Sentiment:</b> %s\n\n", utils.FormatSentiment(sig.SentimentScore))

	b.WriteString("<b>Analysis:</b>\n")
	reasons := sig.Reasons
	if len(reasons) > 4 {
		reasons = reasons[:4]
	}
	b.WriteString(strings.Join(reasons, " • "))
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "<i>Generated at %s</i>", sig.Timestamp.UTC().Format("15:04:05 UTC"))

	return b.String()
}
