// Package utils provides shared utility functions.
package utils

import (
	"fmt"
	"strings"
)

// FormatPrice formats a price with thousands separators and the given
// number of decimal places.
func FormatPrice(value float64, decimals int) string {
	negative := value < 0
	if negative {
		value = -value
	}

	str := fmt.Sprintf("%.*f", decimals, value)
	intPart := str
	decPart := ""
	if idx := strings.Index(str, "."); idx >= 0 {
		intPart = str[:idx]
		decPart = str[idx+1:]
	}

	formatted := groupThousands(intPart)
	if decPart != "" {
		formatted += "." + decPart
	}
	if negative {
		formatted = "-" + formatted
	}
	return formatted
}

// groupThousands inserts commas every three digits from the right.
func groupThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	var b strings.Builder
	lead := n % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// FormatUSD formats a dollar amount with two decimal places.
func FormatUSD(amount float64) string {
	if amount < 0 {
		return "-$" + FormatPrice(-amount, 2)
	}
	return "$" + FormatPrice(amount, 2)
}

// FormatPercent formats a percentage with sign.
func FormatPercent(value float64) string {
	sign := ""
	if value > 0 {
		sign = "+"
	}
	return fmt.Sprintf("%s%.2f%%", sign, value)
}

// FormatPnL formats P&L with an explicit sign.
func FormatPnL(pnl float64) string {
	formatted := FormatUSD(pnl)
	if pnl > 0 {
		return "+" + formatted
	}
	return formatted
}

// FormatSentiment formats a sentiment score with sign.
func FormatSentiment(score float64) string {
	return fmt.Sprintf("%+.2f", score)
}

// ConfidenceBar renders a confidence in [0,1] as a ten-segment bar.
func ConfidenceBar(confidence float64) string {
	filled := int(confidence * 10)
	if filled < 0 {
		filled = 0
	}
	if filled > 10 {
		filled = 10
	}
	return strings.Repeat("█", filled)
}
