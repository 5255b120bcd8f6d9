package sentiment

import "strings"

// positiveKeywords and negativeKeywords drive the rule-based text scorer.
var positiveKeywords = []string{
	"bullish", "bull", "buy", "surge", "pump", "moon", "rally", "breakout",
	"support", "strong", "bullrun", "up", "rise", "gain", "profit",
	"positive", "good", "great", "excellent", "amazing", "fantastic",
	"adoption", "partnership", "upgrade", "institutional", "investment",
}

var negativeKeywords = []string{
	"bearish", "bear", "sell", "dump", "crash", "drop", "fall", "decline",
	"resistance", "weak", "bearmarket", "down", "loss", "negative",
	"bad", "terrible", "awful", "scam", "hack", "regulation",
	"ban", "restriction", "fear", "uncertainty", "doubt",
}

// AnalyzeText scores a text by keyword counting, returning a value in
// [-1, 1]. The count difference is scaled by a tenth of the word count so
// short texts with a single keyword still register.
func AnalyzeText(text string) float64 {
	if text == "" {
		return 0.0
	}

	lower := strings.ToLower(text)

	var positive, negative int
	for _, keyword := range positiveKeywords {
		if strings.Contains(lower, keyword) {
			positive++
		}
	}
	for _, keyword := range negativeKeywords {
		if strings.Contains(lower, keyword) {
			negative++
		}
	}

	totalWords := len(strings.Fields(lower))
	if totalWords == 0 {
		return 0.0
	}

	scale := float64(totalWords) * 0.1
	if scale < 1 {
		scale = 1
	}
	score := float64(positive-negative) / scale

	if score > 1 {
		return 1
	}
	if score < -1 {
		return -1
	}
	return score
}
