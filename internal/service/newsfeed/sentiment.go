package newsfeed

import (
	"strings"

	"CoinDeck/internal/domain/models"
)

var positiveKeywords = []string{
	"bullish", "surge", "surges", "rally", "rallies", "soar", "soars",
	"gain", "gains", "adoption", "partnership", "breakthrough", "upgrade",
	"record high", "all-time high", "approval", "approved", "institutional",
	"etf", "growth", "milestone", "launch", "integration",
}

var negativeKeywords = []string{
	"bearish", "crash", "crashes", "plunge", "plunges", "drop", "drops",
	"fall", "falls", "hack", "hacked", "scam", "fraud", "lawsuit", "ban",
	"banned", "sell-off", "selloff", "dump", "liquidation", "liquidations",
	"fear", "decline", "exploit", "outage", "delay", "investigation",
}

// ScoreSentiment scores a headline in [-1, 1] by keyword matching.
// No matched keyword yields a neutral 0.
func ScoreSentiment(text string) float64 {
	lower := strings.ToLower(text)

	var pos, neg int
	for _, kw := range positiveKeywords {
		if strings.Contains(lower, kw) {
			pos++
		}
	}
	for _, kw := range negativeKeywords {
		if strings.Contains(lower, kw) {
			neg++
		}
	}

	total := pos + neg
	if total == 0 {
		return 0
	}
	score := float64(pos-neg) / float64(total)
	if score > 1 {
		score = 1
	}
	if score < -1 {
		score = -1
	}
	return score
}

// SentimentLabel maps a score to its display label.
func SentimentLabel(score float64) string {
	switch {
	case score >= 0.6:
		return models.SentimentPositive
	case score >= 0.2:
		return models.SentimentSlightlyPositive
	case score > -0.2:
		return models.SentimentNeutral
	case score > -0.6:
		return models.SentimentSlightlyNegative
	default:
		return models.SentimentNegative
	}
}

var coinNames = map[string]string{
	"bitcoin":   "BTC",
	"btc":       "BTC",
	"ethereum":  "ETH",
	"eth":       "ETH",
	"solana":    "SOL",
	"sol":       "SOL",
	"ripple":    "XRP",
	"xrp":       "XRP",
	"cardano":   "ADA",
	"ada":       "ADA",
	"dogecoin":  "DOGE",
	"doge":      "DOGE",
	"shiba":     "SHIB",
	"shib":      "SHIB",
	"pepe":      "PEPE",
	"polygon":   "MATIC",
	"matic":     "MATIC",
	"chainlink": "LINK",
	"polkadot":  "DOT",
	"avalanche": "AVAX",
	"litecoin":  "LTC",
}

// RelatedCoins extracts coin tickers mentioned in a headline.
func RelatedCoins(text string) []string {
	lower := strings.ToLower(text)
	seen := make(map[string]struct{})
	var coins []string
	for name, ticker := range coinNames {
		if !strings.Contains(lower, name) {
			continue
		}
		if _, ok := seen[ticker]; ok {
			continue
		}
		seen[ticker] = struct{}{}
		coins = append(coins, ticker)
	}
	return coins
}
