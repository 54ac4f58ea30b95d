package pricefeed

import (
	"time"

	"CoinDeck/internal/domain/models"
)

// SampleOverview is the static market snapshot shown when the upstream
// feed is unavailable. The dashboard always renders something.
func SampleOverview() []models.PriceQuote {
	now := time.Now().UTC()
	return []models.PriceQuote{
		{Symbol: "BTC/USDT", Price: 68245.32, Change24h: 2.5, LastUpdated: now},
		{Symbol: "ETH/USDT", Price: 3421.15, Change24h: 1.8, LastUpdated: now},
		{Symbol: "SOL/USDT", Price: 142.87, Change24h: -0.7, LastUpdated: now},
		{Symbol: "XRP/USDT", Price: 0.5423, Change24h: -1.2, LastUpdated: now},
		{Symbol: "ADA/USDT", Price: 0.45, Change24h: 0.5, LastUpdated: now},
		{Symbol: "DOGE/USDT", Price: 0.15, Change24h: 3.2, LastUpdated: now},
		{Symbol: "SHIB/USDT", Price: 0.00002341, Change24h: -1.2, LastUpdated: now},
		{Symbol: "PEPE/USDT", Price: 0.00000098, Change24h: 4.5, LastUpdated: now},
		{Symbol: "MATIC/USDT", Price: 0.5723, Change24h: 0.8, LastUpdated: now},
	}
}

// SampleOverviewFor filters the sample snapshot down to the requested
// symbols, keeping sample order. Unknown symbols are skipped.
func SampleOverviewFor(symbols []string) []models.PriceQuote {
	if len(symbols) == 0 {
		return SampleOverview()
	}
	want := make(map[string]struct{}, len(symbols))
	for _, s := range symbols {
		want[s] = struct{}{}
	}
	out := make([]models.PriceQuote, 0, len(symbols))
	for _, q := range SampleOverview() {
		if _, ok := want[q.Symbol]; ok {
			out = append(out, q)
		}
	}
	if len(out) == 0 {
		return SampleOverview()
	}
	return out
}
