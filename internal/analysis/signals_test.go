package analysis

import (
	"strings"
	"testing"
	"time"

	"CoinDeck/internal/domain/models"
)

func candleSeries(symbol string, closes []float64, volumes []float64) []models.Candle {
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	candles := make([]models.Candle, len(closes))
	for i, c := range closes {
		vol := 1000.0
		if volumes != nil {
			vol = volumes[i]
		}
		candles[i] = models.Candle{
			Symbol:    symbol,
			Timeframe: "1d",
			Timestamp: base.AddDate(0, 0, i),
			Open:      c,
			High:      c + 1,
			Low:       c - 1,
			Close:     c,
			Volume:    vol,
		}
	}
	return candles
}

func TestGenerateSignalNilOnFlatMarket(t *testing.T) {
	candles := flatCandles(60, 100)
	if sig := GenerateSignal(candles, 0); sig != nil {
		t.Fatalf("flat market must produce no signal, got %+v", sig)
	}
}

func TestGenerateSignalNilOnShortSeries(t *testing.T) {
	if sig := GenerateSignal(flatCandles(1, 100), 0); sig != nil {
		t.Fatalf("expected nil for short series")
	}
}

func TestGenerateSignalBuyOnOversoldBounce(t *testing.T) {
	// long decline, then a high-volume bounce: RSI stays oversold and
	// the volume spike confirms the buy side
	closes := make([]float64, 60)
	volumes := make([]float64, 60)
	for i := 0; i < 30; i++ {
		closes[i] = 100
		volumes[i] = 1000
	}
	for i := 30; i < 58; i++ {
		closes[i] = closes[i-1] - 2.5
		volumes[i] = 1000
	}
	closes[58] = closes[57] + 1
	volumes[58] = 1000
	closes[59] = closes[58] + 2
	volumes[59] = 12000

	sig := GenerateSignal(candleSeries("BTC/USDT", closes, volumes), 0)
	if sig == nil {
		t.Fatalf("expected a signal")
	}
	if sig.Signal != models.SignalBuy {
		t.Fatalf("expected BUY, got %s (%v)", sig.Signal, sig.Indicators)
	}
	if sig.TechnicalScore < 2 {
		t.Fatalf("expected at least 2 votes, got %v", sig.TechnicalScore)
	}
	if sig.Confidence <= 0 || sig.Confidence > 1 {
		t.Fatalf("confidence out of range: %v", sig.Confidence)
	}
	if sig.TakeProfit <= sig.Price || sig.StopLoss >= sig.Price {
		t.Fatalf("BUY exits inverted: tp=%v sl=%v price=%v", sig.TakeProfit, sig.StopLoss, sig.Price)
	}
}

func TestGenerateSignalSellOnBlowOff(t *testing.T) {
	// flat base then two parabolic bars: overbought RSI plus a close
	// above the upper band outvote the trend-following buy vote
	closes := make([]float64, 42)
	for i := 0; i < 40; i++ {
		closes[i] = 100
	}
	closes[40] = 115
	closes[41] = 120

	sig := GenerateSignal(candleSeries("ETH/USDT", closes, nil), 0)
	if sig == nil {
		t.Fatalf("expected a signal")
	}
	if sig.Signal != models.SignalSell {
		t.Fatalf("expected SELL, got %s (%v)", sig.Signal, sig.Indicators)
	}
	if sig.TakeProfit >= sig.Price || sig.StopLoss <= sig.Price {
		t.Fatalf("SELL exits inverted: tp=%v sl=%v price=%v", sig.TakeProfit, sig.StopLoss, sig.Price)
	}
}

func TestSignalCarriesSentimentIndicator(t *testing.T) {
	closes := make([]float64, 42)
	for i := 0; i < 40; i++ {
		closes[i] = 100
	}
	closes[40] = 115
	closes[41] = 120

	sig := GenerateSignal(candleSeries("ETH/USDT", closes, nil), -0.5)
	if sig == nil {
		t.Fatalf("expected a signal")
	}
	found := false
	for _, ind := range sig.Indicators {
		if strings.HasPrefix(ind, "Sentiment:") {
			found = true
		}
	}
	if !found {
		t.Fatalf("sentiment missing from indicators %v", sig.Indicators)
	}
	if sig.SentimentScore != -0.5 {
		t.Fatalf("unexpected sentiment %v", sig.SentimentScore)
	}
}

func TestBlendSentimentAgreementBoosts(t *testing.T) {
	base := 0.5
	boosted := blendSentiment(base, models.SignalBuy, 0.5)
	if boosted != base+0.5*sentimentWeight {
		t.Fatalf("unexpected boost %v", boosted)
	}
	cut := blendSentiment(base, models.SignalBuy, -0.5)
	if cut != base-0.5*sentimentWeight {
		t.Fatalf("unexpected cut %v", cut)
	}
}

func TestBlendSentimentCapAndFloor(t *testing.T) {
	if got := blendSentiment(0.9, models.SignalBuy, 1); got != confidenceCap {
		t.Fatalf("expected cap %v, got %v", confidenceCap, got)
	}
	if got := blendSentiment(0.1, models.SignalBuy, -1); got != confidenceFloor {
		t.Fatalf("expected floor %v, got %v", confidenceFloor, got)
	}
	// SELL agrees with negative sentiment
	if got := blendSentiment(0.5, models.SignalSell, -0.5); got <= 0.5 {
		t.Fatalf("negative sentiment must boost SELL, got %v", got)
	}
}

func TestExitLevelsFallBackWithoutATR(t *testing.T) {
	tp, sl := exitLevels(models.SignalBuy, 100, 0)
	if tp <= 100 || sl >= 100 {
		t.Fatalf("unexpected exits tp=%v sl=%v", tp, sl)
	}
}
