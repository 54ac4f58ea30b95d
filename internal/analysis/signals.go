package analysis

import (
	"fmt"
	"math"

	"CoinDeck/internal/domain/models"
	"CoinDeck/pkg/util"
)

const (
	maxTechnicalScore = 4.0
	confidenceCap     = 0.95
	confidenceFloor   = 0.05
	sentimentWeight   = 0.2
)

// smallCaps are volatile low-priced coins that signal on a lower vote
// threshold.
var smallCaps = map[string]struct{}{
	"SHIB":  {},
	"MATIC": {},
	"PEPE":  {},
	"DOGE":  {},
}

// GenerateSignal inspects the last bar of a candle series and produces
// a BUY/SELL signal when indicator votes agree, blended with the news
// sentiment for the coin. Returns nil when no side wins.
func GenerateSignal(candles []models.Candle, sentiment float64) *models.TradingSignal {
	if len(candles) < 2 {
		return nil
	}

	features := Compute(candles)
	i := len(features) - 1
	cur, prev := features[i], features[i-1]
	last := candles[i]

	var buyVotes, sellVotes float64
	var reasons []string

	if cur.RSI < 30 {
		buyVotes++
		reasons = append(reasons, fmt.Sprintf("RSI oversold (%.1f)", cur.RSI))
	} else if cur.RSI > 70 {
		sellVotes++
		reasons = append(reasons, fmt.Sprintf("RSI overbought (%.1f)", cur.RSI))
	}

	if cur.MACDHist > 0 && prev.MACDHist <= 0 {
		buyVotes++
		reasons = append(reasons, "MACD bullish crossover")
	} else if cur.MACDHist < 0 && prev.MACDHist >= 0 {
		sellVotes++
		reasons = append(reasons, "MACD bearish crossover")
	}

	if cur.Close > cur.SMA20 {
		buyVotes++
		reasons = append(reasons, "price above SMA20")
	} else if cur.Close < cur.SMA20 {
		sellVotes++
		reasons = append(reasons, "price below SMA20")
	}

	if prev.Close <= prev.BBLower && cur.Close > cur.BBLower {
		buyVotes++
		reasons = append(reasons, "bounce off lower Bollinger band")
	} else if cur.Close > cur.BBUpper {
		sellVotes++
		reasons = append(reasons, "price above upper Bollinger band")
	}

	if cur.StochK > cur.StochD && prev.StochK <= prev.StochD && prev.StochK < 20 {
		buyVotes++
		reasons = append(reasons, "stochastic bullish cross from oversold")
	} else if cur.StochK < cur.StochD && prev.StochK >= prev.StochD && prev.StochK > 80 {
		sellVotes++
		reasons = append(reasons, "stochastic bearish cross from overbought")
	}

	if avg := volumeMean(candles, 20); avg > 0 && last.Volume > 1.5*avg {
		if buyVotes >= sellVotes {
			buyVotes++
			reasons = append(reasons, "volume spike confirms")
		} else {
			sellVotes++
			reasons = append(reasons, "volume spike confirms")
		}
	}

	threshold := 2.0
	if _, ok := smallCaps[util.BaseAsset(last.Symbol)]; ok {
		threshold = 1.0
	}

	var direction string
	var score float64
	switch {
	case buyVotes > sellVotes && buyVotes >= threshold:
		direction = models.SignalBuy
		score = buyVotes
	case sellVotes > buyVotes && sellVotes >= threshold:
		direction = models.SignalSell
		score = sellVotes
	default:
		return nil
	}
	if score > maxTechnicalScore {
		score = maxTechnicalScore
	}

	confidence := score / maxTechnicalScore
	confidence = blendSentiment(confidence, direction, sentiment)
	reasons = append(reasons, fmt.Sprintf("Sentiment: %.2f", sentiment))

	takeProfit, stopLoss := exitLevels(direction, last.Close, cur.ATR)

	return &models.TradingSignal{
		ID:             fmt.Sprintf("%s-%d", util.BaseAsset(last.Symbol), last.Timestamp.Unix()),
		Symbol:         last.Symbol,
		Timestamp:      last.Timestamp,
		Signal:         direction,
		Price:          last.Close,
		TechnicalScore: score,
		SentimentScore: sentiment,
		Confidence:     confidence,
		Indicators:     reasons,
		TakeProfit:     takeProfit,
		StopLoss:       stopLoss,
		Status:         "active",
	}
}

// blendSentiment adjusts confidence by news agreement: sentiment in the
// signal's direction boosts it, opposing sentiment cuts it.
func blendSentiment(confidence float64, direction string, sentiment float64) float64 {
	if sentiment == 0 {
		return confidence
	}
	agrees := (direction == models.SignalBuy && sentiment > 0) ||
		(direction == models.SignalSell && sentiment < 0)
	adj := math.Abs(sentiment) * sentimentWeight
	if agrees {
		confidence += adj
	} else {
		confidence -= adj
	}
	if confidence > confidenceCap {
		confidence = confidenceCap
	}
	if confidence < confidenceFloor {
		confidence = confidenceFloor
	}
	return confidence
}

func exitLevels(direction string, price, atr float64) (takeProfit, stopLoss float64) {
	if atr <= 0 {
		atr = price * 0.02
	}
	if direction == models.SignalBuy {
		return price + 2*atr, price - 1.5*atr
	}
	return price - 2*atr, price + 1.5*atr
}

func volumeMean(candles []models.Candle, window int) float64 {
	start := len(candles) - window
	if start < 0 {
		start = 0
	}
	slice := candles[start:]
	if len(slice) == 0 {
		return 0
	}
	var sum float64
	for _, c := range slice {
		sum += c.Volume
	}
	return sum / float64(len(slice))
}
