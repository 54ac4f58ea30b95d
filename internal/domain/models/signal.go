package models

import "time"

// Signal directions.
const (
	SignalBuy  = "BUY"
	SignalSell = "SELL"
)

// TradingSignal is a generated BUY/SELL recommendation.
type TradingSignal struct {
	ID             string    `json:"id"`
	Symbol         string    `json:"symbol"`
	Timestamp      time.Time `json:"timestamp"`
	Signal         string    `json:"signal"`
	Price          float64   `json:"price"`
	TechnicalScore float64   `json:"technical_score"`
	SentimentScore float64   `json:"sentiment_score"`
	Confidence     float64   `json:"confidence"`
	Indicators     []string  `json:"indicators"`
	TakeProfit     float64   `json:"take_profit,omitempty"`
	StopLoss       float64   `json:"stop_loss,omitempty"`
	Pattern        string    `json:"pattern,omitempty"`
	Status         string    `json:"status,omitempty"`
}

// FeatureSnapshot holds computed indicator values for one bar.
type FeatureSnapshot struct {
	Symbol     string    `json:"symbol"`
	Timeframe  string    `json:"timeframe"`
	Timestamp  time.Time `json:"timestamp"`
	Close      float64   `json:"close"`
	Volume     float64   `json:"volume"`
	RSI        float64   `json:"rsi"`
	MACD       float64   `json:"macd"`
	MACDSignal float64   `json:"macd_signal"`
	MACDHist   float64   `json:"macd_hist"`
	SMA20      float64   `json:"sma_20"`
	SMA50      float64   `json:"sma_50"`
	SMA200     float64   `json:"sma_200"`
	EMA12      float64   `json:"ema_12"`
	EMA26      float64   `json:"ema_26"`
	BBUpper    float64   `json:"bb_upper"`
	BBMiddle   float64   `json:"bb_middle"`
	BBLower    float64   `json:"bb_lower"`
	BBWidth    float64   `json:"bb_width"`
	StochK     float64   `json:"stoch_k"`
	StochD     float64   `json:"stoch_d"`
	ATR        float64   `json:"atr"`
	OBV        float64   `json:"obv"`
}
