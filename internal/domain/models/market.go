package models

import "time"

// PriceQuote is a point-in-time market snapshot for one trading pair.
type PriceQuote struct {
	Symbol      string    `json:"symbol"`
	Price       float64   `json:"price"`
	Change24h   float64   `json:"change_24h"`
	High24h     float64   `json:"high_24h,omitempty"`
	Low24h      float64   `json:"low_24h,omitempty"`
	Volume24h   float64   `json:"volume_24h,omitempty"`
	MarketCap   float64   `json:"market_cap,omitempty"`
	LastUpdated time.Time `json:"last_updated,omitempty"`
}

// Candle is one OHLCV bar for a symbol and timeframe.
type Candle struct {
	Symbol    string    `json:"symbol"`
	Timeframe string    `json:"timeframe"`
	Timestamp time.Time `json:"timestamp"`
	Open      float64   `json:"open"`
	High      float64   `json:"high"`
	Low       float64   `json:"low"`
	Close     float64   `json:"close"`
	Volume    float64   `json:"volume"`
}

// CoinOption is a selectable coin for the dashboard pickers.
type CoinOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}
