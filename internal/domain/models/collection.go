package models

import "time"

// CollectionRequest asks for a data collection cycle over a symbol set.
type CollectionRequest struct {
	Symbols         []string `json:"symbols" validate:"required,min=1,dive,required"`
	Timeframe       string   `json:"timeframe" default:"1d" validate:"oneof=1h 4h 1d"`
	CollectNews     *bool    `json:"collect_news"`
	GenerateSignals *bool    `json:"generate_signals"`
}

// WantNews reports whether news collection was requested (default true).
func (r *CollectionRequest) WantNews() bool {
	return r.CollectNews == nil || *r.CollectNews
}

// WantSignals reports whether signal generation was requested (default true).
func (r *CollectionRequest) WantSignals() bool {
	return r.GenerateSignals == nil || *r.GenerateSignals
}

// CollectionResult aggregates record counts from one cycle.
type CollectionResult struct {
	MarketData        int      `json:"market_data"`
	TechnicalFeatures int      `json:"technical_features"`
	Signals           int      `json:"signals"`
	News              int      `json:"news"`
	ProcessedSymbols  []string `json:"processed_symbols"`
}

// CollectionRecord is one entry in the capped collection history.
type CollectionRecord struct {
	Symbols   []string         `json:"symbols"`
	Timeframe string           `json:"timeframe"`
	Timestamp time.Time        `json:"timestamp"`
	Results   CollectionResult `json:"results"`
}
