package repository

import (
	"context"

	"CoinDeck/internal/domain/models"
)

// MarketSource supplies live quotes and candle history from an upstream feed.
type MarketSource interface {
	Quotes(ctx context.Context, symbols []string) ([]models.PriceQuote, error)
	History(ctx context.Context, symbol, timeframe string, limit int) ([]models.Candle, error)
}

// NewsSource supplies scored news items.
type NewsSource interface {
	Latest(ctx context.Context, hours int) ([]models.NewsItem, error)
}

// Warehouse stores collected candles, feature snapshots, and signals.
type Warehouse interface {
	StoreCandles(ctx context.Context, candles []models.Candle) (int, error)
	Candles(ctx context.Context, symbol, timeframe string, limit int) ([]models.Candle, error)
	StoreFeatures(ctx context.Context, features []models.FeatureSnapshot) (int, error)
	Features(ctx context.Context, symbol, timeframe string, limit int) ([]models.FeatureSnapshot, error)
	StoreSignals(ctx context.Context, signals []models.TradingSignal) (int, error)
	Signals(ctx context.Context, limit int) ([]models.TradingSignal, error)
	CollectedSymbols(ctx context.Context) ([]string, error)
	Close() error
}
