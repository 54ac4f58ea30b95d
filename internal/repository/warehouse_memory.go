package repository

import (
	"context"
	"sort"
	"sync"

	"CoinDeck/internal/domain/models"
	"CoinDeck/internal/domain/repository"
)

type seriesKey struct {
	symbol    string
	timeframe string
}

// MemoryWarehouse keeps collected data in process memory. Used when no
// ClickHouse is configured and as the test double.
type MemoryWarehouse struct {
	mu       sync.RWMutex
	candles  map[seriesKey][]models.Candle
	features map[seriesKey][]models.FeatureSnapshot
	signals  []models.TradingSignal
	maxBars  int
}

// NewMemoryWarehouse creates an in-memory warehouse.
func NewMemoryWarehouse() *MemoryWarehouse {
	return &MemoryWarehouse{
		candles:  make(map[seriesKey][]models.Candle),
		features: make(map[seriesKey][]models.FeatureSnapshot),
		maxBars:  1000,
	}
}

func (w *MemoryWarehouse) StoreCandles(_ context.Context, candles []models.Candle) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, c := range candles {
		key := seriesKey{symbol: c.Symbol, timeframe: c.Timeframe}
		series := w.candles[key]

		replaced := false
		for i := range series {
			if series[i].Timestamp.Equal(c.Timestamp) {
				series[i] = c
				replaced = true
				break
			}
		}
		if !replaced {
			series = append(series, c)
		}
		sort.Slice(series, func(i, j int) bool {
			return series[i].Timestamp.Before(series[j].Timestamp)
		})
		if len(series) > w.maxBars {
			series = series[len(series)-w.maxBars:]
		}
		w.candles[key] = series
	}
	return len(candles), nil
}

func (w *MemoryWarehouse) Candles(_ context.Context, symbol, timeframe string, limit int) ([]models.Candle, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	series := w.candles[seriesKey{symbol: symbol, timeframe: timeframe}]
	if limit > 0 && len(series) > limit {
		series = series[len(series)-limit:]
	}
	return append([]models.Candle(nil), series...), nil
}

func (w *MemoryWarehouse) StoreFeatures(_ context.Context, features []models.FeatureSnapshot) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, f := range features {
		key := seriesKey{symbol: f.Symbol, timeframe: f.Timeframe}
		series := w.features[key]

		replaced := false
		for i := range series {
			if series[i].Timestamp.Equal(f.Timestamp) {
				series[i] = f
				replaced = true
				break
			}
		}
		if !replaced {
			series = append(series, f)
		}
		sort.Slice(series, func(i, j int) bool {
			return series[i].Timestamp.Before(series[j].Timestamp)
		})
		if len(series) > w.maxBars {
			series = series[len(series)-w.maxBars:]
		}
		w.features[key] = series
	}
	return len(features), nil
}

func (w *MemoryWarehouse) Features(_ context.Context, symbol, timeframe string, limit int) ([]models.FeatureSnapshot, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	series := w.features[seriesKey{symbol: symbol, timeframe: timeframe}]
	if limit > 0 && len(series) > limit {
		series = series[len(series)-limit:]
	}
	// newest first, matching the warehouse query
	out := make([]models.FeatureSnapshot, len(series))
	for i, f := range series {
		out[len(series)-1-i] = f
	}
	return out, nil
}

func (w *MemoryWarehouse) StoreSignals(_ context.Context, signals []models.TradingSignal) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, s := range signals {
		replaced := false
		for i := range w.signals {
			if w.signals[i].ID == s.ID {
				w.signals[i] = s
				replaced = true
				break
			}
		}
		if !replaced {
			w.signals = append(w.signals, s)
		}
	}
	sort.Slice(w.signals, func(i, j int) bool {
		return w.signals[i].Timestamp.Before(w.signals[j].Timestamp)
	})
	return len(signals), nil
}

func (w *MemoryWarehouse) Signals(_ context.Context, limit int) ([]models.TradingSignal, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if limit <= 0 {
		limit = 20
	}
	series := w.signals
	if len(series) > limit {
		series = series[len(series)-limit:]
	}
	out := make([]models.TradingSignal, len(series))
	for i, s := range series {
		out[len(series)-1-i] = s
	}
	return out, nil
}

func (w *MemoryWarehouse) CollectedSymbols(_ context.Context) ([]string, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	seen := make(map[string]struct{})
	var out []string
	for key := range w.candles {
		if _, ok := seen[key.symbol]; ok {
			continue
		}
		seen[key.symbol] = struct{}{}
		out = append(out, key.symbol)
	}
	sort.Strings(out)
	return out, nil
}

func (w *MemoryWarehouse) Close() error {
	return nil
}

var _ repository.Warehouse = (*MemoryWarehouse)(nil)
