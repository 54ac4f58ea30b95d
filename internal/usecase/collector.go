package usecase

import (
	"context"
	"fmt"
	"time"

	"CoinDeck/internal/analysis"
	"CoinDeck/internal/bus"
	"CoinDeck/internal/domain/models"
	"CoinDeck/internal/domain/repository"
	"CoinDeck/internal/service/newsfeed"
	"CoinDeck/internal/store"
	"CoinDeck/pkg/logger"
	"CoinDeck/pkg/metrics"
	"CoinDeck/pkg/util"
)

// Collector runs data collection cycles: fetch history per symbol,
// store candles, derive features, generate signals, and record the
// cycle in the capped history. Per-symbol failures are tolerated; the
// cycle fails only when every symbol fails.
type Collector struct {
	market    repository.MarketSource
	news      repository.NewsSource
	warehouse repository.Warehouse
	store     *store.StateStore
	bus       *bus.Bus
	log       *logger.Logger
	recorder  *metrics.Recorder
}

// NewCollector wires the collection pipeline.
func NewCollector(
	market repository.MarketSource,
	news repository.NewsSource,
	warehouse repository.Warehouse,
	st *store.StateStore,
	b *bus.Bus,
	log *logger.Logger,
	recorder *metrics.Recorder,
) *Collector {
	return &Collector{
		market:    market,
		news:      news,
		warehouse: warehouse,
		store:     st,
		bus:       b,
		log:       log,
		recorder:  recorder,
	}
}

// Collect runs one cycle for the requested symbols.
func (c *Collector) Collect(ctx context.Context, req models.CollectionRequest) (models.CollectionResult, error) {
	start := time.Now()
	tf := repository.NormalizeTimeframe(req.Timeframe)

	var result models.CollectionResult
	result.ProcessedSymbols = []string{}

	var newsItems []models.NewsItem
	if req.WantNews() && c.news != nil {
		items, err := c.news.Latest(ctx, 24)
		if err != nil {
			c.warn("news fetch failed, continuing without sentiment", err)
		} else {
			newsItems = items
			result.News = len(items)
		}
	}

	for _, raw := range req.Symbols {
		symbol := util.NormalizeSymbol(raw, "USDT")
		if symbol == "" {
			continue
		}

		candles, err := c.market.History(ctx, symbol, tf, repository.LookbackBars(tf))
		if err != nil || len(candles) == 0 {
			c.warn(fmt.Sprintf("history fetch failed for %s", symbol), err)
			continue
		}

		stored, err := c.warehouse.StoreCandles(ctx, candles)
		if err != nil {
			c.warn(fmt.Sprintf("candle store failed for %s", symbol), err)
			continue
		}
		result.MarketData += stored

		features := analysis.Compute(candles)
		if n, err := c.warehouse.StoreFeatures(ctx, features); err != nil {
			c.warn(fmt.Sprintf("feature store failed for %s", symbol), err)
		} else {
			result.TechnicalFeatures += n
		}

		if req.WantSignals() {
			sentiment := newsfeed.AverageSentiment(newsItems, util.BaseAsset(symbol))
			if sig := analysis.GenerateSignal(candles, sentiment); sig != nil {
				if _, err := c.warehouse.StoreSignals(ctx, []models.TradingSignal{*sig}); err != nil {
					c.warn(fmt.Sprintf("signal store failed for %s", symbol), err)
				} else {
					result.Signals++
					if c.recorder != nil {
						c.recorder.SignalGenerated(sig.Signal)
					}
				}
			}
		}

		result.ProcessedSymbols = append(result.ProcessedSymbols, symbol)
	}

	var runErr error
	if len(result.ProcessedSymbols) == 0 {
		runErr = fmt.Errorf("collection failed for all %d symbols", len(req.Symbols))
	}
	if c.recorder != nil {
		c.recorder.ObserveCollection(time.Since(start), runErr)
	}
	if runErr != nil {
		return result, runErr
	}

	c.store.AppendCollectionRecord(ctx, models.CollectionRecord{
		Symbols:   result.ProcessedSymbols,
		Timeframe: tf,
		Timestamp: time.Now().UTC(),
		Results:   result,
	})
	c.bus.Publish(bus.TopicDataCollected, result)

	if c.log != nil {
		c.log.Info("collection cycle complete",
			logger.Strings("symbols", result.ProcessedSymbols),
			logger.Int("market_data", result.MarketData),
			logger.Int("features", result.TechnicalFeatures),
			logger.Int("signals", result.Signals),
			logger.Duration("elapsed", time.Since(start)))
	}
	return result, nil
}

// CollectAll runs a cycle over every available coin.
func (c *Collector) CollectAll(ctx context.Context, timeframe string) (models.CollectionResult, error) {
	coins := AvailableCoins()
	symbols := make([]string, len(coins))
	for i, coin := range coins {
		symbols[i] = coin.Value
	}
	return c.Collect(ctx, models.CollectionRequest{
		Symbols:   symbols,
		Timeframe: timeframe,
	})
}

// UpdateSignals regenerates signals from already-collected candles
// without refetching from the upstream feed.
func (c *Collector) UpdateSignals(ctx context.Context, timeframe string) (int, error) {
	tf := repository.NormalizeTimeframe(timeframe)
	symbols, err := c.warehouse.CollectedSymbols(ctx)
	if err != nil {
		return 0, fmt.Errorf("update signals: %w", err)
	}

	var newsItems []models.NewsItem
	if c.news != nil {
		if items, err := c.news.Latest(ctx, 24); err == nil {
			newsItems = items
		}
	}

	updated := 0
	for _, symbol := range symbols {
		candles, err := c.warehouse.Candles(ctx, symbol, tf, repository.LookbackBars(tf))
		if err != nil || len(candles) == 0 {
			continue
		}
		sentiment := newsfeed.AverageSentiment(newsItems, util.BaseAsset(symbol))
		sig := analysis.GenerateSignal(candles, sentiment)
		if sig == nil {
			continue
		}
		if _, err := c.warehouse.StoreSignals(ctx, []models.TradingSignal{*sig}); err != nil {
			c.warn(fmt.Sprintf("signal store failed for %s", symbol), err)
			continue
		}
		updated++
		if c.recorder != nil {
			c.recorder.SignalGenerated(sig.Signal)
		}
	}

	if updated > 0 {
		c.bus.Publish(bus.TopicDataCollected, models.CollectionResult{Signals: updated})
	}
	return updated, nil
}

func (c *Collector) warn(msg string, err error) {
	if c.log != nil {
		c.log.Warn("collector: "+msg, logger.Error(err))
	}
}
