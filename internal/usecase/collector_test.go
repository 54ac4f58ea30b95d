package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"CoinDeck/internal/bus"
	"CoinDeck/internal/domain/models"
	domainrepo "CoinDeck/internal/domain/repository"
	"CoinDeck/internal/repository"
	"CoinDeck/internal/store"
	"CoinDeck/pkg/cache"
)

type fakeMarket struct {
	candles map[string][]models.Candle
	err     error
}

func (f *fakeMarket) Quotes(ctx context.Context, symbols []string) ([]models.PriceQuote, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeMarket) History(ctx context.Context, symbol, timeframe string, limit int) ([]models.Candle, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.candles[symbol], nil
}

type fakeNews struct {
	items []models.NewsItem
	err   error
	calls int
}

func (f *fakeNews) Latest(ctx context.Context, hours int) ([]models.NewsItem, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.items, nil
}

func makeCandles(symbol, timeframe string, closes []float64) []models.Candle {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	out := make([]models.Candle, len(closes))
	for i, c := range closes {
		out[i] = models.Candle{
			Symbol:    symbol,
			Timeframe: timeframe,
			Timestamp: base.Add(time.Duration(i) * 24 * time.Hour),
			Open:      c,
			High:      c * 1.01,
			Low:       c * 0.99,
			Close:     c,
			Volume:    1000,
		}
	}
	return out
}

func trendingCloses(n int, start, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}

func newCollectorFixture(t *testing.T, market *fakeMarket, news *fakeNews) (*Collector, *store.StateStore, *bus.Bus, *repository.MemoryWarehouse) {
	t.Helper()

	mc := cache.NewMemoryCache()
	t.Cleanup(func() { _ = mc.Close() })
	st := store.New(mc, nil, nil)
	b := bus.New(nil)
	t.Cleanup(b.Close)
	wh := repository.NewMemoryWarehouse()

	var ns domainrepo.NewsSource
	if news != nil {
		ns = news
	}
	c := NewCollector(market, ns, wh, st, b, nil, nil)
	return c, st, b, wh
}

func TestCollectStoresCandlesAndFeatures(t *testing.T) {
	ctx := context.Background()
	market := &fakeMarket{candles: map[string][]models.Candle{
		"BTC/USDT": makeCandles("BTC/USDT", "1d", trendingCloses(60, 100, 1)),
	}}
	c, st, _, wh := newCollectorFixture(t, market, &fakeNews{})

	result, err := c.Collect(ctx, models.CollectionRequest{Symbols: []string{"btc"}, Timeframe: "1d"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.MarketData != 60 {
		t.Fatalf("unexpected candle count %d", result.MarketData)
	}
	if result.TechnicalFeatures != 60 {
		t.Fatalf("unexpected feature count %d", result.TechnicalFeatures)
	}
	if len(result.ProcessedSymbols) != 1 || result.ProcessedSymbols[0] != "BTC/USDT" {
		t.Fatalf("unexpected processed symbols %v", result.ProcessedSymbols)
	}

	candles, err := wh.Candles(ctx, "BTC/USDT", "1d", 0)
	if err != nil || len(candles) != 60 {
		t.Fatalf("candles not stored: %d, %v", len(candles), err)
	}

	history := st.CollectionHistory(ctx)
	if len(history) != 1 {
		t.Fatalf("expected one history record, got %d", len(history))
	}
}

func TestCollectToleratesPartialFailure(t *testing.T) {
	ctx := context.Background()
	market := &fakeMarket{candles: map[string][]models.Candle{
		"ETH/USDT": makeCandles("ETH/USDT", "1d", trendingCloses(60, 2000, 5)),
	}}
	c, _, _, _ := newCollectorFixture(t, market, nil)

	result, err := c.Collect(ctx, models.CollectionRequest{Symbols: []string{"eth", "xrp"}, Timeframe: "1d"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.ProcessedSymbols) != 1 || result.ProcessedSymbols[0] != "ETH/USDT" {
		t.Fatalf("unexpected processed symbols %v", result.ProcessedSymbols)
	}
}

func TestCollectFailsWhenAllSymbolsFail(t *testing.T) {
	ctx := context.Background()
	market := &fakeMarket{err: errors.New("upstream down")}
	c, st, _, _ := newCollectorFixture(t, market, nil)

	_, err := c.Collect(ctx, models.CollectionRequest{Symbols: []string{"btc", "eth"}, Timeframe: "1d"})
	if err == nil {
		t.Fatalf("expected error when every symbol fails")
	}
	if got := st.CollectionHistory(ctx); len(got) != 0 {
		t.Fatalf("failed cycle must not be recorded, got %d entries", len(got))
	}
}

func TestCollectContinuesWhenNewsFails(t *testing.T) {
	ctx := context.Background()
	market := &fakeMarket{candles: map[string][]models.Candle{
		"BTC/USDT": makeCandles("BTC/USDT", "1d", trendingCloses(60, 100, 1)),
	}}
	news := &fakeNews{err: errors.New("news down")}
	c, _, _, _ := newCollectorFixture(t, market, news)

	result, err := c.Collect(ctx, models.CollectionRequest{Symbols: []string{"btc"}, Timeframe: "1d"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if news.calls != 1 {
		t.Fatalf("expected news fetch attempt")
	}
	if result.News != 0 {
		t.Fatalf("unexpected news count %d", result.News)
	}
}

func TestCollectSkipsNewsWhenDisabled(t *testing.T) {
	ctx := context.Background()
	market := &fakeMarket{candles: map[string][]models.Candle{
		"BTC/USDT": makeCandles("BTC/USDT", "1d", trendingCloses(60, 100, 1)),
	}}
	news := &fakeNews{items: []models.NewsItem{{ID: "n1", Title: "bitcoin rally"}}}
	c, _, _, _ := newCollectorFixture(t, market, news)

	off := false
	_, err := c.Collect(ctx, models.CollectionRequest{
		Symbols: []string{"btc"}, Timeframe: "1d", CollectNews: &off,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if news.calls != 0 {
		t.Fatalf("news fetched despite being disabled")
	}
}

func TestCollectPublishesResultEvent(t *testing.T) {
	ctx := context.Background()
	market := &fakeMarket{candles: map[string][]models.Candle{
		"BTC/USDT": makeCandles("BTC/USDT", "1d", trendingCloses(60, 100, 1)),
	}}
	c, _, b, _ := newCollectorFixture(t, market, nil)

	events, cancel := b.Subscribe(bus.TopicDataCollected)
	defer cancel()

	if _, err := c.Collect(ctx, models.CollectionRequest{Symbols: []string{"btc"}, Timeframe: "1d"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	select {
	case evt := <-events:
		result, ok := evt.Payload.(models.CollectionResult)
		if !ok {
			t.Fatalf("unexpected payload type %T", evt.Payload)
		}
		if result.MarketData != 60 {
			t.Fatalf("unexpected payload %+v", result)
		}
	case <-time.After(time.Second):
		t.Fatalf("no event published")
	}
}

func TestUpdateSignalsUsesStoredCandles(t *testing.T) {
	ctx := context.Background()
	c, _, _, wh := newCollectorFixture(t, &fakeMarket{}, nil)

	// Long decline into a high-volume bounce: oversold RSI plus the
	// volume spike carry the buy side.
	closes := make([]float64, 60)
	for i := 0; i < 30; i++ {
		closes[i] = 100
	}
	for i := 30; i < 58; i++ {
		closes[i] = closes[i-1] - 2.5
	}
	closes[58] = closes[57] + 1
	closes[59] = closes[58] + 2

	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	candles := make([]models.Candle, len(closes))
	for i, cl := range closes {
		candles[i] = models.Candle{
			Symbol:    "BTC/USDT",
			Timeframe: "1d",
			Timestamp: base.AddDate(0, 0, i),
			Open:      cl,
			High:      cl + 1,
			Low:       cl - 1,
			Close:     cl,
			Volume:    1000,
		}
	}
	candles[len(candles)-1].Volume = 12000
	if _, err := wh.StoreCandles(ctx, candles); err != nil {
		t.Fatalf("seed candles: %v", err)
	}

	updated, err := c.UpdateSignals(ctx, "1d")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated != 1 {
		t.Fatalf("expected one updated signal, got %d", updated)
	}
	signals, err := wh.Signals(ctx, 10)
	if err != nil || len(signals) != 1 {
		t.Fatalf("signal not stored: %d, %v", len(signals), err)
	}
}

func TestCollectAllCoversAvailableCoins(t *testing.T) {
	ctx := context.Background()
	candles := map[string][]models.Candle{}
	for _, coin := range AvailableCoins() {
		candles[coin.Value] = makeCandles(coin.Value, "1d", trendingCloses(60, 100, 1))
	}
	c, _, _, _ := newCollectorFixture(t, &fakeMarket{candles: candles}, nil)

	result, err := c.CollectAll(ctx, "1d")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.ProcessedSymbols) != len(AvailableCoins()) {
		t.Fatalf("expected all coins processed, got %d", len(result.ProcessedSymbols))
	}
}
