package di

import (
	"context"
	"fmt"
	"time"

	"CoinDeck/internal/bus"
	"CoinDeck/internal/domain/models"
	"CoinDeck/internal/domain/repository"
	"CoinDeck/internal/handler/api"
	internalrepo "CoinDeck/internal/repository"
	"CoinDeck/internal/service/newsfeed"
	"CoinDeck/internal/service/pricefeed"
	"CoinDeck/internal/store"
	"CoinDeck/internal/usecase"
	"CoinDeck/internal/view"
	"CoinDeck/internal/watchlist"
	"CoinDeck/pkg/cache"
	pkgch "CoinDeck/pkg/clickhouse"
	"CoinDeck/pkg/config"
	xhttp "CoinDeck/pkg/http"
	pkgkafka "CoinDeck/pkg/kafka"
	"CoinDeck/pkg/logger"
	"CoinDeck/pkg/metrics"
	"CoinDeck/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*logger.Logger, error) {
	l, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideRecorder creates the Prometheus metrics recorder.
func ProvideRecorder() *metrics.Recorder {
	return metrics.NewRecorder()
}

// ProvideCache selects the cache backend: layered (memory over Redis)
// when Redis is configured, plain in-process memory otherwise.
func ProvideCache(cfg *config.Config, log *logger.Logger) (cache.Service, error) {
	if !cfg.Redis.Enabled {
		return cache.NewMemoryCache(), nil
	}

	redisCache, err := cache.NewRedisCache(
		cache.WithRedisHost(cfg.Redis.Host),
		cache.WithRedisPort(cfg.Redis.Port),
		cache.WithRedisPassword(cfg.Redis.Password),
		cache.WithRedisDB(cfg.Redis.DB),
		cache.WithRedisPrefix(cfg.Redis.Prefix),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	log.Info("redis cache connected",
		logger.String("host", cfg.Redis.Host),
		logger.Int("port", cfg.Redis.Port))
	return cache.NewLayeredCache(redisCache), nil
}

// ProvideStateStore creates the persisted dashboard state store.
func ProvideStateStore(cfg *config.Config, c cache.Service, log *logger.Logger) *store.StateStore {
	return store.New(c, log, cfg.Watchlist.Defaults)
}

// ProvideBus creates the in-process event bus.
func ProvideBus(log *logger.Logger, recorder *metrics.Recorder) *bus.Bus {
	return bus.New(log, bus.WithMetrics(recorder))
}

// ProvideWarehouse selects the warehouse backend per configuration.
func ProvideWarehouse(cfg *config.Config, log *logger.Logger) (repository.Warehouse, error) {
	if cfg.Warehouse.Type != "clickhouse" {
		return internalrepo.NewMemoryWarehouse(), nil
	}

	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.Warehouse.Host),
		pkgch.WithPort(cfg.Warehouse.Port),
		pkgch.WithDatabase(cfg.Warehouse.Database),
		pkgch.WithCredentials(cfg.Warehouse.User, cfg.Warehouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithTimeouts(cfg.Warehouse.DialTimeout, cfg.Warehouse.ReadTimeout, cfg.Warehouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.Warehouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	wh, err := internalrepo.NewClickHouseWarehouse(ctx, client, log)
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("clickhouse warehouse: %w", err)
	}
	log.Info("clickhouse warehouse ready", logger.String("database", cfg.Warehouse.Database))
	return wh, nil
}

// ProvideMarketSource creates the upstream price feed client.
func ProvideMarketSource(cfg *config.Config, log *logger.Logger, recorder *metrics.Recorder) repository.MarketSource {
	return pricefeed.New(cfg.PriceFeed.BaseURL, log,
		pricefeed.WithAPIKey(cfg.PriceFeed.APIKey),
		pricefeed.WithQuoteCurrency(cfg.PriceFeed.QuoteCurrency),
		pricefeed.WithMetrics(recorder),
		pricefeed.WithHTTPClient(xhttp.NewClient(xhttp.WithTimeout(cfg.PriceFeed.Timeout))),
	)
}

// ProvideNewsSource creates the upstream news feed client.
func ProvideNewsSource(cfg *config.Config, log *logger.Logger, recorder *metrics.Recorder) repository.NewsSource {
	return newsfeed.New(cfg.NewsFeed.BaseURL, log,
		newsfeed.WithAPIKey(cfg.NewsFeed.APIKey),
		newsfeed.WithMetrics(recorder),
		newsfeed.WithHTTPClient(xhttp.NewClient(xhttp.WithTimeout(cfg.NewsFeed.Timeout))),
	)
}

// ProvideCollector wires the collection pipeline.
func ProvideCollector(
	market repository.MarketSource,
	news repository.NewsSource,
	warehouse repository.Warehouse,
	st *store.StateStore,
	b *bus.Bus,
	log *logger.Logger,
	recorder *metrics.Recorder,
) *usecase.Collector {
	return usecase.NewCollector(market, news, warehouse, st, b, log, recorder)
}

// ProvideWatchlistManager creates the watchlist with the configured
// removal holdoff.
func ProvideWatchlistManager(cfg *config.Config, st *store.StateStore, b *bus.Bus, log *logger.Logger, recorder *metrics.Recorder) *watchlist.Manager {
	return watchlist.NewManager(st, b, log,
		watchlist.WithHoldoff(cfg.Watchlist.RemovalHoldoff),
		watchlist.WithMetrics(recorder),
	)
}

// ProvideWatchlistSync creates the cross-instance watchlist poller.
func ProvideWatchlistSync(cfg *config.Config, st *store.StateStore, b *bus.Bus) *watchlist.Sync {
	return watchlist.NewSync(st, b, cfg.Watchlist.SyncInterval)
}

// ProvideVirtualAccount restores (or seeds) the virtual trading account.
func ProvideVirtualAccount(cfg *config.Config, st *store.StateStore, recorder *metrics.Recorder) *usecase.VirtualAccount {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return usecase.NewVirtualAccount(ctx, st,
		usecase.WithInitialBalance(cfg.Virtual.InitialBalance),
		usecase.WithFeeRate(cfg.Virtual.FeeRate),
		usecase.WithVirtualMetrics(recorder),
	)
}

// ProvideScheduler creates the cron collection scheduler, nil when no
// schedule is configured.
func ProvideScheduler(cfg *config.Config, collector *usecase.Collector, log *logger.Logger) *usecase.Scheduler {
	if cfg.Collector.Schedule == "" {
		return nil
	}
	return usecase.NewScheduler(collector,
		cfg.Collector.Schedule,
		cfg.Collector.Symbols,
		cfg.Collector.Timeframe,
		cfg.Collector.CollectNews,
		cfg.Collector.GenerateSignals,
		log,
	)
}

// ProvideHub creates the websocket fanout hub.
func ProvideHub(b *bus.Bus, log *logger.Logger, recorder *metrics.Recorder) *bus.Hub {
	return bus.NewHub(b, log, recorder)
}

// KafkaComponents bundles the optional event mirror.
type KafkaComponents struct {
	Producer *pkgkafka.Producer
	Bridge   *bus.KafkaBridge
}

// ProvideKafka creates the producer and bus bridge when Kafka is
// enabled; both stay nil otherwise.
func ProvideKafka(cfg *config.Config, b *bus.Bus, log *logger.Logger) (*KafkaComponents, error) {
	if !cfg.Kafka.Enabled {
		return &KafkaComponents{}, nil
	}

	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithMaxAttempts(cfg.Kafka.MaxAttempts),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	log.Info("kafka event mirror enabled",
		logger.Strings("brokers", cfg.Kafka.Brokers),
		logger.String("topic", cfg.Kafka.Topic))
	return &KafkaComponents{
		Producer: producer,
		Bridge:   bus.NewKafkaBridge(b, producer, cfg.Kafka.Topic, log),
	}, nil
}

// Views bundles the polled dashboard snapshots.
type Views struct {
	Overview *view.Poller
	Signals  *view.Poller
	News     *view.Poller
}

// ProvideViews creates the dashboard view pollers. The overview poller
// re-fetches immediately on watchlist and collection events so the
// grid reflects mutations within one render.
func ProvideViews(
	cfg *config.Config,
	market repository.MarketSource,
	news repository.NewsSource,
	warehouse repository.Warehouse,
	manager *watchlist.Manager,
	b *bus.Bus,
	log *logger.Logger,
) *Views {
	overview := view.NewPoller("market-overview", cfg.Views.OverviewInterval,
		func(ctx context.Context) (interface{}, error) {
			quotes, err := market.Quotes(ctx, manager.Symbols(ctx))
			if err != nil {
				return nil, err
			}
			return quotes, nil
		},
		b, log,
		view.WithFallback(func() interface{} { return pricefeed.SampleOverview() }),
		view.WithRefreshOn(bus.TopicWatchlistUpdated, bus.TopicDataCollected),
	)

	signals := view.NewPoller("trading-signals", cfg.Views.SignalsInterval,
		func(ctx context.Context) (interface{}, error) {
			sigs, err := warehouse.Signals(ctx, 20)
			if err != nil {
				return nil, err
			}
			return sigs, nil
		},
		b, log,
		view.WithRefreshOn(bus.TopicDataCollected),
	)

	newsView := view.NewPoller("news-feed", cfg.Views.NewsInterval,
		func(ctx context.Context) (interface{}, error) {
			items, err := news.Latest(ctx, 24)
			if err != nil {
				return nil, err
			}
			return items, nil
		},
		b, log,
		view.WithFallback(func() interface{} { return []models.NewsItem{} }),
	)

	return &Views{Overview: overview, Signals: signals, News: newsView}
}

// ProvideHandler assembles the REST surface.
func ProvideHandler(
	log *logger.Logger,
	market repository.MarketSource,
	news repository.NewsSource,
	warehouse repository.Warehouse,
	collector *usecase.Collector,
	account *usecase.VirtualAccount,
	manager *watchlist.Manager,
	st *store.StateStore,
	hub *bus.Hub,
	views *Views,
) *api.Handler {
	return api.NewHandler(log, market, news, warehouse, collector, account, manager, st,
		api.WithHub(hub),
		api.WithOverviewPoller(views.Overview),
		api.WithNewsPoller(views.News),
	)
}

// ProvideApp assembles the application lifecycle.
func ProvideApp(
	cfg *config.Config,
	log *logger.Logger,
	handler *api.Handler,
	b *bus.Bus,
	hub *bus.Hub,
	kc *KafkaComponents,
	sync *watchlist.Sync,
	scheduler *usecase.Scheduler,
	views *Views,
	st *store.StateStore,
	warehouse repository.Warehouse,
) *server.App {
	opts := []server.Option{
		server.WithBus(b),
		server.WithHub(hub),
		server.WithSync(sync),
		server.WithPollers(views.Overview, views.Signals, views.News),
		server.WithStore(st),
		server.WithWarehouse(warehouse),
	}
	if kc.Bridge != nil {
		opts = append(opts, server.WithKafka(kc.Producer, kc.Bridge))
	}
	if scheduler != nil {
		opts = append(opts, server.WithScheduler(scheduler))
	}
	return server.New(cfg, log, handler, opts...)
}
