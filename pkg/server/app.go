package server

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"CoinDeck/internal/bus"
	"CoinDeck/internal/domain/repository"
	"CoinDeck/internal/store"
	"CoinDeck/internal/usecase"
	"CoinDeck/internal/view"
	"CoinDeck/internal/watchlist"
	"CoinDeck/pkg/config"
	xhttp "CoinDeck/pkg/http"
	"CoinDeck/pkg/kafka"
	"CoinDeck/pkg/logger"
)

// App owns the application lifecycle: background components start
// before the HTTP server and stop in reverse order on shutdown.
type App struct {
	cfg     *config.Config
	log     *logger.Logger
	handler xhttp.Handler
	server  *xhttp.Server

	bus       *bus.Bus
	hub       *bus.Hub
	bridge    *bus.KafkaBridge
	producer  *kafka.Producer
	sync      *watchlist.Sync
	scheduler *usecase.Scheduler
	pollers   []*view.Poller
	store     *store.StateStore
	warehouse repository.Warehouse
}

type Option func(*App)

func WithBus(b *bus.Bus) Option {
	return func(a *App) { a.bus = b }
}

func WithHub(h *bus.Hub) Option {
	return func(a *App) { a.hub = h }
}

// WithKafka attaches the event bridge and the producer it publishes with.
func WithKafka(producer *kafka.Producer, bridge *bus.KafkaBridge) Option {
	return func(a *App) {
		a.producer = producer
		a.bridge = bridge
	}
}

func WithSync(s *watchlist.Sync) Option {
	return func(a *App) { a.sync = s }
}

func WithScheduler(s *usecase.Scheduler) Option {
	return func(a *App) { a.scheduler = s }
}

func WithPollers(pollers ...*view.Poller) Option {
	return func(a *App) { a.pollers = append(a.pollers, pollers...) }
}

func WithStore(s *store.StateStore) Option {
	return func(a *App) { a.store = s }
}

func WithWarehouse(w repository.Warehouse) Option {
	return func(a *App) { a.warehouse = w }
}

func New(cfg *config.Config, log *logger.Logger, handler xhttp.Handler, opts ...Option) *App {
	a := &App{
		cfg:     cfg,
		log:     log,
		handler: handler,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run starts every component and blocks until an interrupt arrives.
func (a *App) Run() error {
	if a.hub != nil {
		a.hub.Start()
	}
	if a.bridge != nil {
		a.bridge.Start()
	}
	if a.sync != nil {
		a.sync.Start()
	}
	for _, p := range a.pollers {
		p.Start()
	}
	if a.scheduler != nil {
		if err := a.scheduler.Start(); err != nil {
			return err
		}
	}

	a.server = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
	)
	if err := a.server.Start(); err != nil {
		return err
	}
	a.log.Info("server started",
		logger.Int("port", a.cfg.Server.Port),
		logger.String("environment", a.cfg.Environment))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	a.log.Info("shutdown signal received")
	return a.shutdown()
}

func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := a.server.Stop(ctx); err != nil {
		a.log.Warn("http shutdown error", logger.Error(err))
	}
	if a.scheduler != nil {
		a.scheduler.Stop()
	}
	for _, p := range a.pollers {
		p.Stop()
	}
	if a.sync != nil {
		a.sync.Stop()
	}
	if a.bridge != nil {
		a.bridge.Stop()
	}
	if a.hub != nil {
		a.hub.Stop()
	}
	if a.bus != nil {
		a.bus.Close()
	}
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.log.Warn("kafka producer close error", logger.Error(err))
		}
	}
	if a.warehouse != nil {
		if err := a.warehouse.Close(); err != nil {
			a.log.Warn("warehouse close error", logger.Error(err))
		}
	}
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Warn("store close error", logger.Error(err))
		}
	}

	a.log.Info("shutdown complete")
	return nil
}
