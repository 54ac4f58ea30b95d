//go:build wireinject
// +build wireinject

package di

import (
	"CoinDeck/pkg/config"
	"CoinDeck/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire generates the implementation in wire_gen.go.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideRecorder,

		// Infrastructure
		ProvideCache,
		ProvideStateStore,
		ProvideBus,
		ProvideWarehouse,
		ProvideKafka,

		// Feeds
		ProvideMarketSource,
		ProvideNewsSource,

		// Domain components
		ProvideCollector,
		ProvideWatchlistManager,
		ProvideWatchlistSync,
		ProvideVirtualAccount,
		ProvideScheduler,
		ProvideHub,
		ProvideViews,

		// HTTP surface and lifecycle
		ProvideHandler,
		ProvideApp,
	)
	return &server.App{}, nil
}
