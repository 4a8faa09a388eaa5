//go:build wireinject
// +build wireinject

package di

import (
	"SteelPulse/pkg/config"
	"SteelPulse/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure clients
		ProvideClickHouseClient,
		ProvideRedisCache,
		ProvideRedisClient,
		ProvideCacheService,
		ProvideKafkaProducer,
		ProvideKafkaConsumer,
		ProvideBytesCache,

		// Repositories
		ProvideEventStore,
		ProvideSeriesArchive,
		ProvideEventPublisher,

		// Fetch services
		ProvideMarketsClient,
		ProvideEIAClient,
		ProvideReferenceSource,
		ProvideRoutesLoader,
		ProvideHub,

		// Use cases
		ProvideOverlayBuilder,
		ProvideMarketsViewer,
		ProvideKafkaEventsHandler,
		ProvideRefreshJob,
		ProvideRefreshQueue,
		ProvideRefresher,

		// HTTP + application
		ProvideDashboardsHandler,
		ProvideApp,
	)
	return &server.App{}, nil
}
