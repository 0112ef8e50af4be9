//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"
	"lecturebot/internal"
	"lecturebot/internal/catalog"
	"lecturebot/internal/controllers"
	"lecturebot/internal/payload"
	"lecturebot/internal/providers"
	"lecturebot/internal/ratelimit"
	"lecturebot/internal/services"
	"lecturebot/internal/structures"
	"lecturebot/internal/transport"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, func(), error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,
		providers.NewTokenCacheProvider,

		catalog.NewZstdCompressor,
		catalog.NewBackend,
		catalog.NewStore,
		services.NewAuthorizer,
		services.NewCatalogService,
		payload.NewCodec,
		ratelimit.NewLimiter,

		transport.NewTelegram,
		wire.Bind(new(transport.TransportInterface), new(*transport.Telegram)),
		wire.Bind(new(transport.PollerInterface), new(*transport.Telegram)),

		controllers.NewBotController,
		controllers.NewCatalogController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil, nil
}
