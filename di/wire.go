//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"tempo/config"
	"tempo/infras/otel"
	"tempo/infras/postgres"
	"tempo/infras/redis"
	appointmentModel "tempo/internal/domains/appointment/model"
	appointmentRepository "tempo/internal/domains/appointment/repository"
	appointmentService "tempo/internal/domains/appointment/service"
	appointmentHandler "tempo/internal/handlers/appointment"
	healthHandler "tempo/internal/handlers/health"
	"tempo/shared/cache"
	"tempo/transport/http"
	"tempo/transport/http/middleware"
	"tempo/transport/http/router"
)

var configurations = wire.NewSet(
	config.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var appointmentDomain = wire.NewSet(
	appointmentModel.NewFields,
	appointmentRepository.New,
	appointmentService.New,
)

var domains = wire.NewSet(
	appointmentDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	healthHandler.New,
	appointmentHandler.New,
	router.New,
)

func InitializeService() (*http.HTTP, func(), error) {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}, nil, nil
}
