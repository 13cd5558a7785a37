//go:build wireinject
// +build wireinject

package di

import (
	"carrental/config"
	"carrental/infras/jwt"
	"carrental/infras/kafka"
	"carrental/infras/otel"
	"carrental/infras/postgres"
	"carrental/infras/redis"
	"carrental/internal/jobs"
	"carrental/shared/cache"
	"carrental/transport/http"
	"carrental/transport/http/middleware"
	"carrental/transport/http/router"

	bookingRepository "carrental/internal/domains/booking/repository"
	bookingService "carrental/internal/domains/booking/service"
	carRepository "carrental/internal/domains/car/repository"
	"carrental/internal/domains/currency"
	bookingHandler "carrental/internal/handlers/booking"
	healthHandler "carrental/internal/handlers/health"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	kafka.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	carRepository.New,
	currency.New,
	bookingService.New,
)

var domains = wire.NewSet(
	bookingDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	bookingHandler.New,
	healthHandler.New,
	router.New,
)

func InitializeApp() *App {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
		jobs.NewOverdueSweep,
		wire.Struct(new(App), "*"),
	)

	return &App{}
}
