package api

import (
	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"

	"infinite-experiment/flightdeck/internal/common"
	"infinite-experiment/flightdeck/internal/config"
	"infinite-experiment/flightdeck/internal/db"
	"infinite-experiment/flightdeck/internal/db/repositories"
	"infinite-experiment/flightdeck/internal/metrics"
	"infinite-experiment/flightdeck/internal/services"
)

type Repositories struct {
	Keys *repositories.KeysRepo
}

type Services struct {
	Cache     common.CacheInterface
	Routes    *services.RouteService
	Gates     *services.GateAllocationService
	Instances *services.FlightInstanceService
	Bookings  *services.BookingService
}

type Dependencies struct {
	Repo     *Repositories
	Services *Services
	Metrics  *metrics.MetricsRegistry
	SQL      *sqlx.DB
}

// InitDependencies wires repositories and services over the given connections.
func InitDependencies(cfg *config.Config, gormDB *gorm.DB, sqlDB *sqlx.DB, cache common.CacheInterface, metricsReg *metrics.MetricsRegistry) *Dependencies {
	tx := db.NewTransactor(gormDB, cfg.Database.LockTimeout)

	routeSvc := services.NewRouteService(gormDB, cache, cfg.Cache.RouteTTL, metricsReg)
	gateSvc := services.NewGateAllocationService(tx, metricsReg)

	return &Dependencies{
		Repo: &Repositories{
			Keys: repositories.NewApiKeysRepo(sqlDB),
		},
		Services: &Services{
			Cache:     cache,
			Routes:    routeSvc,
			Gates:     gateSvc,
			Instances: services.NewFlightInstanceService(tx, routeSvc, gateSvc, metricsReg),
			Bookings:  services.NewBookingService(tx, metricsReg),
		},
		Metrics: metricsReg,
		SQL:     sqlDB,
	}
}
