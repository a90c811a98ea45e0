package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"infinite-experiment/flightdeck/internal/common"
	"infinite-experiment/flightdeck/internal/config"
	"infinite-experiment/flightdeck/internal/constants"
	"infinite-experiment/flightdeck/internal/db"
	"infinite-experiment/flightdeck/internal/metrics"
	"infinite-experiment/flightdeck/internal/models/dtos"
	gormModels "infinite-experiment/flightdeck/internal/models/gorm"
)

// testEnv wires every service against a fresh in-memory SQLite database.
type testEnv struct {
	db        *gorm.DB
	metrics   *metrics.MetricsRegistry
	routes    *RouteService
	gates     *GateAllocationService
	instances *FlightInstanceService
	bookings  *BookingService

	airline   gormModels.Airline
	origin    gormModels.Airport
	dest      gormModels.Airport
	route     gormModels.RouteTemplate
	passenger gormModels.Passenger
}

var day = time.Date(2030, 1, 15, 0, 0, 0, 0, time.UTC)

func at(hour, minute int) time.Time {
	return day.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

// Setup test database
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	database, err := db.InitORM(config.DatabaseConfig{Driver: "sqlite", SQLitePath: ":memory:"})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := db.Migrate(database); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := database.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return database
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	database := setupTestDB(t)
	m := metrics.NewMetricsRegistry(prometheus.NewRegistry())
	tx := db.NewTransactor(database, 0)
	cache := common.NewCacheService(time.Minute, time.Minute)

	env := &testEnv{db: database, metrics: m}
	env.routes = NewRouteService(database, cache, time.Minute, m)
	env.gates = NewGateAllocationService(tx, m)
	env.instances = NewFlightInstanceService(tx, env.routes, env.gates, m)
	env.bookings = NewBookingService(tx, m)

	env.airline = gormModels.Airline{Name: "Thai Skyways", IATACode: "TS"}
	mustCreate(t, database, &env.airline)
	env.origin = gormModels.Airport{IATACode: "BKK", Name: "Suvarnabhumi", City: "Bangkok", Country: "TH", Timezone: "Asia/Bangkok"}
	mustCreate(t, database, &env.origin)
	env.dest = gormModels.Airport{IATACode: "CNX", Name: "Chiang Mai", City: "Chiang Mai", Country: "TH", Timezone: "Asia/Bangkok"}
	mustCreate(t, database, &env.dest)

	env.route = gormModels.RouteTemplate{
		FlightNo:             "TS101",
		AirlineID:            env.airline.ID,
		OriginAirportID:      env.origin.ID,
		DestinationAirportID: env.dest.ID,
		DurationMinutes:      120,
		Status:               constants.RouteActive,
	}
	mustCreate(t, database, &env.route)

	env.passenger = env.addPassenger(t, "Somchai")
	return env
}

func mustCreate(t *testing.T, database *gorm.DB, value interface{}) {
	t.Helper()
	if err := database.Omit(clause.Associations).Create(value).Error; err != nil {
		t.Fatalf("Failed to seed %T: %v", value, err)
	}
}

func (env *testEnv) addGate(t *testing.T, airportID int64, code string, status constants.GateStatus) gormModels.Gate {
	t.Helper()
	gate := gormModels.Gate{AirportID: airportID, Code: code, Status: status}
	mustCreate(t, env.db, &gate)
	return gate
}

func (env *testEnv) addPassenger(t *testing.T, name string) gormModels.Passenger {
	t.Helper()
	p := gormModels.Passenger{FirstName: name, LastName: "Test", Email: fmt.Sprintf("%s@example.com", name)}
	mustCreate(t, env.db, &p)
	return p
}

// addInstance inserts an instance directly, without gate allocation.
func (env *testEnv) addInstance(t *testing.T, departure, arrival time.Time) gormModels.FlightInstance {
	t.Helper()
	inst := gormModels.FlightInstance{
		RouteID:           env.route.ID,
		DepartureDatetime: departure,
		ArrivalDatetime:   arrival,
		Price:             1500,
		Status:            constants.FlightOnTime,
	}
	mustCreate(t, env.db, &inst)
	return inst
}

func (env *testEnv) createInstance(departure, arrival time.Time) (*dtos.CreateInstanceResponse, error) {
	return env.instances.Create(context.Background(), dtos.CreateInstanceRequest{
		RouteID:           env.route.ID,
		DepartureDatetime: &departure,
		ArrivalDatetime:   &arrival,
		Price:             common.Ptr(1500.0),
	})
}

func (env *testEnv) count(t *testing.T, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	q := env.db.Model(model)
	if query != "" {
		q = q.Where(query, args...)
	}
	if err := q.Count(&n).Error; err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	return n
}
