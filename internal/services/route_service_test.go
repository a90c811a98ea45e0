package services

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"infinite-experiment/flightdeck/internal/apperrors"
	"infinite-experiment/flightdeck/internal/common"
	"infinite-experiment/flightdeck/internal/constants"
	"infinite-experiment/flightdeck/internal/models/dtos"
)

func TestRouteService_Create(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	req := dtos.CreateRouteRequest{
		FlightNo:             " ts303 ",
		AirlineID:            env.airline.ID,
		OriginAirportID:      env.dest.ID,
		DestinationAirportID: env.origin.ID,
		DurationMinutes:      75,
		AircraftType:         common.Ptr("A320"),
	}

	route, err := env.routes.Create(ctx, req)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if route.FlightNo != "TS303" {
		t.Errorf("Expected normalised flight number TS303, got %q", route.FlightNo)
	}
	if route.OriginCode != "CNX" || route.DestinationCode != "BKK" || route.AirlineName != "Thai Skyways" {
		t.Errorf("Expected joined context, got %+v", route)
	}

	if _, err := env.routes.Create(ctx, req); !apperrors.HasCode(err, constants.ErrCodeFlightNoExists) {
		t.Errorf("Expected FLIGHT_NO_EXISTS, got %v", err)
	}
}

func TestRouteService_CreateValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	base := dtos.CreateRouteRequest{
		FlightNo: "TS404", AirlineID: env.airline.ID, OriginAirportID: env.origin.ID,
		DestinationAirportID: env.dest.ID, DurationMinutes: 60,
	}

	sameAirport := base
	sameAirport.DestinationAirportID = base.OriginAirportID
	noDuration := base
	noDuration.DurationMinutes = 0
	noFlightNo := base
	noFlightNo.FlightNo = "  "

	for name, req := range map[string]dtos.CreateRouteRequest{
		"same airport": sameAirport,
		"no duration":  noDuration,
		"no flight no": noFlightNo,
	} {
		if _, err := env.routes.Create(ctx, req); !apperrors.IsValidation(err) {
			t.Errorf("%s: expected validation error, got %v", name, err)
		}
	}

	unknownAirline := base
	unknownAirline.AirlineID = 9999
	if _, err := env.routes.Create(ctx, unknownAirline); !apperrors.IsNotFound(err) {
		t.Errorf("Expected airline not found, got %v", err)
	}
	unknownAirport := base
	unknownAirport.DestinationAirportID = 9999
	if _, err := env.routes.Create(ctx, unknownAirport); !apperrors.IsNotFound(err) {
		t.Errorf("Expected airport not found, got %v", err)
	}
}

func TestRouteService_GetIsCached(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		route, err := env.routes.Get(ctx, env.route.ID)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if route.FlightNo != "TS101" {
			t.Errorf("Expected TS101, got %s", route.FlightNo)
		}
	}

	prefix := string(constants.CachePrefixRoute)
	if misses := testutil.ToFloat64(env.metrics.CacheMissesTotal.WithLabelValues(prefix)); misses != 1 {
		t.Errorf("Expected 1 miss, got %v", misses)
	}
	if hits := testutil.ToFloat64(env.metrics.CacheHitsTotal.WithLabelValues(prefix)); hits != 2 {
		t.Errorf("Expected 2 hits, got %v", hits)
	}

	if _, err := env.routes.Get(ctx, 9999); !apperrors.IsNotFound(err) {
		t.Errorf("Expected not found, got %v", err)
	}
}

func TestRouteService_ListInvalidatedOnCreate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	routes, err := env.routes.List(ctx)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(routes) != 1 {
		t.Fatalf("Expected 1 route, got %d", len(routes))
	}

	_, err = env.routes.Create(ctx, dtos.CreateRouteRequest{
		FlightNo: "TS009", AirlineID: env.airline.ID, OriginAirportID: env.origin.ID,
		DestinationAirportID: env.dest.ID, DurationMinutes: 60,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	routes, err = env.routes.List(ctx)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(routes) != 2 || routes[0].FlightNo != "TS009" {
		t.Errorf("Expected fresh list ordered by flight number, got %+v", routes)
	}
}

func TestRouteService_WarmPopulatesCache(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	n, err := env.routes.Warm(ctx)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if n != 1 {
		t.Errorf("Expected 1 route warmed, got %d", n)
	}

	if _, err := env.routes.Get(ctx, env.route.ID); err != nil {
		t.Fatalf("Expected route, got %v", err)
	}
	if _, err := env.routes.List(ctx); err != nil {
		t.Fatalf("Expected list, got %v", err)
	}

	if hits := testutil.ToFloat64(env.metrics.CacheHitsTotal.WithLabelValues(string(constants.CachePrefixRoute))); hits != 1 {
		t.Errorf("Expected route lookup served from cache, got %v hits", hits)
	}
	if hits := testutil.ToFloat64(env.metrics.CacheHitsTotal.WithLabelValues(string(constants.CachePrefixRouteList))); hits != 1 {
		t.Errorf("Expected list served from cache, got %v hits", hits)
	}
}
