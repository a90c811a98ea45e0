package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"infinite-experiment/flightdeck/internal/apperrors"
	"infinite-experiment/flightdeck/internal/common"
	"infinite-experiment/flightdeck/internal/constants"
	"infinite-experiment/flightdeck/internal/db/repositories"
	"infinite-experiment/flightdeck/internal/logging"
	"infinite-experiment/flightdeck/internal/metrics"
	"infinite-experiment/flightdeck/internal/models/dtos"
	gormModels "infinite-experiment/flightdeck/internal/models/gorm"

	"gorm.io/gorm"
)

// RouteService manages route templates. Single routes are served through the
// cache since a template does not change once instances reference it.
type RouteService struct {
	routes   *repositories.RouteRepository
	airlines *repositories.AirlineRepository
	airports *repositories.AirportRepository
	cache    common.CacheInterface
	ttl      time.Duration
	metrics  *metrics.MetricsRegistry
}

func NewRouteService(db *gorm.DB, cache common.CacheInterface, ttl time.Duration, m *metrics.MetricsRegistry) *RouteService {
	return &RouteService{
		routes:   repositories.NewRouteRepository(db),
		airlines: repositories.NewAirlineRepository(db),
		airports: repositories.NewAirportRepository(db),
		cache:    cache,
		ttl:      ttl,
		metrics:  m,
	}
}

func (s *RouteService) Create(ctx context.Context, req dtos.CreateRouteRequest) (*dtos.RouteResponse, error) {
	req.FlightNo = strings.ToUpper(strings.TrimSpace(req.FlightNo))
	if err := validateRoute(req); err != nil {
		return nil, err
	}

	airline, err := s.airlines.FindByID(ctx, req.AirlineID)
	if err != nil {
		return nil, apperrors.Server(err, constants.MsgServerError)
	}
	if airline == nil {
		return nil, apperrors.NotFound("airline", req.AirlineID)
	}
	for _, id := range []int64{req.OriginAirportID, req.DestinationAirportID} {
		airport, err := s.airports.FindByID(ctx, id)
		if err != nil {
			return nil, apperrors.Server(err, constants.MsgServerError)
		}
		if airport == nil {
			return nil, apperrors.NotFound("airport", id)
		}
	}

	exists, err := s.routes.ExistsByFlightNo(ctx, req.FlightNo)
	if err != nil {
		return nil, apperrors.Server(err, constants.MsgServerError)
	}
	if exists {
		s.metrics.Conflict(constants.ErrCodeFlightNoExists)
		return nil, apperrors.Conflict(constants.ErrCodeFlightNoExists, constants.MsgFlightNoExists, nil)
	}

	route := &gormModels.RouteTemplate{
		FlightNo:             req.FlightNo,
		AirlineID:            req.AirlineID,
		OriginAirportID:      req.OriginAirportID,
		DestinationAirportID: req.DestinationAirportID,
		DurationMinutes:      req.DurationMinutes,
		AircraftType:         req.AircraftType,
		MaxSeat:              req.MaxSeat,
		Status:               constants.RouteActive,
	}
	if err := s.routes.Create(ctx, route); err != nil {
		return nil, apperrors.FromStore(err, constants.ErrCodeFlightNoExists, constants.MsgFlightNoExists)
	}

	s.cache.Delete(string(constants.CachePrefixRouteList))
	logging.Info("Route created", "route_id", route.ID, "flight_no", route.FlightNo)
	return s.Get(ctx, route.ID)
}

// Get returns a route by id, from cache when possible.
func (s *RouteService) Get(ctx context.Context, id int64) (*dtos.RouteResponse, error) {
	key := fmt.Sprintf("%s%d", constants.CachePrefixRoute, id)

	view, hit, err := common.GetOrLoad(s.cache, key, s.ttl, func() (dtos.RouteResponse, error) {
		route, err := s.routes.FindByID(ctx, id)
		if err != nil {
			return dtos.RouteResponse{}, apperrors.Server(err, constants.MsgServerError)
		}
		if route == nil {
			return dtos.RouteResponse{}, apperrors.NotFound("route", id)
		}
		return routeView(route), nil
	})
	s.metrics.CacheLookup(string(constants.CachePrefixRoute), hit)
	if err != nil {
		return nil, err
	}

	return &view, nil
}

// List returns every route ordered by flight number. The list is cached until
// the next route is created.
func (s *RouteService) List(ctx context.Context) ([]dtos.RouteResponse, error) {
	key := string(constants.CachePrefixRouteList)

	views, hit, err := common.GetOrLoad(s.cache, key, s.ttl, func() ([]dtos.RouteResponse, error) {
		routes, err := s.routes.List(ctx)
		if err != nil {
			return nil, apperrors.Server(err, constants.MsgServerError)
		}

		views := make([]dtos.RouteResponse, 0, len(routes))
		for i := range routes {
			views = append(views, routeView(&routes[i]))
		}
		return views, nil
	})
	s.metrics.CacheLookup(key, hit)
	return views, err
}

func validateRoute(req dtos.CreateRouteRequest) error {
	switch {
	case req.FlightNo == "":
		return apperrors.Validation("flight_no is required")
	case len(req.FlightNo) > 10:
		return apperrors.Validation("flight_no must be at most 10 characters")
	case req.AirlineID <= 0:
		return apperrors.Validation("airline_id is required")
	case req.OriginAirportID <= 0 || req.DestinationAirportID <= 0:
		return apperrors.Validation("origin_airport_id and destination_airport_id are required")
	case req.OriginAirportID == req.DestinationAirportID:
		return apperrors.Validation("origin and destination must differ")
	case req.DurationMinutes <= 0:
		return apperrors.Validation("duration_minutes must be positive")
	case req.MaxSeat != nil && *req.MaxSeat <= 0:
		return apperrors.Validation("max_seat must be positive")
	}
	return nil
}

// Warm reloads every route from the database into the cache, refreshing the
// list entry and each per-route entry. Returns the number of routes cached.
func (s *RouteService) Warm(ctx context.Context) (int, error) {
	routes, err := s.routes.List(ctx)
	if err != nil {
		return 0, apperrors.Server(err, constants.MsgServerError)
	}

	views := make([]dtos.RouteResponse, 0, len(routes))
	for i := range routes {
		view := routeView(&routes[i])
		s.cache.Set(fmt.Sprintf("%s%d", constants.CachePrefixRoute, view.RouteID), view, s.ttl)
		views = append(views, view)
	}
	s.cache.Set(string(constants.CachePrefixRouteList), views, s.ttl)

	return len(views), nil
}
