package repositories

import (
	"context"

	"infinite-experiment/flightdeck/internal/models/gorm"

	gormlib "gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RouteRepository handles route_templates table operations
type RouteRepository struct {
	db *gormlib.DB
}

// NewRouteRepository creates a new route template repository
func NewRouteRepository(db *gormlib.DB) *RouteRepository {
	return &RouteRepository{db: db}
}

// WithTx returns a repository bound to tx
func (r *RouteRepository) WithTx(tx *gormlib.DB) *RouteRepository {
	return &RouteRepository{db: tx}
}

func (r *RouteRepository) Create(ctx context.Context, route *gorm.RouteTemplate) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(route).Error
}

// FindByID returns the route with airline and airports loaded, or nil
func (r *RouteRepository) FindByID(ctx context.Context, id int64) (*gorm.RouteTemplate, error) {
	var route gorm.RouteTemplate

	err := r.db.WithContext(ctx).
		Preload("Airline").
		Preload("OriginAirport").
		Preload("DestinationAirport").
		First(&route, id).Error

	if err != nil {
		if err == gormlib.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}

	return &route, nil
}

// ExistsByFlightNo reports whether a flight number is already taken
func (r *RouteRepository) ExistsByFlightNo(ctx context.Context, flightNo string) (bool, error) {
	var count int64

	err := r.db.WithContext(ctx).
		Model(&gorm.RouteTemplate{}).
		Where("flight_no = ?", flightNo).
		Count(&count).Error

	return count > 0, err
}

// List returns all routes ordered by flight number
func (r *RouteRepository) List(ctx context.Context) ([]gorm.RouteTemplate, error) {
	var routes []gorm.RouteTemplate

	err := r.db.WithContext(ctx).
		Preload("Airline").
		Preload("OriginAirport").
		Preload("DestinationAirport").
		Order("flight_no ASC").
		Find(&routes).Error

	return routes, err
}
