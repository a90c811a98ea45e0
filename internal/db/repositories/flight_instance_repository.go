package repositories

import (
	"context"
	"time"

	"infinite-experiment/flightdeck/internal/constants"
	"infinite-experiment/flightdeck/internal/models/dtos"
	"infinite-experiment/flightdeck/internal/models/gorm"

	gormlib "gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FlightInstanceRepository handles flight_instances table operations
type FlightInstanceRepository struct {
	db *gormlib.DB
}

// NewFlightInstanceRepository creates a new flight instance repository
func NewFlightInstanceRepository(db *gormlib.DB) *FlightInstanceRepository {
	return &FlightInstanceRepository{db: db}
}

// WithTx returns a repository bound to tx
func (r *FlightInstanceRepository) WithTx(tx *gormlib.DB) *FlightInstanceRepository {
	return &FlightInstanceRepository{db: tx}
}

func (r *FlightInstanceRepository) Create(ctx context.Context, instance *gorm.FlightInstance) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(instance).Error
}

// FindByID returns the instance with its route context loaded, or nil
func (r *FlightInstanceRepository) FindByID(ctx context.Context, id int64) (*gorm.FlightInstance, error) {
	var instance gorm.FlightInstance

	err := r.withRoute(r.db.WithContext(ctx)).First(&instance, id).Error
	if err != nil {
		if err == gormlib.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}

	return &instance, nil
}

// Lock reads the instance row under the given lock strength ("UPDATE" or "SHARE").
// The route relation is not loaded.
func (r *FlightInstanceRepository) Lock(ctx context.Context, id int64, strength string) (*gorm.FlightInstance, error) {
	var instance gorm.FlightInstance

	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: strength}).
		Where("id = ?", id).
		First(&instance).Error

	if err != nil {
		if err == gormlib.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}

	return &instance, nil
}

// UpdateStatus writes status, delay and arrival together
func (r *FlightInstanceRepository) UpdateStatus(ctx context.Context, id int64, status constants.FlightStatus, delayedMinutes int, arrival time.Time) error {
	return r.db.WithContext(ctx).
		Model(&gorm.FlightInstance{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":           status,
			"delayed_minutes":  delayedMinutes,
			"arrival_datetime": arrival,
			"updated_at":       time.Now().UTC(),
		}).Error
}

// Search lists instances matching the filter ordered by departure
func (r *FlightInstanceRepository) Search(ctx context.Context, filter dtos.InstanceSearch) ([]gorm.FlightInstance, error) {
	var instances []gorm.FlightInstance

	q := r.withRoute(r.db.WithContext(ctx)).Model(&gorm.FlightInstance{})

	if filter.OriginAirportID != 0 || filter.DestinationAirportID != 0 {
		q = q.Joins("JOIN route_templates rt ON rt.id = flight_instances.route_id")
		if filter.OriginAirportID != 0 {
			q = q.Where("rt.origin_airport_id = ?", filter.OriginAirportID)
		}
		if filter.DestinationAirportID != 0 {
			q = q.Where("rt.destination_airport_id = ?", filter.DestinationAirportID)
		}
	}
	if filter.DepartureDate != nil {
		d := filter.DepartureDate.UTC()
		dayStart := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
		q = q.Where("flight_instances.departure_datetime >= ? AND flight_instances.departure_datetime < ?",
			dayStart, dayStart.Add(24*time.Hour))
	}
	if filter.Status != "" {
		q = q.Where("flight_instances.status = ?", filter.Status)
	}

	err := q.Order("flight_instances.departure_datetime ASC").Find(&instances).Error
	return instances, err
}

func (r *FlightInstanceRepository) withRoute(q *gormlib.DB) *gormlib.DB {
	return q.
		Preload("Route").
		Preload("Route.Airline").
		Preload("Route.OriginAirport").
		Preload("Route.DestinationAirport")
}
