package repositories

import (
	"context"

	"infinite-experiment/flightdeck/internal/models/gorm"

	gormlib "gorm.io/gorm"
)

type AirlineRepository struct {
	db *gormlib.DB
}

func NewAirlineRepository(db *gormlib.DB) *AirlineRepository {
	return &AirlineRepository{db: db}
}

// FindByID returns nil when the airline does not exist
func (r *AirlineRepository) FindByID(ctx context.Context, id int64) (*gorm.Airline, error) {
	var airline gorm.Airline

	err := r.db.WithContext(ctx).First(&airline, id).Error
	if err != nil {
		if err == gormlib.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}

	return &airline, nil
}
