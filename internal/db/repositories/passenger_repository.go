package repositories

import (
	"context"

	"infinite-experiment/flightdeck/internal/models/gorm"

	gormlib "gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PassengerRepository handles passengers table reads needed by booking
type PassengerRepository struct {
	db *gormlib.DB
}

// NewPassengerRepository creates a new passenger repository
func NewPassengerRepository(db *gormlib.DB) *PassengerRepository {
	return &PassengerRepository{db: db}
}

// WithTx returns a repository bound to tx
func (r *PassengerRepository) WithTx(tx *gormlib.DB) *PassengerRepository {
	return &PassengerRepository{db: tx}
}

// Lock takes a row lock on the passenger so bookings for one passenger run one at a time.
// Returns nil when the passenger does not exist.
func (r *PassengerRepository) Lock(ctx context.Context, id int64) (*gorm.Passenger, error) {
	var passenger gorm.Passenger

	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&passenger).Error

	if err != nil {
		if err == gormlib.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}

	return &passenger, nil
}
