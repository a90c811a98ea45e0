package repositories

import (
	"context"
	"time"

	"infinite-experiment/flightdeck/internal/constants"
	"infinite-experiment/flightdeck/internal/models/gorm"

	gormlib "gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GateRepository handles gates and gate_assignments
type GateRepository struct {
	db *gormlib.DB
}

// NewGateRepository creates a new gate repository
func NewGateRepository(db *gormlib.DB) *GateRepository {
	return &GateRepository{db: db}
}

// WithTx returns a repository bound to tx
func (r *GateRepository) WithTx(tx *gormlib.DB) *GateRepository {
	return &GateRepository{db: tx}
}

// LockActiveByAirport locks every active gate at an airport with SELECT ... FOR UPDATE.
// Rows are locked in ascending id order so concurrent allocators over the same
// airport always acquire locks in the same sequence.
func (r *GateRepository) LockActiveByAirport(ctx context.Context, airportID int64) ([]gorm.Gate, error) {
	var gates []gorm.Gate

	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("airport_id = ? AND status = ?", airportID, constants.GateActive).
		Order("id ASC").
		Find(&gates).Error

	return gates, err
}

// LockAtAirport locks one gate, but only if it belongs to airportID. Returns nil when absent.
func (r *GateRepository) LockAtAirport(ctx context.Context, gateID, airportID int64) (*gorm.Gate, error) {
	var gate gorm.Gate

	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND airport_id = ?", gateID, airportID).
		First(&gate).Error

	if err != nil {
		if err == gormlib.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}

	return &gate, nil
}

// ListActiveByAirport reads active gates without locking
func (r *GateRepository) ListActiveByAirport(ctx context.Context, airportID int64) ([]gorm.Gate, error) {
	var gates []gorm.Gate

	err := r.db.WithContext(ctx).
		Where("airport_id = ? AND status = ?", airportID, constants.GateActive).
		Order("id ASC").
		Find(&gates).Error

	return gates, err
}

// FindAssignment returns the instance's current assignment with its gate, or nil
func (r *GateRepository) FindAssignment(ctx context.Context, instanceID int64) (*gorm.GateAssignment, error) {
	var assignment gorm.GateAssignment

	err := r.db.WithContext(ctx).
		Preload("Gate").
		Where("instance_id = ?", instanceID).
		First(&assignment).Error

	if err != nil {
		if err == gormlib.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}

	return &assignment, nil
}

// ListAssignments returns assignments on the given gates that have not ended
// before notBefore, skipping the excluded instance's own row. Callers apply the
// overlap test; notBefore only prunes history.
func (r *GateRepository) ListAssignments(ctx context.Context, gateIDs []int64, excludeInstanceID int64, notBefore time.Time) ([]gorm.GateAssignment, error) {
	var assignments []gorm.GateAssignment
	if len(gateIDs) == 0 {
		return assignments, nil
	}

	err := r.db.WithContext(ctx).
		Where("gate_id IN ? AND instance_id <> ? AND occupy_end > ?", gateIDs, excludeInstanceID, notBefore.UTC()).
		Order("gate_id ASC, occupy_start ASC").
		Find(&assignments).Error

	return assignments, err
}

// UpsertAssignment inserts or replaces the single assignment row of an instance
// ON CONFLICT (instance_id) DO UPDATE
func (r *GateRepository) UpsertAssignment(ctx context.Context, assignment *gorm.GateAssignment) error {
	return r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "instance_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"gate_id", "occupy_start", "occupy_end", "updated_at"}),
		}).
		Create(assignment).Error
}

// ActiveGateCounts returns the number of active gates per airport id
func (r *GateRepository) ActiveGateCounts(ctx context.Context) (map[int64]int, error) {
	var rows []struct {
		AirportID int64
		Count     int
	}

	err := r.db.WithContext(ctx).
		Model(&gorm.Gate{}).
		Select("airport_id, COUNT(*) AS count").
		Where("status = ?", constants.GateActive).
		Group("airport_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[int64]int, len(rows))
	for _, row := range rows {
		counts[row.AirportID] = row.Count
	}
	return counts, nil
}

// AssignmentsEndingAfter returns assignments still running at or after t, with gates loaded
func (r *GateRepository) AssignmentsEndingAfter(ctx context.Context, t time.Time) ([]gorm.GateAssignment, error) {
	var assignments []gorm.GateAssignment

	err := r.db.WithContext(ctx).
		Preload("Gate").
		Where("occupy_end > ?", t.UTC()).
		Find(&assignments).Error

	return assignments, err
}
