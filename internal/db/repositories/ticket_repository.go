package repositories

import (
	"context"

	"infinite-experiment/flightdeck/internal/constants"
	"infinite-experiment/flightdeck/internal/models/gorm"

	gormlib "gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TicketRepository handles tickets table operations
type TicketRepository struct {
	db *gormlib.DB
}

// NewTicketRepository creates a new ticket repository
func NewTicketRepository(db *gormlib.DB) *TicketRepository {
	return &TicketRepository{db: db}
}

// WithTx returns a repository bound to tx
func (r *TicketRepository) WithTx(tx *gormlib.DB) *TicketRepository {
	return &TicketRepository{db: tx}
}

func (r *TicketRepository) Create(ctx context.Context, ticket *gorm.Ticket) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(ticket).Error
}

// FindByID returns the ticket with its instance and route, or nil
func (r *TicketRepository) FindByID(ctx context.Context, id int64) (*gorm.Ticket, error) {
	var ticket gorm.Ticket

	err := r.db.WithContext(ctx).
		Preload("Instance").
		Preload("Instance.Route").
		First(&ticket, id).Error

	if err != nil {
		if err == gormlib.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}

	return &ticket, nil
}

// Lock reads the ticket row FOR UPDATE, or nil when absent
func (r *TicketRepository) Lock(ctx context.Context, id int64) (*gorm.Ticket, error) {
	var ticket gorm.Ticket

	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&ticket).Error

	if err != nil {
		if err == gormlib.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}

	return &ticket, nil
}

// ListLiveByPassenger returns the passenger's non-cancelled tickets with their instances
func (r *TicketRepository) ListLiveByPassenger(ctx context.Context, passengerID int64) ([]gorm.Ticket, error) {
	var tickets []gorm.Ticket

	err := r.db.WithContext(ctx).
		Preload("Instance").
		Where("passenger_id = ? AND status <> ?", passengerID, constants.TicketCancelled).
		Order("id ASC").
		Find(&tickets).Error

	return tickets, err
}

// UpdateStatus sets the status and, when seat is non-nil, the seat
func (r *TicketRepository) UpdateStatus(ctx context.Context, id int64, status constants.TicketStatus, seat *string) error {
	updates := map[string]interface{}{"status": status}
	if seat != nil {
		updates["seat"] = *seat
	}

	return r.db.WithContext(ctx).
		Model(&gorm.Ticket{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// List returns tickets newest booking first, optionally for one passenger
func (r *TicketRepository) List(ctx context.Context, passengerID int64) ([]gorm.Ticket, error) {
	var tickets []gorm.Ticket

	q := r.db.WithContext(ctx).
		Preload("Instance").
		Preload("Instance.Route")
	if passengerID != 0 {
		q = q.Where("passenger_id = ?", passengerID)
	}

	err := q.Order("booking_date DESC, id DESC").Find(&tickets).Error
	return tickets, err
}
