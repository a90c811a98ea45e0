package gorm

import (
	"time"

	"infinite-experiment/flightdeck/internal/constants"
	"infinite-experiment/flightdeck/internal/interval"
)

// Ticket binds a passenger to a flight instance. Cancellation is a status, rows are never removed.
// The partial unique index backs the one-live-ticket-per-passenger-and-instance rule.
type Ticket struct {
	ID          int64                  `gorm:"column:id;primaryKey;autoIncrement"`
	TicketNo    string                 `gorm:"column:ticket_no;type:varchar(64);not null;uniqueIndex"`
	PassengerID int64                  `gorm:"column:passenger_id;not null;index;uniqueIndex:idx_ticket_live,where:status <> 'cancelled'"`
	InstanceID  int64                  `gorm:"column:instance_id;not null;index;uniqueIndex:idx_ticket_live,where:status <> 'cancelled'"`
	Status      constants.TicketStatus `gorm:"column:status;type:varchar(16);not null;default:'booked'"`
	Seat        *string                `gorm:"column:seat;type:varchar(8)"`
	Price       *float64               `gorm:"column:price;type:numeric(10,2)"`
	BookingDate time.Time              `gorm:"column:booking_date;not null"`
	UpdatedAt   time.Time              `gorm:"column:updated_at;autoUpdateTime"`

	// Relationships
	Instance FlightInstance `gorm:"foreignKey:InstanceID"`
}

// TableName specifies the table name for GORM
func (Ticket) TableName() string {
	return "tickets"
}

// Window is the time the passenger is committed to: the instance's [departure, arrival).
// Instance must be loaded.
func (t Ticket) Window() interval.Window {
	return t.Instance.Window()
}
