package gorm

import (
	"time"

	"infinite-experiment/flightdeck/internal/constants"
	"infinite-experiment/flightdeck/internal/interval"
)

// FlightInstance is one dated occurrence of a route template.
// ArrivalDatetime always equals the undelayed baseline plus DelayedMinutes.
type FlightInstance struct {
	ID                int64                  `gorm:"column:id;primaryKey;autoIncrement"`
	RouteID           int64                  `gorm:"column:route_id;not null;index"`
	DepartureDatetime time.Time              `gorm:"column:departure_datetime;not null;index"`
	ArrivalDatetime   time.Time              `gorm:"column:arrival_datetime;not null"`
	Price             float64                `gorm:"column:price;type:numeric(10,2);not null"`
	MaxSellableSeat   *int                   `gorm:"column:max_sellable_seat"`
	Status            constants.FlightStatus `gorm:"column:status;type:varchar(16);not null;default:'on-time'"`
	DelayedMinutes    int                    `gorm:"column:delayed_minutes;not null;default:0"`
	CreatedAt         time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time              `gorm:"column:updated_at;autoUpdateTime"`

	// Relationships
	Route RouteTemplate `gorm:"foreignKey:RouteID"`
}

// TableName specifies the table name for GORM
func (FlightInstance) TableName() string {
	return "flight_instances"
}

// Window is the [departure, arrival) interval a passenger is committed to.
func (f FlightInstance) Window() interval.Window {
	return interval.New(f.DepartureDatetime, f.ArrivalDatetime)
}

// BaselineArrival is the scheduled arrival with the current delay removed.
func (f FlightInstance) BaselineArrival() time.Time {
	return f.ArrivalDatetime.Add(-time.Duration(f.DelayedMinutes) * time.Minute).UTC()
}
