package gorm

import (
	"time"

	"infinite-experiment/flightdeck/internal/constants"
)

// RouteTemplate is the reusable flight-number definition that dated instances are created from.
type RouteTemplate struct {
	ID                   int64                 `gorm:"column:id;primaryKey;autoIncrement"`
	FlightNo             string                `gorm:"column:flight_no;type:varchar(10);not null;uniqueIndex"`
	AirlineID            int64                 `gorm:"column:airline_id;not null;index"`
	OriginAirportID      int64                 `gorm:"column:origin_airport_id;not null;index"`
	DestinationAirportID int64                 `gorm:"column:destination_airport_id;not null"`
	DurationMinutes      int                   `gorm:"column:duration_minutes;not null"`
	AircraftType         *string               `gorm:"column:aircraft_type;type:varchar(50)"`
	MaxSeat              *int                  `gorm:"column:max_seat"`
	Status               constants.RouteStatus `gorm:"column:status;type:varchar(16);not null;default:'active'"`
	CreatedAt            time.Time             `gorm:"column:created_at;autoCreateTime"`

	// Relationships
	Airline            Airline `gorm:"foreignKey:AirlineID"`
	OriginAirport      Airport `gorm:"foreignKey:OriginAirportID"`
	DestinationAirport Airport `gorm:"foreignKey:DestinationAirportID"`
}

// TableName specifies the table name for GORM
func (RouteTemplate) TableName() string {
	return "route_templates"
}
