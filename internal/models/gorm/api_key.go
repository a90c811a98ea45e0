package gorm

import (
	"time"

	"infinite-experiment/flightdeck/internal/constants"
)

// APIKey backs X-API-Key authentication. Lookups go through sqlx; GORM only owns the schema.
type APIKey struct {
	Key       string         `gorm:"column:key;primaryKey;type:varchar(64)"`
	Status    bool           `gorm:"column:status;not null;default:true"`
	AccountID string         `gorm:"column:account_id;type:varchar(64);not null"`
	Role      constants.Role `gorm:"column:role;type:varchar(16);not null"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
}

// TableName specifies the table name for GORM
func (APIKey) TableName() string {
	return "api_keys"
}

// All returns every model owned by the schema, in dependency order.
func All() []interface{} {
	return []interface{}{
		&Airline{},
		&Airport{},
		&RouteTemplate{},
		&FlightInstance{},
		&Gate{},
		&GateAssignment{},
		&Passenger{},
		&Ticket{},
		&APIKey{},
	}
}
