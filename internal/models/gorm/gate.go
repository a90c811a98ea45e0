package gorm

import (
	"time"

	"infinite-experiment/flightdeck/internal/constants"
	"infinite-experiment/flightdeck/internal/interval"
)

// Gate is a physical boarding gate at one airport
type Gate struct {
	ID        int64                `gorm:"column:id;primaryKey;autoIncrement"`
	AirportID int64                `gorm:"column:airport_id;not null;uniqueIndex:idx_gate_airport_code"`
	Code      string               `gorm:"column:code;type:varchar(10);not null;uniqueIndex:idx_gate_airport_code"`
	Status    constants.GateStatus `gorm:"column:status;type:varchar(16);not null;default:'active';index"`
	CreatedAt time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Gate) TableName() string {
	return "gates"
}

// GateAssignment binds a gate to a flight instance for the instance's occupancy window.
// At most one row exists per instance.
type GateAssignment struct {
	ID          int64     `gorm:"column:id;primaryKey;autoIncrement"`
	GateID      int64     `gorm:"column:gate_id;not null;index:idx_assignment_gate_window"`
	InstanceID  int64     `gorm:"column:instance_id;not null;uniqueIndex"`
	OccupyStart time.Time `gorm:"column:occupy_start;not null;index:idx_assignment_gate_window"`
	OccupyEnd   time.Time `gorm:"column:occupy_end;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`

	// Relationships
	Gate Gate `gorm:"foreignKey:GateID"`
}

// TableName specifies the table name for GORM
func (GateAssignment) TableName() string {
	return "gate_assignments"
}

func (a GateAssignment) Window() interval.Window {
	return interval.New(a.OccupyStart, a.OccupyEnd)
}
