package gorm

import "time"

// Airline is an operating carrier. Maintained by collaborators; read here for display context.
type Airline struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Name      string    `gorm:"column:name;type:varchar(100);not null"`
	IATACode  string    `gorm:"column:iata_code;type:varchar(3);uniqueIndex"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName specifies the table name for GORM
func (Airline) TableName() string {
	return "airlines"
}
