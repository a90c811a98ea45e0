package gorm

import "time"

// Airport is a physical airport owning a set of gates
type Airport struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	IATACode  string    `gorm:"column:iata_code;type:varchar(3);not null;uniqueIndex"`
	Name      string    `gorm:"column:name;type:text;not null"`
	City      string    `gorm:"column:city;type:varchar(100)"`
	Country   string    `gorm:"column:country;type:varchar(100)"`
	Timezone  string    `gorm:"column:timezone;type:varchar(50)"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName specifies the table name for GORM
func (Airport) TableName() string {
	return "airports"
}
