package models

import (
	"time"

	"github.com/google/uuid"
)

// Warehouse is a seller shipping origin. Products without a warehouse fall
// back to the configured default origin city at quote time.
type Warehouse struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID   uuid.UUID `gorm:"column:store_id;type:uuid;not null;index"`
	Name      string    `gorm:"column:name;not null"`
	CityID    string    `gorm:"column:city_id;not null"`
	City      string    `gorm:"column:city;not null"`
	IsActive  bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
