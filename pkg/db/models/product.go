package models

import (
	"time"

	"github.com/google/uuid"
)

// Product represents a seller listing. Prices are whole rupiah.
type Product struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID     uuid.UUID  `gorm:"column:store_id;type:uuid;not null;index"`
	WarehouseID *uuid.UUID `gorm:"column:warehouse_id;type:uuid"`
	Title       string     `gorm:"column:title;not null"`
	Slug        string     `gorm:"column:slug;not null;uniqueIndex"`
	Description *string    `gorm:"column:description"`
	PriceIDR    int64      `gorm:"column:price_idr;not null"`
	Stock       int        `gorm:"column:stock;not null;default:0"`
	IsActive    bool       `gorm:"column:is_active;not null;default:true"`
	Warehouse   *Warehouse `gorm:"foreignKey:WarehouseID"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
