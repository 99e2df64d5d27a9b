package models

import (
	"time"

	"github.com/google/uuid"
)

// Courier is an admin-managed shipping option. Orders never reference couriers
// by foreign key; the resolved cost is captured as a plain number at checkout.
type Courier struct {
	ID                uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Key               string    `gorm:"column:key;not null;uniqueIndex"`
	Label             string    `gorm:"column:label;not null"`
	FallbackCostIDR   int64     `gorm:"column:fallback_cost_idr;not null;default:0"`
	RajaOngkirCourier string    `gorm:"column:rajaongkir_courier;not null"`
	RajaOngkirService string    `gorm:"column:rajaongkir_service;not null"`
	SortOrder         int       `gorm:"column:sort_order;not null;default:0"`
	IsActive          bool      `gorm:"column:is_active;not null;default:true"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
