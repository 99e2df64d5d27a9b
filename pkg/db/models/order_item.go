package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderItem snapshots a cart line at checkout so later product edits never
// change what the buyer paid.
type OrderItem struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID      uuid.UUID  `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID    uuid.UUID  `gorm:"column:product_id;type:uuid;not null"`
	StoreID      uuid.UUID  `gorm:"column:store_id;type:uuid;not null"`
	WarehouseID  *uuid.UUID `gorm:"column:warehouse_id;type:uuid"`
	Title        string     `gorm:"column:title;not null"`
	UnitPriceIDR int64      `gorm:"column:unit_price_idr;not null"`
	Qty          int        `gorm:"column:qty;not null"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
}
