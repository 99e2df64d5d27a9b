package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/akaynusantara/marketplace-backend/pkg/enums"
)

// Order captures the pricing numbers exactly as they were derived at
// checkout. TotalIDR = ItemsTotalIDR - VoucherDiscountIDR + ShippingCostIDR +
// UniqueCodeIDR and is immutable after creation.
type Order struct {
	ID                   uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	BuyerID              uuid.UUID           `gorm:"column:buyer_id;type:uuid;not null;index"`
	AddressID            uuid.UUID           `gorm:"column:address_id;type:uuid;not null"`
	Status               enums.OrderStatus   `gorm:"column:status;type:text;not null;default:'pending'"`
	PaymentMethod        enums.PaymentMethod `gorm:"column:payment_method;type:text;not null"`
	ItemsTotalIDR        int64               `gorm:"column:items_total_idr;not null"`
	VoucherCode          *string             `gorm:"column:voucher_code"`
	VoucherDiscountIDR   int64               `gorm:"column:voucher_discount_idr;not null;default:0"`
	CourierKey           string              `gorm:"column:courier_key;not null"`
	ShippingCostIDR      int64               `gorm:"column:shipping_cost_idr;not null"`
	ShippingUsedFallback bool                `gorm:"column:shipping_used_fallback;not null;default:false"`
	UniqueCodeIDR        int64               `gorm:"column:unique_code_idr;not null;default:0"`
	TotalIDR             int64               `gorm:"column:total_idr;not null"`
	Items                []OrderItem         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CanceledAt           *time.Time          `gorm:"column:canceled_at"`
	CreatedAt            time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
