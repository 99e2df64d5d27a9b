package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/akaynusantara/marketplace-backend/pkg/enums"
)

// Voucher is an admin-managed discount code. Value is a percentage (1-100)
// for percent vouchers and whole rupiah for fixed vouchers.
type Voucher struct {
	ID          uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Code        string            `gorm:"column:code;not null;uniqueIndex"`
	Kind        enums.VoucherKind `gorm:"column:kind;type:text;not null"`
	Value       int64             `gorm:"column:value;not null"`
	MinSpendIDR int64             `gorm:"column:min_spend_idr;not null;default:0"`
	Active      bool              `gorm:"column:active;not null;default:true"`
	ExpiresAt   *time.Time        `gorm:"column:expires_at"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
