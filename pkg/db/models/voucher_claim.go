package models

import (
	"time"

	"github.com/google/uuid"
)

// VoucherClaim records that a buyer saved a voucher to their account.
type VoucherClaim struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	VoucherID uuid.UUID `gorm:"column:voucher_id;type:uuid;not null;index"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;index:idx_voucher_claims_user_voucher,unique"`
	Code      string    `gorm:"column:code;not null;index:idx_voucher_claims_user_voucher,unique"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}
