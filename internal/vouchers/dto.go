package vouchers

import (
	"time"

	"github.com/google/uuid"

	"github.com/akaynusantara/marketplace-backend/pkg/db/models"
)

// VoucherDTO is the admin transport shape for a voucher.
type VoucherDTO struct {
	ID          uuid.UUID  `json:"id"`
	Code        string     `json:"code"`
	Kind        string     `json:"kind"`
	Value       int64      `json:"value"`
	MinSpendIDR int64      `json:"min_spend_idr"`
	Active      bool       `json:"active"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// ClaimDTO is the transport shape for a buyer's claimed voucher.
type ClaimDTO struct {
	ID        uuid.UUID `json:"id"`
	VoucherID uuid.UUID `json:"voucher_id"`
	Code      string    `json:"code"`
	CreatedAt time.Time `json:"created_at"`
}

func FromModel(v *models.Voucher) *VoucherDTO {
	if v == nil {
		return nil
	}
	return &VoucherDTO{
		ID:          v.ID,
		Code:        v.Code,
		Kind:        v.Kind.String(),
		Value:       v.Value,
		MinSpendIDR: v.MinSpendIDR,
		Active:      v.Active,
		ExpiresAt:   v.ExpiresAt,
		CreatedAt:   v.CreatedAt,
	}
}

func FromModels(rows []models.Voucher) []VoucherDTO {
	out := make([]VoucherDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}

func ClaimFromModel(c *models.VoucherClaim) *ClaimDTO {
	if c == nil {
		return nil
	}
	return &ClaimDTO{
		ID:        c.ID,
		VoucherID: c.VoucherID,
		Code:      c.Code,
		CreatedAt: c.CreatedAt,
	}
}
