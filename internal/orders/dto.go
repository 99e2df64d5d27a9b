package orders

import (
	"time"

	"github.com/google/uuid"

	"github.com/akaynusantara/marketplace-backend/pkg/db/models"
)

// OrderDTO is the transport shape for an order with its pricing breakdown.
type OrderDTO struct {
	ID                   uuid.UUID      `json:"id"`
	Status               string         `json:"status"`
	PaymentMethod        string         `json:"payment_method"`
	ItemsTotalIDR        int64          `json:"items_total_idr"`
	VoucherCode          *string        `json:"voucher_code,omitempty"`
	VoucherDiscountIDR   int64          `json:"voucher_discount_idr"`
	CourierKey           string         `json:"courier_key"`
	ShippingCostIDR      int64          `json:"shipping_cost_idr"`
	ShippingUsedFallback bool           `json:"shipping_used_fallback"`
	UniqueCodeIDR        int64          `json:"unique_code_idr"`
	TotalIDR             int64          `json:"total_idr"`
	Items                []OrderItemDTO `json:"items,omitempty"`
	CanceledAt           *time.Time     `json:"canceled_at,omitempty"`
	CreatedAt            time.Time      `json:"created_at"`
}

// OrderItemDTO is the transport shape for one snapshotted line.
type OrderItemDTO struct {
	ProductID    uuid.UUID `json:"product_id"`
	Title        string    `json:"title"`
	UnitPriceIDR int64     `json:"unit_price_idr"`
	Qty          int       `json:"qty"`
}

// FromModel converts an order row into its transport shape.
func FromModel(order *models.Order) *OrderDTO {
	if order == nil {
		return nil
	}

	dto := &OrderDTO{
		ID:                   order.ID,
		Status:               order.Status.String(),
		PaymentMethod:        order.PaymentMethod.String(),
		ItemsTotalIDR:        order.ItemsTotalIDR,
		VoucherCode:          order.VoucherCode,
		VoucherDiscountIDR:   order.VoucherDiscountIDR,
		CourierKey:           order.CourierKey,
		ShippingCostIDR:      order.ShippingCostIDR,
		ShippingUsedFallback: order.ShippingUsedFallback,
		UniqueCodeIDR:        order.UniqueCodeIDR,
		TotalIDR:             order.TotalIDR,
		CanceledAt:           order.CanceledAt,
		CreatedAt:            order.CreatedAt,
	}
	for _, item := range order.Items {
		dto.Items = append(dto.Items, OrderItemDTO{
			ProductID:    item.ProductID,
			Title:        item.Title,
			UnitPriceIDR: item.UnitPriceIDR,
			Qty:          item.Qty,
		})
	}
	return dto
}

// FromModels converts a page of order rows.
func FromModels(rows []models.Order) []OrderDTO {
	out := make([]OrderDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
