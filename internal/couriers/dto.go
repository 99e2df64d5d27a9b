package couriers

import (
	"github.com/google/uuid"

	"github.com/akaynusantara/marketplace-backend/pkg/db/models"
)

// CourierDTO is the buyer-facing catalog shape. Rate provider wiring stays
// server side.
type CourierDTO struct {
	ID              uuid.UUID `json:"id"`
	Key             string    `json:"key"`
	Label           string    `json:"label"`
	FallbackCostIDR int64     `json:"fallback_cost_idr"`
}

// AdminCourierDTO includes the provider mapping shown on the admin surface.
type AdminCourierDTO struct {
	CourierDTO
	RajaOngkirCourier string `json:"rajaongkir_courier"`
	RajaOngkirService string `json:"rajaongkir_service"`
	SortOrder         int    `json:"sort_order"`
	IsActive          bool   `json:"is_active"`
}

func FromModel(c *models.Courier) *CourierDTO {
	if c == nil {
		return nil
	}
	return &CourierDTO{
		ID:              c.ID,
		Key:             c.Key,
		Label:           c.Label,
		FallbackCostIDR: c.FallbackCostIDR,
	}
}

func FromModels(rows []models.Courier) []CourierDTO {
	out := make([]CourierDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}

func AdminFromModel(c *models.Courier) *AdminCourierDTO {
	if c == nil {
		return nil
	}
	return &AdminCourierDTO{
		CourierDTO:        *FromModel(c),
		RajaOngkirCourier: c.RajaOngkirCourier,
		RajaOngkirService: c.RajaOngkirService,
		SortOrder:         c.SortOrder,
		IsActive:          c.IsActive,
	}
}

func AdminFromModels(rows []models.Courier) []AdminCourierDTO {
	out := make([]AdminCourierDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *AdminFromModel(&rows[i]))
	}
	return out
}
