package products

import (
	"time"

	"github.com/google/uuid"

	"github.com/akaynusantara/marketplace-backend/pkg/db/models"
)

// ProductDTO is the catalog transport shape.
type ProductDTO struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description,omitempty"`
	PriceIDR    int64     `json:"price_idr"`
	Stock       int       `json:"stock"`
	CreatedAt   time.Time `json:"created_at"`
}

func FromModel(p *models.Product) *ProductDTO {
	if p == nil {
		return nil
	}
	return &ProductDTO{
		ID:          p.ID,
		Title:       p.Title,
		Slug:        p.Slug,
		Description: p.Description,
		PriceIDR:    p.PriceIDR,
		Stock:       p.Stock,
		CreatedAt:   p.CreatedAt,
	}
}

func FromModels(rows []models.Product) []ProductDTO {
	out := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
