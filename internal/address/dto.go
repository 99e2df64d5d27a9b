package address

import (
	"time"

	"github.com/google/uuid"

	"github.com/akaynusantara/marketplace-backend/pkg/db/models"
)

// AddressDTO is the transport shape for a saved shipping address.
type AddressDTO struct {
	ID         uuid.UUID `json:"id"`
	Label      string    `json:"label"`
	Recipient  string    `json:"recipient"`
	Phone      string    `json:"phone"`
	ProvinceID string    `json:"province_id"`
	Province   string    `json:"province"`
	CityID     string    `json:"city_id"`
	City       string    `json:"city"`
	PostalCode string    `json:"postal_code"`
	Street     string    `json:"street"`
	IsDefault  bool      `json:"is_default"`
	CreatedAt  time.Time `json:"created_at"`
}

func FromModel(a *models.Address) *AddressDTO {
	if a == nil {
		return nil
	}
	return &AddressDTO{
		ID:         a.ID,
		Label:      a.Label,
		Recipient:  a.Recipient,
		Phone:      a.Phone,
		ProvinceID: a.ProvinceID,
		Province:   a.Province,
		CityID:     a.CityID,
		City:       a.City,
		PostalCode: a.PostalCode,
		Street:     a.Street,
		IsDefault:  a.IsDefault,
		CreatedAt:  a.CreatedAt,
	}
}

func FromModels(rows []models.Address) []AddressDTO {
	out := make([]AddressDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
