package models

import (
	"time"

	"github.com/google/uuid"
)

// Address is a buyer's saved shipping destination. City and province names are
// denormalized from the RajaOngkir region catalog so quotes never need a
// second lookup.
type Address struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID     uuid.UUID `gorm:"column:user_id;type:uuid;not null;index"`
	Label      string    `gorm:"column:label;not null"`
	Recipient  string    `gorm:"column:recipient;not null"`
	Phone      string    `gorm:"column:phone;not null"`
	ProvinceID string    `gorm:"column:province_id;not null"`
	Province   string    `gorm:"column:province;not null"`
	CityID     string    `gorm:"column:city_id;not null"`
	City       string    `gorm:"column:city;not null"`
	PostalCode string    `gorm:"column:postal_code;not null"`
	Street     string    `gorm:"column:street;not null"`
	IsDefault  bool      `gorm:"column:is_default;not null;default:false"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
