package shipping

import (
	"strings"

	"github.com/google/uuid"

	pkgerrors "github.com/akaynusantara/marketplace-backend/pkg/errors"
)

// DefaultWarehouseKey groups cart lines whose product has no warehouse.
const DefaultWarehouseKey = "default"

// CartLine is one resolved cart entry: the product's quantity plus the origin
// its warehouse ships from. Origin fields are blank when the product has no
// warehouse.
type CartLine struct {
	ProductID    uuid.UUID
	Qty          int
	WarehouseID  *uuid.UUID
	OriginCityID string
	OriginCity   string
}

// Origin is a shipping source city.
type Origin struct {
	CityID string
	City   string
}

// Group is one shipment: every cart line sharing a warehouse, with the
// accumulated parcel weight.
type Group struct {
	WarehouseKey string
	Origin       Origin
	WeightGrams  int
}

// GroupShipments buckets cart lines into one shipment per warehouse. Weight
// accumulates as qty x itemWeightGrams per line. Lines without a warehouse
// share the sentinel default group and ship from defaultOrigin; a group whose
// effective origin cannot be resolved is a caller error.
func GroupShipments(lines []CartLine, defaultOrigin Origin, itemWeightGrams int) ([]Group, error) {
	if len(lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no items to ship")
	}
	if itemWeightGrams <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item weight must be positive")
	}

	order := make([]string, 0, len(lines))
	groups := make(map[string]*Group, len(lines))
	for _, line := range lines {
		if line.Qty <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item quantity must be positive")
		}

		key := DefaultWarehouseKey
		origin := defaultOrigin
		if line.WarehouseID != nil {
			key = line.WarehouseID.String()
			origin = Origin{CityID: line.OriginCityID, City: line.OriginCity}
		}

		group, ok := groups[key]
		if !ok {
			group = &Group{WarehouseKey: key, Origin: origin}
			groups[key] = group
			order = append(order, key)
		}
		group.WeightGrams += line.Qty * itemWeightGrams
	}

	result := make([]Group, 0, len(order))
	for _, key := range order {
		group := groups[key]
		if strings.TrimSpace(group.Origin.CityID) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipment origin could not be resolved")
		}
		result = append(result, *group)
	}
	return result, nil
}
