package products

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/akaynusantara/marketplace-backend/internal/shipping"
	"github.com/akaynusantara/marketplace-backend/pkg/db/models"
	pkgerrors "github.com/akaynusantara/marketplace-backend/pkg/errors"
	"github.com/akaynusantara/marketplace-backend/pkg/pagination"
)

// ItemInput is one requested cart line from the client.
type ItemInput struct {
	ProductID uuid.UUID
	Qty       int
}

// ResolvedLine pairs a live product row with the requested quantity.
type ResolvedLine struct {
	Product models.Product
	Qty     int
}

// SubtotalIDR sums unit price times quantity across the resolved lines.
func SubtotalIDR(lines []ResolvedLine) int64 {
	var total int64
	for _, line := range lines {
		total += line.Product.PriceIDR * int64(line.Qty)
	}
	return total
}

// CartLines converts resolved lines into shipment-grouping inputs.
func CartLines(lines []ResolvedLine) []shipping.CartLine {
	out := make([]shipping.CartLine, 0, len(lines))
	for _, line := range lines {
		cartLine := shipping.CartLine{
			ProductID:   line.Product.ID,
			Qty:         line.Qty,
			WarehouseID: line.Product.WarehouseID,
		}
		if line.Product.Warehouse != nil {
			cartLine.OriginCityID = line.Product.Warehouse.CityID
			cartLine.OriginCity = line.Product.Warehouse.City
		}
		out = append(out, cartLine)
	}
	return out
}

// ListResult is a cursor page of products.
type ListResult struct {
	Products   []models.Product
	NextCursor string
}

// Service exposes catalog browsing and cart resolution.
type Service interface {
	List(ctx context.Context, params pagination.Params) (ListResult, error)
	Resolve(ctx context.Context, items []ItemInput) ([]ResolvedLine, error)
}

type service struct {
	repo Repository
}

// NewService builds the product catalog service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, params pagination.Params) (ListResult, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return ListResult{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	rows, err := s.repo.List(ctx, cursor, limit+1)
	if err != nil {
		return ListResult{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
	}

	result := ListResult{Products: rows}
	if len(rows) > limit {
		result.Products = rows[:limit]
		last := result.Products[limit-1]
		result.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	return result, nil
}

// Resolve validates requested cart lines against live product rows: every
// product must exist, be active, and have sufficient stock. Duplicate
// product ids are merged before lookup.
func (s *service) Resolve(ctx context.Context, items []ItemInput) ([]ResolvedLine, error) {
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	qtyByID := make(map[uuid.UUID]int, len(items))
	order := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		if item.ProductID == uuid.Nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
		}
		if item.Qty <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "item quantity must be positive")
		}
		if _, seen := qtyByID[item.ProductID]; !seen {
			order = append(order, item.ProductID)
		}
		qtyByID[item.ProductID] += item.Qty
	}

	rows, err := s.repo.FindActiveByIDs(ctx, order)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load products")
	}
	byID := make(map[uuid.UUID]models.Product, len(rows))
	for _, row := range rows {
		byID[row.ID] = row
	}

	lines := make([]ResolvedLine, 0, len(order))
	for _, id := range order {
		product, ok := byID[id]
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("product %s not found", id))
		}
		qty := qtyByID[id]
		if product.Stock < qty {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("insufficient stock for %q", product.Title))
		}
		lines = append(lines, ResolvedLine{Product: product, Qty: qty})
	}
	return lines, nil
}
