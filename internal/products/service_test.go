package products

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/akaynusantara/marketplace-backend/pkg/db/models"
	pkgerrors "github.com/akaynusantara/marketplace-backend/pkg/errors"
	"github.com/akaynusantara/marketplace-backend/pkg/pagination"
)

type stubRepo struct {
	byID map[uuid.UUID]models.Product
	page []models.Product
}

func (s *stubRepo) WithTx(_ *gorm.DB) Repository { return s }

func (s *stubRepo) List(_ context.Context, _ *pagination.Cursor, limit int) ([]models.Product, error) {
	if limit > len(s.page) {
		limit = len(s.page)
	}
	return s.page[:limit], nil
}

func (s *stubRepo) FindActiveByIDs(_ context.Context, ids []uuid.UUID) ([]models.Product, error) {
	var out []models.Product
	for _, id := range ids {
		if p, ok := s.byID[id]; ok && p.IsActive {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *stubRepo) Create(_ context.Context, p *models.Product) (*models.Product, error) {
	s.byID[p.ID] = *p
	return p, nil
}

func (s *stubRepo) DecrementStock(_ context.Context, _ uuid.UUID, _ int) error { return nil }

func seedProduct(repo *stubRepo, priceIDR int64, stock int) models.Product {
	product := models.Product{
		ID:       uuid.New(),
		StoreID:  uuid.New(),
		Title:    "Kopi Gayo 250g",
		Slug:     uuid.NewString(),
		PriceIDR: priceIDR,
		Stock:    stock,
		IsActive: true,
	}
	repo.byID[product.ID] = product
	return product
}

func newTestService(t *testing.T, repo Repository) Service {
	t.Helper()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}
	return svc
}

func TestResolve_MergesDuplicateLines(t *testing.T) {
	repo := &stubRepo{byID: map[uuid.UUID]models.Product{}}
	product := seedProduct(repo, 50000, 10)
	svc := newTestService(t, repo)

	lines, err := svc.Resolve(context.Background(), []ItemInput{
		{ProductID: product.ID, Qty: 2},
		{ProductID: product.ID, Qty: 1},
	})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if len(lines) != 1 || lines[0].Qty != 3 {
		t.Fatalf("expected merged line qty 3, got %+v", lines)
	}
	if got := SubtotalIDR(lines); got != 150000 {
		t.Fatalf("SubtotalIDR = %d, want 150000", got)
	}
}

func TestResolve_UnknownProductIsNotFound(t *testing.T) {
	svc := newTestService(t, &stubRepo{byID: map[uuid.UUID]models.Product{}})

	_, err := svc.Resolve(context.Background(), []ItemInput{{ProductID: uuid.New(), Qty: 1}})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestResolve_InactiveProductIsNotFound(t *testing.T) {
	repo := &stubRepo{byID: map[uuid.UUID]models.Product{}}
	product := seedProduct(repo, 50000, 10)
	product.IsActive = false
	repo.byID[product.ID] = product
	svc := newTestService(t, repo)

	_, err := svc.Resolve(context.Background(), []ItemInput{{ProductID: product.ID, Qty: 1}})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestResolve_InsufficientStockConflicts(t *testing.T) {
	repo := &stubRepo{byID: map[uuid.UUID]models.Product{}}
	product := seedProduct(repo, 50000, 2)
	svc := newTestService(t, repo)

	_, err := svc.Resolve(context.Background(), []ItemInput{{ProductID: product.ID, Qty: 3}})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestResolve_InputValidation(t *testing.T) {
	svc := newTestService(t, &stubRepo{byID: map[uuid.UUID]models.Product{}})

	cases := []struct {
		name  string
		items []ItemInput
	}{
		{name: "empty cart", items: nil},
		{name: "nil product id", items: []ItemInput{{Qty: 1}}},
		{name: "zero qty", items: []ItemInput{{ProductID: uuid.New(), Qty: 0}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Resolve(context.Background(), tc.items)
			if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestCartLines_CarriesWarehouseOrigin(t *testing.T) {
	warehouseID := uuid.New()
	lines := []ResolvedLine{
		{
			Product: models.Product{
				ID:          uuid.New(),
				WarehouseID: &warehouseID,
				Warehouse:   &models.Warehouse{ID: warehouseID, CityID: "23", City: "Bandung"},
			},
			Qty: 2,
		},
		{Product: models.Product{ID: uuid.New()}, Qty: 1},
	}

	cartLines := CartLines(lines)
	if len(cartLines) != 2 {
		t.Fatalf("expected 2 cart lines, got %d", len(cartLines))
	}
	if cartLines[0].OriginCityID != "23" || cartLines[0].WarehouseID == nil {
		t.Fatalf("expected warehouse origin, got %+v", cartLines[0])
	}
	if cartLines[1].WarehouseID != nil {
		t.Fatalf("expected default-origin line, got %+v", cartLines[1])
	}
}
