package couriers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/akaynusantara/marketplace-backend/pkg/db/models"
	pkgerrors "github.com/akaynusantara/marketplace-backend/pkg/errors"
)

// Catalog is the resolved set of active couriers. Ordered preserves the admin
// sort order for rendering; ByKey resolves a normalized key to its record.
type Catalog struct {
	Ordered []models.Courier
	ByKey   map[string]models.Courier
}

// DefaultKey returns the key of the first courier by sort order, or "" when
// the catalog is empty.
func (c Catalog) DefaultKey() string {
	if len(c.Ordered) == 0 {
		return ""
	}
	return c.Ordered[0].Key
}

// Empty reports whether no couriers are configured at all.
func (c Catalog) Empty() bool {
	return len(c.Ordered) == 0
}

// Service resolves and administers the courier catalog.
type Service interface {
	Catalog(ctx context.Context) (Catalog, error)
	Resolve(ctx context.Context, rawKey string) (*models.Courier, error)
	List(ctx context.Context) ([]models.Courier, error)
	Create(ctx context.Context, input UpsertInput) (*models.Courier, error)
	Update(ctx context.Context, id uuid.UUID, input UpsertInput) (*models.Courier, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// UpsertInput carries the admin form fields for a courier.
type UpsertInput struct {
	Key               string
	Label             string
	FallbackCostIDR   int64
	RajaOngkirCourier string
	RajaOngkirService string
	SortOrder         int
	IsActive          bool
}

type service struct {
	repo Repository
}

// NewService builds the courier catalog service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("courier repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Catalog(ctx context.Context) (Catalog, error) {
	couriers, err := s.repo.ListActive(ctx)
	if err != nil {
		return Catalog{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list couriers")
	}

	byKey := make(map[string]models.Courier, len(couriers))
	for _, courier := range couriers {
		byKey[courier.Key] = courier
	}
	return Catalog{Ordered: couriers, ByKey: byKey}, nil
}

func (s *service) Resolve(ctx context.Context, rawKey string) (*models.Courier, error) {
	key := NormalizeKey(rawKey)
	if key == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "courier key is required")
	}

	courier, err := s.repo.FindByKey(ctx, key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("courier %q not found", key))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find courier")
	}
	if !courier.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("courier %q not found", key))
	}
	return courier, nil
}

func (s *service) List(ctx context.Context) ([]models.Courier, error) {
	couriers, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list couriers")
	}
	return couriers, nil
}

func (s *service) Create(ctx context.Context, input UpsertInput) (*models.Courier, error) {
	courier, err := courierFromInput(input)
	if err != nil {
		return nil, err
	}
	created, err := s.repo.Create(ctx, courier)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create courier")
	}
	return created, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpsertInput) (*models.Courier, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "courier id is required")
	}
	courier, err := courierFromInput(input)
	if err != nil {
		return nil, err
	}
	courier.ID = id
	courier.UpdatedAt = time.Now().UTC()
	updated, err := s.repo.Update(ctx, courier)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update courier")
	}
	return updated, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "courier id is required")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete courier")
	}
	return nil
}

func courierFromInput(input UpsertInput) (*models.Courier, error) {
	key := NormalizeKey(input.Key)
	if key == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "courier key is required")
	}
	if strings.TrimSpace(input.Label) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "courier label is required")
	}
	if input.FallbackCostIDR < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "fallback cost must not be negative")
	}
	return &models.Courier{
		Key:               key,
		Label:             strings.TrimSpace(input.Label),
		FallbackCostIDR:   input.FallbackCostIDR,
		RajaOngkirCourier: strings.ToLower(strings.TrimSpace(input.RajaOngkirCourier)),
		RajaOngkirService: strings.ToUpper(strings.TrimSpace(input.RajaOngkirService)),
		SortOrder:         input.SortOrder,
		IsActive:          input.IsActive,
	}, nil
}
