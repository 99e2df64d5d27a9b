package address

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/akaynusantara/marketplace-backend/pkg/db/models"
	pkgerrors "github.com/akaynusantara/marketplace-backend/pkg/errors"
)

// Service manages a buyer's saved shipping addresses. The first saved address
// becomes the default automatically; checkout requires at least one.
type Service interface {
	List(ctx context.Context, userID uuid.UUID) ([]models.Address, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*models.Address, error)
	Default(ctx context.Context, userID uuid.UUID) (*models.Address, error)
	Create(ctx context.Context, userID uuid.UUID, input UpsertInput) (*models.Address, error)
	Update(ctx context.Context, userID, id uuid.UUID, input UpsertInput) (*models.Address, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	SetDefault(ctx context.Context, userID, id uuid.UUID) (*models.Address, error)
}

// UpsertInput carries the address form fields.
type UpsertInput struct {
	Label      string
	Recipient  string
	Phone      string
	ProvinceID string
	Province   string
	CityID     string
	City       string
	PostalCode string
	Street     string
	IsDefault  bool
}

type service struct {
	db   *gorm.DB
	repo Repository
}

// NewService builds the address service. The DB handle is used to make
// default-flag swaps transactional.
func NewService(db *gorm.DB, repo Repository) (Service, error) {
	if db == nil {
		return nil, fmt.Errorf("db handle is required")
	}
	if repo == nil {
		return nil, fmt.Errorf("address repository is required")
	}
	return &service{db: db, repo: repo}, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]models.Address, error) {
	addresses, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list addresses")
	}
	return addresses, nil
}

func (s *service) Get(ctx context.Context, userID, id uuid.UUID) (*models.Address, error) {
	addr, err := s.repo.FindByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find address")
	}
	return addr, nil
}

// Default returns the buyer's default address, or their oldest address when
// no default flag is set. A buyer with no addresses at all cannot check out.
func (s *service) Default(ctx context.Context, userID uuid.UUID) (*models.Address, error) {
	addr, err := s.repo.FindDefault(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "a saved address is required")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find default address")
	}
	return addr, nil
}

func (s *service) Create(ctx context.Context, userID uuid.UUID, input UpsertInput) (*models.Address, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	if err := validateInput(input); err != nil {
		return nil, err
	}

	existing, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list addresses")
	}
	makeDefault := input.IsDefault || len(existing) == 0

	var created *models.Address
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if makeDefault {
			if err := repo.ClearDefault(ctx, userID); err != nil {
				return err
			}
		}
		addr := addressFromInput(userID, input)
		addr.IsDefault = makeDefault
		created, err = repo.Create(ctx, addr)
		return err
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create address")
	}
	return created, nil
}

func (s *service) Update(ctx context.Context, userID, id uuid.UUID, input UpsertInput) (*models.Address, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	existing, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	var updated *models.Address
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if input.IsDefault && !existing.IsDefault {
			if err := repo.ClearDefault(ctx, userID); err != nil {
				return err
			}
		}
		next := addressFromInput(userID, input)
		next.ID = existing.ID
		next.IsDefault = existing.IsDefault || input.IsDefault
		next.CreatedAt = existing.CreatedAt
		updated, err = repo.Update(ctx, next)
		return err
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update address")
	}
	return updated, nil
}

func (s *service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete address")
	}
	return nil
}

func (s *service) SetDefault(ctx context.Context, userID, id uuid.UUID) (*models.Address, error) {
	existing, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.ClearDefault(ctx, userID); err != nil {
			return err
		}
		existing.IsDefault = true
		_, err := repo.Update(ctx, existing)
		return err
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "set default address")
	}
	return existing, nil
}

func validateInput(input UpsertInput) error {
	required := map[string]string{
		"label":       input.Label,
		"recipient":   input.Recipient,
		"phone":       input.Phone,
		"province_id": input.ProvinceID,
		"province":    input.Province,
		"city_id":     input.CityID,
		"city":        input.City,
		"postal_code": input.PostalCode,
		"street":      input.Street,
	}
	for field, value := range required {
		if strings.TrimSpace(value) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("%s is required", field))
		}
	}
	return nil
}

func addressFromInput(userID uuid.UUID, input UpsertInput) *models.Address {
	return &models.Address{
		UserID:     userID,
		Label:      strings.TrimSpace(input.Label),
		Recipient:  strings.TrimSpace(input.Recipient),
		Phone:      strings.TrimSpace(input.Phone),
		ProvinceID: strings.TrimSpace(input.ProvinceID),
		Province:   strings.TrimSpace(input.Province),
		CityID:     strings.TrimSpace(input.CityID),
		City:       strings.TrimSpace(input.City),
		PostalCode: strings.TrimSpace(input.PostalCode),
		Street:     strings.TrimSpace(input.Street),
	}
}
