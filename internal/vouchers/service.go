package vouchers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/akaynusantara/marketplace-backend/pkg/db"
	"github.com/akaynusantara/marketplace-backend/pkg/db/models"
	"github.com/akaynusantara/marketplace-backend/pkg/enums"
	pkgerrors "github.com/akaynusantara/marketplace-backend/pkg/errors"
)

// Service exposes voucher preview, buyer claims, and admin administration.
type Service interface {
	Preview(ctx context.Context, rawCode string, itemsTotalIDR int64) (Validation, error)
	Apply(ctx context.Context, rawCode string, itemsTotalIDR int64) (*models.Voucher, Validation, error)
	Claim(ctx context.Context, userID uuid.UUID, input ClaimInput) (*models.VoucherClaim, error)
	List(ctx context.Context) ([]models.Voucher, error)
	Create(ctx context.Context, input UpsertInput) (*models.Voucher, error)
	Update(ctx context.Context, id uuid.UUID, input UpsertInput) (*models.Voucher, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// ClaimInput identifies a voucher by id or code; code wins when both are set.
type ClaimInput struct {
	VoucherID *uuid.UUID
	Code      string
}

// UpsertInput carries the admin form fields for a voucher.
type UpsertInput struct {
	Code        string
	Kind        string
	Value       int64
	MinSpendIDR int64
	Active      bool
	ExpiresAt   *time.Time
}

type service struct {
	repo Repository
	now  func() time.Time
}

// NewService builds the voucher service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("voucher repository is required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

// Preview validates a voucher against an items subtotal without requiring
// authentication. An unknown or invalid code is a soft result, not an error.
func (s *service) Preview(ctx context.Context, rawCode string, itemsTotalIDR int64) (Validation, error) {
	_, validation, err := s.Apply(ctx, rawCode, itemsTotalIDR)
	return validation, err
}

// Apply resolves a code and validates it, returning the voucher row alongside
// the validation so checkout can persist the applied code. The voucher is nil
// whenever the validation is invalid.
func (s *service) Apply(ctx context.Context, rawCode string, itemsTotalIDR int64) (*models.Voucher, Validation, error) {
	code := NormalizeCode(rawCode)
	if code == "" {
		return nil, Validation{}, pkgerrors.New(pkgerrors.CodeValidation, "voucher code is required")
	}
	if itemsTotalIDR < 0 {
		return nil, Validation{}, pkgerrors.New(pkgerrors.CodeValidation, "items total must be non-negative")
	}

	voucher, err := s.repo.FindByCode(ctx, code)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, Validation{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find voucher")
	}

	validation := Validate(voucher, itemsTotalIDR, s.now())
	if !validation.Valid {
		return nil, validation, nil
	}
	return voucher, validation, nil
}

func (s *service) Claim(ctx context.Context, userID uuid.UUID, input ClaimInput) (*models.VoucherClaim, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}

	voucher, err := s.resolveClaimTarget(ctx, input)
	if err != nil {
		return nil, err
	}
	if !voucher.Active {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "voucher not found")
	}

	claimed, err := s.repo.HasClaim(ctx, userID, voucher.Code)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check voucher claim")
	}
	if claimed {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "voucher already claimed")
	}

	claim, err := s.repo.CreateClaim(ctx, &models.VoucherClaim{
		VoucherID: voucher.ID,
		UserID:    userID,
		Code:      voucher.Code,
	})
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "voucher already claimed")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create voucher claim")
	}
	return claim, nil
}

func (s *service) resolveClaimTarget(ctx context.Context, input ClaimInput) (*models.Voucher, error) {
	code := NormalizeCode(input.Code)
	switch {
	case code != "":
		voucher, err := s.repo.FindByCode(ctx, code)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "voucher not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find voucher")
		}
		return voucher, nil
	case input.VoucherID != nil && *input.VoucherID != uuid.Nil:
		voucher, err := s.repo.FindByID(ctx, *input.VoucherID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "voucher not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find voucher")
		}
		return voucher, nil
	default:
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "voucher id or code is required")
	}
}

func (s *service) List(ctx context.Context) ([]models.Voucher, error) {
	vouchers, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list vouchers")
	}
	return vouchers, nil
}

func (s *service) Create(ctx context.Context, input UpsertInput) (*models.Voucher, error) {
	voucher, err := voucherFromInput(input)
	if err != nil {
		return nil, err
	}
	created, err := s.repo.Create(ctx, voucher)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create voucher")
	}
	return created, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpsertInput) (*models.Voucher, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "voucher id is required")
	}
	voucher, err := voucherFromInput(input)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "voucher not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "find voucher")
	}

	existing.Code = voucher.Code
	existing.Kind = voucher.Kind
	existing.Value = voucher.Value
	existing.MinSpendIDR = voucher.MinSpendIDR
	existing.Active = voucher.Active
	existing.ExpiresAt = voucher.ExpiresAt

	updated, err := s.repo.Update(ctx, existing)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update voucher")
	}
	return updated, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "voucher id is required")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete voucher")
	}
	return nil
}

func voucherFromInput(input UpsertInput) (*models.Voucher, error) {
	code := NormalizeCode(input.Code)
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "voucher code is required")
	}
	kind, err := enums.ParseVoucherKind(input.Kind)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}
	if input.Value <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "voucher value must be positive")
	}
	if kind == enums.VoucherKindPercent && input.Value > 100 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "percent voucher value must be at most 100")
	}
	if input.MinSpendIDR < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "minimum spend must be non-negative")
	}

	return &models.Voucher{
		Code:        code,
		Kind:        kind,
		Value:       input.Value,
		MinSpendIDR: input.MinSpendIDR,
		Active:      input.Active,
		ExpiresAt:   input.ExpiresAt,
	}, nil
}
