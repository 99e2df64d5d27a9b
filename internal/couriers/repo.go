package couriers

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/akaynusantara/marketplace-backend/pkg/db/models"
)

// Repository is the persistence surface for courier records.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ListActive(ctx context.Context) ([]models.Courier, error)
	ListAll(ctx context.Context) ([]models.Courier, error)
	FindByKey(ctx context.Context, key string) (*models.Courier, error)
	Create(ctx context.Context, courier *models.Courier) (*models.Courier, error)
	Update(ctx context.Context, courier *models.Courier) (*models.Courier, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a courier repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) ListActive(ctx context.Context) ([]models.Courier, error) {
	var couriers []models.Courier
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("sort_order ASC").
		Order("label ASC").
		Find(&couriers).Error
	if err != nil {
		return nil, err
	}
	return couriers, nil
}

func (r *repository) ListAll(ctx context.Context) ([]models.Courier, error) {
	var couriers []models.Courier
	err := r.db.WithContext(ctx).
		Order("sort_order ASC").
		Order("label ASC").
		Find(&couriers).Error
	if err != nil {
		return nil, err
	}
	return couriers, nil
}

func (r *repository) FindByKey(ctx context.Context, key string) (*models.Courier, error) {
	var courier models.Courier
	err := r.db.WithContext(ctx).
		Where("key = ?", key).
		First(&courier).Error
	if err != nil {
		return nil, err
	}
	return &courier, nil
}

func (r *repository) Create(ctx context.Context, courier *models.Courier) (*models.Courier, error) {
	if err := r.db.WithContext(ctx).Create(courier).Error; err != nil {
		return nil, err
	}
	return courier, nil
}

func (r *repository) Update(ctx context.Context, courier *models.Courier) (*models.Courier, error) {
	if err := r.db.WithContext(ctx).Save(courier).Error; err != nil {
		return nil, err
	}
	return courier, nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Courier{}, "id = ?", id).Error
}
