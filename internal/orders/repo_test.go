package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/akaynusantara/marketplace-backend/pkg/db/models"
	"github.com/akaynusantara/marketplace-backend/pkg/enums"
	"github.com/akaynusantara/marketplace-backend/pkg/pagination"
)

func setupOrdersTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	ordersTable := `
CREATE TABLE IF NOT EXISTS orders (
  id TEXT PRIMARY KEY,
  buyer_id TEXT NOT NULL,
  address_id TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  payment_method TEXT NOT NULL,
  items_total_idr INTEGER NOT NULL,
  voucher_code TEXT,
  voucher_discount_idr INTEGER NOT NULL DEFAULT 0,
  courier_key TEXT NOT NULL,
  shipping_cost_idr INTEGER NOT NULL,
  shipping_used_fallback INTEGER NOT NULL DEFAULT 0,
  unique_code_idr INTEGER NOT NULL DEFAULT 0,
  total_idr INTEGER NOT NULL,
  canceled_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	orderItems := `
CREATE TABLE IF NOT EXISTS order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  store_id TEXT NOT NULL,
  warehouse_id TEXT,
  title TEXT NOT NULL,
  unit_price_idr INTEGER NOT NULL,
  qty INTEGER NOT NULL,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(ordersTable).Error)
	require.NoError(t, db.Exec(orderItems).Error)
	return db
}

func seedOrder(t *testing.T, repo Repository, buyerID uuid.UUID, createdAt time.Time, mutate func(*models.Order)) *models.Order {
	t.Helper()
	order := &models.Order{
		ID:              uuid.New(),
		BuyerID:         buyerID,
		AddressID:       uuid.New(),
		Status:          enums.OrderStatusPending,
		PaymentMethod:   enums.PaymentMethodTransfer,
		ItemsTotalIDR:   150000,
		CourierKey:      "JNE_REG",
		ShippingCostIDR: 15000,
		UniqueCodeIDR:   123,
		TotalIDR:        165123,
		CreatedAt:       createdAt,
	}
	if mutate != nil {
		mutate(order)
	}
	created, err := repo.Create(context.Background(), order)
	require.NoError(t, err)
	return created
}

func TestCreateAndFindWithItems(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	buyerID := uuid.New()

	order := seedOrder(t, repo, buyerID, time.Now(), nil)
	require.NoError(t, repo.CreateItems(ctx, []models.OrderItem{
		{OrderID: order.ID, ProductID: uuid.New(), StoreID: uuid.New(), Title: "Kopi Gayo 250g", UnitPriceIDR: 50000, Qty: 3},
	}))

	found, err := repo.FindByIDForBuyer(ctx, buyerID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.TotalIDR, found.TotalIDR)
	require.Len(t, found.Items, 1)
	assert.Equal(t, "Kopi Gayo 250g", found.Items[0].Title)
}

func TestFindByIDForBuyer_WrongBuyer(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)

	order := seedOrder(t, repo, uuid.New(), time.Now(), nil)

	_, err := repo.FindByIDForBuyer(context.Background(), uuid.New(), order.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestListByBuyer_CursorPagination(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	buyerID := uuid.New()

	base := time.Now().Add(-time.Hour).Truncate(time.Second)
	for i := 0; i < 3; i++ {
		seedOrder(t, repo, buyerID, base.Add(time.Duration(i)*time.Minute), nil)
	}

	first, err := repo.ListByBuyer(ctx, buyerID, nil, 2)
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.True(t, first[0].CreatedAt.After(first[1].CreatedAt))

	cursor := &pagination.Cursor{CreatedAt: first[1].CreatedAt, ID: first[1].ID}
	rest, err := repo.ListByBuyer(ctx, buyerID, cursor, 2)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.True(t, rest[0].CreatedAt.Before(first[1].CreatedAt))
}

func TestListOpenTransferTotals(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	buyerID := uuid.New()

	seedOrder(t, repo, buyerID, time.Now(), func(o *models.Order) { o.TotalIDR = 165123 })
	seedOrder(t, repo, buyerID, time.Now(), func(o *models.Order) {
		o.TotalIDR = 99000
		o.PaymentMethod = enums.PaymentMethodCOD
	})
	seedOrder(t, repo, buyerID, time.Now(), func(o *models.Order) {
		o.TotalIDR = 88000
		o.Status = enums.OrderStatusPaid
	})

	totals, err := repo.ListOpenTransferTotals(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int64{165123}, totals)
}

func TestMarkCanceled(t *testing.T) {
	db := setupOrdersTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	buyerID := uuid.New()

	order := seedOrder(t, repo, buyerID, time.Now(), nil)
	require.NoError(t, repo.MarkCanceled(ctx, order.ID, time.Now()))

	found, err := repo.FindByIDForBuyer(ctx, buyerID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusCanceled, found.Status)
	assert.NotNil(t, found.CanceledAt)
}
