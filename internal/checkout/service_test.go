package checkout

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/akaynusantara/marketplace-backend/internal/address"
	"github.com/akaynusantara/marketplace-backend/internal/couriers"
	"github.com/akaynusantara/marketplace-backend/internal/orders"
	"github.com/akaynusantara/marketplace-backend/internal/products"
	"github.com/akaynusantara/marketplace-backend/internal/shipping"
	"github.com/akaynusantara/marketplace-backend/internal/vouchers"
	"github.com/akaynusantara/marketplace-backend/pkg/config"
	"github.com/akaynusantara/marketplace-backend/pkg/db/models"
	"github.com/akaynusantara/marketplace-backend/pkg/enums"
	pkgerrors "github.com/akaynusantara/marketplace-backend/pkg/errors"
	"github.com/akaynusantara/marketplace-backend/pkg/pagination"
)

type stubTx struct{}

func (stubTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error { return fn(nil) }

type stubProducts struct {
	lines []products.ResolvedLine
	err   error
}

func (s *stubProducts) List(_ context.Context, _ pagination.Params) (products.ListResult, error) {
	return products.ListResult{}, nil
}

func (s *stubProducts) Resolve(_ context.Context, _ []products.ItemInput) ([]products.ResolvedLine, error) {
	return s.lines, s.err
}

type stubProductRepo struct {
	stockErr   map[uuid.UUID]error
	decrements map[uuid.UUID]int
}

func (s *stubProductRepo) WithTx(_ *gorm.DB) products.Repository { return s }

func (s *stubProductRepo) List(_ context.Context, _ *pagination.Cursor, _ int) ([]models.Product, error) {
	return nil, nil
}

func (s *stubProductRepo) FindActiveByIDs(_ context.Context, _ []uuid.UUID) ([]models.Product, error) {
	return nil, nil
}

func (s *stubProductRepo) Create(_ context.Context, p *models.Product) (*models.Product, error) {
	return p, nil
}

func (s *stubProductRepo) DecrementStock(_ context.Context, productID uuid.UUID, qty int) error {
	if err, ok := s.stockErr[productID]; ok {
		return err
	}
	if s.decrements == nil {
		s.decrements = map[uuid.UUID]int{}
	}
	s.decrements[productID] += qty
	return nil
}

type stubCouriers struct {
	catalog couriers.Catalog
}

func (s *stubCouriers) Catalog(_ context.Context) (couriers.Catalog, error) { return s.catalog, nil }

func (s *stubCouriers) Resolve(_ context.Context, rawKey string) (*models.Courier, error) {
	key := couriers.NormalizeKey(rawKey)
	if courier, ok := s.catalog.ByKey[key]; ok {
		return &courier, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "courier not found")
}

func (s *stubCouriers) List(_ context.Context) ([]models.Courier, error) { return nil, nil }

func (s *stubCouriers) Create(_ context.Context, _ couriers.UpsertInput) (*models.Courier, error) {
	return nil, nil
}

func (s *stubCouriers) Update(_ context.Context, _ uuid.UUID, _ couriers.UpsertInput) (*models.Courier, error) {
	return nil, nil
}

func (s *stubCouriers) Delete(_ context.Context, _ uuid.UUID) error { return nil }

type stubVouchers struct {
	voucher    *models.Voucher
	validation vouchers.Validation
}

func (s *stubVouchers) Preview(_ context.Context, _ string, _ int64) (vouchers.Validation, error) {
	return s.validation, nil
}

func (s *stubVouchers) Apply(_ context.Context, _ string, _ int64) (*models.Voucher, vouchers.Validation, error) {
	return s.voucher, s.validation, nil
}

func (s *stubVouchers) Claim(_ context.Context, _ uuid.UUID, _ vouchers.ClaimInput) (*models.VoucherClaim, error) {
	return nil, nil
}

func (s *stubVouchers) List(_ context.Context) ([]models.Voucher, error) { return nil, nil }

func (s *stubVouchers) Create(_ context.Context, _ vouchers.UpsertInput) (*models.Voucher, error) {
	return nil, nil
}

func (s *stubVouchers) Update(_ context.Context, _ uuid.UUID, _ vouchers.UpsertInput) (*models.Voucher, error) {
	return nil, nil
}

func (s *stubVouchers) Delete(_ context.Context, _ uuid.UUID) error { return nil }

type stubAddresses struct {
	addr *models.Address
	err  error
}

func (s *stubAddresses) List(_ context.Context, _ uuid.UUID) ([]models.Address, error) {
	return nil, nil
}

func (s *stubAddresses) Get(_ context.Context, _, _ uuid.UUID) (*models.Address, error) {
	return s.addr, s.err
}

func (s *stubAddresses) Default(_ context.Context, _ uuid.UUID) (*models.Address, error) {
	return s.addr, s.err
}

func (s *stubAddresses) Create(_ context.Context, _ uuid.UUID, _ address.UpsertInput) (*models.Address, error) {
	return nil, nil
}

func (s *stubAddresses) Update(_ context.Context, _, _ uuid.UUID, _ address.UpsertInput) (*models.Address, error) {
	return nil, nil
}

func (s *stubAddresses) Delete(_ context.Context, _, _ uuid.UUID) error { return nil }

func (s *stubAddresses) SetDefault(_ context.Context, _, _ uuid.UUID) (*models.Address, error) {
	return nil, nil
}

type stubOrdersRepo struct {
	openTotals []int64
	created    *models.Order
	items      []models.OrderItem
}

func (s *stubOrdersRepo) WithTx(_ *gorm.DB) orders.Repository { return s }

func (s *stubOrdersRepo) Create(_ context.Context, order *models.Order) (*models.Order, error) {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	s.created = order
	return order, nil
}

func (s *stubOrdersRepo) CreateItems(_ context.Context, items []models.OrderItem) error {
	s.items = items
	return nil
}

func (s *stubOrdersRepo) FindByIDForBuyer(_ context.Context, _, _ uuid.UUID) (*models.Order, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubOrdersRepo) ListByBuyer(_ context.Context, _ uuid.UUID, _ *pagination.Cursor, _ int) ([]models.Order, error) {
	return nil, nil
}

func (s *stubOrdersRepo) ListOpenTransferTotals(_ context.Context) ([]int64, error) {
	return s.openTotals, nil
}

func (s *stubOrdersRepo) MarkCanceled(_ context.Context, _ uuid.UUID, _ time.Time) error {
	return nil
}

type stubCalculator struct {
	result shipping.Result
	err    error
	groups []shipping.Group
}

func (s *stubCalculator) Calculate(_ context.Context, groups []shipping.Group, courier *models.Courier, _ shipping.Destination) (shipping.Result, error) {
	s.groups = groups
	if s.err != nil {
		return shipping.Result{}, s.err
	}
	if s.result.CostIDR == 0 && courier != nil {
		return shipping.Result{CostIDR: courier.FallbackCostIDR * int64(len(groups)), UsedFallback: true}, nil
	}
	return s.result, nil
}

type fixture struct {
	svc         Service
	products    *stubProducts
	productRepo *stubProductRepo
	vouchers    *stubVouchers
	ordersRepo  *stubOrdersRepo
	calculator  *stubCalculator
}

func testCatalog() couriers.Catalog {
	courier := models.Courier{
		Key:             "JNE_REG",
		Label:           "JNE Regular",
		FallbackCostIDR: 15000,
		IsActive:        true,
	}
	return couriers.Catalog{
		Ordered: []models.Courier{courier},
		ByKey:   map[string]models.Courier{courier.Key: courier},
	}
}

func testLines(qty int, priceIDR int64) ([]products.ResolvedLine, uuid.UUID) {
	productID := uuid.New()
	return []products.ResolvedLine{
		{
			Product: models.Product{
				ID:       productID,
				StoreID:  uuid.New(),
				Title:    "Kopi Gayo 250g",
				PriceIDR: priceIDR,
				Stock:    qty + 5,
				IsActive: true,
			},
			Qty: qty,
		},
	}, productID
}

func newFixture(t *testing.T, mutate func(*fixture)) *fixture {
	t.Helper()

	lines, _ := testLines(3, 50000)
	f := &fixture{
		products:    &stubProducts{lines: lines},
		productRepo: &stubProductRepo{},
		vouchers:    &stubVouchers{},
		ordersRepo:  &stubOrdersRepo{},
		calculator:  &stubCalculator{},
	}
	addrs := &stubAddresses{addr: &models.Address{
		ID:       uuid.New(),
		CityID:   "153",
		City:     "Jakarta Barat",
		Province: "DKI Jakarta",
	}}
	courierSvc := &stubCouriers{catalog: testCatalog()}
	if mutate != nil {
		mutate(f)
	}

	svc, err := NewService(
		stubTx{},
		f.products,
		f.productRepo,
		courierSvc,
		f.vouchers,
		addrs,
		f.ordersRepo,
		f.calculator,
		config.ShippingConfig{DefaultOriginCityID: "23", DefaultOriginCity: "Bandung"},
		config.CheckoutConfig{ItemWeightGrams: 500, UniqueCodeMax: 899, UniqueCodeRolls: 3},
		nil,
	)
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}
	f.svc = svc
	return f
}

func TestPlaceOrder_TransferEndToEnd(t *testing.T) {
	f := newFixture(t, func(f *fixture) {
		code := "AKAY10"
		f.vouchers.voucher = &models.Voucher{Code: code, Kind: enums.VoucherKindPercent, Value: 10, Active: true}
		f.vouchers.validation = vouchers.Validation{Valid: true, DiscountIDR: 15000, Message: "voucher applied"}
	})

	result, err := f.svc.PlaceOrder(context.Background(), uuid.New(), PlaceOrderInput{
		Items:         []products.ItemInput{{ProductID: uuid.New(), Qty: 3}},
		CourierKey:    "jne reg",
		VoucherCode:   "akay10",
		PaymentMethod: "transfer",
	})
	if err != nil {
		t.Fatalf("PlaceOrder returned error: %v", err)
	}

	order := result.Order
	if order.ItemsTotalIDR != 150000 {
		t.Fatalf("items total = %d, want 150000", order.ItemsTotalIDR)
	}
	if order.VoucherDiscountIDR != 15000 || order.VoucherCode == nil || *order.VoucherCode != "AKAY10" {
		t.Fatalf("unexpected voucher fields: %+v", order)
	}
	if order.ShippingCostIDR != 15000 || !order.ShippingUsedFallback {
		t.Fatalf("unexpected shipping fields: %+v", order)
	}
	if order.UniqueCodeIDR < 1 || order.UniqueCodeIDR > 899 {
		t.Fatalf("unique code %d out of [1,899]", order.UniqueCodeIDR)
	}
	want := order.ItemsTotalIDR - order.VoucherDiscountIDR + order.ShippingCostIDR + order.UniqueCodeIDR
	if order.TotalIDR != want {
		t.Fatalf("total invariant broken: %d != %d", order.TotalIDR, want)
	}
	if order.CourierKey != "JNE_REG" {
		t.Fatalf("courier key = %q", order.CourierKey)
	}
	if len(f.ordersRepo.items) != 1 || f.ordersRepo.items[0].UnitPriceIDR != 50000 {
		t.Fatalf("unexpected item snapshots: %+v", f.ordersRepo.items)
	}
}

func TestPlaceOrder_CODHasNoUniqueCode(t *testing.T) {
	f := newFixture(t, nil)

	result, err := f.svc.PlaceOrder(context.Background(), uuid.New(), PlaceOrderInput{
		Items:         []products.ItemInput{{ProductID: uuid.New(), Qty: 3}},
		PaymentMethod: "cod",
	})
	if err != nil {
		t.Fatalf("PlaceOrder returned error: %v", err)
	}
	if result.Order.UniqueCodeIDR != 0 {
		t.Fatalf("cod order must not carry a unique code, got %d", result.Order.UniqueCodeIDR)
	}
	if result.Order.TotalIDR != 150000+15000 {
		t.Fatalf("total = %d, want 165000", result.Order.TotalIDR)
	}
}

func TestPlaceOrder_InvalidVoucherIsSoft(t *testing.T) {
	f := newFixture(t, func(f *fixture) {
		f.vouchers.validation = vouchers.Validation{Message: "voucher expired"}
	})

	result, err := f.svc.PlaceOrder(context.Background(), uuid.New(), PlaceOrderInput{
		Items:         []products.ItemInput{{ProductID: uuid.New(), Qty: 3}},
		VoucherCode:   "OLD",
		PaymentMethod: "cod",
	})
	if err != nil {
		t.Fatalf("invalid voucher must not block checkout, got %v", err)
	}
	if result.Order.VoucherDiscountIDR != 0 || result.Order.VoucherCode != nil {
		t.Fatalf("unexpected voucher fields: %+v", result.Order)
	}
	if result.VoucherMessage != "voucher expired" {
		t.Fatalf("voucher message = %q", result.VoucherMessage)
	}
}

func TestPlaceOrder_MissingAddressIsHardFailure(t *testing.T) {
	f := newFixture(t, nil)
	svc, err := NewService(
		stubTx{},
		f.products,
		f.productRepo,
		&stubCouriers{catalog: testCatalog()},
		f.vouchers,
		&stubAddresses{err: pkgerrors.New(pkgerrors.CodeValidation, "a saved address is required")},
		f.ordersRepo,
		f.calculator,
		config.ShippingConfig{},
		config.CheckoutConfig{ItemWeightGrams: 500, UniqueCodeMax: 899, UniqueCodeRolls: 3},
		nil,
	)
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}

	_, err = svc.PlaceOrder(context.Background(), uuid.New(), PlaceOrderInput{
		Items:         []products.ItemInput{{ProductID: uuid.New(), Qty: 1}},
		PaymentMethod: "cod",
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestPlaceOrder_EmptyCatalogIsConfigurationError(t *testing.T) {
	f := newFixture(t, nil)
	svc, err := NewService(
		stubTx{},
		f.products,
		f.productRepo,
		&stubCouriers{catalog: couriers.Catalog{ByKey: map[string]models.Courier{}}},
		f.vouchers,
		&stubAddresses{addr: &models.Address{ID: uuid.New(), CityID: "153", City: "Jakarta Barat"}},
		f.ordersRepo,
		f.calculator,
		config.ShippingConfig{},
		config.CheckoutConfig{ItemWeightGrams: 500, UniqueCodeMax: 899, UniqueCodeRolls: 3},
		nil,
	)
	if err != nil {
		t.Fatalf("NewService returned error: %v", err)
	}

	_, err = svc.PlaceOrder(context.Background(), uuid.New(), PlaceOrderInput{
		Items:         []products.ItemInput{{ProductID: uuid.New(), Qty: 1}},
		PaymentMethod: "cod",
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConfiguration {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestPlaceOrder_StockRaceConflicts(t *testing.T) {
	lines, productID := testLines(2, 50000)
	f := newFixture(t, func(f *fixture) {
		f.products.lines = lines
		f.productRepo.stockErr = map[uuid.UUID]error{productID: gorm.ErrRecordNotFound}
	})

	_, err := f.svc.PlaceOrder(context.Background(), uuid.New(), PlaceOrderInput{
		Items:         []products.ItemInput{{ProductID: productID, Qty: 2}},
		PaymentMethod: "cod",
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestQuote_ReturnsFallbackDetails(t *testing.T) {
	f := newFixture(t, func(f *fixture) {
		f.calculator.result = shipping.Result{CostIDR: 15000, UsedFallback: true, FailureReason: shipping.ReasonLookupFailed}
	})

	got, err := f.svc.Quote(context.Background(), uuid.New(), QuoteInput{
		Items:      []products.ItemInput{{ProductID: uuid.New(), Qty: 3}},
		CourierKey: "JNE_REG",
	})
	if err != nil {
		t.Fatalf("Quote returned error: %v", err)
	}
	if !got.UsedFallback || got.CostIDR != 15000 || got.FailureReason != shipping.ReasonLookupFailed {
		t.Fatalf("unexpected quote: %+v", got)
	}
	if got.CourierKey != "JNE_REG" {
		t.Fatalf("courier key = %q", got.CourierKey)
	}
}
