package routes

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/akaynusantara/marketplace-backend/internal/address"
	"github.com/akaynusantara/marketplace-backend/internal/checkout"
	"github.com/akaynusantara/marketplace-backend/internal/couriers"
	"github.com/akaynusantara/marketplace-backend/internal/orders"
	"github.com/akaynusantara/marketplace-backend/internal/products"
	"github.com/akaynusantara/marketplace-backend/internal/vouchers"
	pkgauth "github.com/akaynusantara/marketplace-backend/pkg/auth"
	"github.com/akaynusantara/marketplace-backend/pkg/auth/session"
	"github.com/akaynusantara/marketplace-backend/pkg/config"
	"github.com/akaynusantara/marketplace-backend/pkg/db/models"
	"github.com/akaynusantara/marketplace-backend/pkg/enums"
	"github.com/akaynusantara/marketplace-backend/pkg/pagination"
)

type allowAllSessions struct{}

func (allowAllSessions) HasSession(ctx context.Context, accessID string) (bool, error) {
	return true, nil
}

type stubCouriers struct{}

func (stubCouriers) Catalog(ctx context.Context) (couriers.Catalog, error) {
	row := models.Courier{ID: uuid.New(), Key: "jne_reg", Label: "JNE REG", FallbackCostIDR: 15000}
	return couriers.Catalog{Ordered: []models.Courier{row}, ByKey: map[string]models.Courier{row.Key: row}}, nil
}

func (stubCouriers) Resolve(ctx context.Context, rawKey string) (*models.Courier, error) {
	return nil, nil
}

func (stubCouriers) List(ctx context.Context) ([]models.Courier, error) {
	return []models.Courier{{Key: "jne_reg"}}, nil
}

func (stubCouriers) Create(ctx context.Context, input couriers.UpsertInput) (*models.Courier, error) {
	return &models.Courier{Key: "jne_reg"}, nil
}

func (stubCouriers) Update(ctx context.Context, id uuid.UUID, input couriers.UpsertInput) (*models.Courier, error) {
	return &models.Courier{ID: id, Key: "jne_reg"}, nil
}

func (stubCouriers) Delete(ctx context.Context, id uuid.UUID) error { return nil }

type stubProducts struct{}

func (stubProducts) List(ctx context.Context, params pagination.Params) (products.ListResult, error) {
	return products.ListResult{}, nil
}

func (stubProducts) Resolve(ctx context.Context, items []products.ItemInput) ([]products.ResolvedLine, error) {
	return nil, nil
}

type stubVouchers struct{}

func (stubVouchers) Preview(ctx context.Context, rawCode string, itemsTotalIDR int64) (vouchers.Validation, error) {
	return vouchers.Validation{Valid: true, DiscountIDR: 1000, Message: "voucher applied"}, nil
}

func (stubVouchers) Apply(ctx context.Context, rawCode string, itemsTotalIDR int64) (*models.Voucher, vouchers.Validation, error) {
	return nil, vouchers.Validation{}, nil
}

func (stubVouchers) Claim(ctx context.Context, userID uuid.UUID, input vouchers.ClaimInput) (*models.VoucherClaim, error) {
	return &models.VoucherClaim{ID: uuid.New(), UserID: userID, Code: input.Code}, nil
}

func (stubVouchers) List(ctx context.Context) ([]models.Voucher, error) { return nil, nil }

func (stubVouchers) Create(ctx context.Context, input vouchers.UpsertInput) (*models.Voucher, error) {
	return &models.Voucher{Code: input.Code}, nil
}

func (stubVouchers) Update(ctx context.Context, id uuid.UUID, input vouchers.UpsertInput) (*models.Voucher, error) {
	return &models.Voucher{ID: id}, nil
}

func (stubVouchers) Delete(ctx context.Context, id uuid.UUID) error { return nil }

type stubAddresses struct{}

func (stubAddresses) List(ctx context.Context, userID uuid.UUID) ([]models.Address, error) {
	return nil, nil
}

func (stubAddresses) Get(ctx context.Context, userID, id uuid.UUID) (*models.Address, error) {
	return nil, nil
}

func (stubAddresses) Default(ctx context.Context, userID uuid.UUID) (*models.Address, error) {
	return nil, nil
}

func (stubAddresses) Create(ctx context.Context, userID uuid.UUID, input address.UpsertInput) (*models.Address, error) {
	return &models.Address{UserID: userID}, nil
}

func (stubAddresses) Update(ctx context.Context, userID, id uuid.UUID, input address.UpsertInput) (*models.Address, error) {
	return &models.Address{ID: id, UserID: userID}, nil
}

func (stubAddresses) Delete(ctx context.Context, userID, id uuid.UUID) error { return nil }

func (stubAddresses) SetDefault(ctx context.Context, userID, id uuid.UUID) (*models.Address, error) {
	return &models.Address{ID: id, UserID: userID, IsDefault: true}, nil
}

type stubCheckout struct{}

func (stubCheckout) Quote(ctx context.Context, buyerID uuid.UUID, input checkout.QuoteInput) (checkout.QuoteResult, error) {
	return checkout.QuoteResult{CourierKey: "jne_reg", CostIDR: 15000}, nil
}

func (stubCheckout) PlaceOrder(ctx context.Context, buyerID uuid.UUID, input checkout.PlaceOrderInput) (checkout.PlaceOrderResult, error) {
	return checkout.PlaceOrderResult{Order: &models.Order{
		ID:            uuid.New(),
		BuyerID:       buyerID,
		Status:        enums.OrderStatusPending,
		PaymentMethod: enums.PaymentMethodCOD,
	}}, nil
}

type stubOrders struct{}

func (stubOrders) List(ctx context.Context, buyerID uuid.UUID, params pagination.Params) (orders.ListResult, error) {
	return orders.ListResult{}, nil
}

func (stubOrders) Detail(ctx context.Context, buyerID, orderID uuid.UUID) (*models.Order, error) {
	return &models.Order{ID: orderID, BuyerID: buyerID}, nil
}

func (stubOrders) Cancel(ctx context.Context, buyerID, orderID uuid.UUID) (*models.Order, error) {
	return &models.Order{ID: orderID, BuyerID: buyerID, Status: enums.OrderStatusCanceled}, nil
}

func newTestRouter(t *testing.T) (http.Handler, config.JWTConfig) {
	t.Helper()
	cfg := &config.Config{
		App:  config.AppConfig{Env: "test"},
		JWT:  config.JWTConfig{Secret: "secret", Issuer: "issuer", ExpirationMinutes: 60},
		CORS: config.CORSConfig{AllowedOrigins: []string{"*"}},
	}
	handler := NewRouter(Deps{
		Config:    cfg,
		Sessions:  allowAllSessions{},
		Registry:  prometheus.NewRegistry(),
		Couriers:  stubCouriers{},
		Products:  stubProducts{},
		Vouchers:  stubVouchers{},
		Addresses: stubAddresses{},
		Checkout:  stubCheckout{},
		Orders:    stubOrders{},
	})
	return handler, cfg.JWT
}

func mintToken(t *testing.T, cfg config.JWTConfig, role enums.UserRole) string {
	t.Helper()
	token, err := pkgauth.MintAccessToken(cfg, time.Now(), pkgauth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   role,
		JTI:    session.NewAccessID(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestRouterPublicCouriers(t *testing.T) {
	handler, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/couriers", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body %s", resp.Code, resp.Body.String())
	}
}

func TestRouterPublicVoucherPreview(t *testing.T) {
	handler, _ := newTestRouter(t)

	body := []byte(`{"code": "AKAY10", "items_total_idr": 100000}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/vouchers/preview", bytes.NewReader(body))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body %s", resp.Code, resp.Body.String())
	}
}

func TestRouterCheckoutRequiresAuth(t *testing.T) {
	handler, _ := newTestRouter(t)

	body := []byte(`{"items": [{"product_id": "` + uuid.NewString() + `", "qty": 1}], "payment_method": "cod"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", bytes.NewReader(body))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestRouterCheckoutBuyerToken(t *testing.T) {
	handler, jwtCfg := newTestRouter(t)

	body := []byte(`{"items": [{"product_id": "` + uuid.NewString() + `", "qty": 1}], "payment_method": "cod"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+mintToken(t, jwtCfg, enums.UserRoleBuyer))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d body %s", resp.Code, resp.Body.String())
	}
}

func TestRouterCheckoutRejectsNonBuyer(t *testing.T) {
	handler, jwtCfg := newTestRouter(t)

	body := []byte(`{"items": [{"product_id": "` + uuid.NewString() + `", "qty": 1}], "payment_method": "cod"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+mintToken(t, jwtCfg, enums.UserRoleAdmin))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}

func TestRouterAdminCouriersRequiresAdminRole(t *testing.T) {
	handler, jwtCfg := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/couriers", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, jwtCfg, enums.UserRoleBuyer))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/admin/v1/couriers", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, jwtCfg, enums.UserRoleAdmin))
	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body %s", resp.Code, resp.Body.String())
	}
}

func TestRouterMetricsEndpoint(t *testing.T) {
	handler, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestRouterHealthLive(t *testing.T) {
	handler, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}
