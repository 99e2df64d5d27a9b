package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/akaynusantara/marketplace-backend/api/controllers"
	"github.com/akaynusantara/marketplace-backend/api/middleware"
	"github.com/akaynusantara/marketplace-backend/internal/address"
	"github.com/akaynusantara/marketplace-backend/internal/auth"
	checkoutsvc "github.com/akaynusantara/marketplace-backend/internal/checkout"
	"github.com/akaynusantara/marketplace-backend/internal/couriers"
	"github.com/akaynusantara/marketplace-backend/internal/orders"
	"github.com/akaynusantara/marketplace-backend/internal/products"
	"github.com/akaynusantara/marketplace-backend/internal/vouchers"
	"github.com/akaynusantara/marketplace-backend/pkg/auth/session"
	"github.com/akaynusantara/marketplace-backend/pkg/config"
	"github.com/akaynusantara/marketplace-backend/pkg/enums"
	"github.com/akaynusantara/marketplace-backend/pkg/logger"
	"github.com/akaynusantara/marketplace-backend/pkg/redis"
)

// Deps bundles everything the HTTP surface needs. cmd/api owns construction;
// the router only wires.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       controllers.Pinger
	Redis    *redis.Client
	Sessions session.AccessSessionChecker
	Registry *prometheus.Registry

	Auth      auth.Service
	Couriers  couriers.Service
	Products  products.Service
	Vouchers  vouchers.Service
	Addresses address.Service
	Checkout  checkoutsvc.Service
	Orders    orders.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"postgres": deps.DB,
			"redis":    pingerOrNil(deps.Redis),
		}))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).Post("/login", controllers.AuthLogin(deps.Auth, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, deps.Redis, logg)).Post("/register", controllers.AuthRegister(deps.Auth, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.Auth, logg))
		r.With(middleware.Auth(cfg.JWT, deps.Sessions, logg)).Post("/logout", controllers.AuthLogout(deps.Auth, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		// Public catalog surface.
		r.Get("/couriers", controllers.CourierList(deps.Couriers, logg))
		r.Get("/products", controllers.ProductList(deps.Products, logg))
		r.Post("/vouchers/preview", controllers.VoucherPreview(deps.Vouchers, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))

			r.Post("/vouchers/claim", controllers.VoucherClaim(deps.Vouchers, logg))

			r.Route("/addresses", func(r chi.Router) {
				r.Get("/", controllers.AddressList(deps.Addresses, logg))
				r.Post("/", controllers.AddressCreate(deps.Addresses, logg))
				r.Put("/{addressId}", controllers.AddressUpdate(deps.Addresses, logg))
				r.Delete("/{addressId}", controllers.AddressDelete(deps.Addresses, logg))
				r.Post("/{addressId}/default", controllers.AddressSetDefault(deps.Addresses, logg))
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(string(enums.UserRoleBuyer), logg))
				r.Post("/shipping/quote", controllers.ShippingQuote(deps.Checkout, logg))
				r.Post("/checkout", controllers.Checkout(deps.Checkout, logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", controllers.OrderList(deps.Orders, logg))
				r.Get("/{orderId}", controllers.OrderDetail(deps.Orders, logg))
				r.Post("/{orderId}/cancel", controllers.OrderCancel(deps.Orders, logg))
			})
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))
		r.Use(middleware.RequireRole(string(enums.UserRoleAdmin), logg))

		r.Route("/couriers", func(r chi.Router) {
			r.Get("/", controllers.AdminCourierList(deps.Couriers, logg))
			r.Post("/", controllers.AdminCourierCreate(deps.Couriers, logg))
			r.Put("/{courierId}", controllers.AdminCourierUpdate(deps.Couriers, logg))
			r.Delete("/{courierId}", controllers.AdminCourierDelete(deps.Couriers, logg))
		})

		r.Route("/vouchers", func(r chi.Router) {
			r.Get("/", controllers.AdminVoucherList(deps.Vouchers, logg))
			r.Post("/", controllers.AdminVoucherCreate(deps.Vouchers, logg))
			r.Put("/{voucherId}", controllers.AdminVoucherUpdate(deps.Vouchers, logg))
			r.Delete("/{voucherId}", controllers.AdminVoucherDelete(deps.Vouchers, logg))
		})
	})

	return r
}

// pingerOrNil keeps a typed-nil Redis client from masquerading as a live
// dependency in the readiness check.
func pingerOrNil(client *redis.Client) controllers.Pinger {
	if client == nil {
		return nil
	}
	return client
}
