package checkout

import (
	"context"
	"fmt"

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
	"github.com/akaynusantara/marketplace-backend/pkg/logger"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type shippingCalculator interface {
	Calculate(ctx context.Context, groups []shipping.Group, courier *models.Courier, dest shipping.Destination) (shipping.Result, error)
}

// QuoteInput is the shipping-quote request: the cart plus a courier choice.
type QuoteInput struct {
	Items      []products.ItemInput
	CourierKey string
}

// QuoteResult is the buyer-visible shipping quote.
type QuoteResult struct {
	CourierKey    string
	CostIDR       int64
	UsedFallback  bool
	FailureReason string
}

// PlaceOrderInput carries everything needed to price and persist an order.
type PlaceOrderInput struct {
	Items         []products.ItemInput
	CourierKey    string
	VoucherCode   string
	PaymentMethod string
	AddressID     *uuid.UUID
}

// PlaceOrderResult pairs the persisted order with the soft voucher outcome.
type PlaceOrderResult struct {
	Order          *models.Order
	VoucherMessage string
}

// Service derives shipping quotes and assembles order pricing. Preview and
// commit share the same derivation so the persisted numbers always match
// what the buyer saw.
type Service interface {
	Quote(ctx context.Context, buyerID uuid.UUID, input QuoteInput) (QuoteResult, error)
	PlaceOrder(ctx context.Context, buyerID uuid.UUID, input PlaceOrderInput) (PlaceOrderResult, error)
}

type service struct {
	tx          txRunner
	products    products.Service
	productRepo products.Repository
	couriers    couriers.Service
	vouchers    vouchers.Service
	addresses   address.Service
	ordersRepo  orders.Repository
	calculator  shippingCalculator
	shipCfg     config.ShippingConfig
	checkoutCfg config.CheckoutConfig
	logg        *logger.Logger
}

// NewService builds the checkout service.
func NewService(
	tx txRunner,
	productSvc products.Service,
	productRepo products.Repository,
	courierSvc couriers.Service,
	voucherSvc vouchers.Service,
	addressSvc address.Service,
	ordersRepo orders.Repository,
	calculator shippingCalculator,
	shipCfg config.ShippingConfig,
	checkoutCfg config.CheckoutConfig,
	logg *logger.Logger,
) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if productSvc == nil {
		return nil, fmt.Errorf("product service required")
	}
	if productRepo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if courierSvc == nil {
		return nil, fmt.Errorf("courier service required")
	}
	if voucherSvc == nil {
		return nil, fmt.Errorf("voucher service required")
	}
	if addressSvc == nil {
		return nil, fmt.Errorf("address service required")
	}
	if ordersRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if calculator == nil {
		return nil, fmt.Errorf("shipping calculator required")
	}
	return &service{
		tx:          tx,
		products:    productSvc,
		productRepo: productRepo,
		couriers:    courierSvc,
		vouchers:    voucherSvc,
		addresses:   addressSvc,
		ordersRepo:  ordersRepo,
		calculator:  calculator,
		shipCfg:     shipCfg,
		checkoutCfg: checkoutCfg,
		logg:        logg,
	}, nil
}

// Quote prices shipping for the cart against the buyer's default address.
func (s *service) Quote(ctx context.Context, buyerID uuid.UUID, input QuoteInput) (QuoteResult, error) {
	if buyerID == uuid.Nil {
		return QuoteResult{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}

	dest, err := s.destinationFor(ctx, buyerID, nil)
	if err != nil {
		return QuoteResult{}, err
	}
	lines, err := s.products.Resolve(ctx, input.Items)
	if err != nil {
		return QuoteResult{}, err
	}

	courier, groups, err := s.prepareShipment(ctx, lines, input.CourierKey)
	if err != nil {
		return QuoteResult{}, err
	}
	result, err := s.calculator.Calculate(ctx, groups, courier, dest.Destination)
	if err != nil {
		return QuoteResult{}, err
	}
	return QuoteResult{
		CourierKey:    courier.Key,
		CostIDR:       result.CostIDR,
		UsedFallback:  result.UsedFallback,
		FailureReason: result.FailureReason,
	}, nil
}

// PlaceOrder re-derives the full pricing breakdown and persists the order and
// its item snapshots in one transaction, decrementing stock as it goes.
func (s *service) PlaceOrder(ctx context.Context, buyerID uuid.UUID, input PlaceOrderInput) (PlaceOrderResult, error) {
	if buyerID == uuid.Nil {
		return PlaceOrderResult{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	method, err := enums.ParsePaymentMethod(input.PaymentMethod)
	if err != nil {
		return PlaceOrderResult{}, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}

	dest, err := s.destinationFor(ctx, buyerID, input.AddressID)
	if err != nil {
		return PlaceOrderResult{}, err
	}
	lines, err := s.products.Resolve(ctx, input.Items)
	if err != nil {
		return PlaceOrderResult{}, err
	}
	itemsTotal := products.SubtotalIDR(lines)

	var (
		voucherCode    *string
		discount       int64
		voucherMessage string
	)
	if input.VoucherCode != "" {
		voucher, validation, err := s.vouchers.Apply(ctx, input.VoucherCode, itemsTotal)
		if err != nil {
			return PlaceOrderResult{}, err
		}
		voucherMessage = validation.Message
		if validation.Valid {
			discount = validation.DiscountIDR
			voucherCode = &voucher.Code
		}
	}

	courier, groups, err := s.prepareShipment(ctx, lines, input.CourierKey)
	if err != nil {
		return PlaceOrderResult{}, err
	}
	shippingResult, err := s.calculator.Calculate(ctx, groups, courier, dest.Destination)
	if err != nil {
		return PlaceOrderResult{}, err
	}

	var uniqueCode int64
	if method == enums.PaymentMethodTransfer {
		base := itemsTotal - discount + shippingResult.CostIDR
		openTotals, err := s.ordersRepo.ListOpenTransferTotals(ctx)
		if err != nil {
			return PlaceOrderResult{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list open transfer totals")
		}
		uniqueCode, err = pickUniqueCode(int64(s.checkoutCfg.UniqueCodeMax), s.checkoutCfg.UniqueCodeRolls, base, openTotals)
		if err != nil {
			return PlaceOrderResult{}, err
		}
	}

	order := &models.Order{
		BuyerID:              buyerID,
		AddressID:            dest.addressID,
		Status:               enums.OrderStatusPending,
		PaymentMethod:        method,
		ItemsTotalIDR:        itemsTotal,
		VoucherCode:          voucherCode,
		VoucherDiscountIDR:   discount,
		CourierKey:           courier.Key,
		ShippingCostIDR:      shippingResult.CostIDR,
		ShippingUsedFallback: shippingResult.UsedFallback,
		UniqueCodeIDR:        uniqueCode,
		TotalIDR:             itemsTotal - discount + shippingResult.CostIDR + uniqueCode,
	}
	if err := checkTotalInvariant(order); err != nil {
		return PlaceOrderResult{}, err
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		ordersRepo := s.ordersRepo.WithTx(tx)
		productRepo := s.productRepo.WithTx(tx)

		created, err := ordersRepo.Create(ctx, order)
		if err != nil {
			return err
		}

		items := make([]models.OrderItem, 0, len(lines))
		for _, line := range lines {
			if err := productRepo.DecrementStock(ctx, line.Product.ID, line.Qty); err != nil {
				return pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("insufficient stock for %q", line.Product.Title))
			}
			items = append(items, models.OrderItem{
				OrderID:      created.ID,
				ProductID:    line.Product.ID,
				StoreID:      line.Product.StoreID,
				WarehouseID:  line.Product.WarehouseID,
				Title:        line.Product.Title,
				UnitPriceIDR: line.Product.PriceIDR,
				Qty:          line.Qty,
			})
		}
		return ordersRepo.CreateItems(ctx, items)
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return PlaceOrderResult{}, typed
		}
		return PlaceOrderResult{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "persist order")
	}

	if s.logg != nil {
		fields := s.logg.WithFields(ctx, map[string]any{
			"total_idr":     order.TotalIDR,
			"used_fallback": order.ShippingUsedFallback,
		})
		s.logg.Info(s.logg.WithOrderID(fields, order.ID.String()), "checkout.order_placed")
	}
	return PlaceOrderResult{Order: order, VoucherMessage: voucherMessage}, nil
}

type destination struct {
	shipping.Destination
	addressID uuid.UUID
}

// destinationFor resolves the buyer's shipping target: an explicit saved
// address when one is named, the default address otherwise. A buyer with no
// saved address cannot quote or check out.
func (s *service) destinationFor(ctx context.Context, buyerID uuid.UUID, addressID *uuid.UUID) (destination, error) {
	var (
		addr *models.Address
		err  error
	)
	if addressID != nil && *addressID != uuid.Nil {
		addr, err = s.addresses.Get(ctx, buyerID, *addressID)
	} else {
		addr, err = s.addresses.Default(ctx, buyerID)
	}
	if err != nil {
		return destination{}, err
	}
	return destination{
		Destination: shipping.Destination{
			CityID:   addr.CityID,
			City:     addr.City,
			Province: addr.Province,
		},
		addressID: addr.ID,
	}, nil
}

// prepareShipment resolves the courier choice against the catalog and groups
// the cart into per-warehouse shipments. An empty catalog is an admin
// problem, not a buyer one.
func (s *service) prepareShipment(ctx context.Context, lines []products.ResolvedLine, courierKey string) (*models.Courier, []shipping.Group, error) {
	catalog, err := s.couriers.Catalog(ctx)
	if err != nil {
		return nil, nil, err
	}
	if catalog.Empty() {
		return nil, nil, pkgerrors.New(pkgerrors.CodeConfiguration, "no couriers configured")
	}
	if courierKey == "" {
		courierKey = catalog.DefaultKey()
	}
	courier, err := s.couriers.Resolve(ctx, courierKey)
	if err != nil {
		return nil, nil, err
	}

	defaultOrigin := shipping.Origin{
		CityID: s.shipCfg.DefaultOriginCityID,
		City:   s.shipCfg.DefaultOriginCity,
	}
	groups, err := shipping.GroupShipments(products.CartLines(lines), defaultOrigin, s.checkoutCfg.ItemWeightGrams)
	if err != nil {
		return nil, nil, err
	}
	return courier, groups, nil
}

// checkTotalInvariant re-derives the payable total from the persisted fields
// and rejects the order if any of them drifted during assembly.
func checkTotalInvariant(order *models.Order) error {
	derived := order.ItemsTotalIDR - order.VoucherDiscountIDR + order.ShippingCostIDR + order.UniqueCodeIDR
	if order.TotalIDR != derived || order.TotalIDR < 0 {
		return pkgerrors.New(pkgerrors.CodeInternal, "order total derivation is inconsistent")
	}
	return nil
}
