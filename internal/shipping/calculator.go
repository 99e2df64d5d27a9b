package shipping

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/akaynusantara/marketplace-backend/pkg/db/models"
	pkgerrors "github.com/akaynusantara/marketplace-backend/pkg/errors"
	"github.com/akaynusantara/marketplace-backend/pkg/logger"
	"github.com/akaynusantara/marketplace-backend/pkg/metrics"
	"github.com/akaynusantara/marketplace-backend/pkg/rajaongkir"
)

// Fallback reasons surfaced in quote responses. Raw lookup errors are logged
// but never exposed to the buyer.
const (
	ReasonLookupUnconfigured = "rate lookup unconfigured"
	ReasonLookupFailed       = "rate lookup failed"
	ReasonNoServiceMatch     = "no matching courier service"
)

// RateLookup is the external cost API surface the calculator depends on.
type RateLookup interface {
	Cost(ctx context.Context, req rajaongkir.CostRequest) ([]rajaongkir.RateOption, error)
}

// Destination is the buyer's shipping target.
type Destination struct {
	CityID   string
	City     string
	Province string
}

// Result is one aggregate quote covering every shipment group. UsedFallback
// is sticky: a single degraded group flags the whole quote.
type Result struct {
	CostIDR       int64
	UsedFallback  bool
	FailureReason string
}

// Calculator prices a set of shipment groups against a chosen courier,
// falling back to the courier's flat cost whenever the live lookup cannot
// produce a usable rate.
type Calculator struct {
	rates   RateLookup
	metrics *metrics.ShippingMetrics
	logg    *logger.Logger
}

// NewCalculator builds a calculator. rates may be nil when the live lookup is
// unconfigured; every group then resolves through the fallback cost.
func NewCalculator(rates RateLookup, m *metrics.ShippingMetrics, logg *logger.Logger) *Calculator {
	return &Calculator{rates: rates, metrics: m, logg: logg}
}

type groupOutcome struct {
	costIDR  int64
	fallback bool
	reason   string
}

// Calculate returns the aggregate shipping cost for the groups. It errors
// only on caller input (no groups, no destination, no courier); external
// lookup failures degrade to the fallback cost per group. Groups are looked
// up concurrently since their costs combine by summation only.
func (c *Calculator) Calculate(ctx context.Context, groups []Group, courier *models.Courier, dest Destination) (Result, error) {
	if courier == nil {
		return Result{}, pkgerrors.New(pkgerrors.CodeConfiguration, "no couriers configured")
	}
	if len(groups) == 0 {
		return Result{}, pkgerrors.New(pkgerrors.CodeValidation, "no shipment groups")
	}
	if strings.TrimSpace(dest.CityID) == "" {
		return Result{}, pkgerrors.New(pkgerrors.CodeValidation, "destination address is required")
	}

	outcomes := make([]groupOutcome, len(groups))
	var wg sync.WaitGroup
	for i, group := range groups {
		wg.Add(1)
		go func(i int, group Group) {
			defer wg.Done()
			outcomes[i] = c.quoteGroup(ctx, group, courier, dest)
		}(i, group)
	}
	wg.Wait()

	var result Result
	for _, outcome := range outcomes {
		result.CostIDR += outcome.costIDR
		if outcome.fallback {
			result.UsedFallback = true
			if result.FailureReason == "" {
				result.FailureReason = outcome.reason
			}
		}
	}
	return result, nil
}

func (c *Calculator) quoteGroup(ctx context.Context, group Group, courier *models.Courier, dest Destination) groupOutcome {
	fallback := groupOutcome{costIDR: courier.FallbackCostIDR, fallback: true}

	if c.rates == nil || courier.RajaOngkirCourier == "" || courier.RajaOngkirService == "" {
		fallback.reason = ReasonLookupUnconfigured
		c.recordFallback(ctx, courier, group, fallback.reason, nil)
		return fallback
	}

	start := time.Now()
	options, err := c.rates.Cost(ctx, rajaongkir.CostRequest{
		OriginCityID:      group.Origin.CityID,
		DestinationCityID: dest.CityID,
		WeightGrams:       group.WeightGrams,
		Courier:           courier.RajaOngkirCourier,
	})
	if c.metrics != nil {
		c.metrics.ObserveLookup(courier.Key, time.Since(start))
	}
	if err != nil {
		fallback.reason = ReasonLookupFailed
		if c.metrics != nil {
			c.metrics.IncLookupFailure(courier.Key)
		}
		c.recordFallback(ctx, courier, group, fallback.reason, err)
		return fallback
	}

	for _, option := range options {
		if option.Service == courier.RajaOngkirService && option.CostIDR >= 0 {
			return groupOutcome{costIDR: option.CostIDR}
		}
	}

	fallback.reason = ReasonNoServiceMatch
	c.recordFallback(ctx, courier, group, fallback.reason, nil)
	return fallback
}

func (c *Calculator) recordFallback(ctx context.Context, courier *models.Courier, group Group, reason string, err error) {
	if c.metrics != nil {
		c.metrics.IncFallbackUsed(courier.Key)
	}
	if c.logg == nil {
		return
	}
	ctx = c.logg.WithFields(ctx, map[string]any{
		"courier":   courier.Key,
		"warehouse": group.WarehouseKey,
		"reason":    reason,
	})
	if err != nil {
		c.logg.Error(ctx, "shipping.rate_lookup_failed", err)
		return
	}
	c.logg.Warn(ctx, "shipping.fallback_cost_used")
}
