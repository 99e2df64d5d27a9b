package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/akaynusantara/marketplace-backend/api/responses"
	"github.com/akaynusantara/marketplace-backend/api/validators"
	"github.com/akaynusantara/marketplace-backend/internal/checkout"
	"github.com/akaynusantara/marketplace-backend/internal/products"
	pkgerrors "github.com/akaynusantara/marketplace-backend/pkg/errors"
	"github.com/akaynusantara/marketplace-backend/pkg/logger"
)

type shippingQuoteRequest struct {
	Items   []quoteItem `json:"items" validate:"required,min=1,dive"`
	Courier string      `json:"courier"`
}

type quoteItem struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Qty       int       `json:"qty" validate:"required,min=1"`
}

type shippingQuoteResponse struct {
	Courier      string `json:"courier"`
	CostIDR      int64  `json:"cost_idr"`
	UsedFallback bool   `json:"used_fallback"`
	Reason       string `json:"reason,omitempty"`
}

// ShippingQuote prices delivery to the buyer's default address.
func ShippingQuote(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		buyerID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body shippingQuoteRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quote, err := svc.Quote(r.Context(), buyerID, checkout.QuoteInput{
			Items:      quoteItems(body.Items),
			CourierKey: body.Courier,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, shippingQuoteResponse{
			Courier:      quote.CourierKey,
			CostIDR:      quote.CostIDR,
			UsedFallback: quote.UsedFallback,
			Reason:       quote.FailureReason,
		})
	}
}

func quoteItems(items []quoteItem) []products.ItemInput {
	out := make([]products.ItemInput, 0, len(items))
	for _, item := range items {
		out = append(out, products.ItemInput{ProductID: item.ProductID, Qty: item.Qty})
	}
	return out
}
