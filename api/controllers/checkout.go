package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/akaynusantara/marketplace-backend/api/responses"
	"github.com/akaynusantara/marketplace-backend/api/validators"
	"github.com/akaynusantara/marketplace-backend/internal/checkout"
	"github.com/akaynusantara/marketplace-backend/internal/orders"
	pkgerrors "github.com/akaynusantara/marketplace-backend/pkg/errors"
	"github.com/akaynusantara/marketplace-backend/pkg/logger"
)

type checkoutRequest struct {
	Items         []quoteItem `json:"items" validate:"required,min=1,dive"`
	Courier       string      `json:"courier"`
	VoucherCode   string      `json:"voucher_code"`
	PaymentMethod string      `json:"payment_method" validate:"required"`
	AddressID     *uuid.UUID  `json:"address_id"`
}

type checkoutResponse struct {
	Order          *orders.OrderDTO `json:"order"`
	VoucherMessage string           `json:"voucher_message,omitempty"`
}

// Checkout prices the cart and persists the order in one transaction.
func Checkout(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
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

		var body checkoutRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.PlaceOrder(r.Context(), buyerID, checkout.PlaceOrderInput{
			Items:         quoteItems(body.Items),
			CourierKey:    body.Courier,
			VoucherCode:   body.VoucherCode,
			PaymentMethod: body.PaymentMethod,
			AddressID:     body.AddressID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, checkoutResponse{
			Order:          orders.FromModel(result.Order),
			VoucherMessage: result.VoucherMessage,
		})
	}
}
