package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/akaynusantara/marketplace-backend/api/responses"
	"github.com/akaynusantara/marketplace-backend/api/validators"
	"github.com/akaynusantara/marketplace-backend/internal/vouchers"
	pkgerrors "github.com/akaynusantara/marketplace-backend/pkg/errors"
	"github.com/akaynusantara/marketplace-backend/pkg/logger"
)

type voucherPreviewRequest struct {
	Code          string `json:"code" validate:"required"`
	ItemsTotalIDR int64  `json:"items_total_idr" validate:"required,min=1"`
}

type voucherPreviewResponse struct {
	Valid       bool   `json:"valid"`
	DiscountIDR int64  `json:"discount_idr"`
	Message     string `json:"message"`
}

// VoucherPreview reports whether a code would apply to the given cart total.
func VoucherPreview(svc vouchers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "voucher service unavailable"))
			return
		}

		var body voucherPreviewRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Preview(r.Context(), body.Code, body.ItemsTotalIDR)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, voucherPreviewResponse{
			Valid:       result.Valid,
			DiscountIDR: result.DiscountIDR,
			Message:     result.Message,
		})
	}
}

type voucherClaimRequest struct {
	VoucherID *uuid.UUID `json:"voucher_id"`
	Code      string     `json:"code"`
}

// VoucherClaim stores a voucher against the authenticated buyer.
func VoucherClaim(svc vouchers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "voucher service unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body voucherClaimRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		claim, err := svc.Claim(r.Context(), userID, vouchers.ClaimInput{
			VoucherID: body.VoucherID,
			Code:      body.Code,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, vouchers.ClaimFromModel(claim))
	}
}
