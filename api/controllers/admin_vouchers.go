package controllers

import (
	"net/http"
	"time"

	"github.com/akaynusantara/marketplace-backend/api/responses"
	"github.com/akaynusantara/marketplace-backend/api/validators"
	"github.com/akaynusantara/marketplace-backend/internal/vouchers"
	pkgerrors "github.com/akaynusantara/marketplace-backend/pkg/errors"
	"github.com/akaynusantara/marketplace-backend/pkg/logger"
)

type voucherRequest struct {
	Code        string     `json:"code" validate:"required"`
	Kind        string     `json:"kind" validate:"required"`
	Value       int64      `json:"value" validate:"required,min=1"`
	MinSpendIDR int64      `json:"min_spend_idr" validate:"min=0"`
	Active      bool       `json:"active"`
	ExpiresAt   *time.Time `json:"expires_at"`
}

func (r voucherRequest) toInput() vouchers.UpsertInput {
	return vouchers.UpsertInput{
		Code:        r.Code,
		Kind:        r.Kind,
		Value:       r.Value,
		MinSpendIDR: r.MinSpendIDR,
		Active:      r.Active,
		ExpiresAt:   r.ExpiresAt,
	}
}

func AdminVoucherList(svc vouchers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "voucher service unavailable"))
			return
		}

		rows, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"vouchers": vouchers.FromModels(rows)})
	}
}

func AdminVoucherCreate(svc vouchers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "voucher service unavailable"))
			return
		}

		var body voucherRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.Create(r.Context(), body.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, vouchers.FromModel(created))
	}
}

func AdminVoucherUpdate(svc vouchers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "voucher service unavailable"))
			return
		}

		voucherID, err := parseIDParam(r, "voucherId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body voucherRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := svc.Update(r.Context(), voucherID, body.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, vouchers.FromModel(updated))
	}
}

func AdminVoucherDelete(svc vouchers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "voucher service unavailable"))
			return
		}

		voucherID, err := parseIDParam(r, "voucherId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), voucherID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
