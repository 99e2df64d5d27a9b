package controllers

import (
	"net/http"

	"github.com/akaynusantara/marketplace-backend/api/responses"
	"github.com/akaynusantara/marketplace-backend/api/validators"
	"github.com/akaynusantara/marketplace-backend/internal/couriers"
	pkgerrors "github.com/akaynusantara/marketplace-backend/pkg/errors"
	"github.com/akaynusantara/marketplace-backend/pkg/logger"
)

type courierRequest struct {
	Key               string `json:"key" validate:"required"`
	Label             string `json:"label" validate:"required"`
	FallbackCostIDR   int64  `json:"fallback_cost_idr" validate:"min=0"`
	RajaOngkirCourier string `json:"rajaongkir_courier"`
	RajaOngkirService string `json:"rajaongkir_service"`
	SortOrder         int    `json:"sort_order"`
	IsActive          bool   `json:"is_active"`
}

func (r courierRequest) toInput() couriers.UpsertInput {
	return couriers.UpsertInput{
		Key:               r.Key,
		Label:             r.Label,
		FallbackCostIDR:   r.FallbackCostIDR,
		RajaOngkirCourier: r.RajaOngkirCourier,
		RajaOngkirService: r.RajaOngkirService,
		SortOrder:         r.SortOrder,
		IsActive:          r.IsActive,
	}
}

// AdminCourierList returns every courier including inactive ones.
func AdminCourierList(svc couriers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "courier service unavailable"))
			return
		}

		rows, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"couriers": couriers.AdminFromModels(rows)})
	}
}

func AdminCourierCreate(svc couriers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "courier service unavailable"))
			return
		}

		var body courierRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		created, err := svc.Create(r.Context(), body.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, couriers.AdminFromModel(created))
	}
}

func AdminCourierUpdate(svc couriers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "courier service unavailable"))
			return
		}

		courierID, err := parseIDParam(r, "courierId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body courierRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		updated, err := svc.Update(r.Context(), courierID, body.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, couriers.AdminFromModel(updated))
	}
}

func AdminCourierDelete(svc couriers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "courier service unavailable"))
			return
		}

		courierID, err := parseIDParam(r, "courierId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), courierID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
