package controllers

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/mpoberly/storefront-backend/api/responses"
	"github.com/mpoberly/storefront-backend/api/validators"
	checkoutsvc "github.com/mpoberly/storefront-backend/internal/checkout"
	shippingsvc "github.com/mpoberly/storefront-backend/internal/shipping"
	pkgerrors "github.com/mpoberly/storefront-backend/pkg/errors"
	"github.com/mpoberly/storefront-backend/pkg/logger"
	"github.com/mpoberly/storefront-backend/pkg/types"
)

// CheckoutPatch applies checkout fields to the draft in request order.
// The response carries the checkout projection, the outstanding
// required-field report as metadata, and a shipping-methods link once
// the cart has shipments to rate.
func CheckoutPatch(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		cartID, err := pathUUID(r, "cartID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload checkoutPatchRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		summary, err := svc.Patch(r.Context(), cartID, checkoutsvc.PatchInput{
			Email:               payload.Email,
			ShippingInformation: payload.ShippingInformation,
			ShippingMethod:      payload.ShippingMethod,
			BillingInformation:  payload.BillingInformation,
			PaymentInstrument:   payload.PaymentInstrument,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		writeSummary(w, cartID, summary)
	}
}

// CheckoutShippingMethods lists the rate options for the cart's
// shipments. Options are derived on every call and never persisted.
func CheckoutShippingMethods(svc shippingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "shipping service unavailable"))
			return
		}

		cartID, err := pathUUID(r, "cartID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		options, err := svc.ListRateOptions(r.Context(), cartID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, options)
	}
}

type checkoutPatchRequest struct {
	Email               *string        `json:"email"`
	ShippingInformation *types.Address `json:"shippingInformation"`
	ShippingMethod      *string        `json:"shippingMethod"`
	BillingInformation  *types.Address `json:"billingInformation"`
	PaymentInstrument   *uuid.UUID     `json:"paymentInstrument"`
}

func writeSummary(w http.ResponseWriter, cartID uuid.UUID, summary *checkoutsvc.Summary) {
	var meta map[string]any
	if len(summary.Constraints) > 0 {
		meta = map[string]any{"constraints": summary.Constraints}
	}
	var links map[string]string
	if summary.HasShipments() {
		links = map[string]string{
			"shipping-methods": fmt.Sprintf("/api/v1/cart/%s/shipping-methods", cartID),
		}
	}
	responses.Write(w, http.StatusOK, summary.Projection, meta, links)
}
