package controllers

import (
	"net/http"

	"github.com/mpoberly/storefront-backend/api/responses"
	"github.com/mpoberly/storefront-backend/api/validators"
	couponsvc "github.com/mpoberly/storefront-backend/internal/coupons"
	pkgerrors "github.com/mpoberly/storefront-backend/pkg/errors"
	"github.com/mpoberly/storefront-backend/pkg/logger"
)

// CouponApply redeems a coupon code against the draft cart. A draft
// holds at most one coupon, so applying replaces any previous one.
func CouponApply(svc couponsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "coupon service unavailable"))
			return
		}

		cartID, err := pathUUID(r, "cartID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload applyCouponRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Apply(r.Context(), cartID, payload.Code)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartView(order))
	}
}

// CouponRemove clears the cart's coupons and answers with no content.
func CouponRemove(svc couponsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "coupon service unavailable"))
			return
		}

		cartID, err := pathUUID(r, "cartID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if _, err := svc.Remove(r.Context(), cartID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

type applyCouponRequest struct {
	Code string `json:"code" validate:"required"`
}
