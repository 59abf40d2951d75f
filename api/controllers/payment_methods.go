package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/mpoberly/storefront-backend/api/middleware"
	"github.com/mpoberly/storefront-backend/api/responses"
	"github.com/mpoberly/storefront-backend/api/validators"
	paymentsvc "github.com/mpoberly/storefront-backend/internal/payments"
	"github.com/mpoberly/storefront-backend/pkg/db/models"
	pkgerrors "github.com/mpoberly/storefront-backend/pkg/errors"
	"github.com/mpoberly/storefront-backend/pkg/logger"
	"github.com/mpoberly/storefront-backend/pkg/pagination"
)

// PaymentMethodCreate vaults a tokenized card for the customer. The
// Idempotency-Key header is forwarded to the gateway so retries cannot
// vault the card twice.
func PaymentMethodCreate(svc paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payments service unavailable"))
			return
		}

		customerID, err := requestCustomer(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		idempotencyKey := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
		if idempotencyKey == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "Idempotency-Key header required"))
			return
		}

		var payload storeCardRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		method, err := svc.StoreCard(r.Context(), customerID, paymentsvc.StoreCardInput{
			SourceID:          payload.SourceID,
			CardholderName:    validators.SanitizeString(payload.CardholderName, 100),
			VerificationToken: payload.VerificationToken,
			IsDefault:         payload.IsDefault,
			IdempotencyKey:    idempotencyKey,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newPaymentMethodView(method))
	}
}

// PaymentMethodList returns the customer's vaulted instruments.
func PaymentMethodList(svc paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payments service unavailable"))
			return
		}

		customerID, err := requestCustomer(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		methods, next, err := svc.ListInstruments(r.Context(), customerID, pagination.Params{
			Limit:  limit,
			Cursor: r.URL.Query().Get("cursor"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		views := make([]paymentMethodView, 0, len(methods))
		for i := range methods {
			views = append(views, newPaymentMethodView(&methods[i]))
		}

		var meta map[string]any
		if next != "" {
			meta = map[string]any{"nextCursor": next}
		}
		responses.Write(w, http.StatusOK, views, meta, nil)
	}
}

type storeCardRequest struct {
	SourceID          string `json:"sourceId" validate:"required"`
	CardholderName    string `json:"cardholderName"`
	VerificationToken string `json:"verificationToken"`
	IsDefault         bool   `json:"isDefault"`
}

type paymentMethodView struct {
	ID        uuid.UUID `json:"id"`
	Brand     *string   `json:"brand,omitempty"`
	Last4     *string   `json:"last4,omitempty"`
	ExpMonth  *int      `json:"expMonth,omitempty"`
	ExpYear   *int      `json:"expYear,omitempty"`
	IsDefault bool      `json:"isDefault"`
}

func newPaymentMethodView(method *models.PaymentMethod) paymentMethodView {
	return paymentMethodView{
		ID:        method.ID,
		Brand:     method.CardBrand,
		Last4:     method.CardLast4,
		ExpMonth:  method.CardExpMonth,
		ExpYear:   method.CardExpYear,
		IsDefault: method.IsDefault,
	}
}

func requestCustomer(r *http.Request) (uuid.UUID, error) {
	raw := middleware.CustomerIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "customer context missing")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid customer id")
	}
	return id, nil
}
