package controllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mpoberly/storefront-backend/api/middleware"
	"github.com/mpoberly/storefront-backend/api/responses"
	"github.com/mpoberly/storefront-backend/api/validators"
	cartsvc "github.com/mpoberly/storefront-backend/internal/cart"
	"github.com/mpoberly/storefront-backend/internal/orders"
	"github.com/mpoberly/storefront-backend/pkg/config"
	"github.com/mpoberly/storefront-backend/pkg/db/models"
	"github.com/mpoberly/storefront-backend/pkg/enums"
	pkgerrors "github.com/mpoberly/storefront-backend/pkg/errors"
	"github.com/mpoberly/storefront-backend/pkg/logger"
	"github.com/mpoberly/storefront-backend/pkg/validation"
)

// CartAdd appends a batch of items to the customer's active cart,
// creating the draft when none exists yet.
func CartAdd(svc cartsvc.Service, ordersRepo *orders.Repository, cfg config.CheckoutConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil || ordersRepo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		storeID, customerID, err := requestScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload addItemsRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := ordersRepo.FindDraftByCustomer(r.Context(), storeID, customerID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			order, err = ordersRepo.Create(r.Context(), &models.Order{
				State:      enums.OrderStateDraft,
				StoreID:    storeID,
				CustomerID: customerID,
				Currency:   defaultCurrency(cfg),
			})
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart"))
			return
		}

		updated, created, err := svc.AddItems(r.Context(), order.ID, payload.toInputs())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		views := make([]cartItemView, 0, len(created))
		for _, item := range created {
			views = append(views, newCartItemView(updated.Currency, item))
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, views)
	}
}

// CartShow returns the customer's active cart, 404 when none exists.
func CartShow(ordersRepo *orders.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ordersRepo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		storeID, customerID, err := requestScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := ordersRepo.FindDraftByCustomer(r.Context(), storeID, customerID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "no active cart"))
			return
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart"))
			return
		}

		responses.WriteSuccess(w, newCartView(order))
	}
}

// CartRemoveItems deletes the referenced lines best-effort. Any failed
// entry turns the response into a 422, but sibling removals that
// succeeded stay persisted.
func CartRemoveItems(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		cartID, err := pathUUID(r, "cartID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload removeItemsRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, results, err := svc.RemoveItems(r.Context(), cartID, payload.ItemIDs)
		if order == nil && err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, removalFailure(results))
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// removalFailure folds the failed entries of a remove batch into one
// unprocessable error, pointing at each offending request index.
func removalFailure(results []cartsvc.RemoveResult) error {
	var violations validation.Violations
	for i, result := range results {
		if result.Err == nil {
			continue
		}
		detail := "The item could not be removed."
		if typed := pkgerrors.As(result.Err); typed != nil && typed.Message() != "" {
			detail = typed.Message()
		}
		violations.Add(fmt.Sprintf("itemIds.%d", i), "%s", detail)
	}
	return pkgerrors.New(pkgerrors.CodeUnprocessable, "One or more items could not be removed.").
		WithDetails(violations)
}

// CartUpdateItem applies the patch field by field; denied fields come
// back as skipped outcomes instead of errors.
func CartUpdateItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		cartID, err := pathUUID(r, "cartID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		itemID, err := pathUUID(r, "itemID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, item, results, err := svc.UpdateItem(r.Context(), cartID, itemID, cartsvc.ItemPatch{
			Quantity: payload.Quantity,
			ArityKey: payload.ArityKey,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if item == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "order item not found"))
			return
		}

		responses.Write(w, http.StatusOK, newCartItemView(order.Currency, *item), map[string]any{
			"results": results,
		}, nil)
	}
}

type addItemsRequest struct {
	Items []addItemPayload `json:"items" validate:"required,min=1,dive"`
}

type addItemPayload struct {
	PurchasedEntity uuid.UUID `json:"purchasedEntity" validate:"required"`
	Quantity        int       `json:"quantity" validate:"required,min=1"`
	Combine         *bool     `json:"combine"`
	ArityKey        *string   `json:"arityKey"`
}

func (r addItemsRequest) toInputs() []cartsvc.AddItemInput {
	inputs := make([]cartsvc.AddItemInput, len(r.Items))
	for i, payload := range r.Items {
		inputs[i] = cartsvc.AddItemInput{
			ProductID: payload.PurchasedEntity,
			Quantity:  payload.Quantity,
			Combine:   payload.Combine,
			ArityKey:  payload.ArityKey,
		}
	}
	return inputs
}

type removeItemsRequest struct {
	ItemIDs []uuid.UUID `json:"itemIds" validate:"required,min=1"`
}

type updateItemRequest struct {
	Quantity *int    `json:"quantity"`
	ArityKey *string `json:"arityKey"`
}

func requestScope(r *http.Request) (storeID, customerID uuid.UUID, err error) {
	rawStore := middleware.StoreIDFromContext(r.Context())
	if rawStore == "" {
		return uuid.Nil, uuid.Nil, pkgerrors.New(pkgerrors.CodeForbidden, "store context missing")
	}
	storeID, err = uuid.Parse(rawStore)
	if err != nil {
		return uuid.Nil, uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid store id")
	}

	rawCustomer := middleware.CustomerIDFromContext(r.Context())
	if rawCustomer == "" {
		return uuid.Nil, uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "customer context missing")
	}
	customerID, err = uuid.Parse(rawCustomer)
	if err != nil {
		return uuid.Nil, uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid customer id")
	}
	return storeID, customerID, nil
}

func pathUUID(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+name)
	}
	return id, nil
}

func defaultCurrency(cfg config.CheckoutConfig) enums.Currency {
	currency := enums.Currency(cfg.DefaultCurrency)
	if !currency.IsValid() {
		return enums.CurrencyUSD
	}
	return currency
}
