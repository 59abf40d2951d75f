package controllers

import (
	"github.com/google/uuid"

	"github.com/mpoberly/storefront-backend/internal/orders"
	"github.com/mpoberly/storefront-backend/pkg/db/models"
	"github.com/mpoberly/storefront-backend/pkg/enums"
	"github.com/mpoberly/storefront-backend/pkg/types"
)

type cartItemView struct {
	ID          uuid.UUID         `json:"id"`
	OrderID     uuid.UUID         `json:"orderId"`
	ProductID   uuid.UUID         `json:"productId"`
	Quantity    int               `json:"quantity"`
	UnitPrice   types.Money       `json:"unitPrice"`
	TotalPrice  types.Money       `json:"totalPrice"`
	ArityKey    *string           `json:"arityKey,omitempty"`
	Adjustments types.Adjustments `json:"adjustments,omitempty"`
}

func newCartItemView(currency enums.Currency, item models.OrderItem) cartItemView {
	return cartItemView{
		ID:          item.ID,
		OrderID:     item.OrderID,
		ProductID:   item.ProductID,
		Quantity:    item.Quantity,
		UnitPrice:   types.NewMoney(item.UnitPrice, currency),
		TotalPrice:  types.NewMoney(item.TotalPrice(), currency),
		ArityKey:    item.ArityKey,
		Adjustments: item.Adjustments,
	}
}

type cartView struct {
	ID         uuid.UUID        `json:"id"`
	State      enums.OrderState `json:"state"`
	Currency   enums.Currency   `json:"currency"`
	Items      []cartItemView   `json:"items"`
	Coupons    []string         `json:"coupons,omitempty"`
	OrderTotal types.OrderTotal `json:"orderTotal"`
}

func newCartView(order *models.Order) cartView {
	view := cartView{
		ID:         order.ID,
		State:      order.State,
		Currency:   order.Currency,
		Items:      make([]cartItemView, 0, len(order.Items)),
		OrderTotal: orders.ComputeTotals(order),
	}
	for _, item := range order.Items {
		view.Items = append(view.Items, newCartItemView(order.Currency, item))
	}
	for _, coupon := range order.Coupons {
		view.Coupons = append(view.Coupons, coupon.Code)
	}
	return view
}
