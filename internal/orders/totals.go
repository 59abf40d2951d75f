package orders

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mpoberly/storefront-backend/pkg/db/models"
	"github.com/mpoberly/storefront-backend/pkg/enums"
	"github.com/mpoberly/storefront-backend/pkg/types"
)

var oneHundred = decimal.NewFromInt(100)

// ComputeTotals derives the order total projection from the aggregate's
// current items, coupons, and shipments. Pure: calling it twice on an
// unmutated order yields identical results, and nothing is cached.
func ComputeTotals(order *models.Order) types.OrderTotal {
	currency := order.Currency

	subtotal := decimal.Zero
	for _, item := range order.Items {
		subtotal = subtotal.Add(item.TotalPrice())
	}

	adjustments := promotionAdjustments(order, subtotal)
	adjustments = append(adjustments, shippingAdjustments(order)...)

	total := subtotal
	for _, adj := range adjustments {
		total = total.Add(adj.Amount.Number)
	}

	return types.OrderTotal{
		Subtotal:    types.NewMoney(subtotal, currency),
		Adjustments: adjustments,
		Total:       types.NewMoney(total, currency),
	}
}

// promotionAdjustments derives one discount adjustment per applied
// coupon, in the order the coupons were applied.
func promotionAdjustments(order *models.Order, subtotal decimal.Decimal) []types.Adjustment {
	now := time.Now()
	var adjustments []types.Adjustment
	for _, coupon := range order.Coupons {
		promo := coupon.Promotion
		if promo == nil || !promo.AppliesAt(now) {
			continue
		}
		adj := types.Adjustment{
			Type:     enums.AdjustmentTypePromotion,
			Label:    promo.Name,
			SourceID: ptr(coupon.ID.String()),
		}
		switch promo.Kind {
		case enums.PromotionKindPercentage:
			percentage := promo.Value
			adj.Percentage = &percentage
			adj.Amount = types.NewMoney(subtotal.Mul(percentage).Div(oneHundred).Neg().Round(2), order.Currency)
		default:
			adj.Amount = types.NewMoney(promo.Value.Neg(), order.Currency)
		}
		adjustments = append(adjustments, adj)
	}
	return adjustments
}

// shippingAdjustments derives one shipping adjustment per shipment that
// has a rate applied.
func shippingAdjustments(order *models.Order) []types.Adjustment {
	var adjustments []types.Adjustment
	for i, shipment := range order.Shipments {
		if !shipment.HasMethod() {
			continue
		}
		label := "Shipping"
		if len(order.Shipments) > 1 {
			label = fmt.Sprintf("Shipping #%d", i+1)
		}
		adjustments = append(adjustments, types.Adjustment{
			Type:     enums.AdjustmentTypeShipping,
			Label:    label,
			Amount:   types.NewMoney(shipment.Amount, order.Currency),
			SourceID: ptr(shipment.ID.String()),
		})
	}
	return adjustments
}

func ptr[T any](v T) *T {
	return &v
}
