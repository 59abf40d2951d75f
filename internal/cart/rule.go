package cart

import (
	"context"
	"fmt"

	"github.com/mpoberly/storefront-backend/internal/stores"
	"github.com/mpoberly/storefront-backend/pkg/db/models"
	"github.com/mpoberly/storefront-backend/pkg/validation"
)

// ItemAvailabilityRule re-checks every line on save so stock and
// publication changes between requests surface as violations. Completed
// orders are left alone.
type ItemAvailabilityRule struct {
	availability *stores.AvailabilityManager
}

// NewItemAvailabilityRule builds the rule around the availability chain.
func NewItemAvailabilityRule(availability *stores.AvailabilityManager) *ItemAvailabilityRule {
	return &ItemAvailabilityRule{availability: availability}
}

// Name identifies the rule in logs.
func (r *ItemAvailabilityRule) Name() string {
	return "item_availability"
}

// Roots reports the property paths this rule speaks for.
func (r *ItemAvailabilityRule) Roots() []string {
	return []string{"items"}
}

// Check flags every line whose product can no longer be purchased at the
// line quantity.
func (r *ItemAvailabilityRule) Check(ctx context.Context, order *models.Order) validation.Violations {
	if order == nil || !order.IsDraft() {
		return nil
	}
	pctx := purchaseContext(order)
	var violations validation.Violations
	for i, item := range order.Items {
		if item.Product == nil {
			violations.Add(fmt.Sprintf("items.%d.purchasedEntity", i), "The purchased entity no longer exists.")
			continue
		}
		if !r.availability.IsAvailable(ctx, item.Product, item.Quantity, pctx) {
			violations.Add(fmt.Sprintf("items.%d.quantity", i), "%q is not available at the requested quantity.", item.Product.Title)
		}
	}
	return violations
}
