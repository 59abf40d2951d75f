package stores

import (
	"context"

	"github.com/mpoberly/storefront-backend/pkg/db/models"
)

// PurchaseContext carries the data availability checkers may consult.
type PurchaseContext struct {
	StoreID    string
	CustomerID string
}

// AvailabilityChecker is one pluggable availability rule. A checker first
// opts in via Applies; any applying checker returning false makes the
// item unavailable (AND semantics across the chain).
type AvailabilityChecker interface {
	Applies(ctx context.Context, product *models.Product) bool
	Check(ctx context.Context, product *models.Product, quantity int, pctx PurchaseContext) bool
}

// AvailabilityManager runs the checker chain.
type AvailabilityManager struct {
	checkers []AvailabilityChecker
}

// NewAvailabilityManager assembles the chain with the built-in checkers
// first, then any app-specific extras.
func NewAvailabilityManager(extra ...AvailabilityChecker) *AvailabilityManager {
	checkers := []AvailabilityChecker{storeEnabledChecker{}, maxQuantityChecker{}}
	checkers = append(checkers, extra...)
	return &AvailabilityManager{checkers: checkers}
}

// IsAvailable reports whether the item may currently be purchased at the
// given quantity. Unpublished items short-circuit to unavailable before
// the chain runs.
func (m *AvailabilityManager) IsAvailable(ctx context.Context, product *models.Product, quantity int, pctx PurchaseContext) bool {
	if product == nil || !product.Published {
		return false
	}
	for _, checker := range m.checkers {
		if !checker.Applies(ctx, product) {
			continue
		}
		if !checker.Check(ctx, product, quantity, pctx) {
			return false
		}
	}
	return true
}

// storeEnabledChecker blocks purchases through a storefront that has
// been switched off. Ownership of the product by the contextual store is
// the resolver's concern, not this checker's.
type storeEnabledChecker struct{}

func (storeEnabledChecker) Applies(ctx context.Context, product *models.Product) bool {
	return product != nil && len(product.Stores) > 0
}

func (storeEnabledChecker) Check(ctx context.Context, product *models.Product, quantity int, pctx PurchaseContext) bool {
	for i := range product.Stores {
		if product.Stores[i].ID.String() == pctx.StoreID {
			return product.Stores[i].Enabled
		}
	}
	return true
}

// maxQuantityChecker rejects quantities above the product's cap. A cap of
// zero means uncapped.
type maxQuantityChecker struct{}

func (maxQuantityChecker) Applies(ctx context.Context, product *models.Product) bool {
	return product != nil && product.MaxQty > 0
}

func (maxQuantityChecker) Check(ctx context.Context, product *models.Product, quantity int, pctx PurchaseContext) bool {
	return quantity <= product.MaxQty
}
