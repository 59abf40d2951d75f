package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mpoberly/storefront-backend/pkg/db/models"
)

// AddOptions tunes how a new line folds into the cart. Combine defaults
// to true; ArityKey partitions otherwise-identical lines so they stay
// separate (gift wrapping, engraving, and similar per-line variants).
type AddOptions struct {
	Combine  *bool
	ArityKey *string
}

func (o AddOptions) combine() bool {
	return o.Combine == nil || *o.Combine
}

// Manager owns the line-combination policy. Services mutate the cart
// through it so two lines for the same product and arity group never
// coexist.
type Manager struct{}

// NewManager builds a cart manager.
func NewManager() *Manager {
	return &Manager{}
}

// AddLine folds quantity into an existing sibling line when combining is
// on, otherwise appends a fresh line. The second return reports whether
// an existing line absorbed the addition.
func (m *Manager) AddLine(order *models.Order, product *models.Product, quantity int, unitPrice decimal.Decimal, opts AddOptions) (*models.OrderItem, bool) {
	if opts.combine() {
		if sibling := m.sibling(order, product.ID, opts.ArityKey, uuid.Nil); sibling != nil {
			sibling.Quantity += quantity
			return sibling, true
		}
	}

	order.Items = append(order.Items, models.OrderItem{
		OrderID:   order.ID,
		ProductID: product.ID,
		Product:   product,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		ArityKey:  opts.ArityKey,
	})
	return &order.Items[len(order.Items)-1], false
}

// Recombine merges the updated line into a sibling that now shares its
// combine key, returning the surviving line and the ID of the absorbed
// row (uuid.Nil when nothing merged). Callers delete the absorbed row.
func (m *Manager) Recombine(order *models.Order, item *models.OrderItem) (*models.OrderItem, uuid.UUID) {
	sibling := m.sibling(order, item.ProductID, item.ArityKey, item.ID)
	if sibling == nil {
		return item, uuid.Nil
	}
	sibling.Quantity += item.Quantity
	return sibling, item.ID
}

func (m *Manager) sibling(order *models.Order, productID uuid.UUID, arityKey *string, exclude uuid.UUID) *models.OrderItem {
	for i := range order.Items {
		candidate := &order.Items[i]
		if candidate.ID == exclude && exclude != uuid.Nil {
			continue
		}
		if candidate.ProductID != productID {
			continue
		}
		if !sameArity(candidate.ArityKey, arityKey) {
			continue
		}
		return candidate
	}
	return nil
}

func sameArity(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
