package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mpoberly/storefront-backend/pkg/types"
)

// OrderItem is one purchasable-item line inside a cart. Owned exclusively
// by its order.
type OrderItem struct {
	ID          uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID     uuid.UUID         `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID   uuid.UUID         `gorm:"column:product_id;type:uuid;not null"`
	Product     *Product          `gorm:"foreignKey:ProductID"`
	Quantity    int               `gorm:"column:quantity;not null"`
	UnitPrice   decimal.Decimal   `gorm:"column:unit_price;type:numeric(12,2);not null"`
	ArityKey    *string           `gorm:"column:arity_key"`
	Adjustments types.Adjustments `gorm:"column:adjustments;type:jsonb"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

// TotalPrice derives unit price x quantity plus item-level adjustments.
func (i OrderItem) TotalPrice() decimal.Decimal {
	total := i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
	for _, adj := range i.Adjustments {
		total = total.Add(adj.Amount.Number)
	}
	return total
}
