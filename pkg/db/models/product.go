package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mpoberly/storefront-backend/pkg/enums"
	"github.com/mpoberly/storefront-backend/pkg/types"
)

// Product is the purchasable item snapshot a line references. Its list
// price is the terminal entry of the price-resolution chain.
type Product struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	SKU       string          `gorm:"column:sku;uniqueIndex;not null"`
	Title     string          `gorm:"column:title;not null"`
	Published bool            `gorm:"column:published;not null;default:true"`
	ListPrice decimal.Decimal `gorm:"column:list_price;type:numeric(12,2);not null"`
	Currency  enums.Currency  `gorm:"column:currency;not null;default:'USD'"`
	MaxQty    int             `gorm:"column:max_qty;not null;default:0"`
	Stores    []Store         `gorm:"many2many:product_stores"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// Price returns the list price as a Money value.
func (p Product) Price() types.Money {
	return types.NewMoney(p.ListPrice, p.Currency)
}
