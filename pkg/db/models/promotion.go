package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mpoberly/storefront-backend/pkg/enums"
)

// Promotion discounts the order subtotal by a percentage or fixed amount
// inside an optional validity window.
type Promotion struct {
	ID        uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string              `gorm:"column:name;not null"`
	Enabled   bool                `gorm:"column:enabled;not null;default:true"`
	Kind      enums.PromotionKind `gorm:"column:kind;not null"`
	Value     decimal.Decimal     `gorm:"column:value;type:numeric(12,2);not null"`
	StartsAt  *time.Time          `gorm:"column:starts_at"`
	EndsAt    *time.Time          `gorm:"column:ends_at"`
	CreatedAt time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// AppliesAt reports whether the promotion is live at the given instant.
func (p Promotion) AppliesAt(now time.Time) bool {
	if !p.Enabled {
		return false
	}
	if p.StartsAt != nil && now.Before(*p.StartsAt) {
		return false
	}
	if p.EndsAt != nil && now.After(*p.EndsAt) {
		return false
	}
	return true
}
