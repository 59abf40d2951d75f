package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// PaymentMethod is a vaulted Square card on file for a customer.
type PaymentMethod struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID   uuid.UUID       `gorm:"column:customer_id;type:uuid;not null;index"`
	SquareCardID string          `gorm:"column:square_card_id;uniqueIndex;not null"`
	CardBrand    *string         `gorm:"column:card_brand"`
	CardLast4    *string         `gorm:"column:card_last4"`
	CardExpMonth *int            `gorm:"column:card_exp_month"`
	CardExpYear  *int            `gorm:"column:card_exp_year"`
	Metadata     json.RawMessage `gorm:"column:metadata;type:jsonb"`
	IsDefault    bool            `gorm:"column:is_default;not null;default:false"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
