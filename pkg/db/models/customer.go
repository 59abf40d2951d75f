package models

import (
	"time"

	"github.com/google/uuid"
)

// Customer owns carts and vaulted payment methods.
type Customer struct {
	ID               uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Email            string    `gorm:"column:email;uniqueIndex;not null"`
	SquareCustomerID *string   `gorm:"column:square_customer_id"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
