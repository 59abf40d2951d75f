package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/mpoberly/storefront-backend/pkg/enums"
)

// Order is the cart aggregate. Monetary totals are never stored on the
// row; they are derived from items, coupons, and shipments on every read.
type Order struct {
	ID                uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	State             enums.OrderState `gorm:"column:state;not null;default:'draft'"`
	StoreID           uuid.UUID        `gorm:"column:store_id;type:uuid;not null"`
	CustomerID        uuid.UUID        `gorm:"column:customer_id;type:uuid;not null"`
	Email             *string          `gorm:"column:email"`
	Currency          enums.Currency   `gorm:"column:currency;not null;default:'USD'"`
	BillingProfileID  *uuid.UUID       `gorm:"column:billing_profile_id;type:uuid"`
	ShippingProfileID *uuid.UUID       `gorm:"column:shipping_profile_id;type:uuid"`
	PaymentMethodID   *uuid.UUID       `gorm:"column:payment_method_id;type:uuid"`
	BillingProfile    *Profile         `gorm:"foreignKey:BillingProfileID"`
	ShippingProfile   *Profile         `gorm:"foreignKey:ShippingProfileID"`
	Items             []OrderItem      `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Shipments         []Shipment       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Coupons           []Coupon         `gorm:"many2many:order_coupons"`
	PlacedAt          *time.Time       `gorm:"column:placed_at"`
	CreatedAt         time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// IsDraft reports whether the cart is still mutable by this subsystem.
func (o Order) IsDraft() bool {
	return o.State == enums.OrderStateDraft
}
