package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mpoberly/storefront-backend/pkg/types"
)

// Shipment is a packed subset of order items sharing one shipping method.
// The whole set is replaced whenever the shipping address or the item set
// changes; rate options themselves are never persisted.
type Shipment struct {
	ID          uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID     uuid.UUID         `gorm:"column:order_id;type:uuid;not null;index"`
	ProfileID   *uuid.UUID        `gorm:"column:profile_id;type:uuid"`
	Profile     *Profile          `gorm:"foreignKey:ProfileID"`
	MethodID    *uuid.UUID        `gorm:"column:method_id;type:uuid"`
	Method      *ShippingMethod   `gorm:"foreignKey:MethodID"`
	ServiceID   *string           `gorm:"column:service_id"`
	PackageType *string           `gorm:"column:package_type"`
	Amount      decimal.Decimal   `gorm:"column:amount;type:numeric(12,2);not null;default:0"`
	Items       types.PackedItems `gorm:"column:items;type:jsonb"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

// HasMethod reports whether a rate has been applied to the shipment.
func (s Shipment) HasMethod() bool {
	return s.MethodID != nil && s.ServiceID != nil
}
