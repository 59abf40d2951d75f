package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/mpoberly/storefront-backend/pkg/types"
)

// ShippingMethod quotes one or more flat-rate services per shipment.
type ShippingMethod struct {
	ID                 uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name               string             `gorm:"column:name;not null"`
	Enabled            bool               `gorm:"column:enabled;not null;default:true"`
	DefaultPackageType *string            `gorm:"column:default_package_type"`
	Services           types.RateServices `gorm:"column:services;type:jsonb;not null"`
	CreatedAt          time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
