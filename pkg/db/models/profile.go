package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/mpoberly/storefront-backend/pkg/enums"
	"github.com/mpoberly/storefront-backend/pkg/types"
)

// Profile is an address record attached to an order. The shipping profile
// is created lazily on the first shipping-relevant mutation; the order
// simply has no shipping profile row until then.
type Profile struct {
	ID        uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Kind      enums.ProfileKind `gorm:"column:kind;not null"`
	Address   types.Address     `gorm:"column:address;type:jsonb;not null"`
	CreatedAt time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
