package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/mpoberly/storefront-backend/pkg/enums"
	"github.com/mpoberly/storefront-backend/pkg/types"
)

// Store is a selling storefront. Products reference one or more owning
// stores; the active storefront comes from the request context.
type Store struct {
	ID              uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name            string         `gorm:"column:name;not null"`
	Slug            string         `gorm:"column:slug;uniqueIndex;not null"`
	Enabled         bool           `gorm:"column:enabled;not null;default:true"`
	Hostnames       pq.StringArray `gorm:"column:hostnames;type:text[]"`
	DefaultCurrency enums.Currency `gorm:"column:default_currency;not null;default:'USD'"`
	Address         *types.Address `gorm:"column:address;type:jsonb"`
	CreatedAt       time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
