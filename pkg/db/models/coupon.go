package models

import (
	"time"

	"github.com/google/uuid"
)

// Coupon is a redeemable code tied to a promotion. Valid only against a
// draft cart and only while its promotion still applies.
type Coupon struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Code        string     `gorm:"column:code;uniqueIndex;not null"`
	Enabled     bool       `gorm:"column:enabled;not null;default:true"`
	PromotionID uuid.UUID  `gorm:"column:promotion_id;type:uuid;not null"`
	Promotion   *Promotion `gorm:"foreignKey:PromotionID"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

// Available reports whether the coupon itself can currently be redeemed.
func (c Coupon) Available() bool {
	return c.Enabled
}
