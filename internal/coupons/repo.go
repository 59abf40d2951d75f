package coupons

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/mpoberly/storefront-backend/pkg/db/models"
)

// Repository looks up redeemable coupons.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a coupon repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// FindEnabledByCode resolves a coupon by its case-insensitive code,
// promotion preloaded. Disabled coupons resolve to not-found.
func (r *Repository) FindEnabledByCode(ctx context.Context, code string) (*models.Coupon, error) {
	var coupon models.Coupon
	err := r.db.WithContext(ctx).
		Preload("Promotion").
		Where("LOWER(code) = ? AND enabled = ?", strings.ToLower(strings.TrimSpace(code)), true).
		First(&coupon).Error
	if err != nil {
		return nil, err
	}
	return &coupon, nil
}
