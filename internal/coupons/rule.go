package coupons

import (
	"context"
	"fmt"
	"time"

	"github.com/mpoberly/storefront-backend/pkg/db/models"
	"github.com/mpoberly/storefront-backend/pkg/validation"
)

// ValidityRule re-checks every applied coupon on save: a coupon that was
// disabled or whose promotion window closed after application surfaces
// as a violation at its list position. Completed orders are left alone.
type ValidityRule struct {
	now func() time.Time
}

// NewValidityRule builds the rule with the real clock.
func NewValidityRule() *ValidityRule {
	return &ValidityRule{now: time.Now}
}

// Name identifies the rule in logs.
func (r *ValidityRule) Name() string {
	return "coupon_validity"
}

// Roots reports the property paths this rule speaks for.
func (r *ValidityRule) Roots() []string {
	return []string{"coupons"}
}

// Check flags every coupon that can no longer be redeemed.
func (r *ValidityRule) Check(ctx context.Context, order *models.Order) validation.Violations {
	if order == nil || !order.IsDraft() {
		return nil
	}
	now := r.now()
	var violations validation.Violations
	for i, coupon := range order.Coupons {
		pointer := fmt.Sprintf("coupons.%d", i)
		if !coupon.Available() {
			violations.Add(pointer, "The coupon code %q is no longer available.", coupon.Code)
			continue
		}
		if coupon.Promotion == nil || !coupon.Promotion.AppliesAt(now) {
			violations.Add(pointer, "The promotion for coupon code %q is not active.", coupon.Code)
		}
	}
	return violations
}
