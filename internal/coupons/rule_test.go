package coupons

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/mpoberly/storefront-backend/pkg/db/models"
	"github.com/mpoberly/storefront-backend/pkg/enums"
)

func fixedRule(now time.Time) *ValidityRule {
	return &ValidityRule{now: func() time.Time { return now }}
}

func TestValidityRuleFlagsDisabledCoupon(t *testing.T) {
	t.Parallel()

	order := &models.Order{State: enums.OrderStateDraft, Coupons: []models.Coupon{
		{ID: uuid.New(), Code: "DEAD", Enabled: false},
	}}

	violations := fixedRule(time.Now()).Check(context.Background(), order)
	if len(violations) != 1 {
		t.Fatalf("expected 1 violation, got %d", len(violations))
	}
	if violations[0].Pointer != "coupons.0" {
		t.Fatalf("expected indexed pointer, got %q", violations[0].Pointer)
	}
}

func TestValidityRuleFlagsExpiredPromotion(t *testing.T) {
	t.Parallel()

	now := time.Now()
	ended := now.Add(-time.Hour)
	order := &models.Order{State: enums.OrderStateDraft, Coupons: []models.Coupon{
		{ID: uuid.New(), Code: "LATE", Enabled: true, Promotion: &models.Promotion{
			Name:    "Flash Sale",
			Enabled: true,
			Kind:    enums.PromotionKindFixed,
			EndsAt:  &ended,
		}},
	}}

	violations := fixedRule(now).Check(context.Background(), order)
	if len(violations) != 1 {
		t.Fatalf("expected 1 violation, got %d", len(violations))
	}
}

func TestValidityRulePassesLiveCoupon(t *testing.T) {
	t.Parallel()

	order := &models.Order{State: enums.OrderStateDraft, Coupons: []models.Coupon{
		{ID: uuid.New(), Code: "OK", Enabled: true, Promotion: &models.Promotion{
			Name:    "Evergreen",
			Enabled: true,
			Kind:    enums.PromotionKindPercentage,
		}},
	}}

	if violations := fixedRule(time.Now()).Check(context.Background(), order); len(violations) != 0 {
		t.Fatalf("expected no violations, got %+v", violations)
	}
}

func TestValidityRuleSkipsCompletedOrder(t *testing.T) {
	t.Parallel()

	order := &models.Order{State: enums.OrderStateCompleted, Coupons: []models.Coupon{
		{ID: uuid.New(), Code: "DEAD", Enabled: false},
	}}

	if violations := fixedRule(time.Now()).Check(context.Background(), order); len(violations) != 0 {
		t.Fatalf("completed orders must not be re-validated, got %+v", violations)
	}
}
