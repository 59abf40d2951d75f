package checkout

import (
	"context"
	"strings"

	"github.com/mpoberly/storefront-backend/internal/orders"
	"github.com/mpoberly/storefront-backend/pkg/db/models"
	"github.com/mpoberly/storefront-backend/pkg/validation"
)

// BuildRequiredFieldReport collects everything still standing between
// the draft and completion: the registered save-rule violations plus the
// checkout fields that have not been provided yet. The report is
// advisory response metadata and never blocks a read.
func BuildRequiredFieldReport(ctx context.Context, repo *orders.Repository, order *models.Order) validation.Violations {
	if order == nil || !order.IsDraft() {
		return nil
	}

	violations := repo.Validate(ctx, order)

	if order.Email == nil || strings.TrimSpace(*order.Email) == "" {
		violations.Add("email", "An email address is required to complete checkout.")
	}
	// The shipping profile only exists once shipping information was
	// provided, so its absence is itself the violation.
	if order.ShippingProfileID == nil {
		violations.Add("shippingInformation", "Shipping information is required to complete checkout.")
	} else if missingRate(order) {
		violations.Add("shippingMethod", "A shipping method must be selected.")
	}
	if order.BillingProfileID == nil {
		violations.Add("billingInformation", "Billing information is required to complete checkout.")
	}
	if order.PaymentMethodID == nil {
		violations.Add("paymentInstrument", "A payment instrument is required to complete checkout.")
	}

	return violations
}

func missingRate(order *models.Order) bool {
	if len(order.Shipments) == 0 {
		return true
	}
	for i := range order.Shipments {
		if !order.Shipments[i].HasMethod() {
			return true
		}
	}
	return false
}
