package checkout

import (
	"github.com/google/uuid"

	"github.com/mpoberly/storefront-backend/internal/orders"
	"github.com/mpoberly/storefront-backend/internal/shipping"
	"github.com/mpoberly/storefront-backend/pkg/db/models"
	"github.com/mpoberly/storefront-backend/pkg/types"
	"github.com/mpoberly/storefront-backend/pkg/validation"
)

// Summary is the full checkout read model: the loaded aggregate, the
// serializable projection, and the advisory required-field report.
type Summary struct {
	Order       *models.Order
	Projection  Projection
	Constraints validation.Violations
}

// HasShipments reports whether rate options can be listed yet, which is
// what gates the shipping-methods link on the response.
func (s Summary) HasShipments() bool {
	return s.Order != nil && len(s.Order.Shipments) > 0
}

// Projection is the checkout view of the order. The total block is
// derived on every read and never stored.
type Projection struct {
	Email               *string          `json:"email"`
	ShippingInformation *types.Address   `json:"shippingInformation,omitempty"`
	ShippingMethod      *string          `json:"shippingMethod,omitempty"`
	BillingInformation  *types.Address   `json:"billingInformation,omitempty"`
	PaymentInstrument   *uuid.UUID       `json:"paymentInstrument,omitempty"`
	OrderTotal          types.OrderTotal `json:"orderTotal"`
}

// Project assembles the checkout projection from the aggregate.
func Project(order *models.Order) Projection {
	projection := Projection{
		Email:             order.Email,
		PaymentInstrument: order.PaymentMethodID,
		OrderTotal:        orders.ComputeTotals(order),
	}
	if order.ShippingProfile != nil {
		address := order.ShippingProfile.Address
		projection.ShippingInformation = &address
	}
	if order.BillingProfile != nil {
		address := order.BillingProfile.Address
		projection.BillingInformation = &address
	}
	if option := selectedOption(order); option != "" {
		projection.ShippingMethod = &option
	}
	return projection
}

// selectedOption reconstructs the "methodId--serviceId" option id from
// the first shipment carrying a rate. Options are ephemeral, so the id
// is the only durable reference to the selection.
func selectedOption(order *models.Order) string {
	for i := range order.Shipments {
		shipment := &order.Shipments[i]
		if shipment.HasMethod() {
			return shipping.OptionID(*shipment.MethodID, *shipment.ServiceID)
		}
	}
	return ""
}
