package shipping

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/mpoberly/storefront-backend/pkg/db/models"
	pkgerrors "github.com/mpoberly/storefront-backend/pkg/errors"
	"github.com/mpoberly/storefront-backend/pkg/types"
)

const optionIDSeparator = "--"

// RateOption is a computed shipping quote for one shipment. Options are
// never persisted; they are rebuilt from the shipment and method on every
// request.
type RateOption struct {
	ID           string      `json:"id"`
	ShipmentID   uuid.UUID   `json:"shipment_id"`
	MethodID     uuid.UUID   `json:"-"`
	ServiceID    string      `json:"-"`
	Label        string      `json:"label"`
	Amount       types.Money `json:"amount"`
	DeliveryDays *int        `json:"delivery_days,omitempty"`
	Terms        *string     `json:"terms,omitempty"`
}

// OptionID renders the public rate option identity.
func OptionID(methodID uuid.UUID, serviceID string) string {
	return methodID.String() + optionIDSeparator + serviceID
}

// ParseOptionID splits "methodId--serviceId".
func ParseOptionID(raw string) (uuid.UUID, string, error) {
	parts := strings.SplitN(raw, optionIDSeparator, 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return uuid.Nil, "", pkgerrors.New(pkgerrors.CodeUnprocessable, fmt.Sprintf("%q is not a valid shipping method identifier.", raw)).
			WithPointer("shippingMethod")
	}
	methodID, err := uuid.Parse(parts[0])
	if err != nil {
		return uuid.Nil, "", pkgerrors.New(pkgerrors.CodeUnprocessable, fmt.Sprintf("%q is not a valid shipping method identifier.", raw)).
			WithPointer("shippingMethod")
	}
	return methodID, parts[1], nil
}

// OptionsForShipment derives the quote list for one shipment from one
// method's service table, in the table's order. Disabled methods quote
// nothing.
func OptionsForShipment(shipment *models.Shipment, method *models.ShippingMethod) []RateOption {
	if shipment == nil || method == nil || !method.Enabled {
		return nil
	}
	options := make([]RateOption, 0, len(method.Services))
	for _, svc := range method.Services {
		options = append(options, RateOption{
			ID:           OptionID(method.ID, svc.ID),
			ShipmentID:   shipment.ID,
			MethodID:     method.ID,
			ServiceID:    svc.ID,
			Label:        method.Name + " " + svc.Label,
			Amount:       types.NewMoney(svc.Amount, svc.Currency),
			DeliveryDays: svc.DeliveryDays,
			Terms:        svc.Terms,
		})
	}
	return options
}

// bestEffortRateMatch picks the option whose service matches, falling
// back to the first computed option when the requested id is stale. The
// fallback keeps an outdated service id usable instead of failing the
// whole request.
// TODO: make the fallback configurable once a strict mode is needed.
func bestEffortRateMatch(options []RateOption, serviceID string) *RateOption {
	if len(options) == 0 {
		return nil
	}
	for i := range options {
		if options[i].ServiceID == serviceID {
			return &options[i]
		}
	}
	return &options[0]
}
