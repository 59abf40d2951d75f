package types

import (
	"database/sql/driver"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mpoberly/storefront-backend/pkg/enums"
)

// PackedItem references one order item inside a shipment.
type PackedItem struct {
	OrderItemID uuid.UUID `json:"order_item_id"`
	Quantity    int       `json:"quantity"`
}

// PackedItems stores the shipment's packed lines inside a JSONB column.
type PackedItems []PackedItem

// Value serializes the packed lines to JSON.
func (p PackedItems) Value() (driver.Value, error) {
	if p == nil {
		return nil, nil
	}
	return json.Marshal(p)
}

// Scan decodes JSONB into the packed lines.
func (p *PackedItems) Scan(value interface{}) error {
	if value == nil {
		*p = nil
		return nil
	}
	raw, err := asJSON(value)
	if err != nil {
		return err
	}
	var decoded PackedItems
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return err
	}
	*p = decoded
	return nil
}

// RateService is one service a shipping method quotes, e.g. "default" or
// "overnight". Amounts are flat per shipment.
type RateService struct {
	ID           string          `json:"id"`
	Label        string          `json:"label"`
	Amount       decimal.Decimal `json:"amount"`
	Currency     enums.Currency  `json:"currency"`
	DeliveryDays *int            `json:"delivery_days,omitempty"`
	Terms        *string         `json:"terms,omitempty"`
}

// RateServices stores the method's service table inside a JSONB column.
type RateServices []RateService

// Value serializes the service table to JSON.
func (r RateServices) Value() (driver.Value, error) {
	if r == nil {
		return nil, nil
	}
	return json.Marshal(r)
}

// Scan decodes JSONB into the service table.
func (r *RateServices) Scan(value interface{}) error {
	if value == nil {
		*r = nil
		return nil
	}
	raw, err := asJSON(value)
	if err != nil {
		return err
	}
	var decoded RateServices
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return err
	}
	*r = decoded
	return nil
}
