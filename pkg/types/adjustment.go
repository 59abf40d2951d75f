package types

import (
	"database/sql/driver"
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/mpoberly/storefront-backend/pkg/enums"
)

// Adjustment is an additive price modifier (shipping fee, discount, tax)
// attached to the order or a single line.
type Adjustment struct {
	Type       enums.AdjustmentType `json:"type"`
	Label      string               `json:"label"`
	Amount     Money                `json:"amount"`
	Total      *Money               `json:"total,omitempty"`
	Percentage *decimal.Decimal     `json:"percentage,omitempty"`
	SourceID   *string              `json:"source_id,omitempty"`
	Included   bool                 `json:"included"`
	Locked     bool                 `json:"locked"`
}

// EffectiveTotal returns the tracked total, defaulting to the amount when
// a total is not independently tracked.
func (a Adjustment) EffectiveTotal() Money {
	if a.Total != nil {
		return *a.Total
	}
	return a.Amount
}

// Adjustments stores an ordered adjustment list inside a JSONB column.
type Adjustments []Adjustment

// Value serializes the adjustment list to JSON.
func (a Adjustments) Value() (driver.Value, error) {
	if a == nil {
		return nil, nil
	}
	return json.Marshal(a)
}

// Scan decodes JSONB into the adjustment list.
func (a *Adjustments) Scan(value interface{}) error {
	if value == nil {
		*a = nil
		return nil
	}
	raw, err := asJSON(value)
	if err != nil {
		return err
	}
	var decoded Adjustments
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return err
	}
	*a = decoded
	return nil
}
