package enums

import "fmt"

// AdjustmentType classifies additive price modifiers on an order or line.
type AdjustmentType string

const (
	AdjustmentTypeShipping  AdjustmentType = "shipping"
	AdjustmentTypePromotion AdjustmentType = "promotion"
	AdjustmentTypeTax       AdjustmentType = "tax"
	AdjustmentTypeCustom    AdjustmentType = "custom"
)

var validAdjustmentTypes = []AdjustmentType{
	AdjustmentTypeShipping,
	AdjustmentTypePromotion,
	AdjustmentTypeTax,
	AdjustmentTypeCustom,
}

// IsValid reports whether the value matches the canonical adjustment type enum.
func (a AdjustmentType) IsValid() bool {
	for _, candidate := range validAdjustmentTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAdjustmentType converts the raw string to AdjustmentType.
func ParseAdjustmentType(value string) (AdjustmentType, error) {
	for _, candidate := range validAdjustmentTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid adjustment type %q", value)
}
