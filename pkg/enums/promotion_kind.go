package enums

import "fmt"

// PromotionKind describes how a promotion discounts the order subtotal.
type PromotionKind string

const (
	PromotionKindPercentage PromotionKind = "percentage"
	PromotionKindFixed      PromotionKind = "fixed"
)

var validPromotionKinds = []PromotionKind{
	PromotionKindPercentage,
	PromotionKindFixed,
}

// IsValid reports whether the value matches the canonical promotion kind enum.
func (p PromotionKind) IsValid() bool {
	for _, candidate := range validPromotionKinds {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePromotionKind converts the raw string to PromotionKind.
func ParsePromotionKind(value string) (PromotionKind, error) {
	for _, candidate := range validPromotionKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid promotion kind %q", value)
}
