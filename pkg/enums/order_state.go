package enums

import "fmt"

// OrderState describes the lifecycle of the cart aggregate. The transition
// is one-way: draft -> completed.
type OrderState string

const (
	OrderStateDraft     OrderState = "draft"
	OrderStateCompleted OrderState = "completed"
)

var validOrderStates = []OrderState{
	OrderStateDraft,
	OrderStateCompleted,
}

// IsValid reports whether the value matches the canonical order state enum.
func (o OrderState) IsValid() bool {
	for _, candidate := range validOrderStates {
		if candidate == o {
			return true
		}
	}
	return false
}

// ParseOrderState converts the raw string to OrderState.
func ParseOrderState(value string) (OrderState, error) {
	for _, candidate := range validOrderStates {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order state %q", value)
}
