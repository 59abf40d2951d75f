package cart

import "context"

// FieldPolicy gates writes to individual item fields. CanWrite sees both
// the current and proposed value; a denial is not an error, the field is
// skipped and reported as such.
type FieldPolicy interface {
	CanWrite(ctx context.Context, field string, oldValue, newValue any) bool
}

// defaultFieldPolicy lets storefront callers change line quantity and
// arity grouping. Unit price stays server-controlled.
type defaultFieldPolicy struct{}

// NewDefaultFieldPolicy builds the storefront field policy.
func NewDefaultFieldPolicy() FieldPolicy {
	return defaultFieldPolicy{}
}

func (defaultFieldPolicy) CanWrite(ctx context.Context, field string, oldValue, newValue any) bool {
	switch field {
	case "quantity", "arityKey":
		return true
	default:
		return false
	}
}
