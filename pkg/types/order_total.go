package types

// OrderTotal is the derived monetary projection of a cart. It is rebuilt
// from items, coupons, and shipments on every read and never persisted.
type OrderTotal struct {
	Subtotal    Money        `json:"subtotal"`
	Adjustments []Adjustment `json:"adjustments"`
	Total       Money        `json:"total"`
}
