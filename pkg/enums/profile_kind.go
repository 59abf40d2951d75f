package enums

// ProfileKind distinguishes the two address records an order can carry.
type ProfileKind string

const (
	ProfileKindBilling  ProfileKind = "billing"
	ProfileKindShipping ProfileKind = "shipping"
)
