package types

import (
	"database/sql/driver"
	"encoding/json"
	"strings"
)

// Address is the JSONB address shape shared by billing and shipping
// profiles. The shipping profile only exists once a shipping-relevant
// mutation wrote one of these.
type Address struct {
	CountryCode string  `json:"country_code"`
	PostalCode  string  `json:"postal_code"`
	Region      string  `json:"region,omitempty"`
	City        string  `json:"city,omitempty"`
	Line1       string  `json:"line1,omitempty"`
	Line2       *string `json:"line2,omitempty"`
	GivenName   *string `json:"given_name,omitempty"`
	FamilyName  *string `json:"family_name,omitempty"`
	Company     *string `json:"company,omitempty"`
	Phone       *string `json:"phone,omitempty"`
}

// Empty reports whether no address component has been provided.
func (a Address) Empty() bool {
	return strings.TrimSpace(a.CountryCode) == "" &&
		strings.TrimSpace(a.PostalCode) == "" &&
		strings.TrimSpace(a.Region) == "" &&
		strings.TrimSpace(a.City) == "" &&
		strings.TrimSpace(a.Line1) == ""
}

// Value serializes the address to JSON.
func (a *Address) Value() (driver.Value, error) {
	if a == nil {
		return nil, nil
	}
	return json.Marshal(a)
}

// Scan decodes JSONB into the address struct.
func (a *Address) Scan(value interface{}) error {
	if value == nil {
		*a = Address{}
		return nil
	}
	raw, err := asJSON(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, a)
}
