package enums

// Currency is the ISO 4217 currency code carried on monetary amounts.
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyCAD Currency = "CAD"
	CurrencyEUR Currency = "EUR"
)

// IsValid reports whether the value matches a supported currency.
func (c Currency) IsValid() bool {
	switch c {
	case CurrencyUSD, CurrencyCAD, CurrencyEUR:
		return true
	}
	return false
}
