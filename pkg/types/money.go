package types

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mpoberly/storefront-backend/pkg/enums"
)

// Money is a currency-tagged decimal amount. It is never persisted as a
// derived total; stored columns keep the raw decimal and currency side by
// side and projections assemble Money on read.
type Money struct {
	Number   decimal.Decimal
	Currency enums.Currency
}

// NewMoney builds a Money value from a decimal amount and currency.
func NewMoney(number decimal.Decimal, currency enums.Currency) Money {
	return Money{Number: number, Currency: currency}
}

// MoneyFromString parses the decimal representation, e.g. "1005.0".
func MoneyFromString(number string, currency enums.Currency) (Money, error) {
	d, err := decimal.NewFromString(number)
	if err != nil {
		return Money{}, fmt.Errorf("parse money %q: %w", number, err)
	}
	return Money{Number: d, Currency: currency}, nil
}

// Add returns the sum of both amounts. Mixing currencies is a programming
// error and panics the same way decimal division by zero does.
func (m Money) Add(other Money) Money {
	if m.Currency != other.Currency && !m.Number.IsZero() && !other.Number.IsZero() {
		panic(fmt.Sprintf("money: currency mismatch %s vs %s", m.Currency, other.Currency))
	}
	currency := m.Currency
	if currency == "" {
		currency = other.Currency
	}
	return Money{Number: m.Number.Add(other.Number), Currency: currency}
}

// MulInt scales the amount by a whole quantity.
func (m Money) MulInt(qty int) Money {
	return Money{Number: m.Number.Mul(decimal.NewFromInt(int64(qty))), Currency: m.Currency}
}

// Neg returns the negated amount.
func (m Money) Neg() Money {
	return Money{Number: m.Number.Neg(), Currency: m.Currency}
}

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool {
	return m.Number.IsZero()
}

// Equal compares number and currency.
func (m Money) Equal(other Money) bool {
	return m.Currency == other.Currency && m.Number.Equal(other.Number)
}

type moneyJSON struct {
	Number   string         `json:"number"`
	Currency enums.Currency `json:"currency"`
}

// MarshalJSON renders {"number":"1005.0","currency":"USD"}. Whole amounts
// keep one decimal place so clients always see a fractional part.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(moneyJSON{Number: formatAmount(m.Number), Currency: m.Currency})
}

// UnmarshalJSON accepts the wire shape produced by MarshalJSON.
func (m *Money) UnmarshalJSON(data []byte) error {
	var raw moneyJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := decimal.NewFromString(raw.Number)
	if err != nil {
		return fmt.Errorf("parse money number %q: %w", raw.Number, err)
	}
	m.Number = parsed
	m.Currency = raw.Currency
	return nil
}

func formatAmount(d decimal.Decimal) string {
	if d.IsInteger() {
		return d.StringFixed(1)
	}
	return d.String()
}
