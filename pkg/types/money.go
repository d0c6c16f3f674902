package types

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// MoneyScale is the number of fraction digits kept for currency amounts.
const MoneyScale = 2

// Money is a currency amount that serializes as a fixed two-decimal string.
// Rounding is half away from zero, which is half-up for the non-negative
// amounts the catalog deals in.
type Money struct {
	decimal.Decimal
}

func NewMoney(d decimal.Decimal) Money {
	return Money{Decimal: d}
}

// RoundMoney rounds d half-up to MoneyScale places.
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyScale)
}

func (m Money) String() string {
	return m.Decimal.StringFixed(MoneyScale)
}

// MarshalJSON implements json.Marshaler.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}
