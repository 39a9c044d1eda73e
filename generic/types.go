/*
Package generic provides the domain-agnostic primitives the payroll engine is built on.

PURPOSE:
  This package contains value types that have nothing to do with salaries
  specifically: exact money arithmetic, calendar days, inclusive date ranges,
  holiday calendars, and the error taxonomy shared across packages.

KEY CONCEPTS IN THIS FILE (types.go):
  - Money: An exact decimal amount (never float64)
  - Rounding: Money is only rounded at presentation boundaries

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal to avoid floating-point drift
  2. Immutability: Every operation returns a new value
  3. Single rounding point: callers keep full precision until display

USAGE:
  salary := generic.MustParseMoney("30000")
  perDay := salary.DivInt(28)          // full precision
  shown  := perDay.Round2()            // 1071.43, only when displaying

SEE ALSO:
  - time.go: TimePoint and month helpers
  - period.go: Inclusive date ranges
  - errors.go: Sentinel errors
*/
package generic

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// =============================================================================
// MONEY - Exact decimal amount
// =============================================================================

// Money is an exact monetary amount. The zero value is 0.
type Money struct {
	Value decimal.Decimal
}

// DisplayPlaces is the number of decimal places shown to users.
const DisplayPlaces = 2

func NewMoney(d decimal.Decimal) Money { return Money{Value: d} }
func ZeroMoney() Money                 { return Money{Value: decimal.Zero} }

// ParseMoney parses a decimal string such as "1250.50".
func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, err
	}
	return Money{Value: d}, nil
}

// MustParseMoney is like ParseMoney but panics on malformed input.
// Intended for literals in tests and fixtures.
func MustParseMoney(s string) Money {
	return Money{Value: decimal.RequireFromString(s)}
}

func (m Money) Add(o Money) Money           { return Money{Value: m.Value.Add(o.Value)} }
func (m Money) Sub(o Money) Money           { return Money{Value: m.Value.Sub(o.Value)} }
func (m Money) Mul(d decimal.Decimal) Money { return Money{Value: m.Value.Mul(d)} }
func (m Money) DivInt(n int64) Money        { return Money{Value: m.Value.Div(decimal.NewFromInt(n))} }
func (m Money) IsNegative() bool            { return m.Value.IsNegative() }
func (m Money) IsZero() bool                { return m.Value.IsZero() }
func (m Money) Equal(o Money) bool          { return m.Value.Equal(o.Value) }

// Round2 rounds half away from zero to DisplayPlaces.
// Only presentation code should call this.
func (m Money) Round2() Money {
	return Money{Value: m.Value.Round(DisplayPlaces)}
}

// StringFixed formats with exactly DisplayPlaces decimals ("1071.43").
func (m Money) StringFixed() string {
	return m.Value.StringFixed(DisplayPlaces)
}

func (m Money) String() string { return m.Value.String() }

// Float64 is for spreadsheet cells and other float-only sinks.
func (m Money) Float64() float64 {
	return m.Value.InexactFloat64()
}

// MarshalJSON emits the amount as a fixed two-decimal string, the format
// every payroll document uses.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.StringFixed())
}

// UnmarshalJSON accepts either a JSON number or a numeric string.
func (m *Money) UnmarshalJSON(data []byte) error {
	return m.Value.UnmarshalJSON(data)
}

// SumMoney adds all amounts.
func SumMoney(amounts ...Money) Money {
	total := ZeroMoney()
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}
