package optionpl

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// Money represents a dollar amount with exact decimal arithmetic.
type Money struct {
	value decimal.Decimal // as major unit value
}

func M[T float64 | int | int64 | decimal.Decimal](value T) Money {
	return Money{value: newDecimal(value)}
}

func (m Money) Equal(n Money) bool       { return m.value.Equal(n.value) }
func (m Money) IsZero() bool             { return m.value.IsZero() }
func (m Money) IsPositive() bool         { return m.value.IsPositive() }
func (m Money) IsNegative() bool         { return m.value.IsNegative() }
func (m Money) LessThan(n Money) bool    { return m.value.LessThan(n.value) }
func (m Money) Neg() Money               { return Money{value: m.value.Neg()} }
func (m Money) Abs() Money               { return Money{value: m.value.Abs()} }
func (m Money) Add(n Money) Money        { return Money{value: m.value.Add(n.value)} }
func (m Money) Sub(n Money) Money        { return Money{value: m.value.Sub(n.value)} }
func (m Money) Mul(q Quantity) Money     { return Money{value: m.value.Mul(q.value)} }
func (m Money) Div(q Quantity) Money     { return Money{value: m.value.Div(q.value)} }
func (m Money) Float() float64           { return m.value.InexactFloat64() }
func (m Money) Decimal() decimal.Decimal { return m.value }
func (m Money) String() string           { return m.value.StringFixed(2) }
func (m Money) Round(places int32) Money { return Money{value: m.value.Round(places)} }
func (m Money) Sign() int                { return m.value.Sign() }

// prorata returns the share of m attributable to part out of whole.
// A zero whole yields zero.
func (m Money) prorata(part, whole Quantity) Money {
	if whole.IsZero() {
		return Money{}
	}
	return Money{value: m.value.Mul(part.value).Div(whole.value)}
}

// Format formats the amount in the given ISO currency, e.g. "$1,234.50" for USD.
func (m Money) Format(currency string) string {
	cur := money.New(0, currency).Currency()
	minor := m.value.Shift(int32(cur.Fraction)).Round(0)
	return cur.Formatter().Format(minor.IntPart())
}

// SignedFormat is like Format but always prefixes positive amounts with "+".
// Zero is represented as "-".
func (m Money) SignedFormat(currency string) string {
	if m.value.Round(2).IsZero() {
		return "-"
	}
	if m.value.IsPositive() {
		return "+" + m.Format(currency)
	}
	return m.Format(currency)
}

func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.value.String()), nil
}

func (m *Money) UnmarshalJSON(data []byte) error {
	return m.value.UnmarshalJSON(data)
}
