package tally

import (
	"math"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is the currency of a book when none is given.
const DefaultCurrency = "USD"

// Money represents a monetary value.
type Money struct {
	value decimal.Decimal // as major unit value
	cur   string
}

// M returns value as Money in the given currency.
func M[T float32 | float64 | int | int32 | int64 | uint | uint32 | uint64 | decimal.Decimal](value T, currency string) Money {
	return Money{value: newDecimal(value), cur: currency}
}

// currency returns the money's currency
func (m Money) currency() money.Currency {
	// to get a never nil currency I need to call the Money constructor
	return *money.New(0, m.cur).Currency()
}

// fraction returns the number of digits shown for this currency.
func (m Money) fraction() int32 {
	if m.cur == "" {
		return 2
	}
	return int32(m.currency().Fraction)
}

// Round returns m rounded to the currency fraction (cents for USD).
func (m Money) Round() Money { return Money{value: m.value.Round(m.fraction()), cur: m.cur} }

// String returns the display form of the money value, with the currency symbol
// and thousand separators, like "$1,234.50".
func (m Money) String() string {
	if m.cur == "" {
		return groupThousands(m.Fixed())
	}
	f := m.currency().Formatter()
	minor := m.value.Round(m.fraction()).Shift(m.fraction())
	if minor.GreaterThanOrEqual(minMinor) && minor.LessThanOrEqual(maxMinor) {
		return f.Format(minor.IntPart())
	}
	// out of the formatter's int64 range: same layout, built from the decimal.
	amount := groupDigits(m.value.Abs().StringFixed(m.fraction()), f.Thousand, f.Decimal)
	out := strings.Replace(f.Template, "1", amount, 1)
	out = strings.Replace(out, "$", f.Grapheme, 1)
	if minor.IsNegative() {
		out = "-" + out
	}
	return out
}

var (
	minMinor = decimal.NewFromInt(math.MinInt64)
	maxMinor = decimal.NewFromInt(math.MaxInt64)
)

// Fixed returns the editing form of the money value: rounded to the currency
// fraction, no symbol and no thousand separators, like "1234.50".
func (m Money) Fixed() string { return m.value.StringFixed(m.fraction()) }

// Simple wrapper around decimal.Decimal

func (m Money) Currency() string                { return m.cur }
func (m Money) Decimal() decimal.Decimal        { return m.value }
func (m Money) Equal(n Money) bool              { return m.value.Equal(n.value) && m.cur == n.cur }
func (m Money) IsZero() bool                    { return m.value.IsZero() }
func (m Money) IsPositive() bool                { return m.value.IsPositive() }
func (m Money) IsNegative() bool                { return m.value.IsNegative() }
func (m Money) LessThan(amount Money) bool      { return m.value.LessThan(amount.value) }
func (m Money) GreaterThan(n Money) bool        { return m.value.GreaterThan(n.value) }
func (m Money) GreaterThanOrEqual(n Money) bool { return m.value.GreaterThanOrEqual(n.value) }
func (m Money) Neg() Money                      { return Money{value: m.value.Neg(), cur: m.cur} }
func (m Money) Mul(n Quantity) Money            { return Money{value: m.value.Mul(n.value), cur: m.cur} }
func (m Money) Div(n Quantity) Money            { return Money{value: m.value.Div(n.value), cur: m.cur} }

// binary operators.
func (m Money) Add(n Money) Money { return Money{value: m.value.Add(n.value), cur: cur(m, n)} }
func (m Money) Sub(n Money) Money { return Money{value: m.value.Sub(n.value), cur: cur(m, n)} }

// makes the "" currency totally weak.
func cur(A, B Money) string {
	if A.cur == "" {
		return B.cur
	}
	if B.cur == "" {
		return A.cur
	}
	if A.cur != B.cur {
		panic("currency mismatch" + A.cur + "!=" + B.cur)
	}
	return A.cur
}

func (m Money) MarshalJSON() ([]byte, error) {
	return fields{
		{key: "currency", value: m.cur, omit: m.cur == ""},
		{key: "amount", value: m.value.Round(m.fraction())},
	}.MarshalJSON()
}
