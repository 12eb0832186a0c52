package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Amount is a fixed-point monetary value. It is stored as numeric(10,2) in
// the database and must never pass through float64 except at the
// presentation boundary.
type Amount struct {
	dec decimal.Decimal
}

// Parse reads a decimal string such as "19.99".
func Parse(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, fmt.Errorf("parse amount %q: %w", s, err)
	}
	return Amount{dec: d}, nil
}

// MustParse is Parse for literals in tests and seed data.
func MustParse(s string) Amount {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return a
}

func Zero() Amount {
	return Amount{}
}

// MulInt multiplies the amount by an integer quantity.
func (a Amount) MulInt(n int64) Amount {
	return Amount{dec: a.dec.Mul(decimal.NewFromInt(n))}
}

func (a Amount) Add(b Amount) Amount {
	return Amount{dec: a.dec.Add(b.dec)}
}

// Equal is exact decimal equality: 19.99 == 19.990.
func (a Amount) Equal(b Amount) bool {
	return a.dec.Equal(b.dec)
}

func (a Amount) IsZero() bool {
	return a.dec.IsZero()
}

// String renders the amount with two decimal places, matching the
// numeric(10,2) column representation.
func (a Amount) String() string {
	return a.dec.StringFixed(2)
}

// Float64 is for presentation only; rounding error is tolerable there.
func (a Amount) Float64() float64 {
	return a.dec.InexactFloat64()
}
