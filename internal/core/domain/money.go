package domain

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// MinorUnitExponent is the number of fractional digits a Money value carries.
const MinorUnitExponent = 2

var (
	ErrTooManyDecimals = errors.New("amount has more than 2 decimal places")
	ErrAmountOverflow  = errors.New("amount is out of range")
)

var (
	minorUnitsPerMajor = decimal.New(1, MinorUnitExponent)
	maxMoney           = decimal.NewFromInt(math.MaxInt64)
	minMoney           = decimal.NewFromInt(math.MinInt64)
)

// Money is an amount in integer minor units (cents). Totals are compared exactly.
type Money int64

// NewMoneyFromDecimal converts a decimal amount into minor units.
func NewMoneyFromDecimal(d decimal.Decimal) (Money, error) {
	scaled := d.Mul(minorUnitsPerMajor)
	if !scaled.Equal(scaled.Truncate(0)) {
		return 0, fmt.Errorf("%w: %s", ErrTooManyDecimals, d.String())
	}
	if scaled.GreaterThan(maxMoney) || scaled.LessThan(minMoney) {
		return 0, fmt.Errorf("%w: %s", ErrAmountOverflow, d.String())
	}
	return Money(scaled.IntPart()), nil
}

// MustMoney parses s and panics on failure. Intended for fixtures and constants.
func MustMoney(s string) Money {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	m, err := NewMoneyFromDecimal(d)
	if err != nil {
		panic(err)
	}
	return m
}

// Decimal returns the amount in major units.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(int64(m), -MinorUnitExponent)
}

func (m Money) String() string {
	return m.Decimal().StringFixed(MinorUnitExponent)
}

func (m Money) IsZero() bool     { return m == 0 }
func (m Money) IsNegative() bool { return m < 0 }
func (m Money) Neg() Money       { return -m }

// Add returns m+o, failing instead of wrapping around on overflow.
func (m Money) Add(o Money) (Money, error) {
	if (o > 0 && m > math.MaxInt64-o) || (o < 0 && m < math.MinInt64-o) {
		return 0, ErrAmountOverflow
	}
	return m + o, nil
}

// MarshalJSON encodes the amount as a fixed two-decimal string.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}

// UnmarshalJSON accepts either a JSON string or number in major units.
func (m *Money) UnmarshalJSON(b []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(b); err != nil {
		return err
	}
	v, err := NewMoneyFromDecimal(d)
	if err != nil {
		return err
	}
	*m = v
	return nil
}
