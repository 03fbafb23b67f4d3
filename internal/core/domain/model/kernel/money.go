package kernel

import (
	"errors"
	"fmt"

	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// MoneyScale is the number of fraction digits of every amount (paise, cents).
const MoneyScale = 2

var (
	// ErrMoneyIsNegative is returned when a negative amount is used where only
	// non-negative amounts are allowed.
	ErrMoneyIsNegative = errors.New("money must not be negative")

	// ErrMoneyPrecision is returned for inputs with more than MoneyScale fraction digits.
	ErrMoneyPrecision = errors.New("money supports at most two fraction digits")
)

// Money is an exact amount stored as integer minor units. The zero value is 0.00.
//
// Arithmetic never rounds: Add, Sub and MulInt are exact. Sub may produce a
// negative delta; Validate rejects it where a stored amount is expected.
type Money struct {
	minor int64
}

// ZeroMoney returns 0.00.
func ZeroMoney() Money {
	return Money{}
}

// NewMoney builds an amount from minor units.
func NewMoney(minor int64) (Money, error) {
	m := Money{minor: minor}
	if err := m.Validate(); err != nil {
		return Money{}, err
	}
	return m, nil
}

// MustMoney is NewMoney for constants and tests.
func MustMoney(minor int64) Money {
	m, err := NewMoney(minor)
	if err != nil {
		panic(err)
	}
	return m
}

// ParseMoney parses a decimal string such as "999", "99.9" or "1499.00".
func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("money", err)
	}
	return MoneyFromDecimal(d)
}

// MoneyFromDecimal converts an already rounded decimal to Money.
func MoneyFromDecimal(d decimal.Decimal) (Money, error) {
	shifted := d.Shift(MoneyScale)
	if !shifted.Equal(shifted.Truncate(0)) {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("money", fmt.Errorf("%s: %w", d.String(), ErrMoneyPrecision))
	}
	return NewMoney(shifted.IntPart())
}

// Minor returns the amount in minor units.
func (m Money) Minor() int64 {
	return m.minor
}

// Decimal returns the amount as a decimal with MoneyScale fraction digits.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.minor, -MoneyScale)
}

// String renders exactly two fraction digits, e.g. "99.90".
func (m Money) String() string {
	return m.Decimal().StringFixed(MoneyScale)
}

func (m Money) Add(other Money) Money {
	return Money{minor: m.minor + other.minor}
}

func (m Money) Sub(other Money) Money {
	return Money{minor: m.minor - other.minor}
}

func (m Money) MulInt(n int64) Money {
	return Money{minor: m.minor * n}
}

func (m Money) Cmp(other Money) int {
	switch {
	case m.minor < other.minor:
		return -1
	case m.minor > other.minor:
		return 1
	default:
		return 0
	}
}

func (m Money) IsEqual(other Money) bool {
	return m.minor == other.minor
}

func (m Money) IsZero() bool {
	return m.minor == 0
}

func (m Money) IsNegative() bool {
	return m.minor < 0
}

// MinMoney returns the smaller of a and b.
func MinMoney(a, b Money) Money {
	if a.Cmp(b) <= 0 {
		return a
	}
	return b
}

// Validate rejects negative amounts.
func (m Money) Validate() error {
	if m.IsNegative() {
		return errs.NewValueIsInvalidErrorWithCause("money", fmt.Errorf("%s: %w", m.String(), ErrMoneyIsNegative))
	}
	return nil
}
