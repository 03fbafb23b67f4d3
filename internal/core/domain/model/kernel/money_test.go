package kernel_test

import (
	"testing"

	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/core/domain/model/kernel"
	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMoney(t *testing.T) {
	testCases := []struct {
		in       string
		minor    int64
		rendered string
	}{
		{"999", 99900, "999.00"},
		{"99.9", 9990, "99.90"},
		{"1499.00", 149900, "1499.00"},
		{"0", 0, "0.00"},
		{"0.05", 5, "0.05"},
		{"12.300", 1230, "12.30"},
	}

	for _, tc := range testCases {
		t.Run(tc.in, func(t *testing.T) {
			m, err := kernel.ParseMoney(tc.in)

			require.NoError(t, err)
			assert.Equal(t, tc.minor, m.Minor())
			assert.Equal(t, tc.rendered, m.String())
		})
	}

	t.Run("should reject more than two fraction digits", func(t *testing.T) {
		_, err := kernel.ParseMoney("10.005")

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Contains(t, err.Error(), kernel.ErrMoneyPrecision.Error())
	})

	t.Run("should reject negative amounts", func(t *testing.T) {
		_, err := kernel.ParseMoney("-1.00")

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Contains(t, err.Error(), kernel.ErrMoneyIsNegative.Error())
	})

	t.Run("should reject garbage", func(t *testing.T) {
		_, err := kernel.ParseMoney("ten rupees")

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestMoney_Arithmetic(t *testing.T) {
	price := kernel.MustMoney(33333)
	shipping := kernel.MustMoney(4900)

	t.Run("should add and multiply exactly", func(t *testing.T) {
		subtotal := price.MulInt(3)

		assert.Equal(t, "999.99", subtotal.String())
		assert.Equal(t, "1048.99", subtotal.Add(shipping).String())
	})

	t.Run("should allow negative deltas but reject them on validate", func(t *testing.T) {
		delta := shipping.Sub(price)

		assert.True(t, delta.IsNegative())
		assert.Equal(t, "-284.33", delta.String())
		require.Error(t, delta.Validate())
	})

	t.Run("should compare", func(t *testing.T) {
		assert.Equal(t, -1, shipping.Cmp(price))
		assert.Equal(t, 1, price.Cmp(shipping))
		assert.Equal(t, 0, price.Cmp(kernel.MustMoney(33333)))
		assert.Equal(t, shipping, kernel.MinMoney(price, shipping))
		assert.True(t, kernel.ZeroMoney().IsZero())
	})
}

func TestMoneyFromDecimal(t *testing.T) {
	m, err := kernel.MoneyFromDecimal(decimal.RequireFromString("99.90"))
	require.NoError(t, err)
	assert.Equal(t, int64(9990), m.Minor())
	assert.True(t, m.Decimal().Equal(decimal.RequireFromString("99.9")))

	_, err = kernel.MoneyFromDecimal(decimal.RequireFromString("0.001"))
	require.Error(t, err)
}

func TestNewMoney(t *testing.T) {
	_, err := kernel.NewMoney(-1)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	assert.Panics(t, func() { kernel.MustMoney(-5) })
}
