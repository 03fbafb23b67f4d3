package services

import (
	"errors"
	"fmt"

	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/core/domain/model/kernel"
	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
)

// ErrInvalidCoupon is returned when a coupon cannot be resolved to a
// discount. Such coupons are rejected, never silently zeroed.
var ErrInvalidCoupon = errors.New("invalid coupon")

var hundred = decimal.NewFromInt(100)

// InvalidCouponError names the coupon and the reason it was rejected.
type InvalidCouponError struct {
	Code   string
	Reason string
}

func (e *InvalidCouponError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrInvalidCoupon, e.Code, e.Reason)
}

func (e *InvalidCouponError) Unwrap() error {
	return ErrInvalidCoupon
}

// DiscountEngine resolves the discount amount of a coupon for a subtotal.
//
// Business rules:
//   - percentage: subtotal * value / 100, clamped to [0, subtotal]
//   - fixed: min(value, subtotal)
//   - the result is rounded half to even to two decimals
//
// Example usage:
//
//	engine := services.NewDiscountEngine()
//	coupon, _ := order.NewCoupon("WELCOME10", order.DiscountPercentage, decimal.NewFromInt(10))
//	discount, err := engine.Resolve(kernel.MustMoney(99900), coupon) // 99.90
//	if errors.Is(err, services.ErrInvalidCoupon) {
//	    // Reject the coupon
//	}
type DiscountEngine struct{}

func NewDiscountEngine() DiscountEngine {
	return DiscountEngine{}
}

// Resolve implements order.DiscountResolver.
func (DiscountEngine) Resolve(subtotal kernel.Money, coupon order.Coupon) (kernel.Money, error) {
	if err := subtotal.Validate(); err != nil {
		return kernel.Money{}, err
	}
	if coupon.Code() == "" {
		return kernel.Money{}, &InvalidCouponError{Reason: "coupon must be created via NewCoupon"}
	}

	value := coupon.Value()
	if value.IsNegative() {
		return kernel.Money{}, &InvalidCouponError{Code: coupon.Code(), Reason: "negative value"}
	}

	var raw decimal.Decimal
	switch coupon.Kind() {
	case order.DiscountPercentage:
		if value.GreaterThan(hundred) {
			value = hundred
		}
		raw = subtotal.Decimal().Mul(value).Div(hundred)
	case order.DiscountFixed:
		raw = value
	default:
		return kernel.Money{}, &InvalidCouponError{Code: coupon.Code(), Reason: fmt.Sprintf("unknown discount kind %s", coupon.Kind())}
	}

	discount, err := kernel.MoneyFromDecimal(raw.RoundBank(kernel.MoneyScale))
	if err != nil {
		return kernel.Money{}, &InvalidCouponError{Code: coupon.Code(), Reason: err.Error()}
	}
	return kernel.MinMoney(discount, subtotal), nil
}
