package order

import (
	"strings"

	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/core/domain/model/kernel"
	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// DiscountKind selects how a coupon value is interpreted.
type DiscountKind int

const (
	DiscountKindUnknown DiscountKind = iota
	DiscountPercentage
	DiscountFixed
)

var discountKindNames = map[DiscountKind]string{
	DiscountKindUnknown: "unknown",
	DiscountPercentage:  "percentage",
	DiscountFixed:       "fixed",
}

// DiscountKindFromString never fails. Unrecognised kinds map to
// DiscountKindUnknown so that the resolver can reject the coupon.
func DiscountKindFromString(s string) DiscountKind {
	tag := strings.ToLower(strings.TrimSpace(s))
	for k, name := range discountKindNames {
		if name == tag {
			return k
		}
	}
	return DiscountKindUnknown
}

func (k DiscountKind) String() string {
	if name, ok := discountKindNames[k]; ok {
		return name
	}
	return discountKindNames[DiscountKindUnknown]
}

// Coupon is a discount definition as presented at checkout.
type Coupon struct {
	code  string
	kind  DiscountKind
	value decimal.Decimal
}

func NewCoupon(code string, kind DiscountKind, value decimal.Decimal) (Coupon, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return Coupon{}, errs.NewValueIsRequiredError("coupon.code")
	}
	if value.IsNegative() {
		return Coupon{}, errs.NewValueIsOutOfRangeError("coupon.value", value.String(), 0, "unbounded")
	}
	return Coupon{code: code, kind: kind, value: value}, nil
}

func (c Coupon) Code() string {
	return c.code
}

func (c Coupon) Kind() DiscountKind {
	return c.kind
}

// Value is a percentage for DiscountPercentage and an amount for DiscountFixed.
func (c Coupon) Value() decimal.Decimal {
	return c.value
}

// DiscountResolver computes the discount for a subtotal.
type DiscountResolver interface {
	Resolve(subtotal kernel.Money, coupon Coupon) (kernel.Money, error)
}

// CouponApplication is a coupon together with the discount resolved for
// this order.
type CouponApplication struct {
	coupon   Coupon
	discount kernel.Money
}

func (a CouponApplication) Coupon() Coupon {
	return a.coupon
}

func (a CouponApplication) Discount() kernel.Money {
	return a.discount
}
