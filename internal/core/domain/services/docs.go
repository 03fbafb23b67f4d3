// Package services provides domain services that hold order rules which do
// not belong to a single aggregate.
//
// The package includes:
//   - DiscountEngine: resolves the discount of a coupon for an order subtotal
package services
