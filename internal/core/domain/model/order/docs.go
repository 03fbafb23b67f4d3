// Package order implements the Order aggregate: a purchase from checkout
// through payment, fulfillment, delivery, return and refund.
//
// The aggregate owns:
//   - line items with unit prices captured at checkout
//   - the order status machine (Status, transition table)
//   - the payment record and its reconciliation with gateway callbacks
//   - the coupon application (discount resolved server side)
//   - the delivery tracking event log and its derived summary
//   - the append-only status history ledger
//
// Every mutating method validates first and mutates second, so a failed call
// leaves the aggregate untouched. Callers persist the aggregate as one unit,
// conditioned on Version.
package order
