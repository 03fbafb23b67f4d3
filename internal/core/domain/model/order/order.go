package order

import (
	"encoding/hex"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/core/domain/model/kernel"
	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/pkg/errs"
)

// ActorSystem is recorded for transitions applied by background jobs.
const ActorSystem = "system"

// ReviewFlag marks an order that needs an operator. The reason of the latest
// flag wins.
type ReviewFlag struct {
	Reason    string
	FlaggedAt time.Time
}

// Order is the aggregate root of a purchase. It is the unit of persistence
// and of optimistic concurrency.
//
// Order keeps these invariants after every successful mutation:
//   - total equals subtotal plus delivery cost minus discount and is never negative
//   - a Prepaid order whose payment failed never enters confirmed or any later forward status
//   - the order code is set exactly when the ledger contains confirmed, and never changes
//   - every status change appends exactly one ledger entry
//   - delivery events are never removed and duplicates are ignored
type Order struct {
	id            kernel.UUID
	userID        kernel.UUID
	items         []LineItem
	address       ShippingAddress
	delivery      DeliveryInfo
	payment       Payment
	status        Status
	customOrderID string
	coupon        *CouponApplication
	refund        *RefundRequest
	total         kernel.Money
	ledger        Ledger
	tracking      Tracking
	review        *ReviewFlag
	version       int64
	createdAt     time.Time
	updatedAt     time.Time

	notifications []NotificationRequest

	isConstructed bool
}

// NewOrder creates an order at checkout in status processing with payment
// pending. Unit prices in items must already be the catalog snapshot.
//
// Example:
//
//	item, _ := order.NewLineItem(productID, "TSHIRT-M", 2, kernel.MustMoney(49900), order.Customization{})
//	o, err := order.NewOrder(kernel.NewUUID(), userID, []order.LineItem{item}, address, delivery, order.Prepaid, time.Now())
//	if err != nil {
//	    // Handle validation error
//	}
func NewOrder(
	id kernel.UUID,
	userID kernel.UUID,
	items []LineItem,
	address ShippingAddress,
	delivery DeliveryInfo,
	method PaymentMethod,
	at time.Time,
) (*Order, error) {
	o := &Order{
		status:        Processing,
		createdAt:     at.UTC(),
		updatedAt:     at.UTC(),
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setUserID(userID),
		o.setItems(items),
		o.setAddress(address),
		o.setDelivery(delivery),
		o.setPayment(method),
	); err != nil {
		return nil, err
	}

	o.recalculate()
	if err := o.CheckInvariants(); err != nil {
		return nil, err
	}
	return o, nil
}

// Validate ensures the order was built through NewOrder or RestoreOrder.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID {
	return o.id
}

func (o *Order) UserID() kernel.UUID {
	return o.userID
}

// Items returns the line items in display order.
func (o *Order) Items() []LineItem {
	return append([]LineItem(nil), o.items...)
}

func (o *Order) Address() ShippingAddress {
	return o.address
}

func (o *Order) Delivery() DeliveryInfo {
	return o.delivery
}

func (o *Order) Payment() Payment {
	return o.payment
}

func (o *Order) Status() Status {
	return o.status
}

// CustomOrderID is the human friendly order code, empty before confirmation.
func (o *Order) CustomOrderID() string {
	return o.customOrderID
}

func (o *Order) Coupon() *CouponApplication {
	if o.coupon == nil {
		return nil
	}
	c := *o.coupon
	return &c
}

func (o *Order) Refund() *RefundRequest {
	if o.refund == nil {
		return nil
	}
	r := *o.refund
	return &r
}

func (o *Order) History() Ledger {
	return Ledger{entries: o.ledger.Entries()}
}

func (o *Order) Tracking() Tracking {
	return Tracking{events: o.tracking.Events(), nextSeq: o.tracking.nextSeq}
}

// DeliverySummary derives the delivery read view from the event log.
func (o *Order) DeliverySummary() DeliverySummary {
	return Summarize(o.tracking.events)
}

func (o *Order) Review() *ReviewFlag {
	if o.review == nil {
		return nil
	}
	r := *o.review
	return &r
}

// Version is the persisted version the aggregate was loaded with.
func (o *Order) Version() int64 {
	return o.version
}

// BumpVersion is called by the repository after a successful conditional write.
func (o *Order) BumpVersion() {
	o.version++
}

func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

// Subtotal is the sum of line item totals.
func (o *Order) Subtotal() kernel.Money {
	subtotal := kernel.ZeroMoney()
	for _, item := range o.items {
		subtotal = subtotal.Add(item.Total())
	}
	return subtotal
}

func (o *Order) Discount() kernel.Money {
	if o.coupon == nil {
		return kernel.ZeroMoney()
	}
	return o.coupon.discount
}

// Total is subtotal plus delivery cost minus discount.
func (o *Order) Total() kernel.Money {
	return o.total
}

// PullNotifications returns the notification requests queued by status
// changes since the last call and clears the queue.
func (o *Order) PullNotifications() []NotificationRequest {
	pending := o.notifications
	o.notifications = nil
	return pending
}

// AttachGatewayOrder records the gateway order id created at checkout.
// Attaching the same id again is a no-op.
func (o *Order) AttachGatewayOrder(gatewayOrderID string, at time.Time) error {
	gatewayOrderID = strings.TrimSpace(gatewayOrderID)
	if gatewayOrderID == "" {
		return errs.NewValueIsRequiredError("gatewayOrderId")
	}
	if o.payment.gatewayOrderID == gatewayOrderID {
		return nil
	}
	if o.payment.gatewayOrderID != "" {
		return errs.NewValueIsInvalidErrorWithCause("gatewayOrderId",
			fmt.Errorf("order %s already has a gateway order", o.id))
	}
	if o.payment.status != PaymentPending {
		return newInvalidTransitionError(axisPayment, o.payment.status.String(), "attached",
			"gateway order can only be attached while payment is pending")
	}

	o.payment.gatewayOrderID = gatewayOrderID
	o.touch(at)
	return nil
}

// ApplyCoupon resolves the coupon against the current subtotal and applies
// the result. The discount is always recomputed here and never taken from
// the caller. A previously applied coupon is replaced.
func (o *Order) ApplyCoupon(coupon Coupon, resolver DiscountResolver, at time.Time) error {
	if resolver == nil {
		return errs.NewValueIsRequiredError("resolver")
	}
	if o.status != Processing || o.payment.status != PaymentPending {
		return newInvalidTransitionError(axisOrder, o.status.String(), "coupon applied",
			"coupons can only be applied before payment")
	}

	subtotal := o.Subtotal()
	discount, err := resolver.Resolve(subtotal, coupon)
	if err != nil {
		return err
	}
	if discount.IsNegative() || discount.Cmp(subtotal) > 0 {
		return invariantError("discount %s is outside [0, %s]", discount, subtotal)
	}

	o.coupon = &CouponApplication{coupon: coupon, discount: discount}
	o.recalculate()
	o.touch(at)
	return o.CheckInvariants()
}

// Transition moves the order to target. Validation happens before any
// mutation; on success exactly one ledger entry is appended and a
// notification request is queued.
//
// Entering confirmed for the first time assigns the order code.
func (o *Order) Transition(target Status, actor, remarks string, at time.Time) error {
	if err := o.status.ValidateTransition(target); err != nil {
		return err
	}
	if err := o.validateCombination(target); err != nil {
		return err
	}

	o.status = target
	o.ledger.append(StatusHistoryEntry{
		status:  target,
		at:      at.UTC(),
		remarks: strings.TrimSpace(remarks),
		actor:   strings.TrimSpace(actor),
	})
	if target == Confirmed && o.customOrderID == "" {
		o.customOrderID = orderCode(o.id, at)
	}
	o.notifications = append(o.notifications, NotificationRequest{
		UserID:   o.userID,
		OrderID:  o.id,
		Type:     NotificationTypeOrderStatus,
		Priority: priorityFor(target),
		Status:   target,
		At:       at.UTC(),
	})
	o.touch(at)

	return o.CheckInvariants()
}

func (o *Order) validateCombination(target Status) error {
	if o.payment.method != Prepaid {
		return nil
	}
	forward := target == Confirmed || target == ReadyToShip || target == Shipped ||
		target == OutForDelivery || target == Delivered
	if forward && o.payment.status == PaymentStatusFailed {
		return newInvalidTransitionError(axisOrder, o.status.String(), target.String(),
			"payment failed for prepaid order")
	}
	if target == Confirmed && o.payment.status != PaymentPaid {
		return newInvalidTransitionError(axisOrder, o.status.String(), target.String(),
			"prepaid order is not paid")
	}
	return nil
}

// AssignShipment records the courier waybill and label. Assigning the same
// waybill again is a no-op.
func (o *Order) AssignShipment(shipmentID, labelRef string, at time.Time) error {
	shipmentID = strings.TrimSpace(shipmentID)
	if shipmentID == "" {
		return errs.NewValueIsRequiredError("shipmentId")
	}
	if o.delivery.shipmentID == shipmentID {
		return nil
	}
	if o.delivery.shipmentID != "" {
		return errs.NewValueIsInvalidErrorWithCause("shipmentId",
			fmt.Errorf("order %s already has shipment %s", o.id, o.delivery.shipmentID))
	}
	if o.status != Confirmed && o.status != ReadyToShip {
		return newInvalidTransitionError(axisOrder, o.status.String(), "shipment assigned",
			"shipment can only be booked for confirmed orders")
	}

	o.delivery = o.delivery.withShipment(shipmentID, strings.TrimSpace(labelRef))
	o.touch(at)
	return nil
}

// UpdateShippingAddress replaces the address. The address is frozen once
// the order is confirmed.
func (o *Order) UpdateShippingAddress(address ShippingAddress, at time.Time) error {
	if o.status != Processing {
		return newInvalidTransitionError(axisOrder, o.status.String(), "address updated",
			"address is immutable after confirmation")
	}
	if err := o.setAddress(address); err != nil {
		return err
	}
	o.touch(at)
	return nil
}

// RequestRefund opens a refund request for a paid order that is finished
// or cancelled. Only one open request may exist.
func (o *Order) RequestRefund(reason string, at time.Time) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return errs.NewValueIsRequiredError("reason")
	}
	if o.payment.status != PaymentPaid && o.payment.status != PaymentRefundFailed {
		return newInvalidTransitionError(axisRefund, o.payment.status.String(), RefundRequested.String(),
			"only captured payments can be refunded")
	}
	if !slices.Contains([]Status{Delivered, RTO, Returned, Cancelled}, o.status) {
		return newInvalidTransitionError(axisRefund, o.status.String(), RefundRequested.String(),
			"order is still in fulfillment")
	}
	if o.refund != nil && o.refund.status.IsOpen() {
		return newInvalidTransitionError(axisRefund, o.refund.status.String(), RefundRequested.String(),
			"a refund request is already open")
	}

	o.refund = &RefundRequest{reason: reason, status: RefundRequested, requestedAt: at.UTC(), updatedAt: at.UTC()}
	o.touch(at)
	return nil
}

// ClearReview removes the review flag once an operator has handled it.
func (o *Order) ClearReview(at time.Time) {
	if o.review == nil {
		return
	}
	o.review = nil
	o.touch(at)
}

// CheckInvariants verifies the monetary and history invariants.
func (o *Order) CheckInvariants() error {
	subtotal := o.Subtotal()
	discount := o.Discount()
	if discount.IsNegative() || discount.Cmp(subtotal) > 0 {
		return invariantError("discount %s exceeds subtotal %s", discount, subtotal)
	}
	expected := subtotal.Add(o.delivery.cost).Sub(discount)
	if !o.total.IsEqual(expected) {
		return invariantError("total %s != subtotal %s + delivery %s - discount %s",
			o.total, subtotal, o.delivery.cost, discount)
	}
	if o.total.IsNegative() {
		return invariantError("total %s is negative", o.total)
	}
	confirmed := o.ledger.Contains(Confirmed)
	if confirmed != (o.customOrderID != "") {
		return invariantError("order code %q does not match confirmation history", o.customOrderID)
	}
	if n := o.ledger.Len(); n > 0 && o.ledger.entries[n-1].status != o.status {
		return invariantError("status %s does not match last history entry %s",
			o.status, o.ledger.entries[n-1].status)
	}
	if o.ledger.Len() == 0 && o.status != Processing {
		return invariantError("status %s without history", o.status)
	}
	return nil
}

func (o *Order) flagForReview(reason string, at time.Time) *ReviewRequiredWarning {
	o.review = &ReviewFlag{Reason: reason, FlaggedAt: at.UTC()}
	o.touch(at)
	return &ReviewRequiredWarning{OrderID: o.id.String(), Reason: reason}
}

func (o *Order) recalculate() {
	o.total = o.Subtotal().Add(o.delivery.cost).Sub(o.Discount())
}

func (o *Order) touch(at time.Time) {
	if at.After(o.updatedAt) {
		o.updatedAt = at.UTC()
	}
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setUserID(userID kernel.UUID) error {
	if err := userID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("userId", err)
	}
	o.userID = userID
	return nil
}

func (o *Order) setItems(items []LineItem) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}
	for i, item := range items {
		if item.sku == "" || item.quantity < 1 {
			return errs.NewValueIsInvalidErrorWithCause("items",
				fmt.Errorf("item %d must be created via NewLineItem", i))
		}
	}
	o.items = append([]LineItem(nil), items...)
	return nil
}

func (o *Order) setAddress(address ShippingAddress) error {
	if err := address.Validate(); err != nil {
		return err
	}
	o.address = address
	return nil
}

func (o *Order) setDelivery(delivery DeliveryInfo) error {
	if err := delivery.mode.Validate(); err != nil {
		return err
	}
	o.delivery = delivery
	return nil
}

func (o *Order) setPayment(method PaymentMethod) error {
	payment, err := newPayment(method)
	if err != nil {
		return err
	}
	o.payment = payment
	return nil
}

// orderCode derives the human friendly code from the confirmation date and
// the order id, for example ORD-261014-3F2A9C01B7.
func orderCode(id kernel.UUID, at time.Time) string {
	raw := id.Bytes()
	return fmt.Sprintf("ORD-%s-%s", at.UTC().Format("060102"), strings.ToUpper(hex.EncodeToString(raw[:5])))
}
