package order

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

// ActorCourier is recorded for transitions caused by courier events.
const ActorCourier = "courier"

// TrackingResult tells the caller what a courier event did.
type TrackingResult struct {
	// Duplicate is set when an event with the same code, timestamp and
	// location is already in the log. Nothing was changed.
	Duplicate bool
	// Transitioned lists the statuses entered because of the event.
	Transitioned []Status

	ReviewRequired *ReviewRequiredWarning
}

// courierRule maps an event code to the status path it drives from each
// accepted source status. Late lists statuses where the event is stale and
// recorded without effect.
type courierRule struct {
	paths map[Status][]Status
	late  []Status
}

var courierRules = map[string]courierRule{
	EventPickedUp: {
		paths: map[Status][]Status{ReadyToShip: {Shipped}},
		late:  []Status{Shipped, OutForDelivery, Delivered, RTO, Returned},
	},
	EventOutForDelivery: {
		paths: map[Status][]Status{Shipped: {OutForDelivery}},
		late:  []Status{OutForDelivery, Delivered, RTO, Returned},
	},
	EventDelivered: {
		paths: map[Status][]Status{
			OutForDelivery: {Delivered},
			Shipped:        {OutForDelivery, Delivered},
		},
		late: []Status{Delivered, Returned},
	},
	EventRTOInitiated: {
		paths: map[Status][]Status{Shipped: {RTO}, OutForDelivery: {RTO}},
		late:  []Status{RTO, Returned},
	},
	EventRTODelivered: {
		paths: map[Status][]Status{RTO: {Returned}},
		late:  []Status{Returned},
	},
}

// RecordDeliveryEvent appends a courier event to the tracking log and
// applies the status change it implies.
//
// Redelivered events are dropped and reported as Duplicate. Events whose
// status change is not possible from the current status are kept in the log
// and the order is flagged; the returned ReviewRequired warning is not an
// error.
func (o *Order) RecordDeliveryEvent(e DeliveryEvent, at time.Time) (TrackingResult, error) {
	if e.code == "" || e.at.IsZero() {
		return TrackingResult{}, ErrEventIsNotConstructed
	}
	if o.tracking.contains(e) {
		return TrackingResult{Duplicate: true}, nil
	}

	o.tracking.insert(e)
	o.touch(at)

	rule, ok := courierRules[e.code]
	if !ok {
		return TrackingResult{}, nil
	}

	path, ok := rule.paths[o.status]
	if !ok {
		if slices.Contains(rule.late, o.status) {
			return TrackingResult{}, nil
		}
		warning := o.flagForReview(fmt.Sprintf("courier event %s received while order is %s", e.code, o.status), at)
		return TrackingResult{ReviewRequired: warning}, nil
	}

	var result TrackingResult
	actor := ActorCourier
	if e.updatedBy != "" {
		actor = e.updatedBy
	}
	for _, target := range path {
		if err := o.Transition(target, actor, e.status, at); err != nil {
			if errors.Is(err, ErrInvariantViolated) {
				return TrackingResult{}, err
			}
			result.ReviewRequired = o.flagForReview(
				fmt.Sprintf("courier event %s could not move order to %s: %v", e.code, target, err), at)
			return result, nil
		}
		result.Transitioned = append(result.Transitioned, target)
	}
	return result, nil
}
