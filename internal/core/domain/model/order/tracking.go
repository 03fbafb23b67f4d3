package order

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/Mr-Sumi/Gipza-v2-sub001/internal/pkg/errs"
)

// Courier event codes the tracker reacts to. Other codes are recorded only.
const (
	EventPickedUp          = "picked_up"
	EventInTransit         = "in_transit"
	EventOutForDelivery    = "out_for_delivery"
	EventDeliveryAttempted = "delivery_attempted"
	EventUndelivered       = "undelivered"
	EventDelivered         = "delivered"
	EventRTOInitiated      = "rto_initiated"
	EventRTODelivered      = "rto_delivered"
)

const (
	MaxMetadataEntries    = 6
	MaxMetadataValueBytes = 256
)

// MetadataKeys is the closed set of metadata keys accepted on an event.
var MetadataKeys = []string{"courier", "hub", "reason", "attempt", "reference", "remarks"}

// DeliveryEventParams carries the courier payload of one event.
type DeliveryEventParams struct {
	Code             string
	Status           string
	At               time.Time
	Location         string
	Description      string
	ExpectedDelivery *time.Time
	UpdatedBy        string
	Source           string
	Metadata         map[string]string
}

// DeliveryEvent is one entry of the tracking log.
type DeliveryEvent struct {
	code             string
	status           string
	at               time.Time
	location         string
	description      string
	expectedDelivery *time.Time
	updatedBy        string
	source           string
	metadata         map[string]string
	seq              int64
}

func NewDeliveryEvent(p DeliveryEventParams) (DeliveryEvent, error) {
	code := strings.ToLower(strings.TrimSpace(p.Code))

	var codeErr, atErr error
	if code == "" {
		codeErr = errs.NewValueIsRequiredError("event.code")
	}
	if p.At.IsZero() {
		atErr = errs.NewValueIsRequiredError("event.at")
	}
	if err := errors.Join(codeErr, atErr, validateMetadata(p.Metadata)); err != nil {
		return DeliveryEvent{}, err
	}

	status := strings.TrimSpace(p.Status)
	if status == "" {
		status = code
	}

	e := DeliveryEvent{
		code:        code,
		status:      status,
		at:          p.At.UTC().Truncate(time.Microsecond),
		location:    strings.TrimSpace(p.Location),
		description: strings.TrimSpace(p.Description),
		updatedBy:   strings.TrimSpace(p.UpdatedBy),
		source:      strings.TrimSpace(p.Source),
		metadata:    maps.Clone(p.Metadata),
	}
	if p.ExpectedDelivery != nil {
		ed := p.ExpectedDelivery.UTC()
		e.expectedDelivery = &ed
	}
	return e, nil
}

func validateMetadata(m map[string]string) error {
	if len(m) > MaxMetadataEntries {
		return errs.NewValueIsOutOfRangeError("event.metadata", len(m), 0, MaxMetadataEntries)
	}
	var errList []error
	for k, v := range m {
		if !slices.Contains(MetadataKeys, k) {
			errList = append(errList, errs.NewValueIsInvalidErrorWithCause(
				"event.metadata", fmt.Errorf("key %q is not allowed", k)))
			continue
		}
		if len(v) > MaxMetadataValueBytes {
			errList = append(errList, errs.NewValueIsOutOfRangeError("event.metadata."+k, len(v), 0, MaxMetadataValueBytes))
		}
	}
	return errors.Join(errList...)
}

func (e DeliveryEvent) Code() string {
	return e.code
}

func (e DeliveryEvent) Status() string {
	return e.status
}

func (e DeliveryEvent) At() time.Time {
	return e.at
}

func (e DeliveryEvent) Location() string {
	return e.location
}

func (e DeliveryEvent) Description() string {
	return e.description
}

func (e DeliveryEvent) ExpectedDelivery() *time.Time {
	if e.expectedDelivery == nil {
		return nil
	}
	ed := *e.expectedDelivery
	return &ed
}

func (e DeliveryEvent) UpdatedBy() string {
	return e.updatedBy
}

func (e DeliveryEvent) Source() string {
	return e.source
}

func (e DeliveryEvent) Metadata() map[string]string {
	return maps.Clone(e.metadata)
}

// Seq is the arrival number of the event within its order.
func (e DeliveryEvent) Seq() int64 {
	return e.seq
}

func (e DeliveryEvent) sameKey(other DeliveryEvent) bool {
	return e.code == other.code && e.at.Equal(other.at) && e.location == other.location
}

// Tracking is the delivery event log, sorted by timestamp with ties kept
// in arrival order.
type Tracking struct {
	events  []DeliveryEvent
	nextSeq int64
}

func (t *Tracking) contains(e DeliveryEvent) bool {
	for _, existing := range t.events {
		if existing.sameKey(e) {
			return true
		}
	}
	return false
}

func (t *Tracking) insert(e DeliveryEvent) {
	e.seq = t.nextSeq
	t.nextSeq++

	pos := len(t.events)
	for i, existing := range t.events {
		if existing.at.After(e.at) {
			pos = i
			break
		}
	}
	t.events = slices.Insert(t.events, pos, e)
}

// Events returns a copy of the log.
func (t Tracking) Events() []DeliveryEvent {
	return append([]DeliveryEvent(nil), t.events...)
}

func (t Tracking) Len() int {
	return len(t.events)
}

// DeliverySummary is the read view derived from the event log.
type DeliverySummary struct {
	ExpectedDeliveryDate *time.Time
	ActualDeliveryDate   *time.Time
	LastMileStatus       string
	LastLocation         string
	DeliveryAttempts     int
	LastUpdatedAt        *time.Time
}

// Summarize derives the delivery summary from a sorted event log. The most
// recent event of each kind wins.
func Summarize(events []DeliveryEvent) DeliverySummary {
	var s DeliverySummary
	for _, e := range events {
		at := e.at
		s.LastUpdatedAt = &at
		s.LastMileStatus = e.status
		if e.location != "" {
			s.LastLocation = e.location
		}
		if e.expectedDelivery != nil {
			ed := *e.expectedDelivery
			s.ExpectedDeliveryDate = &ed
		}
		switch e.code {
		case EventDelivered:
			s.ActualDeliveryDate = &at
		case EventDeliveryAttempted, EventUndelivered:
			s.DeliveryAttempts++
		}
	}
	return s
}
