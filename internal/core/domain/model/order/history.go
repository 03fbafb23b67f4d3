package order

import (
	"time"
)

// StatusHistoryEntry records one applied status change.
type StatusHistoryEntry struct {
	status  Status
	at      time.Time
	remarks string
	actor   string
}

func (e StatusHistoryEntry) Status() Status {
	return e.status
}

func (e StatusHistoryEntry) At() time.Time {
	return e.at
}

func (e StatusHistoryEntry) Remarks() string {
	return e.remarks
}

func (e StatusHistoryEntry) Actor() string {
	return e.actor
}

// Ledger is the append-only status history of an order. The zero value is
// an empty ledger.
type Ledger struct {
	entries []StatusHistoryEntry
}

func (l *Ledger) append(e StatusHistoryEntry) {
	l.entries = append(l.entries, e)
}

// Entries returns a copy in transition order.
func (l Ledger) Entries() []StatusHistoryEntry {
	return append([]StatusHistoryEntry(nil), l.entries...)
}

func (l Ledger) Len() int {
	return len(l.entries)
}

// Contains reports whether status was ever entered.
func (l Ledger) Contains(status Status) bool {
	for _, e := range l.entries {
		if e.status == status {
			return true
		}
	}
	return false
}
