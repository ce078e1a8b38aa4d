// Package models defines the point-tracker domain types: entries, per-user
// state, missions, and the snapshot exchanged with the remote store.
package models

import "time"

// EntryType classifies the sign of a point event.
type EntryType string

const (
	EntryTypePositive EntryType = "positive"
	EntryTypeNeutral  EntryType = "neutral"
	EntryTypeNegative EntryType = "negative"
)

// UnitValue returns the point delta of a single entry of this type.
func (t EntryType) UnitValue() int {
	switch t {
	case EntryTypePositive:
		return 1
	case EntryTypeNegative:
		return -1
	default:
		return 0
	}
}

// Valid reports whether t is one of the three known types.
func (t EntryType) Valid() bool {
	switch t {
	case EntryTypePositive, EntryTypeNeutral, EntryTypeNegative:
		return true
	}
	return false
}

// EntryKind discriminates single adds from bulk adds, replacing the old
// presence-checking on optional bulk fields.
type EntryKind string

const (
	KindSingle EntryKind = "single"
	KindBulk   EntryKind = "bulk"
)

// Entry is one logged point event. Entries are immutable once created and
// the log is append-only; the whole log is discarded only by an explicit
// clear-history action.
//
// Points always carries the true aggregate delta: for a single entry it is
// the unit value of Type, for a bulk entry unit value × Quantity.
// RunningTotal is the score immediately after this entry, denormalized at
// creation time for display and never re-validated later.
type Entry struct {
	ID           string    `json:"id"`
	Kind         EntryKind `json:"kind"`
	Type         EntryType `json:"type"`
	Points       int       `json:"points"`
	Quantity     int       `json:"quantity,omitempty"`
	Reason       string    `json:"reason"`
	Timestamp    time.Time `json:"timestamp"`
	RunningTotal int       `json:"running_total"`
	User         string    `json:"user,omitempty"`
}

// IsBulk reports whether the entry was created by a bulk add.
func (e Entry) IsBulk() bool {
	return e.Kind == KindBulk
}
