// Package score implements the reducer that turns point-add actions into
// new log entries and an updated running score. Functions are pure: the
// input state is never mutated.
package score

import (
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/puntos/internal/common"
	"github.com/dmitrijs2005/puntos/internal/models"
	"github.com/google/uuid"
)

// seams for deterministic tests
var (
	timeNow = time.Now
	newID   = uuid.NewString
)

// Apply appends a single point entry for the given type and returns the new
// state and the created entry. The delta is the unit value of the type
// (+1 / 0 / -1). An empty or whitespace-only reason is rejected with
// common.ErrEmptyReason and the state is left untouched.
func Apply(state models.UserState, typ models.EntryType, reason, user string) (models.UserState, models.Entry, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return state, models.Entry{}, common.ErrEmptyReason
	}
	if !typ.Valid() {
		return state, models.Entry{}, fmt.Errorf("%w: %q", common.ErrInvalidEntryType, typ)
	}

	entry := models.Entry{
		ID:        newID(),
		Kind:      models.KindSingle,
		Type:      typ,
		Points:    typ.UnitValue(),
		Reason:    reason,
		Timestamp: timeNow(),
		User:      user,
	}
	return appendEntry(state, entry)
}

// ApplyBulk appends one aggregate entry worth quantity × unit value points.
// The stored reason is annotated with the quantity and type for display;
// Points carries the true aggregate delta. Quantity must be >= 1.
func ApplyBulk(state models.UserState, typ models.EntryType, quantity int, reason, user string) (models.UserState, models.Entry, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return state, models.Entry{}, common.ErrEmptyReason
	}
	if quantity < 1 {
		return state, models.Entry{}, fmt.Errorf("%w: %d", common.ErrInvalidQuantity, quantity)
	}
	if !typ.Valid() {
		return state, models.Entry{}, fmt.Errorf("%w: %q", common.ErrInvalidEntryType, typ)
	}

	entry := models.Entry{
		ID:        newID(),
		Kind:      models.KindBulk,
		Type:      typ,
		Points:    typ.UnitValue() * quantity,
		Quantity:  quantity,
		Reason:    fmt.Sprintf("%s (%d %s points)", reason, quantity, typ),
		Timestamp: timeNow(),
		User:      user,
	}
	return appendEntry(state, entry)
}

func appendEntry(state models.UserState, entry models.Entry) (models.UserState, models.Entry, error) {
	next := state.Clone()
	next.CurrentScore += entry.Points
	entry.RunningTotal = next.CurrentScore
	next.Entries = append(next.Entries, entry)
	return next, entry, nil
}
