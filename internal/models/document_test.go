package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/puntos/internal/common"
)

func TestDocument_RoundTrip(t *testing.T) {
	ts := time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC)
	state := NewTrackerState("Manu")
	state.Users["Manu"].Entries = []Entry{
		{ID: "1", Kind: KindSingle, Type: EntryTypePositive, Points: 1, Reason: "did dishes", Timestamp: ts, RunningTotal: 1, User: "Manu"},
		{ID: "2", Kind: KindBulk, Type: EntryTypeNegative, Points: -3, Quantity: 3, Reason: "skipped gym (3 negative points)", Timestamp: ts.Add(time.Minute), RunningTotal: -2, User: "Manu"},
	}
	state.Users["Manu"].CurrentScore = -2
	state.Missions = []Mission{{ID: "m1", Title: "Get to ten", Target: 10, Progress: 1, Condition: ConditionTotalScore, Reward: 5}}

	snap := &Snapshot{State: state, LastUpdated: ts.Add(2 * time.Minute), Origin: "session-1"}

	data, err := EncodeDocument(snap)
	require.NoError(t, err)

	got, err := DecodeDocument(data)
	require.NoError(t, err)

	assert.Equal(t, snap.LastUpdated, got.LastUpdated)
	assert.Equal(t, "session-1", got.Origin)
	assert.Equal(t, "Manu", got.State.CurrentUser)
	assert.Equal(t, state.Users["Manu"].Entries, got.State.Users["Manu"].Entries)
	assert.Equal(t, -2, got.State.Users["Manu"].CurrentScore)
	assert.Equal(t, state.Missions, got.State.Missions)
}

func TestDecodeDocument_LegacyMultiUser(t *testing.T) {
	data := []byte(`{
		"users": {
			"Manu": {
				"entries": [
					{"id": 1755000000000, "points": 1, "type": "positive", "reason": "did dishes",
					 "timestamp": "2025-08-12T10:00:00Z", "runningTotal": 1, "user": "Manu"},
					{"id": 1755000060000, "points": -3, "type": "negative",
					 "reason": "skipped gym (3 negative points)", "timestamp": "2025-08-12T10:01:00Z",
					 "runningTotal": -2, "isBulk": true, "bulkQuantity": 3, "user": "Manu"}
				],
				"currentScore": -2
			},
			"Ana": {"entries": [], "currentScore": 0}
		},
		"currentUser": "Manu",
		"lastUpdated": "2025-08-12T10:01:00Z"
	}`)

	snap, err := DecodeDocument(data)
	require.NoError(t, err)

	assert.Equal(t, "Manu", snap.State.CurrentUser)
	require.Len(t, snap.State.Users, 2)

	manu := snap.State.Users["Manu"]
	require.Len(t, manu.Entries, 2)
	assert.Equal(t, -2, manu.CurrentScore)

	first := manu.Entries[0]
	assert.Equal(t, "1755000000000", first.ID)
	assert.Equal(t, KindSingle, first.Kind)
	assert.Equal(t, EntryTypePositive, first.Type)
	assert.Equal(t, 1, first.RunningTotal)
	assert.Equal(t, time.Date(2025, 8, 12, 10, 0, 0, 0, time.UTC), first.Timestamp)

	second := manu.Entries[1]
	assert.Equal(t, KindBulk, second.Kind)
	assert.Equal(t, 3, second.Quantity)
	assert.Equal(t, -3, second.Points)

	assert.Equal(t, time.Date(2025, 8, 12, 10, 1, 0, 0, time.UTC), snap.LastUpdated)
	assert.Empty(t, snap.Origin)
	assert.Empty(t, snap.State.Missions)
}

func TestDecodeDocument_LegacySingleUser(t *testing.T) {
	data := []byte(`{
		"entries": [
			{"id": 42, "points": 1, "type": "positive", "reason": "walked the dog",
			 "timestamp": "2025-01-05T09:00:00Z", "runningTotal": 1}
		],
		"currentScore": 1,
		"missions": [
			{"id": "m1", "title": "Log ten entries", "target": 10, "progress": 1,
			 "condition": "total_entries", "reward": 5, "completed": false}
		]
	}`)

	snap, err := DecodeDocument(data)
	require.NoError(t, err)

	// single-user shape lands under the default user
	assert.Equal(t, DefaultUser, snap.State.CurrentUser)
	u := snap.State.Users[DefaultUser]
	require.NotNil(t, u)
	require.Len(t, u.Entries, 1)
	assert.Equal(t, 1, u.CurrentScore)
	assert.Equal(t, DefaultUser, u.Entries[0].User)

	require.Len(t, snap.State.Missions, 1)
	assert.Equal(t, ConditionTotalEntries, snap.State.Missions[0].Condition)
	assert.Equal(t, "m1", snap.State.Missions[0].ID)
}

func TestDecodeDocument_DefaultsMissingFields(t *testing.T) {
	snap, err := DecodeDocument([]byte(`{}`))
	require.NoError(t, err)

	require.NotNil(t, snap.State.Users[DefaultUser])
	assert.Empty(t, snap.State.Users[DefaultUser].Entries)
	assert.Zero(t, snap.State.Users[DefaultUser].CurrentScore)
	assert.NotNil(t, snap.State.Missions)
	assert.Empty(t, snap.State.Missions)
	assert.True(t, snap.LastUpdated.IsZero())
}

func TestDecodeDocument_Corrupt(t *testing.T) {
	_, err := DecodeDocument([]byte(`not json at all`))
	require.ErrorIs(t, err, common.ErrCorruptDocument)
}

func TestTrackerState_Normalize(t *testing.T) {
	s := &TrackerState{CurrentUser: "ghost", Users: map[string]*UserState{"Real": nil}}
	s.Normalize()

	require.NotNil(t, s.Users["Real"])
	assert.NotNil(t, s.Users["Real"].Entries)
	assert.Equal(t, "Real", s.CurrentUser)
	assert.NotNil(t, s.Missions)
}
