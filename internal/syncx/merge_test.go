package syncx

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrijs2005/puntos/internal/models"
)

func snapAt(ts time.Time) *models.Snapshot {
	return &models.Snapshot{State: models.NewTrackerState(""), LastUpdated: ts}
}

func TestMerge_LastWriteWins(t *testing.T) {
	t1 := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		local      time.Time
		remote     time.Time
		remoteWins bool
	}{
		{"remote newer", t1, t1.Add(time.Second), true},
		{"remote much newer", t1, t1.Add(24 * time.Hour), true},
		{"equal timestamps keep local", t1, t1, false},
		{"remote older", t1, t1.Add(-time.Second), false},
		{"both zero keep local", time.Time{}, time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			local := snapAt(tt.local)
			remote := snapAt(tt.remote)

			got := Merge(local, remote)
			if tt.remoteWins {
				assert.Same(t, remote, got)
			} else {
				assert.Same(t, local, got)
			}
		})
	}
}

func TestMerge_NilSides(t *testing.T) {
	s := snapAt(time.Now())

	assert.Same(t, s, Merge(s, nil))
	assert.Same(t, s, Merge(nil, s))
	assert.Nil(t, Merge(nil, nil))
}
