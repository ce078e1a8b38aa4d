package remote

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/puntos/internal/common"
	"github.com/dmitrijs2005/puntos/internal/models"
)

func TestInMemory_LoadSave(t *testing.T) {
	m := NewInMemory()
	ctx := context.Background()

	_, err := m.Load(ctx)
	require.ErrorIs(t, err, common.ErrNotFound)

	snap := &models.Snapshot{State: models.NewTrackerState("Manu"), LastUpdated: time.Now(), Origin: "a"}
	require.NoError(t, m.Save(ctx, snap))

	got, err := m.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a", got.Origin)

	// loads are isolated copies
	got.State.Users["Manu"].CurrentScore = 99
	got2, err := m.Load(ctx)
	require.NoError(t, err)
	assert.Zero(t, got2.State.Users["Manu"].CurrentScore)
}

func TestInMemory_WatchDeliversWrites(t *testing.T) {
	m := NewInMemory()
	ctx, cancel := context.WithCancel(context.Background())

	ch := m.Watch(ctx)

	snap := &models.Snapshot{State: models.NewTrackerState("Manu"), Origin: "writer"}
	require.NoError(t, m.Save(context.Background(), snap))

	select {
	case got := <-ch:
		assert.Equal(t, "writer", got.Origin)
	case <-time.After(time.Second):
		t.Fatal("no snapshot delivered")
	}

	// cancellation closes the channel and drops the subscription
	cancel()
	require.Eventually(t, func() bool {
		_, open := <-ch
		return !open
	}, time.Second, 10*time.Millisecond)
}
