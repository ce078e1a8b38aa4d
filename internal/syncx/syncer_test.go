package syncx

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/puntos/internal/logging"
	"github.com/dmitrijs2005/puntos/internal/models"
	"github.com/dmitrijs2005/puntos/internal/remote"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestPullOnLoad_NoRemoteData(t *testing.T) {
	r := remote.NewInMemory()
	sy := New(r, "origin-a", time.Second, 0, testLogger())

	local := snapAt(time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC))
	got := sy.PullOnLoad(context.Background(), local)
	assert.Same(t, local, got)
}

func TestPullOnLoad_RemoteNewerWins(t *testing.T) {
	r := remote.NewInMemory()
	base := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	remoteSnap := snapAt(base.Add(time.Hour))
	remoteSnap.State.Users["Remote"] = &models.UserState{Entries: []models.Entry{}, CurrentScore: 9}
	require.NoError(t, r.Save(context.Background(), remoteSnap))

	sy := New(r, "origin-a", time.Second, 0, testLogger())

	got := sy.PullOnLoad(context.Background(), snapAt(base))
	assert.Equal(t, remoteSnap.LastUpdated, got.LastUpdated)
	require.NotNil(t, got.State.Users["Remote"])
	assert.Equal(t, 9, got.State.Users["Remote"].CurrentScore)
}

func TestPullOnLoad_LocalNewerKept(t *testing.T) {
	r := remote.NewInMemory()
	base := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, r.Save(context.Background(), snapAt(base)))

	sy := New(r, "origin-a", time.Second, 0, testLogger())

	local := snapAt(base.Add(time.Hour))
	got := sy.PullOnLoad(context.Background(), local)
	assert.Same(t, local, got)
}

func TestPush_WritesRemote(t *testing.T) {
	r := remote.NewInMemory()
	sy := New(r, "origin-a", time.Second, 0, testLogger())

	snap := snapAt(time.Now())
	snap.Origin = "origin-a"
	sy.Push(snap)

	require.Eventually(t, func() bool {
		got, err := r.Load(context.Background())
		return err == nil && got.Origin == "origin-a"
	}, time.Second, 10*time.Millisecond)
}

func TestRun_AppliesForeignSnapshotsOnly(t *testing.T) {
	r := remote.NewInMemory()
	sy := New(r, "origin-a", time.Second, 0, testLogger())

	base := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	var mu sync.Mutex
	local := snapAt(base)
	var applied []*models.Snapshot

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		sy.Run(ctx,
			func() *models.Snapshot {
				mu.Lock()
				defer mu.Unlock()
				return local
			},
			func(snap *models.Snapshot) {
				mu.Lock()
				defer mu.Unlock()
				applied = append(applied, snap)
				local = snap
			})
	}()

	// wait for the subscription to be registered
	time.Sleep(20 * time.Millisecond)

	// own echo: ignored
	own := snapAt(base.Add(time.Minute))
	own.Origin = "origin-a"
	require.NoError(t, r.Save(context.Background(), own))

	// foreign and newer: applied
	foreign := snapAt(base.Add(2 * time.Minute))
	foreign.Origin = "origin-b"
	require.NoError(t, r.Save(context.Background(), foreign))

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(applied) == 1
	}, time.Second, 10*time.Millisecond)

	// foreign but older than local: merge keeps local, nothing applied
	stale := snapAt(base.Add(time.Minute))
	stale.Origin = "origin-b"
	require.NoError(t, r.Save(context.Background(), stale))

	time.Sleep(50 * time.Millisecond)
	mu.Lock()
	assert.Len(t, applied, 1)
	assert.Equal(t, "origin-b", applied[0].Origin)
	mu.Unlock()

	cancel()
	<-done
}

func TestRun_PeriodicPush(t *testing.T) {
	r := remote.NewInMemory()
	sy := New(r, "origin-a", time.Second, 20*time.Millisecond, testLogger())

	snap := snapAt(time.Now())
	snap.Origin = "origin-a"

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go sy.Run(ctx, func() *models.Snapshot { return snap }, func(*models.Snapshot) {})

	require.Eventually(t, func() bool {
		got, err := r.Load(context.Background())
		return err == nil && got.Origin == "origin-a"
	}, time.Second, 10*time.Millisecond)
}
