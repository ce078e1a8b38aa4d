package syncx

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/puntos/internal/common"
	"github.com/dmitrijs2005/puntos/internal/logging"
	"github.com/dmitrijs2005/puntos/internal/models"
	"github.com/dmitrijs2005/puntos/internal/remote"
)

// Status is reported to the display layer around sync activity.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusSyncing Status = "syncing"
	StatusSynced  Status = "synced"
	StatusError   Status = "error"
)

// Syncer pushes local snapshots to the remote store and applies remote
// snapshots that win the merge. Pushes are fire-and-forget: a failure is
// logged and reported through the status callback, never retried
// immediately and never surfaced as fatal. The next mutation or periodic
// tick is the retry.
//
// Every snapshot this session writes carries its origin tag, so the watch
// loop can drop the session's own echoes without guessing from timestamps.
type Syncer struct {
	remote       remote.Store
	origin       string
	pushTimeout  time.Duration
	pushInterval time.Duration
	logger       logging.Logger
	statusFn     func(Status, string)
}

// New returns a Syncer writing with the given session origin tag.
// pushInterval <= 0 disables the periodic safety-net push.
func New(r remote.Store, origin string, pushTimeout, pushInterval time.Duration, logger logging.Logger) *Syncer {
	if pushTimeout <= 0 {
		pushTimeout = 3 * time.Second
	}
	return &Syncer{
		remote:       r,
		origin:       origin,
		pushTimeout:  pushTimeout,
		pushInterval: pushInterval,
		logger:       logger.With("module", "syncer"),
	}
}

// OnStatus registers a callback receiving status transitions. Must be set
// before Run.
func (s *Syncer) OnStatus(fn func(Status, string)) {
	s.statusFn = fn
}

// Origin returns the session tag stamped on pushed snapshots.
func (s *Syncer) Origin() string {
	return s.origin
}

// PullOnLoad reads the remote document once and merges it with local.
// Remote failures are non-fatal: the local snapshot is returned unchanged.
func (s *Syncer) PullOnLoad(ctx context.Context, local *models.Snapshot) *models.Snapshot {
	s.setStatus(StatusSyncing, "loading from remote")

	remoteSnap, err := s.remote.Load(ctx)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.setStatus(StatusIdle, "no remote data yet")
			return local
		}
		s.logger.Warn(ctx, "remote load failed", "error", err)
		s.setStatus(StatusError, "remote load failed")
		return local
	}

	merged := Merge(local, remoteSnap)
	if merged == remoteSnap {
		s.setStatus(StatusSynced, "loaded newer remote data")
	} else {
		s.setStatus(StatusIdle, "local data is newer")
	}
	return merged
}

// Push writes the snapshot in the background with a bounded timeout.
// It never blocks the caller.
func (s *Syncer) Push(snap *models.Snapshot) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.pushTimeout)
		defer cancel()

		s.setStatus(StatusSyncing, "pushing")
		if err := s.remote.Save(ctx, snap); err != nil {
			s.logger.Warn(ctx, "push failed", "error", err)
			s.setStatus(StatusError, "push failed")
			return
		}
		s.setStatus(StatusSynced, "pushed")
	}()
}

// Run consumes the remote-change subscription until ctx is cancelled,
// applying snapshots that win the merge, and drives the optional periodic
// push. latest must return the current local snapshot; apply installs a
// winning remote snapshot. Both are called from this goroutine only.
func (s *Syncer) Run(ctx context.Context, latest func() *models.Snapshot, apply func(*models.Snapshot)) {
	ch := s.remote.Watch(ctx)

	var tick <-chan time.Time
	if s.pushInterval > 0 {
		ticker := time.NewTicker(s.pushInterval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			return

		case snap, ok := <-ch:
			if !ok {
				return
			}
			if snap.Origin == s.origin {
				// our own write coming back around
				continue
			}
			merged := Merge(latest(), snap)
			if merged != snap {
				continue
			}
			apply(snap)
			s.setStatus(StatusSynced, "updated from another device")

		case <-tick:
			s.Push(latest())
		}
	}
}

func (s *Syncer) setStatus(st Status, detail string) {
	if s.statusFn != nil {
		s.statusFn(st, detail)
	}
}
