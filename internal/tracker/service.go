// Package tracker is the orchestrating service behind the CLI: it owns the
// in-memory state, runs the score reducer and mission engine on every
// mutation, and drives the local gateway and the optional syncer.
//
// All state mutation is serialized by one mutex; the only asynchronous
// boundary is the remote synchronization, whose pushes never block a
// mutation.
package tracker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/puntos/internal/config"
	"github.com/dmitrijs2005/puntos/internal/logging"
	"github.com/dmitrijs2005/puntos/internal/missions"
	"github.com/dmitrijs2005/puntos/internal/models"
	"github.com/dmitrijs2005/puntos/internal/remote"
	"github.com/dmitrijs2005/puntos/internal/score"
	"github.com/dmitrijs2005/puntos/internal/store"
	"github.com/dmitrijs2005/puntos/internal/syncx"
	"github.com/dmitrijs2005/puntos/internal/users"
)

var timeNow = time.Now

// RemoteFactory builds a remote store for a sync key. Injected so tests can
// substitute an in-memory store.
type RemoteFactory func(ctx context.Context, key string) (remote.Store, error)

type Service struct {
	cfg    *config.Config
	local  *store.Gateway
	logger logging.Logger
	origin string

	newRemote RemoteFactory

	mu          sync.Mutex
	state       *models.TrackerState
	lastUpdated time.Time

	syncer     *syncx.Syncer
	syncCancel context.CancelFunc

	onMissionCompleted func(models.Mission)
	onSyncStatus       func(syncx.Status, string)
}

// NewService wires the tracker around a local gateway. The session origin
// tag is generated here and stamped on every pushed snapshot.
func NewService(cfg *config.Config, local *store.Gateway, logger logging.Logger) *Service {
	s := &Service{
		cfg:    cfg,
		local:  local,
		logger: logger.With("module", "tracker"),
		origin: uuid.NewString(),
	}
	s.newRemote = func(ctx context.Context, key string) (remote.Store, error) {
		return remote.NewS3Store(ctx, remote.S3Options{
			Region:       cfg.S3Region,
			Bucket:       cfg.S3Bucket,
			BaseEndpoint: cfg.S3BaseEndpoint,
			AccessKey:    cfg.S3AccessKey,
			SecretKey:    cfg.S3SecretKey,
			Key:          key,
			PollInterval: cfg.WatchInterval,
		}, logger)
	}
	return s
}

// SetRemoteFactory replaces the remote store constructor. Tests only.
func (s *Service) SetRemoteFactory(f RemoteFactory) { s.newRemote = f }

// OnMissionCompleted registers the display-layer notification for mission
// completions. The callback runs outside the state lock.
func (s *Service) OnMissionCompleted(fn func(models.Mission)) { s.onMissionCompleted = fn }

// OnSyncStatus registers the display-layer sync status indicator.
func (s *Service) OnSyncStatus(fn func(syncx.Status, string)) { s.onSyncStatus = fn }

// Load reads the local snapshot into memory and, when sync is enabled in
// the config, brings up synchronization as well.
func (s *Service) Load(ctx context.Context) error {
	snap := s.local.Load(ctx)

	s.mu.Lock()
	s.state = snap.State
	s.lastUpdated = snap.LastUpdated
	s.mu.Unlock()

	if s.cfg.SyncEnabled {
		if err := s.EnableSync(ctx, s.cfg.SyncKey); err != nil {
			// sync is never fatal; the tracker works locally
			s.logger.Warn(ctx, "sync startup failed", "error", err)
		}
	}
	return nil
}

// AddPoint appends a single point entry of the given type for the active
// user and runs the mission engine over the result.
func (s *Service) AddPoint(ctx context.Context, typ models.EntryType, reason string) (models.Entry, error) {
	return s.addEntry(ctx, func(cur models.UserState, user string) (models.UserState, models.Entry, error) {
		return score.Apply(cur, typ, reason, user)
	})
}

// AddBulkPoints appends one aggregate entry worth quantity × unit value
// points.
func (s *Service) AddBulkPoints(ctx context.Context, typ models.EntryType, quantity int, reason string) (models.Entry, error) {
	return s.addEntry(ctx, func(cur models.UserState, user string) (models.UserState, models.Entry, error) {
		return score.ApplyBulk(cur, typ, quantity, reason, user)
	})
}

func (s *Service) addEntry(ctx context.Context, apply func(models.UserState, string) (models.UserState, models.Entry, error)) (models.Entry, error) {
	s.mu.Lock()

	cur := s.state.Current()
	next, entry, err := apply(*cur, s.state.CurrentUser)
	if err != nil {
		s.mu.Unlock()
		return models.Entry{}, err
	}

	res := missions.Evaluate(s.state.Missions, entry, next.CurrentScore, next.Entries)
	// the reward is added once and not run back through the engine
	next.CurrentScore += res.Bonus

	s.state.Users[s.state.CurrentUser] = &next
	s.state.Missions = res.Missions
	s.lastUpdated = timeNow()

	err = s.persistLocked(ctx)
	completed := res.Completed
	s.mu.Unlock()

	if err != nil {
		return entry, err
	}
	s.notifyCompleted(completed)
	return entry, nil
}

// ClearHistory wipes the active user's log and score after checking the
// configured password. A wrong password mutates nothing. The caller is
// responsible for user confirmation before invoking this.
func (s *Service) ClearHistory(ctx context.Context, password string) error {
	if err := checkClearPassword(s.cfg.ClearHistoryPassword, password); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Users[s.state.CurrentUser] = &models.UserState{Entries: []models.Entry{}}
	s.lastUpdated = timeNow()
	return s.persistLocked(ctx)
}

// AddMission validates and adds a new mission.
func (s *Service) AddMission(ctx context.Context, title, description string, target, reward int, condition models.MissionCondition) (models.Mission, error) {
	m, err := missions.New(title, description, target, reward, condition)
	if err != nil {
		return models.Mission{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.Missions = append(s.state.Missions, m)
	s.lastUpdated = timeNow()
	return m, s.persistLocked(ctx)
}

// DeleteMission removes a mission. An already awarded reward stays.
func (s *Service) DeleteMission(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ms, err := missions.Delete(s.state.Missions, id)
	if err != nil {
		return err
	}
	s.state.Missions = ms
	s.lastUpdated = timeNow()
	return s.persistLocked(ctx)
}

// AddUser creates a new empty user and switches to it.
func (s *Service) AddUser(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := users.Add(s.state, name); err != nil {
		return err
	}
	s.lastUpdated = timeNow()
	return s.persistLocked(ctx)
}

// SwitchUser makes name the active user.
func (s *Service) SwitchUser(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := users.Switch(s.state, name); err != nil {
		return err
	}
	s.lastUpdated = timeNow()
	return s.persistLocked(ctx)
}

// EnableSync brings up the remote store for the given sync key (config
// default when empty), merges the remote document into the local state, and
// starts the change subscription and periodic push.
func (s *Service) EnableSync(ctx context.Context, key string) error {
	s.mu.Lock()
	if s.syncer != nil {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	if key == "" {
		key = s.cfg.SyncKey
	}

	r, err := s.newRemote(ctx, key)
	if err != nil {
		return fmt.Errorf("remote store init: %w", err)
	}

	sy := syncx.New(r, s.origin, s.cfg.PushTimeout, s.cfg.PushInterval, s.logger)
	if s.onSyncStatus != nil {
		sy.OnStatus(s.onSyncStatus)
	}

	local := s.Snapshot()
	merged := sy.PullOnLoad(ctx, local)
	if merged != local {
		s.install(ctx, merged)
	}

	runCtx, cancel := context.WithCancel(context.Background())

	s.mu.Lock()
	s.syncer = sy
	s.syncCancel = cancel
	s.mu.Unlock()

	go sy.Run(runCtx, s.Snapshot, func(snap *models.Snapshot) {
		s.install(context.Background(), snap)
	})

	// make sure the remote document exists for other devices
	sy.Push(s.Snapshot())

	s.logger.Info(ctx, "sync enabled", "key", key)
	return nil
}

// DisableSync tears down the subscription and stops pushing. Local
// operation continues unaffected.
func (s *Service) DisableSync() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.syncCancel != nil {
		s.syncCancel()
	}
	s.syncer = nil
	s.syncCancel = nil
}

// SyncEnabled reports whether a syncer is live.
func (s *Service) SyncEnabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.syncer != nil
}

// Snapshot returns a deep copy of the current state with the mutation
// timestamp and this session's origin tag.
func (s *Service) Snapshot() *models.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &models.Snapshot{
		State:       s.state.Clone(),
		LastUpdated: s.lastUpdated,
		Origin:      s.origin,
	}
}

// install replaces the in-memory state with a snapshot that won the merge
// and persists it locally, keeping the remote timestamp and origin so this
// session does not claim the write as its own.
func (s *Service) install(ctx context.Context, snap *models.Snapshot) {
	s.mu.Lock()
	s.state = snap.State.Clone()
	s.lastUpdated = snap.LastUpdated
	if err := s.local.Save(ctx, snap); err != nil {
		s.logger.Warn(ctx, "saving merged snapshot failed", "error", err)
	}
	s.mu.Unlock()
}

// persistLocked saves the current snapshot locally and fires a push when
// sync is live. Callers must hold s.mu.
func (s *Service) persistLocked(ctx context.Context) error {
	snap := &models.Snapshot{
		State:       s.state.Clone(),
		LastUpdated: s.lastUpdated,
		Origin:      s.origin,
	}
	if err := s.local.Save(ctx, snap); err != nil {
		return err
	}
	if s.syncer != nil {
		s.syncer.Push(snap)
	}
	return nil
}

func (s *Service) notifyCompleted(completed []models.Mission) {
	if s.onMissionCompleted == nil {
		return
	}
	for _, m := range completed {
		s.onMissionCompleted(m)
	}
}

// Score returns the active user's current score.
func (s *Service) Score() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Current().CurrentScore
}

// CurrentUser returns the active user name.
func (s *Service) CurrentUser() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.CurrentUser
}

// History returns up to limit most recent entries, newest first.
func (s *Service) History(limit int) []models.Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.state.Current().Entries
	if limit <= 0 || limit > len(entries) {
		limit = len(entries)
	}
	out := make([]models.Entry, 0, limit)
	for i := len(entries) - 1; i >= len(entries)-limit; i-- {
		out = append(out, entries[i])
	}
	return out
}

// Missions returns a copy of the mission set.
func (s *Service) Missions() []models.Mission {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Mission, len(s.state.Missions))
	copy(out, s.state.Missions)
	return out
}

// Summaries returns per-user stats for the all-users view.
func (s *Service) Summaries() []users.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return users.Summaries(s.state)
}

// Close tears down sync. The database handle is owned by the caller.
func (s *Service) Close() {
	s.DisableSync()
}
