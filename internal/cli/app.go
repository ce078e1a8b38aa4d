// Package cli implements the interactive front-end of the point tracker:
// a read–eval–print loop over the tracker service, with prompt helpers and
// styled rendering. All display logic lives here; the service below knows
// nothing about terminals.
package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/dmitrijs2005/puntos/internal/common"
	"github.com/dmitrijs2005/puntos/internal/config"
	"github.com/dmitrijs2005/puntos/internal/logging"
	"github.com/dmitrijs2005/puntos/internal/models"
	"github.com/dmitrijs2005/puntos/internal/store"
	"github.com/dmitrijs2005/puntos/internal/syncx"
	"github.com/dmitrijs2005/puntos/internal/tracker"
)

type App struct {
	config  *config.Config
	service *tracker.Service
	db      *sql.DB
	logger  logging.Logger
	reader  *bufio.Reader

	statusMu sync.Mutex
	status   string
}

func NewApp(c *config.Config) (*App, error) {

	ctx := context.Background()

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stderr, nil)))

	db, err := store.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	gateway := store.NewGateway(store.NewSQLiteRepository(db), "", c.DefaultUser, logger)
	service := tracker.NewService(c, gateway, logger)

	app := &App{
		config:  c,
		service: service,
		db:      db,
		logger:  logger,
		reader:  bufio.NewReader(os.Stdin),
		status:  "local only",
	}

	service.OnMissionCompleted(func(m models.Mission) {
		printlnFn(doneStyle.Render(fmt.Sprintf("Mission completed: %s (+%d points)", m.Title, m.Reward)))
	})
	service.OnSyncStatus(func(st syncx.Status, detail string) {
		app.setStatus(fmt.Sprintf("%s (%s)", st, detail))
	})

	return app, nil
}

func (a *App) setStatus(s string) {
	a.statusMu.Lock()
	a.status = s
	a.statusMu.Unlock()
}

func (a *App) statusLine() string {
	a.statusMu.Lock()
	defer a.statusMu.Unlock()
	return fmt.Sprintf("%s | %d pts | %s", a.service.CurrentUser(), a.service.Score(), a.status)
}

func (a *App) Run(ctx context.Context) {
	defer a.Close()

	if err := a.service.Load(ctx); err != nil {
		a.logger.Error(ctx, "load failed", "error", err)
		return
	}

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.statusLine, scanner)
}

func (a *App) Close() {
	a.service.Close()
	_ = a.db.Close()
}

// Add logs one point entry of the given type.
func (a *App) Add(ctx context.Context, typ models.EntryType, reason string) error {
	entry, err := a.service.AddPoint(ctx, typ, reason)
	if err != nil {
		printlnFn("error:", err)
		return err
	}
	printlnFn(fmt.Sprintf("%s  %s", styleFor(entry.Points).Render(pointsLabel(entry)), entry.Reason))
	printlnFn(renderScore(a.service.CurrentUser(), a.service.Score()))
	return nil
}

// Bulk logs one aggregate entry: bulk <type> <quantity> <reason...>.
func (a *App) Bulk(ctx context.Context, typ, qty, reason string) error {
	quantity, err := strconv.Atoi(qty)
	if err != nil {
		printlnFn("error: quantity must be a number")
		return err
	}
	entry, err := a.service.AddBulkPoints(ctx, models.EntryType(typ), quantity, reason)
	if err != nil {
		printlnFn("error:", err)
		return err
	}
	printlnFn(fmt.Sprintf("%s  %s", styleFor(entry.Points).Render(pointsLabel(entry)), entry.Reason))
	printlnFn(renderScore(a.service.CurrentUser(), a.service.Score()))
	return nil
}

// Score shows the active user's score banner.
func (a *App) Score(ctx context.Context) error {
	printlnFn(renderScore(a.service.CurrentUser(), a.service.Score()))
	return nil
}

// History shows the recent entries, newest first.
func (a *App) History(ctx context.Context) error {
	printlnFn(renderHistory(a.service.History(a.config.HistoryLimit)))
	return nil
}

// Clear wipes the active user's log after password check and confirmation.
func (a *App) Clear(ctx context.Context) error {
	if len(a.service.History(1)) == 0 {
		printlnFn("No history to clear.")
		return nil
	}

	password, err := GetPassword(a.reader, fmt.Sprintf("Enter password to clear history for %s", a.service.CurrentUser()), os.Stdout)
	if err != nil {
		return err
	}

	ok, err := Confirm(a.reader, fmt.Sprintf("Clear ALL history for %s? This cannot be undone.", a.service.CurrentUser()), os.Stdout)
	if err != nil {
		return err
	}
	if !ok {
		printlnFn("Cancelled.")
		return nil
	}

	if err := a.service.ClearHistory(ctx, password); err != nil {
		printlnFn("Incorrect password. History not cleared.")
		return err
	}
	printlnFn("History cleared successfully!")
	return nil
}

// Missions lists the mission set.
func (a *App) Missions(ctx context.Context) error {
	printlnFn(renderMissions(a.service.Missions()))
	return nil
}

// AddMission collects mission fields interactively and creates the mission.
func (a *App) AddMission(ctx context.Context) error {
	title, err := GetSimpleText(a.reader, "Mission title", os.Stdout)
	if err != nil {
		return err
	}
	description, err := GetSimpleText(a.reader, "Description (optional)", os.Stdout)
	if err != nil {
		return err
	}
	target, err := GetInt(a.reader, "Target (positive number)", os.Stdout)
	if err != nil {
		printlnFn("error:", err)
		return err
	}
	reward, err := GetInt(a.reader, "Reward points", os.Stdout)
	if err != nil {
		printlnFn("error:", err)
		return err
	}
	condition, err := GetSimpleText(a.reader,
		"Condition (total_score, total_entries, positive_points, detailed_reasons)", os.Stdout)
	if err != nil {
		return err
	}

	m, err := a.service.AddMission(ctx, title, description, target, reward, models.MissionCondition(condition))
	if err != nil {
		printlnFn("error:", err)
		return err
	}
	printlnFn(fmt.Sprintf("Mission %q added (%s).", m.Title, m.ID))
	return nil
}

// DeleteMission removes a mission by id.
func (a *App) DeleteMission(ctx context.Context, id string) error {
	if err := a.service.DeleteMission(ctx, id); err != nil {
		printlnFn("error:", err)
		return err
	}
	printlnFn("Mission deleted.")
	return nil
}

// Users shows the all-users board.
func (a *App) Users(ctx context.Context) error {
	printlnFn(renderSummaries(a.service.Summaries()))
	return nil
}

// AddUser creates a new user and switches to it.
func (a *App) AddUser(ctx context.Context, name string) error {
	if err := a.service.AddUser(ctx, name); err != nil {
		printlnFn("error:", err)
		return err
	}
	printlnFn(fmt.Sprintf("User %q added.", name))
	return nil
}

// SwitchUser makes name the active user.
func (a *App) SwitchUser(ctx context.Context, name string) error {
	if err := a.service.SwitchUser(ctx, name); err != nil {
		printlnFn("error:", err)
		return err
	}
	printlnFn(renderScore(a.service.CurrentUser(), a.service.Score()))
	return nil
}

// SyncOn enables cloud sync under the given key (config default when empty).
func (a *App) SyncOn(ctx context.Context, key string) error {
	if err := a.service.EnableSync(ctx, key); err != nil {
		printlnFn("error:", err)
		return err
	}
	printlnFn("Cloud sync enabled.")
	return nil
}

// SyncOff disables cloud sync; local operation continues.
func (a *App) SyncOff(ctx context.Context) error {
	if !a.service.SyncEnabled() {
		printlnFn("error:", common.ErrSyncDisabled)
		return common.ErrSyncDisabled
	}
	a.service.DisableSync()
	a.setStatus("local only")
	printlnFn("Cloud sync disabled.")
	return nil
}
