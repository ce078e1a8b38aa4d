package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/puntos/internal/common"
	"github.com/dmitrijs2005/puntos/internal/logging"
	"github.com/dmitrijs2005/puntos/internal/models"
)

// DefaultDocumentKey is the keyed record the tracker state lives under.
const DefaultDocumentKey = "puntos"

// Gateway loads and saves the whole tracker snapshot as one keyed document.
type Gateway struct {
	repo        Repository
	key         string
	defaultUser string
	logger      logging.Logger
}

// NewGateway returns a gateway writing under the given document key
// (DefaultDocumentKey when empty). defaultUser seeds the fresh state when
// nothing is stored yet.
func NewGateway(repo Repository, key, defaultUser string, logger logging.Logger) *Gateway {
	if key == "" {
		key = DefaultDocumentKey
	}
	return &Gateway{repo: repo, key: key, defaultUser: defaultUser, logger: logger.With("module", "store")}
}

// Load reads and decodes the local snapshot. A missing or corrupt document
// is recovered by returning a fresh default state; corruption is logged,
// never fatal.
func (g *Gateway) Load(ctx context.Context) *models.Snapshot {
	data, err := g.repo.Get(ctx, g.key)
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			g.logger.Warn(ctx, "local load failed, starting empty", "error", err)
		}
		return &models.Snapshot{State: models.NewTrackerState(g.defaultUser)}
	}

	snap, err := models.DecodeDocument(data)
	if err != nil {
		g.logger.Warn(ctx, "local document corrupt, starting empty", "error", err)
		return &models.Snapshot{State: models.NewTrackerState(g.defaultUser)}
	}
	return snap
}

// Save encodes and writes the snapshot under the gateway's key.
func (g *Gateway) Save(ctx context.Context, snap *models.Snapshot) error {
	data, err := models.EncodeDocument(snap)
	if err != nil {
		return fmt.Errorf("encoding document: %w", err)
	}
	if err := g.repo.Put(ctx, g.key, data); err != nil {
		return fmt.Errorf("saving document: %w", err)
	}
	return nil
}
