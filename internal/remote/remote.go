// Package remote defines the remote document store port used for
// multi-device synchronization, and its implementations. The core only
// needs three operations: read the document once, overwrite the whole
// document, and subscribe to changes.
package remote

import (
	"context"

	"github.com/dmitrijs2005/puntos/internal/models"
)

// Store is the remote document store a sync key addresses.
type Store interface {
	// Load reads the remote snapshot once. Returns common.ErrNotFound when
	// no document has been written yet.
	Load(ctx context.Context) (*models.Snapshot, error)

	// Save overwrites the whole remote document with the snapshot.
	Save(ctx context.Context, snap *models.Snapshot) error

	// Watch delivers remote snapshots whenever the store signals a change,
	// until ctx is cancelled. The channel is closed on teardown.
	Watch(ctx context.Context) <-chan *models.Snapshot
}
