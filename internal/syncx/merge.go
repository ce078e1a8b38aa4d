// Package syncx implements the multi-device synchronization policy: a
// whole-object last-write-wins merge and the Syncer driving pulls, pushes
// and the remote-change subscription.
package syncx

import "github.com/dmitrijs2005/puntos/internal/models"

// Merge picks between a local and a remote snapshot: the remote one wins
// iff its LastUpdated is strictly later. There is no field-level merge and
// no operation replay; two devices editing concurrently lose one side's
// edits entirely.
func Merge(local, remote *models.Snapshot) *models.Snapshot {
	if remote == nil {
		return local
	}
	if local == nil {
		return remote
	}
	if remote.LastUpdated.After(local.LastUpdated) {
		return remote
	}
	return local
}
