package remote

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/puntos/internal/common"
	"github.com/dmitrijs2005/puntos/internal/models"
)

// InMemory is a Store backed by process memory. Used in tests and as a
// stand-in when no backend is reachable.
type InMemory struct {
	mu   sync.Mutex
	snap *models.Snapshot
	subs []chan *models.Snapshot
}

func NewInMemory() *InMemory {
	return &InMemory{}
}

func (m *InMemory) Load(ctx context.Context) (*models.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.snap == nil {
		return nil, common.ErrNotFound
	}
	return cloneSnapshot(m.snap), nil
}

func (m *InMemory) Save(ctx context.Context, snap *models.Snapshot) error {
	m.mu.Lock()
	m.snap = cloneSnapshot(snap)
	subs := make([]chan *models.Snapshot, len(m.subs))
	copy(subs, m.subs)
	m.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- cloneSnapshot(snap):
		default:
			// slow subscriber, it will catch up on the next write
		}
	}
	return nil
}

func (m *InMemory) Watch(ctx context.Context) <-chan *models.Snapshot {
	ch := make(chan *models.Snapshot, 8)

	m.mu.Lock()
	m.subs = append(m.subs, ch)
	m.mu.Unlock()

	go func() {
		<-ctx.Done()
		m.mu.Lock()
		for i, sub := range m.subs {
			if sub == ch {
				m.subs = append(m.subs[:i], m.subs[i+1:]...)
				break
			}
		}
		m.mu.Unlock()
		close(ch)
	}()

	return ch
}

func cloneSnapshot(snap *models.Snapshot) *models.Snapshot {
	return &models.Snapshot{
		State:       snap.State.Clone(),
		LastUpdated: snap.LastUpdated,
		Origin:      snap.Origin,
	}
}
