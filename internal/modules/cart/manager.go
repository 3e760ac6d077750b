package cart

import (
	"context"
	"sync"
)

type managedStore struct {
	once  sync.Once
	store *Store
}

// Manager hands out one Store per owner key. Hydration runs exactly once per
// owner, and Get does not return until it is done, so no caller can mutate a
// store that a stale snapshot later overwrites.
type Manager struct {
	snapshots SnapshotStore
	syncer    Syncer

	mu     sync.Mutex
	stores map[string]*managedStore
}

func NewManager(snapshots SnapshotStore, syncer Syncer) *Manager {
	return &Manager{
		snapshots: snapshots,
		syncer:    syncer,
		stores:    make(map[string]*managedStore),
	}
}

func (m *Manager) Get(ctx context.Context, ownerKey string) *Store {
	m.mu.Lock()
	entry, ok := m.stores[ownerKey]
	if !ok {
		entry = &managedStore{store: NewStore(ownerKey, m.snapshots, m.syncer)}
		m.stores[ownerKey] = entry
	}
	m.mu.Unlock()

	entry.once.Do(func() {
		entry.store.Hydrate(ctx)
	})
	return entry.store
}

func (m *Manager) Drop(ownerKey string) {
	m.mu.Lock()
	delete(m.stores, ownerKey)
	m.mu.Unlock()
}
