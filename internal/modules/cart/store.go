package cart

import (
	"context"
	"log"
	"sync"

	"asesoria/internal/domain"
)

// Syncer pushes the full item list to the remote copy. The remote copy is
// advisory only: failures are logged, never surfaced, never retried.
type Syncer interface {
	Sync(ctx context.Context, ownerKey string, items []domain.CartItem) error
}

// SnapshotStore is the serialize/deserialize contract that lets cart state
// survive restarts.
type SnapshotStore interface {
	Load(ctx context.Context, ownerKey string) ([]domain.CartItem, error)
	Save(ctx context.Context, ownerKey string, items []domain.CartItem) error
	Delete(ctx context.Context, ownerKey string) error
}

// Store holds one owner's cart. Mutations apply a pure reducer to the local
// state, persist a snapshot best-effort, and fire a detached sync. Local
// state is always the source of truth.
type Store struct {
	owner     string
	snapshots SnapshotStore
	syncer    Syncer

	mu    sync.Mutex
	items []domain.CartItem

	syncWG sync.WaitGroup
}

func NewStore(owner string, snapshots SnapshotStore, syncer Syncer) *Store {
	return &Store{
		owner:     owner,
		snapshots: snapshots,
		syncer:    syncer,
		items:     []domain.CartItem{},
	}
}

// Hydrate replaces the local state with the persisted snapshot. A load error
// downgrades to an empty cart with a warning; it never fails the caller.
func (s *Store) Hydrate(ctx context.Context) {
	items, err := s.snapshots.Load(ctx, s.owner)
	if err != nil {
		log.Printf("cart_hydrate_failed owner=%s err=%v", s.owner, err)
		return
	}

	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
}

// AddItem inserts the item with quantity 1, or bumps the existing line's
// quantity by 1. Price and description overrides in the payload are ignored
// for an existing line.
func (s *Store) AddItem(item domain.CartItem) {
	s.apply(func(items []domain.CartItem) []domain.CartItem {
		return addItem(items, item)
	})
}

// UpdateQuantity replaces the line's quantity; q <= 0 removes the line.
func (s *Store) UpdateQuantity(serviceID int64, q int) {
	s.apply(func(items []domain.CartItem) []domain.CartItem {
		return updateQuantity(items, serviceID, q)
	})
}

func (s *Store) RemoveItem(serviceID int64) {
	s.apply(func(items []domain.CartItem) []domain.CartItem {
		return removeItem(items, serviceID)
	})
}

func (s *Store) Clear() {
	s.apply(func([]domain.CartItem) []domain.CartItem {
		return []domain.CartItem{}
	})
}

func (s *Store) Items() []domain.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.CartItem, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) TotalPrice() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total float64
	for _, it := range s.items {
		total += it.Price * float64(it.Quantity)
	}
	return total
}

func (s *Store) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total int
	for _, it := range s.items {
		total += it.Quantity
	}
	return total
}

// WaitSync blocks until all scheduled remote syncs have finished. Tests use
// it to assert the sync was attempted.
func (s *Store) WaitSync() {
	s.syncWG.Wait()
}

func (s *Store) apply(reduce func([]domain.CartItem) []domain.CartItem) {
	s.mu.Lock()
	s.items = reduce(s.items)
	snapshot := make([]domain.CartItem, len(s.items))
	copy(snapshot, s.items)
	s.mu.Unlock()

	if err := s.snapshots.Save(context.Background(), s.owner, snapshot); err != nil {
		log.Printf("cart_snapshot_failed owner=%s err=%v", s.owner, err)
	}

	s.syncWG.Add(1)
	go func() {
		defer s.syncWG.Done()
		if err := s.syncer.Sync(context.Background(), s.owner, snapshot); err != nil {
			log.Printf("cart_sync_failed owner=%s err=%v", s.owner, err)
		}
	}()
}

/* ---------- reducers ---------- */

func addItem(items []domain.CartItem, item domain.CartItem) []domain.CartItem {
	out := make([]domain.CartItem, len(items))
	copy(out, items)

	for i := range out {
		if out[i].ServiceID == item.ServiceID {
			out[i].Quantity++
			return out
		}
	}

	item.Quantity = 1
	return append(out, item)
}

func updateQuantity(items []domain.CartItem, serviceID int64, q int) []domain.CartItem {
	if q <= 0 {
		return removeItem(items, serviceID)
	}

	out := make([]domain.CartItem, len(items))
	copy(out, items)
	for i := range out {
		if out[i].ServiceID == serviceID {
			out[i].Quantity = q
		}
	}
	return out
}

func removeItem(items []domain.CartItem, serviceID int64) []domain.CartItem {
	out := make([]domain.CartItem, 0, len(items))
	for _, it := range items {
		if it.ServiceID != serviceID {
			out = append(out, it)
		}
	}
	return out
}
