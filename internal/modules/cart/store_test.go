package cart

import (
	"context"
	"sync"
	"testing"
	"time"

	"asesoria/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memorySnapshots is an in-memory SnapshotStore.
type memorySnapshots struct {
	mu   sync.Mutex
	data map[string][]domain.CartItem
}

func newMemorySnapshots() *memorySnapshots {
	return &memorySnapshots{data: make(map[string][]domain.CartItem)}
}

func (m *memorySnapshots) Load(_ context.Context, ownerKey string) ([]domain.CartItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	items := make([]domain.CartItem, len(m.data[ownerKey]))
	copy(items, m.data[ownerKey])
	return items, nil
}

func (m *memorySnapshots) Save(_ context.Context, ownerKey string, items []domain.CartItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	saved := make([]domain.CartItem, len(items))
	copy(saved, items)
	m.data[ownerKey] = saved
	return nil
}

func (m *memorySnapshots) Delete(_ context.Context, ownerKey string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, ownerKey)
	return nil
}

// recordingSyncer remembers every Sync call.
type recordingSyncer struct {
	mu    sync.Mutex
	calls [][]domain.CartItem
}

func (r *recordingSyncer) Sync(_ context.Context, _ string, items []domain.CartItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	saved := make([]domain.CartItem, len(items))
	copy(saved, items)
	r.calls = append(r.calls, saved)
	return nil
}

func (r *recordingSyncer) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

func iva() domain.CartItem {
	return domain.CartItem{ServiceID: 1, Name: "IVA Trimestral", Price: 45, Category: "IVA"}
}

func renta() domain.CartItem {
	return domain.CartItem{ServiceID: 2, Name: "Declaración de la Renta", Price: 59, Category: "IRPF"}
}

func TestStore_AddItem_DuplicateBumpsQuantity(t *testing.T) {
	store := NewStore("user:1", newMemorySnapshots(), NoopSyncer{})

	store.AddItem(iva())
	dup := iva()
	dup.Price = 999 // overrides on an existing line are ignored
	store.AddItem(dup)

	items := store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, 45.0, items[0].Price)
	assert.Equal(t, 90.0, store.TotalPrice())
	assert.Equal(t, 2, store.TotalItems())
}

func TestStore_TotalsFollowEveryMutation(t *testing.T) {
	store := NewStore("user:1", newMemorySnapshots(), NoopSyncer{})

	store.AddItem(iva())
	store.AddItem(renta())
	assert.Equal(t, 104.0, store.TotalPrice())
	assert.Equal(t, 2, store.TotalItems())

	store.UpdateQuantity(2, 3)
	assert.Equal(t, 45.0+59.0*3, store.TotalPrice())
	assert.Equal(t, 4, store.TotalItems())

	store.RemoveItem(1)
	assert.Equal(t, 59.0*3, store.TotalPrice())

	store.Clear()
	assert.Equal(t, 0.0, store.TotalPrice())
	assert.Equal(t, 0, store.TotalItems())
	assert.Empty(t, store.Items())
}

func TestStore_UpdateQuantity_ZeroOrNegativeRemoves(t *testing.T) {
	store := NewStore("user:1", newMemorySnapshots(), NoopSyncer{})

	store.AddItem(iva())
	store.AddItem(renta())

	store.UpdateQuantity(1, 0)
	items := store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, int64(2), items[0].ServiceID)

	store.UpdateQuantity(2, -5)
	assert.Empty(t, store.Items())
}

func TestStore_MutationsPersistAndSync(t *testing.T) {
	snapshots := newMemorySnapshots()
	syncer := &recordingSyncer{}
	store := NewStore("user:1", snapshots, syncer)

	store.AddItem(iva())
	store.WaitSync()

	assert.Equal(t, 1, syncer.callCount())

	persisted, err := snapshots.Load(context.Background(), "user:1")
	require.NoError(t, err)
	require.Len(t, persisted, 1)
	assert.Equal(t, "IVA Trimestral", persisted[0].Name)
}

func TestStore_SyncFailureKeepsLocalState(t *testing.T) {
	store := NewStore("user:1", newMemorySnapshots(), failingSyncer{})

	store.AddItem(iva())
	store.WaitSync()

	items := store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Quantity)
}

type failingSyncer struct{}

func (failingSyncer) Sync(context.Context, string, []domain.CartItem) error {
	return assert.AnError
}

// blockingSnapshots gates Load until released, to order hydration against
// concurrent Gets.
type blockingSnapshots struct {
	*memorySnapshots
	release chan struct{}
}

func (b *blockingSnapshots) Load(ctx context.Context, ownerKey string) ([]domain.CartItem, error) {
	<-b.release
	return b.memorySnapshots.Load(ctx, ownerKey)
}

func TestManager_ConcurrentFirstAccessWaitsForHydration(t *testing.T) {
	snapshots := &blockingSnapshots{
		memorySnapshots: newMemorySnapshots(),
		release:         make(chan struct{}),
	}
	item := iva()
	item.Quantity = 2
	require.NoError(t, snapshots.memorySnapshots.Save(context.Background(), "user:1", []domain.CartItem{item}))

	manager := NewManager(snapshots, NoopSyncer{})

	stores := make(chan *Store, 2)
	for i := 0; i < 2; i++ {
		go func() {
			stores <- manager.Get(context.Background(), "user:1")
		}()
	}

	// Neither Get may hand out the store while hydration is in flight.
	select {
	case <-stores:
		t.Fatal("Get returned before hydration finished")
	case <-time.After(50 * time.Millisecond):
	}

	close(snapshots.release)

	first := <-stores
	second := <-stores
	assert.Same(t, first, second)

	items := first.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
}

func TestManager_HydratesFromSnapshotOnFirstAccess(t *testing.T) {
	snapshots := newMemorySnapshots()
	item := iva()
	item.Quantity = 2
	require.NoError(t, snapshots.Save(context.Background(), "anon:abc", []domain.CartItem{item}))

	manager := NewManager(snapshots, NoopSyncer{})
	store := manager.Get(context.Background(), "anon:abc")

	items := store.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, 90.0, store.TotalPrice())

	// second Get returns the same live store, no re-hydration
	again := manager.Get(context.Background(), "anon:abc")
	assert.Same(t, store, again)
}
