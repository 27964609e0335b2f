package draw

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keepsake-app/backend/internal/storage/models"
)

// --- Fakes ---

type fakeStore struct {
	mu      sync.Mutex
	items   []models.Item
	counts  map[string]int
	listErr error
	incErr  error
}

func newFakeStore(items ...models.Item) *fakeStore {
	return &fakeStore{items: items, counts: make(map[string]int)}
}

func (f *fakeStore) ListCandidates(ctx context.Context, kind models.Kind, filter models.ItemFilter) ([]models.Item, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []models.Item
	for _, it := range f.items {
		if it.Kind == kind && filter.Matches(it) {
			out = append(out, it)
		}
	}
	return out, nil
}

func (f *fakeStore) IncrementEngagement(ctx context.Context, id string) error {
	if f.incErr != nil {
		return f.incErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counts[id]++
	return nil
}

func (f *fakeStore) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.counts {
		n += c
	}
	return n
}

type fakeLedger struct {
	mu      sync.Mutex
	entries []string
	err     error
}

func (f *fakeLedger) Append(ctx context.Context, itemID string, at time.Time) error {
	if f.err != nil {
		return f.err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, itemID)
	return nil
}

func (f *fakeLedger) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.entries)
}

type fakeDispatcher struct {
	mu    sync.Mutex
	calls []models.Item
	done  chan struct{}
	block chan struct{} // when set, Dispatch parks until closed
}

func (f *fakeDispatcher) Dispatch(ctx context.Context, kind models.Kind, item models.Item) {
	if f.block != nil {
		<-f.block
	}
	f.mu.Lock()
	f.calls = append(f.calls, item)
	f.mu.Unlock()
	if f.done != nil {
		f.done <- struct{}{}
	}
}

func (f *fakeDispatcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func testItems(kind models.Kind, ids ...string) []models.Item {
	items := make([]models.Item, 0, len(ids))
	for _, id := range ids {
		items = append(items, models.Item{ID: id, Kind: kind, Locator: string(kind) + "/" + id + ".jpg"})
	}
	return items
}

func newTestEngine(store *fakeStore, ledger *fakeLedger, relay Dispatcher) *Engine {
	return NewEngine(store, ledger, relay, 4, zerolog.Nop())
}

// --- Tests ---

func TestDrawExactlyOnceBookkeeping(t *testing.T) {
	store := newFakeStore(testItems(models.KindCards, "a", "b", "c")...)
	ledger := &fakeLedger{}
	relay := &fakeDispatcher{done: make(chan struct{}, 100)}
	// Generous dispatch cap so no notification is dropped while draws
	// outpace the detached goroutines.
	e := NewEngine(store, ledger, relay, 100, zerolog.Nop())

	const n = 50
	for i := 0; i < n; i++ {
		_, err := e.Draw(context.Background(), models.KindCards, models.ItemFilter{})
		require.NoError(t, err)
	}

	// Counters summed across items grow by exactly one per draw, and the
	// ledger gains exactly one entry per draw.
	assert.Equal(t, n, store.total())
	assert.Equal(t, n, ledger.count())

	for i := 0; i < n; i++ {
		select {
		case <-relay.done:
		case <-time.After(2 * time.Second):
			t.Fatal("dispatch never happened")
		}
	}
	assert.Equal(t, n, relay.callCount())
}

func TestDrawCounterOnlyKinds(t *testing.T) {
	store := newFakeStore(testItems(models.KindToys, "t1", "t2")...)
	ledger := &fakeLedger{}
	e := newTestEngine(store, ledger, &fakeDispatcher{})

	_, err := e.Draw(context.Background(), models.KindToys, models.ItemFilter{})
	require.NoError(t, err)

	assert.Equal(t, 1, store.total())
	assert.Zero(t, ledger.count(), "non-card kinds must not write history")
}

func TestDrawEmptyCollection(t *testing.T) {
	store := newFakeStore()
	ledger := &fakeLedger{}
	relay := &fakeDispatcher{}
	e := newTestEngine(store, ledger, relay)

	item, err := e.Draw(context.Background(), models.KindCards, models.ItemFilter{})
	require.ErrorIs(t, err, ErrEmptyCollection)
	assert.Nil(t, item)

	// No side effects at all.
	assert.Zero(t, store.total())
	assert.Zero(t, ledger.count())
	assert.Zero(t, relay.callCount())
}

func TestDrawFilteredOutIsEmpty(t *testing.T) {
	section := "s1"
	items := testItems(models.KindCards, "a", "b")
	items[0].SectionID = &section
	items[1].SectionID = &section
	store := newFakeStore(items...)
	e := newTestEngine(store, &fakeLedger{}, &fakeDispatcher{})

	_, err := e.Draw(context.Background(), models.KindCards, models.ItemFilter{SectionID: "other"})
	require.ErrorIs(t, err, ErrEmptyCollection)
}

func TestDrawSectionFilter(t *testing.T) {
	s1, s2 := "s1", "s2"
	items := testItems(models.KindCards, "a", "b", "c")
	items[0].SectionID = &s1
	items[1].SectionID = &s2
	items[2].SectionID = &s2
	store := newFakeStore(items...)
	e := newTestEngine(store, &fakeLedger{}, &fakeDispatcher{})

	item, err := e.Draw(context.Background(), models.KindCards, models.ItemFilter{SectionID: "s1"})
	require.NoError(t, err)
	assert.Equal(t, "a", item.ID)
}

func TestDrawUniformity(t *testing.T) {
	ids := []string{"a", "b", "c", "d", "e"}
	store := newFakeStore(testItems(models.KindToys, ids...)...)
	e := newTestEngine(store, &fakeLedger{}, &fakeDispatcher{})

	const trials = 10000
	for i := 0; i < trials; i++ {
		_, err := e.Draw(context.Background(), models.KindToys, models.ItemFilter{})
		require.NoError(t, err)
	}

	// Expected 2000 per item; 200 is five standard deviations, so a fair
	// selector essentially never trips this.
	for _, id := range ids {
		assert.InDelta(t, trials/len(ids), store.counts[id], 200, "item %s", id)
	}
}

func TestDrawLedgerFailureAbortsDraw(t *testing.T) {
	store := newFakeStore(testItems(models.KindCards, "a")...)
	ledger := &fakeLedger{err: errors.New("disk full")}
	relay := &fakeDispatcher{}
	e := newTestEngine(store, ledger, relay)

	_, err := e.Draw(context.Background(), models.KindCards, models.ItemFilter{})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrEmptyCollection)

	assert.Zero(t, store.total(), "counter must not move when the ledger write fails")
	assert.Zero(t, relay.callCount())
}

func TestDrawIncrementFailureAbortsDraw(t *testing.T) {
	store := newFakeStore(testItems(models.KindToys, "a")...)
	store.incErr = errors.New("database locked")
	relay := &fakeDispatcher{}
	e := newTestEngine(store, &fakeLedger{}, relay)

	_, err := e.Draw(context.Background(), models.KindToys, models.ItemFilter{})
	require.Error(t, err)
	assert.Zero(t, relay.callCount())
}

func TestDrawDoesNotWaitForDispatch(t *testing.T) {
	store := newFakeStore(testItems(models.KindToys, "a")...)
	relay := &fakeDispatcher{block: make(chan struct{})}
	e := newTestEngine(store, &fakeLedger{}, relay)
	defer close(relay.block)

	start := time.Now()
	item, err := e.Draw(context.Background(), models.KindToys, models.ItemFilter{})
	require.NoError(t, err)
	require.NotNil(t, item)

	// The dispatcher is parked; the draw must still return promptly with
	// its bookkeeping done.
	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, 1, store.total())
}

func TestDrawDropsDispatchAtCapacity(t *testing.T) {
	store := newFakeStore(testItems(models.KindToys, "a")...)
	relay := &fakeDispatcher{block: make(chan struct{})}
	e := NewEngine(store, &fakeLedger{}, relay, 2, zerolog.Nop())

	// Saturate the dispatch pool, then keep drawing. Draws must keep
	// succeeding even though their notifications get dropped.
	for i := 0; i < 10; i++ {
		_, err := e.Draw(context.Background(), models.KindToys, models.ItemFilter{})
		require.NoError(t, err)
	}
	assert.Equal(t, 10, store.total())

	close(relay.block)
}

func TestDrawReturnsUpdatedCount(t *testing.T) {
	items := testItems(models.KindToys, "a")
	items[0].EngagementCount = 3
	store := newFakeStore(items...)
	e := newTestEngine(store, &fakeLedger{}, &fakeDispatcher{})

	item, err := e.Draw(context.Background(), models.KindToys, models.ItemFilter{})
	require.NoError(t, err)
	assert.Equal(t, 4, item.EngagementCount)
}
