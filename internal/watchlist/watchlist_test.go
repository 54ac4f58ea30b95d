package watchlist

import (
	"context"
	"errors"
	"testing"
	"time"

	"CoinDeck/internal/bus"
	"CoinDeck/internal/domain/models"
	"CoinDeck/internal/store"
	"CoinDeck/pkg/cache"
)

func newTestManager(t *testing.T, opts ...Option) (*Manager, *bus.Bus) {
	t.Helper()
	mc := cache.NewMemoryCache()
	t.Cleanup(func() { _ = mc.Close() })
	st := store.New(mc, nil, []string{"BTC/USDT"})
	b := bus.New(nil)
	t.Cleanup(b.Close)
	return NewManager(st, b, nil, opts...), b
}

func TestAddBroadcastsAndPersists(t *testing.T) {
	ctx := context.Background()
	m, b := newTestManager(t)

	events, cancel := b.Subscribe(bus.TopicWatchlistUpdated)
	defer cancel()

	changed, err := m.Add(ctx, "SOL/USDT")
	if err != nil || !changed {
		t.Fatalf("expected add to succeed, changed=%v err=%v", changed, err)
	}

	select {
	case evt := <-events:
		payload := evt.Payload.(models.WatchlistEvent)
		if payload.Symbol != "SOL/USDT" || payload.Action != models.WatchlistActionAdd {
			t.Fatalf("unexpected payload %+v", payload)
		}
	case <-time.After(time.Second):
		t.Fatalf("expected watchlistUpdated event")
	}

	if m.StateOf(ctx, "SOL/USDT") != StatePresent {
		t.Fatalf("expected present state")
	}
}

func TestRemoveEntersExclusionWindow(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	clock := func() time.Time { return now }
	m, _ := newTestManager(t, WithHoldoff(5*time.Second), WithClock(clock))

	if _, err := m.Remove(ctx, "BTC/USDT"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if !m.Excluded("BTC/USDT") {
		t.Fatalf("expected symbol in exclusion window")
	}

	// a stale refresh containing the symbol must not resurrect it
	for _, sym := range m.Symbols(ctx) {
		if sym == "BTC/USDT" {
			t.Fatalf("excluded symbol leaked into %v", m.Symbols(ctx))
		}
	}

	now = now.Add(6 * time.Second)
	if m.Excluded("BTC/USDT") {
		t.Fatalf("exclusion must expire after holdoff")
	}
}

func TestRemoveAbsentSymbolIsSilent(t *testing.T) {
	ctx := context.Background()
	m, b := newTestManager(t, WithHoldoff(time.Minute))

	events, cancel := b.Subscribe(bus.TopicWatchlistUpdated)
	defer cancel()

	changed, err := m.Remove(ctx, "DOGE/USDT")
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if changed {
		t.Fatalf("removing an absent symbol must report no change")
	}
	if m.Excluded("DOGE/USDT") {
		t.Fatalf("no-op remove must not enter the exclusion window")
	}

	select {
	case evt := <-events:
		t.Fatalf("no-op remove must not broadcast, got %+v", evt)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestAddCancelsExclusion(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t, WithHoldoff(time.Minute))

	_, _ = m.Remove(ctx, "BTC/USDT")
	if !m.Excluded("BTC/USDT") {
		t.Fatalf("expected exclusion after remove")
	}

	_, _ = m.Add(ctx, "BTC/USDT")
	if m.Excluded("BTC/USDT") {
		t.Fatalf("re-adding must cancel the exclusion")
	}
}

func TestAddThenRemoveLeavesListUnchanged(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t, WithHoldoff(time.Millisecond), WithClock(time.Now))

	before := m.Symbols(ctx)
	_, _ = m.Add(ctx, "DOGE/USDT")
	_, _ = m.Remove(ctx, "DOGE/USDT")
	time.Sleep(5 * time.Millisecond)
	after := m.Symbols(ctx)

	if len(before) != len(after) {
		t.Fatalf("round trip changed list: %v vs %v", before, after)
	}
}

type failingBackend struct {
	symbols []string
}

func (f *failingBackend) Symbols(context.Context) []string { return f.symbols }
func (f *failingBackend) Add(context.Context, string) (bool, error) {
	return false, errors.New("rejected")
}
func (f *failingBackend) Remove(context.Context, string) (bool, error) {
	return false, errors.New("rejected")
}

func TestRejectedAddRollsBack(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t, WithBackend(&failingBackend{}))

	if _, err := m.Add(ctx, "SOL/USDT"); err == nil {
		t.Fatalf("expected error")
	}
	if m.StateOf(ctx, "SOL/USDT") != StateAbsent {
		t.Fatalf("expected rollback to absent")
	}
}

func TestRejectedRemoveRollsBack(t *testing.T) {
	ctx := context.Background()
	m, _ := newTestManager(t, WithBackend(&failingBackend{symbols: []string{"BTC/USDT"}}))

	if _, err := m.Remove(ctx, "BTC/USDT"); err == nil {
		t.Fatalf("expected error")
	}
	if m.Excluded("BTC/USDT") {
		t.Fatalf("rejected remove must not exclude the symbol")
	}
	if m.StateOf(ctx, "BTC/USDT") != StatePresent {
		t.Fatalf("expected symbol still present")
	}
}

func TestSyncRepublishesOnTimestampBump(t *testing.T) {
	ctx := context.Background()
	mc := cache.NewMemoryCache()
	t.Cleanup(func() { _ = mc.Close() })
	st := store.New(mc, nil, nil)
	b := bus.New(nil)
	t.Cleanup(b.Close)

	sync := NewSync(st, b, 10*time.Millisecond)
	sync.Start()
	defer sync.Stop()

	events, cancel := b.Subscribe(bus.TopicWatchlistUpdated)
	defer cancel()

	// mutation from "another process"
	st.AddSymbol(ctx, "XRP/USDT")

	select {
	case evt := <-events:
		payload := evt.Payload.(models.WatchlistEvent)
		if payload.Action != "sync" {
			t.Fatalf("unexpected action %q", payload.Action)
		}
	case <-time.After(time.Second):
		t.Fatalf("expected sync notification")
	}
}
