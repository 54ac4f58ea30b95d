package watchlist

import (
	"context"
	"sync"
	"time"

	"CoinDeck/internal/bus"
	"CoinDeck/internal/domain/models"
	"CoinDeck/internal/store"
	"CoinDeck/pkg/logger"
	"CoinDeck/pkg/metrics"
)

// State of one symbol as observed by the dashboard.
type State int

const (
	StateAbsent State = iota
	StatePendingAdd
	StatePresent
	StatePendingRemove
)

// Backend persists watchlist mutations. The bool reports whether the
// persisted list actually changed.
type Backend interface {
	Symbols(ctx context.Context) []string
	Add(ctx context.Context, symbol string) (bool, error)
	Remove(ctx context.Context, symbol string) (bool, error)
}

// storeBackend adapts the state store. Its writes never fail hard: the
// store degrades to its in-memory copy instead.
type storeBackend struct {
	s *store.StateStore
}

func (b storeBackend) Symbols(ctx context.Context) []string {
	return b.s.WatchlistSymbols(ctx)
}

func (b storeBackend) Add(ctx context.Context, symbol string) (bool, error) {
	return b.s.AddSymbol(ctx, symbol), nil
}

func (b storeBackend) Remove(ctx context.Context, symbol string) (bool, error) {
	return b.s.RemoveSymbol(ctx, symbol), nil
}

// Manager runs the per-symbol watchlist state machine with optimistic
// mutations. A removed symbol is held in a short-lived exclusion set so
// a stale concurrent refresh cannot resurrect it.
type Manager struct {
	backend  Backend
	bus      *bus.Bus
	log      *logger.Logger
	recorder *metrics.Recorder
	holdoff  time.Duration
	now      func() time.Time

	mu       sync.Mutex
	states   map[string]State
	excluded map[string]time.Time
}

// Option configures the Manager.
type Option func(*Manager)

// WithHoldoff sets how long removed symbols stay excluded.
func WithHoldoff(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.holdoff = d
		}
	}
}

// WithBackend overrides the persistence backend.
func WithBackend(b Backend) Option {
	return func(m *Manager) {
		m.backend = b
	}
}

// WithMetrics reports watchlist size changes.
func WithMetrics(r *metrics.Recorder) Option {
	return func(m *Manager) {
		m.recorder = r
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// NewManager creates a watchlist manager over the state store.
func NewManager(s *store.StateStore, b *bus.Bus, log *logger.Logger, opts ...Option) *Manager {
	m := &Manager{
		backend:  storeBackend{s: s},
		bus:      b,
		log:      log,
		holdoff:  5 * time.Second,
		now:      time.Now,
		states:   make(map[string]State),
		excluded: make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Add optimistically adds a symbol. Returns whether the list changed.
func (m *Manager) Add(ctx context.Context, symbol string) (bool, error) {
	cmd := m.newCommand(symbol, models.WatchlistActionAdd)
	cmd.Apply()

	changed, err := m.backend.Add(ctx, symbol)
	if err != nil {
		cmd.Rollback(err)
		return false, err
	}
	cmd.Confirm(changed)
	return changed, nil
}

// Remove optimistically removes a symbol. Returns whether the list changed.
func (m *Manager) Remove(ctx context.Context, symbol string) (bool, error) {
	cmd := m.newCommand(symbol, models.WatchlistActionRemove)
	cmd.Apply()

	changed, err := m.backend.Remove(ctx, symbol)
	if err != nil {
		cmd.Rollback(err)
		return false, err
	}
	cmd.Confirm(changed)
	return changed, nil
}

// Symbols returns the watchlist as it should render right now:
// persisted symbols plus optimistic pending adds, minus symbols in the
// removal exclusion window.
func (m *Manager) Symbols(ctx context.Context) []string {
	persisted := m.backend.Symbols(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.pruneExcludedLocked()

	out := make([]string, 0, len(persisted))
	seen := make(map[string]struct{}, len(persisted))
	for _, sym := range persisted {
		if m.hiddenLocked(sym) {
			continue
		}
		out = append(out, sym)
		seen[sym] = struct{}{}
	}
	for sym, st := range m.states {
		if st != StatePendingAdd {
			continue
		}
		if _, ok := seen[sym]; !ok {
			out = append(out, sym)
		}
	}

	if m.recorder != nil {
		m.recorder.SetWatchlistSize(len(out))
	}
	return out
}

// StateOf reports the current state of a symbol.
func (m *Manager) StateOf(ctx context.Context, symbol string) State {
	m.mu.Lock()
	if st, ok := m.states[symbol]; ok {
		m.mu.Unlock()
		return st
	}
	m.mu.Unlock()

	for _, sym := range m.backend.Symbols(ctx) {
		if sym == symbol {
			return StatePresent
		}
	}
	return StateAbsent
}

// Excluded reports whether a symbol is inside the removal holdoff window.
func (m *Manager) Excluded(symbol string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pruneExcludedLocked()
	_, ok := m.excluded[symbol]
	return ok
}

// hiddenLocked hides symbols that are pending removal or excluded.
func (m *Manager) hiddenLocked(symbol string) bool {
	if st, ok := m.states[symbol]; ok && st == StatePendingRemove {
		return true
	}
	_, excluded := m.excluded[symbol]
	return excluded
}

func (m *Manager) pruneExcludedLocked() {
	now := m.now()
	for sym, expiry := range m.excluded {
		if now.After(expiry) {
			delete(m.excluded, sym)
		}
	}
}
