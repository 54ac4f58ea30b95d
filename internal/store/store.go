package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"CoinDeck/internal/domain/models"
	"CoinDeck/pkg/cache"
	"CoinDeck/pkg/logger"
)

const (
	keyWatchlist        = "watchlist:symbols"
	keyWatchlistUpdated = "watchlist:updated_at"
	keyHistory          = "collection:history"
	keyVirtualAccount   = "virtual:account"

	// HistoryCap bounds the collection history ring.
	HistoryCap = 20
)

// StateStore keeps the dashboard's shared client state: the watchlist,
// its last-updated timestamp, the collection history ring, and the
// virtual account blob. Backed by a cache.Service (redis in production,
// memory otherwise); every read tolerates backend failure by serving
// the last in-memory copy, and every write lands in memory even when
// the backend write fails.
type StateStore struct {
	cache cache.Service
	log   *logger.Logger

	mu            sync.Mutex
	watchlist     []string
	updatedAt     int64
	history       []models.CollectionRecord
	watchlistSeen bool
}

// New creates a state store seeded with default watchlist symbols.
func New(c cache.Service, log *logger.Logger, defaults []string) *StateStore {
	return &StateStore{
		cache:     c,
		log:       log,
		watchlist: append([]string(nil), defaults...),
	}
}

// WatchlistSymbols returns the current watchlist.
func (s *StateStore) WatchlistSymbols(ctx context.Context) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var symbols []string
	err := s.cache.Get(ctx, keyWatchlist, &symbols)
	switch {
	case err == nil:
		s.watchlist = symbols
		s.watchlistSeen = true
	case errors.Is(err, cache.ErrCacheMiss) && !s.watchlistSeen:
		// first run, persist the defaults
		s.persistWatchlistLocked(ctx)
		s.watchlistSeen = true
	case !errors.Is(err, cache.ErrCacheMiss):
		s.warn("watchlist read failed, serving cached copy", err)
	}
	return append([]string(nil), s.watchlist...)
}

// AddSymbol appends a symbol if absent. Returns whether the list changed.
func (s *StateStore) AddSymbol(ctx context.Context, symbol string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.watchlist {
		if existing == symbol {
			return false
		}
	}
	s.watchlist = append(s.watchlist, symbol)
	s.persistWatchlistLocked(ctx)
	s.bumpUpdatedAtLocked(ctx)
	return true
}

// RemoveSymbol drops a symbol if present. Returns whether the list changed.
func (s *StateStore) RemoveSymbol(ctx context.Context, symbol string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.watchlist {
		if existing == symbol {
			s.watchlist = append(s.watchlist[:i], s.watchlist[i+1:]...)
			s.persistWatchlistLocked(ctx)
			s.bumpUpdatedAtLocked(ctx)
			return true
		}
	}
	return false
}

// UpdatedAt returns the watchlist mutation timestamp. It increases
// monotonically with every mutation.
func (s *StateStore) UpdatedAt(ctx context.Context) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ts int64
	if err := s.cache.Get(ctx, keyWatchlistUpdated, &ts); err == nil && ts > s.updatedAt {
		s.updatedAt = ts
	}
	return s.updatedAt
}

// AppendCollectionRecord pushes a record onto the history ring,
// evicting the oldest entry beyond HistoryCap.
func (s *StateStore) AppendCollectionRecord(ctx context.Context, rec models.CollectionRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loadHistoryLocked(ctx)
	s.history = append(s.history, rec)
	if len(s.history) > HistoryCap {
		s.history = s.history[len(s.history)-HistoryCap:]
	}
	if err := s.cache.Set(ctx, keyHistory, s.history, 0); err != nil {
		s.warn("history write failed", err)
	}
}

// CollectionHistory returns the history ring, oldest first.
func (s *StateStore) CollectionHistory(ctx context.Context) []models.CollectionRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.loadHistoryLocked(ctx)
	return append([]models.CollectionRecord(nil), s.history...)
}

// SaveVirtualAccount persists the virtual account blob.
func (s *StateStore) SaveVirtualAccount(ctx context.Context, account interface{}) {
	if err := s.cache.Set(ctx, keyVirtualAccount, account, 0); err != nil {
		s.warn("virtual account write failed", err)
	}
}

// LoadVirtualAccount restores the virtual account blob into dest.
// Returns false when no persisted account exists.
func (s *StateStore) LoadVirtualAccount(ctx context.Context, dest interface{}) bool {
	err := s.cache.Get(ctx, keyVirtualAccount, dest)
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.warn("virtual account read failed", err)
		}
		return false
	}
	return true
}

// Close releases the backing cache.
func (s *StateStore) Close() error {
	return s.cache.Close()
}

func (s *StateStore) persistWatchlistLocked(ctx context.Context) {
	if err := s.cache.Set(ctx, keyWatchlist, s.watchlist, 0); err != nil {
		s.warn("watchlist write failed", err)
	}
}

func (s *StateStore) bumpUpdatedAtLocked(ctx context.Context) {
	now := time.Now().UnixMilli()
	if now <= s.updatedAt {
		now = s.updatedAt + 1
	}
	s.updatedAt = now
	if err := s.cache.Set(ctx, keyWatchlistUpdated, now, 0); err != nil {
		s.warn("timestamp write failed", err)
	}
}

func (s *StateStore) loadHistoryLocked(ctx context.Context) {
	var history []models.CollectionRecord
	err := s.cache.Get(ctx, keyHistory, &history)
	if err == nil {
		s.history = history
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		s.warn("history read failed, serving cached copy", err)
	}
}

func (s *StateStore) warn(msg string, err error) {
	if s.log != nil {
		s.log.Warn("store: "+msg, logger.Error(err))
	}
}
