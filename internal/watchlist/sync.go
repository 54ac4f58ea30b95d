package watchlist

import (
	"context"
	"time"

	"CoinDeck/internal/bus"
	"CoinDeck/internal/domain/models"
	"CoinDeck/internal/store"
)

// Sync polls the shared watchlist timestamp and republishes a
// watchlistUpdated notification when it observes an increase it has not
// yet processed. This is how mutations made by another process reach
// this one's views.
type Sync struct {
	store    *store.StateStore
	bus      *bus.Bus
	interval time.Duration

	lastSeen int64
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewSync creates the timestamp poller.
func NewSync(s *store.StateStore, b *bus.Bus, interval time.Duration) *Sync {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &Sync{
		store:    s,
		bus:      b,
		interval: interval,
		done:     make(chan struct{}),
	}
}

// Start begins polling until Stop.
func (s *Sync) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.lastSeen = s.store.UpdatedAt(ctx)

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				ts := s.store.UpdatedAt(ctx)
				if ts > s.lastSeen {
					s.lastSeen = ts
					s.bus.Publish(bus.TopicWatchlistUpdated, models.WatchlistEvent{
						Action: "sync",
					})
				}
			}
		}
	}()
}

// Stop halts polling.
func (s *Sync) Stop() {
	if s.cancel != nil {
		s.cancel()
		<-s.done
	}
}
