package view

import (
	"context"
	"sync"
	"time"

	"CoinDeck/internal/bus"
	"CoinDeck/pkg/logger"
)

// FetchFunc loads one snapshot of a view's data.
type FetchFunc func(ctx context.Context) (interface{}, error)

// Poller owns the refresh cycle of one data-bearing view: a fixed
// interval timer plus an immediate re-fetch on subscribed bus events.
// At most one fetch is in flight at a time; triggers arriving during a
// fetch are skipped. The latest successful snapshot wins, a failed
// fetch substitutes the fallback, and results arriving after Stop are
// discarded.
type Poller struct {
	name     string
	fetch    FetchFunc
	fallback func() interface{}
	interval time.Duration
	bus      *bus.Bus
	topics   []string
	log      *logger.Logger

	mu       sync.Mutex
	snapshot interface{}
	inFlight bool
	stopped  bool

	cancel context.CancelFunc
	done   chan struct{}
}

// PollerOption configures a Poller.
type PollerOption func(*Poller)

// WithFallback supplies data used when a fetch fails and no snapshot
// exists yet.
func WithFallback(f func() interface{}) PollerOption {
	return func(p *Poller) {
		p.fallback = f
	}
}

// WithRefreshOn subscribes the poller to bus topics that trigger an
// immediate re-fetch.
func WithRefreshOn(topics ...string) PollerOption {
	return func(p *Poller) {
		p.topics = topics
	}
}

// NewPoller creates a view poller.
func NewPoller(name string, interval time.Duration, fetch FetchFunc, b *bus.Bus, log *logger.Logger, opts ...PollerOption) *Poller {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	p := &Poller{
		name:     name,
		fetch:    fetch,
		interval: interval,
		bus:      b,
		log:      log,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start begins the refresh loop with an immediate first fetch.
func (p *Poller) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel

	var events <-chan bus.Event
	unsubscribe := func() {}
	if p.bus != nil && len(p.topics) > 0 {
		events, unsubscribe = p.bus.Subscribe(p.topics...)
	}

	go func() {
		defer close(p.done)
		defer unsubscribe()

		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		p.refresh(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				p.refresh(ctx)
			case _, ok := <-events:
				if !ok {
					events = nil
					continue
				}
				p.refresh(ctx)
			}
		}
	}()
}

// Stop halts the loop. In-flight fetches finish but their results are
// discarded.
func (p *Poller) Stop() {
	p.mu.Lock()
	p.stopped = true
	p.mu.Unlock()

	if p.cancel != nil {
		p.cancel()
		<-p.done
	}
}

// Snapshot returns the view's current data, which may be nil before the
// first fetch completes.
func (p *Poller) Snapshot() interface{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshot
}

func (p *Poller) refresh(ctx context.Context) {
	p.mu.Lock()
	if p.inFlight || p.stopped {
		p.mu.Unlock()
		return
	}
	p.inFlight = true
	p.mu.Unlock()

	go func() {
		data, err := p.fetch(ctx)

		p.mu.Lock()
		defer p.mu.Unlock()
		p.inFlight = false
		if p.stopped {
			return
		}
		if err != nil {
			if p.log != nil {
				p.log.Warn("view: fetch failed",
					logger.String("view", p.name),
					logger.Error(err))
			}
			if p.snapshot == nil && p.fallback != nil {
				p.snapshot = p.fallback()
			}
			return
		}
		p.snapshot = data
	}()
}
