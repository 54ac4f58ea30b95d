package bus

import (
	"sync"
	"time"

	"CoinDeck/pkg/logger"
	"CoinDeck/pkg/metrics"
)

// Topics carried on the bus.
const (
	TopicDataCollected    = "dataCollected"
	TopicWatchlistUpdated = "watchlistUpdated"
)

// Event is one notification delivered to subscribers.
type Event struct {
	Topic   string      `json:"topic"`
	Payload interface{} `json:"payload,omitempty"`
	Time    time.Time   `json:"time"`
}

type subscriber struct {
	topics map[string]struct{}
	ch     chan Event
}

// Bus is an in-process pub/sub fanout. Delivery is non-blocking: a
// subscriber that cannot keep up drops events rather than stalling the
// publisher.
type Bus struct {
	mu       sync.RWMutex
	subs     map[int]*subscriber
	nextID   int
	bufSize  int
	log      *logger.Logger
	recorder *metrics.Recorder
	closed   bool
}

// Option configures the Bus.
type Option func(*Bus)

// WithBufferSize sets per-subscriber channel capacity.
func WithBufferSize(n int) Option {
	return func(b *Bus) {
		if n > 0 {
			b.bufSize = n
		}
	}
}

// WithMetrics records published events per topic.
func WithMetrics(r *metrics.Recorder) Option {
	return func(b *Bus) {
		b.recorder = r
	}
}

// New creates an event bus.
func New(log *logger.Logger, opts ...Option) *Bus {
	b := &Bus{
		subs:    make(map[int]*subscriber),
		bufSize: 16,
		log:     log,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe returns a channel receiving events for the given topics
// (all topics when none given) and a cancel func that must be called
// when the subscriber goes away.
func (b *Bus) Subscribe(topics ...string) (<-chan Event, func()) {
	sub := &subscriber{
		ch: make(chan Event, b.bufSize),
	}
	if len(topics) > 0 {
		sub.topics = make(map[string]struct{}, len(topics))
		for _, t := range topics {
			sub.topics[t] = struct{}{}
		}
	}

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = sub
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		if s, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(s.ch)
		}
		b.mu.Unlock()
	}
	return sub.ch, cancel
}

// Publish delivers an event to all matching subscribers without blocking.
func (b *Bus) Publish(topic string, payload interface{}) {
	evt := Event{
		Topic:   topic,
		Payload: payload,
		Time:    time.Now().UTC(),
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}

	if b.recorder != nil {
		b.recorder.BusEvent(topic)
	}

	for _, sub := range b.subs {
		if sub.topics != nil {
			if _, ok := sub.topics[topic]; !ok {
				continue
			}
		}
		select {
		case sub.ch <- evt:
		default:
			if b.log != nil {
				b.log.Warn("bus: dropping event for slow subscriber",
					logger.String("topic", topic))
			}
		}
	}
}

// Close drops all subscribers and closes their channels.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, sub := range b.subs {
		delete(b.subs, id)
		close(sub.ch)
	}
}
