package bus

import (
	"testing"
	"time"
)

func newTestBus(t *testing.T) *Bus {
	t.Helper()
	return New(nil, WithBufferSize(4))
}

func TestPublishDeliversToSubscribedTopic(t *testing.T) {
	b := newTestBus(t)
	defer b.Close()

	events, cancel := b.Subscribe(TopicDataCollected)
	defer cancel()

	b.Publish(TopicDataCollected, map[string]string{"symbol": "BTC/USDT"})

	select {
	case evt := <-events:
		if evt.Topic != TopicDataCollected {
			t.Fatalf("unexpected topic %q", evt.Topic)
		}
	case <-time.After(time.Second):
		t.Fatalf("expected event")
	}
}

func TestPublishSkipsOtherTopics(t *testing.T) {
	b := newTestBus(t)
	defer b.Close()

	events, cancel := b.Subscribe(TopicWatchlistUpdated)
	defer cancel()

	b.Publish(TopicDataCollected, nil)

	select {
	case evt := <-events:
		t.Fatalf("unexpected event %+v", evt)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestPublishDoesNotBlockOnSlowSubscriber(t *testing.T) {
	b := New(nil, WithBufferSize(1))
	defer b.Close()

	_, cancel := b.Subscribe(TopicDataCollected)
	defer cancel()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			b.Publish(TopicDataCollected, i)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("publish blocked on full subscriber")
	}
}

func TestCancelStopsDelivery(t *testing.T) {
	b := newTestBus(t)
	defer b.Close()

	events, cancel := b.Subscribe()
	cancel()

	if _, ok := <-events; ok {
		t.Fatalf("expected closed channel")
	}
	b.Publish(TopicDataCollected, nil)
}

func TestCloseIdempotent(t *testing.T) {
	b := newTestBus(t)
	b.Close()
	b.Close()
	b.Publish(TopicDataCollected, nil)
}
