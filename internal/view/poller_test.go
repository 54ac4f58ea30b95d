package view

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"CoinDeck/internal/bus"
)

func TestPollerFetchesImmediately(t *testing.T) {
	var calls int32
	p := NewPoller("test", time.Hour, func(context.Context) (interface{}, error) {
		atomic.AddInt32(&calls, 1)
		return "data", nil
	}, nil, nil)

	p.Start()
	defer p.Stop()

	waitFor(t, func() bool { return p.Snapshot() == "data" })
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("expected 1 fetch, got %d", got)
	}
}

func TestPollerRefetchesOnBusEvent(t *testing.T) {
	b := bus.New(nil)
	defer b.Close()

	var calls int32
	p := NewPoller("test", time.Hour, func(context.Context) (interface{}, error) {
		return atomic.AddInt32(&calls, 1), nil
	}, b, nil, WithRefreshOn(bus.TopicDataCollected))

	p.Start()
	defer p.Stop()
	waitFor(t, func() bool { return atomic.LoadInt32(&calls) == 1 })

	b.Publish(bus.TopicDataCollected, nil)
	waitFor(t, func() bool { return atomic.LoadInt32(&calls) == 2 })

	// unrelated topic does not trigger
	b.Publish(bus.TopicWatchlistUpdated, nil)
	time.Sleep(50 * time.Millisecond)
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Fatalf("expected 2 fetches, got %d", got)
	}
}

func TestPollerSkipsOverlappingTriggers(t *testing.T) {
	b := bus.New(nil)
	defer b.Close()

	block := make(chan struct{})
	var calls int32
	p := NewPoller("test", time.Hour, func(context.Context) (interface{}, error) {
		atomic.AddInt32(&calls, 1)
		<-block
		return "slow", nil
	}, b, nil, WithRefreshOn(bus.TopicDataCollected))

	p.Start()
	defer p.Stop()
	waitFor(t, func() bool { return atomic.LoadInt32(&calls) == 1 })

	// events while the first fetch is still running must not start more
	for i := 0; i < 5; i++ {
		b.Publish(bus.TopicDataCollected, nil)
	}
	time.Sleep(50 * time.Millisecond)
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("expected 1 in-flight fetch, got %d", got)
	}
	close(block)
}

func TestPollerFallbackOnFailure(t *testing.T) {
	p := NewPoller("test", time.Hour, func(context.Context) (interface{}, error) {
		return nil, errors.New("backend down")
	}, nil, nil, WithFallback(func() interface{} { return "fallback" }))

	p.Start()
	defer p.Stop()

	waitFor(t, func() bool { return p.Snapshot() == "fallback" })
}

func TestPollerDiscardsLateResultAfterStop(t *testing.T) {
	block := make(chan struct{})
	p := NewPoller("test", time.Hour, func(context.Context) (interface{}, error) {
		<-block
		return "late", nil
	}, nil, nil)

	p.Start()
	time.Sleep(20 * time.Millisecond)

	go func() {
		time.Sleep(20 * time.Millisecond)
		close(block)
	}()
	p.Stop()

	time.Sleep(50 * time.Millisecond)
	if p.Snapshot() != nil {
		t.Fatalf("late result must be discarded, got %v", p.Snapshot())
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met within deadline")
}
