package bus

import (
	"context"
	"time"

	"CoinDeck/pkg/kafka"
	"CoinDeck/pkg/logger"
)

// KafkaBridge mirrors bus events onto a Kafka topic for external
// consumers. Publish failures are logged and dropped; the bus never
// blocks on the broker.
type KafkaBridge struct {
	bus      *Bus
	producer *kafka.Producer
	topic    string
	log      *logger.Logger

	cancel context.CancelFunc
	done   chan struct{}
}

// NewKafkaBridge creates the bridge. The producer may be shared.
func NewKafkaBridge(b *Bus, producer *kafka.Producer, topic string, log *logger.Logger) *KafkaBridge {
	return &KafkaBridge{
		bus:      b,
		producer: producer,
		topic:    topic,
		log:      log,
		done:     make(chan struct{}),
	}
}

// Start begins forwarding events until Stop.
func (kb *KafkaBridge) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	kb.cancel = cancel

	events, unsubscribe := kb.bus.Subscribe()
	go func() {
		defer close(kb.done)
		defer unsubscribe()
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-events:
				if !ok {
					return
				}
				pubCtx, pubCancel := context.WithTimeout(ctx, 5*time.Second)
				err := kb.producer.Publish(pubCtx, kb.topic, []byte(evt.Topic), evt)
				pubCancel()
				if err != nil && kb.log != nil {
					kb.log.Warn("kafka bridge: publish failed",
						logger.String("topic", evt.Topic),
						logger.Error(err))
				}
			}
		}
	}()
}

// Stop shuts the bridge down.
func (kb *KafkaBridge) Stop() {
	if kb.cancel != nil {
		kb.cancel()
		<-kb.done
	}
}
