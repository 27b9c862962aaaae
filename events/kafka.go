package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	log "github.com/sirupsen/logrus"
)

// Kafka topics of the outgoing event feed
const (
	TopicBetsPlaced     = "bets.placed"
	TopicMatchesSettled = "matches.settled"
	TopicOddsUpdated    = "odds.updated"
)

// KafkaForwarder republishes selected bus events onto Kafka topics for
// downstream consumers. Forwarding is best effort; a broker outage is
// logged and never fails the operation that produced the event.
type KafkaForwarder struct {
	bets    *kafka.Writer
	settled *kafka.Writer
	odds    *kafka.Writer
}

// NewKafkaForwarder creates writers for each feed topic
func NewKafkaForwarder(brokers string) *KafkaForwarder {
	newWriter := func(topic string) *kafka.Writer {
		return &kafka.Writer{
			Addr:                   kafka.TCP(brokers),
			Topic:                  topic,
			Balancer:               &kafka.LeastBytes{},
			AllowAutoTopicCreation: true,
		}
	}
	return &KafkaForwarder{
		bets:    newWriter(TopicBetsPlaced),
		settled: newWriter(TopicMatchesSettled),
		odds:    newWriter(TopicOddsUpdated),
	}
}

// Register subscribes the forwarder to the bus
func (f *KafkaForwarder) Register(bus *Bus) {
	bus.Subscribe(EventTypeBetPlaced, func(ctx context.Context, e Event) {
		ev := e.(BetPlacedEvent)
		f.write(ctx, f.bets, ev.MatchID.String(), ev)
	})
	bus.Subscribe(EventTypeMatchSettled, func(ctx context.Context, e Event) {
		ev := e.(MatchSettledEvent)
		f.write(ctx, f.settled, ev.MatchID.String(), ev)
	})
	bus.Subscribe(EventTypeMatchCancelled, func(ctx context.Context, e Event) {
		ev := e.(MatchCancelledEvent)
		f.write(ctx, f.settled, ev.MatchID.String(), ev)
	})
	bus.Subscribe(EventTypeOddsUpdated, func(ctx context.Context, e Event) {
		ev := e.(OddsUpdatedEvent)
		f.write(ctx, f.odds, ev.MatchID.String(), ev)
	})
}

func (f *KafkaForwarder) write(ctx context.Context, w *kafka.Writer, key string, payload any) {
	value, err := json.Marshal(payload)
	if err != nil {
		log.WithError(err).Error("Failed to marshal event for Kafka")
		return
	}

	writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	msg := kafka.Message{
		Key:   []byte(key),
		Value: value,
		Time:  time.Now(),
	}
	if err := w.WriteMessages(writeCtx, msg); err != nil {
		log.WithError(err).WithField("topic", w.Topic).Warn("Failed to forward event to Kafka")
	}
}

// Close releases all topic writers
func (f *KafkaForwarder) Close() error {
	for _, w := range []*kafka.Writer{f.bets, f.settled, f.odds} {
		if err := w.Close(); err != nil {
			return err
		}
	}
	return nil
}
