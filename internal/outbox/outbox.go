// Package outbox records posts pushed to the publishing service and CSV
// exports as events in a JetStream stream, and rebuilds the history from them.
package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/postgenie/internal/logger"
	"github.com/mark3labs/postgenie/internal/nats"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/rs/xid"
)

// Event is one entry of the append-only outbox log.
type Event struct {
	ID        string          `json:"id"`
	Timestamp time.Time       `json:"timestamp"`
	Session   string          `json:"session"`
	Type      string          `json:"type"`   // publish, export
	Action    string          `json:"action"` // post, csv
	Meta      json.RawMessage `json:"meta"`
	Data      string          `json:"data"` // Post text for publish events
}

// Store publishes outbox events and replays them into State.
type Store struct {
	js     jetstream.JetStream
	stream jetstream.Stream
	now    func() time.Time
}

// NewStore creates a Store on an existing JetStream context and outbox stream.
func NewStore(js jetstream.JetStream, stream jetstream.Stream) *Store {
	return &Store{
		js:     js,
		stream: stream,
		now:    time.Now,
	}
}

// PublishEvent appends an event to the outbox. Subjects follow
// postgenie.{session}.{type}.
func (s *Store) PublishEvent(ctx context.Context, event Event) (*jetstream.PubAck, error) {
	if event.ID == "" {
		event.ID = xid.New().String()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	event.Session = nats.SanitizeToken(event.Session)

	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event: %w", err)
	}

	subject := nats.SubjectForEvent(event.Session, event.Type)
	logger.Debug("Publishing outbox event: session=%s type=%s action=%s", event.Session, event.Type, event.Action)

	ack, err := s.js.Publish(ctx, subject, data)
	if err != nil {
		logger.Error("Failed to publish event to subject %s: %v", subject, err)
		return nil, fmt.Errorf("failed to publish event: %w", err)
	}
	return ack, nil
}

// Load rebuilds a session's outbox history by replaying its events.
func (s *Store) Load(ctx context.Context, session string) (*State, error) {
	session = nats.SanitizeToken(session)
	consumer, err := s.stream.CreateOrUpdateConsumer(ctx, jetstream.ConsumerConfig{
		FilterSubject: nats.SubjectForSession(session),
		DeliverPolicy: jetstream.DeliverAllPolicy,
		AckPolicy:     jetstream.AckExplicitPolicy,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer: %w", err)
	}

	state := &State{Session: session}

	const batchSize = 1000
	malformed := 0
	for {
		msgs, err := consumer.FetchNoWait(batchSize)
		if err != nil {
			break
		}

		n := 0
		for msg := range msgs.Messages() {
			n++
			var event Event
			if err := json.Unmarshal(msg.Data(), &event); err != nil {
				malformed++
				meta, _ := msg.Metadata()
				if meta != nil {
					logger.Warn("Skipping malformed outbox event (seq=%d): %v", meta.Sequence.Stream, err)
				}
				_ = msg.Ack()
				continue
			}
			state.Apply(event)
			_ = msg.Ack()
		}
		if n < batchSize {
			break
		}
	}

	if malformed > 0 {
		logger.Warn("Skipped %d malformed events while loading outbox", malformed)
	}
	logger.Debug("Outbox loaded: %d posts, %d exports", len(state.Posts), len(state.Exports))
	return state, nil
}
