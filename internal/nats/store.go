package nats

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go/jetstream"
)

const (
	streamName    = "postgenie_outbox"
	subjectPrefix = "postgenie"

	// Retention for published posts and export records.
	outboxMaxAge = 90 * 24 * time.Hour

	// Event types
	EventTypePublish = "publish"
	EventTypeExport  = "export"
)

// SubjectForSession returns the wildcard subject for all events in a session.
// Example: "postgenie.default.>"
func SubjectForSession(session string) string {
	return fmt.Sprintf("%s.%s.>", subjectPrefix, SanitizeToken(session))
}

// SubjectForEvent returns the subject for an event type in a session.
// Example: "postgenie.default.publish"
func SubjectForEvent(session, eventType string) string {
	return fmt.Sprintf("%s.%s.%s", subjectPrefix, SanitizeToken(session), eventType)
}

// SanitizeToken makes s usable as a single subject token. Dots, wildcards and
// whitespace become dashes; an empty session maps to "default".
func SanitizeToken(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "default"
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case '.', '*', '>', ' ', '\t', '\n', '\r':
			return '-'
		}
		return r
	}, s)
}

// SetupStream creates or updates the outbox stream covering every session.
func SetupStream(ctx context.Context, js jetstream.JetStream) (jetstream.Stream, error) {
	return js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:        streamName,
		Description: "Posts pushed to the publisher and CSV export records",
		Subjects:    []string{subjectPrefix + ".>"},
		Storage:     jetstream.FileStorage,
		MaxAge:      outboxMaxAge,
	})
}
