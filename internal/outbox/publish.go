package outbox

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/postgenie/internal/nats"
	"github.com/rs/xid"
)

// PostParams is a post handed to Publish.
type PostParams struct {
	Platform string
	Label    string
	Text     string
	Hashtags string
	ImageURL string
}

// Publish records posts as one batch and returns the batch id.
func (s *Store) Publish(ctx context.Context, session string, posts []PostParams) (string, error) {
	if len(posts) == 0 {
		return "", fmt.Errorf("no posts to publish")
	}
	batch := xid.New().String()
	now := s.now()
	for _, p := range posts {
		meta, err := json.Marshal(postMeta{
			Batch:    batch,
			Platform: p.Platform,
			Label:    p.Label,
			Hashtags: p.Hashtags,
			ImageURL: p.ImageURL,
		})
		if err != nil {
			return "", fmt.Errorf("failed to marshal post meta: %w", err)
		}
		if _, err := s.PublishEvent(ctx, Event{
			Timestamp: now,
			Session:   session,
			Type:      nats.EventTypePublish,
			Action:    "post",
			Meta:      meta,
			Data:      p.Text,
		}); err != nil {
			return "", fmt.Errorf("publishing %s post: %w", p.Platform, err)
		}
	}
	return batch, nil
}

// RecordExport records a CSV export in the session history.
func (s *Store) RecordExport(ctx context.Context, session, file string, count int) error {
	meta, err := json.Marshal(exportMeta{File: file, Count: count})
	if err != nil {
		return fmt.Errorf("failed to marshal export meta: %w", err)
	}
	_, err = s.PublishEvent(ctx, Event{
		Session: session,
		Type:    nats.EventTypeExport,
		Action:  "csv",
		Meta:    meta,
	})
	return err
}
