package outbox

import (
	"encoding/json"
	"time"

	"github.com/mark3labs/postgenie/internal/logger"
	"github.com/mark3labs/postgenie/internal/nats"
)

// State is a session's outbox history, reduced from events.
type State struct {
	Session string    `json:"session"`
	Posts   []*Post   `json:"posts"`
	Exports []*Export `json:"exports"`
}

// Post is one platform post pushed to the publisher.
type Post struct {
	ID          string    `json:"id"`
	Batch       string    `json:"batch"` // Shared by posts pushed together
	Platform    string    `json:"platform"`
	Label       string    `json:"label"`
	Text        string    `json:"text"`
	Hashtags    string    `json:"hashtags"`
	ImageURL    string    `json:"image_url"`
	PublishedAt time.Time `json:"published_at"`
}

// Export records one CSV file written by the export sink.
type Export struct {
	ID         string    `json:"id"`
	File       string    `json:"file"`
	Count      int       `json:"count"`
	ExportedAt time.Time `json:"exported_at"`
}

type postMeta struct {
	Batch    string `json:"batch"`
	Platform string `json:"platform"`
	Label    string `json:"label"`
	Hashtags string `json:"hashtags"`
	ImageURL string `json:"image_url"`
}

type exportMeta struct {
	File  string `json:"file"`
	Count int    `json:"count"`
}

// Apply reduces one event into the state.
func (st *State) Apply(event Event) {
	switch event.Type {
	case nats.EventTypePublish:
		if event.Action != "post" {
			return
		}
		var meta postMeta
		if err := json.Unmarshal(event.Meta, &meta); err != nil {
			logger.Warn("Ignoring publish event %s: %v", event.ID, err)
			return
		}
		st.Posts = append(st.Posts, &Post{
			ID:          event.ID,
			Batch:       meta.Batch,
			Platform:    meta.Platform,
			Label:       meta.Label,
			Text:        event.Data,
			Hashtags:    meta.Hashtags,
			ImageURL:    meta.ImageURL,
			PublishedAt: event.Timestamp,
		})

	case nats.EventTypeExport:
		if event.Action != "csv" {
			return
		}
		var meta exportMeta
		if err := json.Unmarshal(event.Meta, &meta); err != nil {
			logger.Warn("Ignoring export event %s: %v", event.ID, err)
			return
		}
		st.Exports = append(st.Exports, &Export{
			ID:         event.ID,
			File:       meta.File,
			Count:      meta.Count,
			ExportedAt: event.Timestamp,
		})
	}
}

// Batches groups posts by batch id, oldest batch first.
func (st *State) Batches() [][]*Post {
	var out [][]*Post
	index := make(map[string]int)
	for _, p := range st.Posts {
		i, ok := index[p.Batch]
		if !ok {
			i = len(out)
			index[p.Batch] = i
			out = append(out, nil)
		}
		out[i] = append(out[i], p)
	}
	return out
}
