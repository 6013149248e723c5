package outbox

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/mark3labs/postgenie/internal/nats"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	e, err := nats.Start(context.Background(), t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = e.Close() })
	return NewStore(e.JS, e.Stream)
}

func TestPublishAndLoad(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	batch, err := store.Publish(ctx, "spring", []PostParams{
		{Platform: "instagram", Label: "Instagram", Text: "Hello IG", Hashtags: "#a", ImageURL: "https://img/1"},
		{Platform: "x", Label: "X", Text: "Hello X", Hashtags: "#b", ImageURL: "https://img/1"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, batch)

	second, err := store.Publish(ctx, "spring", []PostParams{{Platform: "linkedin", Label: "LinkedIn", Text: "Hello LI"}})
	require.NoError(t, err)
	require.NotEqual(t, batch, second)

	_, err = store.Publish(ctx, "other", []PostParams{{Platform: "facebook", Label: "Facebook", Text: "Elsewhere"}})
	require.NoError(t, err)

	require.NoError(t, store.RecordExport(ctx, "spring", "/tmp/clovered-posts-1.csv", 2))

	st, err := store.Load(ctx, "spring")
	require.NoError(t, err)
	require.Equal(t, "spring", st.Session)
	require.Len(t, st.Posts, 3)
	require.Equal(t, "Hello IG", st.Posts[0].Text)
	require.Equal(t, "Instagram", st.Posts[0].Label)
	require.Equal(t, "https://img/1", st.Posts[0].ImageURL)
	require.Equal(t, batch, st.Posts[1].Batch)
	require.NotEmpty(t, st.Posts[0].ID)
	require.False(t, st.Posts[0].PublishedAt.IsZero())

	batches := st.Batches()
	require.Len(t, batches, 2)
	require.Len(t, batches[0], 2)
	require.Len(t, batches[1], 1)

	require.Len(t, st.Exports, 1)
	require.Equal(t, 2, st.Exports[0].Count)
	require.Equal(t, "/tmp/clovered-posts-1.csv", st.Exports[0].File)
}

func TestPublishRequiresPosts(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Publish(context.Background(), "s", nil)
	require.Error(t, err)
}

func TestLoadEmptySession(t *testing.T) {
	store := newTestStore(t)
	st, err := store.Load(context.Background(), "")
	require.NoError(t, err)
	require.Equal(t, "default", st.Session)
	require.Empty(t, st.Posts)
	require.Empty(t, st.Exports)
}

func TestLoadSkipsMalformedEvents(t *testing.T) {
	ctx := context.Background()
	e, err := nats.Start(ctx, t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = e.Close() })
	store := NewStore(e.JS, e.Stream)

	_, err = e.JS.Publish(ctx, nats.SubjectForEvent("s", nats.EventTypePublish), []byte("not json"))
	require.NoError(t, err)
	_, err = store.Publish(ctx, "s", []PostParams{{Platform: "x", Label: "X", Text: "ok"}})
	require.NoError(t, err)

	st, err := store.Load(ctx, "s")
	require.NoError(t, err)
	require.Len(t, st.Posts, 1)
}

func TestApplyIgnoresUnknownEvents(t *testing.T) {
	st := &State{}
	st.Apply(Event{Type: "control", Action: "noop"})
	st.Apply(Event{Type: nats.EventTypePublish, Action: "retract"})
	st.Apply(Event{Type: nats.EventTypeExport, Action: "csv", Meta: json.RawMessage(`{"file":"f.csv","count":1}`), Timestamp: time.Unix(10, 0)})
	require.Empty(t, st.Posts)
	require.Len(t, st.Exports, 1)
	require.Equal(t, time.Unix(10, 0), st.Exports[0].ExportedAt)
}
