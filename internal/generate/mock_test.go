package generate

import (
	"context"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/mark3labs/postgenie/internal/brand"
	"github.com/mark3labs/postgenie/internal/platform"
	"github.com/mark3labs/postgenie/internal/template"
	"github.com/stretchr/testify/require"
)

func newTestMock() *Mock {
	return NewMock(MockOptions{
		Seed: 42,
		Now:  func() time.Time { return time.Date(2026, 3, 14, 15, 4, 5, 0, time.UTC) },
	})
}

func TestMock_GeneratePostText(t *testing.T) {
	t.Parallel()

	m := newTestMock()
	source := "Our new scholarship program opens for rural students this fall. Apply early."

	drafts, err := m.GeneratePostText(context.Background(), source, []platform.ID{platform.X, platform.Instagram, "bogus"})
	require.NoError(t, err)
	require.Len(t, drafts, 2)
	require.Equal(t, platform.Instagram, drafts[0].Platform, "drafts follow registry order")
	require.Equal(t, platform.X, drafts[1].Platform)

	for _, d := range drafts {
		info, _ := platform.Lookup(d.Platform)
		require.True(t, strings.HasPrefix(d.Text, "["+info.Label+"]"), d.Text)
		require.Contains(t, d.Text, "Learn More with CloverEd.")
		require.LessOrEqual(t, utf8.RuneCountInString(d.Text), brand.Default().TextLimit(d.Platform))
		require.LessOrEqual(t, template.CountHashtags(d.Hashtags), info.HashtagLimit)
	}
	require.Contains(t, drafts[0].Text, "Our new scholarship program opens for rural students this fall.")
}

func TestMock_GeneratePostTextRespectsShortLimit(t *testing.T) {
	t.Parallel()

	p := brand.Default()
	p.Platforms["x"] = brand.PlatformOverride{TextLimit: 40}
	m := NewMock(MockOptions{Seed: 1, Brand: p})

	drafts, err := m.GeneratePostText(context.Background(), strings.Repeat("word ", 100), []platform.ID{platform.X})
	require.NoError(t, err)
	require.Len(t, drafts, 1)
	require.LessOrEqual(t, utf8.RuneCountInString(drafts[0].Text), 40)
}

func TestMock_RegeneratePostText(t *testing.T) {
	t.Parallel()

	m := newTestMock()

	d, err := m.RegeneratePostText(context.Background(), platform.LinkedIn, "anything")
	require.NoError(t, err)
	require.Equal(t, "[LinkedIn] Regenerated post text at 3:04:05 PM. This is a new version of the post text.", d.Text)
	require.Equal(t, "#regenerated #new #hashtags", d.Hashtags)

	_, err = m.RegeneratePostText(context.Background(), "bogus", "anything")
	require.Error(t, err)
}

func TestMock_PromptCandidatesContract(t *testing.T) {
	t.Parallel()

	m := newTestMock()
	for i := 0; i < 50; i++ {
		batch, err := m.GeneratePromptCandidates(context.Background(), PromptContext{Source: "x"})
		require.NoError(t, err)
		require.NoError(t, ValidatePromptBatch(batch))
		require.Equal(t, []string{"1", "2", "3"}, []string{batch[0].ID, batch[1].ID, batch[2].ID})
	}
}

func TestMock_GenerateImages(t *testing.T) {
	t.Parallel()

	m := newTestMock()
	prompt := "A mentor guiding a young professional in a modern office"

	images, err := m.GenerateImages(context.Background(), prompt)
	require.NoError(t, err)
	require.NoError(t, ValidateImageBatch(images, prompt))
	for _, img := range images {
		require.True(t, strings.HasPrefix(img.URL, "https://picsum.photos/800/600?random="), img.URL)
	}

	_, err = m.GenerateImages(context.Background(), "")
	require.Error(t, err)
}

func TestMock_RegenerateImage(t *testing.T) {
	t.Parallel()

	m := newTestMock()
	orig := Image{ID: "img-2", URL: "https://picsum.photos/800/600?random=old", Prompt: "p"}

	img, err := m.RegenerateImage(context.Background(), orig)
	require.NoError(t, err)
	require.Equal(t, orig.ID, img.ID)
	require.Equal(t, orig.Prompt, img.Prompt)
	require.NotEqual(t, orig.URL, img.URL)
	require.True(t, strings.HasSuffix(img.URL, "-img-2"))
}

func TestMock_DelayHonorsContext(t *testing.T) {
	t.Parallel()

	m := NewMock(MockOptions{Seed: 1, ImageDelay: time.Hour})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.GenerateImages(ctx, "prompt")
	require.ErrorIs(t, err, context.Canceled)
}

func TestValidatePromptBatch(t *testing.T) {
	t.Parallel()

	good := []PromptCandidate{
		{ID: "1", Text: "a", Recommended: true, Rationale: "why"},
		{ID: "2", Text: "b"},
		{ID: "3", Text: "c"},
	}
	require.NoError(t, ValidatePromptBatch(good))

	tests := []struct {
		name  string
		batch []PromptCandidate
	}{
		{"too few", good[:2]},
		{"no recommended", []PromptCandidate{{ID: "1"}, {ID: "2"}, {ID: "3"}}},
		{"two recommended", []PromptCandidate{{ID: "1", Recommended: true, Rationale: "r"}, {ID: "2", Recommended: true, Rationale: "r"}, {ID: "3"}}},
		{"missing rationale", []PromptCandidate{{ID: "1", Recommended: true}, {ID: "2"}, {ID: "3"}}},
		{"stray rationale", []PromptCandidate{{ID: "1", Recommended: true, Rationale: "r"}, {ID: "2", Rationale: "r"}, {ID: "3"}}},
		{"duplicate ids", []PromptCandidate{{ID: "1", Recommended: true, Rationale: "r"}, {ID: "1"}, {ID: "3"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Error(t, ValidatePromptBatch(tt.batch))
		})
	}
}

func TestPlaceholder(t *testing.T) {
	t.Parallel()

	p := Placeholder(platform.Facebook)
	require.Equal(t, `[Facebook] This is a sample post text. Click "Regenerate Text" to get a new version.`, p.Text)
	require.Equal(t, "#sample #hashtags", p.Hashtags)
}

func TestNewProvider(t *testing.T) {
	t.Parallel()

	p, err := NewProvider("mock", MockOptions{Seed: 1})
	require.NoError(t, err)
	require.NotNil(t, p)

	_, err = NewProvider("openai", MockOptions{})
	require.Error(t, err)
}
