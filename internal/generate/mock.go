package generate

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/mark3labs/postgenie/internal/brand"
	"github.com/mark3labs/postgenie/internal/logger"
	"github.com/mark3labs/postgenie/internal/platform"
	"github.com/mark3labs/postgenie/internal/template"
	"github.com/rs/xid"
)

// Canned image directions; one set is drawn per prompt batch.
var promptSets = [][]string{
	{
		"A bright, modern workspace with creative professionals brainstorming together",
		"A cozy coffee shop with people working on laptops and sharing ideas",
		"A group of friends enjoying a sunny day in the park, laughing and talking",
	},
	{
		"A bustling city street with diverse people walking and vibrant storefronts",
		"A peaceful library with students reading and studying at large tables",
		"A family cooking together in a cheerful kitchen, sharing stories",
	},
	{
		"A team collaborating on a project in a glass-walled meeting room",
		"Children playing and learning in a colorful classroom",
		"A mentor guiding a young professional in a modern office",
	},
}

var rationales = []string{
	"Best matches your content and brand goals",
	"Likely to drive the most engagement for your audience",
	"Strong visual fit for your current post",
	"Optimized for clarity and shareability",
	"Aligns with your selected platforms and message",
}

const imageURLFormat = "https://picsum.photos/800/600?random=%s"

// MockOptions configures the mock provider.
type MockOptions struct {
	TextDelay    time.Duration // Delay for initial post generation
	RegenDelay   time.Duration // Delay for single platform regeneration
	ImageDelay   time.Duration // Delay for prompt and image generation
	Seed         uint64        // Zero seeds from the clock
	Brand        *brand.Profile
	PostTemplate string
	Now          func() time.Time
}

// Mock simulates text and image generation with delays and canned data.
type Mock struct {
	opts MockOptions
	mu   sync.Mutex
	rng  *rand.Rand
}

// NewMock creates a mock provider. Zero-valued options fall back to defaults.
func NewMock(opts MockOptions) *Mock {
	if opts.Brand == nil {
		opts.Brand = brand.Default()
	}
	if opts.PostTemplate == "" {
		opts.PostTemplate = template.DefaultPostTemplate
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	seed := opts.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &Mock{
		opts: opts,
		rng:  rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

func (m *Mock) intn(n int) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rng.IntN(n)
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// GeneratePostText renders the post template for each platform.
func (m *Mock) GeneratePostText(ctx context.Context, source string, platforms []platform.ID) ([]PostDraft, error) {
	logger.Debug("Mock: generating post text for %d platforms", len(platforms))
	if err := sleep(ctx, m.opts.TextDelay); err != nil {
		return nil, err
	}

	drafts := make([]PostDraft, 0, len(platforms))
	for _, id := range platform.Normalize(platforms) {
		drafts = append(drafts, m.draft(id, source))
	}
	return drafts, nil
}

func (m *Mock) draft(id platform.ID, source string) PostDraft {
	info, _ := platform.Lookup(id)
	limit := m.opts.Brand.TextLimit(id)

	vars := template.Variables{
		Label:    info.Label,
		Platform: string(id),
		Source:   source,
		Brand:    m.opts.Brand.Name,
		CTA:      m.opts.Brand.DefaultCTA,
		Time:     m.opts.Now().Format(time.Kitchen),
	}
	// Render once without a summary to learn how much room the template leaves.
	room := limit - len([]rune(template.Render(m.opts.PostTemplate, vars)))
	if room < 1 {
		room = 1
	}
	vars.Summary = template.Summarize(source, room)

	return PostDraft{
		Platform: id,
		Text:     template.Truncate(template.Render(m.opts.PostTemplate, vars), limit),
		Hashtags: template.Hashtags(m.opts.Brand.ImageStyle.Keywords, info.HashtagLimit),
	}
}

// RegeneratePostText produces a fresh canned version of one platform's post.
func (m *Mock) RegeneratePostText(ctx context.Context, id platform.ID, source string) (PostDraft, error) {
	if !platform.Valid(id) {
		return PostDraft{}, fmt.Errorf("unknown platform: %s", id)
	}
	logger.Debug("Mock: regenerating post text for %s", id)
	if err := sleep(ctx, m.opts.RegenDelay); err != nil {
		return PostDraft{}, err
	}
	text := template.Render(template.RegeneratedPostTemplate, template.Variables{
		Label: platform.Label(id),
		Time:  m.opts.Now().Format("3:04:05 PM"),
	})
	return PostDraft{
		Platform: id,
		Text:     template.Truncate(text, m.opts.Brand.TextLimit(id)),
		Hashtags: template.RegeneratedHashtags,
	}, nil
}

// GeneratePromptCandidates draws a random prompt set and recommends one of them.
func (m *Mock) GeneratePromptCandidates(ctx context.Context, pc PromptContext) ([]PromptCandidate, error) {
	logger.Debug("Mock: generating prompt candidates (%d platforms, %d bytes source)", len(pc.Platforms), len(pc.Source))
	if err := sleep(ctx, m.opts.ImageDelay); err != nil {
		return nil, err
	}

	set := promptSets[m.intn(len(promptSets))]
	recommended := m.intn(len(set))
	rationale := rationales[m.intn(len(rationales))]

	batch := make([]PromptCandidate, len(set))
	for i, text := range set {
		batch[i] = PromptCandidate{
			ID:   fmt.Sprintf("%d", i+1),
			Text: text,
		}
		if i == recommended {
			batch[i].Recommended = true
			batch[i].Rationale = rationale
		}
	}
	return batch, nil
}

// GenerateImages returns a batch of placeholder images tagged with prompt.
func (m *Mock) GenerateImages(ctx context.Context, prompt string) ([]Image, error) {
	if prompt == "" {
		return nil, fmt.Errorf("prompt is required")
	}
	logger.Debug("Mock: generating images for prompt %q", prompt)
	if err := sleep(ctx, m.opts.ImageDelay); err != nil {
		return nil, err
	}

	images := make([]Image, BatchSize)
	for i := range images {
		images[i] = Image{
			ID:     fmt.Sprintf("img-%d", i+1),
			URL:    fmt.Sprintf(imageURLFormat, xid.New().String()),
			Prompt: prompt,
		}
	}
	return images, nil
}

// RegenerateImage swaps the URL of img, keeping its id and prompt.
func (m *Mock) RegenerateImage(ctx context.Context, img Image) (Image, error) {
	logger.Debug("Mock: regenerating image %s", img.ID)
	if err := sleep(ctx, m.opts.ImageDelay); err != nil {
		return Image{}, err
	}
	img.URL = fmt.Sprintf(imageURLFormat, xid.New().String()+"-"+img.ID)
	return img, nil
}
