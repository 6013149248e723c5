// Package generate defines the content generation collaborators used by the
// wizard and a mock provider that simulates them.
package generate

import (
	"context"
	"fmt"

	"github.com/mark3labs/postgenie/internal/platform"
)

// PostDraft is generated text for one platform.
type PostDraft struct {
	Platform platform.ID `json:"platform"`
	Text     string      `json:"text"`
	Hashtags string      `json:"hashtags"`
}

// PromptCandidate is one suggested image direction.
type PromptCandidate struct {
	ID          string `json:"id"`
	Text        string `json:"text"`
	Recommended bool   `json:"recommended"`
	Rationale   string `json:"rationale,omitempty"`
}

// Image is a generated image reference.
type Image struct {
	ID     string `json:"id"`
	URL    string `json:"url"`
	Prompt string `json:"prompt"`
}

// PromptContext is what prompt generation sees of the wizard.
type PromptContext struct {
	Source    string
	Platforms []platform.ID
	Posts     []PostDraft
}

// TextGenerator produces post text.
type TextGenerator interface {
	GeneratePostText(ctx context.Context, source string, platforms []platform.ID) ([]PostDraft, error)
	RegeneratePostText(ctx context.Context, id platform.ID, source string) (PostDraft, error)
}

// ImageGenerator produces image prompts and images.
type ImageGenerator interface {
	GeneratePromptCandidates(ctx context.Context, pc PromptContext) ([]PromptCandidate, error)
	GenerateImages(ctx context.Context, prompt string) ([]Image, error)
	RegenerateImage(ctx context.Context, img Image) (Image, error)
}

// Provider bundles both collaborators.
type Provider interface {
	TextGenerator
	ImageGenerator
}

// BatchSize is the number of prompt candidates and images per batch.
const BatchSize = 3

// Placeholder returns the content a freshly selected platform starts with.
func Placeholder(id platform.ID) PostDraft {
	return PostDraft{
		Platform: id,
		Text:     fmt.Sprintf("[%s] This is a sample post text. Click \"Regenerate Text\" to get a new version.", platform.Label(id)),
		Hashtags: "#sample #hashtags",
	}
}

// ValidatePromptBatch checks the candidate batch contract: exactly BatchSize
// candidates, exactly one recommended, and a rationale on the recommended one only.
func ValidatePromptBatch(batch []PromptCandidate) error {
	if len(batch) != BatchSize {
		return fmt.Errorf("expected %d prompt candidates, got %d", BatchSize, len(batch))
	}
	recommended := 0
	ids := make(map[string]bool, len(batch))
	for _, c := range batch {
		if c.ID == "" || ids[c.ID] {
			return fmt.Errorf("prompt candidate ids must be unique and non-empty")
		}
		ids[c.ID] = true
		if c.Recommended {
			recommended++
			if c.Rationale == "" {
				return fmt.Errorf("recommended candidate %s has no rationale", c.ID)
			}
		} else if c.Rationale != "" {
			return fmt.Errorf("candidate %s has a rationale but is not recommended", c.ID)
		}
	}
	if recommended != 1 {
		return fmt.Errorf("expected exactly one recommended candidate, got %d", recommended)
	}
	return nil
}

// ValidateImageBatch checks that a batch has BatchSize images with distinct ids,
// all tagged with prompt.
func ValidateImageBatch(batch []Image, prompt string) error {
	if len(batch) != BatchSize {
		return fmt.Errorf("expected %d images, got %d", BatchSize, len(batch))
	}
	ids := make(map[string]bool, len(batch))
	for _, img := range batch {
		if img.ID == "" || ids[img.ID] {
			return fmt.Errorf("image ids must be unique and non-empty")
		}
		ids[img.ID] = true
		if img.Prompt != prompt {
			return fmt.Errorf("image %s has prompt %q, want %q", img.ID, img.Prompt, prompt)
		}
	}
	return nil
}

// NewProvider selects a provider implementation by name.
func NewProvider(name string, opts MockOptions) (Provider, error) {
	switch name {
	case "", "mock":
		return NewMock(opts), nil
	default:
		return nil, fmt.Errorf("unknown provider: %q", name)
	}
}
