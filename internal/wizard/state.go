package wizard

import (
	"slices"
	"time"

	"github.com/mark3labs/postgenie/internal/generate"
	"github.com/mark3labs/postgenie/internal/platform"
)

// Field names an editable part of a platform post.
type Field string

const (
	FieldText     Field = "text"
	FieldHashtags Field = "hashtags"
)

// Post is one platform's editable post.
type Post struct {
	Text     string `json:"text"`
	Hashtags string `json:"hashtags"`

	// Generated is the text last produced by a generator, kept to show user edits.
	Generated string `json:"generated,omitempty"`
}

// Edited reports whether the text differs from the last generated version.
func (p Post) Edited() bool {
	return p.Generated != "" && p.Text != p.Generated
}

// Status values for review cards and export rows.
const (
	StatusDraft = "draft"
	StatusReady = "ready"
)

// ReviewCard is a platform post as shown on the Review step.
type ReviewCard struct {
	Platform platform.ID `json:"platform"`
	Label    string      `json:"label"`
	Text     string      `json:"text"`
	Hashtags string      `json:"hashtags"`
	ImageURL string      `json:"image_url"`
	Status   string      `json:"status"`
}

// Ready reports whether the card is approved.
func (c ReviewCard) Ready() bool {
	return c.Status == StatusReady
}

// ExportRow is one approved post handed to an export sink.
type ExportRow struct {
	Platform  platform.ID `json:"platform"`
	Text      string      `json:"text"`
	Hashtags  string      `json:"hashtags"`
	ImageURL  string      `json:"image_url"`
	Status    string      `json:"status"`
	Timestamp time.Time   `json:"timestamp"`
}

// State is a read-only copy of the wizard state.
type State struct {
	Step             Step                       `json:"step"`
	MaxStep          Step                       `json:"max_step"`
	Epoch            uint64                     `json:"epoch"`
	Source           string                     `json:"source"`
	Selected         []platform.ID              `json:"selected"`
	Posts            map[platform.ID]Post       `json:"posts"`
	Prompts          []generate.PromptCandidate `json:"prompts"`
	SelectedPromptID string                     `json:"selected_prompt_id,omitempty"`
	WorkingPrompt    string                     `json:"working_prompt"`
	Images           []generate.Image           `json:"images"`
	SelectedImageID  string                     `json:"selected_image_id,omitempty"`
	Approvals        map[platform.ID]bool       `json:"approvals"`
	Cards            []ReviewCard               `json:"cards,omitempty"`
	Pending          []string                   `json:"pending,omitempty"`
}

// IsSelected reports whether id is in the platform selection.
func (s State) IsSelected(id platform.ID) bool {
	return slices.Contains(s.Selected, id)
}

// IsPending reports whether a generation call for key is in flight.
func (s State) IsPending(key string) bool {
	return slices.Contains(s.Pending, key)
}

// SelectedImage returns the selected image of the current batch.
func (s State) SelectedImage() (generate.Image, bool) {
	for _, img := range s.Images {
		if img.ID == s.SelectedImageID {
			return img, true
		}
	}
	return generate.Image{}, false
}

// SelectedPrompt returns the selected prompt candidate.
func (s State) SelectedPrompt() (generate.PromptCandidate, bool) {
	for _, c := range s.Prompts {
		if c.ID == s.SelectedPromptID {
			return c, true
		}
	}
	return generate.PromptCandidate{}, false
}

// snapshot is the upstream tuple an image batch was generated from.
type snapshot struct {
	source   string
	selected []platform.ID
	posts    map[platform.ID]Post
	prompt   string
}

func (a *snapshot) matches(b *snapshot) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.source != b.source || a.prompt != b.prompt || !slices.Equal(a.selected, b.selected) {
		return false
	}
	if len(a.posts) != len(b.posts) {
		return false
	}
	for id, pa := range a.posts {
		pb, ok := b.posts[id]
		if !ok || pa.Text != pb.Text || pa.Hashtags != pb.Hashtags {
			return false
		}
	}
	return true
}

func copyPosts(posts map[platform.ID]Post) map[platform.ID]Post {
	out := make(map[platform.ID]Post, len(posts))
	for id, p := range posts {
		out[id] = p
	}
	return out
}
