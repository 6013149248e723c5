package tui

import (
	"github.com/mark3labs/postgenie/internal/export"
	"github.com/mark3labs/postgenie/internal/generate"
	"github.com/mark3labs/postgenie/internal/platform"
	"github.com/mark3labs/postgenie/internal/wizard"
)

// Generation results. Each carries the ticket from the matching Begin call
// and is applied through the controller's Complete method.
type (
	PostsGeneratedMsg struct {
		Ticket wizard.Ticket
		Drafts []generate.PostDraft
		Err    error
	}

	TextRegeneratedMsg struct {
		Ticket wizard.Ticket
		Draft  generate.PostDraft
		Err    error
	}

	PromptsGeneratedMsg struct {
		Ticket wizard.Ticket
		Batch  []generate.PromptCandidate
		Err    error
	}

	ImagesGeneratedMsg struct {
		Ticket wizard.Ticket
		Images []generate.Image
		Err    error
	}

	ImageRegeneratedMsg struct {
		Ticket wizard.Ticket
		Image  generate.Image
		Err    error
	}
)

// EditTarget names what an external editor session edits.
type EditTarget struct {
	Source   bool
	Platform platform.ID // Post text when Source is false
}

// EditorDoneMsg is sent when $EDITOR exits.
type EditorDoneMsg struct {
	Target  EditTarget
	Content string
	Err     error
}

// ExportDoneMsg reports a CSV export or publish.
type ExportDoneMsg struct {
	Publish bool
	Result  export.Result
	Err     error
}

// toastExpiredMsg clears a toast if it is still the one shown.
type toastExpiredMsg struct {
	id int
}
