package tui

import (
	"errors"

	tea "charm.land/bubbletea/v2"
	"github.com/mark3labs/postgenie/internal/export"
	"github.com/mark3labs/postgenie/internal/platform"
)

var errNoSinks = errors.New("export is not configured")

// The start* helpers reserve the in-flight key synchronously, so a second
// keypress before the command runs is refused with wizard.ErrBusy.

func (a *App) startGeneratePosts() (tea.Cmd, error) {
	t, source, ids, err := a.wizard.BeginGeneratePosts()
	if err != nil {
		return nil, err
	}
	ctx, gen := a.ctx, a.provider
	return func() tea.Msg {
		drafts, err := gen.GeneratePostText(ctx, source, ids)
		return PostsGeneratedMsg{Ticket: t, Drafts: drafts, Err: err}
	}, nil
}

func (a *App) startRegenerateText(id platform.ID) (tea.Cmd, error) {
	t, source, err := a.wizard.BeginRegenerateText(id)
	if err != nil {
		return nil, err
	}
	ctx, gen := a.ctx, a.provider
	return func() tea.Msg {
		d, err := gen.RegeneratePostText(ctx, id, source)
		return TextRegeneratedMsg{Ticket: t, Draft: d, Err: err}
	}, nil
}

func (a *App) startPromptBatch() (tea.Cmd, error) {
	t, pc, err := a.wizard.BeginPromptBatch()
	if err != nil {
		return nil, err
	}
	ctx, gen := a.ctx, a.provider
	return func() tea.Msg {
		batch, err := gen.GeneratePromptCandidates(ctx, pc)
		return PromptsGeneratedMsg{Ticket: t, Batch: batch, Err: err}
	}, nil
}

func (a *App) startImageBatch(prompt string) (tea.Cmd, error) {
	t, prompt, err := a.wizard.BeginImageBatch(prompt)
	if err != nil {
		return nil, err
	}
	ctx, gen := a.ctx, a.provider
	return func() tea.Msg {
		images, err := gen.GenerateImages(ctx, prompt)
		return ImagesGeneratedMsg{Ticket: t, Images: images, Err: err}
	}, nil
}

func (a *App) startRegenerateImage(id string) (tea.Cmd, error) {
	t, img, err := a.wizard.BeginRegenerateImage(id)
	if err != nil {
		return nil, err
	}
	ctx, gen := a.ctx, a.provider
	return func() tea.Msg {
		out, err := gen.RegenerateImage(ctx, img)
		return ImageRegeneratedMsg{Ticket: t, Image: out, Err: err}
	}, nil
}

func (a *App) exportCmd(publish bool) tea.Cmd {
	rows := a.wizard.ExportReadyPosts()
	ctx, sinks := a.ctx, a.sinks
	return func() tea.Msg {
		if sinks == nil {
			if publish {
				return ExportDoneMsg{Publish: true, Err: export.ErrPublishDisabled}
			}
			return ExportDoneMsg{Err: errNoSinks}
		}
		var (
			res export.Result
			err error
		)
		if publish {
			res, err = sinks.Publish(ctx, rows)
		} else {
			res, err = sinks.ExportCSV(ctx, rows)
		}
		return ExportDoneMsg{Publish: publish, Result: res, Err: err}
	}
}

// applyResult completes a generation ticket with its result.
func (a *App) applyResult(msg tea.Msg) error {
	switch msg := msg.(type) {
	case PostsGeneratedMsg:
		return a.wizard.CompleteGeneratePosts(msg.Ticket, msg.Drafts, msg.Err)
	case TextRegeneratedMsg:
		return a.wizard.CompleteRegenerateText(msg.Ticket, msg.Draft, msg.Err)
	case PromptsGeneratedMsg:
		return a.wizard.CompletePromptBatch(msg.Ticket, msg.Batch, msg.Err)
	case ImagesGeneratedMsg:
		return a.wizard.CompleteImageBatch(msg.Ticket, msg.Images, msg.Err)
	case ImageRegeneratedMsg:
		return a.wizard.CompleteRegenerateImage(msg.Ticket, msg.Image, msg.Err)
	}
	return nil
}
