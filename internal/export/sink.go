package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/mark3labs/postgenie/internal/hooks"
	"github.com/mark3labs/postgenie/internal/logger"
	"github.com/mark3labs/postgenie/internal/outbox"
	"github.com/mark3labs/postgenie/internal/platform"
	"github.com/mark3labs/postgenie/internal/wizard"
)

var (
	ErrNothingReady    = errors.New("no approved posts to export")
	ErrPublishDisabled = errors.New("publishing is disabled")
)

// Sinks delivers approved posts to the CSV file sink and the publisher outbox.
type Sinks struct {
	Dir     string // CSV output directory
	Brand   string // Brand name used in file names
	Session string
	Outbox  *outbox.Store // nil disables publishing
	Hooks   *hooks.Config // Optional post-export hook
	WorkDir string        // Working directory for hooks
	Now     func() time.Time
}

// Result describes one completed export or publish.
type Result struct {
	File       string // CSV path, empty for publish
	Batch      string // Outbox batch id, empty for CSV
	Count      int
	HookOutput string
}

func (s *Sinks) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// ExportCSV writes rows to a new CSV file, records the export in the outbox
// and runs the post-export hook.
func (s *Sinks) ExportCSV(ctx context.Context, rows []wizard.ExportRow) (Result, error) {
	if len(rows) == 0 {
		return Result{}, ErrNothingReady
	}
	dir := s.Dir
	if dir == "" {
		dir = "."
	}
	path, err := WriteFile(dir, s.Brand, rows, s.now())
	if err != nil {
		return Result{}, err
	}
	logger.Info("Exported %d posts to %s", len(rows), path)
	res := Result{File: path, Count: len(rows)}

	if s.Outbox != nil {
		if err := s.Outbox.RecordExport(ctx, s.Session, path, len(rows)); err != nil {
			logger.Warn("Failed to record export in outbox: %v", err)
		}
	}

	if hook := s.Hooks.PostExport(); hook != nil {
		workDir := s.WorkDir
		if workDir == "" {
			workDir, _ = os.Getwd()
		}
		out, err := hooks.Execute(ctx, hook, workDir, hooks.Variables{
			File:    path,
			Count:   len(rows),
			Session: s.Session,
		})
		if err != nil {
			return res, fmt.Errorf("post-export hook: %w", err)
		}
		res.HookOutput = out
	}
	return res, nil
}

// Publish pushes rows to the publisher outbox as one batch.
func (s *Sinks) Publish(ctx context.Context, rows []wizard.ExportRow) (Result, error) {
	if s.Outbox == nil {
		return Result{}, ErrPublishDisabled
	}
	if len(rows) == 0 {
		return Result{}, ErrNothingReady
	}
	posts := make([]outbox.PostParams, 0, len(rows))
	for _, r := range rows {
		posts = append(posts, outbox.PostParams{
			Platform: string(r.Platform),
			Label:    platform.Label(r.Platform),
			Text:     r.Text,
			Hashtags: r.Hashtags,
			ImageURL: r.ImageURL,
		})
	}
	batch, err := s.Outbox.Publish(ctx, s.Session, posts)
	if err != nil {
		return Result{}, err
	}
	logger.Info("Published %d posts (batch %s)", len(rows), batch)
	return Result{Batch: batch, Count: len(rows)}, nil
}
