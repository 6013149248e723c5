package wizard

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/mark3labs/postgenie/internal/generate"
	"github.com/mark3labs/postgenie/internal/logger"
	"github.com/mark3labs/postgenie/internal/platform"
)

// In-flight keys. A second Begin for a key that is in flight fails with ErrBusy.
const (
	KeyPosts   = "posts"
	KeyPrompts = "prompts"
	KeyImages  = "images"
)

// TextKey is the in-flight key for regenerating one platform's text.
func TextKey(id platform.ID) string { return "text:" + string(id) }

// ImageKey is the in-flight key for regenerating one image.
func ImageKey(id string) string { return "image:" + id }

// Ticket identifies an in-flight generation call. Results are applied only
// when the ticket is still current.
type Ticket struct {
	Key   string
	Epoch uint64

	ref    string // platform or image id
	rev    uint64
	srcRev uint64
	gen    uint64
	batch  uint64
	snap   *snapshot
}

func (c *Controller) beginLocked(key string) (Ticket, error) {
	if _, busy := c.pending[key]; busy {
		return Ticket{}, fmt.Errorf("%s: %w", key, ErrBusy)
	}
	c.pending[key] = c.epoch
	logger.Debug("Generation started: %s (epoch %d)", key, c.epoch)
	return Ticket{Key: key, Epoch: c.epoch, rev: c.upstreamRev, batch: c.batchSeq}, nil
}

// finishLocked releases the ticket's key and reports whether the ticket
// belongs to the current epoch.
func (c *Controller) finishLocked(t Ticket) bool {
	if e, ok := c.pending[t.Key]; ok && e == t.Epoch {
		delete(c.pending, t.Key)
	}
	if t.Epoch != c.epoch {
		logger.Debug("Discarding %s result from epoch %d (current %d)", t.Key, t.Epoch, c.epoch)
		return false
	}
	return true
}

// BeginGeneratePosts validates the Input step and reserves the posts key.
// It returns the source and platforms to pass to the generator.
func (c *Controller) BeginGeneratePosts() (Ticket, string, []platform.ID, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if strings.TrimSpace(c.source) == "" {
		return Ticket{}, "", nil, ErrEmptySource
	}
	if len(c.selected) == 0 {
		return Ticket{}, "", nil, ErrNoPlatforms
	}
	t, err := c.beginLocked(KeyPosts)
	if err != nil {
		return Ticket{}, "", nil, err
	}
	return t, c.source, slices.Clone(c.selected), nil
}

// CompleteGeneratePosts applies generated drafts and moves from Input to
// TextOptions. Results are dropped when upstream content changed meanwhile.
func (c *Controller) CompleteGeneratePosts(t Ticket, drafts []generate.PostDraft, genErr error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	current := c.finishLocked(t)
	if genErr != nil {
		logger.Warn("Post generation failed: %v", genErr)
		return fmt.Errorf("generating post text: %w", genErr)
	}
	if !current {
		return nil
	}
	if t.rev != c.upstreamRev {
		logger.Debug("Discarding generated posts: upstream changed")
		return nil
	}

	changed := false
	for _, d := range drafts {
		old, ok := c.posts[d.Platform]
		if !ok {
			continue
		}
		if old.Text != d.Text || old.Hashtags != d.Hashtags {
			changed = true
		}
		c.posts[d.Platform] = Post{Text: d.Text, Hashtags: d.Hashtags, Generated: d.Text}
	}
	if changed {
		c.upstreamChangedLocked(true)
	}
	if c.step == StepInput && c.advanceBlockerLocked() == nil {
		c.setStepLocked(StepTextOptions)
	}
	c.reconcileLocked()
	return nil
}

// GeneratePosts generates text for every selected platform and advances to TextOptions.
func (c *Controller) GeneratePosts(ctx context.Context) (err error) {
	t, source, ids, err := c.BeginGeneratePosts()
	if err != nil {
		return err
	}
	var drafts []generate.PostDraft
	genErr := errGenerationAborted
	defer func() { err = c.CompleteGeneratePosts(t, drafts, genErr) }()

	drafts, genErr = c.text.GeneratePostText(ctx, source, ids)
	return nil
}

// BeginRegenerateText reserves the text key for a selected platform.
func (c *Controller) BeginRegenerateText(id platform.ID) (Ticket, string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.isSelectedLocked(id) {
		return Ticket{}, "", fmt.Errorf("platform %s: %w", id, ErrNotFound)
	}
	t, err := c.beginLocked(TextKey(id))
	if err != nil {
		return Ticket{}, "", err
	}
	t.ref = string(id)
	t.srcRev = c.sourceRev
	t.gen = c.postGen[id]
	return t, c.source, nil
}

// CompleteRegenerateText replaces one platform's post if it is still selected.
// Results are dropped when the source changed or the platform was deselected
// and selected again since the ticket was issued.
func (c *Controller) CompleteRegenerateText(t Ticket, d generate.PostDraft, genErr error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	current := c.finishLocked(t)
	if genErr != nil {
		logger.Warn("Text regeneration for %s failed: %v", t.ref, genErr)
		return fmt.Errorf("regenerating %s text: %w", t.ref, genErr)
	}
	if !current {
		return nil
	}
	id := platform.ID(t.ref)
	old, ok := c.posts[id]
	if !ok {
		return nil
	}
	if t.srcRev != c.sourceRev || t.gen != c.postGen[id] {
		logger.Debug("Discarding %s text: post changed since request", id)
		return nil
	}
	if old.Text != d.Text || old.Hashtags != d.Hashtags {
		c.posts[id] = Post{Text: d.Text, Hashtags: d.Hashtags, Generated: d.Text}
		c.upstreamChangedLocked(true)
		c.reconcileLocked()
	}
	return nil
}

// RegeneratePostText regenerates one selected platform's post.
func (c *Controller) RegeneratePostText(ctx context.Context, id platform.ID) (err error) {
	t, source, err := c.BeginRegenerateText(id)
	if err != nil {
		return err
	}
	var d generate.PostDraft
	genErr := errGenerationAborted
	defer func() { err = c.CompleteRegenerateText(t, d, genErr) }()

	d, genErr = c.text.RegeneratePostText(ctx, id, source)
	return nil
}

// BeginPromptBatch reserves the prompts key on the PromptSelect step.
func (c *Controller) BeginPromptBatch() (Ticket, generate.PromptContext, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.step != StepPromptSelect {
		return Ticket{}, generate.PromptContext{}, ErrWrongStep
	}
	t, err := c.beginLocked(KeyPrompts)
	if err != nil {
		return Ticket{}, generate.PromptContext{}, err
	}
	pc := generate.PromptContext{
		Source:    c.source,
		Platforms: slices.Clone(c.selected),
	}
	for _, id := range c.selected {
		p := c.posts[id]
		pc.Posts = append(pc.Posts, generate.PostDraft{Platform: id, Text: p.Text, Hashtags: p.Hashtags})
	}
	return t, pc, nil
}

// CompletePromptBatch installs a new candidate batch, clearing the selected
// and working prompt.
func (c *Controller) CompletePromptBatch(t Ticket, batch []generate.PromptCandidate, genErr error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	current := c.finishLocked(t)
	if genErr != nil {
		logger.Warn("Prompt generation failed: %v", genErr)
		return fmt.Errorf("generating prompt candidates: %w", genErr)
	}
	if !current {
		return nil
	}
	if t.rev != c.upstreamRev {
		logger.Debug("Discarding prompt batch: upstream changed")
		return nil
	}
	if err := generate.ValidatePromptBatch(batch); err != nil {
		return fmt.Errorf("invalid prompt batch: %w", err)
	}

	c.prompts = slices.Clone(batch)
	c.promptsStale = false
	c.selectedPrompt = ""
	c.setWorkingPromptLocked("")
	c.reconcileLocked()
	return nil
}

// RegeneratePromptBatch replaces the prompt candidates with a new batch.
func (c *Controller) RegeneratePromptBatch(ctx context.Context) (err error) {
	t, pc, err := c.BeginPromptBatch()
	if err != nil {
		return err
	}
	var batch []generate.PromptCandidate
	genErr := errGenerationAborted
	defer func() { err = c.CompletePromptBatch(t, batch, genErr) }()

	batch, genErr = c.images.GeneratePromptCandidates(ctx, pc)
	return nil
}

// EnsurePrompts generates a prompt batch when the PromptSelect step has none.
func (c *Controller) EnsurePrompts(ctx context.Context) error {
	if !c.NeedsPromptBatch() {
		return nil
	}
	return c.RegeneratePromptBatch(ctx)
}

// BeginImageBatch records prompt as the working prompt, snapshots upstream
// content and reserves the images key.
func (c *Controller) BeginImageBatch(prompt string) (Ticket, string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return Ticket{}, "", ErrEmptyPrompt
	}
	if c.step != StepPromptSelect && c.step != StepImageGenerate {
		return Ticket{}, "", ErrWrongStep
	}
	if _, busy := c.pending[KeyImages]; busy {
		return Ticket{}, "", fmt.Errorf("%s: %w", KeyImages, ErrBusy)
	}
	c.setWorkingPromptLocked(prompt)
	c.reconcileLocked()

	t, err := c.beginLocked(KeyImages)
	if err != nil {
		return Ticket{}, "", err
	}
	t.snap = c.liveSnapshotLocked()
	return t, prompt, nil
}

// CompleteImageBatch installs a new image batch and moves to ImageGenerate.
// Results are dropped when upstream content changed or the user left the
// prompt and image steps.
func (c *Controller) CompleteImageBatch(t Ticket, images []generate.Image, genErr error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	current := c.finishLocked(t)
	if genErr != nil {
		logger.Warn("Image generation failed: %v", genErr)
		return fmt.Errorf("generating images: %w", genErr)
	}
	if !current {
		return nil
	}
	if c.step != StepPromptSelect && c.step != StepImageGenerate {
		logger.Debug("Discarding image batch: user left step (now %s)", c.step)
		return nil
	}
	if !t.snap.matches(c.liveSnapshotLocked()) {
		logger.Debug("Discarding image batch: upstream changed")
		return nil
	}
	if err := generate.ValidateImageBatch(images, t.snap.prompt); err != nil {
		return fmt.Errorf("invalid image batch: %w", err)
	}

	c.batchSeq++
	c.imageBatch = slices.Clone(images)
	c.selectedImage = ""
	c.snap = t.snap
	c.setStepLocked(StepImageGenerate)
	c.reconcileLocked()
	return nil
}

// GenerateImageBatch generates three images for prompt and moves to ImageGenerate.
func (c *Controller) GenerateImageBatch(ctx context.Context, prompt string) (err error) {
	t, prompt, err := c.BeginImageBatch(prompt)
	if err != nil {
		return err
	}
	var images []generate.Image
	genErr := errGenerationAborted
	defer func() { err = c.CompleteImageBatch(t, images, genErr) }()

	images, genErr = c.images.GenerateImages(ctx, prompt)
	return nil
}

// BeginRegenerateImage reserves the key for one image of the current batch.
func (c *Controller) BeginRegenerateImage(id string) (Ticket, generate.Image, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := slices.IndexFunc(c.imageBatch, func(img generate.Image) bool { return img.ID == id })
	if idx < 0 {
		return Ticket{}, generate.Image{}, fmt.Errorf("image %s: %w", id, ErrNotFound)
	}
	t, err := c.beginLocked(ImageKey(id))
	if err != nil {
		return Ticket{}, generate.Image{}, err
	}
	t.ref = id
	return t, c.imageBatch[idx], nil
}

// CompleteRegenerateImage swaps the URL of one image, leaving the others untouched.
func (c *Controller) CompleteRegenerateImage(t Ticket, img generate.Image, genErr error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	current := c.finishLocked(t)
	if genErr != nil {
		logger.Warn("Image regeneration for %s failed: %v", t.ref, genErr)
		return fmt.Errorf("regenerating image %s: %w", t.ref, genErr)
	}
	if !current || t.batch != c.batchSeq {
		return nil
	}
	idx := slices.IndexFunc(c.imageBatch, func(i generate.Image) bool { return i.ID == t.ref })
	if idx < 0 {
		return nil
	}
	c.imageBatch[idx].URL = img.URL
	return nil
}

// RegenerateImage replaces one image's URL. Unknown ids are a no-op.
func (c *Controller) RegenerateImage(ctx context.Context, id string) (err error) {
	t, img, err := c.BeginRegenerateImage(id)
	if errors.Is(err, ErrNotFound) {
		logger.Debug("RegenerateImage(%s): not in current batch", id)
		return nil
	}
	if err != nil {
		return err
	}
	var out generate.Image
	genErr := errGenerationAborted
	defer func() { err = c.CompleteRegenerateImage(t, out, genErr) }()

	out, genErr = c.images.RegenerateImage(ctx, img)
	return nil
}
