// Package wizard implements the post wizard state machine: step navigation,
// per-step artifacts, invalidation of downstream work when upstream content
// changes, and the approval gate for export.
package wizard

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/mark3labs/postgenie/internal/brand"
	"github.com/mark3labs/postgenie/internal/generate"
	"github.com/mark3labs/postgenie/internal/logger"
	"github.com/mark3labs/postgenie/internal/platform"
	"github.com/mark3labs/postgenie/internal/template"
)

var (
	ErrEmptySource       = errors.New("source content is empty")
	ErrNoPlatforms       = errors.New("no platforms selected")
	ErrEmptyPrompt       = errors.New("image prompt is empty")
	ErrNoImages          = errors.New("no images generated")
	ErrNoImageSelected   = errors.New("no image selected")
	ErrLastStep          = errors.New("already on the last step")
	ErrWrongStep         = errors.New("not available on the current step")
	ErrBusy              = errors.New("generation already in progress")
	ErrNotFound          = errors.New("not found")
	ErrUnknownField      = errors.New("unknown post field")
	errGenerationAborted = errors.New("generation aborted")
)

// Option configures a Controller.
type Option func(*Controller)

// WithClock overrides the clock used for export timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithBrand sets the brand profile used for text limits.
func WithBrand(p *brand.Profile) Option {
	return func(c *Controller) { c.brand = p }
}

// Controller owns the wizard state. All methods are safe for concurrent use;
// generation calls run outside the lock using Begin/Complete tickets.
type Controller struct {
	mu     sync.Mutex
	text   generate.TextGenerator
	images generate.ImageGenerator
	brand  *brand.Profile
	now    func() time.Time

	step    Step
	maxStep Step
	epoch   uint64

	source    string
	sourceRev uint64
	selected  []platform.ID
	posts     map[platform.ID]Post
	postGen   map[platform.ID]uint64 // Bumped when a platform is (re)added to the selection

	prompts        []generate.PromptCandidate
	promptsStale   bool
	upstreamRev    uint64 // Bumped on every change that invalidates prompts
	selectedPrompt string
	workingPrompt  string

	imageBatch    []generate.Image
	batchSeq      uint64
	selectedImage string
	snap          *snapshot

	approvals   map[platform.ID]bool
	reviewImage string

	pending map[string]uint64 // key -> epoch of the in-flight call
}

// New creates a controller in the initial state.
func New(text generate.TextGenerator, images generate.ImageGenerator, opts ...Option) *Controller {
	c := &Controller{
		text:   text,
		images: images,
		brand:  brand.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.resetLocked()
	return c
}

func (c *Controller) resetLocked() {
	c.step = StepInput
	c.maxStep = StepInput
	c.source = ""
	c.selected = nil
	c.posts = make(map[platform.ID]Post)
	c.postGen = make(map[platform.ID]uint64)
	c.prompts = nil
	c.promptsStale = false
	c.selectedPrompt = ""
	c.workingPrompt = ""
	c.imageBatch = nil
	c.selectedImage = ""
	c.snap = nil
	c.approvals = make(map[platform.ID]bool)
	c.reviewImage = ""
	c.pending = make(map[string]uint64)
}

// Reset returns every artifact to its initial state and invalidates
// in-flight generation calls.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.epoch++
	c.resetLocked()
	logger.Info("Wizard reset (epoch %d)", c.epoch)
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

func (c *Controller) stateLocked() State {
	st := State{
		Step:             c.step,
		MaxStep:          c.maxStep,
		Epoch:            c.epoch,
		Source:           c.source,
		Selected:         slices.Clone(c.selected),
		Posts:            copyPosts(c.posts),
		Prompts:          slices.Clone(c.prompts),
		SelectedPromptID: c.selectedPrompt,
		WorkingPrompt:    c.workingPrompt,
		Images:           slices.Clone(c.imageBatch),
		SelectedImageID:  c.selectedImage,
		Approvals:        make(map[platform.ID]bool, len(c.approvals)),
	}
	for id, ok := range c.approvals {
		if ok {
			st.Approvals[id] = true
		}
	}
	if c.step == StepReview {
		st.Cards = c.cardsLocked()
	}
	for key := range c.pending {
		st.Pending = append(st.Pending, key)
	}
	sort.Strings(st.Pending)
	return st
}

func (c *Controller) cardsLocked() []ReviewCard {
	cards := make([]ReviewCard, 0, len(c.selected))
	for _, id := range c.selected {
		p := c.posts[id]
		status := StatusDraft
		if c.approvals[id] {
			status = StatusReady
		}
		cards = append(cards, ReviewCard{
			Platform: id,
			Label:    platform.Label(id),
			Text:     p.Text,
			Hashtags: p.Hashtags,
			ImageURL: c.reviewImage,
			Status:   status,
		})
	}
	return cards
}

// Indicator returns the step indicator view.
func (c *Controller) Indicator() Indicator {
	c.mu.Lock()
	defer c.mu.Unlock()
	return buildIndicator(c.step, c.maxStep)
}

// AdvanceBlocker explains why Advance would be refused, or returns nil.
func (c *Controller) AdvanceBlocker() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.advanceBlockerLocked()
}

// CanAdvance reports whether Advance would succeed.
func (c *Controller) CanAdvance() bool {
	return c.AdvanceBlocker() == nil
}

func (c *Controller) advanceBlockerLocked() error {
	switch c.step {
	case StepInput:
		if strings.TrimSpace(c.source) == "" {
			return ErrEmptySource
		}
		if len(c.selected) == 0 {
			return ErrNoPlatforms
		}
	case StepPromptSelect:
		if len(c.imageBatch) == 0 {
			return ErrNoImages
		}
	case StepImageGenerate:
		if c.selectedImage == "" {
			return ErrNoImageSelected
		}
	case StepReview:
		return ErrLastStep
	}
	return nil
}

// Advance moves to the next step when the current step's gate is satisfied.
func (c *Controller) Advance() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.advanceBlockerLocked(); err != nil {
		logger.Debug("Advance refused on %s: %v", c.step, err)
		return false
	}
	c.setStepLocked(c.step + 1)
	c.reconcileLocked()
	return true
}

// JumpTo navigates to any step up to the furthest reached one.
func (c *Controller) JumpTo(s Step) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !s.Valid() || s > c.maxStep {
		logger.Debug("JumpTo(%d) refused: max step is %d", s, c.maxStep)
		return false
	}
	if s != c.step {
		c.setStepLocked(s)
		c.reconcileLocked()
	}
	return true
}

// Back moves one step backwards.
func (c *Controller) Back() bool {
	st := c.State()
	if st.Step == StepInput {
		return false
	}
	return c.JumpTo(st.Step - 1)
}

func (c *Controller) setStepLocked(to Step) {
	from := c.step
	c.step = to
	if to > c.maxStep {
		c.maxStep = to
	}

	if from == StepReview && to != StepReview {
		c.approvals = make(map[platform.ID]bool)
		c.reviewImage = ""
	}
	if to == StepReview && from != StepReview {
		c.approvals = make(map[platform.ID]bool)
		c.reviewImage = ""
		if img, ok := c.selectedImageLocked(); ok {
			c.reviewImage = img.URL
		}
	}
	if to == StepPromptSelect && (c.promptsStale || len(c.prompts) == 0) {
		c.prompts = nil
		c.selectedPrompt = ""
		c.workingPrompt = ""
		c.promptsStale = false
	}
	logger.Debug("Step %s -> %s (max %s)", from, to, c.maxStep)
}

// upstreamChangedLocked applies the invalidation rule after an upstream edit
// that actually changed a value.
func (c *Controller) upstreamChangedLocked(stalesPrompts bool) {
	if c.step < c.maxStep {
		logger.Debug("Upstream edit on %s clamps max step from %s", c.step, c.maxStep)
		c.maxStep = c.step
	}
	if stalesPrompts {
		c.promptsStale = true
		c.upstreamRev++
	}
}

func (c *Controller) liveSnapshotLocked() *snapshot {
	return &snapshot{
		source:   c.source,
		selected: slices.Clone(c.selected),
		posts:    copyPosts(c.posts),
		prompt:   c.workingPrompt,
	}
}

// reconcileLocked drops the image batch when it no longer matches upstream
// or the user is positioned before the image step.
func (c *Controller) reconcileLocked() {
	if c.imageBatch == nil && c.snap == nil {
		return
	}
	if c.step < StepImageGenerate || !c.snap.matches(c.liveSnapshotLocked()) {
		logger.Debug("Clearing image batch (step %s)", c.step)
		c.imageBatch = nil
		c.selectedImage = ""
		c.snap = nil
	}
}

func (c *Controller) selectedImageLocked() (generate.Image, bool) {
	for _, img := range c.imageBatch {
		if img.ID == c.selectedImage {
			return img, true
		}
	}
	return generate.Image{}, false
}

func (c *Controller) isSelectedLocked(id platform.ID) bool {
	return slices.Contains(c.selected, id)
}

// SetSource replaces the source content.
func (c *Controller) SetSource(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if text == c.source {
		return
	}
	c.source = text
	c.sourceRev++
	c.upstreamChangedLocked(true)
	c.reconcileLocked()
}

// SetSelection replaces the platform selection. Unknown ids are dropped.
func (c *Controller) SetSelection(ids []platform.ID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.applySelectionLocked(platform.Normalize(ids))
}

// TogglePlatform flips one platform in the selection.
func (c *Controller) TogglePlatform(id platform.ID) bool {
	if !platform.Valid(id) {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	next := slices.Clone(c.selected)
	if i := slices.Index(next, id); i >= 0 {
		next = slices.Delete(next, i, i+1)
	} else {
		next = platform.Normalize(append(next, id))
	}
	c.applySelectionLocked(next)
	return true
}

// ToggleAllPlatforms selects every platform, or clears the selection when all
// are already selected.
func (c *Controller) ToggleAllPlatforms() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.selected) == len(platform.IDs()) {
		c.applySelectionLocked(nil)
		return
	}
	c.applySelectionLocked(platform.IDs())
}

func (c *Controller) applySelectionLocked(next []platform.ID) {
	if len(next) == 0 {
		next = nil
	}
	if slices.Equal(next, c.selected) {
		return
	}
	posts := make(map[platform.ID]Post, len(next))
	for _, id := range next {
		if p, ok := c.posts[id]; ok {
			posts[id] = p
			continue
		}
		d := generate.Placeholder(id)
		posts[id] = Post{Text: d.Text, Hashtags: d.Hashtags}
		c.postGen[id]++
	}
	for id := range c.approvals {
		if !slices.Contains(next, id) {
			delete(c.approvals, id)
		}
	}
	c.posts = posts
	c.selected = next
	c.upstreamChangedLocked(true)
	c.reconcileLocked()
}

// SetPostField edits one field of a selected platform's post.
func (c *Controller) SetPostField(id platform.ID, field Field, value string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.posts[id]
	if !ok {
		return fmt.Errorf("platform %s: %w", id, ErrNotFound)
	}
	switch field {
	case FieldText:
		if p.Text == value {
			return nil
		}
		p.Text = value
	case FieldHashtags:
		if p.Hashtags == value {
			return nil
		}
		p.Hashtags = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	c.posts[id] = p
	c.upstreamChangedLocked(true)
	c.reconcileLocked()
	return nil
}

// SetWorkingPrompt edits the image prompt.
func (c *Controller) SetWorkingPrompt(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setWorkingPromptLocked(text)
	c.reconcileLocked()
}

func (c *Controller) setWorkingPromptLocked(text string) {
	if text == c.workingPrompt {
		return
	}
	c.workingPrompt = text
	c.upstreamChangedLocked(false)
}

// SelectPrompt selects a prompt candidate and copies its text into the working prompt.
func (c *Controller) SelectPrompt(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, cand := range c.prompts {
		if cand.ID == id {
			c.selectedPrompt = id
			c.setWorkingPromptLocked(cand.Text)
			c.reconcileLocked()
			return true
		}
	}
	return false
}

// SelectImage selects an image of the current batch. Unknown ids are ignored.
func (c *Controller) SelectImage(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, img := range c.imageBatch {
		if img.ID == id {
			c.selectedImage = id
			return true
		}
	}
	return false
}

// SetApproval marks a platform ready or draft on the Review step.
func (c *Controller) SetApproval(id platform.ID, ready bool) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.step != StepReview || !c.isSelectedLocked(id) {
		return false
	}
	c.approvals[id] = ready
	return true
}

// ToggleApproval flips a platform's approval on the Review step.
func (c *Controller) ToggleApproval(id platform.ID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.step != StepReview || !c.isSelectedLocked(id) {
		return false
	}
	c.approvals[id] = !c.approvals[id]
	return true
}

// ExportReadyPosts returns approved posts in registry order. The result is
// empty, never nil, when nothing is approved.
func (c *Controller) ExportReadyPosts() []ExportRow {
	c.mu.Lock()
	defer c.mu.Unlock()

	rows := []ExportRow{}
	ts := c.now()
	for _, id := range platform.IDs() {
		if !c.isSelectedLocked(id) || !c.approvals[id] {
			continue
		}
		p := c.posts[id]
		rows = append(rows, ExportRow{
			Platform:  id,
			Text:      p.Text,
			Hashtags:  p.Hashtags,
			ImageURL:  c.reviewImage,
			Status:    StatusReady,
			Timestamp: ts,
		})
	}
	return rows
}

// NeedsPromptBatch reports whether the prompt step is waiting for candidates.
func (c *Controller) NeedsPromptBatch() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, busy := c.pending[KeyPrompts]
	return c.step == StepPromptSelect && len(c.prompts) == 0 && !busy
}

// CanGenerateImages reports whether an image batch may be requested for prompt.
func (c *Controller) CanGenerateImages(prompt string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, busy := c.pending[KeyImages]
	return strings.TrimSpace(prompt) != "" && !busy &&
		(c.step == StepPromptSelect || c.step == StepImageGenerate)
}

// ChecklistItem is one line of the per-step checklist.
type ChecklistItem struct {
	Label    string
	Checked  bool
	Optional bool
}

// Checklist returns the current step's checklist.
func (c *Controller) Checklist() []ChecklistItem {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.step {
	case StepInput:
		return []ChecklistItem{
			{Label: "Input Content", Checked: strings.TrimSpace(c.source) != ""},
			{Label: "Select Platforms", Checked: len(c.selected) > 0},
		}
	case StepTextOptions:
		return []ChecklistItem{
			{Label: "Edit Text", Checked: true, Optional: true},
			{Label: "Edit Hashtags", Checked: true, Optional: true},
		}
	case StepPromptSelect:
		return []ChecklistItem{
			{Label: "Select Prompt", Checked: c.selectedPrompt != ""},
			{Label: "Edit Prompt", Checked: true, Optional: true},
		}
	case StepImageGenerate:
		return []ChecklistItem{
			{Label: "Select Image", Checked: c.selectedImage != ""},
		}
	default:
		label := "Approve Post"
		if len(c.selected) > 1 {
			label = "Approve Posts"
		}
		all := len(c.selected) > 0
		for _, id := range c.selected {
			if !c.approvals[id] {
				all = false
			}
		}
		return []ChecklistItem{
			{Label: "Edit Post", Checked: true, Optional: true},
			{Label: label, Checked: all},
		}
	}
}

// PostIssues lists limit violations for a platform's post. They are
// informational and never block navigation.
func (c *Controller) PostIssues(id platform.ID) []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	p, ok := c.posts[id]
	if !ok {
		return nil
	}
	info, _ := platform.Lookup(id)
	var issues []string
	if strings.TrimSpace(p.Text) == "" {
		issues = append(issues, "Post text is empty")
	}
	if limit := c.brand.TextLimit(id); limit > 0 {
		if n := utf8.RuneCountInString(p.Text); n > limit {
			issues = append(issues, fmt.Sprintf("Text is %d characters; %s allows %d", n, info.Label, limit))
		}
	}
	if n := template.CountHashtags(p.Hashtags); n > info.HashtagLimit {
		issues = append(issues, fmt.Sprintf("%d hashtags; %s allows %d", n, info.Label, info.HashtagLimit))
	}
	return issues
}
