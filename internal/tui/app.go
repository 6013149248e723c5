// Package tui is the interactive terminal front end of the post wizard.
// Views render controller state and send commands back to it; the only
// state they keep is widget state (cursors, focus, text buffers).
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/mark3labs/postgenie/internal/brand"
	"github.com/mark3labs/postgenie/internal/export"
	"github.com/mark3labs/postgenie/internal/generate"
	"github.com/mark3labs/postgenie/internal/logger"
	"github.com/mark3labs/postgenie/internal/state"
	"github.com/mark3labs/postgenie/internal/tui/theme"
	"github.com/mark3labs/postgenie/internal/wizard"
)

const defaultToastTTL = 4 * time.Second

// Option configures the App.
type Option func(*App)

// WithSinks enables CSV export and publishing.
func WithSinks(s *export.Sinks) Option {
	return func(a *App) { a.sinks = s }
}

// WithBrand sets the brand shown in the header.
func WithBrand(p *brand.Profile) Option {
	return func(a *App) { a.brand = p }
}

// WithToastTTL sets how long status messages stay visible. Zero keeps them
// until the next message.
func WithToastTTL(d time.Duration) Option {
	return func(a *App) { a.toastTTL = d }
}

// WithStateDir persists display preferences under dir.
func WithStateDir(dir string) Option {
	return func(a *App) { a.stateDir = dir }
}

// App is the root BubbleTea model.
type App struct {
	ctx      context.Context
	wizard   *wizard.Controller
	provider generate.Provider
	sinks    *export.Sinks
	brand    *brand.Profile
	stateDir string

	width  int
	height int

	spinner  spinner.Model
	spinning bool

	modal    Modal
	toast    string
	toastErr bool
	toastID  int
	toastTTL time.Duration

	lastStep wizard.Step
	input    *inputStep
	text     *textStep
	prompt   *promptStep
	images   *imageStep
	review   *reviewStep
}

// New creates the App for a controller. provider must be the same backend
// the controller was built with.
func New(ctx context.Context, c *wizard.Controller, provider generate.Provider, opts ...Option) *App {
	a := &App{
		ctx:      ctx,
		wizard:   c,
		provider: provider,
		brand:    brand.Default(),
		width:    100,
		height:   32,
		toastTTL: defaultToastTTL,
		spinner: spinner.New(
			spinner.WithSpinner(spinner.MiniDot),
			spinner.WithStyle(theme.Current().S().Spinner),
		),
		input:  newInputStep(),
		text:   newTextStep(),
		prompt: newPromptStep(),
		images: &imageStep{},
		review: newReviewStep(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.brand == nil {
		a.brand = brand.Default()
	}
	if a.stateDir != "" {
		a.text.showDiff = state.Load(a.stateDir).Diff.Visible
	}
	a.lastStep = c.State().Step
	a.layout()
	a.sync()
	return a
}

// Run starts the TUI and blocks until the user quits.
func Run(ctx context.Context, a *App) error {
	p := tea.NewProgram(a, tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("tui failed: %w", err)
	}
	return nil
}

// Init focuses the source editor.
func (a *App) Init() tea.Cmd {
	return a.input.focus(0)
}

// Update handles messages for the app.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.layout()
		return a, nil

	case spinner.TickMsg:
		if !a.spinning {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		if len(a.wizard.State().Pending) == 0 {
			a.spinning = false
			return a, nil
		}
		return a, cmd

	case toastExpiredMsg:
		if msg.id == a.toastID {
			a.toast = ""
		}
		return a, nil

	case PostsGeneratedMsg, TextRegeneratedMsg, PromptsGeneratedMsg, ImagesGeneratedMsg, ImageRegeneratedMsg:
		if err := a.applyResult(msg); err != nil {
			cmds = append(cmds, a.notifyErr(err))
		}

	case EditorDoneMsg:
		cmds = append(cmds, a.applyEdit(msg))

	case ExportDoneMsg:
		cmds = append(cmds, a.handleExportDone(msg))

	case tea.KeyPressMsg:
		cmds = append(cmds, a.handleKey(msg))

	case tea.PasteMsg:
		if !a.modal.IsVisible() {
			cmds = append(cmds, a.handlePaste(msg))
		}

	default:
		cmds = append(cmds, a.forward(msg))
	}

	cmds = append(cmds, a.sync(), a.ensureSpinner())
	return a, tea.Batch(cmds...)
}

// handleKey routes a key press: modal first, then global keys, then the
// current step.
func (a *App) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	key := msg.String()

	if a.modal.IsVisible() {
		switch key {
		case "y", "Y", "enter":
			a.modal.Hide()
			a.wizard.Reset()
			return a.notify("Started a new set")
		case "n", "N", "esc":
			a.modal.Hide()
		case "ctrl+c":
			return tea.Quit
		}
		return nil
	}

	switch key {
	case "ctrl+c":
		return tea.Quit
	case "ctrl+n":
		return a.primaryAction()
	case "ctrl+b":
		a.wizard.Back()
		return nil
	case "ctrl+r":
		a.modal.Show(ModalNewSet, "Run a New Set",
			"This discards the source content, posts, prompts, images and approvals.")
		return nil
	case "alt+1", "alt+2", "alt+3", "alt+4", "alt+5":
		step := wizard.Step(key[len(key)-1] - '1')
		if !a.wizard.JumpTo(step) {
			return a.notifyErr(fmt.Errorf("%s is not reachable yet", step))
		}
		return nil
	}

	switch a.wizard.State().Step {
	case wizard.StepInput:
		return a.updateInput(msg)
	case wizard.StepTextOptions:
		return a.updateText(msg)
	case wizard.StepPromptSelect:
		return a.updatePrompt(msg)
	case wizard.StepImageGenerate:
		return a.updateImages(msg)
	default:
		return a.updateReview(msg)
	}
}

// forward passes other messages (cursor blink, mouse) to the focused widget.
func (a *App) forward(msg tea.Msg) tea.Cmd {
	switch a.wizard.State().Step {
	case wizard.StepInput:
		return a.input.forward(msg)
	case wizard.StepTextOptions:
		return a.text.forward(msg)
	case wizard.StepPromptSelect:
		return a.prompt.forward(msg)
	case wizard.StepReview:
		var cmd tea.Cmd
		a.review.viewport, cmd = a.review.viewport.Update(msg)
		return cmd
	}
	return nil
}

// primaryAction runs the step's main button.
func (a *App) primaryAction() tea.Cmd {
	st := a.wizard.State()
	switch st.Step {
	case wizard.StepInput:
		cmd, err := a.startGeneratePosts()
		if err != nil {
			return a.notifyErr(err)
		}
		return cmd
	case wizard.StepPromptSelect:
		cmd, err := a.startImageBatch(st.WorkingPrompt)
		if err != nil {
			return a.notifyErr(err)
		}
		return cmd
	case wizard.StepReview:
		return a.exportCmd(false)
	}
	if err := a.wizard.AdvanceBlocker(); err != nil {
		return a.notifyErr(err)
	}
	a.wizard.Advance()
	return nil
}

// sync reconciles widget state with the controller after every update and
// handles step entry.
func (a *App) sync() tea.Cmd {
	st := a.wizard.State()
	var cmd tea.Cmd
	if st.Step != a.lastStep {
		logger.Debug("TUI entered %s", st.Step)
		a.lastStep = st.Step
		cmd = a.enterStep(st.Step)
	}
	a.input.sync(st)
	a.text.sync(st)
	a.prompt.sync(st)
	a.images.sync(st)
	a.review.sync(st, a.contentWidth())
	return cmd
}

func (a *App) enterStep(step wizard.Step) tea.Cmd {
	switch step {
	case wizard.StepInput:
		return a.input.focus(0)
	case wizard.StepTextOptions:
		return a.text.focus(0)
	case wizard.StepPromptSelect:
		focus := a.prompt.focus(0)
		if !a.wizard.NeedsPromptBatch() {
			return focus
		}
		gen, err := a.startPromptBatch()
		if err != nil {
			return tea.Batch(focus, a.notifyErr(err))
		}
		return tea.Batch(focus, gen)
	case wizard.StepReview:
		a.review.cursor = 0
		a.review.viewport.GotoTop()
	}
	return nil
}

// ensureSpinner starts the spinner when a generation call is in flight.
func (a *App) ensureSpinner() tea.Cmd {
	if a.spinning || len(a.wizard.State().Pending) == 0 {
		return nil
	}
	a.spinning = true
	return a.spinner.Tick
}

func (a *App) handleExportDone(msg ExportDoneMsg) tea.Cmd {
	if msg.Err != nil {
		if msg.Publish {
			return a.notifyErr(fmt.Errorf("publish failed: %w", msg.Err))
		}
		return a.notifyErr(fmt.Errorf("export failed: %w", msg.Err))
	}
	if msg.Publish {
		return a.notify(fmt.Sprintf("Sent %d post(s) to the publisher", msg.Result.Count))
	}
	body := fmt.Sprintf("Exported %d post(s) to %s.", msg.Result.Count, msg.Result.File)
	if out := strings.TrimSpace(msg.Result.HookOutput); out != "" {
		body += "\n\n" + out
	}
	body += "\n\nRun a new set of posts?"
	a.modal.Show(ModalExported, "Export Complete", body)
	return nil
}

func (a *App) applyEdit(msg EditorDoneMsg) tea.Cmd {
	if msg.Err != nil {
		return a.notifyErr(msg.Err)
	}
	if msg.Target.Source {
		a.wizard.SetSource(msg.Content)
		return nil
	}
	if err := a.wizard.SetPostField(msg.Target.Platform, wizard.FieldText, msg.Content); err != nil {
		return a.notifyErr(err)
	}
	return nil
}

// savePrefs stores display preferences when a state dir is configured.
func (a *App) savePrefs() {
	if a.stateDir == "" {
		return
	}
	prefs := &state.UIState{Diff: state.DiffState{Visible: a.text.showDiff}}
	if err := state.Save(a.stateDir, prefs); err != nil {
		logger.Warn("Failed to save UI state: %v", err)
	}
}

// notify shows a status message.
func (a *App) notify(text string) tea.Cmd {
	a.toast = text
	a.toastErr = false
	return a.expireToast()
}

// notifyErr shows an error message. Busy refusals are expected when keys
// repeat and are only logged.
func (a *App) notifyErr(err error) tea.Cmd {
	if errors.Is(err, wizard.ErrBusy) {
		logger.Debug("Ignored: %v", err)
		return nil
	}
	logger.Warn("TUI: %v", err)
	a.toast = err.Error()
	a.toastErr = true
	return a.expireToast()
}

func (a *App) expireToast() tea.Cmd {
	a.toastID++
	if a.toastTTL <= 0 {
		return nil
	}
	id := a.toastID
	return tea.Tick(a.toastTTL, func(time.Time) tea.Msg { return toastExpiredMsg{id: id} })
}

// contentWidth is the width available to step bodies.
func (a *App) contentWidth() int {
	return max(40, a.width-4)
}

// bodyHeight is the height available to step bodies.
func (a *App) bodyHeight() int {
	// header, indicator, checklist, blank, blank, status, buttons, hints
	return max(6, a.height-8)
}

func (a *App) layout() {
	w, h := a.contentWidth(), a.bodyHeight()
	a.input.setSize(w, h)
	a.text.setSize(w, h)
	a.prompt.setSize(w, h)
	a.review.setSize(w, h)
}

// View renders the app.
func (a *App) View() tea.View {
	var view tea.View
	view.AltScreen = true

	canvas := uv.NewScreenBuffer(a.width, a.height)
	uv.NewStyledString(a.render()).Draw(canvas, uv.Rectangle{
		Min: uv.Position{X: 0, Y: 0},
		Max: uv.Position{X: a.width, Y: a.height},
	})
	view.Content = lipgloss.NewLayer(canvas.Render())
	return view
}

// render builds the full screen as a string.
func (a *App) render() string {
	if a.modal.IsVisible() {
		return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, a.modal.Render(a.width-10))
	}

	s := theme.Current().S()
	st := a.wizard.State()
	w := a.contentWidth()

	title := s.HeaderTitle.Render("Social Media Post Genie")
	if a.brand != nil && a.brand.Name != "" {
		title += "  " + s.HeaderMeta.Render(a.brand.Name)
	}

	var body string
	var buttons []Button
	var hints string
	switch st.Step {
	case wizard.StepInput:
		body, hints = a.input.view(st, a), a.input.hints()
		buttons = navButtons(false, "Generate Posts", a.wizard.CanAdvance() && !st.IsPending(wizard.KeyPosts))
	case wizard.StepTextOptions:
		body, hints = a.text.view(st, a), a.text.hints()
		buttons = navButtons(true, "Next →", a.wizard.CanAdvance())
	case wizard.StepPromptSelect:
		body, hints = a.prompt.view(st, a), a.prompt.hints()
		buttons = navButtons(true, "Generate Images", a.wizard.CanGenerateImages(st.WorkingPrompt))
	case wizard.StepImageGenerate:
		body, hints = a.images.view(st, a), a.images.hints()
		buttons = navButtons(true, "Next →", a.wizard.CanAdvance())
	default:
		body, hints = a.review.view(), a.review.hints(a.sinks != nil && a.sinks.Outbox != nil)
		buttons = navButtons(true, "Export CSV", len(a.wizard.ExportReadyPosts()) > 0)
	}
	bar := NewButtonBar(buttons)
	bar.SetWidth(w)

	status := ""
	if a.toast != "" {
		if a.toastErr {
			status = s.Error.Render("✗ " + a.toast)
		} else {
			status = s.Success.Render("✓ " + a.toast)
		}
	} else if len(st.Pending) > 0 {
		status = a.spinner.View() + " " + s.ItemMuted.Render("Generating "+strings.Join(st.Pending, ", ")+"…")
	}

	body = lipgloss.NewStyle().Width(w).Height(a.bodyHeight()).MaxHeight(a.bodyHeight()).Render(body)
	content := lipgloss.JoinVertical(lipgloss.Left,
		title,
		renderIndicator(a.wizard.Indicator()),
		renderChecklist(a.wizard.Checklist()),
		"",
		body,
		status,
		bar.Render(),
		hints+"  "+HintGlobal(),
	)
	return lipgloss.NewStyle().Padding(0, 2).Render(content)
}

// spinnerFor renders the spinner when key is in flight.
func (a *App) spinnerFor(st wizard.State, key string) string {
	if st.IsPending(key) {
		return a.spinner.View() + " "
	}
	return ""
}
