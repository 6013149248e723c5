package theme

import (
	"sync"

	"charm.land/lipgloss/v2"
)

// Theme defines the color palette for the TUI.
type Theme struct {
	Name   string
	IsDark bool

	// Semantic colors
	Primary   string // lipgloss.Color takes a hex string
	Secondary string
	Tertiary  string

	// Background hierarchy (dark→light)
	BgBase     string
	BgMantle   string
	BgSurface0 string
	BgSurface1 string
	BgSurface2 string
	BgOverlay  string

	// Foreground hierarchy (dim→bright)
	FgMuted  string
	FgSubtle string
	FgBase   string
	FgBright string

	// Status colors
	Success string
	Warning string
	Error   string
	Info    string

	// Diff colors
	DiffInsertBg string
	DiffDeleteBg string

	// Lazy-built styles
	styles     *Styles
	stylesOnce sync.Once
}

var (
	currentMu sync.RWMutex
	current   = NewCatppuccinMocha()
)

// Current returns the active theme.
func Current() *Theme {
	currentMu.RLock()
	defer currentMu.RUnlock()
	return current
}

// SetCurrent replaces the active theme.
func SetCurrent(t *Theme) {
	currentMu.Lock()
	defer currentMu.Unlock()
	current = t
}

// S returns the pre-built styles for this theme.
// Styles are lazily initialized on first call.
func (t *Theme) S() *Styles {
	t.stylesOnce.Do(func() {
		t.styles = t.buildStyles()
	})
	return t.styles
}

func (t *Theme) c(hex string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(hex))
}

// buildStyles constructs the pre-built styles from theme colors.
func (t *Theme) buildStyles() *Styles {
	button := lipgloss.NewStyle().Padding(0, 2).MarginLeft(1).MarginRight(1)
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(t.BgSurface2)).
		Padding(0, 1)

	return &Styles{
		HeaderTitle: t.c(t.Primary).Bold(true),
		HeaderMeta:  t.c(t.FgSubtle),

		StepCurrent:     lipgloss.NewStyle().Foreground(lipgloss.Color(t.BgBase)).Background(lipgloss.Color(t.Primary)).Bold(true).Padding(0, 1),
		StepDone:        t.c(t.Success).Padding(0, 1),
		StepReachable:   t.c(t.FgBase).Padding(0, 1),
		StepUnreachable: t.c(t.FgMuted).Padding(0, 1),
		StepSeparator:   t.c(t.BgSurface2),

		HintKey:       t.c(t.FgSubtle).Bold(true),
		HintDesc:      t.c(t.FgMuted),
		HintSeparator: t.c(t.BgSurface2),

		ButtonNormal:   button.Foreground(lipgloss.Color(t.FgBase)).Background(lipgloss.Color(t.BgSurface0)),
		ButtonDisabled: button.Foreground(lipgloss.Color(t.FgMuted)).Background(lipgloss.Color(t.BgMantle)),
		ButtonFocused:  button.Foreground(lipgloss.Color(t.BgBase)).Background(lipgloss.Color(t.Tertiary)).Bold(true),

		PanelTitle:        t.c(t.FgSubtle).Bold(true),
		PanelTitleFocused: t.c(t.Primary).Bold(true),
		Item:              t.c(t.FgBase),
		ItemSelected:      t.c(t.Primary).Bold(true),
		ItemMuted:         t.c(t.FgMuted),
		Checked:           t.c(t.Success),
		Unchecked:         t.c(t.FgMuted),
		Badge:             t.c(t.Warning).Bold(true),
		Rationale:         t.c(t.Info).Italic(true),

		Card:        card,
		CardFocused: card.BorderForeground(lipgloss.Color(t.Primary)),
		StatusReady: t.c(t.Success).Bold(true),
		StatusDraft: t.c(t.Warning),

		Issue:   t.c(t.Warning),
		Error:   t.c(t.Error).Bold(true),
		Success: t.c(t.Success),
		Spinner: t.c(t.Primary),

		ModalContainer: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.Tertiary)).
			Background(lipgloss.Color(t.BgBase)).
			Padding(1, 2),
		ModalTitle: t.c(t.Primary).Bold(true),
		ModalWarn:  t.c(t.Warning).Bold(true),

		DiffInsert: lipgloss.NewStyle().Background(lipgloss.Color(t.DiffInsertBg)),
		DiffDelete: lipgloss.NewStyle().Background(lipgloss.Color(t.DiffDeleteBg)),
	}
}
