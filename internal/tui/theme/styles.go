package theme

import "charm.land/lipgloss/v2"

// Styles contains all pre-built lipgloss styles for the TUI.
type Styles struct {
	HeaderTitle lipgloss.Style
	HeaderMeta  lipgloss.Style

	// Step indicator
	StepCurrent     lipgloss.Style
	StepDone        lipgloss.Style
	StepReachable   lipgloss.Style
	StepUnreachable lipgloss.Style
	StepSeparator   lipgloss.Style

	// Hint bar
	HintKey       lipgloss.Style
	HintDesc      lipgloss.Style
	HintSeparator lipgloss.Style

	// Button bar
	ButtonNormal   lipgloss.Style
	ButtonDisabled lipgloss.Style
	ButtonFocused  lipgloss.Style

	// Lists and panels
	PanelTitle        lipgloss.Style
	PanelTitleFocused lipgloss.Style
	Item              lipgloss.Style
	ItemSelected      lipgloss.Style
	ItemMuted         lipgloss.Style
	Checked           lipgloss.Style
	Unchecked         lipgloss.Style
	Badge             lipgloss.Style
	Rationale         lipgloss.Style

	// Review cards
	Card        lipgloss.Style
	CardFocused lipgloss.Style
	StatusReady lipgloss.Style
	StatusDraft lipgloss.Style

	Issue   lipgloss.Style
	Error   lipgloss.Style
	Success lipgloss.Style
	Spinner lipgloss.Style

	ModalContainer lipgloss.Style
	ModalTitle     lipgloss.Style
	ModalWarn      lipgloss.Style

	DiffInsert lipgloss.Style
	DiffDelete lipgloss.Style
}
