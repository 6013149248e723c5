package tui

import (
	"charm.land/lipgloss/v2"
	"github.com/mark3labs/postgenie/internal/tui/theme"
)

// ModalKind selects what a modal confirms.
type ModalKind int

const (
	ModalNone     ModalKind = iota
	ModalNewSet             // Confirm discarding everything
	ModalExported           // Export succeeded; offer a new set
)

// Modal is a centered confirmation dialog answered with y / n.
type Modal struct {
	kind    ModalKind
	title   string
	message string
}

// Show displays the modal.
func (m *Modal) Show(kind ModalKind, title, message string) {
	m.kind = kind
	m.title = title
	m.message = message
}

// Hide dismisses the modal.
func (m *Modal) Hide() {
	m.kind = ModalNone
}

// Kind returns what the visible modal confirms, or ModalNone.
func (m *Modal) Kind() ModalKind {
	return m.kind
}

// IsVisible reports whether the modal is shown.
func (m *Modal) IsVisible() bool {
	return m.kind != ModalNone
}

// Render renders the modal box.
func (m *Modal) Render(width int) string {
	s := theme.Current().S()

	title := s.ModalTitle.Render(m.title)
	if m.kind == ModalNewSet {
		title = s.ModalWarn.Render("⚠ " + m.title)
	}
	if width > 60 {
		width = 60
	}
	if width < 30 {
		width = 30
	}
	content := lipgloss.JoinVertical(lipgloss.Left,
		title,
		"",
		lipgloss.NewStyle().Width(width-6).Render(m.message),
		"",
		HintModal(),
	)
	return s.ModalContainer.Width(width).Render(content)
}
