// ABOUTME: HelpOverlay component for displaying keyboard shortcuts
// ABOUTME: Builds its list from the configured keybindings and renders a centered modal
package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/harper/resumedeck/internal/tui/config"
	"github.com/harper/resumedeck/internal/tui/theme"
)

// Shortcut represents a keyboard shortcut with its description
type Shortcut struct {
	Key         string
	Description string
}

// ShortcutsFor lists the shortcuts for kb plus the fixed navigation keys.
func ShortcutsFor(kb config.KeybindingsConfig) []Shortcut {
	return []Shortcut{
		{"Tab", "Switch focus between sidebar and page"},
		{"↑/↓", "Move the sidebar cursor"},
		{"Enter", "Open link / toggle section / upload"},
		{"Esc", "Close the overlay or dialog"},
		{kb.ToggleSidebar, "Collapse or expand the sidebar (desktop)"},
		{kb.ToggleOverlay, "Show or hide the sidebar (mobile)"},
		{kb.ResumeSection, "Toggle My Resumes"},
		{kb.SetPrimary, "Set resume as primary"},
		{kb.DeleteResume, "Delete resume"},
		{kb.OpenResume, "Download resume"},
		{kb.Upload, "Upload a resume"},
		{kb.Refresh, "Reload resumes"},
		{kb.SignInOut, "Sign in / sign out"},
		{kb.Help, "Toggle help"},
		{kb.Quit, "Quit"},
	}
}

// HelpOverlay displays a modal overlay with keyboard shortcuts
type HelpOverlay struct {
	width     int
	height    int
	theme     theme.Theme
	visible   bool
	shortcuts []Shortcut
}

func NewHelpOverlay(width, height int, t theme.Theme, shortcuts []Shortcut) *HelpOverlay {
	return &HelpOverlay{
		width:     width,
		height:    height,
		theme:     t,
		shortcuts: shortcuts,
	}
}

func (h *HelpOverlay) Show() {
	h.visible = true
}

func (h *HelpOverlay) Hide() {
	h.visible = false
}

func (h *HelpOverlay) IsVisible() bool {
	return h.visible
}

func (h *HelpOverlay) Toggle() {
	h.visible = !h.visible
}

func (h *HelpOverlay) SetSize(width, height int) {
	h.width = width
	h.height = height
}

func (h *HelpOverlay) View() string {
	if !h.visible {
		return ""
	}

	var content strings.Builder
	title := lipgloss.NewStyle().Bold(true).Foreground(h.theme.Primary)
	content.WriteString(title.Render("Keyboard Shortcuts"))
	content.WriteString("\n\n")

	maxKeyLen := 0
	for _, sc := range h.shortcuts {
		if w := lipgloss.Width(sc.Key); w > maxKeyLen {
			maxKeyLen = w
		}
	}

	keyStyle := lipgloss.NewStyle().Foreground(h.theme.Success).Bold(true).Width(maxKeyLen)
	descStyle := lipgloss.NewStyle().Foreground(h.theme.Foreground)
	for _, sc := range h.shortcuts {
		content.WriteString("  ")
		content.WriteString(keyStyle.Render(sc.Key))
		content.WriteString("  ")
		content.WriteString(descStyle.Render(sc.Description))
		content.WriteString("\n")
	}

	modalWidth := 56
	if modalWidth > h.width-4 {
		modalWidth = h.width - 4
	}
	modal := h.theme.ModalStyle().Width(modalWidth).Render(strings.TrimRight(content.String(), "\n"))
	return lipgloss.Place(h.width, h.height, lipgloss.Center, lipgloss.Center, modal)
}
