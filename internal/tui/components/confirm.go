// ABOUTME: Confirmation dialog for destructive sidebar actions
// ABOUTME: Records the user's answer so the synchronizer's confirm gate can consume it
package components

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harper/resumedeck/internal/tui/theme"
)

// ConfirmResultMsg reports the answer for Target.
type ConfirmResultMsg struct {
	Target    string
	Confirmed bool
}

// ConfirmDialog asks a yes/no question without blocking the event loop.
// The answer is held until Confirm consumes it.
type ConfirmDialog struct {
	width  int
	height int
	theme  theme.Theme

	visible bool
	prompt  string
	target  string

	mu       sync.Mutex
	approved map[string]bool
}

func NewConfirmDialog(width, height int, th theme.Theme) *ConfirmDialog {
	return &ConfirmDialog{width: width, height: height, theme: th, approved: make(map[string]bool)}
}

func (d *ConfirmDialog) SetSize(width, height int) {
	d.width = width
	d.height = height
}

// Ask shows prompt about target.
func (d *ConfirmDialog) Ask(prompt, target string) {
	d.prompt = prompt
	d.target = target
	d.visible = true
}

func (d *ConfirmDialog) IsVisible() bool {
	return d.visible
}

func (d *ConfirmDialog) answer(yes bool) tea.Cmd {
	d.visible = false
	d.mu.Lock()
	if yes {
		d.approved[d.target] = true
	} else {
		delete(d.approved, d.target)
	}
	d.mu.Unlock()
	msg := ConfirmResultMsg{Target: d.target, Confirmed: yes}
	return func() tea.Msg { return msg }
}

// Confirm consumes a recorded approval for target. Without one it declines.
func (d *ConfirmDialog) Confirm(_ context.Context, _ string, target string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	ok := d.approved[target]
	delete(d.approved, target)
	return ok
}

func (d *ConfirmDialog) Update(msg tea.Msg) tea.Cmd {
	if !d.visible {
		return nil
	}
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	switch key.String() {
	case "y", "Y", "enter":
		return d.answer(true)
	case "n", "N", "esc":
		return d.answer(false)
	}
	return nil
}

func (d *ConfirmDialog) View() string {
	if !d.visible {
		return ""
	}
	body := d.prompt + "\n\n" +
		d.theme.ErrorStyle().Render("[y] Delete") + "   " + d.theme.DimStyle().Render("[n] Cancel")
	w := 48
	if w > d.width-4 {
		w = d.width - 4
	}
	modal := d.theme.ModalStyle().Width(w).Render(body)
	return lipgloss.Place(d.width, d.height, lipgloss.Center, lipgloss.Center, modal)
}
