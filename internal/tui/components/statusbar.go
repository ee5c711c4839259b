// ABOUTME: StatusBar component showing connection state, the signed-in user and layout mode
// ABOUTME: Renders an indeterminate progress bar while the resume list is loading
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/harper/resumedeck/internal/tui/theme"
)

type StatusBar struct {
	width            int
	theme            theme.Theme
	connectionStatus string
	userLabel        string
	mode             string
	customStatus     string
	progressVisible  bool
	progressValue    float64
}

func NewStatusBar(width int, t theme.Theme) *StatusBar {
	return &StatusBar{
		width:            width,
		theme:            t,
		connectionStatus: "disconnected",
	}
}

func (s *StatusBar) SetConnectionStatus(status string) {
	s.connectionStatus = status
}

func (s *StatusBar) ConnectionStatus() string {
	return s.connectionStatus
}

// SetUser sets the label for the signed-in user; empty means signed out.
func (s *StatusBar) SetUser(label string) {
	s.userLabel = label
}

func (s *StatusBar) SetMode(mode string) {
	s.mode = mode
}

// SetStatus shows a transient message such as "Uploading...".
func (s *StatusBar) SetStatus(status string) {
	s.customStatus = status
}

func (s *StatusBar) SetSize(width int) {
	s.width = width
}

func (s *StatusBar) ShowProgress() {
	if !s.progressVisible {
		s.progressValue = 0
	}
	s.progressVisible = true
}

func (s *StatusBar) HideProgress() {
	s.progressVisible = false
}

func (s *StatusBar) ProgressVisible() bool {
	return s.progressVisible
}

func (s *StatusBar) AdvanceProgress(amount float64) {
	s.progressValue += amount
	if s.progressValue >= 100.0 {
		s.progressValue = float64(int(s.progressValue) % 100)
	}
}

func (s *StatusBar) View() string {
	left := fmt.Sprintf("%s %s", s.formatConnectionStatus(), s.formatUserInfo())
	if s.mode != "" {
		left += " · " + s.mode
	}
	shortcuts := "Tab: Focus, ?: Help, q: Quit"

	line := s.theme.StatusBarStyle().
		Width(s.width).
		Render(s.buildStatusLine(left, shortcuts))

	if s.progressVisible {
		return line + "\n" + s.renderProgressBar()
	}
	return line
}

// Height is the number of rows View occupies.
func (s *StatusBar) Height() int {
	if s.progressVisible {
		return 2
	}
	return 1
}

func (s *StatusBar) formatConnectionStatus() string {
	var icon, text string
	switch s.connectionStatus {
	case "connected":
		icon, text = "🟢", "Connected"
	case "connecting":
		icon, text = "🟡", "Connecting"
	default:
		icon, text = "🔴", "Disconnected"
	}
	return fmt.Sprintf("[%s %s]", icon, text)
}

func (s *StatusBar) formatUserInfo() string {
	switch {
	case s.customStatus != "":
		return s.customStatus
	case s.userLabel != "":
		return "Signed in as " + s.userLabel
	default:
		return "Not signed in"
	}
}

func (s *StatusBar) buildStatusLine(left, right string) string {
	// 2 for the style padding, 2 for the separator
	padding := s.width - lipgloss.Width(left) - lipgloss.Width(right) - 4
	if padding < 1 {
		padding = 1
	}
	return left + strings.Repeat(" ", padding) + "| " + right
}

func (s *StatusBar) renderProgressBar() string {
	const barWidth = 40
	filled := int((s.progressValue / 100.0) * float64(barWidth))
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
	return lipgloss.NewStyle().Foreground(s.theme.Primary).Render(bar)
}
