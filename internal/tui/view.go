// ABOUTME: View rendering for the TUI (converts model state to terminal output)
// ABOUTME: Lays out sidebar, page pane and status bar, then stacks modals and toasts on top
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/harper/resumedeck/internal/tui/client"
	"github.com/harper/resumedeck/internal/tui/components"
	"github.com/harper/resumedeck/internal/tui/panel"
)

var pageText = map[string]string{
	"/resume/optimize": "Upload a resume together with a job description to get it scored against the role. " +
		"Press %s to start an upload.",
	"/interview-prep": "Practice questions tailored to your primary resume.",
	"/cover-letter":   "Draft a cover letter from your primary resume and a job description.",
	"/community":      "Share resumes and feedback with other job seekers.",
}

func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	state := m.controller.Machine().State()
	height := m.mainHeight()

	var body string
	switch {
	case state.IsMobileViewport && state.IsOverlayVisible:
		// The overlay covers the page; esc dismisses it like a backdrop click.
		body = lipgloss.Place(m.width, height, lipgloss.Left, lipgloss.Top, m.sidebar.View())
	case state.PanelShown():
		sidebarWidth := m.sidebar.Width()
		body = lipgloss.JoinHorizontal(lipgloss.Top,
			m.sidebar.View(),
			m.pageView(m.width-sidebarWidth, height, state),
		)
	default:
		body = m.pageView(m.width, height, state)
	}

	fullView := lipgloss.JoinVertical(lipgloss.Left, body, m.statusBar.View())

	switch {
	case m.helpOverlay.IsVisible():
		return m.helpOverlay.View()
	case m.confirm.IsVisible():
		return m.confirm.View()
	case m.uploadForm.IsVisible():
		return m.uploadForm.View()
	}

	if toasts := m.notifications.View(); toasts != "" {
		fullView = lipgloss.Place(m.width, lipgloss.Height(toasts), lipgloss.Right, lipgloss.Top, toasts) +
			"\n" + fullView
	}
	return fullView
}

// pageView renders the page behind the current path.
func (m Model) pageView(width, height int, state panel.State) string {
	style := m.theme.MainPaneStyle().Width(width).Height(height)
	inner := width - style.GetHorizontalFrameSize()
	if inner < 1 {
		inner = 1
	}

	var b strings.Builder
	if state.IsMobileViewport {
		b.WriteString(m.theme.DimStyle().Render(fmt.Sprintf("☰ %s: menu", m.config.Keybindings.ToggleOverlay)))
		b.WriteString("\n\n")
	}

	title, text := m.page()
	b.WriteString(m.theme.SectionHeaderStyle().Render(title))
	b.WriteString("\n\n")
	b.WriteString(wordwrap.String(text, inner))

	if m.focusedArea == FocusMain {
		b.WriteString("\n\n")
		b.WriteString(m.theme.DimStyle().Render("tab: back to the sidebar"))
	}
	return style.Render(b.String())
}

func (m Model) page() (string, string) {
	user := m.controller.User()
	switch m.currentPath {
	case components.SettingsPath:
		return "Settings", m.settingsText(user)
	case panel.HomePath:
		return "Home", m.homeText(user)
	}
	for _, l := range panel.Links(m.currentPath) {
		if l.Active {
			text := pageText[l.Path]
			if strings.Contains(text, "%s") {
				text = fmt.Sprintf(text, m.config.Keybindings.Upload)
			}
			return l.Label, text
		}
	}
	return "Not found", "No page at " + m.currentPath + "."
}

func (m Model) homeText(user *client.User) string {
	if user == nil {
		return fmt.Sprintf("You are not signed in. Press %s to sign in.", m.config.Keybindings.SignInOut)
	}
	list := m.controller.List()
	primary := "none yet"
	for _, r := range list.Items {
		if r.IsPrimary {
			primary = r.Title
			break
		}
	}
	return fmt.Sprintf("Welcome back, %s.\n\nResumes: %d\nPrimary: %s",
		user.Name(), len(list.Items), primary)
}

func (m Model) settingsText(user *client.User) string {
	email := "not signed in"
	if user != nil {
		email = user.Email
	}
	return fmt.Sprintf("Account: %s\nServer: %s\nTheme: %s\nBreakpoint: %dpx (%dpx per column)",
		email, m.config.Server.URL, m.config.UI.Theme, m.config.UI.BreakpointPx, m.config.UI.CellWidthPx)
}
