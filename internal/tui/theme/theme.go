// ABOUTME: Theme system for TUI styling with lipgloss
// ABOUTME: Provides predefined themes and style constructors for the sidebar, modals and status bar
package theme

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type Theme struct {
	Primary    lipgloss.Color
	Background lipgloss.Color
	Foreground lipgloss.Color
	SidebarBg  lipgloss.Color
	PanelBg    lipgloss.Color
	Success    lipgloss.Color
	Warning    lipgloss.Color
	Error      lipgloss.Color
	Star       lipgloss.Color
	Dim        lipgloss.Color
}

var DefaultTheme = Theme{
	Primary:    lipgloss.Color("#7C3AED"), // Purple
	Background: lipgloss.Color("#1E1E2E"), // Dark gray
	Foreground: lipgloss.Color("#CDD6F4"), // Light gray
	SidebarBg:  lipgloss.Color("#181825"), // Darker gray
	PanelBg:    lipgloss.Color("#313244"), // Medium gray
	Success:    lipgloss.Color("#A6E3A1"), // Green
	Warning:    lipgloss.Color("#F9E2AF"), // Yellow
	Error:      lipgloss.Color("#F38BA8"), // Red
	Star:       lipgloss.Color("#FAB387"), // Amber
	Dim:        lipgloss.Color("#6C7086"), // Dim gray
}

var DarkTheme = Theme{
	Primary:    lipgloss.Color("#00FF00"),
	Background: lipgloss.Color("#000000"),
	Foreground: lipgloss.Color("#FFFFFF"),
	SidebarBg:  lipgloss.Color("#0A0A0A"),
	PanelBg:    lipgloss.Color("#1A1A1A"),
	Success:    lipgloss.Color("#00FF00"),
	Warning:    lipgloss.Color("#FFFF00"),
	Error:      lipgloss.Color("#FF0000"),
	Star:       lipgloss.Color("#FFD700"),
	Dim:        lipgloss.Color("#808080"),
}

var LightTheme = Theme{
	Primary:    lipgloss.Color("#268BD2"), // Blue
	Background: lipgloss.Color("#FDF6E3"), // Cream
	Foreground: lipgloss.Color("#657B83"),
	SidebarBg:  lipgloss.Color("#EEE8D5"),
	PanelBg:    lipgloss.Color("#EEE8D5"),
	Success:    lipgloss.Color("#859900"),
	Warning:    lipgloss.Color("#B58900"),
	Error:      lipgloss.Color("#DC322F"),
	Star:       lipgloss.Color("#CB4B16"),
	Dim:        lipgloss.Color("#93A1A1"),
}

// GetTheme returns a named theme with optional per-color overrides
// keyed by lower-case field name ("primary", "error", ...).
func GetTheme(name string, customColors map[string]string) Theme {
	var t Theme
	switch name {
	case "dark":
		t = DarkTheme
	case "light":
		t = LightTheme
	default:
		t = DefaultTheme
	}

	for key, value := range customColors {
		c := lipgloss.Color(value)
		switch strings.ToLower(key) {
		case "primary":
			t.Primary = c
		case "background":
			t.Background = c
		case "foreground":
			t.Foreground = c
		case "sidebar_bg":
			t.SidebarBg = c
		case "panel_bg":
			t.PanelBg = c
		case "success":
			t.Success = c
		case "warning":
			t.Warning = c
		case "error":
			t.Error = c
		case "star":
			t.Star = c
		case "dim":
			t.Dim = c
		}
	}
	return t
}

// Style constructors

func (t Theme) SidebarStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Background(t.SidebarBg).
		Foreground(t.Foreground).
		Padding(0, 1)
}

func (t Theme) ActiveLinkStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Background(t.Primary).
		Foreground(t.Background).
		Bold(true)
}

func (t Theme) LinkStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(t.Foreground)
}

func (t Theme) CursorStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(t.Primary).
		Bold(true)
}

func (t Theme) SectionHeaderStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(t.Dim).
		Bold(true)
}

func (t Theme) StarStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(t.Star)
}

func (t Theme) MainPaneStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(t.Foreground).
		Padding(1, 2)
}

func (t Theme) ModalStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Primary).
		Background(t.PanelBg).
		Foreground(t.Foreground).
		Padding(1, 2)
}

func (t Theme) StatusBarStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Background(t.Primary).
		Foreground(t.Background).
		Padding(0, 1)
}

func (t Theme) ErrorStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(t.Error).
		Bold(true)
}

func (t Theme) SuccessStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(t.Success)
}

func (t Theme) WarningStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(t.Warning)
}

func (t Theme) DimStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(t.Dim)
}
