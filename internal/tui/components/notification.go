// ABOUTME: Toast notification system for displaying temporary messages
// ABOUTME: Supports info, warning, error, and success severities with auto-dismiss by id
package components

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/harper/resumedeck/internal/tui/theme"
)

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
	SeveritySuccess Severity = "success"
)

// Notification represents a single toast notification.
type Notification struct {
	ID        int
	Message   string
	Severity  Severity
	CreatedAt time.Time
}

// DismissNotificationMsg is sent to dismiss a notification.
type DismissNotificationMsg struct {
	ID int
}

const (
	maxNotifications  = 3
	notificationWidth = 40
	autoDismissDelay  = 3 * time.Second
)

// NotificationComponent manages toast notifications.
type NotificationComponent struct {
	notifications []Notification
	nextID        int
	width         int
	theme         theme.Theme
}

func NewNotificationComponent(width int, th theme.Theme) *NotificationComponent {
	return &NotificationComponent{
		notifications: make([]Notification, 0, maxNotifications),
		width:         width,
		theme:         th,
	}
}

func (nc *NotificationComponent) SetSize(width int) {
	nc.width = width
}

// Show adds a toast, keeping only the most recent few, and returns its
// auto-dismiss command.
func (nc *NotificationComponent) Show(message string, severity Severity) tea.Cmd {
	nc.nextID++
	id := nc.nextID
	nc.notifications = append(nc.notifications, Notification{
		ID:        id,
		Message:   message,
		Severity:  severity,
		CreatedAt: time.Now(),
	})
	if len(nc.notifications) > maxNotifications {
		nc.notifications = nc.notifications[len(nc.notifications)-maxNotifications:]
	}
	return tea.Tick(autoDismissDelay, func(time.Time) tea.Msg {
		return DismissNotificationMsg{ID: id}
	})
}

func (nc *NotificationComponent) Notifications() []Notification {
	return append([]Notification(nil), nc.notifications...)
}

func (nc *NotificationComponent) Dismiss(id int) {
	for i, n := range nc.notifications {
		if n.ID == id {
			nc.notifications = append(nc.notifications[:i], nc.notifications[i+1:]...)
			return
		}
	}
}

func (nc *NotificationComponent) Update(msg tea.Msg) tea.Cmd {
	if m, ok := msg.(DismissNotificationMsg); ok {
		nc.Dismiss(m.ID)
	}
	return nil
}

// View renders the notifications as a vertical stack.
func (nc *NotificationComponent) View() string {
	if len(nc.notifications) == 0 {
		return ""
	}

	width := notificationWidth
	if nc.width > 0 && width > nc.width-2 {
		width = nc.width - 2
	}

	views := make([]string, 0, len(nc.notifications))
	for _, n := range nc.notifications {
		style := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(nc.color(n.Severity)).
			Padding(0, 1).
			Width(width)
		views = append(views, style.Render(icon(n.Severity)+" "+n.Message))
	}
	return lipgloss.JoinVertical(lipgloss.Right, views...)
}

func icon(s Severity) string {
	switch s {
	case SeverityWarning:
		return "⚠️"
	case SeverityError:
		return "❌"
	case SeveritySuccess:
		return "✅"
	default:
		return "ℹ️"
	}
}

func (nc *NotificationComponent) color(s Severity) lipgloss.Color {
	switch s {
	case SeverityWarning:
		return nc.theme.Warning
	case SeverityError:
		return nc.theme.Error
	case SeveritySuccess:
		return nc.theme.Success
	default:
		return nc.theme.Primary
	}
}
