// ABOUTME: Core Bubbletea model and state management for the TUI
// ABOUTME: Wires the sidebar controller, resume service and components into one model
package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/harper/resumedeck/internal/logger"
	"github.com/harper/resumedeck/internal/tui/client"
	"github.com/harper/resumedeck/internal/tui/components"
	"github.com/harper/resumedeck/internal/tui/config"
	"github.com/harper/resumedeck/internal/tui/panel"
	"github.com/harper/resumedeck/internal/tui/theme"
)

// FocusArea represents which component currently has focus
type FocusArea int

const (
	FocusSidebar FocusArea = iota
	FocusMain
)

// Backend is everything the TUI needs from the resume server.
// client.RPCClient implements it.
type Backend interface {
	client.ResumeService
	client.Uploader
	client.Directory
	Connect(ctx context.Context) error
	Errors() <-chan error
	Close() error
}

type Model struct {
	config *config.Config
	theme  theme.Theme
	log    logger.Logger
	width  int
	height int

	// Components
	sidebar       *components.Sidebar
	uploadForm    *components.UploadForm
	confirm       *components.ConfirmDialog
	statusBar     *components.StatusBar
	helpOverlay   *components.HelpOverlay
	notifications *components.NotificationComponent

	// Data and layout
	backend    Backend
	opener     client.Opener
	auth       *client.AuthSession
	viewport   *panel.Broadcaster
	controller *panel.Controller

	// UI state
	focusedArea FocusArea
	currentPath string
	loading     bool
}

func NewModel(cfg *config.Config, backend Backend, opener client.Opener) Model {
	th := theme.GetTheme(cfg.UI.Theme, nil)
	log := logger.Named("tui")

	confirm := components.NewConfirmDialog(80, 24, th)
	auth := client.NewAuthSession(backend)
	auth.OnChange(func(u *client.User) {
		if u != nil {
			log.Debug("auth user %s", u.ID)
		}
	})

	// Start on the desktop side of the breakpoint; the first WindowSizeMsg corrects it.
	viewport := panel.NewBroadcaster(cfg.UI.BreakpointPx)
	machine := panel.NewMachine(viewport,
		panel.WithBreakpoint(cfg.UI.BreakpointPx),
		panel.WithOnChange(func(s panel.State) { log.Debug("layout %s", s.Mode()) }),
	)
	controller := panel.NewController(machine, client.NewResumeSync(backend, confirm), auth)
	controller.Mount()

	return Model{
		config:        cfg,
		theme:         th,
		log:           log,
		sidebar:       components.NewSidebar(cfg.UI.PanelWidth, cfg.UI.RailWidth, 24, th),
		uploadForm:    components.NewUploadForm(80, 24, th),
		confirm:       confirm,
		statusBar:     components.NewStatusBar(80, th),
		helpOverlay:   components.NewHelpOverlay(80, 24, th, components.ShortcutsFor(cfg.Keybindings)),
		notifications: components.NewNotificationComponent(40, th),
		backend:       backend,
		opener:        opener,
		auth:          auth,
		viewport:      viewport,
		controller:    controller,
		focusedArea:   FocusSidebar,
		currentPath:   panel.HomePath,
	}
}

func (m Model) Init() tea.Cmd {
	m.syncComponents()
	return m.connect()
}
