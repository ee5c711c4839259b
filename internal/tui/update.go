// ABOUTME: Update logic for the TUI (handles all messages and state transitions)
// ABOUTME: Runs collaborator calls as commands and folds their results back into the model
package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/harper/resumedeck/internal/tui/client"
	"github.com/harper/resumedeck/internal/tui/components"
	"github.com/harper/resumedeck/internal/tui/panel"
)

const progressInterval = 100 * time.Millisecond

// Result messages for commands that talk to the server.
type connectedMsg struct{ Err error }

type clientErrorMsg struct{ Err error }

type identityMsg struct {
	Changed bool
	Err     error
}

type refreshDoneMsg struct{ Err error }

type primaryDoneMsg struct {
	ResumeID string
	Err      error
}

type deleteDoneMsg struct {
	ResumeID string
	Deleted  bool
	Err      error
}

type uploadDoneMsg struct {
	Resume client.Resume
	Err    error
}

type signOutDoneMsg struct{ Err error }

type openDoneMsg struct{ Err error }

type progressTickMsg struct{}

var errSignedOut = errors.New("sign in to upload a resume")

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	next.syncComponents()
	return next, cmd
}

//nolint:gocyclo // one case per message type
func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Set(panel.ColumnsToPx(msg.Width, m.config.UI.CellWidthPx))
		m.updateComponentSizes()
		if !m.controller.Machine().State().PanelShown() {
			m.focusedArea = FocusMain
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case connectedMsg:
		if msg.Err != nil {
			m.log.Error("connect: %v", msg.Err)
			m.statusBar.SetConnectionStatus("disconnected")
			return m, m.notifications.Show("Cannot reach the resume server", components.SeverityError)
		}
		m.statusBar.SetConnectionStatus("connected")
		cmds := []tea.Cmd{m.waitForClientError()}
		if m.config.User.Email != "" {
			cmds = append(cmds, m.signIn(), m.startLoading())
		}
		return m, tea.Batch(cmds...)

	case clientErrorMsg:
		m.log.Error("connection: %v", msg.Err)
		m.statusBar.SetConnectionStatus("disconnected")
		return m, m.notifications.Show("Connection to the resume server lost", components.SeverityError)

	case identityMsg:
		m.loading = false
		if msg.Err != nil {
			m.log.Warn("identity sync: %v", msg.Err)
		}
		return m, nil

	case refreshDoneMsg:
		m.loading = false
		if msg.Err != nil {
			m.log.Warn("refresh: %v", msg.Err)
		}
		return m, nil

	case primaryDoneMsg:
		if msg.Err != nil {
			return m, m.notifications.Show("Could not set primary resume", components.SeverityError)
		}
		return m, m.notifications.Show("Primary resume updated", components.SeveritySuccess)

	case components.ConfirmResultMsg:
		if !msg.Confirmed {
			return m, nil
		}
		// the synchronizer consumes the approval recorded for this resume
		return m, m.deleteResume(msg.Target)

	case deleteDoneMsg:
		switch {
		case msg.Err != nil:
			return m, m.notifications.Show("Could not delete resume", components.SeverityError)
		case msg.Deleted:
			return m, m.notifications.Show("Resume deleted", components.SeverityInfo)
		}
		return m, nil

	case components.UploadSubmitMsg:
		return m, m.upload(msg)

	case components.UploadCancelMsg:
		return m, nil

	case uploadDoneMsg:
		m.uploadForm.Done(msg.Err)
		if msg.Err != nil {
			m.log.Warn("upload: %v", msg.Err)
			return m, m.notifications.Show("Upload failed: "+msg.Err.Error(), components.SeverityError)
		}
		m.focusedArea = FocusSidebar
		loading := m.startLoading()
		return m, tea.Batch(
			m.notifications.Show("Uploaded "+msg.Resume.Title, components.SeveritySuccess),
			m.afterUpload(),
			loading,
		)

	case signOutDoneMsg:
		if msg.Err != nil {
			return m, m.notifications.Show("Sign out failed", components.SeverityError)
		}
		m.currentPath = panel.HomePath
		return m, m.notifications.Show("Signed out", components.SeverityInfo)

	case openDoneMsg:
		if msg.Err != nil {
			m.log.Warn("open: %v", msg.Err)
			return m, m.notifications.Show("Could not open resume", components.SeverityError)
		}
		return m, nil

	case progressTickMsg:
		if !m.loading {
			m.statusBar.HideProgress()
			return m, nil
		}
		m.statusBar.AdvanceProgress(5)
		return m, tickProgress()

	case components.DismissNotificationMsg:
		return m, m.notifications.Update(msg)
	}

	if m.uploadForm.IsVisible() {
		return m, m.uploadForm.Update(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	kb := m.config.Keybindings
	key := msg.String()

	if key == "ctrl+c" {
		return m.quit()
	}

	// Modals get priority
	if m.helpOverlay.IsVisible() {
		if key == kb.Help || key == "esc" {
			m.helpOverlay.Hide()
		}
		return m, nil
	}
	if m.confirm.IsVisible() {
		return m, m.confirm.Update(msg)
	}
	if m.uploadForm.IsVisible() {
		return m, m.uploadForm.Update(msg)
	}

	machine := m.controller.Machine()
	switch key {
	case kb.Quit:
		return m.quit()
	case kb.Help:
		m.helpOverlay.Show()
	case kb.ToggleSidebar:
		machine.ToggleSidebar()
	case kb.ToggleOverlay:
		machine.ToggleVisibility()
		if machine.State().PanelShown() {
			m.focusedArea = FocusSidebar
		} else {
			m.focusedArea = FocusMain
		}
	case "esc":
		machine.HideOverlay()
		if !machine.State().PanelShown() {
			m.focusedArea = FocusMain
		}
	case "tab":
		m.cycleFocus()
	case kb.ResumeSection:
		machine.ToggleResumesSection()
	case kb.Upload:
		return m, m.uploadForm.Open()
	case kb.SignInOut:
		return m.toggleSignIn()
	case kb.Refresh:
		loading := m.startLoading()
		return m, tea.Batch(m.refresh(), loading)
	case kb.SetPrimary:
		if r, ok := m.sidebar.SelectedResume(); ok {
			return m, m.setPrimary(r.ID)
		}
	case kb.DeleteResume:
		if r, ok := m.sidebar.SelectedResume(); ok {
			m.confirm.Ask(client.DeletePrompt, r.ID)
		}
	case kb.OpenResume:
		if r, ok := m.sidebar.SelectedResume(); ok {
			return m, m.open(r.FileURL)
		}
	case "up", "k":
		if m.focusedArea == FocusSidebar {
			m.sidebar.CursorUp()
		}
	case "down", "j":
		if m.focusedArea == FocusSidebar {
			m.sidebar.CursorDown()
		}
	case "enter":
		if m.focusedArea == FocusSidebar {
			return m.activate()
		}
	}
	return m, nil
}

// activate runs the sidebar entry under the cursor.
func (m Model) activate() (Model, tea.Cmd) {
	it, ok := m.sidebar.Selected()
	if !ok {
		return m, nil
	}
	machine := m.controller.Machine()
	switch it.Kind {
	case components.ItemLink:
		m.navigate(it.Link.Path)
	case components.ItemResumesHeader:
		machine.ToggleResumesSection()
	case components.ItemResume:
		return m, m.open(it.Resume.FileURL)
	case components.ItemUpload:
		return m, m.uploadForm.Open()
	case components.ItemSettings:
		m.navigate(components.SettingsPath)
	case components.ItemSignOut:
		return m, m.signOut()
	}
	return m, nil
}

func (m *Model) navigate(path string) {
	m.currentPath = path
	m.controller.Machine().Navigate()
	if !m.controller.Machine().State().PanelShown() {
		m.focusedArea = FocusMain
	}
}

func (m Model) toggleSignIn() (Model, tea.Cmd) {
	if m.controller.User() != nil {
		return m, m.signOut()
	}
	if m.config.User.Email == "" {
		return m, m.notifications.Show("Set user.email in the config file to sign in", components.SeverityWarning)
	}
	loading := m.startLoading()
	return m, tea.Batch(m.signIn(), loading)
}

func (m Model) quit() (Model, tea.Cmd) {
	m.controller.Close()
	if err := m.backend.Close(); err != nil {
		m.log.Debug("close backend: %v", err)
	}
	return m, tea.Quit
}

// cycleFocus moves focus to the next component
func (m *Model) cycleFocus() {
	if m.focusedArea == FocusSidebar || !m.controller.Machine().State().PanelShown() {
		m.focusedArea = FocusMain
		return
	}
	m.focusedArea = FocusSidebar
}

// updateComponentSizes recalculates and applies sizes to all components based on window dimensions
func (m *Model) updateComponentSizes() {
	if m.width == 0 || m.height == 0 {
		return
	}
	m.statusBar.SetSize(m.width)
	m.notifications.SetSize(m.width / 3)
	m.helpOverlay.SetSize(m.width, m.height)
	m.uploadForm.SetSize(m.width, m.height)
	m.confirm.SetSize(m.width, m.height)
}

// syncComponents pushes controller state into the components that render it.
func (m *Model) syncComponents() {
	state := m.controller.Machine().State()
	user := m.controller.User()
	m.sidebar.Sync(state, panel.Links(m.currentPath), m.controller.List(), user)
	m.sidebar.SetFocused(m.focusedArea == FocusSidebar && state.PanelShown())
	m.sidebar.SetHeight(m.mainHeight())

	if user != nil {
		m.statusBar.SetUser(user.Name())
	} else {
		m.statusBar.SetUser("")
	}
	m.statusBar.SetMode(state.Mode().String())
}

func (m Model) mainHeight() int {
	h := m.height - m.statusBar.Height()
	if h < 1 {
		return 1
	}
	return h
}

// Commands

func (m Model) connect() tea.Cmd {
	backend := m.backend
	return func() tea.Msg {
		return connectedMsg{Err: backend.Connect(context.Background())}
	}
}

func (m Model) waitForClientError() tea.Cmd {
	errs := m.backend.Errors()
	return func() tea.Msg {
		err, ok := <-errs
		if !ok {
			return nil
		}
		return clientErrorMsg{Err: err}
	}
}

func (m Model) signIn() tea.Cmd {
	auth, controller, u := m.auth, m.controller, m.config.User
	return func() tea.Msg {
		ctx := context.Background()
		if _, err := auth.SignIn(ctx, u.Email, u.DisplayName, u.AvatarURL); err != nil {
			return identityMsg{Err: fmt.Errorf("sign in: %w", err)}
		}
		changed, err := controller.SyncIdentity(ctx)
		return identityMsg{Changed: changed, Err: err}
	}
}

func (m Model) signOut() tea.Cmd {
	controller := m.controller
	return func() tea.Msg {
		return signOutDoneMsg{Err: controller.SignOut(context.Background())}
	}
}

func (m Model) refresh() tea.Cmd {
	controller := m.controller
	return func() tea.Msg {
		return refreshDoneMsg{Err: controller.Refresh(context.Background())}
	}
}

func (m Model) afterUpload() tea.Cmd {
	controller := m.controller
	return func() tea.Msg {
		return refreshDoneMsg{Err: controller.OnUploadSuccess(context.Background())}
	}
}

func (m Model) setPrimary(resumeID string) tea.Cmd {
	controller := m.controller
	return func() tea.Msg {
		return primaryDoneMsg{ResumeID: resumeID, Err: controller.SetPrimary(context.Background(), resumeID)}
	}
}

func (m Model) deleteResume(resumeID string) tea.Cmd {
	controller := m.controller
	return func() tea.Msg {
		deleted, err := controller.DeleteResume(context.Background(), resumeID)
		return deleteDoneMsg{ResumeID: resumeID, Deleted: deleted, Err: err}
	}
}

func (m Model) upload(sub components.UploadSubmitMsg) tea.Cmd {
	uploader, user := m.backend, m.controller.User()
	return func() tea.Msg {
		if user == nil {
			return uploadDoneMsg{Err: errSignedOut}
		}
		data, err := os.ReadFile(sub.File)
		if err != nil {
			return uploadDoneMsg{Err: fmt.Errorf("read %s: %w", filepath.Base(sub.File), err)}
		}
		r, err := uploader.UploadResume(context.Background(), user.ID, filepath.Base(sub.File), data, sub.JobDescription)
		return uploadDoneMsg{Resume: r, Err: err}
	}
}

func (m Model) open(url string) tea.Cmd {
	opener := m.opener
	return func() tea.Msg {
		return openDoneMsg{Err: opener.Open(url)}
	}
}

// startLoading shows the progress bar and starts its ticker if it is not running.
func (m *Model) startLoading() tea.Cmd {
	if m.loading {
		return nil
	}
	m.loading = true
	m.statusBar.ShowProgress()
	return tickProgress()
}

func tickProgress() tea.Cmd {
	return tea.Tick(progressInterval, func(time.Time) tea.Msg { return progressTickMsg{} })
}
