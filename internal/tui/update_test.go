// ABOUTME: Unit tests for TUI update logic
// ABOUTME: Drives the model with key and size messages against an in-memory backend
package tui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harper/resumedeck/internal/tui/client"
	"github.com/harper/resumedeck/internal/tui/components"
	"github.com/harper/resumedeck/internal/tui/config"
	"github.com/harper/resumedeck/internal/tui/panel"
)

type memBackend struct {
	mu         sync.Mutex
	resumes    map[string][]client.Resume
	connectErr error
	primaryErr error
	errs       chan error
	uploads    []string
	deletes    []string
}

func newMemBackend() *memBackend {
	return &memBackend{
		resumes: map[string][]client.Resume{
			"u1": {
				{ID: "r1", Title: "Backend", CreatedAt: time.Now(), FileURL: "http://files/r1", IsPrimary: true},
				{ID: "r2", Title: "Platform", CreatedAt: time.Now(), FileURL: "http://files/r2"},
			},
		},
		errs: make(chan error),
	}
}

func (b *memBackend) Connect(ctx context.Context) error { return b.connectErr }
func (b *memBackend) Errors() <-chan error                { return b.errs }
func (b *memBackend) Close() error                        { return nil }

func (b *memBackend) ListResumes(ctx context.Context, userID string) ([]client.Resume, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]client.Resume(nil), b.resumes[userID]...), nil
}

func (b *memBackend) SetPrimary(ctx context.Context, resumeID, userID string) error {
	return b.primaryErr
}

func (b *memBackend) DeleteResume(ctx context.Context, resumeID, userID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.deletes = append(b.deletes, resumeID)
	return nil
}

func (b *memBackend) UploadResume(ctx context.Context, userID, fileName string, data []byte, jd string) (client.Resume, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.uploads = append(b.uploads, fileName)
	r := client.Resume{ID: "r3", Title: "New", CreatedAt: time.Now()}
	b.resumes[userID] = append([]client.Resume{r}, b.resumes[userID]...)
	return r, nil
}

func (b *memBackend) SignIn(ctx context.Context, email, displayName, avatarURL string) (client.User, error) {
	return client.User{ID: "u1", Email: email, DisplayName: displayName}, nil
}

func (b *memBackend) GetUser(ctx context.Context, userID string) (client.User, error) {
	return client.User{ID: userID}, nil
}

type recordingOpener struct{ urls []string }

func (o *recordingOpener) Open(url string) error {
	o.urls = append(o.urls, url)
	return nil
}

// settle feeds msg through Update and keeps running the resulting commands.
// Commands that do not finish quickly (ticks, blinking cursors) are dropped.
func settle(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(Model)
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0 && steps < 200; steps++ {
		c := queue[0]
		queue = queue[1:]
		if c == nil {
			continue
		}
		out, ok := runCmd(c)
		if !ok || out == nil {
			continue
		}
		if batch, ok := out.(tea.BatchMsg); ok {
			queue = append(queue, batch...)
			continue
		}
		next, cmd := m.Update(out)
		m = next.(Model)
		queue = append(queue, cmd)
	}
	return m
}

func runCmd(c tea.Cmd) (tea.Msg, bool) {
	ch := make(chan tea.Msg, 1)
	go func() { ch <- c() }()
	select {
	case msg := <-ch:
		return msg, true
	case <-time.After(200 * time.Millisecond):
		return nil, false
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "ctrl+b":
		return tea.KeyMsg{Type: tea.KeyCtrlB}
	case "ctrl+r":
		return tea.KeyMsg{Type: tea.KeyCtrlR}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func signedInModel(t *testing.T, cols int) (Model, *memBackend, *recordingOpener) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.User.Email = "ada@example.com"
	cfg.User.DisplayName = "Ada"
	backend := newMemBackend()
	opener := &recordingOpener{}

	m := NewModel(cfg, backend, opener)
	m = settle(t, m, tea.WindowSizeMsg{Width: cols, Height: 40})
	m = settle(t, m, m.connect()())
	require.NotNil(t, m.controller.User())
	return m, backend, opener
}

func selectResume(t *testing.T, m Model, id string) Model {
	t.Helper()
	if !m.controller.Machine().State().IsResumeSectionExpanded {
		m = settle(t, m, key("r"))
	}
	for i := 0; i < 20; i++ {
		if r, ok := m.sidebar.SelectedResume(); ok && r.ID == id {
			return m
		}
		m = settle(t, m, key("down"))
	}
	t.Fatalf("resume %s not reachable with the cursor", id)
	return m
}

func TestConnectSignsInAndLoads(t *testing.T) {
	m, _, _ := signedInModel(t, 120)

	list := m.controller.List()
	assert.Len(t, list.Items, 2)
	assert.False(t, list.Loading)
	assert.Equal(t, "connected", m.statusBar.ConnectionStatus())
	assert.Contains(t, m.View(), "Welcome back, Ada")
}

func TestConnectFailure(t *testing.T) {
	cfg := config.DefaultConfig()
	backend := newMemBackend()
	backend.connectErr = errors.New("refused")
	m := NewModel(cfg, backend, &recordingOpener{})
	m = settle(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})

	next, _ := m.Update(m.connect()())
	m = next.(Model)
	assert.Equal(t, "disconnected", m.statusBar.ConnectionStatus())
	require.Len(t, m.notifications.Notifications(), 1)
	assert.Nil(t, m.controller.User())
}

func TestWindowSizeDrivesLayout(t *testing.T) {
	m, _, _ := signedInModel(t, 120)
	assert.Equal(t, panel.ModeDesktopExpanded, m.controller.Machine().State().Mode())

	m = settle(t, m, tea.WindowSizeMsg{Width: 80, Height: 40})
	assert.Equal(t, panel.ModeMobileHidden, m.controller.Machine().State().Mode())
	assert.Equal(t, FocusMain, m.focusedArea)
	assert.Contains(t, m.View(), "menu")

	m = settle(t, m, key("m"))
	assert.Equal(t, panel.ModeMobileVisible, m.controller.Machine().State().Mode())
	assert.Equal(t, FocusSidebar, m.focusedArea)

	m = settle(t, m, key("esc"))
	assert.Equal(t, panel.ModeMobileHidden, m.controller.Machine().State().Mode())
}

func TestToggleSidebarKey(t *testing.T) {
	m, _, _ := signedInModel(t, 120)
	m = settle(t, m, key("ctrl+b"))
	assert.Equal(t, panel.ModeDesktopCollapsed, m.controller.Machine().State().Mode())
	assert.Equal(t, m.config.UI.RailWidth, m.sidebar.Width())
}

func TestNavigateFromMobileOverlay(t *testing.T) {
	m, _, _ := signedInModel(t, 80)
	m = settle(t, m, key("m"))
	m = settle(t, m, key("down"))
	m = settle(t, m, key("enter"))

	assert.Equal(t, "/resume/optimize", m.currentPath)
	assert.False(t, m.controller.Machine().State().IsOverlayVisible)
	assert.Contains(t, m.View(), "Resume Optimizer")
}

func TestSetPrimaryKey(t *testing.T) {
	m, _, _ := signedInModel(t, 120)
	m = selectResume(t, m, "r2")
	m = settle(t, m, key("p"))

	items := m.controller.List().Items
	assert.False(t, items[0].IsPrimary)
	assert.True(t, items[1].IsPrimary)
}

func TestSetPrimaryFailureShowsToast(t *testing.T) {
	m, backend, _ := signedInModel(t, 120)
	backend.primaryErr = errors.New("boom")
	m = selectResume(t, m, "r2")
	m = settle(t, m, key("p"))

	assert.True(t, m.controller.List().Items[0].IsPrimary, "state unchanged")
	notes := m.notifications.Notifications()
	require.NotEmpty(t, notes)
	assert.Equal(t, components.SeverityError, notes[len(notes)-1].Severity)
}

func TestDeleteAsksFirst(t *testing.T) {
	m, backend, _ := signedInModel(t, 120)
	m = selectResume(t, m, "r1")

	m = settle(t, m, key("d"))
	require.True(t, m.confirm.IsVisible())
	assert.Contains(t, m.View(), "[y] Delete")

	m = settle(t, m, key("n"))
	assert.Len(t, m.controller.List().Items, 2)
	assert.Empty(t, backend.deletes, "declined delete never reaches the service")

	m = settle(t, m, key("d"))
	m = settle(t, m, key("y"))
	assert.Equal(t, []string{"r1"}, backend.deletes)
	assert.Len(t, m.controller.List().Items, 1)
}

func TestDeclineDoesNotSpendEarlierApproval(t *testing.T) {
	m, backend, _ := signedInModel(t, 120)
	m = selectResume(t, m, "r1")
	m = settle(t, m, key("d"))

	// approve r1 but hold its result back
	next, approveR1 := m.Update(key("y"))
	m = next.(Model)
	require.NotNil(t, approveR1)

	m = selectResume(t, m, "r2")
	m = settle(t, m, key("d"))
	require.True(t, m.confirm.IsVisible())
	next, declineR2 := m.Update(key("n"))
	m = next.(Model)
	require.NotNil(t, declineR2)
	declined, ok := runCmd(declineR2)
	require.True(t, ok)
	_, cmd := m.Update(declined)
	assert.Nil(t, cmd, "a declined answer dispatches nothing")

	approved, ok := runCmd(approveR1)
	require.True(t, ok)
	m = settle(t, m, approved)

	assert.Equal(t, []string{"r1"}, backend.deletes)
	ids := []string{}
	for _, r := range m.controller.List().Items {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"r2"}, ids)
}

func TestOpenResume(t *testing.T) {
	m, _, opener := signedInModel(t, 120)
	m = selectResume(t, m, "r2")
	settle(t, m, key("o"))
	assert.Equal(t, []string{"http://files/r2"}, opener.urls)
}

func TestUploadRefreshesAndExpands(t *testing.T) {
	m, backend, _ := signedInModel(t, 120)
	require.False(t, m.controller.Machine().State().IsResumeSectionExpanded)

	path := filepath.Join(t.TempDir(), "cv.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0o600))

	m = settle(t, m, key("u"))
	require.True(t, m.uploadForm.IsVisible())
	m = settle(t, m, components.UploadSubmitMsg{File: path, JobDescription: "Go developer"})

	assert.Equal(t, []string{"cv.pdf"}, backend.uploads)
	assert.False(t, m.uploadForm.IsVisible())
	assert.True(t, m.controller.Machine().State().IsResumeSectionExpanded)
	assert.Len(t, m.controller.List().Items, 3)
}

func TestUploadWhileSignedOut(t *testing.T) {
	cfg := config.DefaultConfig()
	m := NewModel(cfg, newMemBackend(), &recordingOpener{})
	m = settle(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	m = settle(t, m, key("u"))

	_, cmd := m.Update(components.UploadSubmitMsg{File: "x.pdf", JobDescription: "jd"})
	msg, ok := runCmd(cmd)
	require.True(t, ok)
	done, ok := msg.(uploadDoneMsg)
	require.True(t, ok)
	assert.ErrorIs(t, done.Err, errSignedOut)
}

func TestSignOutClearsList(t *testing.T) {
	m, _, _ := signedInModel(t, 120)
	m = settle(t, m, key("s"))

	assert.Nil(t, m.controller.User())
	assert.Empty(t, m.controller.List().Items)
	assert.Contains(t, m.View(), "not signed in")
}

func TestSignInWithoutEmailWarns(t *testing.T) {
	m := NewModel(config.DefaultConfig(), newMemBackend(), &recordingOpener{})
	m = settle(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	m = settle(t, m, key("s"))

	notes := m.notifications.Notifications()
	require.Len(t, notes, 1)
	assert.Equal(t, components.SeverityWarning, notes[0].Severity)
}

func TestHelpOverlayCapturesKeys(t *testing.T) {
	m, _, _ := signedInModel(t, 120)
	m = settle(t, m, key("?"))
	require.True(t, m.helpOverlay.IsVisible())

	m = settle(t, m, key("ctrl+b"))
	assert.Equal(t, panel.ModeDesktopExpanded, m.controller.Machine().State().Mode())

	m = settle(t, m, key("esc"))
	assert.False(t, m.helpOverlay.IsVisible())
}

func TestQuitUnmounts(t *testing.T) {
	m, _, _ := signedInModel(t, 120)
	_, cmd := m.Update(key("q"))
	require.NotNil(t, cmd)
	_, ok := cmd().(tea.QuitMsg)
	assert.True(t, ok)
	assert.Equal(t, 0, m.viewport.Subscribers())
}

func TestSettingsPage(t *testing.T) {
	m, _, _ := signedInModel(t, 120)
	m.navigate(components.SettingsPath)
	view := m.View()
	assert.Contains(t, view, "ada@example.com")
	assert.Contains(t, view, "768px")
}
