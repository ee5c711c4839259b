// ABOUTME: Responsive layout state machine for the resume sidebar
// ABOUTME: Reconciles viewport width with the expanded, overlay and section toggles

package panel

import "sync"

// DefaultBreakpointPx is the width below which the viewport counts as mobile.
const DefaultBreakpointPx = 768

type Mode int

const (
	ModeDesktopExpanded Mode = iota
	ModeDesktopCollapsed
	ModeMobileHidden
	ModeMobileVisible
)

func (m Mode) String() string {
	switch m {
	case ModeDesktopExpanded:
		return "desktop-expanded"
	case ModeDesktopCollapsed:
		return "desktop-collapsed"
	case ModeMobileHidden:
		return "mobile-hidden"
	case ModeMobileVisible:
		return "mobile-visible"
	default:
		return "unknown"
	}
}

// State is the layout state. It is never persisted.
type State struct {
	IsMobileViewport        bool
	IsExpanded              bool
	IsOverlayVisible        bool
	IsResumeSectionExpanded bool
}

// ShowExpandedView reports whether labels are drawn, not just the icon rail.
func (s State) ShowExpandedView() bool {
	return s.IsExpanded || s.IsMobileViewport
}

// PanelShown reports whether any part of the sidebar is on screen.
func (s State) PanelShown() bool {
	if s.IsMobileViewport {
		return s.IsOverlayVisible
	}
	return true
}

func (s State) ShowsDesktopToggle() bool {
	return !s.IsMobileViewport
}

func (s State) Mode() Mode {
	switch {
	case s.IsMobileViewport && s.IsOverlayVisible:
		return ModeMobileVisible
	case s.IsMobileViewport:
		return ModeMobileHidden
	case s.IsExpanded:
		return ModeDesktopExpanded
	default:
		return ModeDesktopCollapsed
	}
}

type Option func(*Machine)

func WithBreakpoint(px int) Option {
	return func(m *Machine) {
		if px > 0 {
			m.breakpoint = px
		}
	}
}

// WithOnChange registers an observer called after every transition.
func WithOnChange(fn func(State)) Option {
	return func(m *Machine) {
		m.onChange = fn
	}
}

type Machine struct {
	viewport   Viewport
	breakpoint int
	onChange   func(State)

	mu          sync.Mutex
	state       State
	unsubscribe func()
}

func NewMachine(viewport Viewport, opts ...Option) *Machine {
	m := &Machine{
		viewport:   viewport,
		breakpoint: DefaultBreakpointPx,
		state:      State{IsExpanded: true},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Machine) Breakpoint() int {
	return m.breakpoint
}

// Mount reads the current width and starts following the viewport.
func (m *Machine) Mount() {
	m.mu.Lock()
	if m.unsubscribe != nil {
		m.mu.Unlock()
		return
	}
	m.unsubscribe = m.viewport.Subscribe(m.Resize)
	m.mu.Unlock()

	m.Resize(m.viewport.Width())
}

func (m *Machine) Unmount() {
	m.mu.Lock()
	unsub := m.unsubscribe
	m.unsubscribe = nil
	m.mu.Unlock()
	if unsub != nil {
		unsub()
	}
}

func (m *Machine) Mounted() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.unsubscribe != nil
}

// Resize reclassifies the viewport. Every event re-forces the overlay rule,
// so a desktop width always leaves the panel visible and expanded.
func (m *Machine) Resize(width int) {
	m.update(func(s *State) {
		s.IsMobileViewport = width < m.breakpoint
		if s.IsMobileViewport {
			s.IsOverlayVisible = false
			return
		}
		s.IsOverlayVisible = true
		s.IsExpanded = true
	})
}

// ToggleSidebar collapses or expands the desktop rail.
func (m *Machine) ToggleSidebar() {
	m.update(func(s *State) {
		if s.IsMobileViewport {
			return
		}
		s.IsExpanded = !s.IsExpanded
	})
}

// ToggleVisibility opens or closes the mobile overlay. Desktop keeps it shown.
func (m *Machine) ToggleVisibility() {
	m.update(func(s *State) {
		if !s.IsMobileViewport {
			return
		}
		s.IsOverlayVisible = !s.IsOverlayVisible
	})
}

// HideOverlay dismisses the mobile overlay.
func (m *Machine) HideOverlay() {
	m.update(func(s *State) {
		if s.IsMobileViewport {
			s.IsOverlayVisible = false
		}
	})
}

// Navigate closes the mobile overlay after a link is followed.
func (m *Machine) Navigate() {
	m.HideOverlay()
}

func (m *Machine) ToggleResumesSection() {
	m.update(func(s *State) {
		s.IsResumeSectionExpanded = !s.IsResumeSectionExpanded
	})
}

func (m *Machine) ExpandResumesSection() {
	m.update(func(s *State) {
		s.IsResumeSectionExpanded = true
	})
}

func (m *Machine) update(fn func(*State)) {
	m.mu.Lock()
	fn(&m.state)
	next := m.state
	observer := m.onChange
	m.mu.Unlock()

	if observer != nil {
		observer(next)
	}
}
