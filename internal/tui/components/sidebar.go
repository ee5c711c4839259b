// ABOUTME: Sidebar component rendering navigation, the profile badge and the resume list
// ABOUTME: Draws a narrow icon rail or the full panel depending on the layout state
package components

import (
	"fmt"
	"strings"

	"github.com/muesli/reflow/truncate"

	"github.com/harper/resumedeck/internal/tui/client"
	"github.com/harper/resumedeck/internal/tui/panel"
	"github.com/harper/resumedeck/internal/tui/theme"
)

type ItemKind int

const (
	ItemLink ItemKind = iota
	ItemResumesHeader
	ItemResume
	ItemUpload
	ItemSettings
	ItemSignOut
)

// SettingsPath is the target of the profile menu's settings entry.
const SettingsPath = "/settings"

// Item is one cursor stop in the sidebar.
type Item struct {
	Kind   ItemKind
	Link   panel.Link
	Resume client.Resume
}

func (i Item) key() string {
	switch i.Kind {
	case ItemLink:
		return "link:" + i.Link.Path
	case ItemResume:
		return "resume:" + i.Resume.ID
	default:
		return fmt.Sprintf("kind:%d", i.Kind)
	}
}

const (
	loadingText = "Loading resumes..."
	emptyText   = "No resumes found"
	dateLayout  = "Jan 2, 2006"
)

type Sidebar struct {
	theme      theme.Theme
	height     int
	panelWidth int
	railWidth  int
	focused    bool

	state panel.State
	links []panel.Link
	list  client.ListState
	user  *client.User

	items  []Item
	cursor int
}

func NewSidebar(panelWidth, railWidth, height int, t theme.Theme) *Sidebar {
	return &Sidebar{
		theme:      t,
		height:     height,
		panelWidth: panelWidth,
		railWidth:  railWidth,
		state:      panel.State{IsExpanded: true},
	}
}

func (s *Sidebar) SetHeight(height int) {
	s.height = height
}

func (s *Sidebar) SetFocused(focused bool) {
	s.focused = focused
}

func (s *Sidebar) Focused() bool {
	return s.focused
}

// Width is the number of columns the sidebar occupies in the layout. The
// mobile overlay floats above the page and takes no layout columns.
func (s *Sidebar) Width() int {
	if !s.state.PanelShown() || s.state.IsMobileViewport {
		return 0
	}
	return s.renderWidth()
}

func (s *Sidebar) renderWidth() int {
	if s.state.ShowExpandedView() {
		return s.panelWidth
	}
	return s.railWidth
}

// Sync rebuilds the cursor stops from fresh state, keeping the cursor on the
// same entry when it still exists.
func (s *Sidebar) Sync(state panel.State, links []panel.Link, list client.ListState, user *client.User) {
	prev, hadPrev := s.Selected()

	s.state = state
	s.links = links
	s.list = list
	s.user = user
	s.items = s.buildItems()

	if hadPrev {
		for i, it := range s.items {
			if it.key() == prev.key() {
				s.cursor = i
				return
			}
		}
	}
	if s.cursor >= len(s.items) {
		s.cursor = len(s.items) - 1
	}
	if s.cursor < 0 {
		s.cursor = 0
	}
}

func (s *Sidebar) buildItems() []Item {
	items := make([]Item, 0, len(s.links)+len(s.list.Items)+4)
	for _, l := range s.links {
		items = append(items, Item{Kind: ItemLink, Link: l})
	}
	expanded := s.state.ShowExpandedView()
	if expanded {
		items = append(items, Item{Kind: ItemResumesHeader})
		if s.state.IsResumeSectionExpanded {
			for _, r := range s.list.Items {
				items = append(items, Item{Kind: ItemResume, Resume: r})
			}
		}
	}
	items = append(items, Item{Kind: ItemUpload})
	if expanded {
		items = append(items, Item{Kind: ItemSettings})
		if s.user != nil {
			items = append(items, Item{Kind: ItemSignOut})
		}
	}
	return items
}

func (s *Sidebar) Items() []Item {
	return s.items
}

func (s *Sidebar) CursorDown() {
	if len(s.items) == 0 {
		return
	}
	s.cursor++
	if s.cursor >= len(s.items) {
		s.cursor = 0
	}
}

func (s *Sidebar) CursorUp() {
	if len(s.items) == 0 {
		return
	}
	s.cursor--
	if s.cursor < 0 {
		s.cursor = len(s.items) - 1
	}
}

func (s *Sidebar) Selected() (Item, bool) {
	if s.cursor < 0 || s.cursor >= len(s.items) {
		return Item{}, false
	}
	return s.items[s.cursor], true
}

// SelectedResume returns the resume under the cursor, if any.
func (s *Sidebar) SelectedResume() (client.Resume, bool) {
	it, ok := s.Selected()
	if !ok || it.Kind != ItemResume {
		return client.Resume{}, false
	}
	return it.Resume, true
}

func (s *Sidebar) View() string {
	if !s.state.PanelShown() {
		return ""
	}
	width := s.renderWidth()
	// horizontal padding plus the cursor column
	inner := width - 3
	if inner < 1 {
		inner = 1
	}

	var lines []string
	if s.state.ShowExpandedView() {
		lines = s.expandedLines(inner)
	} else {
		lines = s.railLines(inner)
	}

	style := s.theme.SidebarStyle().Width(width)
	if s.height > 0 {
		style = style.Height(s.height)
	}
	return style.Render(strings.Join(lines, "\n"))
}

func (s *Sidebar) railLines(inner int) []string {
	lines := []string{"(" + s.user.Badge() + ")", ""}
	for i, it := range s.items {
		var text string
		switch it.Kind {
		case ItemLink:
			text = it.Link.Icon
			if it.Link.Active {
				text += "•"
			}
		case ItemUpload:
			text = "+"
		default:
			continue
		}
		lines = append(lines, s.styleLine(i, it, fit(text, inner)))
	}
	return lines
}

func (s *Sidebar) expandedLines(inner int) []string {
	lines := []string{
		"(" + s.user.Badge() + ") " + fit(s.user.Name(), inner-4),
	}
	email := ""
	if s.user != nil {
		email = s.user.Email
	}
	lines = append(lines, "    "+s.theme.DimStyle().Render(fit(email, inner-4)), strings.Repeat("─", inner))

	for i, it := range s.items {
		switch it.Kind {
		case ItemLink:
			lines = append(lines, s.styleLine(i, it, fit(it.Link.Icon+" "+it.Link.Label, inner)))
		case ItemResumesHeader:
			arrow := "▸"
			if s.state.IsResumeSectionExpanded {
				arrow = "▾"
			}
			lines = append(lines, "", s.styleLine(i, it, fit(arrow+" My Resumes", inner)))
			if s.state.IsResumeSectionExpanded {
				lines = append(lines, s.sectionStatus(inner)...)
			}
		case ItemResume:
			lines = append(lines, s.resumeLines(i, it, inner)...)
		case ItemUpload:
			lines = append(lines, strings.Repeat("─", inner), s.styleLine(i, it, fit("+ Upload Resume", inner)))
		case ItemSettings:
			lines = append(lines, s.styleLine(i, it, fit("⚙ Settings", inner)))
		case ItemSignOut:
			lines = append(lines, s.styleLine(i, it, s.theme.ErrorStyle().Render(fit("⏻ Sign out", inner))))
		}
	}
	return lines
}

// sectionStatus renders the loading, error and empty notes. Loading and
// error can show at the same time as stale items.
func (s *Sidebar) sectionStatus(inner int) []string {
	var out []string
	if s.list.Loading {
		out = append(out, "  "+s.theme.DimStyle().Render(fit(loadingText, inner-2)))
	}
	if s.list.Error != "" {
		out = append(out, "  "+s.theme.ErrorStyle().Render(fit(s.list.Error, inner-2)))
	}
	if !s.list.Loading && s.list.Error == "" && len(s.list.Items) == 0 {
		out = append(out, "  "+s.theme.DimStyle().Render(fit(emptyText, inner-2)))
	}
	return out
}

func (s *Sidebar) resumeLines(i int, it Item, inner int) []string {
	r := it.Resume
	badge := ""
	star := "☆ "
	if r.IsPrimary {
		badge = " Primary"
		star = s.theme.StarStyle().Render("★") + " "
	}
	title := fit(r.Title, inner-4-len(badge))
	line := "  " + star + title + s.theme.SuccessStyle().Render(badge)
	date := "    " + s.theme.DimStyle().Render(r.CreatedAt.Local().Format(dateLayout))
	return []string{s.styleLine(i, it, line), date}
}

func (s *Sidebar) styleLine(i int, it Item, text string) string {
	switch {
	case s.focused && i == s.cursor:
		return s.theme.CursorStyle().Render("›" + text)
	case it.Kind == ItemLink && it.Link.Active:
		return " " + s.theme.ActiveLinkStyle().Render(text)
	default:
		return " " + s.theme.LinkStyle().Render(text)
	}
}

func fit(text string, width int) string {
	if width < 1 {
		return ""
	}
	return truncate.StringWithTail(text, uint(width), "…")
}
