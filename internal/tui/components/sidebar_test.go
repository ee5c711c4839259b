// ABOUTME: Unit tests for the sidebar component
// ABOUTME: Tests rail and panel rendering, resume section states, and cursor stops
package components

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harper/resumedeck/internal/tui/client"
	"github.com/harper/resumedeck/internal/tui/panel"
	"github.com/harper/resumedeck/internal/tui/theme"
)

var desktop = panel.State{IsExpanded: true, IsOverlayVisible: true, IsResumeSectionExpanded: true}

func resumes() []client.Resume {
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return []client.Resume{
		{ID: "r1", Title: "Backend Engineer", CreatedAt: at, IsPrimary: true},
		{ID: "r2", Title: "Data Platform", CreatedAt: at.Add(-48 * time.Hour)},
	}
}

func newTestSidebar() *Sidebar {
	return NewSidebar(32, 6, 30, theme.DefaultTheme)
}

func TestSidebar_ExpandedView(t *testing.T) {
	sb := newTestSidebar()
	user := &client.User{ID: "u1", Email: "ada@example.com", DisplayName: "Ada"}
	sb.Sync(desktop, panel.Links("/dashboard"), client.ListState{Items: resumes()}, user)

	view := sb.View()
	assert.Contains(t, view, "(A)")
	assert.Contains(t, view, "Ada")
	assert.Contains(t, view, "ada@example.com")
	assert.Contains(t, view, "Home")
	assert.Contains(t, view, "Community")
	assert.Contains(t, view, "My Resumes")
	assert.Contains(t, view, "Backend Engineer")
	assert.Contains(t, view, "Primary")
	assert.Contains(t, view, "Upload Resume")
	assert.Contains(t, view, "Sign out")
	assert.Equal(t, 32, sb.Width())
}

func TestSidebar_RailView(t *testing.T) {
	sb := newTestSidebar()
	rail := panel.State{IsExpanded: false, IsOverlayVisible: true}
	sb.Sync(rail, panel.Links("/dashboard"), client.ListState{Items: resumes()}, nil)

	view := sb.View()
	assert.Contains(t, view, "(U)")
	assert.NotContains(t, view, "My Resumes")
	assert.NotContains(t, view, "Home")
	assert.Equal(t, 6, sb.Width())

	kinds := []ItemKind{}
	for _, it := range sb.Items() {
		kinds = append(kinds, it.Kind)
	}
	assert.Equal(t, []ItemKind{ItemLink, ItemLink, ItemLink, ItemLink, ItemLink, ItemUpload}, kinds)
}

func TestSidebar_MobileHiddenRendersNothing(t *testing.T) {
	sb := newTestSidebar()
	sb.Sync(panel.State{IsMobileViewport: true, IsExpanded: false}, panel.Links(""), client.ListState{}, nil)
	assert.Equal(t, "", sb.View())
	assert.Equal(t, 0, sb.Width())
}

func TestSidebar_MobileOverlayIsExpanded(t *testing.T) {
	sb := newTestSidebar()
	sb.Sync(panel.State{IsMobileViewport: true, IsExpanded: false, IsOverlayVisible: true}, panel.Links(""), client.ListState{}, nil)
	view := sb.View()
	assert.Contains(t, view, "My Resumes")
	assert.Equal(t, 0, sb.Width(), "overlay takes no layout columns")
}

func TestSidebar_SectionStates(t *testing.T) {
	tests := []struct {
		name     string
		list     client.ListState
		contains []string
		absent   []string
	}{
		{
			name:     "loading",
			list:     client.ListState{Loading: true, Items: []client.Resume{}},
			contains: []string{loadingText},
			absent:   []string{emptyText},
		},
		{
			name:     "error keeps stale items",
			list:     client.ListState{Error: client.FetchErrorMessage, Items: resumes()},
			contains: []string{client.FetchErrorMessage, "Backend Engineer"},
			absent:   []string{emptyText},
		},
		{
			name:     "empty",
			list:     client.ListState{Items: []client.Resume{}},
			contains: []string{emptyText},
			absent:   []string{loadingText},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sb := newTestSidebar()
			sb.Sync(desktop, panel.Links(""), tt.list, &client.User{ID: "u1"})
			view := sb.View()
			for _, s := range tt.contains {
				assert.Contains(t, view, s)
			}
			for _, s := range tt.absent {
				assert.NotContains(t, view, s)
			}
		})
	}
}

func TestSidebar_CollapsedSectionHidesResumes(t *testing.T) {
	sb := newTestSidebar()
	state := desktop
	state.IsResumeSectionExpanded = false
	sb.Sync(state, panel.Links(""), client.ListState{Items: resumes()}, nil)

	assert.NotContains(t, sb.View(), "Backend Engineer")
	for _, it := range sb.Items() {
		assert.NotEqual(t, ItemResume, it.Kind)
	}
}

func TestSidebar_CursorFollowsEntryAcrossSync(t *testing.T) {
	sb := newTestSidebar()
	user := &client.User{ID: "u1"}
	sb.Sync(desktop, panel.Links(""), client.ListState{Items: resumes()}, user)

	for {
		if r, ok := sb.SelectedResume(); ok && r.ID == "r2" {
			break
		}
		sb.CursorDown()
	}

	// r1 deleted: cursor stays on r2
	sb.Sync(desktop, panel.Links(""), client.ListState{Items: resumes()[1:]}, user)
	r, ok := sb.SelectedResume()
	require.True(t, ok)
	assert.Equal(t, "r2", r.ID)

	// r2 deleted too: cursor is clamped
	sb.Sync(desktop, panel.Links(""), client.ListState{Items: []client.Resume{}}, user)
	_, ok = sb.Selected()
	assert.True(t, ok)
}

func TestSidebar_CursorWraps(t *testing.T) {
	sb := newTestSidebar()
	sb.Sync(desktop, panel.Links(""), client.ListState{}, nil)

	sb.CursorUp()
	it, ok := sb.Selected()
	require.True(t, ok)
	assert.Equal(t, ItemSettings, it.Kind, "no sign-out entry without a user")

	sb.CursorDown()
	it, _ = sb.Selected()
	assert.Equal(t, ItemLink, it.Kind)
	assert.Equal(t, "/dashboard", it.Link.Path)
}

func TestSidebar_TruncatesLongTitles(t *testing.T) {
	sb := NewSidebar(24, 6, 30, theme.DefaultTheme)
	long := client.Resume{ID: "r", Title: "A very long resume title that will not fit", CreatedAt: time.Now()}
	sb.Sync(desktop, panel.Links(""), client.ListState{Items: []client.Resume{long}}, nil)

	view := sb.View()
	assert.Contains(t, view, "…")
	assert.NotContains(t, view, "will not fit")
}

func TestFit(t *testing.T) {
	assert.Equal(t, "", fit("abc", 0))
	assert.Equal(t, "abc", fit("abc", 5))
	assert.Equal(t, "ab…", fit("abcdef", 3))
}
