// ABOUTME: Tests for the confirmation dialog and its confirm gate
// ABOUTME: An approval is consumed exactly once; declines and missing answers refuse
package components

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harper/resumedeck/internal/tui/client"
	"github.com/harper/resumedeck/internal/tui/theme"
)

var _ client.Confirmer = (*ConfirmDialog)(nil)

func TestConfirmDialog_Approve(t *testing.T) {
	d := NewConfirmDialog(80, 24, theme.DefaultTheme)
	d.Ask(client.DeletePrompt, "r1")
	assert.True(t, d.IsVisible())
	assert.Contains(t, d.View(), "Are you sure")

	cmd := d.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})
	require.NotNil(t, cmd)
	res := cmd().(ConfirmResultMsg)
	assert.Equal(t, ConfirmResultMsg{Target: "r1", Confirmed: true}, res)
	assert.False(t, d.IsVisible())

	assert.True(t, d.Confirm(context.Background(), client.DeletePrompt, "r1"))
	assert.False(t, d.Confirm(context.Background(), client.DeletePrompt, "r1"), "approval is consumed")
}

func TestConfirmDialog_Decline(t *testing.T) {
	d := NewConfirmDialog(80, 24, theme.DefaultTheme)
	d.Ask(client.DeletePrompt, "r1")

	cmd := d.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.False(t, cmd().(ConfirmResultMsg).Confirmed)
	assert.False(t, d.Confirm(context.Background(), client.DeletePrompt, "r1"))
}

func TestConfirmDialog_ApprovalIsPerTarget(t *testing.T) {
	d := NewConfirmDialog(80, 24, theme.DefaultTheme)
	d.Ask(client.DeletePrompt, "r1")
	require.NotNil(t, d.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")}))

	d.Ask(client.DeletePrompt, "r2")
	require.NotNil(t, d.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")}))

	assert.False(t, d.Confirm(context.Background(), client.DeletePrompt, "r2"), "declined target")
	assert.True(t, d.Confirm(context.Background(), client.DeletePrompt, "r1"), "earlier approval survives")
}

func TestConfirmDialog_IgnoresOtherKeys(t *testing.T) {
	d := NewConfirmDialog(80, 24, theme.DefaultTheme)
	assert.Nil(t, d.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")}), "hidden dialog")

	d.Ask("sure?", "x")
	assert.Nil(t, d.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")}))
	assert.True(t, d.IsVisible())
}
