// ABOUTME: Tests for XDG Base Directory support
// ABOUTME: Includes regression tests for HOME fallback and prefix detection

package xdg

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfigHome(t *testing.T) {
	home := os.Getenv("HOME")
	if home == "" {
		t.Skip("HOME not set")
	}
	t.Setenv("XDG_CONFIG_HOME", "")

	assert.Equal(t, filepath.Join(home, ".config", "resumedeck"), ConfigHome())
}

func TestConfigHome_WithEnv(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/custom-config")

	assert.Equal(t, filepath.Join("/tmp/custom-config", "resumedeck"), ConfigHome())
}

func TestDataAndCacheHome(t *testing.T) {
	home := os.Getenv("HOME")
	if home == "" {
		t.Skip("HOME not set")
	}
	t.Setenv("XDG_DATA_HOME", "")
	t.Setenv("XDG_CACHE_HOME", "")

	assert.Equal(t, filepath.Join(home, ".local", "share", "resumedeck"), DataHome())
	assert.Equal(t, filepath.Join(home, ".cache", "resumedeck"), CacheHome())
}

func TestExpandPath(t *testing.T) {
	home := os.Getenv("HOME")
	if home == "" {
		t.Skip("HOME not set")
	}
	t.Setenv("XDG_DATA_HOME", "")
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("XDG_CACHE_HOME", "")

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"tilde", "~/resumes/db.sqlite", filepath.Join(home, "resumes", "db.sqlite")},
		{"data home", "$XDG_DATA_HOME/resumedeck/db.sqlite", filepath.Join(home, ".local", "share", "resumedeck", "db.sqlite")},
		{"config home", "$XDG_CONFIG_HOME/resumedeck/tui.yaml", filepath.Join(home, ".config", "resumedeck", "tui.yaml")},
		{"cache home", "$XDG_CACHE_HOME/resumedeck/files", filepath.Join(home, ".cache", "resumedeck", "files")},
		{"absolute passes through", "/absolute/path", "/absolute/path"},
		{"relative passes through", "relative/path", "relative/path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandPath(tt.input))
		})
	}
}

func TestExpandPath_MissingHOME(t *testing.T) {
	t.Setenv("HOME", "")
	t.Setenv("XDG_DATA_HOME", "")

	got := ExpandPath("$XDG_DATA_HOME/resumedeck/db.sqlite")

	if filepath.IsAbs(got) && filepath.Dir(filepath.Dir(got)) == "/" {
		t.Errorf("ExpandPath with missing HOME created root path: %q", got)
	}
}
