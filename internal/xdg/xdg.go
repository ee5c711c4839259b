// ABOUTME: XDG Base Directory support for resumedeck config, data and cache paths
// ABOUTME: Expands ~ and $XDG_* prefixes in configured paths with a HOME fallback chain

package xdg

import (
	"os"
	"path/filepath"
	"strings"
)

// AppName is the directory name used under every XDG base directory.
const AppName = "resumedeck"

type baseDir struct {
	envVar   string
	fallback []string
}

var (
	configBase = baseDir{envVar: "XDG_CONFIG_HOME", fallback: []string{".config"}}
	dataBase   = baseDir{envVar: "XDG_DATA_HOME", fallback: []string{".local", "share"}}
	cacheBase  = baseDir{envVar: "XDG_CACHE_HOME", fallback: []string{".cache"}}
)

func (b baseDir) root() string {
	if v := os.Getenv(b.envVar); v != "" {
		return v
	}
	return filepath.Join(append([]string{getHome()}, b.fallback...)...)
}

// ConfigHome returns ~/.config/resumedeck or respects XDG_CONFIG_HOME.
func ConfigHome() string {
	return filepath.Join(configBase.root(), AppName)
}

// DataHome returns ~/.local/share/resumedeck or respects XDG_DATA_HOME.
func DataHome() string {
	return filepath.Join(dataBase.root(), AppName)
}

// CacheHome returns ~/.cache/resumedeck or respects XDG_CACHE_HOME.
func CacheHome() string {
	return filepath.Join(cacheBase.root(), AppName)
}

// ExpandPath expands a leading ~/ or $XDG_{DATA,CONFIG,CACHE}_HOME.
// Variables expand to the base directory, not the app directory.
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(getHome(), path[2:])
	}

	// strings.HasPrefix: filepath.HasPrefix would compare path elements.
	for _, b := range []baseDir{dataBase, configBase, cacheBase} {
		token := "$" + b.envVar
		if strings.HasPrefix(path, token) {
			return strings.Replace(path, token, b.root(), 1)
		}
	}

	return path
}

// getHome returns HOME, then the working directory, then ".".
func getHome() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if cwd, err := os.Getwd(); err == nil {
		return cwd
	}
	return "."
}
