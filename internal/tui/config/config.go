// ABOUTME: TUI configuration system with XDG-compliant file loading
// ABOUTME: Handles config loading, validation, defaults, and theme selection
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/harper/resumedeck/internal/xdg"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server      ServerConfig      `yaml:"server"`
	User        UserConfig        `yaml:"user"`
	UI          UIConfig          `yaml:"ui"`
	Keybindings KeybindingsConfig `yaml:"keybindings"`
	Logging     LoggingConfig     `yaml:"logging"`
}

type ServerConfig struct {
	URL            string `yaml:"url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// UserConfig signs the user in at startup when Email is set.
type UserConfig struct {
	Email       string `yaml:"email"`
	DisplayName string `yaml:"display_name"`
	AvatarURL   string `yaml:"avatar_url"`
}

type UIConfig struct {
	Theme string `yaml:"theme"`
	// BreakpointPx is the viewport width below which the layout is mobile.
	BreakpointPx int `yaml:"breakpoint_px"`
	// CellWidthPx converts terminal columns to logical pixels.
	CellWidthPx int `yaml:"cell_width_px"`
	PanelWidth  int `yaml:"panel_width"`
	RailWidth   int `yaml:"rail_width"`
}

type KeybindingsConfig struct {
	ToggleSidebar string `yaml:"toggle_sidebar"`
	ToggleOverlay string `yaml:"toggle_overlay"`
	ResumeSection string `yaml:"resume_section"`
	SetPrimary    string `yaml:"set_primary"`
	DeleteResume  string `yaml:"delete_resume"`
	OpenResume    string `yaml:"open_resume"`
	Upload        string `yaml:"upload"`
	SignInOut     string `yaml:"sign_in_out"`
	Refresh       string `yaml:"refresh"`
	Quit          string `yaml:"quit"`
	Help          string `yaml:"help"`
}

type LoggingConfig struct {
	Enabled bool   `yaml:"enabled"`
	Level   string `yaml:"level"`
	File    string `yaml:"file"`
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			URL:            "ws://localhost:8091/ws",
			TimeoutSeconds: 30,
		},
		UI: UIConfig{
			Theme:        "default",
			BreakpointPx: 768,
			CellWidthPx:  8,
			PanelWidth:   32,
			RailWidth:    6,
		},
		Keybindings: KeybindingsConfig{
			ToggleSidebar: "ctrl+b",
			ToggleOverlay: "m",
			ResumeSection: "r",
			SetPrimary:    "p",
			DeleteResume:  "d",
			OpenResume:    "o",
			Upload:        "u",
			SignInOut:     "s",
			Refresh:       "ctrl+r",
			Quit:          "q",
			Help:          "?",
		},
		Logging: LoggingConfig{
			Enabled: true,
			Level:   "info",
			File:    "$XDG_DATA_HOME/" + xdg.AppName + "/tui.log",
		},
	}
}

func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Determine config file location
	if configPath == "" {
		configPath = filepath.Join(xdg.ConfigHome(), xdg.AppName, "config.yaml")
	}

	// If file doesn't exist, create it with defaults
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		_ = saveDefault(cfg, configPath)
		cfg.Validate()
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.Validate()
	return cfg, nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (c *Config) Validate() {
	if c.UI.BreakpointPx <= 0 {
		c.UI.BreakpointPx = 768
	}
	c.UI.CellWidthPx = clamp(c.UI.CellWidthPx, 1, 32)
	c.UI.PanelWidth = clamp(c.UI.PanelWidth, 20, 60)
	c.UI.RailWidth = clamp(c.UI.RailWidth, 3, 12)

	if c.Server.TimeoutSeconds <= 0 {
		c.Server.TimeoutSeconds = 30
	}

	c.Logging.File = xdg.ExpandPath(c.Logging.File)
}

func saveDefault(cfg *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
