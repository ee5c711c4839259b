// ABOUTME: Entry point for the resumedeck terminal client
// ABOUTME: Loads configuration, connects to the resume server and starts the Bubbletea application
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/harper/resumedeck/internal/logger"
	"github.com/harper/resumedeck/internal/tui"
	"github.com/harper/resumedeck/internal/tui/client"
	"github.com/harper/resumedeck/internal/tui/config"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	configPath := flag.String("config", "", "path to config file (default: XDG config home)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("resumedeck %s (built %s)\n", version, buildTime)
		return
	}

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	closeLog, err := setupLogging(cfg.Logging)
	if err != nil {
		return err
	}
	defer closeLog()

	rpc := client.NewRPCClient(cfg.Server.URL, time.Duration(cfg.Server.TimeoutSeconds)*time.Second)
	m := tui.NewModel(cfg, rpc, client.NewSystemOpener())

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

// setupLogging sends log output to the configured file. The alt screen owns
// stderr, so logging is discarded when it is disabled.
func setupLogging(cfg config.LoggingConfig) (func(), error) {
	if !cfg.Enabled || cfg.File == "" {
		logger.SetOutput(io.Discard)
		return func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.File), 0755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	logger.SetOutput(f)
	logger.SetVerbose(strings.EqualFold(cfg.Level, "debug"))
	return func() { _ = f.Close() }, nil
}
