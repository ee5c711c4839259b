// ABOUTME: Opens resume download URLs with the platform's default handler
// ABOUTME: xdg-open on Linux and BSD, open on macOS, rundll32 on Windows

package client

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
)

type SystemOpener struct {
	goos  string
	start func(name string, args ...string) error
}

func NewSystemOpener() *SystemOpener {
	return &SystemOpener{
		goos: runtime.GOOS,
		start: func(name string, args ...string) error {
			_, err := startDetached(name, args...)
			return err
		},
	}
}

// startDetached starts the handler and reaps it in the background.
// The returned channel yields the exit result once the process is gone.
func startDetached(name string, args ...string) (<-chan error, error) {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()
	return done, nil
}

func (o *SystemOpener) Open(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("refusing to open %q", raw)
	}

	var name string
	var args []string
	switch o.goos {
	case "darwin":
		name = "open"
		args = []string{raw}
	case "windows":
		name = "rundll32"
		args = []string{"url.dll,FileProtocolHandler", raw}
	default:
		name = "xdg-open"
		args = []string{raw}
	}
	if err := o.start(name, args...); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}
