// ABOUTME: Leveled logging with verbosity control and component-scoped prefixes
// ABOUTME: Shared by the resume service and the TUI (which redirects output to a file)

package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
)

var (
	mu      sync.RWMutex
	verbose           = false
	output  io.Writer = os.Stderr
)

// SetVerbose enables or disables verbose (DEBUG) logging
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns current verbose setting
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output destination for logs. nil restores stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if w == nil {
		w = os.Stderr
	}
	output = w
	log.SetOutput(w)
}

// Output returns the current log destination.
func Output() io.Writer {
	mu.RLock()
	defer mu.RUnlock()
	return output
}

func emit(level, prefix, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if prefix != "" {
		log.Printf("[%s] %s: %s", level, prefix, msg)
		return
	}
	log.Printf("[%s] %s", level, msg)
}

// Debug logs at DEBUG level (only shown when verbose)
func Debug(format string, args ...interface{}) {
	if IsVerbose() {
		emit("DEBUG", "", format, args...)
	}
}

// Info logs at INFO level (always shown)
func Info(format string, args ...interface{}) {
	emit("INFO", "", format, args...)
}

// Warn logs at WARN level (always shown)
func Warn(format string, args ...interface{}) {
	emit("WARN", "", format, args...)
}

// Error logs at ERROR level (always shown)
func Error(format string, args ...interface{}) {
	emit("ERROR", "", format, args...)
}

// Logger prefixes every line with a component name, e.g. "[WARN] sync: ...".
type Logger struct {
	component string
}

// Named returns a logger scoped to a component.
func Named(component string) Logger {
	return Logger{component: component}
}

func (l Logger) Debug(format string, args ...interface{}) {
	if IsVerbose() {
		emit("DEBUG", l.component, format, args...)
	}
}

func (l Logger) Info(format string, args ...interface{}) {
	emit("INFO", l.component, format, args...)
}

func (l Logger) Warn(format string, args ...interface{}) {
	emit("WARN", l.component, format, args...)
}

func (l Logger) Error(format string, args ...interface{}) {
	emit("ERROR", l.component, format, args...)
}
