// Package debug provides conditional diagnostic logging.
//
// Logging is enabled by setting MINDMAP_DEBUG or passing --debug. The
// terminal UI owns the screen, so output goes to a file:
//
//	MINDMAP_DEBUG=1 MINDMAP_DEBUG_FILE=/tmp/mindmap.log mindmap notes.mind
//
// When disabled, every function is a no-op.
package debug

import (
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	EnvEnabled = "MINDMAP_DEBUG"
	EnvFile    = "MINDMAP_DEBUG_FILE"
)

var (
	mu      sync.RWMutex
	enabled bool
	logger  = newLogger(io.Discard)
	file    *os.File
)

func init() {
	if os.Getenv(EnvEnabled) != "" {
		SetEnabled(true)
	}
}

func newLogger(w io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(logrus.DebugLevel)
	l.SetFormatter(&logrus.TextFormatter{
		DisableColors:   true,
		FullTimestamp:   true,
		TimestampFormat: "15:04:05.000000",
	})
	return l
}

// DefaultPath is the log file used when MINDMAP_DEBUG_FILE is unset.
func DefaultPath() string {
	if p := os.Getenv(EnvFile); p != "" {
		return p
	}
	state := os.Getenv("XDG_STATE_HOME")
	if state == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(os.TempDir(), "mindmap-debug.log")
		}
		state = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(state, "mindmap", "debug.log")
}

// Enabled returns whether debug logging is enabled.
func Enabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return enabled
}

// SetEnabled turns logging on or off. Enabling without an explicit output
// opens DefaultPath for appending.
func SetEnabled(e bool) {
	mu.Lock()
	defer mu.Unlock()
	enabled = e
	if !e || logger.Out != io.Discard {
		return
	}
	path := DefaultPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return
	}
	file = f
	logger.SetOutput(f)
}

// SetOutput redirects log output, closing a file opened by SetEnabled.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if file != nil {
		file.Close()
		file = nil
	}
	logger.SetOutput(w)
}

// Log writes a printf-style debug message.
func Log(format string, args ...any) {
	if !Enabled() {
		return
	}
	logger.Debugf(format, args...)
}

// LogTiming records how long name took.
func LogTiming(name string, d time.Duration) {
	if !Enabled() {
		return
	}
	logger.WithFields(logrus.Fields{"op": name, "took": d}).Debug("timing")
}

// LogIf writes a debug message only if cond holds.
func LogIf(cond bool, format string, args ...any) {
	if !cond {
		return
	}
	Log(format, args...)
}

// WithFields returns an entry for structured messages. Entries created while
// disabled discard their output.
func WithFields(fields map[string]any) *logrus.Entry {
	if !Enabled() {
		return logrus.NewEntry(newLogger(io.Discard))
	}
	return logger.WithFields(logrus.Fields(fields))
}
