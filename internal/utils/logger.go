package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// RunLogger writes one log file per run (plus stdout) under
// logs/<name>/, e.g. for a sitemap check against one host.
type RunLogger struct {
	zerolog.Logger
	file *os.File
	path string
}

func NewRunLogger(dir, name string, pretty bool) (*RunLogger, error) {
	// Sanitize name for file system
	sanitized := strings.NewReplacer(" ", "_", ":", "_", "/", "_").Replace(strings.ToLower(name))

	runDir := filepath.Join(dir, sanitized)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	timestamp := time.Now().Format("2006-01-02_15-04-05")
	logPath := filepath.Join(runDir, fmt.Sprintf("check_%s_%s.log", sanitized, timestamp))

	file, err := os.Create(logPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}

	var console io.Writer = os.Stdout
	if pretty {
		console = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05"}
	}

	return &RunLogger{
		Logger: zerolog.New(io.MultiWriter(console, file)).With().Timestamp().Logger(),
		file:   file,
		path:   logPath,
	}, nil
}

// Path returns the log file location.
func (rl *RunLogger) Path() string {
	return rl.path
}

func (rl *RunLogger) Close() error {
	return rl.file.Close()
}
