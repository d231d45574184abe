package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// LogTimeFormat names log files.
const LogTimeFormat = "20060102_150405"

// NewLogger opens logDir/<timestamp>.log and returns a JSON-lines logger on
// it. Debug entries are kept only in debug mode. Close the returned closer
// when the game exits.
func NewLogger(logDir string, debug bool) (*slog.Logger, io.Closer, error) {
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("config: log dir: %w", err)
	}
	name := filepath.Join(logDir, time.Now().Format(LogTimeFormat)+".log")
	f, err := os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("config: open log: %w", err)
	}
	return newJSONLogger(f, debug), f, nil
}

func newJSONLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}
