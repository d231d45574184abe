package config

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestJSONLoggerLevels(t *testing.T) {
	tests := []struct {
		debug bool
		want  int
	}{
		{false, 1},
		{true, 2},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		l := newJSONLogger(&buf, tt.debug)
		l.Debug("tick", slog.Int("n", 1))
		l.Info("phase start", slog.String("phase", "menu"))

		lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
		if len(lines) != tt.want {
			t.Fatalf("debug=%v: %d lines, want %d", tt.debug, len(lines), tt.want)
		}
		var entry map[string]any
		if err := json.Unmarshal(lines[len(lines)-1], &entry); err != nil {
			t.Fatalf("not JSON: %s", lines[len(lines)-1])
		}
		if entry["msg"] != "phase start" || entry["phase"] != "menu" {
			t.Errorf("entry = %v", entry)
		}
	}
}
