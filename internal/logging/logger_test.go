package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestLevelFromString(t *testing.T) {
	cases := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"info", zapcore.InfoLevel},
		{"warn", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"verbose", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
	}
	for _, tc := range cases {
		if got := LevelFromString(tc.in); got != tc.want {
			t.Errorf("LevelFromString(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestNewLoggerWritesJSONToFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	logger, err := NewLogger(&Config{
		LogDir:    dir,
		FileLevel: zapcore.InfoLevel,
	})
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}

	logger.Info("page updated", String("id", "123"), Int("version", 4))
	logger.Debug("below file level", String("id", "123"))
	logger.Sync()

	data, err := os.ReadFile(filepath.Join(dir, logFileName))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 1 {
		t.Fatalf("entries = %d, want 1:\n%s", len(lines), data)
	}

	var entry map[string]interface{}
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("entry is not JSON: %v\n%s", err, lines[0])
	}
	if entry["msg"] != "page updated" || entry["id"] != "123" {
		t.Errorf("entry fields wrong: %v", entry)
	}
	if _, ok := entry["timestamp"]; !ok {
		t.Errorf("entry missing timestamp: %v", entry)
	}
}

func TestNewLoggerAppends(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	cfg := &Config{LogDir: dir, FileLevel: zapcore.InfoLevel}

	first, err := NewLogger(cfg)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	first.Info("first run")
	first.Sync()

	second, err := NewLogger(cfg)
	if err != nil {
		t.Fatalf("NewLogger reopen: %v", err)
	}
	second.Info("second run")
	second.Sync()

	data, err := os.ReadFile(cfg.LogFile())
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "first run") || !strings.Contains(string(data), "second run") {
		t.Errorf("reopen truncated the log:\n%s", data)
	}
}

func TestWithAttachesFields(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	logger, err := NewLogger(&Config{LogDir: dir, FileLevel: zapcore.InfoLevel})
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}

	logger.With(String("space", "DEV")).Info("listed pages")
	logger.Sync()

	data, err := os.ReadFile(filepath.Join(dir, logFileName))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), `"space":"DEV"`) {
		t.Errorf("child field missing:\n%s", data)
	}
}

func TestNewNopLogger(t *testing.T) {
	logger := NewNopLogger()
	logger.Info("discarded")
	logger.Error("also discarded", Error(os.ErrNotExist))
	if err := logger.Sync(); err != nil {
		t.Errorf("Sync: %v", err)
	}
}
