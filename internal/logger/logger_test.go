package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitCreatesLogFile(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "config")

	if err := Init(Config{ConfigDir: configDir}); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	t.Cleanup(func() { Logger = nil })

	if Logger == nil {
		t.Fatal("Logger is nil after initialization")
	}

	Info("habit synced", "habit_id", "h1")

	logFile := filepath.Join(configDir, "logs", "habitual.log")
	data, err := os.ReadFile(logFile)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), "habit synced") {
		t.Errorf("log file missing message, got %q", string(data))
	}
}

func TestDebugFilteredWithoutDebugFlag(t *testing.T) {
	configDir := t.TempDir()

	if err := Init(Config{ConfigDir: configDir}); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	t.Cleanup(func() { Logger = nil })

	Debug("hidden detail")
	Warn("visible warning")

	data, err := os.ReadFile(filepath.Join(configDir, "logs", "habitual.log"))
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if strings.Contains(string(data), "hidden detail") {
		t.Error("debug message written without debug flag")
	}
	if !strings.Contains(string(data), "visible warning") {
		t.Error("warning message missing")
	}
}

func TestSetUserTagsRecords(t *testing.T) {
	configDir := t.TempDir()
	if err := Init(Config{ConfigDir: configDir}); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	t.Cleanup(func() { Logger = nil })

	if Path() != filepath.Join(configDir, "logs", "habitual.log") {
		t.Errorf("Path() = %q", Path())
	}

	SetUser("u-42")
	Info("tracked")
	SetUser("")
	Info("signed out")

	data, err := os.ReadFile(Path())
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 records, got %q", string(data))
	}
	if !strings.Contains(lines[0], "user_id=u-42") {
		t.Errorf("first record not tagged: %q", lines[0])
	}
	if strings.Contains(lines[1], "user_id") {
		t.Errorf("tag survived SetUser(\"\"): %q", lines[1])
	}
}

func TestNilLoggerIsSafe(t *testing.T) {
	Logger = nil
	Debug("x")
	Info("x")
	Warn("x")
	Error("x")
	SetUser("x")
}
