package logger

import (
	"os"
	"path/filepath"
	"testing"
)

func TestInit(t *testing.T) {
	dataDir := filepath.Join(t.TempDir(), "data")

	if err := Init(Config{DataDir: dataDir}); err != nil {
		t.Fatalf("Init: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dataDir, "logs")); os.IsNotExist(err) {
		t.Errorf("log directory was not created")
	}
	if Logger == nil {
		t.Fatal("Logger is nil after Init")
	}

	Debug("debug message")
	Info("info message", "key", "value")
	Warn("warn message")
	Error("error message", "error", os.ErrNotExist)
}

func TestHelpersWithoutInit(t *testing.T) {
	saved := Logger
	Logger = nil
	defer func() { Logger = saved }()

	// must not panic
	Debug("x")
	Info("x")
	Warn("x")
	Error("x")
}
