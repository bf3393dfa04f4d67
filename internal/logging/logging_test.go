package logging_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/raysh454/phishview/internal/logging"
)

func TestLogrusLogger_WritesJSONWithComponentAndFields(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	logger := logging.New(logging.Options{Component: "server", Level: "debug", Output: &buf})

	logger.Info("submitted", logging.Field{Key: "seq", Value: 3})

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line: %v (%q)", err, buf.String())
	}
	if entry["msg"] != "submitted" {
		t.Errorf("expected msg 'submitted', got %v", entry["msg"])
	}
	if entry["component"] != "server" {
		t.Errorf("expected component 'server', got %v", entry["component"])
	}
	if entry["seq"] != float64(3) {
		t.Errorf("expected seq 3, got %v", entry["seq"])
	}
	if entry["level"] != "info" {
		t.Errorf("expected level info, got %v", entry["level"])
	}
}

func TestLogrusLogger_LevelFiltering(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	logger := logging.New(logging.Options{Level: "warn", Output: &buf})

	logger.Debug("hidden")
	logger.Info("hidden too")
	logger.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("expected debug/info to be filtered, got %q", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("expected warn line, got %q", out)
	}
}

func TestLogrusLogger_UnknownLevelFallsBackToInfo(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	logger := logging.New(logging.Options{Level: "chatty", Output: &buf})

	logger.Debug("nope")
	logger.Info("yes")

	if strings.Contains(buf.String(), "nope") || !strings.Contains(buf.String(), "yes") {
		t.Errorf("unexpected output for fallback level: %q", buf.String())
	}
}

func TestLogrusLogger_WithKeepsPersistentFields(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	logger := logging.New(logging.Options{Output: &buf}).With(logging.Field{Key: "session", Value: "abc"})

	logger.Error("boom")

	if !strings.Contains(buf.String(), `"session":"abc"`) {
		t.Errorf("expected persistent field in %q", buf.String())
	}
}

func TestNop_DiscardsEverything(t *testing.T) {
	t.Parallel()
	l := logging.Nop()
	l.Info("x")
	if l.With(logging.Field{Key: "k", Value: 1}) == nil {
		t.Fatal("With returned nil")
	}
}
