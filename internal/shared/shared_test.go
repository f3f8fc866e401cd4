package shared

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

func TestLogger(t *testing.T) {
	t.Run("NewLogger writes to the given writer", func(t *testing.T) {
		var buf bytes.Buffer
		l := NewLogger(&buf)
		l.Info("hello", "recipe", 42)

		if !strings.Contains(buf.String(), "hello") {
			t.Errorf("expected log output to contain message, got %q", buf.String())
		}
		if !strings.Contains(buf.String(), "recipe=42") {
			t.Errorf("expected log output to contain key/value, got %q", buf.String())
		}
	})

	t.Run("SetLogLevel filters lower levels", func(t *testing.T) {
		var buf bytes.Buffer
		l := NewLogger(&buf)
		SetLogLevel(l, log.WarnLevel)
		l.Info("quiet")

		if buf.Len() != 0 {
			t.Errorf("expected no output below warn level, got %q", buf.String())
		}
	})

	t.Run("NewFileLogger creates parent directories", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "tui.log")
		l, err := NewFileLogger(path)
		if err != nil {
			t.Fatalf("NewFileLogger() error = %v", err)
		}
		l.Info("written")

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read log file: %v", err)
		}
		if !strings.Contains(string(data), "written") {
			t.Errorf("expected log file to contain message, got %q", string(data))
		}
	})
}

func TestGenerateID(t *testing.T) {
	a, b := GenerateID(), GenerateID()
	if a == b {
		t.Error("expected distinct ids")
	}
	if _, err := uuid.Parse(a); err != nil {
		t.Errorf("expected a valid uuid, got %q: %v", a, err)
	}
}

func TestMarshalJSON(t *testing.T) {
	compact, err := MarshalJSON(map[string]int{"a": 1}, false)
	if err != nil || string(compact) != `{"a":1}` {
		t.Errorf("MarshalJSON() = %s, %v", compact, err)
	}

	pretty, err := MarshalJSON(map[string]int{"a": 1}, true)
	if err != nil || string(pretty) != "{\n  \"a\": 1\n}" {
		t.Errorf("MarshalJSON(pretty) = %q, %v", pretty, err)
	}
}

func TestFormatMinutes(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, "0 min"},
		{45, "45 min"},
		{60, "1 h 00"},
		{125, "2 h 05"},
	}
	for _, tt := range tests {
		if got := FormatMinutes(tt.in); got != tt.want {
			t.Errorf("FormatMinutes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
