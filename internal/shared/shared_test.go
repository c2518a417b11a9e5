package shared

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestHelpers(t *testing.T) {
	t.Run("FormatDuration", func(t *testing.T) {
		cases := map[int]string{0: "-", -3: "-", 5: "0:05", 185: "3:05", 600: "10:00"}
		for in, want := range cases {
			if got := FormatDuration(in); got != want {
				t.Errorf("FormatDuration(%d) = %q, want %q", in, got, want)
			}
		}
	})

	t.Run("MarshalJSON", func(t *testing.T) {
		compact, err := MarshalJSON(map[string]int{"a": 1}, false)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if string(compact) != `{"a":1}` {
			t.Errorf("unexpected compact output %s", compact)
		}

		pretty, err := MarshalJSON(map[string]int{"a": 1}, true)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(string(pretty), "\n  \"a\": 1") {
			t.Errorf("expected indented output, got %s", pretty)
		}

		if _, err := MarshalJSON(make(chan int), false); err == nil {
			t.Error("expected error for non-serializable value")
		}
	})

	t.Run("ExpandHome", func(t *testing.T) {
		home, err := os.UserHomeDir()
		if err != nil {
			t.Skip("no home directory")
		}
		if got := ExpandHome("~/.ytlikes/browser.json"); got != filepath.Join(home, ".ytlikes", "browser.json") {
			t.Errorf("unexpected expansion %s", got)
		}
		if got := ExpandHome("/abs/path"); got != "/abs/path" {
			t.Errorf("absolute path should be unchanged, got %s", got)
		}
	})

	t.Run("NewFileLogger", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "logs", "tui.log")

		logger, err := NewFileLogger(path)
		if err != nil {
			t.Fatalf("NewFileLogger() error = %v", err)
		}
		logger.Info("hello", "run", 1)

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read log file: %v", err)
		}
		if !strings.Contains(string(data), "hello") || !strings.Contains(string(data), "run=1") {
			t.Errorf("log file missing entry, got %q", data)
		}
	})

	t.Run("GenerateID", func(t *testing.T) {
		a, b := GenerateID(), GenerateID()
		if a == b || len(a) != 36 {
			t.Errorf("expected distinct uuids, got %s and %s", a, b)
		}
	})
}
