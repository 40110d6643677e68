package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitializeDisabledWritesNothing(t *testing.T) {
	workspace := t.TempDir()
	if err := Initialize(workspace, Settings{DebugMode: false}); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	defer CloseAll()

	Mates("this should go nowhere")

	if _, err := os.Stat(filepath.Join(workspace, ".robomend", "logs")); !os.IsNotExist(err) {
		t.Error("logs directory should not exist in production mode")
	}
}

func TestInitializeDebugWritesCategoryFiles(t *testing.T) {
	workspace := t.TempDir()
	if err := Initialize(workspace, Settings{DebugMode: true, Level: "debug"}); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	defer CloseAll()

	Mates("rename applied")
	Links("removal applied")
	CloseAll()

	entries, err := os.ReadDir(filepath.Join(workspace, ".robomend", "logs"))
	if err != nil {
		t.Fatalf("reading logs dir: %v", err)
	}

	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	joined := strings.Join(names, " ")
	for _, want := range []string{"mates", "links", "boot"} {
		if !strings.Contains(joined, want) {
			t.Errorf("expected a %s log file, got %v", want, names)
		}
	}
}

func TestCategoryFilter(t *testing.T) {
	workspace := t.TempDir()
	err := Initialize(workspace, Settings{
		DebugMode:  true,
		Level:      "info",
		Categories: map[string]bool{"watch": false},
	})
	if err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	defer CloseAll()

	if IsCategoryEnabled(CategoryWatch) {
		t.Error("watch category should be disabled")
	}
	if !IsCategoryEnabled(CategoryMates) {
		t.Error("unlisted categories default to enabled")
	}

	// Disabled categories log to a no-op logger without error.
	Watch("dropped on the floor")
}

func TestInitializeRequiresWorkspace(t *testing.T) {
	if err := Initialize("", Settings{}); err == nil {
		t.Error("expected error for empty workspace")
	}
}
