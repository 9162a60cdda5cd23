package library

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/xonecas/rmatch/internal/match"
)

func writeCacheFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestLoadAll(t *testing.T) {
	dir := t.TempDir()
	writeCacheFile(t, dir, "omnils_dplyr_1.1.4",
		"filter\x06function\x06\x06dplyr\x06.data\t...\n"+
			"mutate\x06function\x06\x06dplyr\x06.data\t...\n")
	writeCacheFile(t, dir, "pkg_descriptions",
		"dplyr\tA Grammar of Data Manipulation\n")
	writeCacheFile(t, dir, "unrelated.txt", "ignore me\n")

	store := openTestStore(t)
	lib := New(dir, match.NewBuilder(match.DefaultColumns), store)
	if err := lib.LoadAll(); err != nil {
		t.Fatalf("LoadAll: %v", err)
	}

	n, err := store.Count()
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 3 {
		t.Errorf("expected 3 indexed entries, got %d", n)
	}

	got, err := store.Complete("dplyr", 0)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if len(got) != 1 || got[0].Snippet != "dplyr::$1" {
		t.Errorf("package entry: %+v", got)
	}
}

func TestLoadAllMissingDir(t *testing.T) {
	store := openTestStore(t)
	lib := New(filepath.Join(t.TempDir(), "absent"), match.NewBuilder(match.DefaultColumns), store)
	if err := lib.LoadAll(); err == nil {
		t.Error("missing directory should fail")
	}
}

func TestLoadFileReplacesPrevious(t *testing.T) {
	dir := t.TempDir()
	writeCacheFile(t, dir, "omnils_pkg_1.0",
		"old_fn\x06function\x06\x06pkg\x06x\n")

	store := openTestStore(t)
	lib := New(dir, match.NewBuilder(match.DefaultColumns), store)
	if err := lib.LoadAll(); err != nil {
		t.Fatalf("LoadAll: %v", err)
	}

	// The R session rewrites the file after a package update.
	writeCacheFile(t, dir, "omnils_pkg_1.0",
		"new_fn\x06function\x06\x06pkg\x06x\n")
	if err := lib.loadFile("omnils_pkg_1.0"); err != nil {
		t.Fatalf("loadFile: %v", err)
	}

	got, err := store.Complete("", 0)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if len(got) != 1 || got[0].Word != "new_fn" {
		t.Errorf("stale entries survived reload: %+v", got)
	}
}

func TestIsCacheFile(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"omnils_dplyr_1.1.4", true},
		{"pkg_descriptions", true},
		{"omnils_", true},
		{"descriptions", false},
		{"fun_names", false},
		{".omnils_swap", false},
	}
	for _, tt := range tests {
		if got := isCacheFile(tt.name); got != tt.want {
			t.Errorf("isCacheFile(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
