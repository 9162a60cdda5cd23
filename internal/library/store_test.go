package library

import (
	"path/filepath"
	"testing"

	"github.com/xonecas/rmatch/internal/match"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenStore(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatalf("OpenStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreReplaceAndComplete(t *testing.T) {
	store := openTestStore(t)

	entries := []match.Entry{
		{Word: "filter", Kind: "function", Pkg: "dplyr", Snippet: "filter(${1:.data})",
			Args: []match.Entry{{Word: ".data", Kind: "argument", Snippet: ".data = $1"}}},
		{Word: "first", Kind: "function", Pkg: "dplyr", Snippet: "first(${1:x})"},
		{Word: "mutate", Kind: "function", Pkg: "dplyr", Snippet: "mutate(${1:.data})"},
	}
	if err := store.ReplaceSource("omnils_dplyr_1.1.4", entries); err != nil {
		t.Fatalf("ReplaceSource: %v", err)
	}

	got, err := store.Complete("fi", 0)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 matches for \"fi\", got %d", len(got))
	}

	// Insertion order is preserved.
	if got[0].Word != "filter" || got[1].Word != "first" {
		t.Errorf("order: %q, %q", got[0].Word, got[1].Word)
	}

	// Argument sub-entries survive the round trip.
	if len(got[0].Args) != 1 || got[0].Args[0].Word != ".data" {
		t.Errorf("args round trip: %+v", got[0].Args)
	}
	if len(got[1].Args) != 0 {
		t.Errorf("unexpected args: %+v", got[1].Args)
	}
}

func TestStoreReplaceSwapsSource(t *testing.T) {
	store := openTestStore(t)

	old := []match.Entry{{Word: "old_fn", Kind: "function"}}
	if err := store.ReplaceSource("omnils_pkg_1.0", old); err != nil {
		t.Fatalf("ReplaceSource: %v", err)
	}

	fresh := []match.Entry{{Word: "new_fn", Kind: "function"}}
	if err := store.ReplaceSource("omnils_pkg_1.0", fresh); err != nil {
		t.Fatalf("ReplaceSource: %v", err)
	}

	got, err := store.Complete("", 0)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if len(got) != 1 || got[0].Word != "new_fn" {
		t.Errorf("replace did not swap entries: %+v", got)
	}

	// Clearing with nil drops the source entirely.
	if err := store.ReplaceSource("omnils_pkg_1.0", nil); err != nil {
		t.Fatalf("ReplaceSource(nil): %v", err)
	}
	n, err := store.Count()
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 0 {
		t.Errorf("expected empty index, got %d entries", n)
	}
}

func TestStoreCompleteLimit(t *testing.T) {
	store := openTestStore(t)

	entries := []match.Entry{
		{Word: "aaa"}, {Word: "aab"}, {Word: "aac"},
	}
	if err := store.ReplaceSource("omnils_x_1.0", entries); err != nil {
		t.Fatalf("ReplaceSource: %v", err)
	}

	got, err := store.Complete("aa", 2)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("limit ignored: got %d entries", len(got))
	}
}

func TestEscapeLike(t *testing.T) {
	store := openTestStore(t)

	entries := []match.Entry{
		{Word: "x_y"},
		{Word: "xzy"},
	}
	if err := store.ReplaceSource("omnils_x_1.0", entries); err != nil {
		t.Fatalf("ReplaceSource: %v", err)
	}

	// `_` must match literally, not as a LIKE wildcard.
	got, err := store.Complete("x_", 0)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if len(got) != 1 || got[0].Word != "x_y" {
		t.Errorf("underscore prefix matched: %+v", got)
	}
}
