package source

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/dgallion1/curricula/internal/classify"
	"github.com/dgallion1/curricula/internal/docreader"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func testLibrary(dir string) *Library {
	c := classify.New(map[string][]string{
		"ai":         {"искусственный интеллект", "artificial intelligence"},
		"ai_product": {"ai product", "product management"},
	}, 1, testLogger())
	return NewLibrary(dir, c, docreader.Options{}, 1, testLogger())
}

func TestStandardNames(t *testing.T) {
	want := []string{"ai_curriculum.pdf", "ai.pdf", "curriculum_ai.pdf"}
	got := StandardNames("ai")
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("name[%d]: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestFind_StandardNameWins(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a_first.txt", "Artificial Intelligence")
	want := writeFile(t, dir, "curriculum_ai.pdf", "not inspected")

	got, err := testLibrary(dir).Find(context.Background(), "ai")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestFind_ClassifiesByLeadingPages(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "1.txt", "Master's program\nAI Product\fother page")
	// The keyword is on the second page, outside the one-page window.
	writeFile(t, dir, "2.txt", "Master's program\fArtificial Intelligence")
	want := writeFile(t, dir, "3.txt", "Curriculum: Artificial Intelligence\fpage two")
	writeFile(t, dir, "notes.xlsx", "Artificial Intelligence")

	lib := testLibrary(dir)
	cands, err := lib.Candidates("ai")
	if err != nil {
		t.Fatal(err)
	}
	if len(cands) != 3 {
		t.Fatalf("expected 3 supported candidates, got %d", len(cands))
	}

	got, err := lib.Find(context.Background(), "ai")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestFind_FallsBackToFirstCandidate(t *testing.T) {
	dir := t.TempDir()
	want := writeFile(t, dir, "a.txt", "unrelated")
	writeFile(t, dir, "b.txt", "also unrelated")

	got, err := testLibrary(dir).Find(context.Background(), "ai")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != want {
		t.Errorf("expected first candidate %q, got %q", want, got)
	}
}

func TestFind_NotFound(t *testing.T) {
	for _, dir := range []string{t.TempDir(), filepath.Join(t.TempDir(), "missing")} {
		_, err := testLibrary(dir).Find(context.Background(), "ai")
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("%s: expected ErrNotFound, got %v", dir, err)
		}
	}
}
