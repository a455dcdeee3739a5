package classify

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
)

func testClassifier(threshold int) *Classifier {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(map[string][]string{
		"ai":         {"Искусственный интеллект", "machine learning", "Machine Learning"},
		"ai_product": {"AI product", "управление продуктом", "product management"},
	}, threshold, log)
}

func TestScore(t *testing.T) {
	c := testClassifier(1)
	tests := []struct {
		text    string
		program string
		want    int
	}{
		{"Программа: искусственный интеллект", "ai", 1},
		{"MACHINE LEARNING and machine learning", "ai", 1},
		{"AI Product management track", "ai_product", 2},
		{"nothing relevant", "ai", 0},
		{"machine learning", "unknown", 0},
	}
	for _, tt := range tests {
		if got := c.Score(tt.text, tt.program); got != tt.want {
			t.Errorf("Score(%q, %q): expected %d, got %d", tt.text, tt.program, tt.want, got)
		}
	}
}

func TestMatches_Threshold(t *testing.T) {
	c := testClassifier(2)
	if c.Matches("Искусственный интеллект", "ai") {
		t.Error("expected a single keyword to miss with threshold 2")
	}
	if !c.Matches("AI product and product management", "ai_product") {
		t.Error("expected two keywords to match with threshold 2")
	}
	if got := New(nil, 0, nil).Threshold(); got != 1 {
		t.Errorf("expected threshold clamped to 1, got %d", got)
	}
}

func TestKeywords(t *testing.T) {
	c := testClassifier(1)
	kws := c.Keywords("ai")
	if len(kws) != 2 || kws[0] != "искусственный интеллект" {
		t.Errorf("expected lower-cased keywords, got %q", kws)
	}
	kws[0] = "mutated"
	if c.Keywords("ai")[0] == "mutated" {
		t.Error("expected Keywords to return a copy")
	}
	if !c.Known("ai") || c.Known("data") {
		t.Error("unexpected Known result")
	}
}

func TestSelect(t *testing.T) {
	c := testClassifier(1)
	texts := map[string]string{
		"a.pdf": "Учебный план. Управление продуктом",
		"b.pdf": "Учебный план. Искусственный интеллект",
		"c.pdf": "Учебный план. Искусственный интеллект",
	}
	load := func(_ context.Context, name string) (string, error) {
		if name == "broken.pdf" {
			return "", errors.New("corrupt")
		}
		return texts[name], nil
	}

	got, err := c.Select(context.Background(), "ai", []string{"broken.pdf", "a.pdf", "b.pdf", "c.pdf"}, load)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "b.pdf" {
		t.Errorf("expected first matching candidate b.pdf, got %q", got)
	}

	got, err = c.Select(context.Background(), "ai_product", []string{"broken.pdf", "b.pdf"}, load)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "broken.pdf" {
		t.Errorf("expected fallback to first candidate, got %q", got)
	}
}

func TestSelect_NoCandidates(t *testing.T) {
	c := testClassifier(1)
	_, err := c.Select(context.Background(), "ai", nil, nil)
	if !errors.Is(err, ErrNoCandidates) {
		t.Errorf("expected ErrNoCandidates, got %v", err)
	}
}

func TestSelect_Cancelled(t *testing.T) {
	c := testClassifier(1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	load := func(context.Context, string) (string, error) { return "", nil }
	if _, err := c.Select(ctx, "ai", []string{"a.pdf"}, load); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
