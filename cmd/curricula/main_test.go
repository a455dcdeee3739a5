package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dgallion1/curricula/internal/curriculum"
)

const sampleText = `Master's program Artificial Intelligence
Block 1. Disciplines (modules) 60 2160
Required courses. 1 semester 15 540
1 Machine Learning Fundamentals 5 180
1, 2 Research Seminar 3 108
`

// execute runs the root command with args and returns its stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func sampleFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plan.txt")
	if err := os.WriteFile(path, []byte(sampleText), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseCommand_JSON(t *testing.T) {
	out, err := execute(t, "parse", "--explain=false", "--text=false", sampleFile(t))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	var doc curriculum.Document
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if doc.TotalCredits != 60 || doc.TotalCourses != 3 {
		t.Errorf("unexpected document: %+v", doc)
	}
}

func TestParseCommand_Explain(t *testing.T) {
	out, err := execute(t, "parse", "--explain=true", "--text=false", sampleFile(t))
	if err != nil {
		t.Fatalf("parse --explain: %v", err)
	}
	for _, want := range []string{
		"program: Master's program Artificial Intelligence",
		"[discipline] Block 1. Disciplines (modules) (60 credits / 2160 hours)",
		"single-semester",
		"semester-list",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestParseCommand_MissingFile(t *testing.T) {
	if _, err := execute(t, "parse", "--explain=false", "--text=false", filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestClassifyCommand(t *testing.T) {
	path := sampleFile(t)
	out, err := execute(t, "classify", "--program", "ai", path)
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if !strings.Contains(out, "\tai\t") || !strings.HasSuffix(strings.TrimSpace(out), "match") {
		t.Errorf("unexpected output: %q", out)
	}

	if _, err := execute(t, "classify", "--program", "law", path); err == nil {
		t.Error("expected error for program without keywords")
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if out != "curricula dev\n" {
		t.Errorf("expected %q, got %q", "curricula dev\n", out)
	}
}

func TestWriteExplain_NoHeaders(t *testing.T) {
	var buf bytes.Buffer
	p := curriculum.NewParser(curriculum.DefaultRules())
	if err := writeExplain(&buf, p, "just some prose\nwithout structure"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "no block headers found") {
		t.Errorf("unexpected output: %q", buf.String())
	}
}
