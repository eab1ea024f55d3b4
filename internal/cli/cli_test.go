package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

type harness struct {
	t  *testing.T
	db string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	return &harness{t: t, db: filepath.Join(dir, "cards.db")}
}

// run executes the CLI with stdin and returns stdout, stderr and the exit code.
func (h *harness) run(stdin string, args ...string) (string, string, int) {
	h.t.Helper()
	var out, errOut bytes.Buffer
	streams := IO{In: strings.NewReader(stdin), Out: &out, ErrOut: &errOut}
	code := Execute(context.Background(), append([]string{"--db", h.db}, args...), streams)
	return out.String(), errOut.String(), code
}

func (h *harness) mustRun(args ...string) string {
	h.t.Helper()
	out, errOut, code := h.run("", args...)
	if code != 0 {
		h.t.Fatalf("%v exited %d: %s", args, code, errOut)
	}
	return out
}

func TestAddAndList(t *testing.T) {
	h := newHarness(t)

	if out := h.mustRun("ls"); out != "No cards created yet\n" {
		t.Errorf("Expected the empty message, got %q", out)
	}

	if out := h.mustRun("add", "2+2", "4"); out != "Added card #0\n" {
		t.Errorf("Unexpected add output %q", out)
	}
	h.mustRun("add", "capital of France", "Paris")
	h.mustRun("add", "colour of the sky", "blue")

	out := h.mustRun("ls")
	want := "#0: 2+2 --> 4\n#1: capital of France --> Paris\n#2: colour of the sky --> blue\n"
	if out != want {
		t.Errorf("Expected\n%s\ngot\n%s", want, out)
	}

	if out := h.mustRun("ls", "--limit", "1"); out != "#0: 2+2 --> 4\n" {
		t.Errorf("Expected one card with --limit 1, got %q", out)
	}
	if out := h.mustRun("ls", "--limit", "0"); out != "" {
		t.Errorf("Expected no output with --limit 0, got %q", out)
	}
}

func TestAddRejectsEmpty(t *testing.T) {
	h := newHarness(t)
	_, errOut, code := h.run("", "add", " ", "x")
	if code == 0 || !strings.Contains(errOut, "must not be empty") {
		t.Errorf("Expected a usage error, got code %d: %s", code, errOut)
	}
}

func TestRemove(t *testing.T) {
	h := newHarness(t)
	h.mustRun("add", "a", "1")
	h.mustRun("add", "b", "2")

	if out := h.mustRun("rm", "7"); out != "Removed 0 card(s)\n" {
		t.Errorf("Unexpected output for a missing id: %q", out)
	}
	if out := h.mustRun("rm", "0", "7"); out != "Removed 1 card(s)\n" {
		t.Errorf("Unexpected output: %q", out)
	}
	if out := h.mustRun("ls"); out != "#1: b --> 2\n" {
		t.Errorf("Expected only card 1 to remain, got %q", out)
	}
	if out := h.mustRun("add", "c", "3"); out != "Added card #2\n" {
		t.Errorf("Expected ids not to be reused, got %q", out)
	}

	if _, _, code := h.run("", "rm", "abc"); code == 0 {
		t.Error("Expected a non-numeric id to fail")
	}
}

func TestSearch(t *testing.T) {
	h := newHarness(t)
	h.mustRun("add", "apple pie", "dessert")
	h.mustRun("add", "apple", "fruit")

	if out := h.mustRun("search", "apple", "pie"); out != "#0: apple pie --> dessert\n" {
		t.Errorf("Expected AND semantics, got %q", out)
	}
	if out := h.mustRun("search", "apple"); strings.Count(out, "\n") != 2 {
		t.Errorf("Expected two matches, got %q", out)
	}
	if out := h.mustRun("search", "--limit", "1", "apple"); out != "#0: apple pie --> dessert\n" {
		t.Errorf("Expected the limit to apply, got %q", out)
	}
	if out := h.mustRun("search", "banana"); out != "Found no matches\n" {
		t.Errorf("Expected the no-match message, got %q", out)
	}
}

func TestQuiz(t *testing.T) {
	h := newHarness(t)

	if out := h.mustRun("quiz"); out != "Nothing due for review\n" {
		t.Errorf("Expected nothing due on an empty store, got %q", out)
	}

	h.mustRun("add", "2+2", "4")
	h.mustRun("add", "capital of France", "Paris")

	out, errOut, code := h.run("\nyes\n\nmaybe\n", "quiz", "--box", "never")
	if code != 0 {
		t.Fatalf("quiz exited %d: %s", code, errOut)
	}
	for _, want := range []string{"QUESTION : 2+2", "ANSWER : 4", "Unrecognized response \"maybe\"", "Session complete: 1 reviewed, 1 ignored"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected quiz output to contain %q, got:\n%s", want, out)
		}
	}

	// Card 0 moved to level 1 and is no longer due; card 1 still is.
	out, _, _ = h.run("", "quiz", "2+2")
	if !strings.Contains(out, "Nothing due for review") {
		t.Errorf("Expected the reviewed card not to be due, got %q", out)
	}
	out, _, _ = h.run("", "quiz", "France")
	if !strings.Contains(out, "Session stopped: 0 reviewed, 0 ignored, 1 left for later") {
		t.Errorf("Expected end of input to stop the session, got %q", out)
	}

	out = h.mustRun("history", "0")
	if !strings.Contains(out, "Level 1") || !strings.Contains(out, "yes  0 -> 1") {
		t.Errorf("Expected the review to be logged, got %q", out)
	}
	out = h.mustRun("history", "1")
	if !strings.Contains(out, "due now") || !strings.Contains(out, "Never reviewed") {
		t.Errorf("Expected an unreviewed card that is due now, got %q", out)
	}
	if _, _, code := h.run("", "history", "9"); code == 0 {
		t.Error("Expected history of a missing card to fail")
	}
}

func TestImportAndExport(t *testing.T) {
	h := newHarness(t)
	deck := filepath.Join(t.TempDir(), "deck.md")
	content := "Q: What is Go?\nA: A language\n---\nQ: What is SQLite?\nA: A database\n"
	if err := os.WriteFile(deck, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write deck: %v", err)
	}

	if out := h.mustRun("import", deck); out != "Imported 2 card(s), skipped 0 duplicate(s)\n" {
		t.Errorf("Unexpected import output %q", out)
	}
	if out := h.mustRun("import", deck); out != "Imported 0 card(s), skipped 2 duplicate(s)\n" {
		t.Errorf("Expected a second import to skip everything, got %q", out)
	}

	var doc struct {
		Cards []struct {
			ID       int64  `yaml:"id"`
			Question string `yaml:"question"`
			Level    int    `yaml:"level"`
		} `yaml:"cards"`
	}
	if err := yaml.Unmarshal([]byte(h.mustRun("export")), &doc); err != nil {
		t.Fatalf("export is not valid YAML: %v", err)
	}
	if len(doc.Cards) != 2 || doc.Cards[1].Question != "What is SQLite?" {
		t.Errorf("Unexpected export: %+v", doc.Cards)
	}

	outFile := filepath.Join(t.TempDir(), "cards.yaml")
	h.mustRun("export", "--out", outFile)
	if data, err := os.ReadFile(outFile); err != nil || !strings.Contains(string(data), "What is Go?") {
		t.Errorf("Expected export file to contain the cards, got %q (%v)", data, err)
	}

	badOut := filepath.Join(t.TempDir(), "missing", "cards.yaml")
	_, errOut, code := h.run("", "export", "--out", badOut)
	if code == 0 || !strings.Contains(errOut, "Error: create "+badOut) {
		t.Errorf("Expected a create error for an unwritable path, got code %d: %s", code, errOut)
	}
}

func TestStorageFailureExitsNonZero(t *testing.T) {
	h := newHarness(t)
	// A directory cannot be opened as a database file.
	h.db = t.TempDir()

	_, errOut, code := h.run("", "ls")
	if code == 0 {
		t.Fatal("Expected a storage failure to exit non-zero")
	}
	if !strings.Contains(errOut, "storage:") {
		t.Errorf("Expected a storage error message, got %q", errOut)
	}
}

func TestInvalidConfigFails(t *testing.T) {
	h := newHarness(t)
	_, errOut, code := h.run("", "--meh-divisor", "0.5", "ls")
	if code == 0 || !strings.Contains(errOut, "invalid config") {
		t.Errorf("Expected an invalid config error, got code %d: %s", code, errOut)
	}
}

func TestReadOnlyCommandsLeaveCardsUnchanged(t *testing.T) {
	h := newHarness(t)
	h.mustRun("add", "apple pie", "dessert")
	h.mustRun("add", "apple", "fruit")
	// Move one card off its initial level and timestamp.
	if _, errOut, code := h.run("\nyes\n", "quiz", "pie"); code != 0 {
		t.Fatalf("quiz exited %d: %s", code, errOut)
	}

	before := h.mustRun("export")
	h.mustRun("ls")
	h.mustRun("ls", "--limit", "1")
	h.mustRun("search", "apple")
	h.mustRun("search", "missing")
	h.mustRun("history", "0")
	after := h.mustRun("export")

	if before != after {
		t.Errorf("Expected ls, search and history to leave the cards unchanged\nbefore:\n%s\nafter:\n%s", before, after)
	}
	if !strings.Contains(before, "level: 1") {
		t.Errorf("Expected the reviewed card to be at level 1, got:\n%s", before)
	}
}
