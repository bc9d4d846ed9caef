package main

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Far-Se/coduri-siruta/internal/model"
)

// TestHistoryCommand tests reading runs recorded by fetch --history.
func TestHistoryCommand(t *testing.T) {
	t.Parallel()

	docs := map[string]string{
		"/nom_1.xml": countyDocuments["/nom_1.xml"],
		"/nom_3.xml": countyDocuments["/nom_3.xml"],
	}
	srv := newCountyServer(t, docs)
	dbDir := t.TempDir()
	configPath := writeConfigFile(t, "")
	output := filepath.Join(t.TempDir(), "data.json")

	fetchArgs := []string{
		"fetch",
		"--config", configPath,
		"--base-url", srv.URL + "/nom_",
		"--date-suffix", ".xml",
		"-n", "3",
		"-o", output,
		"--history",
		"--db-dir", dbDir,
	}

	// Subtests share one database and run sequentially.
	// Two runs; the server content is fixed so nothing changes between them.
	for i := 0; i < 2; i++ {
		if _, stderr, err := executeRoot(t, fetchArgs...); err != nil {
			t.Fatalf("fetch %d failed: %v\nstderr: %s", i+1, err, stderr)
		}
	}

	t.Run("lists runs newest first", func(t *testing.T) {
		stdout, _, err := executeRoot(t, "history", "--db-dir", dbDir, "--json")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var runs []model.RunSummary
		if err := json.Unmarshal([]byte(stdout), &runs); err != nil {
			t.Fatalf("invalid JSON: %v\n%s", err, stdout)
		}
		if len(runs) != 2 {
			t.Fatalf("expected 2 runs, got %d", len(runs))
		}
		if runs[0].ID <= runs[1].ID {
			t.Errorf("expected newest first, got ids %d, %d", runs[0].ID, runs[1].ID)
		}
		if runs[0].TotalFiles != 2 || runs[0].Localities != 3 || runs[0].Targets != 3 {
			t.Errorf("unexpected run %+v", runs[0])
		}
	})

	t.Run("limit", func(t *testing.T) {
		stdout, _, err := executeRoot(t, "history", "--db-dir", dbDir, "--json", "-n", "1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var runs []model.RunSummary
		if err := json.Unmarshal([]byte(stdout), &runs); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if len(runs) != 1 {
			t.Errorf("expected 1 run, got %d", len(runs))
		}
	})

	t.Run("shows latest run documents", func(t *testing.T) {
		stdout, _, err := executeRoot(t, "history", "latest", "--db-dir", dbDir, "--json")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var run model.RunSummary
		if err := json.Unmarshal([]byte(stdout), &run); err != nil {
			t.Fatalf("invalid JSON: %v\n%s", err, stdout)
		}
		if len(run.Outcomes) != 3 {
			t.Fatalf("expected 3 outcomes, got %d", len(run.Outcomes))
		}
		want := []string{"ok", "fetch_failed", "ok"}
		for i, o := range run.Outcomes {
			if o.StatusName != want[i] {
				t.Errorf("document %d: expected %s, got %s", i+1, want[i], o.StatusName)
			}
			if o.Changed {
				t.Errorf("document %d: unexpected change", i+1)
			}
		}
	})

	t.Run("changed filter in text output", func(t *testing.T) {
		stdout, _, err := executeRoot(t, "history", "latest", "--db-dir", dbDir, "--changed")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(stdout, "No documents changed.") {
			t.Errorf("expected no changed documents, got %q", stdout)
		}
	})

	t.Run("markdown output", func(t *testing.T) {
		stdout, _, err := executeRoot(t, "history", "latest", "--db-dir", dbDir, "--markdown")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.HasPrefix(stdout, "# ") {
			t.Errorf("expected a Markdown heading, got %q", stdout)
		}
	})

	t.Run("unknown run id", func(t *testing.T) {
		if _, _, err := executeRoot(t, "history", "999", "--db-dir", dbDir); err == nil {
			t.Error("expected error for unknown run")
		}
	})
}

// TestHistoryCommandErrors tests argument and database errors.
func TestHistoryCommandErrors(t *testing.T) {
	t.Parallel()

	t.Run("invalid run id", func(t *testing.T) {
		t.Parallel()

		_, _, err := executeRoot(t, "history", "abc", "--db-dir", t.TempDir())
		if err == nil || !strings.Contains(err.Error(), "invalid run id") {
			t.Errorf("expected invalid run id error, got %v", err)
		}
	})

	t.Run("missing database is not created", func(t *testing.T) {
		t.Parallel()

		dbDir := t.TempDir()
		_, _, err := executeRoot(t, "history", "--db-dir", dbDir)
		if err == nil || !strings.Contains(err.Error(), "database not found") {
			t.Errorf("expected database not found error, got %v", err)
		}
	})

	t.Run("json and markdown are exclusive", func(t *testing.T) {
		t.Parallel()

		if _, _, err := executeRoot(t, "history", "--json", "--markdown", "--db-dir", t.TempDir()); err == nil {
			t.Error("expected error for conflicting flags")
		}
	})
}
