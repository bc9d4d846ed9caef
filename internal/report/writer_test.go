package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Far-Se/coduri-siruta/internal/model"
	"github.com/Far-Se/coduri-siruta/internal/xmltree"
	"github.com/google/go-cmp/cmp"
)

// createTestAggregate returns an aggregate with two parsed records.
func createTestAggregate(t *testing.T) *model.Aggregate {
	t.Helper()

	tree, err := xmltree.Parse([]byte(`<NOM_LOCALITATI>
<RAND><COD>1017</COD><DENUMIRE>ALBA IULIA</DENUMIRE></RAND>
<RAND><COD>1026</COD><DENUMIRE>Bărăbanţ &amp; Co</DENUMIRE></RAND>
</NOM_LOCALITATI>`))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	records, ok := tree.Path("nom_localitati", "rand")
	if !ok {
		t.Fatal("expected records")
	}

	agg := model.NewAggregate(time.Date(2025, 10, 7, 8, 0, 0, 0, time.UTC))
	agg.Localities = append(agg.Localities, records.([]any)...)
	agg.TotalFiles = 1
	return agg
}

// createTestSummary returns a run summary with one outcome per status.
func createTestSummary() *model.RunSummary {
	targets := model.Targets("https://example.test/nom_", ".xml", 3)
	return &model.RunSummary{
		ID:         7,
		StartedAt:  time.Date(2025, 10, 7, 8, 0, 0, 0, time.UTC),
		FinishedAt: time.Date(2025, 10, 7, 8, 0, 5, 0, time.UTC),
		OutputFile: "data.json",
		Targets:    3,
		TotalFiles: 1,
		Localities: 2,
		Outcomes: []model.Outcome{
			{Target: targets[0], County: "Alba", Status: model.StatusOK, StatusName: "ok", StatusCode: 200, Records: 2, Changed: true},
			{Target: targets[1], County: "Arad", Status: model.StatusFetchFailed, StatusName: "fetch_failed", StatusCode: 500, Error: "HTTP error: status 500"},
			{Target: targets[2], County: "Argeş", Status: model.StatusParseFailed, StatusName: "parse_failed", StatusCode: 200, Error: "XML syntax error"},
		},
	}
}

// TestWriteAggregateFile tests persisting the merged document.
func TestWriteAggregateFile(t *testing.T) {
	t.Parallel()

	t.Run("writes indented JSON that round-trips", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "data.json")
		agg := createTestAggregate(t)

		if err := WriteAggregateFile(path, agg); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("failed to read output: %v", err)
		}
		if !strings.HasPrefix(string(data), "{\n  \"localities\": [\n    {\n      \"cod\": \"1017\",") {
			t.Errorf("unexpected layout:\n%s", data)
		}
		if !strings.Contains(string(data), "Bărăbanţ & Co") {
			t.Error("expected unescaped text in output")
		}

		var got map[string]any
		if err := json.Unmarshal(data, &got); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		want := map[string]any{
			"localities": []any{
				map[string]any{"cod": "1017", "denumire": "ALBA IULIA"},
				map[string]any{"cod": "1026", "denumire": "Bărăbanţ & Co"},
			},
			"totalFiles": float64(1),
			"fetchedAt":  "2025-10-07T08:00:00.000Z",
		}
		counties, ok := got["counties"].([]any)
		if !ok || len(counties) != 43 {
			t.Errorf("expected 43 counties, got %v", got["counties"])
		}
		delete(got, "counties")
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("document mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("replaces an existing file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "data.json")
		if err := os.WriteFile(path, []byte("old content that is longer than nothing"), 0600); err != nil {
			t.Fatal(err)
		}

		agg := model.NewAggregate(time.Now())
		if err := WriteAggregateFile(path, agg); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if strings.Contains(string(data), "old content") {
			t.Error("expected file to be replaced")
		}
		if !strings.Contains(string(data), `"localities": []`) {
			t.Errorf("expected empty localities array, got:\n%s", data)
		}
	})

	t.Run("creates missing directories", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "nested", "dir", "data.json")
		if err := WriteAggregateFile(path, model.NewAggregate(time.Now())); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := os.Stat(path); err != nil {
			t.Errorf("expected file to exist: %v", err)
		}
	})

	t.Run("fails when the path is a directory and leaves no temp file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		path := filepath.Join(dir, "data.json")
		if err := os.Mkdir(path, 0750); err != nil {
			t.Fatal(err)
		}

		if err := WriteAggregateFile(path, model.NewAggregate(time.Now())); err == nil {
			t.Fatal("expected error")
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatal(err)
		}
		if len(entries) != 1 {
			t.Errorf("expected only the directory to remain, got %d entries", len(entries))
		}
	})

	t.Run("fails when the parent is a file", func(t *testing.T) {
		t.Parallel()

		parent := filepath.Join(t.TempDir(), "file")
		if err := os.WriteFile(parent, nil, 0600); err != nil {
			t.Fatal(err)
		}
		path := filepath.Join(parent, "data.json")

		if err := WriteAggregateFile(path, model.NewAggregate(time.Now())); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("nil aggregate", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "data.json")
		if err := WriteAggregateFile(path, nil); !errors.Is(err, ErrNoAggregate) {
			t.Errorf("expected ErrNoAggregate, got %v", err)
		}
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Error("expected no file")
		}
	})
}

// TestJSONWriter tests the JSON writer.
func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("compact by default", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(createTestSummary()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		out := buf.String()
		if strings.Count(out, "\n") != 1 {
			t.Errorf("expected a single line, got:\n%s", out)
		}
		if !strings.Contains(out, `"status":"fetch_failed"`) {
			t.Errorf("expected status names in output: %s", out)
		}
	})

	t.Run("list of runs is never null", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).WriteList(nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if buf.String() != "[]\n" {
			t.Errorf("expected empty array, got %q", buf.String())
		}
	})

	t.Run("custom indentation", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf, WithIndent("", "\t")).WriteAggregate(model.NewAggregate(time.Now())); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.HasPrefix(buf.String(), "{\n\t\"localities\": []") {
			t.Errorf("unexpected output: %s", buf.String())
		}
	})
}

// TestMarkdownWriter tests the Markdown run summary.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes run properties and documents", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(createTestSummary()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		out := buf.String()

		for _, want := range []string{
			"# Locality Nomenclature Run",
			"## Documents",
			"1 / 3",
			"mermaid",
			"fetch_failed",
			"ok (changed)",
			"Argeş",
			"2 of 3 documents were skipped.",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("expected output to contain %q", want)
			}
		}
	})

	t.Run("all documents failed", func(t *testing.T) {
		t.Parallel()

		s := createTestSummary()
		s.TotalFiles = 0
		s.Localities = 0

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(s); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "No document could be merged") {
			t.Error("expected caution alert")
		}
	})

	t.Run("list of runs", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).WriteList([]model.RunSummary{*createTestSummary()}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "# Run History") {
			t.Error("expected history header")
		}
	})

	t.Run("summary file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "summary.md")
		if err := WriteSummaryFile(path, createTestSummary()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(data), "Locality Nomenclature Run") {
			t.Error("expected summary content")
		}
	})
}

// TestSimpleWriter tests the terminal writer.
func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes one line per document", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(createTestSummary()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		out := buf.String()
		if !strings.Contains(out, "Documents:  1 of 3 merged") {
			t.Errorf("expected document count, got:\n%s", out)
		}
		if !strings.Contains(out, "* ") {
			t.Error("expected changed marker")
		}
		if strings.Contains(out, "HTTP error") {
			t.Error("errors should only be shown in verbose mode")
		}
	})

	t.Run("verbose shows errors", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf, WithVerbose(true)).Write(createTestSummary()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "HTTP error: status 500") {
			t.Error("expected error details")
		}
	})

	t.Run("changed only", func(t *testing.T) {
		t.Parallel()

		s := createTestSummary()
		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf, WithChangedOnly(true)).Write(s); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		out := buf.String()
		if strings.Contains(out, "Arad") {
			t.Error("unchanged documents should be hidden")
		}
		if !strings.Contains(out, "Alba") {
			t.Error("changed document should be listed")
		}

		s.Outcomes[0].Changed = false
		buf.Reset()
		if _, err := NewSimpleWriter(&buf, WithChangedOnly(true)).Write(s); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "No documents changed.") {
			t.Error("expected empty notice")
		}
	})

	t.Run("empty list", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).WriteList(nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if buf.String() != "No runs recorded.\n" {
			t.Errorf("unexpected output %q", buf.String())
		}
	})
}
