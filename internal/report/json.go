package report

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/Far-Se/coduri-siruta/internal/model"
)

// JSONWriter outputs aggregates and run reports as JSON.
// HTML characters are never escaped: locality names are written as they
// appear in the source documents.
type JSONWriter struct {
	baseWriter

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string. Empty means compact output.
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables indented JSON output.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint is WithIndent("", "  ").
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// WriteAggregate outputs the merged document.
func (w *JSONWriter) WriteAggregate(agg *model.Aggregate) (int, error) {
	if agg == nil {
		return 0, ErrNoAggregate
	}
	return w.writeJSON(agg)
}

// Write outputs one run.
func (w *JSONWriter) Write(summary *model.RunSummary) (int, error) {
	return w.writeJSON(summary)
}

// WriteList outputs several runs as a JSON array.
func (w *JSONWriter) WriteList(summaries []model.RunSummary) (int, error) {
	if summaries == nil {
		summaries = []model.RunSummary{}
	}
	return w.writeJSON(summaries)
}

// writeJSON encodes v followed by a newline.
func (w *JSONWriter) writeJSON(v any) (int, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if w.indentString != "" || w.indentPrefix != "" {
		enc.SetIndent(w.indentPrefix, w.indentString)
	}

	if err := enc.Encode(v); err != nil {
		return 0, err
	}

	return w.output.Write(buf.Bytes())
}
