package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/Far-Se/coduri-siruta/internal/model"
)

// SimpleWriter outputs plain text reports for terminal display.
type SimpleWriter struct {
	baseWriter

	// changedOnly limits the document list to documents whose content
	// changed since the previous run.
	changedOnly bool

	// verbose adds error details to failed documents.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithChangedOnly lists only documents marked as changed.
func WithChangedOnly(changedOnly bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.changedOnly = changedOnly
	}
}

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs one run in human-readable format.
func (w *SimpleWriter) Write(summary *model.RunSummary) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, summary)
	w.writeDocuments(&sb, summary)

	return io.WriteString(w.output, sb.String())
}

// WriteList outputs one line per run.
func (w *SimpleWriter) WriteList(summaries []model.RunSummary) (int, error) {
	var sb strings.Builder

	if len(summaries) == 0 {
		sb.WriteString("No runs recorded.\n")
		return io.WriteString(w.output, sb.String())
	}

	sb.WriteString(fmt.Sprintf("%-6s  %-23s  %-9s  %-10s  %s\n", "RUN", "STARTED", "DOCUMENTS", "LOCALITIES", "OUTPUT"))
	for _, s := range summaries {
		sb.WriteString(fmt.Sprintf("%-6d  %-23s  %-9s  %-10d  %s\n",
			s.ID,
			s.StartedAt.Format(timeLayout),
			fmt.Sprintf("%d/%d", s.TotalFiles, s.Targets),
			s.Localities,
			s.OutputFile,
		))
	}

	return io.WriteString(w.output, sb.String())
}

// writeHeader writes the run properties.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, s *model.RunSummary) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	if s.ID > 0 {
		sb.WriteString(fmt.Sprintf("Run:        %d\n", s.ID))
	}
	sb.WriteString(fmt.Sprintf("Started:    %s\n", s.StartedAt.Format(timeLayout)))
	sb.WriteString(fmt.Sprintf("Finished:   %s\n", formatOptionalTime(s.FinishedAt)))
	sb.WriteString(fmt.Sprintf("Output:     %s\n", s.OutputFile))
	sb.WriteString(fmt.Sprintf("Documents:  %d of %d merged\n", s.TotalFiles, s.Targets))
	sb.WriteString(fmt.Sprintf("Localities: %d\n", s.Localities))
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}

// writeDocuments writes one line per target.
func (w *SimpleWriter) writeDocuments(sb *strings.Builder, s *model.RunSummary) {
	listed := 0
	for _, o := range s.Outcomes {
		if w.changedOnly && !o.Changed {
			continue
		}
		listed++

		marker := " "
		if o.Changed {
			marker = "*"
		}
		sb.WriteString(fmt.Sprintf("%s %2d  %-16s  %-12s  %5s  %6d\n",
			marker,
			o.Target.ID,
			truncateString(dash(o.County), 16),
			o.Status.String(),
			dash(formatStatusCode(o.StatusCode)),
			o.Records,
		))
		if w.verbose && o.Error != "" {
			sb.WriteString(fmt.Sprintf("        %s\n", o.Error))
		}
	}

	if listed == 0 {
		if w.changedOnly {
			sb.WriteString("No documents changed.\n")
		} else {
			sb.WriteString("No documents.\n")
		}
	}
}
