package report

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/Far-Se/coduri-siruta/internal/model"
	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
)

// timeLayout is used for timestamps in human-readable reports.
const timeLayout = "2006-01-02 15:04:05 MST"

// MarkdownWriter outputs run reports in Markdown format.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs one run with a per-document table.
func (w *MarkdownWriter) Write(summary *model.RunSummary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, summary)
	w.writeStatus(md, summary)
	w.writeDocuments(md, summary)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// WriteList outputs a table of runs.
func (w *MarkdownWriter) WriteList(summaries []model.RunSummary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Run History")
	md.PlainText("")

	if len(summaries) == 0 {
		md.PlainText("No runs recorded.")
		return len(md.String()), md.Build()
	}

	rows := make([][]string, len(summaries))
	for i, s := range summaries {
		rows[i] = []string{
			strconv.FormatInt(s.ID, 10),
			s.StartedAt.Format(timeLayout),
			strconv.Itoa(s.TotalFiles) + " / " + strconv.Itoa(s.Targets),
			strconv.Itoa(s.Localities),
			"`" + s.OutputFile + "`",
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Run", "Started", "Documents", "Localities", "Output"},
		Rows:   rows,
	})

	return len(md.String()), md.Build()
}

// writeHeader writes the title and the run properties table.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, s *model.RunSummary) {
	md.H1("Locality Nomenclature Run")
	md.PlainText("")

	rows := make([][]string, 0, 6)
	if s.ID > 0 {
		rows = append(rows, []string{"Run", strconv.FormatInt(s.ID, 10)})
	}
	rows = append(rows,
		[]string{"Started", s.StartedAt.Format(timeLayout)},
		[]string{"Finished", formatOptionalTime(s.FinishedAt)},
		[]string{"Output", "`" + s.OutputFile + "`"},
		[]string{"Documents", strconv.Itoa(s.TotalFiles) + " / " + strconv.Itoa(s.Targets)},
		[]string{"Localities", strconv.Itoa(s.Localities)},
	)

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeStatus writes the status distribution and an alert.
func (w *MarkdownWriter) writeStatus(md *markdown.Markdown, s *model.RunSummary) {
	counts := countStatuses(s.Outcomes)

	if len(s.Outcomes) > 0 {
		chart := piechart.NewPieChart(
			io.Discard,
			piechart.WithTitle("Document Status"),
			piechart.WithShowData(true),
		)
		for _, status := range []model.Status{
			model.StatusOK, model.StatusFetchFailed, model.StatusParseFailed, model.StatusPending,
		} {
			if counts[status] > 0 {
				chart.LabelAndIntValue(status.String(), uint64(counts[status]))
			}
		}
		md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
		md.PlainText("")
	}

	failed := s.Failed()
	switch {
	case s.Targets > 0 && failed == s.Targets:
		md.Cautionf("No document could be merged. %s contains no localities.", s.OutputFile)
	case failed > 0:
		md.Warningf("%d of %d documents were skipped.", failed, s.Targets)
	default:
		md.Tip(fmt.Sprintf("All %d documents were merged.", s.Targets))
	}
	md.PlainText("")
}

// writeDocuments writes one row per target.
func (w *MarkdownWriter) writeDocuments(md *markdown.Markdown, s *model.RunSummary) {
	md.H2("Documents")
	md.PlainText("")

	if len(s.Outcomes) == 0 {
		md.PlainText("No documents.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(s.Outcomes))
	for i, o := range s.Outcomes {
		rows[i] = []string{
			strconv.Itoa(o.Target.ID),
			dash(o.County),
			statusText(o),
			dash(formatStatusCode(o.StatusCode)),
			strconv.Itoa(o.Records),
			truncateString(dash(o.Error), 60),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"ID", "County", "Status", "HTTP", "Records", "Error"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Generated by siruta*")
}

func countStatuses(outcomes []model.Outcome) map[model.Status]int {
	counts := make(map[model.Status]int)
	for _, o := range outcomes {
		counts[o.Status]++
	}
	return counts
}

// statusText returns the status name with a marker for changed documents.
func statusText(o model.Outcome) string {
	text := o.Status.String()
	if o.Changed {
		text += " (changed)"
	}
	return text
}

func formatStatusCode(code int) string {
	if code == 0 {
		return ""
	}
	return strconv.Itoa(code)
}

func formatOptionalTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(timeLayout)
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
