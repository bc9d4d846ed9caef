// Package report writes run output.
//
// WriteAggregateFile persists the merged locality document. The Writer
// implementations render run summaries for people and tools:
//   - SimpleWriter: plain text for the terminal
//   - MarkdownWriter: Markdown with a status chart, used for --summary
//   - JSONWriter: JSON, also used for the aggregate itself
//
// Files are written through a temporary file and a rename, so a failed
// write never leaves a truncated document behind.
package report
