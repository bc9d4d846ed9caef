package report

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Far-Se/coduri-siruta/internal/model"
)

// ErrNoAggregate is returned when a run reaches the write stage without
// a merged document.
var ErrNoAggregate = errors.New("run has no aggregate to write")

// outputFileMode is the permission of written files.
const outputFileMode os.FileMode = 0o644

// Writer defines the interface for run reports.
// Implementations render a single run or a list of runs in one format.
type Writer interface {
	// Write outputs one run with its per-document outcomes.
	// Returns the number of bytes written and any error encountered.
	Write(summary *model.RunSummary) (int, error)

	// WriteList outputs an overview of several runs, newest first.
	WriteList(summaries []model.RunSummary) (int, error)
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// WriteAggregateFile writes agg as indented JSON to path.
//
// The document is written to a temporary file next to path and renamed
// over it, so path is either fully replaced or left untouched. Missing
// parent directories are created.
func WriteAggregateFile(path string, agg *model.Aggregate) error {
	if agg == nil {
		return ErrNoAggregate
	}
	return writeFileAtomic(path, func(w io.Writer) error {
		_, err := NewJSONWriter(w, WithPrettyPrint()).WriteAggregate(agg)
		return err
	})
}

// WriteSummaryFile writes a Markdown report of one run to path.
func WriteSummaryFile(path string, summary *model.RunSummary) error {
	return writeFileAtomic(path, func(w io.Writer) error {
		_, err := NewMarkdownWriter(w).Write(summary)
		return err
	})
}

// writeFileAtomic streams write into a temporary file in the directory
// of path and renames it to path once everything has been flushed.
func writeFileAtomic(path string, write func(io.Writer) error) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()           //nolint:errcheck // already failing
			_ = os.Remove(tmp.Name()) //nolint:errcheck // best effort cleanup
		}
	}()

	bw := bufio.NewWriter(tmp)
	if err = write(bw); err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err = bw.Flush(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err = tmp.Chmod(outputFileMode); err != nil {
		return fmt.Errorf("failed to set permissions on %s: %w", path, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
