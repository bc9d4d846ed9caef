package log

import (
	"context"
	"io"
	"log/slog"
	"net/url"
)

// SplitHandler routes records by level: below Warn to out, Warn and above to err.
type SplitHandler struct {
	out slog.Handler
	err slog.Handler
}

// NewSplitHandler creates a SplitHandler.
func NewSplitHandler(out, err slog.Handler) *SplitHandler {
	return &SplitHandler{out: out, err: err}
}

func (h *SplitHandler) target(level slog.Level) slog.Handler {
	if level >= slog.LevelWarn {
		return h.err
	}
	return h.out
}

// Enabled reports whether the handler for level accepts it.
func (h *SplitHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.target(level).Enabled(ctx, level)
}

// Handle passes the record to the handler for its level.
func (h *SplitHandler) Handle(ctx context.Context, r slog.Record) error {
	return h.target(r.Level).Handle(ctx, r)
}

// WithAttrs returns a new handler with the given attributes added on both sides.
func (h *SplitHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &SplitHandler{
		out: h.out.WithAttrs(attrs),
		err: h.err.WithAttrs(attrs),
	}
}

// WithGroup returns a new handler with the given group name on both sides.
func (h *SplitHandler) WithGroup(name string) slog.Handler {
	return &SplitHandler{
		out: h.out.WithGroup(name),
		err: h.err.WithGroup(name),
	}
}

// NewConsoleLogger creates the command line logger.
//
// Parameters:
//   - stdout: receives Debug and Info records
//   - stderr: receives Warn and Error records
//   - verbose: if true, sets the level to Debug; otherwise Info
func NewConsoleLogger(stdout, stderr io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: replaceAttr,
	}

	return slog.New(NewSplitHandler(
		slog.NewTextHandler(stdout, opts),
		slog.NewTextHandler(stderr, opts),
	))
}

// replaceAttr drops the timestamp and redacts URL passwords.
func replaceAttr(groups []string, a slog.Attr) slog.Attr {
	if len(groups) == 0 && a.Key == slog.TimeKey {
		return slog.Attr{}
	}
	if a.Key == "url" && a.Value.Kind() == slog.KindString {
		return slog.String(a.Key, RedactURL(a.Value.String()))
	}
	return a
}

// RedactURL replaces the password of a URL with "xxxxx".
// Strings that do not parse as URLs are returned unchanged.
func RedactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	return u.Redacted()
}
