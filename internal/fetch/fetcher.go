package fetch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Far-Se/coduri-siruta/internal/model"
	"github.com/go-resty/resty/v2"
)

// ErrUnexpectedStatus is recorded when the server answers with a non-2xx status.
var ErrUnexpectedStatus = errors.New("HTTP error")

// Fetcher downloads targets over HTTP.
// It is safe for concurrent use: every Fetch builds its own request.
type Fetcher struct {
	// client is the resty client shared by all requests.
	client *resty.Client

	// httpClient replaces resty's default http.Client when set.
	httpClient *http.Client

	// timeout bounds each request. Zero keeps the transport default.
	timeout time.Duration

	logger *slog.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets a per-request timeout. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		if d > 0 {
			f.timeout = d
		}
	}
}

// WithHTTPClient makes the fetcher use the given http.Client,
// e.g. one with a custom transport in tests.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) {
		f.httpClient = c
	}
}

// WithLogger sets the logger used for per-target diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) {
		f.logger = logger
	}
}

// New creates a Fetcher.
func New(opts ...Option) *Fetcher {
	f := &Fetcher{}
	for _, opt := range opts {
		opt(f)
	}
	if f.logger == nil {
		f.logger = slog.Default()
	}

	if f.httpClient != nil {
		f.client = resty.NewWithClient(f.httpClient)
	} else {
		f.client = resty.New()
	}
	if f.timeout > 0 {
		f.client.SetTimeout(f.timeout)
	}
	f.client.SetLogger(restyLogger{logger: f.logger})

	return f
}

// Fetch downloads one target. The returned result has Err set when the
// request failed or the status was not 2xx; in that case a diagnostic
// naming the URL has already been logged.
func (f *Fetcher) Fetch(ctx context.Context, target model.Target) model.FetchResult {
	result := model.FetchResult{Target: target}

	start := time.Now()
	resp, err := f.client.R().
		SetContext(ctx).
		Get(target.URL)
	result.Duration = time.Since(start)

	switch {
	case err != nil:
		result.Err = fmt.Errorf("request failed: %w", err)
	case !resp.IsSuccess():
		result.StatusCode = resp.StatusCode()
		result.Err = fmt.Errorf("%w: status %d", ErrUnexpectedStatus, resp.StatusCode())
	default:
		result.StatusCode = resp.StatusCode()
		result.Body = resp.Body()
		result.ComputeHash()
	}

	if result.Err != nil {
		f.logger.Warn("error fetching document",
			"id", target.ID,
			"url", target.URL,
			"error", result.Err,
		)
		return result
	}

	f.logger.Debug("document fetched",
		"id", target.ID,
		"status", result.StatusCode,
		"bytes", len(result.Body),
		"elapsed", result.Duration.Round(time.Millisecond),
	)
	return result
}

// restyLogger forwards resty's internal messages to slog.
type restyLogger struct {
	logger *slog.Logger
}

func (l restyLogger) Errorf(format string, v ...interface{}) {
	l.logger.Error("resty: " + fmt.Sprintf(format, v...))
}

func (l restyLogger) Warnf(format string, v ...interface{}) {
	l.logger.Warn("resty: " + fmt.Sprintf(format, v...))
}

func (l restyLogger) Debugf(format string, v ...interface{}) {
	l.logger.Debug("resty: " + fmt.Sprintf(format, v...))
}
