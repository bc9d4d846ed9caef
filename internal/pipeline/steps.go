package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Far-Se/coduri-siruta/internal/config"
	"github.com/Far-Se/coduri-siruta/internal/model"
	"github.com/Far-Se/coduri-siruta/internal/report"
	"github.com/Far-Se/coduri-siruta/internal/xmltree"
)

// ErrMissingRecords is returned when a parsed document has no
// nom_localitati.rand value. It aborts the run.
var ErrMissingRecords = errors.New("document has no nom_localitati.rand records")

// RecordPath is where locality records live in a parsed document.
var RecordPath = []string{"nom_localitati", "rand"}

// Fetcher downloads one target. Failures are reported in the result.
type Fetcher interface {
	Fetch(ctx context.Context, target model.Target) model.FetchResult
}

// RunRecorder persists a finished run and returns its id.
type RunRecorder interface {
	SaveRun(ctx context.Context, run *model.Run) (int64, error)
}

// EnumerateStep builds the download list.
type EnumerateStep struct {
	baseURL    string
	dateSuffix string
	count      int
	logger     *slog.Logger
}

// NewEnumerateStep creates a step producing count targets of the form
// baseURL + id + dateSuffix.
func NewEnumerateStep(baseURL, dateSuffix string, count int, logger *slog.Logger) *EnumerateStep {
	return &EnumerateStep{
		baseURL:    baseURL,
		dateSuffix: dateSuffix,
		count:      count,
		logger:     orDefault(logger),
	}
}

// Name returns the step name.
func (s *EnumerateStep) Name() string {
	return "enumerate"
}

// Do fills run.Targets.
func (s *EnumerateStep) Do(_ context.Context, run *model.Run) error {
	s.logger.Info("starting to fetch XML files")
	run.Targets = model.Targets(s.baseURL, s.dateSuffix, s.count)
	return nil
}

// FetchStep downloads every target concurrently.
type FetchStep struct {
	fetcher     Fetcher
	concurrency int
	logger      *slog.Logger
}

// FetchStepOption configures a FetchStep.
type FetchStepOption func(*FetchStep)

// WithFetchConcurrency bounds the number of simultaneous downloads.
// Zero, the default, downloads everything at once.
func WithFetchConcurrency(n int) FetchStepOption {
	return func(s *FetchStep) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithFetchLogger sets a custom logger for the fetch step.
func WithFetchLogger(logger *slog.Logger) FetchStepOption {
	return func(s *FetchStep) {
		s.logger = logger
	}
}

// NewFetchStep creates a fetch step using fetcher.
func NewFetchStep(fetcher Fetcher, opts ...FetchStepOption) *FetchStep {
	s := &FetchStep{
		fetcher: fetcher,
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}
	s.logger = orDefault(s.logger)

	return s
}

// Name returns the step name.
func (s *FetchStep) Name() string {
	return "fetch"
}

// Do fills run.Fetches with one result per target, in target order.
func (s *FetchStep) Do(ctx context.Context, run *model.Run) error {
	s.logger.Info("fetching XML files in parallel", "count", len(run.Targets))

	run.Fetches = Gather(ctx, run.Targets, s.concurrency, s.fetcher.Fetch)

	s.logger.Debug("fetch finished",
		"succeeded", len(run.SuccessfulFetches()),
		"total", len(run.Targets),
	)
	return nil
}

// ParseStep converts every downloaded body into a tree.
type ParseStep struct {
	logger *slog.Logger
}

// NewParseStep creates a parse step.
func NewParseStep(logger *slog.Logger) *ParseStep {
	return &ParseStep{logger: orDefault(logger)}
}

// Name returns the step name.
func (s *ParseStep) Name() string {
	return "parse"
}

// Do fills run.Parses with one result per successful fetch.
func (s *ParseStep) Do(ctx context.Context, run *model.Run) error {
	s.logger.Info("converting XML to JSON")

	run.Parses = Gather(ctx, run.SuccessfulFetches(), 0, s.parse)

	s.logger.Info("successfully processed files",
		"processed", len(run.SuccessfulParses()),
		"total", len(run.Targets),
	)
	return nil
}

func (s *ParseStep) parse(_ context.Context, f model.FetchResult) model.ParseResult {
	tree, err := xmltree.Parse(f.Body)
	if err != nil {
		s.logger.Warn("error parsing XML",
			"id", f.Target.ID,
			"url", f.Target.URL,
			"error", err,
		)
		return model.ParseResult{Target: f.Target, Err: err}
	}
	return model.ParseResult{Target: f.Target, Tree: tree}
}

// AggregateStep merges the records of every parsed document.
type AggregateStep struct {
	now    func() time.Time
	logger *slog.Logger
}

// AggregateStepOption configures an AggregateStep.
type AggregateStepOption func(*AggregateStep)

// WithClock overrides the time source used for fetchedAt.
func WithClock(now func() time.Time) AggregateStepOption {
	return func(s *AggregateStep) {
		s.now = now
	}
}

// WithAggregateLogger sets a custom logger for the aggregate step.
func WithAggregateLogger(logger *slog.Logger) AggregateStepOption {
	return func(s *AggregateStep) {
		s.logger = logger
	}
}

// NewAggregateStep creates an aggregate step.
func NewAggregateStep(opts ...AggregateStepOption) *AggregateStep {
	s := &AggregateStep{
		now:    time.Now,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}
	s.logger = orDefault(s.logger)

	return s
}

// Name returns the step name.
func (s *AggregateStep) Name() string {
	return "aggregate"
}

// Do sets run.Aggregate. A document without records fails the whole run.
func (s *AggregateStep) Do(_ context.Context, run *model.Run) error {
	parsed := run.SuccessfulParses()

	agg := model.NewAggregate(s.now())
	agg.TotalFiles = len(parsed)

	for _, p := range parsed {
		records, err := Records(p.Tree)
		if err != nil {
			return fmt.Errorf("target %d (%s): %w", p.Target.ID, p.Target.URL, err)
		}
		agg.Localities = append(agg.Localities, records...)
		run.Records[p.Target.ID] = len(records)

		s.logger.Debug("records merged", "id", p.Target.ID, "count", len(records))
	}

	run.Aggregate = agg
	return nil
}

// Records extracts the locality records of a parsed document.
// A list is returned as is; a single record becomes a one-element list.
func Records(tree *xmltree.Object) ([]any, error) {
	if tree == nil {
		return nil, ErrMissingRecords
	}
	v, ok := tree.Path(RecordPath...)
	if !ok {
		return nil, ErrMissingRecords
	}
	if list, ok := v.([]any); ok {
		return list, nil
	}
	return []any{v}, nil
}

// WriteStep persists the aggregate.
type WriteStep struct {
	logger *slog.Logger
}

// NewWriteStep creates a write step. The destination is run.OutputFile.
func NewWriteStep(logger *slog.Logger) *WriteStep {
	return &WriteStep{logger: orDefault(logger)}
}

// Name returns the step name.
func (s *WriteStep) Name() string {
	return "write"
}

// Do writes run.Aggregate to run.OutputFile, replacing any existing file.
func (s *WriteStep) Do(_ context.Context, run *model.Run) error {
	if run.Aggregate == nil {
		return report.ErrNoAggregate
	}

	s.logger.Info("saving merged data", "path", run.OutputFile)

	if err := report.WriteAggregateFile(run.OutputFile, run.Aggregate); err != nil {
		return err
	}
	run.FinishedAt = time.Now()

	s.logger.Info("✓ successfully saved data", "path", run.OutputFile)
	s.logger.Info("total records", "count", len(run.Aggregate.Localities))
	return nil
}

// SummaryStep writes a Markdown summary of the run.
type SummaryStep struct {
	path   string
	logger *slog.Logger
}

// NewSummaryStep creates a step writing the summary to path.
func NewSummaryStep(path string, logger *slog.Logger) *SummaryStep {
	return &SummaryStep{path: path, logger: orDefault(logger)}
}

// Name returns the step name.
func (s *SummaryStep) Name() string {
	return "summary"
}

// Do writes the summary file.
func (s *SummaryStep) Do(_ context.Context, run *model.Run) error {
	if err := report.WriteSummaryFile(s.path, run.Summary()); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	s.logger.Info("summary written", "path", s.path)
	return nil
}

// HistoryStep records the run in the history store.
type HistoryStep struct {
	recorder RunRecorder
	logger   *slog.Logger
}

// NewHistoryStep creates a step saving the run through recorder.
func NewHistoryStep(recorder RunRecorder, logger *slog.Logger) *HistoryStep {
	return &HistoryStep{recorder: recorder, logger: orDefault(logger)}
}

// Name returns the step name.
func (s *HistoryStep) Name() string {
	return "history"
}

// Do saves the run and stores the assigned id in run.ID.
func (s *HistoryStep) Do(ctx context.Context, run *model.Run) error {
	id, err := s.recorder.SaveRun(ctx, run)
	if err != nil {
		return fmt.Errorf("failed to record run history: %w", err)
	}
	run.ID = id
	s.logger.Info("run recorded", "run_id", id)
	return nil
}

// DefaultPipeline creates the standard download pipeline for cfg:
// enumerate, fetch, parse, aggregate and write, followed by history when
// recorder is non-nil and summary when cfg.SummaryFile is set.
func DefaultPipeline(cfg *config.Config, fetcher Fetcher, recorder RunRecorder, logger *slog.Logger) *Pipeline {
	logger = orDefault(logger)

	p := New(WithLogger(logger))
	p.AddSteps(
		NewEnumerateStep(cfg.BaseURL, cfg.DateSuffix, cfg.TotalIDs, logger),
		NewFetchStep(fetcher,
			WithFetchConcurrency(cfg.Concurrency),
			WithFetchLogger(logger),
		),
		NewParseStep(logger),
		NewAggregateStep(WithAggregateLogger(logger)),
		NewWriteStep(logger),
	)
	if recorder != nil {
		p.AddStep(NewHistoryStep(recorder, logger))
	}
	if cfg.SummaryFile != "" {
		p.AddStep(NewSummaryStep(cfg.SummaryFile, logger))
	}

	return p
}

func orDefault(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
