package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Far-Se/coduri-siruta/internal/model"
)

// Step is one stage of a download run.
//
// A step reads what earlier steps stored in the run and adds its own
// output. Per-target failures are recorded in the run; a returned error
// means the run cannot produce a trustworthy output and stops it.
type Step interface {
	Do(ctx context.Context, run *model.Run) error

	// Name identifies the step in logs and errors.
	Name() string
}

// Pipeline runs steps in order against a single model.Run.
type Pipeline struct {
	steps  []Step
	logger *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger used for step tracing.
// A nil logger falls back to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New creates an empty pipeline.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = orDefault(p.logger)
	return p
}

// AddStep appends step.
func (p *Pipeline) AddStep(step Step) {
	p.AddSteps(step)
}

// AddSteps appends steps in the given order.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs every step and stops at the first failure, which is
// returned wrapped with the step name. A cancelled ctx stops the run
// before the next step starts.
func (p *Pipeline) Execute(ctx context.Context, run *model.Run) error {
	for _, step := range p.steps {
		if err := ctx.Err(); err != nil {
			p.logger.Warn("run cancelled", "step", step.Name(), "reason", err)
			return err
		}

		start := time.Now()
		err := step.Do(ctx, run)
		elapsed := time.Since(start)

		if err != nil {
			p.logger.Debug("step failed", "step", step.Name(), "elapsed", elapsed, "error", err)
			return fmt.Errorf("%s: %w", step.Name(), err)
		}
		p.logger.Debug("step completed", "step", step.Name(), "elapsed", elapsed)
	}
	return nil
}

// StepCount returns the number of steps.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the step names in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, 0, len(p.steps))
	for _, step := range p.steps {
		names = append(names, step.Name())
	}
	return names
}
