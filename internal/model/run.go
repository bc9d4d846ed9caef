package model

import (
	"fmt"
	"time"
)

// Status is the final state of one target within a run.
type Status int

const (
	// StatusOK means the document was fetched, parsed and merged.
	StatusOK Status = iota

	// StatusFetchFailed means the download failed (transport error or non-2xx).
	StatusFetchFailed

	// StatusParseFailed means the body was not a well-formed XML document.
	StatusParseFailed

	// StatusPending means the run stopped before the target was processed.
	StatusPending
)

// String returns the storage name of the status.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusFetchFailed:
		return "fetch_failed"
	case StatusParseFailed:
		return "parse_failed"
	case StatusPending:
		return "pending"
	default:
		return "unknown"
	}
}

// ParseStatus converts a storage name back into a Status.
func ParseStatus(s string) (Status, error) {
	switch s {
	case "ok":
		return StatusOK, nil
	case "fetch_failed":
		return StatusFetchFailed, nil
	case "parse_failed":
		return StatusParseFailed, nil
	case "pending":
		return StatusPending, nil
	default:
		return StatusPending, fmt.Errorf("unknown target status %q", s)
	}
}

// Outcome summarizes what happened to one target.
type Outcome struct {
	Target     Target `json:"target"`
	County     string `json:"county,omitempty"`
	Status     Status `json:"-"`
	StatusName string `json:"status"`
	StatusCode int    `json:"statusCode,omitempty"`
	Hash       string `json:"hash,omitempty"`
	Records    int    `json:"records"`
	Error      string `json:"error,omitempty"`

	// Changed is set by the history store when the body hash differs
	// from the one recorded for the same target in the previous run.
	Changed bool `json:"changed,omitempty"`
}

// RunSummary is the condensed view of a run used by reports and history.
type RunSummary struct {
	ID         int64     `json:"id,omitempty"`
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
	OutputFile string    `json:"outputFile"`
	Targets    int       `json:"targets"`
	TotalFiles int       `json:"totalFiles"`
	Localities int       `json:"localities"`
	Outcomes   []Outcome `json:"outcomes,omitempty"`
}

// Failed returns the number of targets that did not make it into the aggregate.
func (s *RunSummary) Failed() int {
	return s.Targets - s.TotalFiles
}

// Run is the state accumulated by the pipeline during one execution.
// Each step reads what previous steps stored and adds its own output.
type Run struct {
	// ID is the history database id, zero when history is disabled.
	ID int64

	StartedAt  time.Time
	FinishedAt time.Time

	// OutputFile is where the aggregate is written.
	OutputFile string

	// Targets is the enumerated download list.
	Targets []Target

	// Fetches holds one result per target, same order as Targets.
	Fetches []FetchResult

	// Parses holds one result per successful fetch, in target order.
	Parses []ParseResult

	// Records counts merged localities per target id.
	Records map[int]int

	// Aggregate is the merged document, set by the aggregate step.
	Aggregate *Aggregate
}

// NewRun creates a run that writes to outputFile.
func NewRun(outputFile string, now time.Time) *Run {
	return &Run{
		StartedAt:  now,
		OutputFile: outputFile,
		Records:    make(map[int]int),
	}
}

// SuccessfulFetches returns the fetch results without a failure, in target order.
func (r *Run) SuccessfulFetches() []FetchResult {
	ok := make([]FetchResult, 0, len(r.Fetches))
	for _, f := range r.Fetches {
		if f.OK() {
			ok = append(ok, f)
		}
	}
	return ok
}

// SuccessfulParses returns the parse results without a failure, in target order.
func (r *Run) SuccessfulParses() []ParseResult {
	ok := make([]ParseResult, 0, len(r.Parses))
	for _, p := range r.Parses {
		if p.OK() {
			ok = append(ok, p)
		}
	}
	return ok
}

// Outcomes returns one entry per target describing how far it got.
func (r *Run) Outcomes() []Outcome {
	fetches := make(map[int]FetchResult, len(r.Fetches))
	for _, f := range r.Fetches {
		fetches[f.Target.ID] = f
	}
	parses := make(map[int]ParseResult, len(r.Parses))
	for _, p := range r.Parses {
		parses[p.Target.ID] = p
	}

	outcomes := make([]Outcome, len(r.Targets))
	for i, target := range r.Targets {
		o := Outcome{Target: target, Status: StatusPending}
		if region, ok := RegionByID(target.ID); ok {
			o.County = region.Name
		}

		if f, ok := fetches[target.ID]; ok {
			o.StatusCode = f.StatusCode
			o.Hash = f.Hash
			if !f.OK() {
				o.Status = StatusFetchFailed
				o.Error = f.Err.Error()
			}
		}
		if p, ok := parses[target.ID]; ok && o.Status == StatusPending {
			if p.OK() {
				o.Status = StatusOK
				o.Records = r.Records[target.ID]
			} else {
				o.Status = StatusParseFailed
				o.Error = p.Err.Error()
			}
		}

		o.StatusName = o.Status.String()
		outcomes[i] = o
	}
	return outcomes
}

// Summary condenses the run for reporting.
func (r *Run) Summary() *RunSummary {
	s := &RunSummary{
		ID:         r.ID,
		StartedAt:  r.StartedAt,
		FinishedAt: r.FinishedAt,
		OutputFile: r.OutputFile,
		Targets:    len(r.Targets),
		Outcomes:   r.Outcomes(),
	}
	if r.Aggregate != nil {
		s.TotalFiles = r.Aggregate.TotalFiles
		s.Localities = len(r.Aggregate.Localities)
	}
	return s
}
