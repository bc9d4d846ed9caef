package model

import "time"

// TimestampFormat renders fetchedAt as UTC ISO-8601 with milliseconds,
// e.g. 2025-10-07T08:30:00.000Z.
const TimestampFormat = "2006-01-02T15:04:05.000Z07:00"

// Aggregate is the merged document persisted at the end of a run.
// Field order is the JSON field order.
type Aggregate struct {
	// Localities is every record of every parsed document, in target order.
	Localities []any `json:"localities"`

	// TotalFiles is the number of documents that were fetched and parsed.
	TotalFiles int `json:"totalFiles"`

	// Counties is the county reference table.
	Counties []Region `json:"counties"`

	// FetchedAt is the generation time, see TimestampFormat.
	FetchedAt string `json:"fetchedAt"`
}

// NewAggregate creates an empty aggregate stamped with now.
// Localities is an empty slice so that it serializes as [] rather than null.
func NewAggregate(now time.Time) *Aggregate {
	return &Aggregate{
		Localities: []any{},
		Counties:   Counties(),
		FetchedAt:  FormatTimestamp(now),
	}
}

// FormatTimestamp formats t with TimestampFormat in UTC.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampFormat)
}
