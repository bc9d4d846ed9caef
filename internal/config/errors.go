package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() so callers can use
// errors.Is() while still getting a readable message.
var (
	// ErrEmptyBaseURL is returned when the base URL of the county documents is empty.
	ErrEmptyBaseURL = errors.New("invalid base URL: must not be empty")

	// ErrInvalidCount is returned when the number of county documents is not positive.
	ErrInvalidCount = errors.New("invalid document count: must be positive")

	// ErrEmptyOutput is returned when no output file is configured.
	ErrEmptyOutput = errors.New("invalid output file: must not be empty")

	// ErrInvalidTimeout is returned when the request timeout is negative.
	// Zero keeps the transport default.
	ErrInvalidTimeout = errors.New("invalid timeout: must be non-negative")

	// ErrInvalidConcurrency is returned when the concurrency limit is negative.
	// Zero means every request is issued at once.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be non-negative")
)
