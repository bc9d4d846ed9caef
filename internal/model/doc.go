// Package model defines the data structures passed between the stages of a
// siruta run.
//
// This package contains the following main types:
//   - Region: an entry of the compiled-in county reference table
//   - Target: one county document to download
//   - FetchResult / ParseResult: per-target stage outcomes; a non-nil Err
//     marks the target as failed for that stage
//   - Aggregate: the merged document written to disk
//   - Run: the state accumulated by the pipeline during one execution
//
// Models live in their own package so that pipeline, report and database can
// share them without import cycles.
package model
