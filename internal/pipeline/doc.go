// Package pipeline runs a download as an ordered list of steps.
//
// A run goes through enumerate, fetch, parse, aggregate and write, with
// optional summary and history steps at the end. Every step reads and
// extends the shared model.Run. Fetch and parse fan out over all targets
// with Gather and record per-target failures in their results; only a
// returned error (an unexpected document shape, an unwritable output)
// stops the pipeline.
package pipeline
