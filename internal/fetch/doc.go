// Package fetch downloads county nomenclature documents.
//
// A Fetcher issues exactly one GET per target through resty. Failures are
// never returned as errors: they are logged and recorded in the
// model.FetchResult so that one unreachable county never aborts a run.
// No retry is configured and, unless a timeout is given, the transport
// defaults apply.
package fetch
