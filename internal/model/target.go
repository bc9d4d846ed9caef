package model

import "strconv"

// Target is one county document to download.
type Target struct {
	// ID is the county id, 1-indexed.
	ID int `json:"id"`

	// URL is base + id + suffix.
	URL string `json:"url"`
}

// Targets builds the download list for ids 1..n in ascending order.
// A non-positive n yields an empty list.
func Targets(base, suffix string, n int) []Target {
	if n <= 0 {
		return []Target{}
	}
	targets := make([]Target, n)
	for i := range targets {
		id := i + 1
		targets[i] = Target{
			ID:  id,
			URL: base + strconv.Itoa(id) + suffix,
		}
	}
	return targets
}
