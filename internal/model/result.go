package model

import (
	"encoding/hex"
	"time"

	"github.com/Far-Se/coduri-siruta/internal/xmltree"
	"golang.org/x/crypto/sha3"
)

// FetchResult is the outcome of downloading one target.
// Err is the only failure signal: a successful fetch may have an empty body.
type FetchResult struct {
	Target Target

	// Body is the raw response body. Nil when the fetch failed.
	Body []byte

	// StatusCode is the HTTP status, zero when no response was received.
	StatusCode int

	// Hash is the hex SHA3-256 digest of Body, used for change detection
	// between runs.
	Hash string

	// Duration is the time spent on the request.
	Duration time.Duration

	// Err describes why the fetch failed.
	Err error
}

// OK reports whether the fetch succeeded.
func (r FetchResult) OK() bool {
	return r.Err == nil
}

// ComputeHash sets Hash from Body.
func (r *FetchResult) ComputeHash() {
	if len(r.Body) == 0 {
		r.Hash = ""
		return
	}
	sum := sha3.Sum256(r.Body)
	r.Hash = hex.EncodeToString(sum[:])
}

// ParseResult is the outcome of converting one fetched document.
type ParseResult struct {
	Target Target

	// Tree is the converted document. Nil when parsing failed.
	Tree *xmltree.Object

	// Err describes why parsing failed.
	Err error
}

// OK reports whether the document was parsed.
func (r ParseResult) OK() bool {
	return r.Err == nil
}
