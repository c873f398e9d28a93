package stats

import "errors"

var (
	// ErrMalformedLine indicates a non-blank, non-comment dump line that does
	// not parse as the triple shape a pass expects. Always fatal: a batch job
	// over multi-gigabyte dumps must never silently emit wrong statistics.
	ErrMalformedLine = errors.New("malformed dump line")
)
