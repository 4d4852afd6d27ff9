package model

import "errors"

// Error kinds surfaced at action boundaries. Each user action (ingest, ask)
// is isolated: a failure in one never corrupts state for the next.
var (
	// ErrConnection means the document store is unreachable. Fatal for the
	// current action; the user retries manually, nothing retries for them.
	ErrConnection = errors.New("store unreachable")

	// ErrEmptyFile means ingestion parsed zero data rows. Reported, not fatal
	// to the session.
	ErrEmptyFile = errors.New("no rows found in file")
)
