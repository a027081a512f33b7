package domain

import "errors"

var (
	// ErrMalformedInput marks a table with zero rows or zero columns.
	// It is the only hard failure in the core: the table is skipped
	// entirely and reported to the caller, never partially processed.
	ErrMalformedInput = errors.New("malformed input: table has zero rows or zero columns")
)
