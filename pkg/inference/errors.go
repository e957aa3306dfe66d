package inference

import "errors"

// Validation errors. All of them are detected before any traversal or
// sampling work starts, so a failed call never leaves partial state behind.
var (
	// ErrInvalidQuery means the query does not name live variables (or, for
	// the independence check, does not name exactly two distinct ones).
	ErrInvalidQuery = errors.New("invalid query")

	// ErrInvalidEvidence means an evidence literal's magnitude names no live
	// variable.
	ErrInvalidEvidence = errors.New("invalid evidence")

	// ErrUnknownStrategy means the requested sampling strategy does not exist.
	ErrUnknownStrategy = errors.New("unknown sampling strategy")
)
