package service

import "errors"

// Failure classes surfaced to handlers. Each maps to exactly one HTTP status.
var (
	// ErrExtraction means the uploaded document could not be turned into text
	ErrExtraction = errors.New("could not extract text from file")
	// ErrUpstream means the completion call failed or returned unusable output
	ErrUpstream = errors.New("completion service failure")
)
