package models

import (
	"errors"
	"fmt"
)

// Translation failures.
var (
	// ErrModelUnavailable indicates the language model call failed or timed
	// out. Retried once by the translator before being surfaced.
	ErrModelUnavailable = errors.New("language model unavailable")
)

// UnsafeQueryError indicates the model emitted a statement that failed
// structural validation. Never retried; the reason stays server-side.
type UnsafeQueryError struct {
	Reason string
}

func (e *UnsafeQueryError) Error() string {
	return fmt.Sprintf("unsafe query rejected: %s", e.Reason)
}

// AmbiguousIntentError indicates the model declined to produce a query and
// asked for clarification instead. The message is surfaced verbatim and no
// query is executed.
type AmbiguousIntentError struct {
	Message string
}

func (e *AmbiguousIntentError) Error() string {
	return fmt.Sprintf("ambiguous intent: %s", e.Message)
}

// Execution failures.
var (
	// ErrQueryTimeout indicates the statement exceeded its timeout.
	// Not retried: a timed-out heavy query retried silently is a
	// backpressure hazard.
	ErrQueryTimeout = errors.New("query timed out")

	// ErrRowCapExceeded indicates a result larger than the executor is
	// willing to return.
	ErrRowCapExceeded = errors.New("row cap exceeded")
)

// StoreError wraps a data-store failure. Surfaced without retry.
type StoreError struct {
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("data store error: %v", e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// ErrComposition indicates the composer was handed inputs that violate the
// response contract. Should not occur; treated as fatal to the request.
var ErrComposition = errors.New("response composition contract violation")
