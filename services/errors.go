package services

import (
	"errors"
	"fmt"
)

// ErrNotFound means no price source resolved for the requested route/month.
var ErrNotFound = errors.New("no price data for this route/month")

// ErrInvalidArgument signals a precondition violation on an internal contract.
var ErrInvalidArgument = errors.New("invalid argument")

// ShapeError means the normalizer could not extract usable (date, price)
// pairs from the supplied JSON blob. Surfaced to clients as a 400.
type ShapeError struct {
	Reason string
}

func (e *ShapeError) Error() string {
	return "shape error: " + e.Reason
}

// UpstreamError means the AI collaborator failed or returned text that could
// not be parsed as JSON even after stripping code fences. Raw carries the
// offending response for diagnosis.
type UpstreamError struct {
	Op  string
	Raw string
	Err error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("upstream %s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("upstream %s returned unusable response", e.Op)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
