package core

import (
	"errors"
	"fmt"
)

// Sentinel errors shared by the pipeline stages.
var (
	ErrFetch           = errors.New("fetch failed")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrRender          = errors.New("render failed")
	ErrMerge           = errors.New("merge failed")
	ErrNothingToMerge  = errors.New("no PDF files to merge")
)

// FetchError reports a non-success HTTP status.
type FetchError struct {
	URL        string
	StatusCode int
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("unexpected status %d for %s", e.StatusCode, e.URL)
}

// Is makes errors.Is(err, ErrFetch) hold for any FetchError.
func (e *FetchError) Is(target error) bool {
	return target == ErrFetch
}

// RenderFailure records why a single page could not be rendered.
type RenderFailure struct {
	Identifier string
	Err        error
}

func (e *RenderFailure) Error() string {
	return fmt.Sprintf("rendering %s: %v", e.Identifier, e.Err)
}

func (e *RenderFailure) Unwrap() error { return e.Err }

func (e *RenderFailure) Is(target error) bool {
	return target == ErrRender
}

// MergeError reports a failure while assembling the book.
type MergeError struct {
	Output string
	Err    error
}

func (e *MergeError) Error() string {
	return fmt.Sprintf("merging into %s: %v", e.Output, e.Err)
}

func (e *MergeError) Unwrap() error { return e.Err }

func (e *MergeError) Is(target error) bool {
	return target == ErrMerge
}
