package core

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorClassification(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")

	tests := []struct {
		name   string
		err    error
		target error
		want   bool
	}{
		{"fetch error is ErrFetch", &FetchError{URL: "http://x", StatusCode: 404}, ErrFetch, true},
		{"wrapped fetch error is ErrFetch", fmt.Errorf("listing: %w", &FetchError{StatusCode: 500}), ErrFetch, true},
		{"fetch error is not ErrMerge", &FetchError{StatusCode: 500}, ErrMerge, false},
		{"render failure is ErrRender", &RenderFailure{Identifier: "A", Err: cause}, ErrRender, true},
		{"render failure unwraps cause", &RenderFailure{Identifier: "A", Err: cause}, cause, true},
		{"merge error is ErrMerge", &MergeError{Output: "b.pdf", Err: cause}, ErrMerge, true},
		{"merge error unwraps cause", &MergeError{Output: "b.pdf", Err: cause}, cause, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := errors.Is(tt.err, tt.target); got != tt.want {
				t.Errorf("errors.Is(%v, %v) = %v, want %v", tt.err, tt.target, got, tt.want)
			}
		})
	}
}

func TestFetchErrorMessage(t *testing.T) {
	t.Parallel()

	err := &FetchError{URL: "https://example.com/x", StatusCode: 404}
	want := "unexpected status 404 for https://example.com/x"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestRenderOptionsGet(t *testing.T) {
	t.Parallel()

	opts := RenderOptions{"page_size": "Letter", "blank": ""}
	if got := opts.Get("page_size", "A4"); got != "Letter" {
		t.Errorf("Get(page_size) = %q, want Letter", got)
	}
	if got := opts.Get("blank", "A4"); got != "A4" {
		t.Errorf("Get(blank) = %q, want A4", got)
	}
	var nilOpts RenderOptions
	if got := nilOpts.Get("anything", "def"); got != "def" {
		t.Errorf("nil Get = %q, want def", got)
	}
}
