package render

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/gaurav-prasanna/cheatbook/core"
	"github.com/gaurav-prasanna/cheatbook/core/config"
)

// ErrUnknownRenderer is returned by New for an unsupported backend name.
var ErrUnknownRenderer = errors.New("unknown renderer")

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New returns the named backend and a Closer releasing its resources.
func New(name string, timeout time.Duration) (core.Renderer, io.Closer, error) {
	switch name {
	case config.RendererNative, "":
		return NewNativeRenderer(), nopCloser{}, nil
	case config.RendererChrome:
		r := NewChromeRenderer(timeout)
		return r, r, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownRenderer, name)
	}
}
