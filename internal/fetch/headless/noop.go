package headless

import (
	"context"
	"errors"

	"github.com/ozanunsal/hikmet-crawler/internal/fetch"
)

// ErrDisabled is returned by the noop fetcher for every request.
var ErrDisabled = errors.New("headless fetching is disabled")

// Noop satisfies fetch.Fetcher when no browser is available; any source that
// requires rendering fails fast with ErrDisabled.
type Noop struct{}

// Fetch always fails with ErrDisabled.
func (Noop) Fetch(context.Context, fetch.Request) (fetch.Response, error) {
	return fetch.Response{}, ErrDisabled
}

// Close implements the optional closer; it performs no action.
func (Noop) Close() {}
