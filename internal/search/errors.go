package search

import "errors"

var (
	// ErrFetchFailed covers every lookup failure: transport, status and payload alike
	ErrFetchFailed = errors.New("fetch failed")

	// ErrNotActionable is returned by a detail request with neither selection nor query text
	ErrNotActionable = errors.New("nothing to look up")

	// ErrClosed is returned by a session after Close
	ErrClosed = errors.New("search session closed")
)
