package mepdir

import "context"

// Fetcher retrieves HTML from URLs.
//
// A fetch is a single attempt bounded by the implementation's timeout.
// Any network failure or non-200 response is an EFETCH error.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases resources (e.g. a browser process).
	Close() error
}

// DomainLimiter enforces politeness between requests to the same host.
type DomainLimiter interface {
	// Wait blocks until a request to the host may proceed.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, host string) error
}
