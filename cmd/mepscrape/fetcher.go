package main

import (
	"context"
	"sync"

	"github.com/wkanaday/mepdir"
)

var _ mepdir.Fetcher = (*lazyFetcher)(nil)

// lazyFetcher starts its fetcher on first use, so runs without browser
// sites never launch Chrome.
type lazyFetcher struct {
	start func() (mepdir.Fetcher, error)

	mu      sync.Mutex
	started bool
	fetcher mepdir.Fetcher
	err     error
}

func (f *lazyFetcher) Fetch(ctx context.Context, url string) (string, error) {
	next, err := f.get()
	if err != nil {
		return "", err
	}
	return next.Fetch(ctx, url)
}

func (f *lazyFetcher) get() (mepdir.Fetcher, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.started {
		f.started = true
		f.fetcher, f.err = f.start()
	}
	return f.fetcher, f.err
}

// Close closes the fetcher if it was started.
func (f *lazyFetcher) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fetcher == nil {
		return nil
	}
	return f.fetcher.Close()
}
