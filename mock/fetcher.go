package mock

import (
	"context"

	"github.com/wkanaday/mepdir"
)

var _ mepdir.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of mepdir.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}

var _ mepdir.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of mepdir.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, host string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, host string) error {
	return l.WaitFn(ctx, host)
}
