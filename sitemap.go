package mepdir

import (
	"context"
	"regexp"
)

// SitemapService lists the page URLs a site publishes in its sitemaps.
type SitemapService interface {
	// DiscoverURLs reads sitemap directives from robots.txt, falling back
	// to /sitemap.xml, and resolves sitemap indexes recursively. Only URLs
	// passing filter are returned; a nil filter passes everything.
	DiscoverURLs(ctx context.Context, baseURL string, filter *URLFilter) ([]string, error)
}

// URLFilter selects URLs by pattern. Exclude is applied after Include.
type URLFilter struct {
	Include []*regexp.Regexp
	Exclude []*regexp.Regexp
}

// Match returns true if the URL passes the filter. A nil filter passes
// every URL.
func (f *URLFilter) Match(url string) bool {
	if f == nil {
		return true
	}
	if len(f.Include) > 0 && !matchAny(f.Include, url) {
		return false
	}
	return !matchAny(f.Exclude, url)
}

func matchAny(patterns []*regexp.Regexp, s string) bool {
	for _, re := range patterns {
		if re.MatchString(s) {
			return true
		}
	}
	return false
}
