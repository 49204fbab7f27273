package crawl

import (
	"context"
	"log/slog"
	"net/url"
	"regexp"

	"github.com/wkanaday/mepdir"
)

// StaffPaths are probed in order when looking for a staff listing.
var StaffPaths = []string{
	"/team",
	"/our-team",
	"/staff",
	"/our-staff",
	"/about/team",
	"/about/staff",
	"/people",
	"/about/people",
	"/leadership",
	"/about-us/team",
	"/about-us/staff",
	"/meet-the-team",
}

// staffURLRe selects sitemap entries that look like a directory, not an
// individual profile.
var staffURLRe = regexp.MustCompile(`(?i)/(?:our-)?(?:team|staff|people|leadership)(?:-[a-z]+)*/?$`)

var _ mepdir.StaffPageFinder = (*Finder)(nil)

// Finder locates a center's staff listing from its home page URL. Common
// paths are probed first, then sitemap entries, then home page links.
type Finder struct {
	Fetcher   mepdir.Fetcher
	Sitemaps  mepdir.SitemapService
	Inspector mepdir.PageInspector
	Limiter   mepdir.DomainLimiter
	Logger    *slog.Logger
}

// FindStaffPage returns the first candidate page that looks like a staff
// directory. Returns ENOTFOUND when every strategy comes up empty.
func (f *Finder) FindStaffPage(ctx context.Context, baseURL string) (string, error) {
	base, err := url.Parse(baseURL)
	if err != nil || (base.Scheme != "http" && base.Scheme != "https") || base.Host == "" {
		return "", mepdir.Errorf(mepdir.EINVALID, "invalid base URL %q", baseURL)
	}
	root := &url.URL{Scheme: base.Scheme, Host: base.Host}
	tried := make(map[string]bool)

	for _, p := range StaffPaths {
		candidate := root.ResolveReference(&url.URL{Path: p}).String()
		if ok, err := f.check(ctx, candidate, tried); err != nil {
			return "", err
		} else if ok {
			return candidate, nil
		}
	}

	if f.Sitemaps != nil {
		urls, err := f.Sitemaps.DiscoverURLs(ctx, root.String(), &mepdir.URLFilter{
			Include: []*regexp.Regexp{staffURLRe},
		})
		if err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			f.logger().Debug("sitemap unavailable", "url", root.String(), "err", err)
		}
		for _, candidate := range urls {
			if ok, err := f.check(ctx, candidate, tried); err != nil {
				return "", err
			} else if ok {
				return candidate, nil
			}
		}
	}

	home, err := f.fetch(ctx, baseURL)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", mepdir.Errorf(mepdir.ENOTFOUND, "no staff page found for %s", baseURL)
	}
	links, err := f.Inspector.StaffLinks(home, baseURL)
	if err != nil {
		return "", err
	}
	for _, candidate := range links {
		if ok, err := f.check(ctx, candidate, tried); err != nil {
			return "", err
		} else if ok {
			return candidate, nil
		}
	}
	return "", mepdir.Errorf(mepdir.ENOTFOUND, "no staff page found for %s", baseURL)
}

// check fetches a candidate once. Fetch failures count as a miss; only
// context errors are returned.
func (f *Finder) check(ctx context.Context, candidate string, tried map[string]bool) (bool, error) {
	if tried[candidate] {
		return false, nil
	}
	tried[candidate] = true

	html, err := f.fetch(ctx, candidate)
	if err != nil {
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		f.logger().Debug("candidate rejected", "url", candidate, "err", err)
		return false, nil
	}
	ok := f.Inspector.LooksLikeStaffPage(html, candidate)
	f.logger().Debug("candidate checked", "url", candidate, "staff", ok)
	return ok, nil
}

func (f *Finder) fetch(ctx context.Context, pageURL string) (string, error) {
	if f.Limiter != nil {
		u, err := url.Parse(pageURL)
		if err != nil {
			return "", err
		}
		if err := f.Limiter.Wait(ctx, u.Host); err != nil {
			return "", err
		}
	}
	return f.Fetcher.Fetch(ctx, pageURL)
}

func (f *Finder) logger() *slog.Logger {
	if f.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return f.Logger
}
