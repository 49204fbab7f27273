// Package crawl drives scraping of MEP center directories. It fetches
// listing pages, runs record extraction, and enriches records from their
// profile pages under the politeness and budget rules of each site.
package crawl

import (
	"context"
	"errors"
	"log/slog"
	"net/url"

	"dario.cat/mergo"
	"github.com/wkanaday/mepdir"
)

// Scraper scrapes one site at a time, sequentially.
type Scraper struct {
	Fetcher mepdir.Fetcher
	// BrowserFetcher serves sites with Browser set. Nil means browser
	// sites cannot be scraped.
	BrowserFetcher mepdir.Fetcher
	Extractor      mepdir.RecordExtractor
	// Content, if set, recovers bios from profile pages whose structure
	// the extractor does not recognize.
	Content mepdir.ContentExtractor
	// Rules supplies built-in rules, overridden by each site's own.
	Rules   mepdir.RulesRegistry
	Limiter mepdir.DomainLimiter
	Logger  *slog.Logger
}

// ProgressEvent reports progress while a site is scraped.
type ProgressEvent struct {
	Type      ProgressType
	Site      string
	URL       string
	Completed int
	Total     int
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressListing ProgressType = iota
	ProgressProfile
	ProgressWarning
	ProgressFinished
)

// ProgressFunc is a callback for reporting scrape progress.
type ProgressFunc func(event ProgressEvent)

// profile is a cached enrichment attempt.
type profile struct {
	record mepdir.StaffRecord
	err    error
}

// ScrapeSite fetches the site's listing page, extracts its records and
// enriches them from profile pages.
//
// A listing page that cannot be fetched or parsed aborts the site with an
// error. A listing without staff containers, and every profile failure,
// is reported as a warning in the result instead.
func (s *Scraper) ScrapeSite(ctx context.Context, site *mepdir.Site, progress ProgressFunc) (*mepdir.SiteResult, error) {
	if err := site.Validate(); err != nil {
		return nil, err
	}
	if progress == nil {
		progress = func(ProgressEvent) {}
	}
	logger := s.logger().With("site", site.Code)

	fetcher := s.Fetcher
	if site.Browser {
		if s.BrowserFetcher == nil {
			return nil, mepdir.Errorf(mepdir.EINVALID, "site %s requires browser mode, which is not available", site.Code)
		}
		fetcher = s.BrowserFetcher
	}

	rules, err := s.rulesFor(site)
	if err != nil {
		return nil, err
	}

	result := &mepdir.SiteResult{Site: site.Code, URL: site.URL, Records: []mepdir.StaffRecord{}}

	html, err := s.fetch(ctx, fetcher, site.URL)
	if err != nil {
		return nil, err
	}
	listing, err := s.Extractor.ExtractListing(html, site.URL, &rules)
	if err != nil {
		return nil, err
	}
	result.Strategy = listing.Strategy
	progress(ProgressEvent{Type: ProgressListing, Site: site.Code, URL: site.URL, Total: len(listing.Listings)})
	logger.Info("listing extracted",
		"strategy", listing.Strategy,
		"containers", listing.Containers,
		"records", len(listing.Listings),
	)

	if listing.Containers == 0 {
		s.warn(result, logger, progress, site.URL, "no staff containers found")
	}

	profiles := make(map[string]*profile)
	seen := make(map[mepdir.StaffRecord]bool)
	for i, l := range listing.Listings {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rec := l.Record
		if l.ProfileURL != "" && site.EnrichmentEnabled() {
			p, ok := profiles[l.ProfileURL]
			if !ok && (site.MaxProfiles == 0 || len(profiles) < site.MaxProfiles) {
				p = s.enrich(ctx, fetcher, l.ProfileURL, rules)
				if err := ctx.Err(); err != nil {
					return nil, err
				}
				profiles[l.ProfileURL] = p
				if p.err != nil {
					s.warn(result, logger, progress, l.ProfileURL, mepdir.ErrorMessage(p.err))
				}
			}
			if p != nil && p.err == nil {
				merged, err := MergeProfile(rec, p.record, l.ProfileURL)
				if err != nil {
					s.warn(result, logger, progress, l.ProfileURL, mepdir.ErrorMessage(err))
				} else {
					rec = merged
					result.Enriched++
				}
			}
		}

		if seen[rec] {
			logger.Debug("duplicate record dropped", "name", rec.Name)
			continue
		}
		seen[rec] = true
		logger.Debug("record", "name", rec.Name, "title", rec.Title, "source", rec.SourceURL)
		result.Records = append(result.Records, rec)
		progress(ProgressEvent{
			Type:      ProgressProfile,
			Site:      site.Code,
			URL:       rec.SourceURL,
			Completed: i + 1,
			Total:     len(listing.Listings),
		})
	}

	progress(ProgressEvent{
		Type:      ProgressFinished,
		Site:      site.Code,
		URL:       site.URL,
		Completed: len(result.Records),
		Total:     len(listing.Listings),
	})
	return result, nil
}

// enrich fetches and extracts one profile page. Failures are returned in
// the profile so the caller can warn once per URL.
func (s *Scraper) enrich(ctx context.Context, fetcher mepdir.Fetcher, profileURL string, rules mepdir.SiteRules) *profile {
	html, err := s.fetch(ctx, fetcher, profileURL)
	if err != nil {
		return &profile{err: err}
	}
	rec, err := s.Extractor.ExtractProfile(html, profileURL, &rules)
	if err != nil {
		return &profile{err: err}
	}

	if rec.Bio == "" && s.Content != nil {
		if content, err := s.Content.Extract(html); err == nil && content.ContentHTML != "" {
			fallback := rules
			fallback.ProfileContent = nil
			fallback.Bios = nil
			if alt, err := s.Extractor.ExtractProfile(content.ContentHTML, profileURL, &fallback); err == nil {
				rec.Bio = alt.Bio
			}
		}
	}
	return &profile{record: *rec}
}

// fetch waits for the host's politeness delay and fetches a page. Errors
// that do not carry a code are reported as EFETCH.
func (s *Scraper) fetch(ctx context.Context, fetcher mepdir.Fetcher, pageURL string) (string, error) {
	if s.Limiter != nil {
		u, err := url.Parse(pageURL)
		if err != nil {
			return "", mepdir.Errorf(mepdir.EINVALID, "invalid URL %q", pageURL)
		}
		if err := s.Limiter.Wait(ctx, u.Host); err != nil {
			return "", err
		}
	}

	html, err := fetcher.Fetch(ctx, pageURL)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		var e *mepdir.Error
		if errors.As(err, &e) {
			return "", err
		}
		return "", mepdir.Errorf(mepdir.EFETCH, "fetching %s: %v", pageURL, err)
	}
	return html, nil
}

// rulesFor overlays the site's own rules on the built-in ones.
func (s *Scraper) rulesFor(site *mepdir.Site) (mepdir.SiteRules, error) {
	var rules mepdir.SiteRules
	if s.Rules != nil {
		if builtin, ok := s.Rules.Get(site.Code); ok {
			rules = builtin
		}
	}
	if err := mergo.Merge(&rules, site.Rules, mergo.WithOverride); err != nil {
		return rules, mepdir.Errorf(mepdir.EINTERNAL, "site %s: merging rules: %v", site.Code, err)
	}
	return rules, nil
}

func (s *Scraper) warn(result *mepdir.SiteResult, logger *slog.Logger, progress ProgressFunc, pageURL, msg string) {
	result.Warn(pageURL, msg)
	logger.Warn(msg, "url", pageURL)
	progress(ProgressEvent{Type: ProgressWarning, Site: result.Site, URL: pageURL, Error: errors.New(msg)})
}

func (s *Scraper) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return s.Logger
}
