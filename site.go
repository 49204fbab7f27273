package mepdir

import (
	"net/url"
	"strings"
)

// DefaultMinContainers is how many candidate containers a discovery
// strategy must find before its result is trusted.
const DefaultMinContainers = 2

// Site is one MEP center directory to scrape.
type Site struct {
	// Code identifies the target sheet, usually the state abbreviation.
	Code string `json:"code"`
	Name string `json:"name"`

	// URL is the staff listing page.
	URL string `json:"url"`

	// Browser renders the listing with a headless browser instead of a
	// plain HTTP fetch, for directories built client-side.
	Browser bool `json:"browser"`

	// MaxProfiles caps how many profile pages are fetched per run.
	// Zero means no cap; a negative value disables enrichment.
	MaxProfiles int `json:"maxProfiles"`

	Rules SiteRules `json:"rules"`
}

// Validate returns an error if the site contains invalid fields.
func (s *Site) Validate() error {
	if strings.TrimSpace(s.Code) == "" {
		return Errorf(EINVALID, "site code required")
	}
	if s.URL == "" {
		return Errorf(EINVALID, "site %s: URL required", s.Code)
	}
	u, err := url.Parse(s.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return Errorf(EINVALID, "site %s: invalid URL %q", s.Code, s.URL)
	}
	if s.Rules.MinContainers < 0 {
		return Errorf(EINVALID, "site %s: min containers must not be negative", s.Code)
	}
	return nil
}

// EnrichmentEnabled reports whether profile pages may be fetched at all.
func (s *Site) EnrichmentEnabled() bool {
	return s.MaxProfiles >= 0
}

// SiteRules holds per-site selector overrides. Each list is tried in order
// before the generic heuristic for the same field, so a site needs rules
// only where the heuristics guess wrong.
type SiteRules struct {
	// Root restricts container discovery to the first matching region.
	Root []string `json:"root,omitempty"`

	Containers   []string `json:"containers,omitempty"`
	Names        []string `json:"names,omitempty"`
	Titles       []string `json:"titles,omitempty"`
	Bios         []string `json:"bios,omitempty"`
	ProfileLinks []string `json:"profileLinks,omitempty"`

	// ProfileContent selects the main content region of profile pages.
	ProfileContent []string `json:"profileContent,omitempty"`

	// TitleSuffix is stripped from a profile page's <title> to obtain the
	// person's name, e.g. " - GaMEP".
	TitleSuffix string `json:"titleSuffix,omitempty"`

	// MinContainers overrides DefaultMinContainers when positive.
	MinContainers int `json:"minContainers,omitempty"`
}

// MinimumContainers returns the effective container threshold.
func (r *SiteRules) MinimumContainers() int {
	if r == nil || r.MinContainers <= 0 {
		return DefaultMinContainers
	}
	return r.MinContainers
}

// RulesRegistry provides built-in rules for sites whose markup the generic
// heuristics handle poorly.
type RulesRegistry interface {
	// Get returns the rules registered for the site code.
	Get(code string) (SiteRules, bool)

	// List returns all registered site codes.
	List() []string
}

// SiteService provides the configured site table.
type SiteService interface {
	// FindSites returns sites matching the filter, in configuration order.
	FindSites(filter SiteFilter) ([]*Site, error)

	// FindSiteByCode returns ENOTFOUND if no site has that code.
	FindSiteByCode(code string) (*Site, error)
}

// SiteFilter represents a filter for FindSites.
type SiteFilter struct {
	// Codes selects sites by code, case-insensitively. Empty means all.
	Codes []string
}
