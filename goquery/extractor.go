// Package goquery implements the directory record extractor on top of
// goquery: container discovery, field disambiguation and profile link
// detection.
package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/wkanaday/mepdir"
	"golang.org/x/net/html"
)

// Ensure Extractor implements mepdir.RecordExtractor at compile time.
var _ mepdir.RecordExtractor = (*Extractor)(nil)

// profileRegions locate the main content of a profile page, in order.
var profileRegions = []string{"main", "[role=main]", "article", ".entry-content", "#content", ".content"}

// Extractor reduces listing and profile pages to staff records.
// Extractor is stateless and safe for concurrent use.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// page is one parsed document under extraction.
type page struct {
	doc   *goquery.Document
	base  *url.URL
	rules *mepdir.SiteRules
}

func newPage(rawHTML, pageURL string, rules *mepdir.SiteRules) (*page, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, mepdir.Errorf(mepdir.EINVALID, "invalid page URL: %v", err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, mepdir.Errorf(mepdir.EINVALID, "failed to parse HTML: %v", err)
	}
	if rules == nil {
		rules = &mepdir.SiteRules{}
	}
	return &page{doc: doc, base: base, rules: rules}, nil
}

// sel returns a selection of the given nodes, in the given order.
func (p *page) sel(nodes ...*html.Node) *goquery.Selection {
	return p.doc.FindNodes(nodes...)
}

// each wraps every node in its own selection.
func (p *page) each(nodes []*html.Node) []*goquery.Selection {
	out := make([]*goquery.Selection, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, p.sel(n))
	}
	return out
}

// ExtractListing discovers person containers on a listing page and reduces
// each to at most one record. Records without a valid name are dropped.
func (e *Extractor) ExtractListing(rawHTML, pageURL string, rules *mepdir.SiteRules) (*mepdir.ListingResult, error) {
	p, err := newPage(rawHTML, pageURL, rules)
	if err != nil {
		return nil, err
	}

	found := discover(p)
	result := &mepdir.ListingResult{
		Strategy:   found.strategy,
		Containers: len(found.containers),
	}
	for _, c := range found.containers {
		f := &fields{p: p, c: c}
		rec, nameSel := f.record()
		rec.SourceURL = pageURL
		if err := rec.Validate(); err != nil {
			continue
		}
		result.Listings = append(result.Listings, mepdir.Listing{
			Record:     rec,
			ProfileURL: f.profileLink(nameSel),
		})
	}
	return result, nil
}

// ExtractProfile reads a record from the main content region of a profile
// page. When the site names a <title> suffix, the name is taken from the
// page title.
func (e *Extractor) ExtractProfile(rawHTML, pageURL string, rules *mepdir.SiteRules) (*mepdir.StaffRecord, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, mepdir.Errorf(mepdir.EINVALID, "empty HTML input")
	}
	p, err := newPage(rawHTML, pageURL, rules)
	if err != nil {
		return nil, err
	}

	f := &fields{p: p, c: p.mainRegion(), profile: true}
	rec, _ := f.record()
	if name := p.titleName(); name != "" {
		rec.Name = name
	}
	rec.SourceURL = pageURL
	return &rec, nil
}

// mainRegion returns the profile page's main content.
func (p *page) mainRegion() *goquery.Selection {
	selectors := append(append([]string{}, p.rules.ProfileContent...), profileRegions...)
	for _, selector := range selectors {
		if s := p.doc.Find(selector).First(); s.Length() > 0 {
			return s
		}
	}
	if body := p.doc.Find("body"); body.Length() > 0 {
		return body
	}
	return p.doc.Selection
}

// titleName derives a name from <title> when the site's suffix is present.
func (p *page) titleName() string {
	suffix := p.rules.TitleSuffix
	if suffix == "" {
		return ""
	}
	title := collapse(p.doc.Find("title").First().Text())
	trimmed := strings.TrimSuffix(title, collapse(suffix))
	if trimmed == title {
		return ""
	}
	return cleanName(trimmed)
}
