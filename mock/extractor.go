package mock

import "github.com/wkanaday/mepdir"

var _ mepdir.RecordExtractor = (*RecordExtractor)(nil)

// RecordExtractor is a mock implementation of mepdir.RecordExtractor.
type RecordExtractor struct {
	ExtractListingFn func(html, pageURL string, rules *mepdir.SiteRules) (*mepdir.ListingResult, error)
	ExtractProfileFn func(html, pageURL string, rules *mepdir.SiteRules) (*mepdir.StaffRecord, error)
}

func (e *RecordExtractor) ExtractListing(html, pageURL string, rules *mepdir.SiteRules) (*mepdir.ListingResult, error) {
	return e.ExtractListingFn(html, pageURL, rules)
}

func (e *RecordExtractor) ExtractProfile(html, pageURL string, rules *mepdir.SiteRules) (*mepdir.StaffRecord, error) {
	return e.ExtractProfileFn(html, pageURL, rules)
}

var _ mepdir.ContentExtractor = (*ContentExtractor)(nil)

// ContentExtractor is a mock implementation of mepdir.ContentExtractor.
type ContentExtractor struct {
	ExtractFn func(html string) (*mepdir.ContentResult, error)
}

func (e *ContentExtractor) Extract(html string) (*mepdir.ContentResult, error) {
	return e.ExtractFn(html)
}
