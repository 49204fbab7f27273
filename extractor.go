package mepdir

// RecordExtractor turns fetched HTML into staff records. It never performs
// I/O; the caller fetches pages and drives enrichment.
type RecordExtractor interface {
	// ExtractListing runs container discovery and field disambiguation on a
	// listing page. Containers without a usable name are dropped silently.
	// A page with no person-like elements yields an empty result, not an
	// error.
	ExtractListing(html, pageURL string, rules *SiteRules) (*ListingResult, error)

	// ExtractProfile runs field disambiguation on the main content region
	// of a profile page. Fields are returned even when no name is found.
	ExtractProfile(html, pageURL string, rules *SiteRules) (*StaffRecord, error)
}

// ListingResult is the outcome of extracting one listing page.
type ListingResult struct {
	Listings []Listing

	// Strategy names the discovery strategy that produced the containers,
	// empty when none matched.
	Strategy string

	// Containers is the number of candidate containers found, including
	// those later dropped for lacking a name.
	Containers int
}

// ContentResult holds the main content of an HTML page.
type ContentResult struct {
	Title string

	// ContentHTML is the main content as clean HTML, with navigation,
	// footers and sidebars removed.
	ContentHTML string
}

// ContentExtractor isolates the main content of a page. Enrichment uses
// it to recover a bio from profile pages without recognizable markup.
type ContentExtractor interface {
	Extract(html string) (*ContentResult, error)
}
