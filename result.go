package mepdir

// Warning is a soft failure that did not stop a site: a profile page that
// could not be fetched, or a listing page with no recognizable staff.
type Warning struct {
	URL     string `json:"url"`
	Message string `json:"message"`
}

// SiteResult is the outcome of scraping one site.
type SiteResult struct {
	Site     string        `json:"site"`
	URL      string        `json:"url"`
	Records  []StaffRecord `json:"records"`
	Warnings []Warning     `json:"warnings"`

	// Strategy names the container discovery strategy that matched.
	Strategy string `json:"strategy"`

	// Enriched counts records merged with a profile page.
	Enriched int `json:"enriched"`
}

// Warn appends a warning to the result.
func (r *SiteResult) Warn(url, message string) {
	r.Warnings = append(r.Warnings, Warning{URL: url, Message: message})
}
