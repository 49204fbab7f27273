package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/wkanaday/mepdir"
)

var _ mepdir.PageInspector = (*Inspector)(nil)

var (
	// staffKeywords mark a page as being about people.
	staffKeywords = []string{"staff", "team", "people", "director", "manager"}

	// staffLinkWords mark link text that leads to a directory.
	staffLinkWords = []string{"team", "staff", "people", "leadership", "who we are"}
)

// Inspector answers the structural questions staff page discovery asks of
// fetched pages.
type Inspector struct {
	extractor *Extractor
}

// NewInspector creates a new Inspector.
func NewInspector() *Inspector {
	return &Inspector{extractor: NewExtractor()}
}

// LooksLikeStaffPage reports whether html mentions staff and yields enough
// named containers to be a directory.
func (i *Inspector) LooksLikeStaffPage(rawHTML, pageURL string) bool {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return false
	}
	text := strings.ToLower(visibleText(doc.Find("body")))
	mentions := false
	for _, kw := range staffKeywords {
		if strings.Contains(text, kw) {
			mentions = true
			break
		}
	}
	if !mentions {
		return false
	}

	result, err := i.extractor.ExtractListing(rawHTML, pageURL, nil)
	if err != nil {
		return false
	}
	return len(result.Listings) >= mepdir.DefaultMinContainers
}

// StaffLinks returns same-site links whose text suggests a staff
// directory, deduplicated, in document order.
func (i *Inspector) StaffLinks(rawHTML, pageURL string) ([]string, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, mepdir.Errorf(mepdir.EINVALID, "invalid base URL: %v", err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return nil, mepdir.Errorf(mepdir.EINVALID, "failed to parse HTML: %v", err)
	}

	seen := make(map[string]bool)
	var links []string
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		text := strings.ToLower(visibleText(s))
		if !containsAny(text, staffLinkWords) {
			return
		}
		href, _ := s.Attr("href")
		if isNonHTTPLink(href) {
			return
		}
		resolved := resolveURL(base, href)
		if resolved == "" || !isSameSite(base, resolved) || seen[resolved] {
			return
		}
		seen[resolved] = true
		links = append(links, resolved)
	})
	return links, nil
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
