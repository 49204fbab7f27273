// Package readability isolates the main content of profile pages with
// go-readability.
package readability

import (
	"strings"

	"github.com/go-shiori/go-readability"
	"github.com/wkanaday/mepdir"
)

// Ensure Extractor implements mepdir.ContentExtractor at compile time.
var _ mepdir.ContentExtractor = (*Extractor)(nil)

// Extractor wraps go-readability.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract returns the page's main content as HTML.
func (e *Extractor) Extract(rawHTML string) (*mepdir.ContentResult, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, mepdir.Errorf(mepdir.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, mepdir.Errorf(mepdir.EINVALID, "readability: %v", err)
	}

	return &mepdir.ContentResult{
		Title:       article.Title,
		ContentHTML: article.Content,
	}, nil
}
