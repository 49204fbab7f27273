// Package trafilatura isolates the main content of profile pages with
// go-trafilatura.
package trafilatura

import (
	"bytes"
	"strings"

	"github.com/markusmobius/go-trafilatura"
	"github.com/wkanaday/mepdir"
	"golang.org/x/net/html"
)

// Ensure Extractor implements mepdir.ContentExtractor at compile time.
var _ mepdir.ContentExtractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura, falling back to its bundled
// readability and dom-distiller extractors on poor results.
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

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), trafilatura.Options{
		EnableFallback:  true,
		ExcludeComments: true,
	})
	if err != nil {
		return nil, mepdir.Errorf(mepdir.EINVALID, "trafilatura: %v", err)
	}

	var buf bytes.Buffer
	if result.ContentNode != nil {
		if err := html.Render(&buf, result.ContentNode); err != nil {
			return nil, err
		}
	}

	return &mepdir.ContentResult{
		Title:       result.Metadata.Title,
		ContentHTML: buf.String(),
	}, nil
}
