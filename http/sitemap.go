package http

import (
	"bufio"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/beevik/etree"
	"github.com/wkanaday/mepdir"
)

// maxSitemapDepth bounds how deep sitemap indexes are followed.
const maxSitemapDepth = 3

// Ensure SitemapService implements mepdir.SitemapService.
var _ mepdir.SitemapService = (*SitemapService)(nil)

// SitemapService reads page URLs from a site's sitemaps.
type SitemapService struct {
	client    *http.Client
	userAgent string
}

// NewSitemapService creates a new SitemapService with the given HTTP client.
// If client is nil, a client with DefaultFetchTimeout is used.
func NewSitemapService(client *http.Client) *SitemapService {
	if client == nil {
		client = &http.Client{Timeout: DefaultFetchTimeout}
	}
	return &SitemapService{client: client, userAgent: DefaultUserAgent}
}

// DiscoverURLs returns the deduplicated page URLs of every sitemap declared
// by the site of baseURL, in sitemap order. Returns an empty slice when the
// site publishes no sitemap.
func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string, filter *mepdir.URLFilter) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	base, err := url.Parse(baseURL)
	if err != nil || base.Host == "" {
		return nil, mepdir.Errorf(mepdir.EINVALID, "invalid base URL %q", baseURL)
	}
	root := &url.URL{Scheme: base.Scheme, Host: base.Host}

	sitemaps, err := s.sitemapLocations(ctx, root)
	if err != nil {
		return nil, err
	}

	urls := []string{}
	seenSitemaps := make(map[string]bool)
	seenURLs := make(map[string]bool)
	for _, loc := range sitemaps {
		found, err := s.readSitemap(ctx, loc, seenSitemaps, 0)
		if err != nil {
			return nil, err
		}
		for _, u := range found {
			if seenURLs[u] || !filter.Match(u) {
				continue
			}
			seenURLs[u] = true
			urls = append(urls, u)
		}
	}
	return urls, nil
}

// sitemapLocations returns the Sitemap directives of robots.txt, or
// /sitemap.xml when robots.txt declares none and that file exists.
func (s *SitemapService) sitemapLocations(ctx context.Context, root *url.URL) ([]string, error) {
	robots := root.ResolveReference(&url.URL{Path: "/robots.txt"}).String()
	if body, err := s.get(ctx, robots); err == nil {
		defer body.Close()
		var locs []string
		scanner := bufio.NewScanner(body)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if len(line) > len("sitemap:") && strings.EqualFold(line[:len("sitemap:")], "sitemap:") {
				if loc := strings.TrimSpace(line[len("sitemap:"):]); loc != "" {
					locs = append(locs, loc)
				}
			}
		}
		if len(locs) > 0 {
			return locs, nil
		}
	} else if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	fallback := root.ResolveReference(&url.URL{Path: "/sitemap.xml"}).String()
	body, err := s.get(ctx, fallback)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, nil
	}
	body.Close()
	return []string{fallback}, nil
}

// readSitemap parses a urlset or follows a sitemapindex.
func (s *SitemapService) readSitemap(ctx context.Context, loc string, seen map[string]bool, depth int) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if seen[loc] || depth > maxSitemapDepth {
		return nil, nil
	}
	seen[loc] = true

	body, err := s.get(ctx, loc)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(body); err != nil {
		return nil, mepdir.Errorf(mepdir.EINVALID, "parsing sitemap %s: %v", loc, err)
	}
	root := doc.Root()
	if root == nil {
		return nil, mepdir.Errorf(mepdir.EINVALID, "empty sitemap %s", loc)
	}

	if root.Tag == "sitemapindex" {
		var urls []string
		for _, child := range locs(root, "sitemap") {
			found, err := s.readSitemap(ctx, child, seen, depth+1)
			if err != nil {
				return nil, err
			}
			urls = append(urls, found...)
		}
		return urls, nil
	}
	return locs(root, "url"), nil
}

// locs returns the <loc> text of every child element named tag.
func locs(root *etree.Element, tag string) []string {
	var out []string
	for _, el := range root.SelectElements(tag) {
		if loc := el.SelectElement("loc"); loc != nil {
			if u := strings.TrimSpace(loc.Text()); u != "" {
				out = append(out, u)
			}
		}
	}
	return out
}

// get issues a GET and returns the body of a 200 response.
func (s *SitemapService) get(ctx context.Context, target string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, mepdir.Errorf(mepdir.EINVALID, "invalid URL %q: %v", target, err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, mepdir.Errorf(mepdir.EFETCH, "HTTP %d for %s", resp.StatusCode, target)
	}
	return resp.Body, nil
}
