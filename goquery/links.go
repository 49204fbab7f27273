package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var moreWords = []string{"more", "profile"}

// profileLink returns the absolute URL of the person's profile page, or ""
// when the container has none. Site rules are tried first, then the link
// around the name, then a "more"/"profile" link, then the container itself
// when it is an anchor.
func (f *fields) profileLink(nameSel *goquery.Selection) string {
	if f.p.rules != nil {
		for _, selector := range f.p.rules.ProfileLinks {
			var found string
			findAll(f.c, selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
				found = f.p.linkURL(linkNode(s.Nodes[0]), false)
				return found == ""
			})
			if found != "" {
				return found
			}
		}
	}

	if nameSel != nil {
		if u := f.nameLink(nameSel); u != "" {
			return u
		}
	}

	var more string
	findAll(f.c, "[class]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		n := s.Nodes[0]
		if f.isRoot(n) || !classContains(n, moreWords...) {
			return true
		}
		more = f.p.linkURL(linkNode(n), true)
		return more == ""
	})
	if more != "" {
		return more
	}

	if len(f.c.Nodes) == 1 && f.c.Nodes[0].DataAtom == atom.A {
		return f.p.linkURL(f.c.Nodes[0], true)
	}
	return ""
}

// nameLink returns the link wrapping the name: the only anchor inside the
// name element, or an anchor ancestor within the container.
func (f *fields) nameLink(nameSel *goquery.Selection) string {
	n := nameSel.Nodes[0]
	if anchors := nameSel.Find("a[href]"); anchors.Length() == 1 {
		if u := f.p.linkURL(anchors.Nodes[0], true); u != "" {
			return u
		}
	}
	for p := n; p != nil && f.contains(p); p = p.Parent {
		if p.DataAtom == atom.A && attr(p, "href") != "" {
			return f.p.linkURL(p, true)
		}
	}
	return ""
}

// linkNode returns n when it is an anchor, else its first anchor
// descendant.
func linkNode(n *html.Node) *html.Node {
	if n.DataAtom == atom.A {
		return n
	}
	var found *html.Node
	var walk func(*html.Node)
	walk = func(p *html.Node) {
		for c := p.FirstChild; c != nil && found == nil; c = c.NextSibling {
			if c.Type == html.ElementNode && c.DataAtom == atom.A && attr(c, "href") != "" {
				found = c
				return
			}
			walk(c)
		}
	}
	walk(n)
	return found
}

// linkURL resolves an anchor's href against the page URL. Only http(s)
// links that do not point back at the page itself qualify; sameSite further
// restricts heuristic matches to the page's own site.
func (p *page) linkURL(a *html.Node, sameSite bool) string {
	if a == nil {
		return ""
	}
	href := strings.TrimSpace(attr(a, "href"))
	if href == "" || isNonHTTPLink(href) {
		return ""
	}
	resolved := resolveURL(p.base, href)
	if resolved == "" {
		return ""
	}
	if sameSite && !isSameSite(p.base, resolved) {
		return ""
	}
	return resolved
}

// resolveURL resolves href against base and strips the fragment. Returns ""
// if the href cannot be parsed, is not http(s), or resolves to base itself.
func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	resolved.Fragment = ""
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}

	self := *base
	self.Fragment = ""
	if resolved.String() == self.String() {
		return ""
	}
	return resolved.String()
}

// isSameSite compares hosts ignoring a leading "www.".
func isSameSite(base *url.URL, resolved string) bool {
	u, err := url.Parse(resolved)
	if err != nil {
		return false
	}
	return bareHost(u.Host) == bareHost(base.Host)
}

func bareHost(host string) string {
	return strings.TrimPrefix(strings.ToLower(host), "www.")
}

// isNonHTTPLink checks if a href is a link that never leads to a page.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:") ||
		strings.HasPrefix(href, "#")
}
