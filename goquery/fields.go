package goquery

import (
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/wkanaday/mepdir"
	"golang.org/x/net/html"
)

// minBioParagraph is the shortest paragraph, in characters, kept in a bio.
// Shorter paragraphs are usually titles, captions or button labels.
const minBioParagraph = 50

var (
	emailRe     = regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`)
	fullEmailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

	// contactLabelRe matches text that introduces contact details rather
	// than describing a role.
	contactLabelRe = regexp.MustCompile(`(?i)^(?:e-?mail|phone|tel|telephone|office|mobile|cell|fax|direct)\b`)

	// moreLinkRe matches call-to-action labels that follow a name on cards.
	moreLinkRe = regexp.MustCompile(`(?i)^(?:read|learn|view|see)\s+(?:more|bio|profile|full)`)
)

var titleWords = []string{"title", "position", "role", "job"}

// fields disambiguates the fields of one container.
type fields struct {
	p *page
	c *goquery.Selection

	// profile selects profile page behavior: every qualifying paragraph is
	// part of the bio, not only those after the first.
	profile bool
}

// record extracts a StaffRecord. The returned selection is the element the
// name was read from, nil when no name was found.
func (f *fields) record() (mepdir.StaffRecord, *goquery.Selection) {
	var rec mepdir.StaffRecord
	nameSel := f.nameElement()
	if nameSel != nil {
		rec.Name = cleanName(visibleText(nameSel))
	}
	rec.Title = f.title(nameSel, rec.Name)
	rec.Email = f.email()
	rec.Phone, rec.Mobile = f.phones()
	rec.Bio = f.bio()
	return rec, nameSel
}

// nameElement returns the element holding the person's name: a site rule
// match, else the first heading, else the first bold text.
func (f *fields) nameElement() *goquery.Selection {
	var selectors []string
	if f.p.rules != nil {
		selectors = append(selectors, f.p.rules.Names...)
	}
	selectors = append(selectors, "h1, h2, h3, h4, h5, h6", "strong, b")

	for _, selector := range selectors {
		var found *goquery.Selection
		findAll(f.c, selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			if visibleText(s) != "" {
				found = s
				return false
			}
			return true
		})
		if found != nil {
			return found
		}
	}
	return nil
}

// title returns the person's role: a site rule match, else an element
// classed as a title, else the first short text following the name.
func (f *fields) title(nameSel *goquery.Selection, name string) string {
	if f.p.rules != nil {
		for _, selector := range f.p.rules.Titles {
			if t := firstText(findAll(f.c, selector)); t != "" {
				return t
			}
		}
	}

	var nameNode *html.Node
	if nameSel != nil {
		nameNode = nameSel.Nodes[0]
	}

	var classed string
	findAll(f.c, "[class]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		n := s.Nodes[0]
		if !classContains(n, titleWords...) {
			return true
		}
		if nameNode != nil && (n == nameNode || isAncestor(n, nameNode) || isAncestor(nameNode, n)) {
			return true
		}
		if t := visibleText(s); t != "" && isTitleText(t, name) {
			classed = t
			return false
		}
		return true
	})
	if classed != "" {
		return classed
	}

	if nameNode == nil {
		return ""
	}
	return f.siblingTitle(nameNode, name)
}

// siblingTitle walks the nodes following the name element, climbing to the
// name's ancestors inside the container when a level runs out.
func (f *fields) siblingTitle(nameNode *html.Node, name string) string {
	for n := nameNode; n != nil && f.contains(n); n = n.Parent {
		for sib := n.NextSibling; sib != nil; sib = sib.NextSibling {
			if !f.contains(sib) {
				return ""
			}
			var t string
			switch sib.Type {
			case html.TextNode:
				t = collapse(sib.Data)
			case html.ElementNode:
				if hidden(sib) {
					continue
				}
				t = nodeText(sib)
			}
			if t != "" && isTitleText(t, name) {
				return t
			}
		}
		if f.isRoot(n) {
			break
		}
	}
	return ""
}

// isTitleText reports whether t can be a job title for the named person.
func isTitleText(t, name string) bool {
	if utf8.RuneCountInString(t) >= 100 {
		return false
	}
	if strings.EqualFold(t, name) || moreLinkRe.MatchString(t) {
		return false
	}
	return !isContactText(t)
}

func isContactText(t string) bool {
	return contactLabelRe.MatchString(t) || emailRe.MatchString(t) || phoneRe.MatchString(t)
}

// email returns the first valid mailto address, else the first address in
// the container's text. Case is preserved.
func (f *fields) email() string {
	for _, a := range mailtoLinks(f.c) {
		if addr := mailtoAddress(attr(a, "href")); addr != "" {
			return addr
		}
	}
	return emailRe.FindString(visibleText(f.c))
}

// mailtoAddress extracts the address of a mailto href, dropping any query.
func mailtoAddress(href string) string {
	href = strings.TrimSpace(href)
	if len(href) < len("mailto:") || !strings.EqualFold(href[:len("mailto:")], "mailto:") {
		return ""
	}
	addr := href[len("mailto:"):]
	if i := strings.IndexByte(addr, '?'); i >= 0 {
		addr = addr[:i]
	}
	if unescaped, err := url.PathUnescape(addr); err == nil {
		addr = unescaped
	}
	addr = strings.TrimSpace(addr)
	if !fullEmailRe.MatchString(addr) {
		return ""
	}
	return addr
}

// bio joins the container's descriptive paragraphs: those longer than
// minBioParagraph characters without contact details.
func (f *fields) bio() string {
	if f.p.rules != nil {
		for _, selector := range f.p.rules.Bios {
			matched := findAll(f.c, selector)
			if matched.Length() == 0 {
				continue
			}
			if paras := matched.Find("p"); paras.Length() > 0 {
				return joinBio(paras, 0)
			}
			return visibleText(matched)
		}
	}

	skip := 1
	if f.profile {
		skip = 0
	}
	return joinBio(findAll(f.c, "p"), skip)
}

func joinBio(paras *goquery.Selection, skip int) string {
	var parts []string
	paras.Each(func(i int, s *goquery.Selection) {
		if i < skip {
			return
		}
		t := visibleText(s)
		if utf8.RuneCountInString(t) <= minBioParagraph {
			return
		}
		if emailRe.MatchString(t) || phoneRe.MatchString(t) {
			return
		}
		parts = append(parts, t)
	})
	return strings.Join(parts, " ")
}

// contains reports whether n lies within the container.
func (f *fields) contains(n *html.Node) bool {
	for _, root := range f.c.Nodes {
		if n == root || isAncestor(root, n) {
			return true
		}
	}
	return false
}

// isRoot reports whether n is one of the container's top-level nodes.
func (f *fields) isRoot(n *html.Node) bool {
	for _, root := range f.c.Nodes {
		if n == root {
			return true
		}
	}
	return false
}

// findAll matches selector against the container's nodes and their
// descendants, in document order.
func findAll(c *goquery.Selection, selector string) *goquery.Selection {
	return c.Filter(selector).AddSelection(c.Find(selector))
}

// firstText returns the first non-empty visible text in sel.
func firstText(sel *goquery.Selection) string {
	var t string
	sel.EachWithBreak(func(_ int, s *goquery.Selection) bool {
		t = visibleText(s)
		return t == ""
	})
	return t
}

// mailtoLinks returns the container's anchors with a mailto href.
func mailtoLinks(c *goquery.Selection) []*html.Node {
	return schemeLinks(c, "mailto:")
}

// telLinks returns the container's anchors with a tel href.
func telLinks(c *goquery.Selection) []*html.Node {
	return schemeLinks(c, "tel:")
}

func schemeLinks(c *goquery.Selection, scheme string) []*html.Node {
	var out []*html.Node
	findAll(c, "a[href]").Each(func(_ int, s *goquery.Selection) {
		href := strings.ToLower(strings.TrimSpace(attr(s.Nodes[0], "href")))
		if strings.HasPrefix(href, scheme) {
			out = append(out, s.Nodes[0])
		}
	})
	return out
}
