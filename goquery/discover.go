package goquery

import (
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Class vocabularies for the structural strategies, most specific first.
var (
	memberWords = []string{"team", "staff", "member", "person", "employee"}
	cardWords   = []string{"card", "profile"}
)

// strategy is one container discovery heuristic. find returns candidate
// containers below scope in document order. A container is a Selection of
// one element, or of a heading and the sibling nodes that follow it.
type strategy struct {
	name string
	find func(p *page, scope *goquery.Selection) []*goquery.Selection
}

// cascade lists the strategies in the order they are trusted.
var cascade = []strategy{
	{name: "rules", find: byRules},
	{name: "member-class", find: byClass(memberWords)},
	{name: "card-class", find: byClass(cardWords)},
	{name: "headings", find: byHeadings},
}

type discovery struct {
	strategy   string
	containers []*goquery.Selection
}

// discover locates person containers on a listing page.
func discover(p *page) discovery {
	threshold := p.rules.MinimumContainers()

	if root := findRoot(p); root != nil {
		if d, ok := firstUsable(p, root, threshold); ok {
			return d
		}
		if children := rootChildren(p, root); len(children) >= threshold {
			return discovery{strategy: "root-children", containers: children}
		}
		return discovery{}
	}

	scope := p.doc.Find("body")
	if scope.Length() == 0 {
		scope = p.doc.Selection
	}
	d, _ := firstUsable(p, scope, threshold)
	return d
}

// firstUsable evaluates the cascade and returns the result of the first
// strategy that finds at least threshold containers.
func firstUsable(p *page, scope *goquery.Selection, threshold int) (discovery, bool) {
	for _, s := range cascade {
		if found := s.find(p, scope); len(found) >= threshold {
			return discovery{strategy: s.name, containers: found}, true
		}
	}
	return discovery{}, false
}

func byRules(p *page, scope *goquery.Selection) []*goquery.Selection {
	if p.rules == nil {
		return nil
	}
	threshold := p.rules.MinimumContainers()
	for _, selector := range p.rules.Containers {
		var nodes []*html.Node
		scope.Find(selector).Each(func(_ int, s *goquery.Selection) {
			if !isDocumentShell(s.Nodes[0]) {
				nodes = append(nodes, s.Nodes[0])
			}
		})
		nodes = outermost(nodes)
		if len(nodes) >= threshold {
			return p.each(nodes)
		}
	}
	return nil
}

// byClass matches elements whose class contains one of words. Where a
// match is itself a group of people, the search descends into it.
func byClass(words []string) func(p *page, scope *goquery.Selection) []*goquery.Selection {
	return func(p *page, scope *goquery.Selection) []*goquery.Selection {
		var nodes []*html.Node
		scope.Find("[class]").Each(func(_ int, s *goquery.Selection) {
			n := s.Nodes[0]
			if isDocumentShell(n) || inChrome(n) || !classContains(n, words...) {
				return
			}
			if nodeText(n) == "" {
				return
			}
			nodes = append(nodes, n)
		})
		return p.each(p.people(nodes))
	}
}

// people reduces matched nodes to person containers. Outermost matches are
// kept unless their own outermost matching descendants include two or more
// person-like elements, in which case the match is a wrapper around a group
// and its person-like descendants are considered instead.
func (p *page) people(matched []*html.Node) []*html.Node {
	set := make(map[*html.Node]bool, len(matched))
	for _, n := range matched {
		set[n] = true
	}

	var out []*html.Node
	var resolve func(n *html.Node)
	resolve = func(n *html.Node) {
		var persons []*html.Node
		for _, k := range topMatches(n, set) {
			if p.personLike(k) {
				persons = append(persons, k)
			}
		}
		if len(persons) >= 2 {
			for _, k := range persons {
				resolve(k)
			}
			return
		}
		out = append(out, n)
	}

	for _, n := range outermost(matched) {
		resolve(n)
	}
	return out
}

// personLike reports whether n holds something a name can be read from.
func (p *page) personLike(n *html.Node) bool {
	s := p.sel(n)
	if p.rules != nil {
		for _, selector := range p.rules.Names {
			if s.Is(selector) || s.Find(selector).Length() > 0 {
				return true
			}
		}
	}
	return s.Find("h1, h2, h3, h4, h5, h6, strong, b").Length() > 0
}

// byHeadings treats each heading as the start of a person section running
// to the next heading of equal or higher rank. Only sections with a contact
// cue count. Of all heading ranks the one yielding the most sections wins,
// the higher rank on a tie, so a page title above a list of people does not
// swallow them.
func byHeadings(p *page, scope *goquery.Selection) []*goquery.Selection {
	var best []*goquery.Selection
	for rank := 1; rank <= 6; rank++ {
		var found []*goquery.Selection
		scope.Find(headingTag(rank)).Each(func(_ int, h *goquery.Selection) {
			n := h.Nodes[0]
			if inChrome(n) || nodeText(n) == "" {
				return
			}
			nodes := []*html.Node{n}
			for sib := n.NextSibling; sib != nil; sib = sib.NextSibling {
				if endsSection(sib, rank) {
					break
				}
				nodes = append(nodes, sib)
			}
			if c := p.sel(nodes...); hasContactCue(c) {
				found = append(found, c)
			}
		})
		if len(found) > len(best) {
			best = found
		}
	}
	return best
}

func headingTag(rank int) string {
	return string([]byte{'h', byte('0' + rank)})
}

// endsSection reports whether sib is, or contains, a heading of rank or
// higher.
func endsSection(sib *html.Node, rank int) bool {
	if sib.Type != html.ElementNode {
		return false
	}
	if r, ok := isHeading(sib); ok && r <= rank {
		return true
	}
	for c := sib.FirstChild; c != nil; c = c.NextSibling {
		if endsSection(c, rank) {
			return true
		}
	}
	return false
}

// findRoot returns the designated directory region, if any.
func findRoot(p *page) *goquery.Selection {
	if p.rules != nil {
		for _, selector := range p.rules.Root {
			if s := p.doc.Find(selector).First(); s.Length() > 0 {
				return s
			}
		}
	}

	var root *goquery.Selection
	p.doc.Find("[id], [class]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		n := s.Nodes[0]
		if isDocumentShell(n) || inChrome(n) {
			return true
		}
		if attrContains(n, "id", "directory") || classContains(n, "directory") {
			root = s
			return false
		}
		return true
	})
	return root
}

// rootChildren treats each immediate child element of root that carries
// visible text as one container.
func rootChildren(p *page, root *goquery.Selection) []*goquery.Selection {
	var out []*goquery.Selection
	root.Children().Each(func(_ int, s *goquery.Selection) {
		if n := s.Nodes[0]; !hidden(n) && nodeText(n) != "" {
			out = append(out, s)
		}
	})
	return out
}

// hasContactCue reports whether c carries an email address or phone number.
func hasContactCue(c *goquery.Selection) bool {
	if len(mailtoLinks(c)) > 0 || len(telLinks(c)) > 0 {
		return true
	}
	text := visibleText(c)
	return emailRe.MatchString(text) || phoneRe.MatchString(text)
}

// outermost drops every node that has an ancestor in nodes. Order is kept.
func outermost(nodes []*html.Node) []*html.Node {
	set := make(map[*html.Node]bool, len(nodes))
	for _, n := range nodes {
		set[n] = true
	}
	var out []*html.Node
	for _, n := range nodes {
		if !hasAncestorIn(n, set) {
			out = append(out, n)
		}
	}
	return out
}

func hasAncestorIn(n *html.Node, set map[*html.Node]bool) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if set[p] {
			return true
		}
	}
	return false
}

// topMatches returns the outermost descendants of n that are in set, in
// document order.
func topMatches(n *html.Node, set map[*html.Node]bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(parent *html.Node) {
		for c := parent.FirstChild; c != nil; c = c.NextSibling {
			if set[c] {
				out = append(out, c)
				continue
			}
			walk(c)
		}
	}
	walk(n)
	return out
}

func isDocumentShell(n *html.Node) bool {
	return n.DataAtom == atom.Html || n.DataAtom == atom.Body
}
