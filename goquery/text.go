package goquery

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var spaceRe = regexp.MustCompile(`\s+`)

// collapse trims s and folds every whitespace run into a single space.
func collapse(s string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}

// visibleText returns the rendered text of sel with whitespace collapsed.
// Element boundaries become spaces so that adjacent fields such as a title
// and a phone number do not run together.
func visibleText(sel *goquery.Selection) string {
	var b strings.Builder
	for _, n := range sel.Nodes {
		writeText(&b, n)
	}
	return collapse(b.String())
}

func writeText(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		return
	case html.CommentNode, html.DoctypeNode:
		return
	case html.ElementNode:
		if hidden(n) {
			return
		}
	}

	pad := n.Type == html.ElementNode && !phrasing(n)
	if pad {
		b.WriteByte(' ')
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeText(b, c)
	}
	if pad {
		b.WriteByte(' ')
	}
}

// hidden reports whether an element never renders as text.
func hidden(n *html.Node) bool {
	switch n.DataAtom {
	case atom.Script, atom.Style, atom.Noscript, atom.Template, atom.Head:
		return true
	}
	return false
}

// phrasing reports whether an element styles text inside a word or
// sentence and therefore must not introduce a word break.
func phrasing(n *html.Node) bool {
	switch n.DataAtom {
	case atom.B, atom.I, atom.Em, atom.Strong, atom.U, atom.Small,
		atom.Sup, atom.Sub, atom.Abbr, atom.Mark:
		return true
	}
	return false
}

// nodeText returns the visible text of a single node.
func nodeText(n *html.Node) string {
	var b strings.Builder
	writeText(&b, n)
	return collapse(b.String())
}

// classContains reports whether n's class attribute contains any of words
// as a case-insensitive substring.
func classContains(n *html.Node, words ...string) bool {
	return attrContains(n, "class", words...)
}

func attrContains(n *html.Node, key string, words ...string) bool {
	for _, a := range n.Attr {
		if a.Key != key {
			continue
		}
		v := strings.ToLower(a.Val)
		for _, w := range words {
			if strings.Contains(v, w) {
				return true
			}
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// isHeading reports whether n is h1-h6 and returns its rank.
func isHeading(n *html.Node) (int, bool) {
	if n.Type != html.ElementNode {
		return 0, false
	}
	switch n.DataAtom {
	case atom.H1:
		return 1, true
	case atom.H2:
		return 2, true
	case atom.H3:
		return 3, true
	case atom.H4:
		return 4, true
	case atom.H5:
		return 5, true
	case atom.H6:
		return 6, true
	}
	return 0, false
}

// inChrome reports whether n sits inside site navigation or the page-level
// header or footer. Headers and footers inside sectioning content belong
// to that content.
func inChrome(n *html.Node) bool {
	for p := n; p != nil; p = p.Parent {
		if p.Type != html.ElementNode {
			continue
		}
		switch p.DataAtom {
		case atom.Nav:
			return true
		case atom.Header, atom.Footer:
			if !inSectioning(p) {
				return true
			}
		}
	}
	return false
}

func inSectioning(n *html.Node) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		switch p.DataAtom {
		case atom.Article, atom.Section, atom.Main, atom.Aside:
			return true
		}
	}
	return false
}

// isAncestor reports whether a is a strict ancestor of n.
func isAncestor(a, n *html.Node) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if p == a {
			return true
		}
	}
	return false
}
