package goquery

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const phonePattern = `(?:\+?\b1[\s.\-]?)?\(?(\d{3})\)?[\s.\-]?(\d{3})[\s.\-]?(\d{4})\b`

var (
	phoneRe = regexp.MustCompile(phonePattern)

	// labeledPhoneRe matches a number introduced by a label, as in
	// "Office: 501-555-0100" or "C: (501) 555-0101". Group 1 holds a word
	// label, group 2 a one-letter label.
	labeledPhoneRe = regexp.MustCompile(`(?i)\b(?:(mobile|cell|fax|phone|telephone|tel|office|direct|work|main)(?:\s+(?:phone|number|line))?\s*[:.\-]?|([mcfpot])\s*[:.])\s*` + phonePattern)

	// labelBeforeRe matches a label ending the text in front of a number.
	labelBeforeRe = regexp.MustCompile(`(?i)\b(?:(mobile|cell|fax|phone|telephone|tel|office|direct|work|main)(?:\s+(?:phone|number|line))?\s*[:.\-]?|([mcfpot])\s*[:.])\s*$`)

	// labelAfterRe matches a label right after a number, as in
	// "501-555-0199 Mobile". A colon after the word makes it the label of
	// the next number instead.
	labelAfterRe = regexp.MustCompile(`(?i)^[\s()\[\]|,\-]*(mobile|cell|fax|phone|office|direct|work|main)\b\s*(:?)`)

	mobileWordRe = regexp.MustCompile(`(?i)\b(?:mobile|cell)`)

	// mobileClassRe is narrower than mobileWordRe: layout classes such as
	// "grid-cell" must not mark a number as mobile.
	mobileClassRe = regexp.MustCompile(`(?i)mobile|cell-?phone`)
	faxClassRe    = regexp.MustCompile(`(?i)(?:^|[\s_-])fax(?:$|[\s_-])`)
	faxWordRe     = regexp.MustCompile(`(?i)\bfax\b`)
	phoneWordRe   = regexp.MustCompile(`(?i)\b(?:phone|office|tel|telephone|direct|main|work)\b`)
)

type phoneKind int

const (
	unlabeled phoneKind = iota
	officePhone
	mobilePhone
	faxPhone
)

// kindOfLabel maps a matched label to a phone kind.
func kindOfLabel(word, letter string) phoneKind {
	switch strings.ToLower(word + letter) {
	case "mobile", "cell", "m", "c":
		return mobilePhone
	case "fax", "f":
		return faxPhone
	}
	return officePhone
}

// matchPhone finds the first 10-digit number in s that is not part of a
// longer digit run and returns its area, exchange and line groups.
func matchPhone(s string) ([]string, bool) {
	for _, loc := range phoneRe.FindAllStringSubmatchIndex(s, -1) {
		if loc[0] > 0 && isDigit(s[loc[0]-1]) {
			continue
		}
		return []string{s[loc[2]:loc[3]], s[loc[4]:loc[5]], s[loc[6]:loc[7]]}, true
	}
	return nil, false
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func formatPhone(groups []string) string {
	return fmt.Sprintf("(%s) %s-%s", groups[0], groups[1], groups[2])
}

// normalizePhone formats raw as "(AAA) EEE-LLLL" when it holds a 10-digit
// number and returns it unchanged otherwise.
func normalizePhone(raw string) string {
	if groups, ok := matchPhone(raw); ok {
		return formatPhone(groups)
	}
	return collapse(raw)
}

// digitKey reduces a number to its digits for duplicate detection.
func digitKey(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if isDigit(s[i]) {
			b.WriteByte(s[i])
		}
	}
	k := b.String()
	if len(k) == 11 && k[0] == '1' {
		k = k[1:]
	}
	return k
}

// telToken is a tel link with the text around it.
type telToken struct {
	node *html.Node

	// before is the text since the previous tel link; after runs to the
	// next one.
	before string
	after  string
}

// telTokens walks the container in document order, splitting its text at
// each tel link.
func (f *fields) telTokens() []telToken {
	var tokens []telToken
	var buf strings.Builder

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			buf.WriteString(n.Data)
			return
		case html.ElementNode:
			if hidden(n) {
				return
			}
			if n.DataAtom == atom.A && strings.HasPrefix(strings.ToLower(strings.TrimSpace(attr(n, "href"))), "tel:") {
				text := buf.String()
				buf.Reset()
				if len(tokens) > 0 {
					tokens[len(tokens)-1].after = text
				}
				tokens = append(tokens, telToken{node: n, before: text})
				return
			}
		}
		pad := n.Type == html.ElementNode && !phrasing(n)
		if pad {
			buf.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if pad {
			buf.WriteByte(' ')
		}
	}
	for _, n := range f.c.Nodes {
		walk(n)
	}
	if len(tokens) > 0 {
		tokens[len(tokens)-1].after = buf.String()
	}
	return tokens
}

// phones returns the office and mobile numbers of the container. Tel links
// are preferred; labeled numbers in the text are the fallback, then the
// first bare number as the office phone.
func (f *fields) phones() (phone, mobile string) {
	if tokens := f.telTokens(); len(tokens) > 0 {
		return assignTelTokens(tokens)
	}
	return textPhones(visibleText(f.c))
}

func assignTelTokens(tokens []telToken) (phone, mobile string) {
	used := make(map[string]bool)
	var unlabeledNumbers []string
	consumed := false

	for _, tok := range tokens {
		kind, takesAfter := classifyTel(tok, consumed)
		consumed = takesAfter

		number := telNumber(tok.node)
		key := digitKey(number)
		if number == "" || used[key] {
			continue
		}
		switch kind {
		case mobilePhone:
			if mobile == "" {
				mobile = number
				used[key] = true
			}
		case officePhone:
			if phone == "" {
				phone = number
				used[key] = true
			}
		case faxPhone:
			used[key] = true
		default:
			unlabeledNumbers = append(unlabeledNumbers, number)
		}
	}

	// A labeled occurrence of the same number wins over an unlabeled one.
	if phone == "" {
		for _, number := range unlabeledNumbers {
			if !used[digitKey(number)] {
				phone = number
				break
			}
		}
	}
	return phone, mobile
}

// classifyTel decides what kind of number a tel link carries. consumed says
// the previous link claimed the leading label of tok.before as its own.
// takesAfter reports whether this link claims the leading label of its
// after text.
func classifyTel(tok telToken, consumed bool) (kind phoneKind, takesAfter bool) {
	if k, ok := ownCue(tok.node); ok {
		return k, false
	}

	before := tok.before
	if consumed {
		if m := labelAfterRe.FindStringSubmatchIndex(before); m != nil && m[4] == m[5] {
			before = before[m[1]:]
		}
	}
	if m := labelBeforeRe.FindStringSubmatch(before); m != nil {
		return kindOfLabel(m[1], m[2]), false
	}

	if m := labelAfterRe.FindStringSubmatch(tok.after); m != nil && m[2] == "" {
		return kindOfLabel(m[1], ""), true
	}
	return unlabeled, false
}

// ownCue reads the kind of number from the link itself: its text, title,
// aria-label and class, or its parent's class.
func ownCue(a *html.Node) (phoneKind, bool) {
	labels := strings.Join([]string{attr(a, "title"), attr(a, "aria-label"), nodeText(a)}, " ")
	classes := attr(a, "class")
	if a.Parent != nil {
		classes += " " + attr(a.Parent, "class")
	}

	switch {
	case mobileWordRe.MatchString(labels) || mobileClassRe.MatchString(classes):
		return mobilePhone, true
	case faxWordRe.MatchString(labels) || faxClassRe.MatchString(classes):
		return faxPhone, true
	case phoneWordRe.MatchString(attr(a, "title") + " " + attr(a, "aria-label")):
		return officePhone, true
	}
	if m := labelBeforeRe.FindStringSubmatch(leadingLabel(nodeText(a))); m != nil {
		return kindOfLabel(m[1], m[2]), true
	}
	return unlabeled, false
}

// leadingLabel returns the text of a link up to its first digit, so that
// "Office: 501-555-0100" yields "Office: ".
func leadingLabel(text string) string {
	for i := 0; i < len(text); i++ {
		if isDigit(text[i]) || text[i] == '(' || text[i] == '+' {
			return text[:i]
		}
	}
	return ""
}

// telNumber returns the normalized number of a tel link, falling back to
// the link text when the href does not hold a 10-digit number.
func telNumber(a *html.Node) string {
	raw := strings.TrimSpace(attr(a, "href"))[len("tel:"):]
	if unescaped, err := url.PathUnescape(raw); err == nil {
		raw = unescaped
	}
	if groups, ok := matchPhone(raw); ok {
		return formatPhone(groups)
	}
	text := nodeText(a)
	if groups, ok := matchPhone(text); ok {
		return formatPhone(groups)
	}
	if text != "" {
		return text
	}
	return strings.TrimSpace(raw)
}

// textPhones extracts numbers from plain text: labeled numbers first, then
// the first unlabeled number as the office phone.
func textPhones(text string) (phone, mobile string) {
	used := make(map[string]bool)
	for _, m := range labeledPhoneRe.FindAllStringSubmatch(text, -1) {
		number := formatPhone(m[3:6])
		key := digitKey(number)
		if used[key] {
			continue
		}
		switch kindOfLabel(m[1], m[2]) {
		case mobilePhone:
			if mobile == "" {
				mobile = number
				used[key] = true
			}
		case faxPhone:
			used[key] = true
		default:
			if phone == "" {
				phone = number
				used[key] = true
			}
		}
	}
	if phone != "" {
		return phone, mobile
	}

	for _, loc := range phoneRe.FindAllStringSubmatchIndex(text, -1) {
		if loc[0] > 0 && isDigit(text[loc[0]-1]) {
			continue
		}
		number := formatPhone([]string{text[loc[2]:loc[3]], text[loc[4]:loc[5]], text[loc[6]:loc[7]]})
		if !used[digitKey(number)] {
			return number, mobile
		}
	}
	return "", mobile
}
