package goquery

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	// credentialRe matches one comma-separated segment made of post-nominal
	// tokens such as "PhD", "P.E.", "MBA", "LEED AP" or "BD+C".
	credentialRe = regexp.MustCompile(`^(?:[A-Z][A-Za-z+]{0,4}\.?\s*)+$`)

	// generationalRe matches suffixes that are part of the name.
	generationalRe = regexp.MustCompile(`(?i)^(?:jr|sr|[ivx]+)\.?$`)
)

// singleCapCredentials are post-nominals with only one capital letter.
var singleCapCredentials = map[string]bool{
	"esq": true, "phd": true, "edd": true, "md": true,
}

// cleanName collapses whitespace and strips trailing credential suffixes:
// "Jane A. Doe, PhD" becomes "Jane A. Doe". Generational suffixes such as
// "Jr." or "III" are kept.
func cleanName(raw string) string {
	name := collapse(raw)
	for {
		i := strings.LastIndex(name, ",")
		if i < 0 {
			return name
		}
		head, tail := strings.TrimSpace(name[:i]), strings.TrimSpace(name[i+1:])
		if head == "" || !isCredential(tail) {
			return name
		}
		name = head
	}
}

func isCredential(segment string) bool {
	if segment == "" || generationalRe.MatchString(segment) {
		return false
	}
	if !credentialRe.MatchString(segment) {
		return false
	}
	key := strings.ToLower(strings.NewReplacer(".", "", " ", "").Replace(segment))
	if singleCapCredentials[key] {
		return true
	}
	caps := 0
	for _, r := range segment {
		if unicode.IsUpper(r) {
			caps++
		}
	}
	return caps >= 2
}
