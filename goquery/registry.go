package goquery

import (
	"sort"
	"strings"

	"github.com/wkanaday/mepdir"
)

var _ mepdir.RulesRegistry = (*Registry)(nil)

// Registry holds per-site selector rules keyed by site code. Codes are
// matched case-insensitively.
type Registry struct {
	rules map[string]mepdir.SiteRules
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{rules: make(map[string]mepdir.SiteRules)}
}

// NewDefaultRegistry creates a Registry preloaded with rules for the
// directories whose markup the generic heuristics misread.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	RegisterBuiltinRules(r)
	return r
}

// Get returns the rules registered for code.
func (r *Registry) Get(code string) (mepdir.SiteRules, bool) {
	rules, ok := r.rules[strings.ToUpper(code)]
	return rules, ok
}

// Register adds rules for a site code, replacing any existing rules.
func (r *Registry) Register(code string, rules mepdir.SiteRules) {
	r.rules[strings.ToUpper(code)] = rules
}

// List returns all registered site codes in sorted order.
func (r *Registry) List() []string {
	codes := make([]string, 0, len(r.rules))
	for code := range r.rules {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// RegisterBuiltinRules registers the built-in site rules with registry.
func RegisterBuiltinRules(registry *Registry) {
	// Arkansas: team cards whose author block holds name and title.
	registry.Register("AR", mepdir.SiteRules{
		Containers: []string{"div.team-container"},
		Names:      []string{"div.team-author-name a", "div.team-author-name"},
		Titles:     []string{"div.team-author p"},
	})

	// Connecticut: the listing is a grid of links to /staff/ pages; names
	// and bios come from the profile pages.
	registry.Register("CT", mepdir.SiteRules{
		Containers:  []string{`a[href*="/staff/"]`},
		Names:       []string{`a[href*="/staff/"]`},
		Titles:      []string{".subtitle"},
		Bios:        []string{".entry-content"},
		TitleSuffix: " - CONNSTEP",
	})

	// Georgia: profile pages carry the name only in <title>.
	registry.Register("GA", mepdir.SiteRules{
		TitleSuffix: " - GaMEP",
	})
}
