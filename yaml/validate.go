package yaml

import (
	"fmt"
	"strings"

	"github.com/andybalholm/cascadia"
	"github.com/wkanaday/mepdir"
)

// Validate checks the whole table and reports every problem at once.
func (c *Config) Validate() error {
	var problems []string
	addErr := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if c.Defaults.Timeout < 0 {
		addErr("defaults.timeout must not be negative")
	}
	if c.Defaults.Delay < 0 {
		addErr("defaults.delay must not be negative")
	}
	if len(c.Sites) == 0 {
		addErr("no sites configured")
	}

	seen := make(map[string]bool)
	for i, s := range c.Sites {
		if s.Code != "" && seen[s.Code] {
			addErr("sites[%d]: duplicate code %s", i, s.Code)
		}
		seen[s.Code] = true

		site := c.Site(s)
		if err := site.Validate(); err != nil {
			addErr("sites[%d]: %s", i, mepdir.ErrorMessage(err))
		}
		for _, r := range []struct {
			field     string
			selectors []string
		}{
			{"root", s.Rules.Root},
			{"containers", s.Rules.Containers},
			{"names", s.Rules.Names},
			{"titles", s.Rules.Titles},
			{"bios", s.Rules.Bios},
			{"profile_links", s.Rules.ProfileLinks},
			{"profile_content", s.Rules.ProfileContent},
		} {
			for _, sel := range r.selectors {
				if _, err := cascadia.Compile(sel); err != nil {
					addErr("sites[%d].rules.%s: invalid selector %q: %v", i, r.field, sel, err)
				}
			}
		}
	}

	if len(problems) == 0 {
		return nil
	}
	return mepdir.Errorf(mepdir.EINVALID, "invalid site table: %s", strings.Join(problems, "; "))
}
