package main

import (
	"fmt"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/wkanaday/mepdir"
)

// Run executes the sites command.
func (c *SitesCmd) Run(deps *Dependencies) error {
	sites, err := deps.Sites.FindSites(mepdir.SiteFilter{})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", mepdir.ErrorMessage(err))
		return err
	}

	if len(sites) == 0 {
		fmt.Fprintln(deps.Stdout, "No sites configured.")
		return nil
	}

	t := newTable(deps.Stdout)
	t.AppendHeader(table.Row{"Code", "Name", "URL", "Browser", "Profiles", "Rules"})
	for _, s := range sites {
		rules := "generic"
		if deps.Rules != nil {
			if _, ok := deps.Rules.Get(s.Code); ok {
				rules = "built-in"
			}
		}
		browser := ""
		if s.Browser {
			browser = "yes"
		}
		t.AppendRow(table.Row{s.Code, s.Name, s.URL, browser, profileBudget(s), rules})
	}
	t.Render()
	return nil
}

func profileBudget(s *mepdir.Site) string {
	switch {
	case !s.EnrichmentEnabled():
		return "off"
	case s.MaxProfiles == 0:
		return "all"
	default:
		return strconv.Itoa(s.MaxProfiles)
	}
}
