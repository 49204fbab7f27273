package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/wkanaday/mepdir"
)

// Run executes the scrape command.
func (c *ScrapeCmd) Run(deps *Dependencies) error {
	site := &mepdir.Site{
		Code:    strings.ToUpper(strings.TrimSpace(c.Code)),
		Name:    c.Name,
		URL:     c.URL,
		Browser: c.Browser,
	}
	if c.MaxProfiles != nil {
		site.MaxProfiles = *c.MaxProfiles
	}
	return scrapeSites(deps, []*mepdir.Site{site}, c.DryRun)
}

// Run executes the run command.
func (c *RunCmd) Run(deps *Dependencies) error {
	sites, err := deps.Sites.FindSites(mepdir.SiteFilter{Codes: c.Codes})
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", mepdir.ErrorMessage(err))
		return err
	}
	if len(sites) == 0 {
		fmt.Fprintln(deps.Stdout, "No sites configured.")
		return nil
	}
	for _, site := range sites {
		if c.Browser {
			site.Browser = true
		}
		if c.MaxProfiles != nil {
			site.MaxProfiles = *c.MaxProfiles
		}
	}
	return scrapeSites(deps, sites, c.DryRun)
}

// outcome is one row of the run summary.
type outcome struct {
	site   *mepdir.Site
	result *mepdir.SiteResult
	status string
}

// scrapeSites scrapes sites in order and delivers each result. A site whose
// listing fails is reported and skipped; a sink failure stops the run.
func scrapeSites(deps *Dependencies, sites []*mepdir.Site, dryRun bool) error {
	var outcomes []outcome
	failed := 0
	for _, site := range sites {
		started := time.Now()
		result, err := deps.Scraper.ScrapeSite(deps.Ctx, site, deps.Progress)
		if err != nil {
			if ctxErr := deps.Ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			fmt.Fprintf(deps.Stderr, "error: %s: %s\n", site.Code, mepdir.ErrorMessage(err))
			outcomes = append(outcomes, outcome{site: site, status: "failed: " + mepdir.ErrorMessage(err)})
			failed++
			continue
		}

		var status string
		switch {
		case dryRun:
			printRecords(deps.Stdout, result.Records)
			status = "dry run"
		default:
			status, err = deliver(deps, site, result, started)
			if err != nil {
				fmt.Fprintf(deps.Stderr, "error: %s\n", mepdir.ErrorMessage(err))
				printSummary(deps, append(outcomes, outcome{site: site, result: result, status: "not written"}))
				return err
			}
		}
		outcomes = append(outcomes, outcome{site: site, result: result, status: status})
	}

	printSummary(deps, outcomes)
	if failed > 0 {
		return fmt.Errorf("%d of %d sites failed", failed, len(sites))
	}
	return nil
}

// deliver writes a result to every sink and archives the run. A result
// without records leaves the sinks untouched.
func deliver(deps *Dependencies, site *mepdir.Site, result *mepdir.SiteResult, started time.Time) (string, error) {
	status := "written"
	if len(result.Records) == 0 {
		status = "no records"
	} else {
		for _, sink := range deps.Sinks {
			if err := sink.WriteRecords(deps.Ctx, site.Code, result.Records); err != nil {
				return "", err
			}
		}
	}

	if deps.Runs == nil {
		return status, nil
	}

	code := site.Code
	previous, err := deps.Runs.FindRuns(deps.Ctx, mepdir.RunFilter{Site: &code, Limit: 1})
	if err != nil {
		deps.logger().Error("find previous run", "site", site.Code, "err", err)
	}
	run := &mepdir.Run{
		Site:       site.Code,
		SourceURL:  result.URL,
		Strategy:   result.Strategy,
		Records:    len(result.Records),
		Warnings:   len(result.Warnings),
		StartedAt:  started,
		FinishedAt: time.Now(),
	}
	if err := deps.Runs.CreateRun(deps.Ctx, run, result.Records); err != nil {
		deps.logger().Error("archive run", "site", site.Code, "err", err)
		return status, nil
	}
	if len(previous) > 0 && previous[0].Digest == run.Digest && run.Records > 0 {
		status += ", unchanged"
	}
	return status, nil
}

// printSummary renders per-site counts, then every warning.
func printSummary(deps *Dependencies, outcomes []outcome) {
	t := newTable(deps.Stdout)
	t.AppendHeader(table.Row{"Site", "Records", "Enriched", "Warnings", "Strategy", "Status"})
	var warnings []table.Row
	for _, o := range outcomes {
		if o.result == nil {
			t.AppendRow(table.Row{o.site.Code, "-", "-", "-", "-", o.status})
			continue
		}
		t.AppendRow(table.Row{
			o.site.Code,
			len(o.result.Records),
			o.result.Enriched,
			len(o.result.Warnings),
			o.result.Strategy,
			o.status,
		})
		for _, w := range o.result.Warnings {
			warnings = append(warnings, table.Row{o.site.Code, w.URL, w.Message})
		}
	}
	t.Render()

	if len(warnings) == 0 {
		return
	}
	wt := newTable(deps.Stdout)
	wt.AppendHeader(table.Row{"Site", "URL", "Warning"})
	wt.AppendRows(warnings)
	wt.Render()
}
