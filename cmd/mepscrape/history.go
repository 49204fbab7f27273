package main

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/wkanaday/mepdir"
)

// Run executes the history command.
func (c *HistoryCmd) Run(deps *Dependencies) error {
	if c.Show != "" {
		records, err := deps.Runs.FindRunRecords(deps.Ctx, c.Show)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", mepdir.ErrorMessage(err))
			return err
		}
		printRecords(deps.Stdout, records)
		return nil
	}

	filter := mepdir.RunFilter{Limit: c.Limit}
	if c.Code != "" {
		code := strings.ToUpper(c.Code)
		filter.Site = &code
	}
	runs, err := deps.Runs.FindRuns(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", mepdir.ErrorMessage(err))
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(deps.Stdout, "No runs archived. Use 'mepscrape run' to scrape the configured sites.")
		return nil
	}

	t := newTable(deps.Stdout)
	t.AppendHeader(table.Row{"Started", "Site", "Records", "Warnings", "Strategy", "Digest", "ID"})
	for _, r := range runs {
		t.AppendRow(table.Row{
			r.StartedAt.Local().Format("2006-01-02 15:04"),
			r.Site,
			r.Records,
			r.Warnings,
			r.Strategy,
			r.Digest,
			r.ID,
		})
	}
	t.Render()
	return nil
}
