package main

import (
	"fmt"

	"github.com/wkanaday/mepdir"
)

// Run executes the find command.
func (c *FindCmd) Run(deps *Dependencies) error {
	page, err := deps.Finder.FindStaffPage(deps.Ctx, c.BaseURL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", mepdir.ErrorMessage(err))
		return err
	}
	fmt.Fprintln(deps.Stdout, page)
	return nil
}
