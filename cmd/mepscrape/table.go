package main

import (
	"io"
	"unicode/utf8"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/wkanaday/mepdir"
)

// bioWidth truncates bios in record tables.
const bioWidth = 60

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)
	return t
}

// printRecords renders records with the workbook's columns.
func printRecords(w io.Writer, records []mepdir.StaffRecord) {
	t := newTable(w)
	header := make(table.Row, len(mepdir.ColumnHeaders))
	for i, h := range mepdir.ColumnHeaders {
		header[i] = h
	}
	t.AppendHeader(header)
	for _, r := range records {
		cols := r.Columns()
		row := make(table.Row, len(cols))
		for i, c := range cols {
			row[i] = c
		}
		row[len(row)-1] = truncate(r.Bio, bioWidth)
		t.AppendRow(row)
	}
	t.Render()
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n-3]) + "..."
}
