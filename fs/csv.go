// Package fs writes staff records to files on disk.
package fs

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"

	"github.com/wkanaday/mepdir"
)

// Ensure CSVSink implements mepdir.RecordSink at compile time.
var _ mepdir.RecordSink = (*CSVSink)(nil)

// CSVSink writes each target's records to <target>_staff_temp.csv in a
// directory, for inspection before the workbook is updated.
type CSVSink struct {
	dir string
}

// NewCSVSink creates a CSVSink writing to dir.
func NewCSVSink(dir string) *CSVSink {
	return &CSVSink{dir: dir}
}

// FileName returns the CSV file name for a target.
func FileName(target string) string {
	return strings.ToLower(target) + "_staff_temp.csv"
}

// WriteRecords replaces the target's CSV file. The file is written to a
// temporary name first so a failed write never leaves a partial file.
func (s *CSVSink) WriteRecords(ctx context.Context, target string, records []mepdir.StaffRecord) error {
	if strings.TrimSpace(target) == "" || strings.ContainsAny(target, `/\`) {
		return mepdir.Errorf(mepdir.EINVALID, "invalid target %q", target)
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(s.dir, FileName(target)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(mepdir.ColumnHeaders); err != nil {
		tmp.Close()
		return err
	}
	for i := range records {
		if err := ctx.Err(); err != nil {
			tmp.Close()
			return err
		}
		if err := w.Write(records[i].Columns()); err != nil {
			tmp.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), filepath.Join(s.dir, FileName(target)))
}

// Close is a no-op; every write is complete when WriteRecords returns.
func (s *CSVSink) Close() error {
	return nil
}
