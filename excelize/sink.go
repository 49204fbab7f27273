// Package excelize writes staff records into the sheets of an existing
// Excel workbook.
package excelize

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/gofrs/flock"
	"github.com/wkanaday/mepdir"
	"github.com/xuri/excelize/v2"
)

// DefaultStartRow is the first data row; rows above it hold the sheet's
// headings.
const DefaultStartRow = 4

// Ensure Sink implements mepdir.RecordSink at compile time.
var _ mepdir.RecordSink = (*Sink)(nil)

// Sink writes records into the sheet named by the target, one row per
// record in columns A-F. The workbook is locked from Open until Close.
type Sink struct {
	path     string
	startRow int
	file     *excelize.File
	lock     *flock.Flock
	dirty    bool
}

// Option configures a Sink.
type Option func(*Sink)

// WithStartRow sets the first row written.
func WithStartRow(row int) Option {
	return func(s *Sink) {
		s.startRow = row
	}
}

// Open locks and opens an existing workbook. Returns ENOTFOUND if the
// workbook does not exist and ECONFLICT if another process holds it.
func Open(path string, opts ...Option) (*Sink, error) {
	s := &Sink{path: path, startRow: DefaultStartRow}
	for _, opt := range opts {
		opt(s)
	}
	if s.startRow < 1 {
		return nil, mepdir.Errorf(mepdir.EINVALID, "start row must be at least 1")
	}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, mepdir.Errorf(mepdir.ENOTFOUND, "workbook %s not found", path)
	}

	s.lock = flock.New(path + ".lock")
	locked, err := s.lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("locking workbook: %w", err)
	}
	if !locked {
		return nil, mepdir.Errorf(mepdir.ECONFLICT, "workbook %s is in use", path)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		_ = s.lock.Unlock()
		return nil, mepdir.Errorf(mepdir.EINVALID, "opening workbook %s: %v", path, err)
	}
	s.file = f
	return s, nil
}

// WriteRecords writes records from the start row down, replacing only the
// cells of those rows. Returns ENOTFOUND if the sheet does not exist.
func (s *Sink) WriteRecords(ctx context.Context, target string, records []mepdir.StaffRecord) error {
	if s.file == nil {
		return mepdir.Errorf(mepdir.EINVALID, "workbook %s is closed", s.path)
	}
	idx, err := s.file.GetSheetIndex(target)
	if err != nil {
		return fmt.Errorf("looking up sheet: %w", err)
	}
	if idx < 0 {
		return mepdir.Errorf(mepdir.ENOTFOUND, "sheet %s not found in %s", target, s.path)
	}

	for i, rec := range records {
		if err := ctx.Err(); err != nil {
			return err
		}
		cell, err := excelize.CoordinatesToCellName(1, s.startRow+i)
		if err != nil {
			return fmt.Errorf("row %d: %w", s.startRow+i, err)
		}
		row := make([]any, 0, len(mepdir.ColumnHeaders))
		for _, v := range rec.Columns() {
			row = append(row, v)
		}
		if err := s.file.SetSheetRow(target, cell, &row); err != nil {
			return fmt.Errorf("writing row %d: %w", s.startRow+i, err)
		}
		s.dirty = true
	}
	return nil
}

// Close saves pending changes and releases the workbook lock. The lock is
// released even when saving fails.
func (s *Sink) Close() error {
	if s.file == nil {
		return nil
	}
	var errs []error
	if s.dirty {
		if err := s.file.Save(); err != nil {
			errs = append(errs, mepdir.Errorf(mepdir.EINTERNAL, "saving workbook %s: %v", s.path, err))
		}
	}
	if err := s.file.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := s.lock.Unlock(); err != nil {
		errs = append(errs, err)
	}
	s.file = nil
	return errors.Join(errs...)
}
