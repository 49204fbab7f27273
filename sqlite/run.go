package sqlite

import (
	"context"
	"database/sql"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	"github.com/wkanaday/mepdir"
)

// Compile-time interface verification.
var _ mepdir.RunService = (*RunService)(nil)

// RunService implements mepdir.RunService using SQLite.
type RunService struct {
	db *DB
}

// NewRunService creates a new RunService.
func NewRunService(db *DB) *RunService {
	return &RunService{db: db}
}

// digestRecords computes an xxHash over the records' columns in order and
// returns it as hex.
func digestRecords(records []mepdir.StaffRecord) string {
	d := xxhash.New()
	for i := range records {
		for _, v := range records[i].Columns() {
			_, _ = d.WriteString(v)
			_, _ = d.Write([]byte{0})
		}
		_, _ = d.Write([]byte{'\n'})
	}
	return hex.EncodeToString(d.Sum(nil))
}

// CreateRun stores the run and its records in one transaction.
func (s *RunService) CreateRun(ctx context.Context, run *mepdir.Run, records []mepdir.StaffRecord) error {
	if err := run.Validate(); err != nil {
		return err
	}

	now := time.Now().UTC()
	if run.StartedAt.IsZero() {
		run.StartedAt = now
	}
	if run.FinishedAt.IsZero() {
		run.FinishedAt = now
	}
	run.ID = uuid.New().String()
	run.Site = strings.ToUpper(run.Site)
	run.Records = len(records)
	run.Digest = digestRecords(records)

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO runs (id, site, source_url, strategy, record_count, warning_count, digest, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, run.Site, run.SourceURL, run.Strategy, run.Records, run.Warnings, run.Digest,
		run.StartedAt.UTC().Format(time.RFC3339), run.FinishedAt.UTC().Format(time.RFC3339)); err != nil {
		return err
	}

	for i, rec := range records {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO records (run_id, position, name, title, phone, mobile, email, bio, source_url)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, run.ID, i, rec.Name, rec.Title, rec.Phone, rec.Mobile, rec.Email, rec.Bio, rec.SourceURL); err != nil {
			return fmt.Errorf("inserting record %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// FindRuns retrieves runs matching the filter, newest first.
func (s *RunService) FindRuns(ctx context.Context, filter mepdir.RunFilter) ([]*mepdir.Run, error) {
	var query strings.Builder
	var args []any

	query.WriteString(`SELECT id, site, source_url, strategy, record_count, warning_count, digest, started_at, finished_at
		FROM runs WHERE 1=1`)

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.Site != nil {
		query.WriteString(" AND site = ?")
		args = append(args, strings.ToUpper(*filter.Site))
	}

	// rowid breaks ties between runs started in the same second.
	query.WriteString(" ORDER BY started_at DESC, rowid DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*mepdir.Run
	for rows.Next() {
		var run mepdir.Run
		var startedAt, finishedAt string

		if err := rows.Scan(&run.ID, &run.Site, &run.SourceURL, &run.Strategy, &run.Records,
			&run.Warnings, &run.Digest, &startedAt, &finishedAt); err != nil {
			return nil, err
		}
		if run.StartedAt, err = parseRFC3339(startedAt, "started_at"); err != nil {
			return nil, err
		}
		if run.FinishedAt, err = parseRFC3339(finishedAt, "finished_at"); err != nil {
			return nil, err
		}
		runs = append(runs, &run)
	}

	return runs, rows.Err()
}

// FindRunRecords returns the records of a run in extraction order.
func (s *RunService) FindRunRecords(ctx context.Context, runID string) ([]mepdir.StaffRecord, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM runs WHERE id = ?", runID).Scan(&exists)
	if err == sql.ErrNoRows {
		return nil, mepdir.Errorf(mepdir.ENOTFOUND, "run not found")
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT name, title, phone, mobile, email, bio, source_url
		FROM records
		WHERE run_id = ?
		ORDER BY position ASC
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []mepdir.StaffRecord{}
	for rows.Next() {
		var rec mepdir.StaffRecord
		if err := rows.Scan(&rec.Name, &rec.Title, &rec.Phone, &rec.Mobile, &rec.Email, &rec.Bio, &rec.SourceURL); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}
