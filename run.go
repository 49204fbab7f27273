package mepdir

import (
	"context"
	"time"
)

// Run is an archived scrape of one site.
type Run struct {
	ID        string `json:"id"`
	Site      string `json:"site"`
	SourceURL string `json:"sourceUrl"`
	Strategy  string `json:"strategy"`
	Records   int    `json:"records"`
	Warnings  int    `json:"warnings"`

	// Digest is a hash over the run's records; equal digests mean the
	// directory did not change between runs.
	Digest string `json:"digest"`

	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
}

// Validate returns an error if the run contains invalid fields.
func (r *Run) Validate() error {
	if r.Site == "" {
		return Errorf(EINVALID, "run site required")
	}
	if r.SourceURL == "" {
		return Errorf(EINVALID, "run source URL required")
	}
	return nil
}

// RunService archives scrape results.
type RunService interface {
	// CreateRun stores a run and its records. ID and Digest are assigned
	// on success.
	CreateRun(ctx context.Context, run *Run, records []StaffRecord) error

	// FindRuns retrieves runs matching the filter, newest first.
	FindRuns(ctx context.Context, filter RunFilter) ([]*Run, error)

	// FindRunRecords returns the records of a run in extraction order.
	// Returns ENOTFOUND if the run does not exist.
	FindRunRecords(ctx context.Context, runID string) ([]StaffRecord, error)
}

// RunFilter represents a filter for FindRuns.
type RunFilter struct {
	ID   *string `json:"id"`
	Site *string `json:"site"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
