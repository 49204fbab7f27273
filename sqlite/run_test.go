package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wkanaday/mepdir"
	"github.com/wkanaday/mepdir/sqlite"
)

var staff = []mepdir.StaffRecord{
	{Name: "Jane Doe", Title: "Director", Phone: "(555) 555-0100", Email: "jdoe@example.org", SourceURL: "https://example.org/team/jane"},
	{Name: "John Roe", Title: "Engineer", Mobile: "(555) 555-0199", SourceURL: "https://example.org/team"},
}

func createRun(t *testing.T, svc *sqlite.RunService, site string, started time.Time, records []mepdir.StaffRecord) *mepdir.Run {
	t.Helper()
	run := &mepdir.Run{
		Site:       site,
		SourceURL:  "https://example.org/team",
		Strategy:   "member-class",
		Warnings:   1,
		StartedAt:  started,
		FinishedAt: started.Add(time.Second),
	}
	require.NoError(t, svc.CreateRun(context.Background(), run, records))
	return run
}

func TestRunService_CreateRun(t *testing.T) {
	t.Parallel()

	t.Run("assigns ID, count and digest", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRunService(setupTestDB(t))

		run := createRun(t, svc, "ga", time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC), staff)

		assert.NotEmpty(t, run.ID)
		assert.Equal(t, "GA", run.Site)
		assert.Equal(t, 2, run.Records)
		assert.Len(t, run.Digest, 16)
	})

	t.Run("equal records give equal digests", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRunService(setupTestDB(t))
		start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

		a := createRun(t, svc, "GA", start, staff)
		b := createRun(t, svc, "GA", start.Add(time.Hour), staff)
		c := createRun(t, svc, "GA", start.Add(2*time.Hour), staff[:1])

		assert.Equal(t, a.Digest, b.Digest)
		assert.NotEqual(t, a.Digest, c.Digest)
	})

	t.Run("defaults timestamps", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRunService(setupTestDB(t))
		run := &mepdir.Run{Site: "AR", SourceURL: "https://example.org/team"}

		require.NoError(t, svc.CreateRun(context.Background(), run, nil))

		assert.False(t, run.StartedAt.IsZero())
		assert.False(t, run.FinishedAt.IsZero())
	})

	t.Run("rejects invalid run", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRunService(setupTestDB(t))

		err := svc.CreateRun(context.Background(), &mepdir.Run{Site: "AR"}, nil)

		assert.Equal(t, mepdir.EINVALID, mepdir.ErrorCode(err))
	})
}

func TestRunService_FindRuns(t *testing.T) {
	t.Parallel()

	t.Run("newest first with site filter", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRunService(setupTestDB(t))
		start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
		older := createRun(t, svc, "GA", start, staff)
		createRun(t, svc, "CT", start.Add(time.Minute), staff)
		newer := createRun(t, svc, "GA", start.Add(time.Hour), staff)

		site := "ga"
		runs, err := svc.FindRuns(context.Background(), mepdir.RunFilter{Site: &site})

		require.NoError(t, err)
		require.Len(t, runs, 2)
		assert.Equal(t, newer.ID, runs[0].ID)
		assert.Equal(t, older.ID, runs[1].ID)
		assert.Equal(t, older.StartedAt, runs[1].StartedAt)
		assert.Equal(t, "member-class", runs[1].Strategy)
		assert.Equal(t, 1, runs[1].Warnings)
	})

	t.Run("by ID", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRunService(setupTestDB(t))
		run := createRun(t, svc, "AR", time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC), nil)
		createRun(t, svc, "AR", time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC), nil)

		runs, err := svc.FindRuns(context.Background(), mepdir.RunFilter{ID: &run.ID})

		require.NoError(t, err)
		require.Len(t, runs, 1)
		assert.Equal(t, run.Digest, runs[0].Digest)
	})

	t.Run("limit and offset", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRunService(setupTestDB(t))
		start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
		for i := range 5 {
			createRun(t, svc, "DE", start.Add(time.Duration(i)*time.Hour), nil)
		}

		runs, err := svc.FindRuns(context.Background(), mepdir.RunFilter{Limit: 2, Offset: 1})

		require.NoError(t, err)
		require.Len(t, runs, 2)
		assert.Equal(t, start.Add(3*time.Hour), runs[0].StartedAt)
	})

	t.Run("empty archive", func(t *testing.T) {
		t.Parallel()

		runs, err := sqlite.NewRunService(setupTestDB(t)).FindRuns(context.Background(), mepdir.RunFilter{})

		require.NoError(t, err)
		assert.Empty(t, runs)
	})
}

func TestRunService_FindRunRecords(t *testing.T) {
	t.Parallel()

	t.Run("returns records in order", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRunService(setupTestDB(t))
		run := createRun(t, svc, "GA", time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC), staff)

		got, err := svc.FindRunRecords(context.Background(), run.ID)

		require.NoError(t, err)
		if diff := cmp.Diff(staff, got); diff != "" {
			t.Errorf("records mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("run without records", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewRunService(setupTestDB(t))
		run := createRun(t, svc, "GA", time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC), nil)

		got, err := svc.FindRunRecords(context.Background(), run.ID)

		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("unknown run", func(t *testing.T) {
		t.Parallel()

		_, err := sqlite.NewRunService(setupTestDB(t)).FindRunRecords(context.Background(), "missing")

		assert.Equal(t, mepdir.ENOTFOUND, mepdir.ErrorCode(err))
	})
}
