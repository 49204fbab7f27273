package mock

import (
	"context"

	"github.com/wkanaday/mepdir"
)

var _ mepdir.RunService = (*RunService)(nil)

// RunService is a mock implementation of mepdir.RunService.
type RunService struct {
	CreateRunFn      func(ctx context.Context, run *mepdir.Run, records []mepdir.StaffRecord) error
	FindRunsFn       func(ctx context.Context, filter mepdir.RunFilter) ([]*mepdir.Run, error)
	FindRunRecordsFn func(ctx context.Context, runID string) ([]mepdir.StaffRecord, error)
}

func (s *RunService) CreateRun(ctx context.Context, run *mepdir.Run, records []mepdir.StaffRecord) error {
	return s.CreateRunFn(ctx, run, records)
}

func (s *RunService) FindRuns(ctx context.Context, filter mepdir.RunFilter) ([]*mepdir.Run, error) {
	return s.FindRunsFn(ctx, filter)
}

func (s *RunService) FindRunRecords(ctx context.Context, runID string) ([]mepdir.StaffRecord, error) {
	return s.FindRunRecordsFn(ctx, runID)
}
