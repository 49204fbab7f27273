package mock

import (
	"context"

	"github.com/wkanaday/mepdir"
)

var _ mepdir.RecordSink = (*RecordSink)(nil)

// RecordSink is a mock implementation of mepdir.RecordSink.
type RecordSink struct {
	WriteRecordsFn func(ctx context.Context, target string, records []mepdir.StaffRecord) error
	CloseFn        func() error
}

func (s *RecordSink) WriteRecords(ctx context.Context, target string, records []mepdir.StaffRecord) error {
	return s.WriteRecordsFn(ctx, target, records)
}

func (s *RecordSink) Close() error {
	return s.CloseFn()
}
