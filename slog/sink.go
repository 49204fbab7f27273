package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/wkanaday/mepdir"
)

// Ensure LoggingSink implements mepdir.RecordSink.
var _ mepdir.RecordSink = (*LoggingSink)(nil)

// LoggingSink wraps a RecordSink with logging. Name distinguishes sinks
// in the log, e.g. "workbook" or "csv".
type LoggingSink struct {
	next   mepdir.RecordSink
	name   string
	logger *slog.Logger
}

// NewLoggingSink creates a new LoggingSink.
func NewLoggingSink(next mepdir.RecordSink, name string, logger *slog.Logger) *LoggingSink {
	return &LoggingSink{next: next, name: name, logger: logger}
}

// WriteRecords logs the write and delegates to the wrapped sink.
func (s *LoggingSink) WriteRecords(ctx context.Context, target string, records []mepdir.StaffRecord) (err error) {
	defer func(begin time.Time) {
		lvl := slog.LevelInfo
		if err != nil {
			lvl = slog.LevelError
		}
		s.logger.Log(ctx, lvl, "write records",
			"sink", s.name,
			"target", target,
			"count", len(records),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.WriteRecords(ctx, target, records)
}

// Close delegates to the wrapped sink and logs failures.
func (s *LoggingSink) Close() error {
	err := s.next.Close()
	if err != nil {
		s.logger.Error("close sink", "sink", s.name, "err", err)
	}
	return err
}
