package mepdir

import "context"

// RecordSink receives the records of one site.
//
// Implementations acquire their destination when created and release it in
// Close, which callers must invoke on every path.
type RecordSink interface {
	// WriteRecords writes records, in order, to the destination named by
	// target (a worksheet or file prefix). Returns ENOTFOUND if the
	// destination must pre-exist and does not.
	WriteRecords(ctx context.Context, target string, records []StaffRecord) error

	Close() error
}
