package domain

import "context"

// WriterPort persists audit rows
type WriterPort interface {
	WriteOutcomes(ctx context.Context, rows []CallRecord) error
	WriteRemoteErrors(ctx context.Context, rows []RemoteError) error
}

// RecorderPort accepts records from hot paths without blocking them
type RecorderPort interface {
	Record(rec CallRecord)
}
