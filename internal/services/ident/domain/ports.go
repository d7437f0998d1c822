package domain

import "context"

// ReaderPort looks up caller context, the bridge itself never writes
type ReaderPort interface {
	CallerContext(ctx context.Context, userID string) (CallerContext, error)
}
