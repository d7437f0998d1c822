// Package repo provides the clickhouse repository for audit rows
package repo

import (
	"context"

	perr "geulpi/internal/platform/errors"
	"geulpi/internal/platform/store"
	"geulpi/internal/services/audit/domain"
)

// CH writes audit rows through the store clickhouse seam
type CH struct {
	db store.Clickhouse
}

// NewCH constructs the clickhouse repo
func NewCH(db store.Clickhouse) *CH { return &CH{db: db} }

var outcomeCols = []string{
	"correlation_id", "kind", "caller_id", "state",
	"issued_at", "finished_at", "latency_ms", "error_message",
}

// WriteOutcomes implements domain.WriterPort
func (r *CH) WriteOutcomes(ctx context.Context, rows []domain.CallRecord) error {
	if len(rows) == 0 {
		return nil
	}
	batch := make([][]any, 0, len(rows))
	for _, rec := range rows {
		batch = append(batch, []any{
			rec.CorrelationID,
			rec.Kind,
			rec.CallerID,
			rec.State,
			rec.IssuedAt,
			rec.FinishedAt,
			rec.LatencyMs(),
			rec.ErrorMessage,
		})
	}
	if err := r.db.Insert(ctx, "bridge_call_outcomes", outcomeCols, batch); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeDB, "insert %d call outcomes", len(rows))
	}
	return nil
}

var remoteErrorCols = []string{"received_at", "source", "message", "raw"}

// WriteRemoteErrors implements domain.WriterPort
func (r *CH) WriteRemoteErrors(ctx context.Context, rows []domain.RemoteError) error {
	if len(rows) == 0 {
		return nil
	}
	batch := make([][]any, 0, len(rows))
	for _, rec := range rows {
		batch = append(batch, []any{rec.ReceivedAt, rec.Source, rec.Message, rec.Raw})
	}
	if err := r.db.Insert(ctx, "inference_remote_errors", remoteErrorCols, batch); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeDB, "insert %d remote errors", len(rows))
	}
	return nil
}
