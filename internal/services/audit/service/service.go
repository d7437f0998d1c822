// Package service implements the audit sink: buffered, non-blocking intake of
// call outcomes and a consumer for the remote error-log channel
package service

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"geulpi/internal/platform/logger"
	dom "geulpi/internal/services/audit/domain"
	bdom "geulpi/internal/services/bridge/domain"
)

// Config sizes the intake buffer and flush cadence
type Config struct {
	BufferSize    int
	FlushInterval time.Duration
	FlushBatch    int
}

func (c *Config) defaults() {
	if c.BufferSize <= 0 {
		c.BufferSize = 1024
	}
	if c.FlushInterval <= 0 {
		c.FlushInterval = 5 * time.Second
	}
	if c.FlushBatch <= 0 {
		c.FlushBatch = 256
	}
}

// Service buffers records in memory and flushes them to the writer.
// Record never blocks; when the buffer is full the record is dropped
// and counted, the bridge hot path stays clean
type Service struct {
	log     logger.Logger
	cfg     Config
	writer  dom.WriterPort
	intake  chan dom.CallRecord
	dropped atomic.Int64
}

// New constructs an audit service over a writer
func New(log logger.Logger, cfg Config, writer dom.WriterPort) *Service {
	cfg.defaults()
	return &Service{
		log:    log,
		cfg:    cfg,
		writer: writer,
		intake: make(chan dom.CallRecord, cfg.BufferSize),
	}
}

// Record implements domain.RecorderPort
func (s *Service) Record(rec dom.CallRecord) {
	select {
	case s.intake <- rec:
	default:
		s.dropped.Add(1)
	}
}

// Dropped reports how many records were shed under pressure
func (s *Service) Dropped() int64 { return s.dropped.Load() }

// Run flushes buffered records until ctx ends, then drains once more
func (s *Service) Run(ctx context.Context) error {
	log := s.log.With().Str("component", "audit").Logger()
	t := time.NewTicker(s.cfg.FlushInterval)
	defer t.Stop()

	batch := make([]dom.CallRecord, 0, s.cfg.FlushBatch)
	flush := func(fctx context.Context) {
		if len(batch) == 0 {
			return
		}
		if err := s.writer.WriteOutcomes(fctx, batch); err != nil {
			log.Error().Err(err).Int("rows", len(batch)).Msg("outcome flush failed")
		}
		batch = batch[:0]
	}

	for {
		select {
		case <-ctx.Done():
			drainCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			for {
				select {
				case rec := <-s.intake:
					batch = append(batch, rec)
					continue
				default:
				}
				break
			}
			flush(drainCtx)
			cancel()
			return ctx.Err()
		case rec := <-s.intake:
			batch = append(batch, rec)
			if len(batch) >= s.cfg.FlushBatch {
				flush(ctx)
			}
		case <-t.C:
			flush(ctx)
		}
	}
}

// BridgeHook adapts the recorder to the bridge's outcome callback
func BridgeHook(rec dom.RecorderPort) bdom.OutcomeHook {
	return func(o bdom.CallOutcome) {
		rec.Record(dom.CallRecord{
			CorrelationID: o.CorrelationID,
			Kind:          string(o.Kind),
			CallerID:      o.CallerID,
			State:         string(o.State),
			IssuedAt:      o.IssuedAt,
			FinishedAt:    o.FinishedAt,
			ErrorMessage:  o.ErrorMessage,
		})
	}
}

type remoteErrorWire struct {
	Source  string `json:"source"`
	Message string `json:"message"`
}

// RunErrorConsumer drains the inference service's error-log channel into
// columnar storage. Undecodable records are kept raw rather than dropped
func (s *Service) RunErrorConsumer(ctx context.Context, cons bdom.ConsumerPort) error {
	log := s.log.With().Str("component", "audit.errors").Logger()
	log.Info().Msg("error consumer started")

	for {
		d, err := cons.Fetch(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info().Msg("error consumer stopped")
				return ctx.Err()
			}
			log.Error().Err(err).Msg("fetch failed")
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Second):
			}
			continue
		}

		rec := dom.RemoteError{ReceivedAt: time.Now().UTC(), Raw: string(d.Value)}
		var w remoteErrorWire
		if err := json.Unmarshal(d.Value, &w); err == nil {
			rec.Source = w.Source
			rec.Message = w.Message
		}
		if err := s.writer.WriteRemoteErrors(ctx, []dom.RemoteError{rec}); err != nil {
			log.Error().Err(err).Msg("remote error write failed")
		}
	}
}
