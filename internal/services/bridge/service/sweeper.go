package service

import (
	"context"
	"time"

	perr "geulpi/internal/platform/errors"
	"geulpi/internal/services/bridge/domain"
)

// RunSweeper expires overdue calls on a fixed tick until ctx is cancelled.
// It is the sole owner of timeout enforcement
func (s *Service) RunSweeper(ctx context.Context) error {
	log := s.log.With().Str("component", "bridge.sweeper").Logger()
	log.Info().Dur("interval", s.cfg.SweepInterval).Msg("sweeper started")

	t := time.NewTicker(s.cfg.SweepInterval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("sweeper stopped")
			return ctx.Err()
		case <-t.C:
			s.sweep()
		}
	}
}

// sweep runs one expiry pass, failing every overdue handle with a timeout
func (s *Service) sweep() {
	now := s.cfg.Now()
	expired := s.reg.ExpireOlderThan(now)
	if len(expired) == 0 {
		return
	}

	log := s.log.With().Str("component", "bridge.sweeper").Logger()
	for _, h := range expired {
		terr := perr.Timeoutf("no reply for %q within deadline", h.CorrelationID())
		h.Fail(terr)
		s.emit(h, domain.StateTimedOut, terr.Error())
		log.Warn().
			Str("correlation_id", h.CorrelationID()).
			Str("kind", string(h.Kind())).
			Time("deadline", h.Deadline()).
			Bool("caller_gone", h.Cancelled()).
			Msg("call timed out")
	}
	log.Info().Int("expired", len(expired)).Int("pending", s.reg.Len()).Msg("sweep done")
}
