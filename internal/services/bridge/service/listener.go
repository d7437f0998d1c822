package service

import (
	"context"
	"time"

	perr "geulpi/internal/platform/errors"
	"geulpi/internal/services/bridge/codec"
	"geulpi/internal/services/bridge/domain"
)

// RunListener consumes the inbound channel until ctx is cancelled.
// A single malformed record is logged and dropped, never fatal
func (s *Service) RunListener(ctx context.Context) error {
	log := s.log.With().Str("component", "bridge.listener").Logger()
	log.Info().Msg("listener started")

	for {
		d, err := s.cons.Fetch(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info().Msg("listener stopped")
				return ctx.Err()
			}
			log.Error().Err(err).Msg("fetch failed")
			// brief pause keeps a broken broker from spinning the loop hot
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Second):
			}
			continue
		}
		s.handleDelivery(d)
	}
}

// handleDelivery matches one reply to its pending call and resolves it
func (s *Service) handleDelivery(d domain.Delivery) {
	log := s.log.With().Str("component", "bridge.listener").Logger()

	resp, err := codec.DecodeResponse(d.Value)
	if err != nil {
		log.Warn().Err(err).Int("bytes", len(d.Value)).Msg("undecodable reply dropped")
		return
	}

	h, ok := s.reg.Take(resp.CorrelationID)
	if !ok {
		// already resolved, expired, or never ours; normal under timeout
		// races and redundant delivery
		log.Debug().Str("correlation_id", resp.CorrelationID).Msg("reply without pending call discarded")
		return
	}

	switch resp.Status {
	case domain.StatusOK:
		res, derr := codec.DecodeResult(h.Kind(), resp.Result)
		if derr != nil {
			h.Fail(derr)
			s.emit(h, domain.StateResolvedError, derr.Error())
			log.Warn().Err(derr).
				Str("correlation_id", resp.CorrelationID).
				Str("kind", string(h.Kind())).
				Msg("reply result did not decode")
			return
		}
		h.Resolve(res)
		s.emit(h, domain.StateResolvedOK, "")
		log.Debug().
			Str("correlation_id", resp.CorrelationID).
			Str("kind", string(h.Kind())).
			Msg("call resolved")

	case domain.StatusError:
		ierr := perr.Inferencef("%s", resp.ErrorMessage)
		h.Fail(ierr)
		s.emit(h, domain.StateResolvedError, resp.ErrorMessage)
		log.Debug().
			Str("correlation_id", resp.CorrelationID).
			Str("error_message", resp.ErrorMessage).
			Msg("call failed by inference service")
	}
}
