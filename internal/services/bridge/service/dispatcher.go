package service

import (
	"context"
	"time"

	perr "geulpi/internal/platform/errors"
	"geulpi/internal/platform/logger"
	ptime "geulpi/internal/platform/time"
	"geulpi/internal/services/bridge/codec"
	"geulpi/internal/services/bridge/domain"
)

// Submit registers a call and publishes it outbound, returning the awaitable.
// Exactly one outbound message leaves per successful call; a failed publish
// rolls the registration back so no orphan entry survives
func (s *Service) Submit(
	ctx context.Context,
	kind domain.Kind,
	payload domain.Payload,
	callerID string,
	timeout time.Duration,
) (*domain.Handle, error) {
	if !kind.Valid() {
		return nil, perr.InvalidArgf("unknown request kind %q", kind)
	}
	if payload == nil || payload.Kind() != kind {
		return nil, perr.InvalidArgf("payload does not match kind %q", kind)
	}

	if timeout <= 0 {
		timeout = s.timeoutFor(kind)
	}
	if timeout < s.cfg.MinTimeout {
		timeout = s.cfg.MinTimeout
	}

	now := ptime.UTCMillis(s.cfg.Now())
	id := s.cfg.NewID()
	req := domain.Request{
		CorrelationID: id,
		Kind:          kind,
		CallerID:      callerID,
		IssuedAt:      now,
		Payload:       payload,
	}
	h := domain.NewHandle(id, kind, callerID, now, now.Add(timeout))

	if err := s.reg.Register(h); err != nil {
		return nil, err
	}

	ctx = logger.WithCorrelation(ctx, id)

	b, err := codec.EncodeRequest(req)
	if err != nil {
		s.reg.Remove(id)
		h.Fail(err)
		s.emit(h, domain.StateDispatchFailed, err.Error())
		return nil, err
	}

	if err := s.pub.Publish(ctx, id, b); err != nil {
		s.reg.Remove(id)
		derr := perr.Wrapf(err, perr.ErrorCodeDispatch, "publish request %q", id)
		h.Fail(derr)
		s.emit(h, domain.StateDispatchFailed, derr.Error())
		return nil, derr
	}

	logger.C(ctx).Debug().
		Str("kind", string(kind)).
		Str("caller_id", callerID).
		Dur("timeout", timeout).
		Msg("request dispatched")
	return h, nil
}
