// Package service implements the assist operations on top of the bridge
package service

import (
	"context"
	"time"

	"geulpi/internal/core/textnorm"
	perr "geulpi/internal/platform/errors"
	dom "geulpi/internal/services/assist/domain"
	bdom "geulpi/internal/services/bridge/domain"
	idom "geulpi/internal/services/ident/domain"
)

// Config carries per operation timeout overrides, zero means bridge default
type Config struct {
	UnderstandTimeout time.Duration
	ClassifyTimeout   time.Duration
	OptimizeTimeout   time.Duration
}

// Service implements domain.AssistPort
type Service struct {
	cfg    Config
	bridge bdom.SubmitterPort
	ident  idom.ReaderPort
}

// New constructs an assist service. ident may be nil when caller lookup is
// disabled, the raw user id is then used as the caller id
func New(cfg Config, bridge bdom.SubmitterPort, ident idom.ReaderPort) *Service {
	return &Service{cfg: cfg, bridge: bridge, ident: ident}
}

// callerID resolves the identity attached to the outbound request
func (s *Service) callerID(ctx context.Context, userID string) (string, error) {
	if userID == "" {
		return "", perr.InvalidArgf("empty user id")
	}
	if s.ident == nil {
		return userID, nil
	}
	cc, err := s.ident.CallerContext(ctx, userID)
	if err != nil {
		return "", err
	}
	return cc.UserID, nil
}

// call submits and awaits one bridge round trip
func (s *Service) call(
	ctx context.Context,
	kind bdom.Kind,
	payload bdom.Payload,
	callerID string,
	timeout time.Duration,
) (any, error) {
	h, err := s.bridge.Submit(ctx, kind, payload, callerID, timeout)
	if err != nil {
		return nil, err
	}
	return h.Await(ctx)
}

// UnderstandText implements domain.AssistPort
func (s *Service) UnderstandText(ctx context.Context, in dom.UnderstandTextInput) (dom.UnderstandTextResult, error) {
	var zero dom.UnderstandTextResult

	caller, err := s.callerID(ctx, in.UserID)
	if err != nil {
		return zero, err
	}
	input := textnorm.Clean(in.Input)
	if input == "" {
		return zero, perr.InvalidArgf("empty input text")
	}

	res, err := s.call(ctx, bdom.KindUnderstandText, bdom.UnderstandTextPayload{
		Input:      input,
		IntentHint: textnorm.Clean(in.IntentHint),
		Context:    textnorm.Clean(in.Context),
	}, caller, s.cfg.UnderstandTimeout)
	if err != nil {
		return zero, err
	}
	typed, ok := res.(dom.UnderstandTextResult)
	if !ok {
		return zero, perr.ResultDecodef("unexpected result type %T", res)
	}
	return typed, nil
}

// ClassifyEvent implements domain.AssistPort
func (s *Service) ClassifyEvent(ctx context.Context, in dom.ClassifyEventInput) (dom.ClassifyEventResult, error) {
	var zero dom.ClassifyEventResult

	caller, err := s.callerID(ctx, in.UserID)
	if err != nil {
		return zero, err
	}
	title := textnorm.Clean(in.Title)
	if in.EventID == "" || title == "" {
		return zero, perr.InvalidArgf("event id and title are required")
	}
	if !in.EndTime.After(in.StartTime) {
		return zero, perr.InvalidArgf("end time must be after start time")
	}

	res, err := s.call(ctx, bdom.KindClassifyEvent, bdom.ClassifyEventPayload{
		EventID:     in.EventID,
		Title:       title,
		Description: textnorm.Clean(in.Description),
		StartTime:   in.StartTime,
		EndTime:     in.EndTime,
		Location:    textnorm.Clean(in.Location),
		Attendees:   textnorm.CleanAll(in.Attendees),
	}, caller, s.cfg.ClassifyTimeout)
	if err != nil {
		return zero, err
	}
	typed, ok := res.(dom.ClassifyEventResult)
	if !ok {
		return zero, perr.ResultDecodef("unexpected result type %T", res)
	}
	return typed, nil
}

// OptimizeSchedule implements domain.AssistPort
func (s *Service) OptimizeSchedule(ctx context.Context, in dom.OptimizeScheduleInput) (dom.OptimizeScheduleResult, error) {
	var zero dom.OptimizeScheduleResult

	caller, err := s.callerID(ctx, in.UserID)
	if err != nil {
		return zero, err
	}
	if !in.EndDate.After(in.StartDate) {
		return zero, perr.InvalidArgf("end date must be after start date")
	}
	if in.OptimizationType == "" {
		return zero, perr.InvalidArgf("optimization type is required")
	}

	res, err := s.call(ctx, bdom.KindOptimizeSchedule, bdom.OptimizeSchedulePayload{
		StartDate:        in.StartDate,
		EndDate:          in.EndDate,
		OptimizationType: in.OptimizationType,
		Constraints:      in.Constraints,
	}, caller, s.cfg.OptimizeTimeout)
	if err != nil {
		return zero, err
	}
	typed, ok := res.(dom.OptimizeScheduleResult)
	if !ok {
		return zero, perr.ResultDecodef("unexpected result type %T", res)
	}
	return typed, nil
}
