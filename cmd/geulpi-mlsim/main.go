// geulpi-mlsim is a local stand-in for the inference service. It consumes
// requests off the outbound topic and answers with canned per-kind results,
// which is enough to exercise the gateway end to end without GPUs
package main

import (
	"context"
	"encoding/json"
	"os/signal"
	"syscall"
	"time"

	"geulpi/internal/adapters/broker/kafka"
	"geulpi/internal/platform/config"
	"geulpi/internal/platform/logger"
	ptime "geulpi/internal/platform/time"
	"geulpi/internal/services/bridge/codec"
	"geulpi/internal/services/bridge/domain"
)

func main() {
	root := config.New()
	simCfg := root.Prefix("CORE_MLSIM_")

	l := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	kcfg := kafka.FromConfig(root)
	cons := kafka.NewRequestConsumer(kcfg, simCfg.MayString("GROUP_ID", "geulpi-mlsim"))
	pub := kafka.NewResponsePublisher(kcfg)
	defer kafka.CloseAll(pub, cons)

	delay := simCfg.MayDuration("REPLY_DELAY", 200*time.Millisecond)
	l.Info().
		Strs("brokers", kcfg.Brokers).
		Str("topic", kcfg.RequestTopic).
		Dur("reply_delay", delay).
		Msg("mlsim consuming")

	for {
		d, err := cons.Fetch(ctx)
		if err != nil {
			if ctx.Err() != nil {
				l.Info().Msg("mlsim stopped")
				return
			}
			l.Error().Err(err).Msg("fetch failed")
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}

		req, err := codec.DecodeRequest(d.Value)
		if err != nil {
			l.Warn().Err(err).Msg("undecodable request, skipping")
			continue
		}

		if delay > 0 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(delay):
			}
		}

		reply, err := answer(req)
		if err != nil {
			l.Error().Err(err).Str("correlation_id", req.CorrelationID).Msg("could not build reply")
			continue
		}
		if err := pub.Publish(ctx, req.CorrelationID, reply); err != nil {
			l.Error().Err(err).Str("correlation_id", req.CorrelationID).Msg("publish failed")
		}
	}
}

// answer builds a deterministic result for the request's kind
func answer(req domain.Request) ([]byte, error) {
	var result any
	switch p := req.Payload.(type) {
	case domain.UnderstandTextPayload:
		start := ptime.UTCMillis(req.IssuedAt.Add(24 * time.Hour))
		result = domain.UnderstandTextResult{
			SuggestedEvents: []domain.SuggestedEvent{{
				Title:     "Suggested: " + truncate(p.Input, 48),
				StartTime: start,
				EndTime:   start.Add(time.Hour),
			}},
			Confidence: 0.82,
		}
	case domain.ClassifyEventPayload:
		result = domain.ClassifyEventResult{
			EventID:       p.EventID,
			Label:         "WORK",
			Confidence:    0.9,
			SuggestedTags: []string{"meeting"},
			BalanceImpact: "NEUTRAL",
		}
	case domain.OptimizeSchedulePayload:
		result = domain.OptimizeScheduleResult{
			OptimizationScore: 0.75,
			BalanceScores:     map[string]float64{"work": 0.6, "rest": 0.4},
		}
	default:
		return codec.EncodeResponse(domain.Response{
			CorrelationID: req.CorrelationID,
			Status:        domain.StatusError,
			ErrorMessage:  "unsupported kind " + string(req.Kind),
		})
	}

	raw, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}
	return codec.EncodeResponse(domain.Response{
		CorrelationID: req.CorrelationID,
		Status:        domain.StatusOK,
		Result:        raw,
	})
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
