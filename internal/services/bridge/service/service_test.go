package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	perr "geulpi/internal/platform/errors"
	"geulpi/internal/platform/logger"
	"geulpi/internal/services/bridge/codec"
	"geulpi/internal/services/bridge/domain"
)

type pubRecord struct {
	Key   string
	Value []byte
}

type fakePublisher struct {
	mu   sync.Mutex
	err  error
	sent []pubRecord
}

func (p *fakePublisher) Publish(_ context.Context, key string, value []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.sent = append(p.sent, pubRecord{Key: key, Value: value})
	return nil
}

func (p *fakePublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.sent)
}

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

type outcomeSink struct {
	mu   sync.Mutex
	outs []domain.CallOutcome
}

func (o *outcomeSink) hook(out domain.CallOutcome) {
	o.mu.Lock()
	o.outs = append(o.outs, out)
	o.mu.Unlock()
}

func (o *outcomeSink) states() []domain.State {
	o.mu.Lock()
	defer o.mu.Unlock()
	ss := make([]domain.State, len(o.outs))
	for i, out := range o.outs {
		ss[i] = out.State
	}
	return ss
}

func newTestService(t *testing.T, pub domain.PublisherPort, clk *fakeClock, sink *outcomeSink) *Service {
	t.Helper()
	cfg := Config{
		DefaultTimeout:  30 * time.Second,
		ClassifyTimeout: 10 * time.Second,
		MinTimeout:      time.Second,
		SweepInterval:   time.Second,
	}
	if clk != nil {
		cfg.Now = clk.Now
	}
	var hook domain.OutcomeHook
	if sink != nil {
		hook = sink.hook
	}
	n := 0
	cfg.NewID = func() string { n++; return fmt.Sprintf("corr-%d", n) }
	return New(*logger.Named("test"), cfg, pub, nil, hook)
}

func okReply(t *testing.T, correlationID string, result any) domain.Delivery {
	t.Helper()
	raw, err := json.Marshal(result)
	if err != nil {
		t.Fatalf("marshal result: %v", err)
	}
	b, err := codec.EncodeResponse(domain.Response{
		CorrelationID: correlationID,
		Status:        domain.StatusOK,
		Result:        raw,
	})
	if err != nil {
		t.Fatalf("encode response: %v", err)
	}
	return domain.Delivery{Key: []byte(correlationID), Value: b}
}

func classifyPayload() domain.ClassifyEventPayload {
	start, _ := time.Parse(time.RFC3339, "2024-03-01T09:00:00Z")
	end, _ := time.Parse(time.RFC3339, "2024-03-01T09:30:00Z")
	return domain.ClassifyEventPayload{
		EventID:   "evt-1",
		Title:     "Team sync",
		StartTime: start,
		EndTime:   end,
	}
}

func TestSubmit_PublishesOneMessage(t *testing.T) {
	t.Parallel()

	pub := &fakePublisher{}
	s := newTestService(t, pub, nil, nil)

	h, err := s.Submit(context.Background(), domain.KindClassifyEvent, classifyPayload(), "u-1", 0)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if pub.count() != 1 {
		t.Fatalf("published %d messages, want 1", pub.count())
	}
	if s.Registry().Len() != 1 {
		t.Fatalf("registry len = %d, want 1", s.Registry().Len())
	}
	if h.Resolved() {
		t.Fatal("handle should still be pending")
	}

	// message key is the correlation id for partition-level ordering
	pub.mu.Lock()
	rec := pub.sent[0]
	pub.mu.Unlock()
	if rec.Key != h.CorrelationID() {
		t.Fatalf("key = %q, want %q", rec.Key, h.CorrelationID())
	}
	req, err := codec.DecodeRequest(rec.Value)
	if err != nil {
		t.Fatalf("decode published request: %v", err)
	}
	if req.Kind != domain.KindClassifyEvent || req.CallerID != "u-1" {
		t.Fatalf("unexpected request on the wire: %+v", req)
	}
}

func TestSubmit_RejectsBadInput(t *testing.T) {
	t.Parallel()

	s := newTestService(t, &fakePublisher{}, nil, nil)

	if _, err := s.Submit(context.Background(), domain.Kind("NOPE"), classifyPayload(), "u-1", 0); err == nil {
		t.Fatal("unknown kind should be rejected")
	}
	_, err := s.Submit(context.Background(), domain.KindUnderstandText, classifyPayload(), "u-1", 0)
	if !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("code = %v, want InvalidArgument", perr.CodeOf(err))
	}
	if s.Registry().Len() != 0 {
		t.Fatal("rejected submits must not register")
	}
}

func TestSubmit_DispatchFailureLeavesNoResidue(t *testing.T) {
	t.Parallel()

	pub := &fakePublisher{err: errors.New("broker unreachable")}
	sink := &outcomeSink{}
	s := newTestService(t, pub, nil, sink)

	before := s.Registry().Len()
	_, err := s.Submit(context.Background(), domain.KindClassifyEvent, classifyPayload(), "u-1", 0)
	if !perr.IsCode(err, perr.ErrorCodeDispatch) {
		t.Fatalf("code = %v, want Dispatch", perr.CodeOf(err))
	}
	if s.Registry().Len() != before {
		t.Fatalf("registry len changed %d -> %d", before, s.Registry().Len())
	}
	if pub.count() != 0 {
		t.Fatal("no outbound message may exist for a failed submit")
	}
	states := sink.states()
	if len(states) != 1 || states[0] != domain.StateDispatchFailed {
		t.Fatalf("outcome states = %v, want [DISPATCH_FAILED]", states)
	}
}

func TestClassifyScenario_ResolvesWithExactResult(t *testing.T) {
	t.Parallel()

	s := newTestService(t, &fakePublisher{}, nil, nil)

	h, err := s.Submit(context.Background(), domain.KindClassifyEvent, classifyPayload(), "u-1", 0)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	s.handleDelivery(okReply(t, h.CorrelationID(), map[string]any{"label": "WORK", "confidence": 0.92}))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	res, err := h.Await(ctx)
	if err != nil {
		t.Fatalf("Await: %v", err)
	}
	r, ok := res.(domain.ClassifyEventResult)
	if !ok {
		t.Fatalf("result type %T", res)
	}
	if r.Label != "WORK" || r.Confidence != 0.92 {
		t.Fatalf("result = %+v", r)
	}
	if s.Registry().Len() != 0 {
		t.Fatal("resolved call must leave the registry")
	}
}

func TestUnderstandTextScenario_TimesOut(t *testing.T) {
	t.Parallel()

	clk := &fakeClock{t: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
	sink := &outcomeSink{}
	s := newTestService(t, &fakePublisher{}, clk, sink)

	h, err := s.Submit(
		context.Background(),
		domain.KindUnderstandText,
		domain.UnderstandTextPayload{Input: "move lunch to 1pm"},
		"u-1",
		2*time.Second,
	)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	clk.Advance(time.Second)
	s.sweep()
	if h.Resolved() {
		t.Fatal("call expired before its deadline")
	}

	clk.Advance(2 * time.Second)
	s.sweep()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err = h.Await(ctx)
	if !perr.IsCode(err, perr.ErrorCodeTimeout) {
		t.Fatalf("code = %v, want Timeout", perr.CodeOf(err))
	}
	if !perr.Retryable(err) {
		t.Fatal("timeouts must surface as retryable")
	}
	states := sink.states()
	if len(states) != 1 || states[0] != domain.StateTimedOut {
		t.Fatalf("outcome states = %v, want [TIMED_OUT]", states)
	}
}

func TestReverseOrderReplies_MatchTheirOwnKind(t *testing.T) {
	t.Parallel()

	s := newTestService(t, &fakePublisher{}, nil, nil)
	ctx := context.Background()

	hClassify, err := s.Submit(ctx, domain.KindClassifyEvent, classifyPayload(), "u-1", 0)
	if err != nil {
		t.Fatalf("Submit classify: %v", err)
	}
	hText, err := s.Submit(ctx, domain.KindUnderstandText, domain.UnderstandTextPayload{Input: "lunch"}, "u-1", 0)
	if err != nil {
		t.Fatalf("Submit understand: %v", err)
	}

	// replies arrive in reverse submission order
	s.handleDelivery(okReply(t, hText.CorrelationID(), map[string]any{"confidence": 0.7}))
	s.handleDelivery(okReply(t, hClassify.CorrelationID(), map[string]any{"label": "WORK", "confidence": 0.92}))

	awaitCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	resText, err := hText.Await(awaitCtx)
	if err != nil {
		t.Fatalf("Await understand: %v", err)
	}
	if _, ok := resText.(domain.UnderstandTextResult); !ok {
		t.Fatalf("understand result type %T", resText)
	}

	resClassify, err := hClassify.Await(awaitCtx)
	if err != nil {
		t.Fatalf("Await classify: %v", err)
	}
	if r, ok := resClassify.(domain.ClassifyEventResult); !ok || r.Label != "WORK" {
		t.Fatalf("classify result %+v (%T)", resClassify, resClassify)
	}
}

func TestInferenceError_SurfacesToCaller(t *testing.T) {
	t.Parallel()

	s := newTestService(t, &fakePublisher{}, nil, nil)
	h, err := s.Submit(context.Background(), domain.KindUnderstandText, domain.UnderstandTextPayload{Input: "x"}, "u-1", 0)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	b, err := codec.EncodeResponse(domain.Response{
		CorrelationID: h.CorrelationID(),
		Status:        domain.StatusError,
		ErrorMessage:  "model overloaded",
	})
	if err != nil {
		t.Fatalf("encode response: %v", err)
	}
	s.handleDelivery(domain.Delivery{Value: b})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err = h.Await(ctx)
	if !perr.IsCode(err, perr.ErrorCodeInference) {
		t.Fatalf("code = %v, want Inference", perr.CodeOf(err))
	}
	if perr.Retryable(err) {
		t.Fatal("inference errors are not bridge-retryable")
	}
}

func TestResultShapeMismatch_FailsWithResultDecode(t *testing.T) {
	t.Parallel()

	s := newTestService(t, &fakePublisher{}, nil, nil)
	h, err := s.Submit(context.Background(), domain.KindClassifyEvent, classifyPayload(), "u-1", 0)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	s.handleDelivery(okReply(t, h.CorrelationID(), map[string]any{"optimization_score": 0.4}))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err = h.Await(ctx)
	if !perr.IsCode(err, perr.ErrorCodeResultDecode) {
		t.Fatalf("code = %v, want ResultDecode", perr.CodeOf(err))
	}
}

func TestUnknownReply_IsHarmless(t *testing.T) {
	t.Parallel()

	s := newTestService(t, &fakePublisher{}, nil, nil)
	h, err := s.Submit(context.Background(), domain.KindUnderstandText, domain.UnderstandTextPayload{Input: "x"}, "u-1", 0)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	// never-registered id, malformed bytes, then a duplicate of a consumed id
	s.handleDelivery(okReply(t, "never-registered", map[string]any{"confidence": 1.0}))
	s.handleDelivery(domain.Delivery{Value: []byte("not json at all")})

	s.handleDelivery(okReply(t, h.CorrelationID(), map[string]any{"confidence": 0.5}))
	s.handleDelivery(okReply(t, h.CorrelationID(), map[string]any{"confidence": 0.9}))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	res, err := h.Await(ctx)
	if err != nil {
		t.Fatalf("Await: %v", err)
	}
	if r := res.(domain.UnderstandTextResult); r.Confidence != 0.5 {
		t.Fatalf("first delivery must win, got %+v", r)
	}
	if s.Registry().Len() != 0 {
		t.Fatal("registry should be empty")
	}
}

func TestAtMostOnce_ReplyRacesSweeper(t *testing.T) {
	t.Parallel()

	for i := 0; i < 50; i++ {
		clk := &fakeClock{t: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
		sink := &outcomeSink{}
		s := newTestService(t, &fakePublisher{}, clk, sink)

		h, err := s.Submit(context.Background(), domain.KindUnderstandText, domain.UnderstandTextPayload{Input: "x"}, "u-1", 2*time.Second)
		if err != nil {
			t.Fatalf("Submit: %v", err)
		}
		clk.Advance(3 * time.Second)

		reply := okReply(t, h.CorrelationID(), map[string]any{"confidence": 0.8})
		var wg sync.WaitGroup
		wg.Add(2)
		go func() { defer wg.Done(); s.handleDelivery(reply) }()
		go func() { defer wg.Done(); s.sweep() }()
		wg.Wait()

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		res, err := h.Await(ctx)
		cancel()

		// exactly one of OK / Timeout, never both, never zero
		if err == nil {
			if _, ok := res.(domain.UnderstandTextResult); !ok {
				t.Fatalf("iteration %d: result type %T", i, res)
			}
		} else if !perr.IsCode(err, perr.ErrorCodeTimeout) {
			t.Fatalf("iteration %d: unexpected error %v", i, err)
		}
		if got := len(sink.states()); got != 1 {
			t.Fatalf("iteration %d: %d terminal outcomes, want exactly 1", i, got)
		}
		if s.Registry().Len() != 0 {
			t.Fatalf("iteration %d: registry not drained", i)
		}
	}
}

func TestCancel_DoesNotRemoveFromRegistry(t *testing.T) {
	t.Parallel()

	s := newTestService(t, &fakePublisher{}, nil, nil)
	h, err := s.Submit(context.Background(), domain.KindUnderstandText, domain.UnderstandTextPayload{Input: "x"}, "u-1", 0)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := h.Await(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Await after cancel = %v", err)
	}
	if !h.Cancelled() {
		t.Fatal("handle should be marked cancelled")
	}
	if s.Registry().Len() != 1 {
		t.Fatal("cancellation must not remove the registry entry")
	}

	// the late reply is still absorbed without fuss
	s.handleDelivery(okReply(t, h.CorrelationID(), map[string]any{"confidence": 0.3}))
	if s.Registry().Len() != 0 {
		t.Fatal("late reply should drain the entry")
	}
}
