package codec

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"

	perr "geulpi/internal/platform/errors"
	"geulpi/internal/services/bridge/domain"
)

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t.Fatalf("parse time: %v", err)
	}
	return ts
}

func TestRequestRoundTrip(t *testing.T) {
	t.Parallel()

	start := mustTime(t, "2024-03-01T09:00:00Z")
	end := mustTime(t, "2024-03-01T09:30:00Z")

	cases := []struct {
		name string
		req  domain.Request
	}{
		{
			name: "understand text full",
			req: domain.Request{
				CorrelationID: "c-1",
				Kind:          domain.KindUnderstandText,
				CallerID:      "u-1",
				IssuedAt:      start,
				Payload: domain.UnderstandTextPayload{
					Input:      "move lunch to 1pm",
					IntentHint: "reschedule",
					Context:    "workweek",
				},
			},
		},
		{
			name: "understand text optionals empty",
			req: domain.Request{
				CorrelationID: "c-2",
				Kind:          domain.KindUnderstandText,
				CallerID:      "u-1",
				IssuedAt:      start,
				Payload:       domain.UnderstandTextPayload{Input: "lunch"},
			},
		},
		{
			name: "classify event",
			req: domain.Request{
				CorrelationID: "c-3",
				Kind:          domain.KindClassifyEvent,
				CallerID:      "u-2",
				IssuedAt:      start,
				Payload: domain.ClassifyEventPayload{
					EventID:     "evt-1",
					Title:       "Team sync",
					Description: "weekly",
					StartTime:   start,
					EndTime:     end,
					Location:    "room 4",
					Attendees:   []string{"a", "b"},
				},
			},
		},
		{
			name: "classify event no attendees",
			req: domain.Request{
				CorrelationID: "c-4",
				Kind:          domain.KindClassifyEvent,
				CallerID:      "u-2",
				IssuedAt:      start,
				Payload: domain.ClassifyEventPayload{
					EventID:   "evt-2",
					Title:     "1:1",
					StartTime: start,
					EndTime:   end,
				},
			},
		},
		{
			name: "optimize schedule",
			req: domain.Request{
				CorrelationID: "c-5",
				Kind:          domain.KindOptimizeSchedule,
				CallerID:      "u-3",
				IssuedAt:      start,
				Payload: domain.OptimizeSchedulePayload{
					StartDate:        start,
					EndDate:          end,
					OptimizationType: "BALANCE",
					Constraints:      json.RawMessage(`{"keep":["evt-1"]}`),
				},
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			b, err := EncodeRequest(tc.req)
			if err != nil {
				t.Fatalf("EncodeRequest: %v", err)
			}
			got, err := DecodeRequest(b)
			if err != nil {
				t.Fatalf("DecodeRequest: %v", err)
			}
			if !reflect.DeepEqual(got, tc.req) {
				t.Fatalf("round trip mismatch\n got %+v\nwant %+v", got, tc.req)
			}
		})
	}
}

func TestEncodeRequest_Rejects(t *testing.T) {
	t.Parallel()

	start := mustTime(t, "2024-03-01T09:00:00Z")

	cases := []struct {
		name string
		req  domain.Request
	}{
		{"unknown kind", domain.Request{Kind: domain.Kind("NOPE"), Payload: domain.UnderstandTextPayload{}}},
		{"nil payload", domain.Request{Kind: domain.KindUnderstandText}},
		{
			"kind payload mismatch",
			domain.Request{
				Kind:     domain.KindClassifyEvent,
				IssuedAt: start,
				Payload:  domain.UnderstandTextPayload{Input: "x"},
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := EncodeRequest(tc.req)
			if !perr.IsCode(err, perr.ErrorCodeSerialization) {
				t.Fatalf("code = %v, want Serialization", perr.CodeOf(err))
			}
		})
	}
}

func TestDecodeRequest_Rejects(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
	}{
		{"not json", "{"},
		{"missing discriminator", `{"correlation_id":"c-1","payload":{"input":"x"}}`},
		{"unknown kind", `{"correlation_id":"c-1","kind":"NOPE","payload":{}}`},
		{"missing payload", `{"correlation_id":"c-1","kind":"UNDERSTAND_TEXT"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := DecodeRequest([]byte(tc.in))
			if !perr.IsCode(err, perr.ErrorCodeSerialization) {
				t.Fatalf("code = %v, want Serialization", perr.CodeOf(err))
			}
		})
	}
}

func TestResponseRoundTrip(t *testing.T) {
	t.Parallel()

	in := domain.Response{
		CorrelationID: "c-1",
		Status:        domain.StatusOK,
		Result:        json.RawMessage(`{"label":"WORK","confidence":0.92}`),
	}
	b, err := EncodeResponse(in)
	if err != nil {
		t.Fatalf("EncodeResponse: %v", err)
	}
	got, err := DecodeResponse(b)
	if err != nil {
		t.Fatalf("DecodeResponse: %v", err)
	}
	if got.CorrelationID != in.CorrelationID || got.Status != in.Status {
		t.Fatalf("envelope mismatch: %+v", got)
	}
	if string(got.Result) != string(in.Result) {
		t.Fatalf("result bytes mismatch: %s", got.Result)
	}
}

func TestDecodeResponse_Rejects(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
	}{
		{"not json", "nope"},
		{"missing correlation id", `{"status":"OK"}`},
		{"bad status", `{"correlation_id":"c-1","status":"MAYBE"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := DecodeResponse([]byte(tc.in))
			if !perr.IsCode(err, perr.ErrorCodeSerialization) {
				t.Fatalf("code = %v, want Serialization", perr.CodeOf(err))
			}
		})
	}
}

func TestDecodeResult_PerKind(t *testing.T) {
	t.Parallel()

	got, err := DecodeResult(domain.KindClassifyEvent, json.RawMessage(`{"label":"WORK","confidence":0.92}`))
	if err != nil {
		t.Fatalf("DecodeResult: %v", err)
	}
	r, ok := got.(domain.ClassifyEventResult)
	if !ok {
		t.Fatalf("wrong type %T", got)
	}
	if r.Label != "WORK" || r.Confidence != 0.92 {
		t.Fatalf("unexpected result %+v", r)
	}
}

func TestDecodeResult_ShapeMismatch(t *testing.T) {
	t.Parallel()

	// an optimizer reply delivered against a classification call
	raw := json.RawMessage(`{"proposed_changes":[],"optimization_score":0.5}`)
	_, err := DecodeResult(domain.KindClassifyEvent, raw)
	if !perr.IsCode(err, perr.ErrorCodeResultDecode) {
		t.Fatalf("code = %v, want ResultDecode", perr.CodeOf(err))
	}

	if _, err := DecodeResult(domain.KindUnderstandText, nil); !perr.IsCode(err, perr.ErrorCodeResultDecode) {
		t.Fatalf("empty result should fail decode")
	}
}
