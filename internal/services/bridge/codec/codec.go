// Package codec encodes the bridge's tagged union to and from broker bytes.
// The kind discriminator is carried explicitly so a decoder reconstructs the
// exact variant without structural guessing. All timestamps cross the wire as
// RFC3339 UTC at millisecond precision
package codec

import (
	"bytes"
	"encoding/json"
	"time"

	perr "geulpi/internal/platform/errors"
	ptime "geulpi/internal/platform/time"
	"geulpi/internal/services/bridge/domain"
)

type requestWire struct {
	CorrelationID string          `json:"correlation_id"`
	Kind          domain.Kind     `json:"kind"`
	CallerID      string          `json:"caller_id"`
	IssuedAt      time.Time       `json:"issued_at"`
	Payload       json.RawMessage `json:"payload"`
}

type responseWire struct {
	CorrelationID string          `json:"correlation_id"`
	Status        domain.Status   `json:"status"`
	Result        json.RawMessage `json:"result,omitempty"`
	ErrorMessage  string          `json:"error_message,omitempty"`
}

// EncodeRequest serializes r for the outbound channel
func EncodeRequest(r domain.Request) ([]byte, error) {
	if !r.Kind.Valid() {
		return nil, perr.Serializationf("encode: unknown kind %q", r.Kind)
	}
	if r.Payload == nil {
		return nil, perr.Serializationf("encode: nil payload for kind %q", r.Kind)
	}
	if r.Payload.Kind() != r.Kind {
		return nil, perr.Serializationf("encode: payload kind %q does not match request kind %q", r.Payload.Kind(), r.Kind)
	}

	pb, err := json.Marshal(normalizePayload(r.Payload))
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeSerialization, "encode: payload for kind %q", r.Kind)
	}

	w := requestWire{
		CorrelationID: r.CorrelationID,
		Kind:          r.Kind,
		CallerID:      r.CallerID,
		IssuedAt:      ptime.UTCMillis(r.IssuedAt),
		Payload:       pb,
	}
	out, err := json.Marshal(w)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeSerialization, "encode: request envelope")
	}
	return out, nil
}

// DecodeRequest reverses EncodeRequest, selecting the variant by discriminator
func DecodeRequest(b []byte) (domain.Request, error) {
	var w requestWire
	if err := json.Unmarshal(b, &w); err != nil {
		return domain.Request{}, perr.Wrapf(err, perr.ErrorCodeSerialization, "decode: request envelope")
	}
	if w.Kind == "" {
		return domain.Request{}, perr.Serializationf("decode: missing kind discriminator")
	}
	if !w.Kind.Valid() {
		return domain.Request{}, perr.Serializationf("decode: unknown kind %q", w.Kind)
	}
	if len(w.Payload) == 0 {
		return domain.Request{}, perr.Serializationf("decode: missing payload for kind %q", w.Kind)
	}

	p, err := decodePayload(w.Kind, w.Payload)
	if err != nil {
		return domain.Request{}, err
	}

	return domain.Request{
		CorrelationID: w.CorrelationID,
		Kind:          w.Kind,
		CallerID:      w.CallerID,
		IssuedAt:      ptime.UTCMillis(w.IssuedAt),
		Payload:       p,
	}, nil
}

func decodePayload(kind domain.Kind, raw json.RawMessage) (domain.Payload, error) {
	switch kind {
	case domain.KindUnderstandText:
		var p domain.UnderstandTextPayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeSerialization, "decode: %s payload", kind)
		}
		return p, nil
	case domain.KindClassifyEvent:
		var p domain.ClassifyEventPayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeSerialization, "decode: %s payload", kind)
		}
		p.StartTime = ptime.UTCMillis(p.StartTime)
		p.EndTime = ptime.UTCMillis(p.EndTime)
		return p, nil
	case domain.KindOptimizeSchedule:
		var p domain.OptimizeSchedulePayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeSerialization, "decode: %s payload", kind)
		}
		p.StartDate = ptime.UTCMillis(p.StartDate)
		p.EndDate = ptime.UTCMillis(p.EndDate)
		return p, nil
	default:
		return nil, perr.Serializationf("decode: unknown kind %q", kind)
	}
}

// normalizePayload pins every timestamp to UTC millisecond before marshal
// so the round trip law holds across processes
func normalizePayload(p domain.Payload) domain.Payload {
	switch v := p.(type) {
	case domain.ClassifyEventPayload:
		v.StartTime = ptime.UTCMillis(v.StartTime)
		v.EndTime = ptime.UTCMillis(v.EndTime)
		return v
	case domain.OptimizeSchedulePayload:
		v.StartDate = ptime.UTCMillis(v.StartDate)
		v.EndDate = ptime.UTCMillis(v.EndDate)
		return v
	default:
		return p
	}
}

// EncodeResponse serializes a reply for the inbound channel.
// Used by the local inference stand-in and by tests
func EncodeResponse(r domain.Response) ([]byte, error) {
	if r.CorrelationID == "" {
		return nil, perr.Serializationf("encode: response missing correlation id")
	}
	switch r.Status {
	case domain.StatusOK, domain.StatusError:
	default:
		return nil, perr.Serializationf("encode: unknown response status %q", r.Status)
	}
	out, err := json.Marshal(responseWire{
		CorrelationID: r.CorrelationID,
		Status:        r.Status,
		Result:        r.Result,
		ErrorMessage:  r.ErrorMessage,
	})
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeSerialization, "encode: response envelope")
	}
	return out, nil
}

// DecodeResponse parses a reply envelope, leaving the result undecoded
func DecodeResponse(b []byte) (domain.Response, error) {
	var w responseWire
	if err := json.Unmarshal(b, &w); err != nil {
		return domain.Response{}, perr.Wrapf(err, perr.ErrorCodeSerialization, "decode: response envelope")
	}
	if w.CorrelationID == "" {
		return domain.Response{}, perr.Serializationf("decode: response missing correlation id")
	}
	switch w.Status {
	case domain.StatusOK, domain.StatusError:
	default:
		return domain.Response{}, perr.Serializationf("decode: unknown response status %q", w.Status)
	}
	return domain.Response{
		CorrelationID: w.CorrelationID,
		Status:        w.Status,
		Result:        w.Result,
		ErrorMessage:  w.ErrorMessage,
	}, nil
}

// DecodeResult interprets result bytes for the kind the caller originally sent.
// A shape that does not match the kind is a result decode failure, never a
// silently zeroed struct
func DecodeResult(kind domain.Kind, raw json.RawMessage) (any, error) {
	if len(raw) == 0 {
		return nil, perr.ResultDecodef("empty result for kind %q", kind)
	}
	switch kind {
	case domain.KindUnderstandText:
		var r domain.UnderstandTextResult
		if err := strictUnmarshal(raw, &r); err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeResultDecode, "result for kind %q", kind)
		}
		return r, nil
	case domain.KindClassifyEvent:
		var r domain.ClassifyEventResult
		if err := strictUnmarshal(raw, &r); err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeResultDecode, "result for kind %q", kind)
		}
		return r, nil
	case domain.KindOptimizeSchedule:
		var r domain.OptimizeScheduleResult
		if err := strictUnmarshal(raw, &r); err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeResultDecode, "result for kind %q", kind)
		}
		return r, nil
	default:
		return nil, perr.ResultDecodef("unknown kind %q", kind)
	}
}

// strictUnmarshal rejects fields foreign to the target shape, which is how a
// reply for a different kind is detected
func strictUnmarshal(raw json.RawMessage, dst any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}
