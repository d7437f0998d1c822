package errors

import (
	stderrs "errors"
	"net/http"
	"testing"
)

func TestWrapAndUnwrap(t *testing.T) {
	t.Parallel()

	cause := stderrs.New("kafka: dial tcp refused")
	err := Wrap(cause, ErrorCodeDispatch, "publish failed")

	if got := err.Error(); got != "publish failed: kafka: dial tcp refused" {
		t.Fatalf("Error() = %q", got)
	}
	if Root(err) != cause {
		t.Fatalf("Root did not return the original cause")
	}
	if !IsCode(err, ErrorCodeDispatch) {
		t.Fatalf("IsCode(Dispatch) = false")
	}
}

func TestCodeOfForeignError(t *testing.T) {
	t.Parallel()

	if got := CodeOf(stderrs.New("plain")); got != ErrorCodeUnknown {
		t.Fatalf("CodeOf foreign = %v", got)
	}
}

func TestHTTPStatusMapping(t *testing.T) {
	t.Parallel()

	cases := []struct {
		code ErrorCode
		want int
	}{
		{ErrorCodeTimeout, http.StatusGatewayTimeout},
		{ErrorCodeInference, http.StatusBadGateway},
		{ErrorCodeResultDecode, http.StatusBadGateway},
		{ErrorCodeDispatch, http.StatusServiceUnavailable},
		{ErrorCodeDuplicateCorrelation, http.StatusConflict},
		{ErrorCodeSerialization, http.StatusBadRequest},
		{ErrorCodeValidation, http.StatusBadRequest},
		{ErrorCodeInvalidArgument, http.StatusUnprocessableEntity},
		{ErrorCodeNotFound, http.StatusNotFound},
		{ErrorCodeUnknown, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := HTTPStatusCode(tc.code); got != tc.want {
			t.Fatalf("HTTPStatusCode(%v) = %d, want %d", tc.code, got, tc.want)
		}
	}
}

func TestRetryable(t *testing.T) {
	t.Parallel()

	if !Retryable(Timeoutf("no reply")) {
		t.Fatalf("Timeout should be retryable")
	}
	if !Retryable(Dispatchf("broker down")) {
		t.Fatalf("Dispatch should be retryable")
	}
	if Retryable(Inferencef("model rejected input")) {
		t.Fatalf("Inference failures must not be retried blindly")
	}
	if Retryable(DuplicateCorrelationf("corr-1")) {
		t.Fatalf("DuplicateCorrelation is a programming defect, not retryable")
	}
}

func TestWireFrom(t *testing.T) {
	t.Parallel()

	w := WireFrom(WithField(Newf(ErrorCodeValidation, "title required"), "title"))
	if w.Code != ErrorCodeValidation || w.Field != "title" || w.Message != "title required" {
		t.Fatalf("WireFrom = %+v", w)
	}

	if w := WireFrom(nil); w.Code != ErrorCodeUnknown || w.Message != "" {
		t.Fatalf("WireFrom(nil) = %+v", w)
	}
}

func TestWithOp(t *testing.T) {
	t.Parallel()

	err := WithOp(Serializationf("unknown kind"), "bridge.encode")
	e, ok := As(err)
	if !ok || e.Op() != "bridge.encode" {
		t.Fatalf("WithOp not applied: %+v", err)
	}
}
