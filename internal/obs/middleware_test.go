package obs

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestStatusRecorderCapturesStatusAndBytes(t *testing.T) {
	rec := httptest.NewRecorder()
	sr := NewStatusRecorder(rec)
	sr.WriteHeader(http.StatusTeapot)
	n, err := sr.Write([]byte("hello"))
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if n != 5 {
		t.Fatalf("expected 5 bytes, got %d", n)
	}
	if sr.Status() != http.StatusTeapot {
		t.Fatalf("expected 418, got %d", sr.Status())
	}
	if sr.BytesWritten() != 5 {
		t.Fatalf("expected 5 bytes written, got %d", sr.BytesWritten())
	}
}

func TestRoutePatternContextRoundTrip(t *testing.T) {
	ctx := WithRoutePattern(nil, "/api/v1/trips/{id}")
	if got := RoutePatternFromContext(ctx); got != "/api/v1/trips/{id}" {
		t.Fatalf("unexpected pattern %q", got)
	}
	if got := RoutePatternFromContext(nil); got != "" {
		t.Fatalf("expected empty pattern for nil context, got %q", got)
	}
}
