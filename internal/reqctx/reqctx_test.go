package reqctx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestMiddlewareAssignsID(t *testing.T) {
	var seen string
	h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestContext(r.Context()).RequestID
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if len(seen) != 16 {
		t.Fatalf("Expected 16 hex chars, got %q", seen)
	}
	if rec.Header().Get(HeaderRequestID) != seen {
		t.Errorf("Response header %q does not match context ID %q", rec.Header().Get(HeaderRequestID), seen)
	}
}

func TestMiddlewareReusesClientID(t *testing.T) {
	var seen string
	h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestContext(r.Context()).RequestID
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	h.ServeHTTP(httptest.NewRecorder(), req)
	if seen != "abc-123" {
		t.Errorf("Expected client ID to be reused, got %q", seen)
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, strings.Repeat("x", maxIncomingIDLength+1))
	h.ServeHTTP(httptest.NewRecorder(), req)
	if len(seen) != 16 {
		t.Errorf("Expected overlong client ID to be replaced, got %q", seen)
	}
}

func TestRequestError(t *testing.T) {
	ctx := WithRequestID(context.Background(), "r1")
	base := errors.New("boom")
	err := NewRequestError(ctx, base)

	if err.Error() != "[r1] boom" {
		t.Errorf("Unexpected message %q", err.Error())
	}
	if !errors.Is(err, base) {
		t.Errorf("Expected RequestError to unwrap to base error")
	}
	if GetRequestContext(context.Background()).RequestID != "unknown" {
		t.Errorf("Expected unknown ID without request context")
	}
}
