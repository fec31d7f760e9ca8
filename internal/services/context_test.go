package services

import (
	"context"
	"testing"
)

func TestSessionIDRoundTrip(t *testing.T) {
	ctx := WithSessionID(context.Background(), "abc-123")
	id, ok := SessionIDFromContext(ctx)
	if !ok || id != "abc-123" {
		t.Fatalf("SessionIDFromContext = (%q, %v), want (\"abc-123\", true)", id, ok)
	}
}

func TestEmptyValuesAreNotStored(t *testing.T) {
	ctx := WithSessionID(context.Background(), "")
	if _, ok := SessionIDFromContext(ctx); ok {
		t.Fatal("expected no session id in context")
	}
	ctx = WithEventID(context.Background(), "")
	if _, ok := EventIDFromContext(ctx); ok {
		t.Fatal("expected no event id in context")
	}
	ctx = WithRequestID(context.Background(), "")
	if _, ok := RequestIDFromContext(ctx); ok {
		t.Fatal("expected no request id in context")
	}
}
