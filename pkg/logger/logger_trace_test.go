package logger_test

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/trace"

	"github.com/playverse/room-service/pkg/logger"
)

func TestAttrsFromCtx_PropagatesTraceIDs(t *testing.T) {
	tid, _ := trace.TraceIDFromHex("0123456789abcdef0123456789abcdef")
	sid, _ := trace.SpanIDFromHex("0123456789abcdef")
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    tid,
		SpanID:     sid,
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	attrs := logger.AttrsFromCtx(ctx)
	if len(attrs) != 2 {
		t.Fatalf("expected trace_id and span_id, got %v", attrs)
	}

	got := map[string]string{}
	for _, a := range attrs {
		got[a.Key] = a.Value.String()
	}
	if got["trace_id"] != tid.String() {
		t.Fatalf("trace_id mismatch: %v", got)
	}
	if got["span_id"] != sid.String() {
		t.Fatalf("span_id mismatch: %v", got)
	}
}

func TestAttrsFromCtx_NoSpan(t *testing.T) {
	if attrs := logger.AttrsFromCtx(context.Background()); attrs != nil {
		t.Fatalf("expected nil attrs without span, got %v", attrs)
	}
}
