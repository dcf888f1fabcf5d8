// Package tracer is a small tracing abstraction over OpenTelemetry.
//
// Callers depend on the Tracer and Span interfaces only. OTelTracer adapts
// an OpenTelemetry tracer; NoopTracer is used in tests.
package tracer

import (
	"context"
	"time"
)

// Span represents an active trace span.
type Span interface {
	// End completes the span, marking it failed when err is non-nil.
	// End must be called exactly once, typically via defer.
	End(err error)

	SetAttributes(attrs ...Attribute)

	AddEvent(name string, attrs ...Attribute)
}

// Tracer creates spans. Implementations must be safe for concurrent use.
type Tracer interface {
	// Start creates a new span; the returned context carries it to child operations.
	//
	//   ctx, span := t.Start(ctx, tracer.SpanFetch, tracer.String(tracer.AttrSource, "postgrest"))
	//   defer func() { span.End(err) }()
	Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span)
}

// Attribute represents a key-value pair attached to spans.
type Attribute struct {
	Key   string
	Value any
}

func String(key, value string) Attribute {
	return Attribute{Key: key, Value: value}
}

func Bool(key string, value bool) Attribute {
	return Attribute{Key: key, Value: value}
}

func Int(key string, value int) Attribute {
	return Attribute{Key: key, Value: int64(value)}
}

// Duration creates a duration attribute in milliseconds.
func Duration(key string, value time.Duration) Attribute {
	return Attribute{Key: key, Value: value.Milliseconds()}
}

// Span names.
const (
	SpanFetch       = "registrations.fetch"
	SpanSourceQuery = "registrations.source.query"
)

// Attribute keys.
const (
	AttrSource        = "registrations.source"
	AttrCount         = "registrations.count"
	AttrJoined        = "registrations.joined_inflight"
	AttrErrorCategory = "error.category"
	AttrHTTPStatus    = "http.status_code"
)
