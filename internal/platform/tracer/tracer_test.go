package tracer_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"regadmin/internal/platform/tracer"
)

func TestNoopTracer(t *testing.T) {
	tr := tracer.NewNoop()
	ctx := context.Background()

	newCtx, span := tr.Start(ctx, tracer.SpanFetch, tracer.String(tracer.AttrSource, "file"))
	assert.Equal(t, ctx, newCtx)
	require.NotNil(t, span)

	span.SetAttributes(tracer.Int(tracer.AttrCount, 3))
	span.AddEvent("noop")
	span.End(errors.New("ignored"))
}

func TestOTelTracer_RecordsAttributesAndErrors(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	tr := tracer.NewOTel(tracer.WithOTelTracer(provider.Tracer("test")))

	_, span := tr.Start(context.Background(), tracer.SpanFetch, tracer.String(tracer.AttrSource, "postgrest"))
	span.SetAttributes(tracer.Int(tracer.AttrCount, 2), tracer.Bool(tracer.AttrJoined, false))
	span.End(errors.New("fetch failed"))

	ended := rec.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, tracer.SpanFetch, ended[0].Name())
	assert.Equal(t, codes.Error, ended[0].Status().Code)

	attrs := map[string]any{}
	for _, kv := range ended[0].Attributes() {
		attrs[string(kv.Key)] = kv.Value.AsInterface()
	}
	assert.Equal(t, "postgrest", attrs[tracer.AttrSource])
	assert.Equal(t, int64(2), attrs[tracer.AttrCount])
	assert.Equal(t, false, attrs[tracer.AttrJoined])
}

func TestDurationAttribute(t *testing.T) {
	attr := tracer.Duration("latency", 150*time.Millisecond)
	assert.Equal(t, int64(150), attr.Value)
}

func TestNewProvider(t *testing.T) {
	p, err := tracer.NewProvider(context.Background(), tracer.ProviderConfig{Exporter: "none"})
	require.NoError(t, err)
	assert.False(t, p.Enabled())
	assert.NoError(t, p.Shutdown(context.Background()))

	_, err = tracer.NewProvider(context.Background(), tracer.ProviderConfig{Exporter: "zipkin"})
	assert.ErrorContains(t, err, "unsupported exporter type")
}
