package middleware

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/hyp3rd/hyperagg"
	"github.com/hyp3rd/hyperagg/internal/telemetry/attrs"
)

// OTelTracingMiddleware wraps hyperagg.Service runs with OpenTelemetry spans.
type OTelTracingMiddleware struct {
	next   hyperagg.Service
	tracer trace.Tracer
	// static attributes applied to all spans
	commonAttrs []attribute.KeyValue
}

// OTelTracingOption allows configuring the tracing middleware.
type OTelTracingOption func(*OTelTracingMiddleware)

// WithCommonAttributes sets attributes applied to all spans.
func WithCommonAttributes(attributes ...attribute.KeyValue) OTelTracingOption {
	return func(m *OTelTracingMiddleware) { m.commonAttrs = append(m.commonAttrs, attributes...) }
}

// NewOTelTracingMiddleware creates a tracing middleware.
func NewOTelTracingMiddleware(next hyperagg.Service, tracer trace.Tracer, opts ...OTelTracingOption) hyperagg.Service {
	mw := &OTelTracingMiddleware{next: next, tracer: tracer}
	for _, o := range opts {
		o(mw)
	}

	return mw
}

// Run implements Service.Run with tracing.
func (mw OTelTracingMiddleware) Run(ctx context.Context, path string) (*hyperagg.Report, error) {
	ctx, span := mw.startSpan(ctx, "hyperagg.Run", attribute.String(attrs.AttrInputPath, path))
	defer span.End()

	rep, err := mw.next.Run(ctx, path)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, hyperagg.ErrorKind(err))

		return nil, err
	}

	span.SetAttributes(
		attribute.Int64(attrs.AttrInputBytes, rep.Bytes),
		attribute.Int(attrs.AttrPartitions, rep.Partitions),
		attribute.Int64(attrs.AttrRecords, rep.Records),
		attribute.Int(attrs.AttrKeys, len(rep.Keys)),
	)

	return rep, nil
}

// Progress returns the progress collector of the next service.
func (mw OTelTracingMiddleware) Progress() *hyperagg.Progress { return mw.next.Progress() }

// startSpan starts a span with common and provided attributes.
func (mw OTelTracingMiddleware) startSpan(ctx context.Context, name string, attributes ...attribute.KeyValue) (context.Context, trace.Span) {
	ctx, span := mw.tracer.Start(ctx, name, trace.WithSpanKind(trace.SpanKindInternal))
	if len(mw.commonAttrs) > 0 {
		span.SetAttributes(mw.commonAttrs...)
	}

	if len(attributes) > 0 {
		span.SetAttributes(attributes...)
	}

	return ctx, span
}
