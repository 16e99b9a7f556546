package middleware

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/hyp3rd/hyperagg"
	"github.com/hyp3rd/hyperagg/internal/telemetry/attrs"
)

// OTelMetricsMiddleware emits OpenTelemetry metrics for service runs.
type OTelMetricsMiddleware struct {
	next  hyperagg.Service
	meter metric.Meter

	// instruments
	runs      metric.Int64Counter
	records   metric.Int64Counter
	durations metric.Float64Histogram
}

// NewOTelMetricsMiddleware constructs a metrics middleware using the provided meter.
func NewOTelMetricsMiddleware(next hyperagg.Service, meter metric.Meter) (hyperagg.Service, error) {
	runs, err := meter.Int64Counter("hyperagg.runs")
	if err != nil {
		return nil, fmt.Errorf("create counter: %w", err)
	}

	records, err := meter.Int64Counter("hyperagg.records")
	if err != nil {
		return nil, fmt.Errorf("create counter: %w", err)
	}

	durations, err := meter.Float64Histogram("hyperagg.run.duration.ms")
	if err != nil {
		return nil, fmt.Errorf("create histogram: %w", err)
	}

	return &OTelMetricsMiddleware{next: next, meter: meter, runs: runs, records: records, durations: durations}, nil
}

// Run implements Service.Run with metrics.
func (mw *OTelMetricsMiddleware) Run(ctx context.Context, path string) (*hyperagg.Report, error) {
	start := time.Now()
	rep, err := mw.next.Run(ctx, path)

	if err != nil {
		mw.rec(ctx, start, attribute.String(attrs.AttrErrorKind, hyperagg.ErrorKind(err)))

		return nil, err
	}

	mw.records.Add(ctx, rep.Records)
	mw.rec(ctx, start,
		attribute.Int(attrs.AttrPartitions, rep.Partitions),
		attribute.Int(attrs.AttrKeys, len(rep.Keys)))

	return rep, nil
}

// Progress returns the progress collector of the next service.
func (mw *OTelMetricsMiddleware) Progress() *hyperagg.Progress { return mw.next.Progress() }

// rec records run count and duration with attributes.
func (mw *OTelMetricsMiddleware) rec(ctx context.Context, start time.Time, attributes ...attribute.KeyValue) {
	base := []attribute.KeyValue{attribute.String("method", "Run")}
	if len(attributes) > 0 {
		base = append(base, attributes...)
	}

	mw.runs.Add(ctx, 1, metric.WithAttributes(base...))
	mw.durations.Record(ctx, float64(time.Since(start).Milliseconds()), metric.WithAttributes(base...))
}
