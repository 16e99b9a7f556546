package middleware

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/longbridgeapp/assert"
	"go.opentelemetry.io/otel/attribute"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/hyp3rd/hyperagg"
	"github.com/hyp3rd/hyperagg/internal/sentinel"
	"github.com/hyp3rd/hyperagg/pkg/aggregate"
	"github.com/hyp3rd/hyperagg/pkg/report"
)

type stubService struct {
	calls    int
	err      error
	progress *hyperagg.Progress
}

func (s *stubService) Run(_ context.Context, path string) (*hyperagg.Report, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}

	return &hyperagg.Report{
		Path:       path,
		Keys:       []string{"a"},
		Result:     report.Result{"a": aggregate.FinalStats{Min: 1, Mean: 1, Max: 1, Count: 1}},
		Records:    1,
		Bytes:      4,
		Partitions: 1,
	}, nil
}

func (s *stubService) Progress() *hyperagg.Progress { return s.progress }

type recordingLogger struct {
	infos  []string
	errors []string
}

func (l *recordingLogger) Infof(format string, args ...any) {
	l.infos = append(l.infos, fmt.Sprintf(format, args...))
}

func (l *recordingLogger) Errorf(format string, args ...any) {
	l.errors = append(l.errors, fmt.Sprintf(format, args...))
}

func TestLoggingMiddleware(t *testing.T) {
	logger := &recordingLogger{}
	next := &stubService{progress: hyperagg.NewProgress()}
	svc := NewLoggingMiddleware(next, logger)

	rep, err := svc.Run(context.Background(), "in.txt")
	assert.NoError(t, err)
	assert.Equal(t, "{a=1.0/1.0/1.0}", rep.String())
	assert.Equal(t, 2, len(logger.infos))
	assert.Equal(t, 0, len(logger.errors))
	assert.Equal(t, next.progress, svc.Progress())

	next.err = fmt.Errorf("read: %w", sentinel.ErrIO)

	_, err = svc.Run(context.Background(), "in.txt")
	assert.True(t, errors.Is(err, sentinel.ErrIO))
	assert.Equal(t, 1, len(logger.errors))
	assert.True(t, strings.Contains(logger.errors[0], "(io)"))
}

func TestOTelMetricsMiddleware(t *testing.T) {
	next := &stubService{}

	svc, err := NewOTelMetricsMiddleware(next, metricnoop.NewMeterProvider().Meter("test"))
	assert.NoError(t, err)

	rep, err := svc.Run(context.Background(), "in.txt")
	assert.NoError(t, err)
	assert.Equal(t, int64(1), rep.Records)

	next.err = sentinel.ErrParse

	_, err = svc.Run(context.Background(), "in.txt")
	assert.True(t, errors.Is(err, sentinel.ErrParse))
	assert.Equal(t, 2, next.calls)
}

func TestOTelTracingMiddleware(t *testing.T) {
	next := &stubService{}
	svc := NewOTelTracingMiddleware(next, tracenoop.NewTracerProvider().Tracer("test"),
		WithCommonAttributes(attribute.String("service", "hyperagg")))

	rep, err := svc.Run(context.Background(), "in.txt")
	assert.NoError(t, err)
	assert.Equal(t, "in.txt", rep.Path)

	next.err = context.Canceled

	_, err = svc.Run(context.Background(), "in.txt")
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestApplyMiddleware_Chain(t *testing.T) {
	logger := &recordingLogger{}
	next := &stubService{}

	svc := hyperagg.ApplyMiddleware(next,
		func(s hyperagg.Service) hyperagg.Service { return NewLoggingMiddleware(s, logger) },
		func(s hyperagg.Service) hyperagg.Service {
			return NewOTelTracingMiddleware(s, tracenoop.NewTracerProvider().Tracer("test"))
		},
	)

	_, err := svc.Run(context.Background(), "in.txt")
	assert.NoError(t, err)
	assert.Equal(t, 1, next.calls)
	assert.Equal(t, 2, len(logger.infos))
}
