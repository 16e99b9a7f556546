// Package middleware provides middleware implementations for the hyperagg
// service: logging of runs, OpenTelemetry metrics and OpenTelemetry tracing.
package middleware

import (
	"context"
	"time"

	"github.com/hyp3rd/hyperagg"
)

// LoggingMiddleware is a middleware that logs every run and the time it took.
// Must implement the hyperagg.Service interface.
type LoggingMiddleware struct {
	next   hyperagg.Service
	logger hyperagg.Logger
}

// NewLoggingMiddleware returns a new LoggingMiddleware.
func NewLoggingMiddleware(next hyperagg.Service, logger hyperagg.Logger) hyperagg.Service {
	return &LoggingMiddleware{next: next, logger: logger}
}

// Run logs the run outcome and the time it took.
func (mw LoggingMiddleware) Run(ctx context.Context, path string) (*hyperagg.Report, error) {
	begin := time.Now()

	mw.logger.Infof("Run method invoked with path: %s", path)

	rep, err := mw.next.Run(ctx, path)
	if err != nil {
		mw.logger.Errorf("method Run failed after %s (%s): %v", time.Since(begin), hyperagg.ErrorKind(err), err)

		return nil, err
	}

	mw.logger.Infof("method Run took: %s, %d records, %d keys, %d partitions",
		time.Since(begin), rep.Records, len(rep.Keys), rep.Partitions)

	return rep, nil
}

// Progress returns the progress collector of the next service.
func (mw LoggingMiddleware) Progress() *hyperagg.Progress {
	return mw.next.Progress()
}
