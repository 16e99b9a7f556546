// Package sentinel provides the error definitions shared by the hyperagg
// components. Every failure of a run is classified as one of three kinds:
//   - ErrArgument: the command line was wrong, nothing was processed
//   - ErrIO: the input could not be read or the output could not be written
//   - ErrParse: a record was malformed, the run was aborted
//
// Call sites wrap these with ewrap so callers can classify with errors.Is.
package sentinel

import (
	"github.com/hyp3rd/ewrap"
)

var (
	// ErrArgument is returned when the command line does not name exactly one input.
	ErrArgument = ewrap.New("argument error")

	// ErrIO is returned when the input source is missing or unreadable, or the
	// output destination cannot be written.
	ErrIO = ewrap.New("io error")

	// ErrParse is returned when a record is malformed.
	ErrParse = ewrap.New("parse error")

	// ErrParamCannotBeEmpty is returned when a parameter cannot be empty.
	ErrParamCannotBeEmpty = ewrap.New("param cannot be empty")

	// ErrInvalidWorkers is returned when the degree of parallelism is not positive.
	ErrInvalidWorkers = ewrap.New("workers must be positive")

	// ErrInvalidBufferSize is returned when the read buffer is too small.
	ErrInvalidBufferSize = ewrap.New("invalid read buffer size")

	// ErrRecordTooLong is returned when a record exceeds the maximum record size.
	ErrRecordTooLong = ewrap.New("record too long")

	// ErrStrategyNotFound is returned when an unknown accumulation strategy is requested.
	ErrStrategyNotFound = ewrap.New("strategy not found")

	// ErrSerializerNotFound is returned when a report encoder is not found.
	ErrSerializerNotFound = ewrap.New("serializer not found")

	// ErrReportNotReady is returned when the report is requested before the run completed.
	ErrReportNotReady = ewrap.New("report not ready")

	// ErrMgmtHTTPShutdownTimeout is returned when the management HTTP server fails to shutdown before context deadline.
	ErrMgmtHTTPShutdownTimeout = ewrap.New("management http shutdown timeout")
)
