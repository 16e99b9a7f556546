package hyperagg

import (
	"context"
	"errors"

	"github.com/hyp3rd/hyperagg/internal/sentinel"
)

const (
	// KindArgument classifies command line errors.
	KindArgument = "argument"
	// KindIO classifies input and output errors.
	KindIO = "io"
	// KindParse classifies malformed records.
	KindParse = "parse"
	// KindCanceled classifies runs stopped by their context.
	KindCanceled = "canceled"
	// KindOther classifies every other failure.
	KindOther = "other"
)

// ErrorKind classifies err. It returns "" for a nil error.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, sentinel.ErrArgument):
		return KindArgument
	case errors.Is(err, sentinel.ErrParse), errors.Is(err, sentinel.ErrRecordTooLong):
		return KindParse
	case errors.Is(err, sentinel.ErrIO):
		return KindIO
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return KindCanceled
	default:
		return KindOther
	}
}
