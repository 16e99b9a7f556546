package hyperagg

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/hyp3rd/ewrap"
	"github.com/longbridgeapp/assert"

	"github.com/hyp3rd/hyperagg/internal/sentinel"
	"github.com/hyp3rd/hyperagg/pkg/record"
)

func TestErrorKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "argument", err: ewrap.Wrap(sentinel.ErrArgument, "missing input"), want: KindArgument},
		{name: "io", err: ewrap.Wrapf(sentinel.ErrIO, "open %s", "x"), want: KindIO},
		{name: "parse", err: &record.ParseError{Record: "x", Reason: "missing delimiter"}, want: KindParse},
		{name: "record too long", err: fmt.Errorf("scan: %w", sentinel.ErrRecordTooLong), want: KindParse},
		{name: "canceled", err: ewrap.Wrap(context.Canceled, "partition 0 canceled"), want: KindCanceled},
		{name: "deadline", err: context.DeadlineExceeded, want: KindCanceled},
		{name: "other", err: errors.New("boom"), want: KindOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorKind(tt.err))
		})
	}
}
