package hyperagg

import (
	"time"

	"github.com/hyp3rd/hyperagg/internal/libs/serializer"
	"github.com/hyp3rd/hyperagg/pkg/report"
)

// Report is the immutable outcome of a successful run.
type Report struct {
	Path       string
	Keys       []string
	Result     report.Result
	Records    int64
	Bytes      int64
	Partitions int
	Elapsed    time.Duration
}

// String renders the report as `{k=min/mean/max,...}`.
func (r *Report) String() string {
	return report.Format(r.Keys, r.Result)
}

// Summary returns the ordered entries of the report.
func (r *Report) Summary() report.Summary {
	return report.NewSummary(r.Keys, r.Result)
}

// Encode renders the report with the named encoder: "text", "json",
// "msgpack" or "cbor".
func (r *Report) Encode(format string) ([]byte, error) {
	enc, err := serializer.New(format)
	if err != nil {
		return nil, err
	}

	return enc.Marshal(r.Summary())
}
