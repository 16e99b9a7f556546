// Package report turns an accumulated table into the final, ordered summary:
// it finalizes each key once, orders the keys and renders them as
// `{k1=min/mean/max,k2=min/mean/max,...}`.
package report

import (
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/hyp3rd/hyperagg/pkg/aggregate"
)

// Result maps every key to its finalized statistics. It is read-only.
type Result map[string]aggregate.FinalStats

// Finalize computes the mean of every key exactly once.
// It must only be called after every worker has stopped adding to t.
func Finalize(t aggregate.Table) Result {
	result := make(Result, t.Len())

	t.Range(func(key string, stats aggregate.RunningStats) bool {
		result[key] = stats.Finalize()

		return true
	})

	return result
}

// Keys returns the keys of r in ascending byte order.
func Keys(r Result) []string {
	return slices.Sorted(maps.Keys(r))
}

// Format renders the statistics of keys, in the given order.
// An empty key list renders as "{}".
func Format(keys []string, r Result) string {
	var sb strings.Builder

	// key + "=" + three values of roughly six bytes + separators
	sb.Grow(2 + len(keys)*24)
	sb.WriteByte('{')

	buf := make([]byte, 0, 64)
	for i, key := range keys {
		if i > 0 {
			sb.WriteByte(',')
		}

		stats := r[key]

		buf = buf[:0]
		buf = append(buf, key...)
		buf = append(buf, '=')
		buf = AppendValue(buf, stats.Min)
		buf = append(buf, '/')
		buf = AppendValue(buf, stats.Mean)
		buf = append(buf, '/')
		buf = AppendValue(buf, stats.Max)

		sb.Write(buf)
	}

	sb.WriteByte('}')

	return sb.String()
}

// AppendValue appends v with exactly one fractional digit, rounding half
// toward positive infinity. Negative zero renders as "0.0".
func AppendValue(dst []byte, v float32) []byte {
	return strconv.AppendFloat(dst, Round(v), 'f', 1, 64)
}

// Round rounds v to one fractional digit, half toward positive infinity.
func Round(v float32) float64 {
	r := math.Floor(float64(v)*10+0.5) / 10
	if r == 0 {
		// normalizes -0
		r = 0
	}

	return r
}
