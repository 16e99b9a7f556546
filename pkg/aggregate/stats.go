// Package aggregate reduces keyed observations into per-key running
// statistics.
//
// RunningStats is a commutative monoid under Merge: partial results built by
// independent workers combine losslessly in any order. Two tables are
// provided: LocalTable, owned by a single worker and never locked, and
// ShardedTable, shared by all workers with per-shard and per-key locking.
package aggregate

// RunningStats is the accumulator of one key during the accumulation phase.
// Sum is kept in double precision so that summing up to 10^9 single
// precision values does not drift.
type RunningStats struct {
	Min   float32
	Max   float32
	Sum   float64
	Count int64
}

// FinalStats is the immutable result for one key.
type FinalStats struct {
	Min   float32
	Mean  float32
	Max   float32
	Count int64
}

// NewRunningStats returns the accumulator of a key first seen with v.
func NewRunningStats(v float32) RunningStats {
	return RunningStats{Min: v, Max: v, Sum: float64(v), Count: 1}
}

// Add folds one observation into s.
func (s *RunningStats) Add(v float32) {
	if v < s.Min {
		s.Min = v
	}

	if v > s.Max {
		s.Max = v
	}

	s.Sum += float64(v)
	s.Count++
}

// Merge folds another accumulator of the same key into s.
func (s *RunningStats) Merge(o RunningStats) {
	if o.Count == 0 {
		return
	}

	if s.Count == 0 {
		*s = o

		return
	}

	if o.Min < s.Min {
		s.Min = o.Min
	}

	if o.Max > s.Max {
		s.Max = o.Max
	}

	s.Sum += o.Sum
	s.Count += o.Count
}

// Finalize divides once and returns the result for the key.
// The mean is clamped to [Min, Max] to absorb summation rounding.
func (s RunningStats) Finalize() FinalStats {
	mean := float32(s.Sum / float64(s.Count))
	if mean < s.Min {
		mean = s.Min
	}

	if mean > s.Max {
		mean = s.Max
	}

	return FinalStats{Min: s.Min, Mean: mean, Max: s.Max, Count: s.Count}
}
