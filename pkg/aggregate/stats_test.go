package aggregate

import (
	"math/rand/v2"
	"testing"

	"github.com/longbridgeapp/assert"
)

func TestRunningStats_Add(t *testing.T) {
	s := NewRunningStats(5.5)
	s.Add(7.5)
	s.Add(-1)

	assert.Equal(t, float32(-1), s.Min)
	assert.Equal(t, float32(7.5), s.Max)
	assert.Equal(t, 12.0, s.Sum)
	assert.Equal(t, int64(3), s.Count)
}

func TestRunningStats_MergeEmpty(t *testing.T) {
	var empty RunningStats

	s := NewRunningStats(3)
	s.Merge(empty)
	assert.Equal(t, NewRunningStats(3), s)

	empty.Merge(NewRunningStats(4))
	assert.Equal(t, NewRunningStats(4), empty)
}

func TestRunningStats_MergeIsOrderIndependent(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))

	values := make([]float32, 1000)
	for i := range values {
		values[i] = float32(rng.IntN(2000)-1000) / 10
	}

	// Build partials over random cuts, then merge them forward and backward.
	var partials []RunningStats

	for start := 0; start < len(values); {
		end := min(len(values), start+1+rng.IntN(50))

		p := NewRunningStats(values[start])
		for _, v := range values[start+1 : end] {
			p.Add(v)
		}

		partials = append(partials, p)
		start = end
	}

	var forward, backward RunningStats
	for _, p := range partials {
		forward.Merge(p)
	}

	for i := len(partials) - 1; i >= 0; i-- {
		backward.Merge(partials[i])
	}

	assert.Equal(t, int64(len(values)), forward.Count)
	assert.Equal(t, forward.Count, backward.Count)
	assert.Equal(t, forward.Min, backward.Min)
	assert.Equal(t, forward.Max, backward.Max)
	assert.True(t, abs(forward.Sum-backward.Sum) < 1e-6)
}

func TestRunningStats_Finalize(t *testing.T) {
	s := NewRunningStats(10)
	s.Add(30)

	f := s.Finalize()
	assert.Equal(t, FinalStats{Min: 10, Mean: 20, Max: 30, Count: 2}, f)
}

func TestRunningStats_FinalizeClampsMean(t *testing.T) {
	// A sum that drifted below Count*Min must not yield mean < min.
	s := RunningStats{Min: 0.1, Max: 0.1, Sum: 0.0999, Count: 1}

	f := s.Finalize()
	assert.Equal(t, float32(0.1), f.Mean)
	assert.True(t, f.Min <= f.Mean && f.Mean <= f.Max)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}

	return v
}
