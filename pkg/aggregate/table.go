package aggregate

import "github.com/hyp3rd/hyperagg/internal/constants"

// Table maps keys to running statistics.
type Table interface {
	// Add folds value into the statistics of key. key is not retained.
	Add(key []byte, value float32)
	// Len returns the number of distinct keys.
	Len() int
	// Range calls fn for every key until fn returns false.
	// It must not run concurrently with Add.
	Range(fn func(key string, stats RunningStats) bool)
}

// LocalTable is a table owned by a single worker. It is not safe for
// concurrent use.
type LocalTable struct {
	items map[string]*RunningStats
}

// NewLocalTable returns an empty table sized for hint keys.
func NewLocalTable(hint int) *LocalTable {
	if hint <= 0 {
		hint = constants.EstimatedKeys
	}

	return &LocalTable{items: make(map[string]*RunningStats, hint)}
}

// Add folds value into the statistics of key.
func (t *LocalTable) Add(key []byte, value float32) {
	// The string conversion in the lookup does not allocate.
	if s, ok := t.items[string(key)]; ok {
		s.Add(value)

		return
	}

	s := NewRunningStats(value)
	t.items[string(key)] = &s
}

// Merge folds the statistics of key into the table.
func (t *LocalTable) Merge(key string, stats RunningStats) {
	if s, ok := t.items[key]; ok {
		s.Merge(stats)

		return
	}

	s := stats
	t.items[key] = &s
}

// Get returns the statistics of key.
func (t *LocalTable) Get(key string) (RunningStats, bool) {
	s, ok := t.items[key]
	if !ok {
		return RunningStats{}, false
	}

	return *s, true
}

// Len returns the number of distinct keys.
func (t *LocalTable) Len() int {
	return len(t.items)
}

// Range calls fn for every key until fn returns false.
func (t *LocalTable) Range(fn func(key string, stats RunningStats) bool) {
	for k, s := range t.items {
		if !fn(k, *s) {
			return
		}
	}
}

// MergeInto folds every key of src into dst.
func MergeInto(dst *LocalTable, src Table) {
	src.Range(func(key string, stats RunningStats) bool {
		dst.Merge(key, stats)

		return true
	})
}

// MergeAll folds tables into a new LocalTable. The order of tables does not
// affect the result.
func MergeAll(tables ...Table) *LocalTable {
	hint := 0
	for _, t := range tables {
		hint = max(hint, t.Len())
	}

	dst := NewLocalTable(hint)
	for _, t := range tables {
		MergeInto(dst, t)
	}

	return dst
}
