package aggregate

import (
	"sync"

	"github.com/cespare/xxhash/v2"

	"github.com/hyp3rd/hyperagg/internal/constants"
)

const (
	// ShardCount is the number of shards used by the table.
	ShardCount = constants.ShardCount
	// ShardCount64 is the number of shards pre-casted to uint64 for masking.
	ShardCount64 uint64 = uint64(ShardCount)
)

// ShardedTable is a table shared by many workers.
// Key insertion locks one shard; updating a key locks only that key, so
// independent keys never block each other and there is no table-wide lock.
type ShardedTable struct {
	shards []*Shard
}

// Shard is one independently locked slice of the key space.
type Shard struct {
	sync.RWMutex

	items map[string]*entry
}

// entry guards the four statistic fields of one key.
type entry struct {
	mu    sync.Mutex
	stats RunningStats
}

// NewShardedTable creates an empty sharded table.
func NewShardedTable() *ShardedTable {
	shards := make([]*Shard, ShardCount)
	for i := range ShardCount {
		shards[i] = &Shard{
			items: make(map[string]*entry),
		}
	}

	return &ShardedTable{shards: shards}
}

// GetShard returns the shard owning key.
func (t *ShardedTable) GetShard(key []byte) *Shard {
	return t.shards[getShardIndex(key)]
}

// getShardIndex hashes key with xxhash and masks it to a shard index.
func getShardIndex(key []byte) uint64 {
	return xxhash.Sum64(key) & (ShardCount64 - 1)
}

// Add folds value into the statistics of key.
func (t *ShardedTable) Add(key []byte, value float32) {
	shard := t.GetShard(key)

	shard.RLock()
	e, ok := shard.items[string(key)]
	shard.RUnlock()

	if !ok {
		shard.Lock()
		// Another worker may have inserted the key meanwhile.
		e, ok = shard.items[string(key)]
		if !ok {
			shard.items[string(key)] = &entry{stats: NewRunningStats(value)}
			shard.Unlock()

			return
		}

		shard.Unlock()
	}

	e.mu.Lock()
	e.stats.Add(value)
	e.mu.Unlock()
}

// Get returns a copy of the statistics of key.
func (t *ShardedTable) Get(key string) (RunningStats, bool) {
	shard := t.GetShard([]byte(key))

	shard.RLock()
	e, ok := shard.items[key]
	shard.RUnlock()

	if !ok {
		return RunningStats{}, false
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	return e.stats, true
}

// Len returns the number of distinct keys.
func (t *ShardedTable) Len() int {
	count := 0

	for _, shard := range t.shards {
		shard.RLock()

		count += len(shard.items)
		shard.RUnlock()
	}

	return count
}

// Range calls fn for every key until fn returns false.
// Each shard is copied under its read lock before fn is called.
func (t *ShardedTable) Range(fn func(key string, stats RunningStats) bool) {
	type pair struct {
		key   string
		stats RunningStats
	}

	for _, shard := range t.shards {
		shard.RLock()

		local := make([]pair, 0, len(shard.items))
		for k, e := range shard.items {
			e.mu.Lock()
			local = append(local, pair{key: k, stats: e.stats})
			e.mu.Unlock()
		}

		shard.RUnlock()

		for _, p := range local {
			if !fn(p.key, p.stats) {
				return
			}
		}
	}
}
