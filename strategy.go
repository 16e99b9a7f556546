package hyperagg

import (
	"github.com/hyp3rd/hyperagg/internal/constants"
	"github.com/hyp3rd/hyperagg/pkg/aggregate"
)

// accumulator hands each worker the table it reduces into and combines
// those tables once every worker is done.
type accumulator interface {
	table(worker int) aggregate.Table
	merge() aggregate.Table
}

// strategies holds the accumulation strategies by name.
//
//nolint:gochecknoglobals
var strategies = map[string]func(workers int) accumulator{
	constants.LocalStrategy:   newLocalAccumulator,
	constants.ShardedStrategy: newShardedAccumulator,
}

// Strategies returns the names of the available accumulation strategies.
func Strategies() []string {
	return []string{constants.LocalStrategy, constants.ShardedStrategy}
}

// localAccumulator gives every worker a private table, so the hot loop takes
// no lock at all, and folds the partial tables at the end.
type localAccumulator struct {
	tables []*aggregate.LocalTable
}

func newLocalAccumulator(workers int) accumulator {
	tables := make([]*aggregate.LocalTable, workers)
	for i := range tables {
		tables[i] = aggregate.NewLocalTable(constants.EstimatedKeys)
	}

	return &localAccumulator{tables: tables}
}

func (l *localAccumulator) table(worker int) aggregate.Table {
	return l.tables[worker]
}

func (l *localAccumulator) merge() aggregate.Table {
	partials := make([]aggregate.Table, len(l.tables))
	for i, t := range l.tables {
		partials[i] = t
	}

	return aggregate.MergeAll(partials...)
}

// shardedAccumulator shares one sharded table between all workers.
type shardedAccumulator struct {
	shared *aggregate.ShardedTable
}

func newShardedAccumulator(int) accumulator {
	return &shardedAccumulator{shared: aggregate.NewShardedTable()}
}

func (s *shardedAccumulator) table(int) aggregate.Table {
	return s.shared
}

func (s *shardedAccumulator) merge() aggregate.Table {
	return s.shared
}
