// Package hyperagg computes per-key minimum, mean and maximum over very large
// `<key>;<value>` text inputs in a single parallel pass.
//
// The input is split into record-aligned byte ranges, one per worker. Each
// worker scans, parses and reduces its range; once every worker is done the
// partial tables are merged, every key is finalized once and the keys are
// sorted, producing a deterministic Report.
package hyperagg

import (
	"context"
	"errors"
	"io"
	"os"
	"runtime"
	"time"

	"github.com/hyp3rd/ewrap"
	"golang.org/x/sync/errgroup"

	"github.com/hyp3rd/hyperagg/internal/constants"
	"github.com/hyp3rd/hyperagg/internal/sentinel"
	"github.com/hyp3rd/hyperagg/pkg/aggregate"
	"github.com/hyp3rd/hyperagg/pkg/partition"
	"github.com/hyp3rd/hyperagg/pkg/record"
	"github.com/hyp3rd/hyperagg/pkg/report"
)

// cancelCheckMask sets how often, in records, a worker checks for cancellation
// and publishes its progress.
const cancelCheckMask = 1<<10 - 1

// Aggregator runs the aggregation pipeline. Runs are independent of each
// other; the progress collector tracks the latest one.
type Aggregator struct {
	workers        int
	readBufferSize int
	delimiter      byte
	strategy       string
	logger         Logger
	progress       *Progress
}

// New creates an aggregator. Without options it uses one worker per
// available CPU, per-worker tables and the `;` delimiter.
func New(options ...Option) (*Aggregator, error) {
	agg := &Aggregator{
		workers:        runtime.GOMAXPROCS(0),
		readBufferSize: constants.DefaultReadBufferSize,
		delimiter:      constants.DefaultDelimiter,
		strategy:       constants.LocalStrategy,
		logger:         nopLogger{},
		progress:       NewProgress(),
	}

	for _, option := range options {
		option(agg)
	}

	if agg.workers < 1 {
		return nil, ewrap.Wrapf(sentinel.ErrInvalidWorkers, "workers %d", agg.workers)
	}

	if agg.readBufferSize < constants.MinReadBufferSize {
		return nil, ewrap.Wrapf(sentinel.ErrInvalidBufferSize, "read buffer %d, minimum %d", agg.readBufferSize, constants.MinReadBufferSize)
	}

	_, ok := strategies[agg.strategy]
	if !ok {
		return nil, ewrap.Wrap(sentinel.ErrStrategyNotFound, agg.strategy)
	}

	return agg, nil
}

// Workers returns the degree of parallelism.
func (a *Aggregator) Workers() int {
	return a.workers
}

// Strategy returns the name of the accumulation strategy.
func (a *Aggregator) Strategy() string {
	return a.strategy
}

// Progress returns the collector tracking the runs of a.
func (a *Aggregator) Progress() *Progress {
	return a.progress
}

// Run aggregates the input at path. It fails with an error matching
// sentinel.ErrIO when the input cannot be read, and with a *record.ParseError
// (matching sentinel.ErrParse) on the first malformed record. On failure no
// Report is returned.
func (a *Aggregator) Run(ctx context.Context, path string) (*Report, error) {
	start := time.Now()

	rep, err := a.run(ctx, path, start)
	if err != nil {
		a.progress.fail(err)

		return nil, err
	}

	a.progress.complete(rep)

	return rep, nil
}

func (a *Aggregator) run(ctx context.Context, path string, start time.Time) (*Report, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, ewrap.Wrapf(sentinel.ErrIO, "open %s: %v", path, err)
	}

	defer func() { _ = file.Close() }()

	info, err := file.Stat()
	if err != nil {
		return nil, ewrap.Wrapf(sentinel.ErrIO, "stat %s: %v", path, err)
	}

	if info.IsDir() {
		return nil, ewrap.Wrapf(sentinel.ErrIO, "%s is a directory", path)
	}

	ranges, err := partition.Split(file, info.Size(), a.workers)
	if err != nil {
		return nil, err
	}

	a.logger.Infof("aggregating %s: %d bytes in %d partitions (%s strategy)", path, info.Size(), len(ranges), a.strategy)
	a.progress.begin(len(ranges), info.Size())

	acc := strategies[a.strategy](len(ranges))
	parser := record.NewParser(a.delimiter)

	group, groupCtx := errgroup.WithContext(ctx)
	for _, rng := range ranges {
		table := acc.table(rng.Index)

		group.Go(func() error {
			return a.consume(groupCtx, file, rng, parser, table)
		})
	}

	err = group.Wait()
	if err != nil {
		return nil, locate(file, err)
	}

	// Every worker has returned: the table is read-only from here on.
	table := acc.merge()
	result := report.Finalize(table)
	keys := report.Keys(result)

	return &Report{
		Path:       path,
		Keys:       keys,
		Result:     result,
		Records:    countRecords(result),
		Bytes:      info.Size(),
		Partitions: len(ranges),
		Elapsed:    time.Since(start),
	}, nil
}

// consume scans, parses and reduces one partition into table.
func (a *Aggregator) consume(ctx context.Context, src io.ReaderAt, rng partition.Range, parser record.Parser, table aggregate.Table) error {
	sc := partition.NewScanner(src, rng, a.readBufferSize)

	var n, published int64

	for sc.Scan() {
		if n&cancelCheckMask == 0 && n > 0 {
			a.progress.addRecords(n - published)
			published = n

			err := ctx.Err()
			if err != nil {
				return ewrap.Wrapf(err, "partition %d canceled", rng.Index)
			}
		}

		key, value, err := parser.Split(sc.Record())
		if err != nil {
			var perr *record.ParseError
			if errors.As(err, &perr) {
				perr.Offset = sc.Offset()
			}

			return err
		}

		table.Add(key, value)

		n++
	}

	err := sc.Err()
	if err != nil {
		return err
	}

	a.progress.addRecords(n - published)
	a.progress.partitionDone(rng.Len())

	return nil
}

func countRecords(result report.Result) int64 {
	var total int64
	for _, stats := range result {
		total += stats.Count
	}

	return total
}

// locate fills in the input line number of a parse error.
func locate(src io.ReaderAt, err error) error {
	var perr *record.ParseError
	if !errors.As(err, &perr) {
		return err
	}

	line, lerr := partition.LineAt(src, perr.Offset)
	if lerr == nil {
		perr.Line = line
	}

	return err
}
