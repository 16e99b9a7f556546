package hyperagg

// Option is a function type that can be used to configure the `Aggregator` struct.
type Option func(*Aggregator)

// WithWorkers sets the degree of parallelism: the number of partitions the
// input is split into and of workers consuming them.
func WithWorkers(workers int) Option {
	return func(agg *Aggregator) {
		agg.workers = workers
	}
}

// WithStrategy selects how workers accumulate: "local" (per-worker tables
// merged at the end, the default) or "sharded" (one shared table locked per
// shard and per key).
func WithStrategy(name string) Option {
	return func(agg *Aggregator) {
		agg.strategy = name
	}
}

// WithReadBufferSize sets the per-partition read buffer, in bytes.
func WithReadBufferSize(size int) Option {
	return func(agg *Aggregator) {
		agg.readBufferSize = size
	}
}

// WithDelimiter sets the byte separating the key from the value.
func WithDelimiter(delimiter byte) Option {
	return func(agg *Aggregator) {
		agg.delimiter = delimiter
	}
}

// WithLogger sets the logger.
func WithLogger(logger Logger) Option {
	return func(agg *Aggregator) {
		if logger != nil {
			agg.logger = logger
		}
	}
}

// WithProgress sets the progress collector, letting a management server
// observe the run.
func WithProgress(progress *Progress) Option {
	return func(agg *Aggregator) {
		if progress != nil {
			agg.progress = progress
		}
	}
}
