// Package constants defines default configuration values for the hyperagg
// pipeline: the record layout, buffer sizes, table sharding and the output
// destination and formats.
package constants

const (
	// DefaultDelimiter separates the key from the value in a record.
	DefaultDelimiter = ';'
	// RecordTerminator ends a record. Partition boundaries are aligned on it.
	RecordTerminator = '\n'
	// DefaultOutputPath is the destination of the rendered summary when none is given.
	DefaultOutputPath = "output.txt"
	// DefaultReadBufferSize is the per-partition read buffer, in bytes.
	// It bounds the memory a worker needs regardless of the input size.
	DefaultReadBufferSize = 1 << 20
	// MinReadBufferSize is the smallest accepted read buffer.
	MinReadBufferSize = 16
	// MaxRecordSize is the longest record a scanner accepts before failing.
	// Lines longer than the read buffer are reassembled up to this size.
	MaxRecordSize = 1 << 16
	// ShardCount is the number of shards of the shared aggregation table.
	// Must be a power of two.
	ShardCount = 64
	// EstimatedKeys pre-sizes per-worker tables.
	EstimatedKeys = 1 << 12
	// DefaultFormat is the name of the default report encoder.
	DefaultFormat = "text"
	// JSONFormat is the name of the JSON report encoder.
	JSONFormat = "json"
	// MsgpackFormat is the name of the msgpack report encoder.
	MsgpackFormat = "msgpack"
	// CBORFormat is the name of the CBOR report encoder.
	CBORFormat = "cbor"
	// LocalStrategy accumulates into per-worker tables merged at the end.
	LocalStrategy = "local"
	// ShardedStrategy accumulates into one shared, sharded table.
	ShardedStrategy = "sharded"
)
