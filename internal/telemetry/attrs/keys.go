// Package attrs provides reusable OpenTelemetry attribute key constants
// shared by the hyperagg middlewares.
package attrs

const (
	// AttrInputPath is the path of the input source of a run.
	AttrInputPath = "input.path"
	// AttrInputBytes is the size of the input source in bytes.
	AttrInputBytes = "input.bytes"
	// AttrPartitions is the number of partitions the input was split into.
	AttrPartitions = "partitions.count"
	// AttrRecords is the number of records aggregated.
	AttrRecords = "records.count"
	// AttrKeys is the number of distinct keys in the result.
	AttrKeys = "keys.count"
	// AttrErrorKind classifies a failed run: argument, io or parse.
	AttrErrorKind = "error.kind"
)
