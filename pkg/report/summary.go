package report

// Entry is the finalized statistics of one key, as exported by the
// structured encoders.
type Entry struct {
	Key   string  `codec:"key"   json:"key"   msgpack:"key"`
	Min   float64 `codec:"min"   json:"min"   msgpack:"min"`
	Mean  float64 `codec:"mean"  json:"mean"  msgpack:"mean"`
	Max   float64 `codec:"max"   json:"max"   msgpack:"max"`
	Count int64   `codec:"count" json:"count" msgpack:"count"`
}

// Summary is the ordered result of a run.
type Summary struct {
	Entries []Entry `codec:"entries" json:"entries" msgpack:"entries"`
	Records int64   `codec:"records" json:"records" msgpack:"records"`

	keys   []string
	result Result
}

// NewSummary builds the summary of r in the order of keys.
// Values are rounded with the same policy as the text rendering.
func NewSummary(keys []string, r Result) Summary {
	entries := make([]Entry, 0, len(keys))

	var records int64

	for _, key := range keys {
		stats := r[key]
		records += stats.Count

		entries = append(entries, Entry{
			Key:   key,
			Min:   Round(stats.Min),
			Mean:  Round(stats.Mean),
			Max:   Round(stats.Max),
			Count: stats.Count,
		})
	}

	return Summary{Entries: entries, Records: records, keys: keys, result: r}
}

// String renders the summary as `{k=min/mean/max,...}`.
func (s Summary) String() string {
	return Format(s.keys, s.result)
}
