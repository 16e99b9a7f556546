package hyperagg

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/hyp3rd/hyperagg/internal/sentinel"
)

// ProgressStats is a point-in-time view of a run.
type ProgressStats struct {
	Partitions     int64  `json:"partitions"`
	PartitionsDone int64  `json:"partitionsDone"`
	Bytes          int64  `json:"bytes"`
	BytesDone      int64  `json:"bytesDone"`
	Records        int64  `json:"records"`
	Running        bool   `json:"running"`
	Done           bool   `json:"done"`
	Error          string `json:"error,omitempty"`
	ErrorKind      string `json:"errorKind,omitempty"`
	Elapsed        string `json:"elapsed"`
}

// Progress collects the progress of the latest run. Workers publish record
// counts in batches so the counters stay off the hot path.
type Progress struct {
	partitions     atomic.Int64
	partitionsDone atomic.Int64
	bytes          atomic.Int64
	bytesDone      atomic.Int64
	records        atomic.Int64

	mu      sync.RWMutex // protects the fields below
	started time.Time
	ended   time.Time
	running bool
	report  *Report
	err     error
}

// NewProgress creates an idle progress collector.
func NewProgress() *Progress {
	return &Progress{}
}

func (p *Progress) begin(partitions int, size int64) {
	p.partitions.Store(int64(partitions))
	p.partitionsDone.Store(0)
	p.bytes.Store(size)
	p.bytesDone.Store(0)
	p.records.Store(0)

	p.mu.Lock()
	defer p.mu.Unlock()

	p.started = time.Now()
	p.ended = time.Time{}
	p.running = true
	p.report = nil
	p.err = nil
}

func (p *Progress) addRecords(n int64) {
	if n > 0 {
		p.records.Add(n)
	}
}

func (p *Progress) partitionDone(size int64) {
	p.partitionsDone.Add(1)
	p.bytesDone.Add(size)
}

func (p *Progress) complete(rep *Report) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.ended = time.Now()
	p.running = false
	p.report = rep
}

func (p *Progress) fail(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.ended = time.Now()
	p.running = false
	p.err = err
}

// GetStats returns the current progress.
func (p *Progress) GetStats() ProgressStats {
	stats := ProgressStats{
		Partitions:     p.partitions.Load(),
		PartitionsDone: p.partitionsDone.Load(),
		Bytes:          p.bytes.Load(),
		BytesDone:      p.bytesDone.Load(),
		Records:        p.records.Load(),
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	stats.Running = p.running
	stats.Done = p.report != nil

	if p.err != nil {
		stats.Error = p.err.Error()
		stats.ErrorKind = ErrorKind(p.err)
	}

	switch {
	case p.started.IsZero():
		stats.Elapsed = "0s"
	case p.running:
		stats.Elapsed = time.Since(p.started).String()
	default:
		stats.Elapsed = p.ended.Sub(p.started).String()
	}

	return stats
}

// Report returns the report of the latest run once it completed successfully.
func (p *Progress) Report() (*Report, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.err != nil {
		return nil, p.err
	}

	if p.report == nil {
		return nil, sentinel.ErrReportNotReady
	}

	return p.report, nil
}
