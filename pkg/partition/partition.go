// Package partition divides a delimited text input into independent,
// record-aligned byte ranges and streams the records of each range.
//
// The input is cut by byte offset into P segments. Every boundary but the
// first is then moved forward to the byte following the next record
// terminator, so a record always belongs to the range that contains its
// first byte and no range ever starts in the middle of a record.
//
// Example usage:
//
//	ranges, err := partition.Split(f, size, runtime.GOMAXPROCS(0))
//	for _, rng := range ranges {
//	    sc := partition.NewScanner(f, rng, constants.DefaultReadBufferSize)
//	    for sc.Scan() {
//	        // Process sc.Record()
//	    }
//	}
package partition

import (
	"bytes"
	"errors"
	"io"

	"github.com/hyp3rd/ewrap"

	"github.com/hyp3rd/hyperagg/internal/constants"
	"github.com/hyp3rd/hyperagg/internal/sentinel"
)

// probeSize is the chunk read while searching for the next terminator.
const probeSize = 4 << 10

// Range is a contiguous, record-aligned slice [Start, End) of the input.
type Range struct {
	Index int
	Start int64
	End   int64
}

// Len returns the number of bytes in the range.
func (r Range) Len() int64 {
	return r.End - r.Start
}

// Split returns exactly parts ranges covering [0, size) of src.
// Ranges may be empty when the input is smaller than parts or when a single
// record spans several segments.
func Split(src io.ReaderAt, size int64, parts int) ([]Range, error) {
	if parts < 1 {
		return nil, ewrap.Wrapf(sentinel.ErrInvalidWorkers, "parts %d", parts)
	}

	if size < 0 {
		return nil, ewrap.Wrapf(sentinel.ErrIO, "negative input size %d", size)
	}

	// Never look past size even if the underlying source grows.
	bounded := io.NewSectionReader(src, 0, size)

	bounds := make([]int64, parts+1)
	bounds[parts] = size

	probe := make([]byte, probeSize)

	for i := 1; i < parts; i++ {
		raw := size * int64(i) / int64(parts)
		if raw <= bounds[i-1] {
			bounds[i] = bounds[i-1]

			continue
		}

		next, err := nextRecordStart(bounded, raw, size, probe)
		if err != nil {
			return nil, err
		}

		bounds[i] = next
	}

	ranges := make([]Range, parts)
	for i := range parts {
		ranges[i] = Range{Index: i, Start: bounds[i], End: bounds[i+1]}
	}

	return ranges, nil
}

// nextRecordStart returns the smallest record start that is >= off.
// A record starts at 0 or right after a terminator; size counts as a start.
func nextRecordStart(src io.ReaderAt, off, size int64, probe []byte) (int64, error) {
	pos := off - 1
	for pos < size {
		n, err := src.ReadAt(probe, pos)
		if i := bytes.IndexByte(probe[:n], constants.RecordTerminator); i >= 0 {
			return pos + int64(i) + 1, nil
		}

		pos += int64(n)

		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}

			return 0, ewrap.Wrapf(sentinel.ErrIO, "probing boundary at %d: %v", off, err)
		}
	}

	return size, nil
}

// LineAt returns the 1-based line number of the record starting at offset.
// It scans the input prefix, so it belongs on failure paths only.
func LineAt(src io.ReaderAt, offset int64) (int64, error) {
	section := io.NewSectionReader(src, 0, offset)
	buf := make([]byte, probeSize)

	line := int64(1)

	for {
		n, err := section.Read(buf)
		line += int64(bytes.Count(buf[:n], []byte{constants.RecordTerminator}))

		if err != nil {
			if errors.Is(err, io.EOF) {
				return line, nil
			}

			return 0, ewrap.Wrapf(sentinel.ErrIO, "counting lines before %d: %v", offset, err)
		}
	}
}
